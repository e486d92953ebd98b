package syntax

import (
	"fmt"
	"strings"

	"github.com/ikawaha/kagome-dict/ipa"
	"github.com/ikawaha/kagome/v2/tokenizer"

	"github.com/wgomg/versa/internal/scoring"
)

const (
	posNoun   = "名詞"
	posVerb   = "動詞"
	posSymbol = "記号"
)

// KagomeParser handles Japanese verse (haiku, tanka) with the IPA
// dictionary.
type KagomeParser struct {
	tok *tokenizer.Tokenizer
}

func NewKagomeParser() (*KagomeParser, error) {
	t, err := tokenizer.New(ipa.Dict(), tokenizer.OmitBosEos())
	if err != nil {
		return nil, fmt.Errorf("kagome: %w", err)
	}
	return &KagomeParser{tok: t}, nil
}

func (p *KagomeParser) Parse(text string) (*scoring.ParseResult, error) {
	result := &scoring.ParseResult{
		Sentences: splitJapaneseSentences(text),
	}

	for _, tok := range p.tok.Tokenize(text) {
		pos := tok.POS()
		if len(pos) == 0 || strings.TrimSpace(tok.Surface) == "" {
			continue
		}

		switch pos[0] {
		case posSymbol:
			continue
		case posNoun:
			result.Nouns++
		case posVerb:
			result.Verbs++
		}
		result.Words++
	}

	return result, nil
}

func splitJapaneseSentences(text string) []string {
	parts := strings.FieldsFunc(text, func(r rune) bool {
		switch r {
		case '。', '！', '？', '!', '?', '\n':
			return true
		}
		return false
	})

	sentences := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			sentences = append(sentences, s)
		}
	}
	return sentences
}
