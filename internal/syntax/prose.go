package syntax

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/jdkato/prose/v2"

	"github.com/wgomg/versa/internal/scoring"
)

// ProseParser segments English text and tags it with Penn Treebank
// part-of-speech tags.
type ProseParser struct{}

func NewProseParser() *ProseParser {
	return &ProseParser{}
}

func (p *ProseParser) Parse(text string) (*scoring.ParseResult, error) {
	doc, err := prose.NewDocument(text, prose.WithExtraction(false))
	if err != nil {
		return nil, fmt.Errorf("prose: %w", err)
	}

	result := &scoring.ParseResult{}
	for _, sent := range doc.Sentences() {
		if s := strings.TrimSpace(sent.Text); s != "" {
			result.Sentences = append(result.Sentences, s)
		}
	}

	for _, tok := range doc.Tokens() {
		if !isWord(tok.Text) {
			continue
		}
		result.Words++

		switch {
		case strings.HasPrefix(tok.Tag, "NN"):
			result.Nouns++
		case strings.HasPrefix(tok.Tag, "VB"):
			result.Verbs++
		}
	}

	return result, nil
}

func isWord(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return true
		}
	}
	return false
}
