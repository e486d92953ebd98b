package scoring

import "strings"

var stopwords = buildStopwords(
	"the", "a", "an", "is", "are", "am", "was", "were", "be", "been", "being",
	"of", "in", "to", "for", "with", "on", "at", "by", "about", "from", "into",
	"through", "during", "before", "after", "above", "below", "up", "down", "out",
	"over", "under", "again", "further", "then", "once", "here", "there", "when",
	"where", "why", "how", "all", "any", "both", "each", "few", "more", "most",
	"other", "some", "such", "no", "nor", "not", "only", "own", "same", "so",
	"than", "too", "very", "s", "t", "can", "will", "just", "don", "should", "now",
	"and", "but", "or", "because", "as", "until", "while", "against", "between", "off",
)

var punctuationReplacer = strings.NewReplacer(
	".", " ", ",", " ", "!", " ", "?", " ", ";", " ", ":", " ",
	`"`, " ", "'", " ", "(", " ", ")", " ", "{", " ", "}", " ", "[", " ", "]", " ",
)

func buildStopwords(words ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

func IsStopword(word string) bool {
	_, ok := stopwords[word]
	return ok
}

// Tokenize lowercases text, turns punctuation into spaces and drops
// stopwords. The returned tokens are never empty.
func Tokenize(text string) []string {
	cleaned := punctuationReplacer.Replace(strings.ToLower(strings.TrimSpace(text)))

	fields := strings.Fields(cleaned)
	tokens := fields[:0]
	for _, f := range fields {
		if IsStopword(f) {
			continue
		}
		tokens = append(tokens, f)
	}
	return tokens
}

// WordDiversity is the share of distinct meaningful tokens, or 0 when the
// text has none.
func WordDiversity(text string) float64 {
	tokens := Tokenize(text)
	if len(tokens) == 0 {
		return DegradedDefault
	}

	unique := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		unique[t] = struct{}{}
	}

	return clamp01(float64(len(unique)) / float64(len(tokens)))
}
