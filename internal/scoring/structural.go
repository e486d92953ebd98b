package scoring

const (
	sentenceWeight = 0.5
	nounWeight     = 0.3
	verbWeight     = 0.2
)

// StructuralDensity rewards identifiable sentences, nouns and verbs relative
// to the parsed word count, so length alone does not raise the score.
func StructuralDensity(parsed *ParseResult) float64 {
	if parsed == nil || parsed.Words <= 0 {
		return DegradedDefault
	}

	weighted := sentenceWeight*float64(len(parsed.Sentences)) +
		nounWeight*float64(parsed.Nouns) +
		verbWeight*float64(parsed.Verbs)

	return clamp01(weighted / float64(parsed.Words))
}
