package scoring

import "math"

// Aggregate combines the sub-scores with the fixed weights into a result.
func Aggregate(s SubScores) *Result {
	raw := clamp01(s.WordDiversity)*WeightWordDiversity +
		clamp01(s.StructuralDensity)*WeightStructuralDensity +
		clamp01(s.Sentiment)*WeightSentiment +
		clamp01(s.ThemeMatch)*WeightThemeMatch +
		clamp01(s.Cohesion)*WeightCohesion

	score := int(math.Round(raw))
	score = max(0, min(MaxScore, score))

	return &Result{
		Score: score,
		Breakdown: &Breakdown{
			WordDiversity:     percent(s.WordDiversity),
			StructuralDensity: percent(s.StructuralDensity),
			Sentiment:         percent(s.Sentiment),
			ThemeMatch:        percent(s.ThemeMatch),
			Cohesion:          percent(s.Cohesion),
		},
		SubScores: s,
	}
}
