package scoring

import "math"

// CosineSimilarity returns dot(a,b)/(|a||b|) in [-1,1]. Empty, zero-magnitude
// or mismatched-length vectors give 0.
func CosineSimilarity(a, b []float64) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, magA, magB float64
	for i := range a {
		dot += a[i] * b[i]
		magA += a[i] * a[i]
		magB += b[i] * b[i]
	}

	if magA == 0 || magB == 0 {
		return 0
	}

	return dot / (math.Sqrt(magA) * math.Sqrt(magB))
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(0, math.Min(1, v))
}

// toUnit maps a similarity in [-1,1] (or a difference in [-2,2] shifted by
// one) onto [0,1].
func toUnit(similarity float64) float64 {
	return clamp01((similarity + 1) / 2)
}

func percent(subScore float64) int {
	return int(math.Round(clamp01(subScore) * 100))
}
