package metrics

import "math"

// Assessment thresholds. Both are exclusive: a score of exactly 60 is
// "Could be better" and exactly 50 is "OK".
const (
	NeedsImprovementAbove = 60.0
	CouldBeBetterAbove    = 50.0
)

// Score combines line count, cyclomatic complexity and Halstead vocabulary
// into the FTA score. The result is never negative and never NaN; an empty
// vocabulary scores 0.
func Score(lineCount, cyclo, vocabulary int) float64 {
	if vocabulary <= 0 {
		return 0
	}

	cycloF := float64(cyclo)
	lnCyclo := math.Log(cycloF)

	factor := 1.0
	if lnCyclo >= 1.0 {
		factor = float64(lineCount) / lnCyclo
	}

	absolute := 171.0 - 5.2*math.Log(float64(vocabulary)) - 0.23*cycloF - 16.2*math.Log(factor)
	score := 100.0 - (absolute * 100.0 / 171.0)

	// A zero line count with cyclo >= e makes ln(factor) -Inf, and the score with it.
	if math.IsNaN(score) || score < 0 {
		return 0
	}
	return score
}

// Assess maps a score to its label.
func Assess(score float64) Assessment {
	switch {
	case score > NeedsImprovementAbove:
		return NeedsImprovement
	case score > CouldBeBetterAbove:
		return CouldBeBetter
	default:
		return OK
	}
}
