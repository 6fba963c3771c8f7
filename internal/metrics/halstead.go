package metrics

import (
	"math"

	"fta/internal/syntax"
)

// Halstead formula constants.
const (
	// TimeConstant is the Stroud number, seconds per elementary mental discrimination.
	TimeConstant = 18.0
	// BugConstant is the volume per delivered bug.
	BugConstant = 3000.0
)

// accumulator folds a token stream into unique sets and occurrence totals.
type accumulator struct {
	operators      map[Lexeme]struct{}
	operands       map[Lexeme]struct{}
	totalOperators int
	totalOperands  int
}

func newAccumulator() *accumulator {
	return &accumulator{
		operators: make(map[Lexeme]struct{}),
		operands:  make(map[Lexeme]struct{}),
	}
}

func (a *accumulator) add(tokens []Token) {
	for _, t := range tokens {
		if t.Category == Operator {
			a.operators[t.Lexeme] = struct{}{}
			a.totalOperators++
		} else {
			a.operands[t.Lexeme] = struct{}{}
			a.totalOperands++
		}
	}
}

func (a *accumulator) metrics() HalsteadMetrics {
	return NewHalsteadMetrics(len(a.operators), len(a.operands), a.totalOperators, a.totalOperands)
}

// Halstead walks every node of the tree once and returns its Halstead metrics.
func Halstead(root *syntax.Node) HalsteadMetrics {
	acc := newAccumulator()
	syntax.Walk(root, func(n *syntax.Node) bool {
		acc.add(Classify(n))
		return true
	})
	return acc.metrics()
}

// NewHalsteadMetrics derives the full metric set from the four base counts.
// Volume is 0 for an empty vocabulary and difficulty is 0 without operands.
func NewHalsteadMetrics(uniqOperators, uniqOperands, totalOperators, totalOperands int) HalsteadMetrics {
	length := totalOperators + totalOperands
	vocabulary := uniqOperators + uniqOperands

	var volume float64
	if vocabulary > 0 {
		volume = float64(length) * math.Log2(float64(vocabulary))
	}

	var difficulty float64
	if uniqOperands > 0 {
		difficulty = (float64(uniqOperators) / 2) * (float64(totalOperands) / float64(uniqOperands))
	}

	effort := difficulty * volume

	return HalsteadMetrics{
		UniqOperators:  uniqOperators,
		UniqOperands:   uniqOperands,
		TotalOperators: totalOperators,
		TotalOperands:  totalOperands,
		ProgramLength:  length,
		VocabularySize: vocabulary,
		Volume:         volume,
		Difficulty:     difficulty,
		Effort:         effort,
		Time:           effort / TimeConstant,
		Bugs:           volume / BugConstant,
	}
}
