// Package metrics computes Halstead metrics, cyclomatic complexity and the FTA
// score for one syntax tree. Every function here is pure and safe to call from
// many goroutines at once.
package metrics

// Category separates Halstead operators from operands.
type Category int

const (
	Operator Category = iota
	Operand
)

func (c Category) String() string {
	if c == Operator {
		return "operator"
	}
	return "operand"
}

// Lexeme is the identity of a token for uniqueness. Two tokens are the same
// unique token iff their lexemes are equal.
type Lexeme struct {
	// Class is "op" for operators, or the operand class (string, number, name, ...)
	Class string

	// Value is the operator symbol, literal text or name
	Value string
}

// Token is one classified occurrence.
type Token struct {
	Category Category
	Lexeme   Lexeme
}

// HalsteadMetrics contains the Halstead software science measures of a file.
type HalsteadMetrics struct {
	UniqOperators  int     `json:"uniq_operators"`
	UniqOperands   int     `json:"uniq_operands"`
	TotalOperators int     `json:"total_operators"`
	TotalOperands  int     `json:"total_operands"`
	ProgramLength  int     `json:"program_length"`
	VocabularySize int     `json:"vocabulary_size"`
	Volume         float64 `json:"volume"`
	Difficulty     float64 `json:"difficulty"`
	Effort         float64 `json:"effort"`
	Time           float64 `json:"time"`
	Bugs           float64 `json:"bugs"`
}

// Assessment is the qualitative label attached to an FTA score.
type Assessment string

const (
	NeedsImprovement Assessment = "Needs improvement"
	CouldBeBetter    Assessment = "Could be better"
	OK               Assessment = "OK"
)

// FileMetrics is the aggregate result for one compilation unit.
type FileMetrics struct {
	// FileName is attached by the caller that knows where the tree came from
	FileName string `json:"file_name,omitempty"`

	// Cyclo is the file-level cyclomatic complexity (>= 1)
	Cyclo int `json:"cyclo"`

	// Halstead holds the Halstead measures
	Halstead HalsteadMetrics `json:"halstead_metrics"`

	// LineCount is the physical line count supplied with the tree
	LineCount int `json:"line_count"`

	// FTAScore is the normalized composite score (>= 0)
	FTAScore float64 `json:"fta_score"`

	// Assessment is derived from FTAScore when the caller asks for it
	Assessment Assessment `json:"assessment,omitempty"`
}
