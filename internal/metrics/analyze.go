package metrics

import "fta/internal/syntax"

// Analyze computes the metrics for one parsed compilation unit. lineCount is
// taken as final; the caller decides how lines are counted.
func Analyze(tree *syntax.Node, lineCount int) FileMetrics {
	cyclo := Cyclomatic(tree)
	halstead := Halstead(tree)

	return FileMetrics{
		Cyclo:     cyclo,
		Halstead:  halstead,
		LineCount: lineCount,
		FTAScore:  Score(lineCount, cyclo, halstead.VocabularySize),
	}
}

// AnalyzeNamed is Analyze plus the file name and assessment a report needs.
func AnalyzeNamed(fileName string, tree *syntax.Node, lineCount int) FileMetrics {
	fm := Analyze(tree, lineCount)
	fm.FileName = fileName
	fm.Assessment = Assess(fm.FTAScore)
	return fm
}
