package runner

import (
	"fmt"
	"strconv"

	ftaerrors "fta/internal/errors"
	"fta/internal/metrics"
)

// ScoreCapError reports the files whose score is above the configured cap.
// Offenders are ordered highest score first.
type ScoreCapError struct {
	Cap       int
	Offenders []metrics.FileMetrics
}

func (e *ScoreCapError) Error() string {
	first := e.Offenders[0]
	msg := fmt.Sprintf("file %s has a score of %s, which is beyond the score cap of %d",
		first.FileName, strconv.FormatFloat(first.FTAScore, 'f', 2, 64), e.Cap)
	if extra := len(e.Offenders) - 1; extra > 0 {
		msg += fmt.Sprintf(" (and %d more)", extra)
	}
	return msg
}

// Unwrap exposes the SCORE_CAP_EXCEEDED code to ftaerrors.CodeOf.
func (e *ScoreCapError) Unwrap() error {
	return ftaerrors.New(ftaerrors.ScoreCapExceeded, "score cap exceeded", nil)
}

// checkScoreCap expects files sorted by sortResults.
func checkScoreCap(files []metrics.FileMetrics, scoreCap int) *ScoreCapError {
	var offenders []metrics.FileMetrics
	for _, f := range files {
		if f.FTAScore <= float64(scoreCap) {
			break
		}
		offenders = append(offenders, f)
	}
	if len(offenders) == 0 {
		return nil
	}
	return &ScoreCapError{Cap: scoreCap, Offenders: offenders}
}
