// Package binding exposes single-snippet analysis with the same JSON payload
// the published web binding returns.
package binding

import (
	"context"
	"encoding/json"
	"errors"

	ftaerrors "fta/internal/errors"
	"fta/internal/metrics"
	"fta/internal/parse"
)

// ErrParse is returned when the snippet does not parse in either dialect.
var ErrParse = errors.New("unable to parse module")

// Payload is the snippet result. It carries exactly these four fields.
type Payload struct {
	LineCount int                     `json:"line_count"`
	Cyclo     int                     `json:"cyclo"`
	Halstead  metrics.HalsteadMetrics `json:"halstead_metrics"`
	FTAScore  float64                 `json:"fta_score"`
}

// Analyze parses source and scores it. Comment-only lines are not counted.
func Analyze(ctx context.Context, source string, dialect parse.Dialect) (*Payload, error) {
	p := parse.NewParser()
	defer p.Close()

	res, _, err := p.ParseWithFallback(ctx, []byte(source), dialect)
	if err != nil {
		if errors.Is(err, parse.ErrSyntax) {
			return nil, ftaerrors.New(ftaerrors.ParseFailed, ErrParse.Error(), errors.Join(ErrParse, err))
		}
		return nil, err
	}

	fm := metrics.Analyze(res.Tree, res.LineCount(false))
	return &Payload{
		LineCount: fm.LineCount,
		Cyclo:     fm.Cyclo,
		Halstead:  fm.Halstead,
		FTAScore:  fm.FTAScore,
	}, nil
}

// AnalyzeSnippet is Analyze encoded as a JSON object.
func AnalyzeSnippet(ctx context.Context, source string, dialect parse.Dialect) (string, error) {
	payload, err := Analyze(ctx, source, dialect)
	if err != nil {
		return "", err
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return "", ftaerrors.New(ftaerrors.InternalError, "encode payload", err)
	}
	return string(data), nil
}
