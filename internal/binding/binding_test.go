//go:build cgo

package binding

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ftaerrors "fta/internal/errors"
	"fta/internal/metrics"
	"fta/internal/parse"
)

const switchSnippet = `function f(x) {
  switch (x) {
    case 1:
      return "a";
    case 2:
      return "b";
  }
}
`

func TestAnalyzeSnippet_Fields(t *testing.T) {
	out, err := AnalyzeSnippet(context.Background(), switchSnippet, parse.TypeScript)
	require.NoError(t, err)

	var decoded map[string]json.RawMessage
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))

	keys := make([]string, 0, len(decoded))
	for k := range decoded {
		keys = append(keys, k)
	}
	assert.ElementsMatch(t, []string{"line_count", "cyclo", "halstead_metrics", "fta_score"}, keys)
}

func TestAnalyze_Values(t *testing.T) {
	payload, err := Analyze(context.Background(), switchSnippet, parse.TypeScript)
	require.NoError(t, err)

	assert.Equal(t, 8, payload.LineCount)
	assert.Equal(t, 3, payload.Cyclo)
	assert.Equal(t, metrics.Score(payload.LineCount, payload.Cyclo, payload.Halstead.VocabularySize), payload.FTAScore)
	assert.Equal(t, payload.Halstead.UniqOperators+payload.Halstead.UniqOperands, payload.Halstead.VocabularySize)
}

func TestAnalyze_CommentsNotCounted(t *testing.T) {
	plain, err := Analyze(context.Background(), switchSnippet, parse.TypeScript)
	require.NoError(t, err)

	commented, err := Analyze(context.Background(), "// leading comment\n/*\n * block\n */\n"+switchSnippet, parse.TypeScript)
	require.NoError(t, err)
	assert.Equal(t, plain.LineCount, commented.LineCount)
	assert.Equal(t, plain.Halstead, commented.Halstead)
}

func TestAnalyze_TSXFallback(t *testing.T) {
	payload, err := Analyze(context.Background(), "const el = <div>{name}</div>;\n", parse.TypeScript)
	require.NoError(t, err)
	assert.Equal(t, 1, payload.Cyclo)
}

func TestAnalyzeSnippet_ParseError(t *testing.T) {
	out, err := AnalyzeSnippet(context.Background(), "function {", parse.TypeScript)
	require.Error(t, err)
	assert.Empty(t, out, "no default payload on failure")
	assert.True(t, errors.Is(err, ErrParse))
	assert.Equal(t, ftaerrors.ParseFailed, ftaerrors.CodeOf(err))
}

func TestAnalyzeSnippet_Empty(t *testing.T) {
	payload, err := Analyze(context.Background(), "", parse.TypeScript)
	require.NoError(t, err)
	assert.Equal(t, 0, payload.LineCount)
	assert.Equal(t, 1, payload.Cyclo)
	assert.Equal(t, 0.0, payload.FTAScore)
}
