package report

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fta/internal/storage"
)

func TestWriteRuns(t *testing.T) {
	runs := []storage.Run{{
		ID:        "0f8fad5b-d9cb-469f-a165-70867728950e",
		Root:      "/repo",
		StartedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		FileCount: 4,
		MaxScore:  61.5,
		AvgScore:  30.25,
	}}

	var buf bytes.Buffer
	require.NoError(t, WriteRuns(&buf, runs, Table))
	for _, want := range []string{"Run", "Started", "0f8fad5b", "61.50", "30.25"} {
		assert.Contains(t, buf.String(), want)
	}
	assert.NotContains(t, buf.String(), "d9cb", "ids are shortened in the table")

	buf.Reset()
	require.NoError(t, WriteRuns(&buf, runs, JSON))
	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, runs[0].ID, decoded[0]["id"])
	assert.Equal(t, 4.0, decoded[0]["file_count"])

	assert.Error(t, WriteRuns(&buf, runs, CSV))
}

func TestWriteRunFiles(t *testing.T) {
	files := []storage.RunFile{
		{FileName: "src/a.ts", FTAScore: 42, Cyclo: 5, LineCount: 80},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteRunFiles(&buf, files, Table))
	for _, want := range []string{"File", "Cyclo", "src/a.ts", "42.00", "80"} {
		assert.Contains(t, buf.String(), want)
	}

	buf.Reset()
	require.NoError(t, WriteRunFiles(&buf, nil, JSON))
	assert.Equal(t, "[]\n", buf.String())
}
