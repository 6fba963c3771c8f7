package report

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fta/internal/metrics"
)

func sampleFiles() []metrics.FileMetrics {
	return []metrics.FileMetrics{
		{
			FileName:   "src/big.ts",
			Cyclo:      12,
			Halstead:   metrics.NewHalsteadMetrics(20, 40, 120, 140),
			LineCount:  240,
			FTAScore:   64.123,
			Assessment: metrics.NeedsImprovement,
		},
		{
			FileName:   "src/small.ts",
			Cyclo:      1,
			Halstead:   metrics.NewHalsteadMetrics(3, 4, 5, 6),
			LineCount:  8,
			FTAScore:   12.5,
			Assessment: metrics.OK,
		},
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input   string
		want    Format
		wantErr bool
	}{
		{"table", Table, false},
		{"JSON", JSON, false},
		{" csv ", CSV, false},
		{"xml", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseFormat(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWrite_Table(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, sampleFiles(), Table, 1500*time.Millisecond))

	out := buf.String()
	for _, want := range []string{
		"File", "Num. lines", "FTA Score", "Assessment",
		"src/big.ts", "240", "64.12", "Needs improvement",
		"src/small.ts", "12.50", "OK",
		"2 files analyzed in 1.5000s.",
	} {
		assert.Contains(t, out, want)
	}
	assert.Less(t, strings.Index(out, "src/big.ts"), strings.Index(out, "src/small.ts"), "row order is preserved")
}

func TestWrite_TableSingleAndEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, sampleFiles()[:1], Table, 0))
	assert.Contains(t, buf.String(), "1 file analyzed in")

	buf.Reset()
	require.NoError(t, Write(&buf, nil, Table, 0))
	assert.Contains(t, buf.String(), "0 files analyzed in")
}

func TestWrite_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, sampleFiles(), JSON, time.Second))

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 2)
	assert.Equal(t, "src/big.ts", decoded[0]["file_name"])
	assert.Equal(t, "Needs improvement", decoded[0]["assessment"])
	assert.Contains(t, decoded[0], "halstead_metrics")

	buf.Reset()
	require.NoError(t, Write(&buf, nil, JSON, 0))
	assert.Equal(t, "[]\n", buf.String())
}

func TestWrite_CSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, sampleFiles(), CSV, time.Second))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, csvHeader, records[0])
	assert.Equal(t, "src/big.ts", records[1][0])
	assert.Equal(t, "240", records[1][1])
	assert.Equal(t, "12", records[1][2])
	assert.Equal(t, "64.123", records[1][7])
	assert.Equal(t, "OK", records[2][8])
}

func TestWrite_UnknownFormat(t *testing.T) {
	assert.Error(t, Write(&bytes.Buffer{}, nil, Format("xml"), 0))
}
