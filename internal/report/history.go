package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"fta/internal/storage"
)

type runJSON struct {
	ID        string    `json:"id"`
	Root      string    `json:"root"`
	StartedAt time.Time `json:"started_at"`
	FileCount int       `json:"file_count"`
	MaxScore  float64   `json:"max_score"`
	AvgScore  float64   `json:"avg_score"`
}

type runFileJSON struct {
	FileName  string  `json:"file_name"`
	FTAScore  float64 `json:"fta_score"`
	Cyclo     int     `json:"cyclo"`
	LineCount int     `json:"line_count"`
}

// WriteRuns renders recorded runs as a table or JSON. CSV is not supported.
func WriteRuns(w io.Writer, runs []storage.Run, format Format) error {
	switch format {
	case JSON:
		out := make([]runJSON, 0, len(runs))
		for _, r := range runs {
			out = append(out, runJSON(r))
		}
		return encodeIndented(w, out)
	case Table:
		rows := make([][]string, 0, len(runs))
		for _, r := range runs {
			rows = append(rows, []string{
				shortID(r.ID),
				r.StartedAt.Local().Format("2006-01-02 15:04:05"),
				strconv.Itoa(r.FileCount),
				formatScore(r.MaxScore),
				formatScore(r.AvgScore),
			})
		}
		return renderTable(w, []string{"Run", "Started", "Files", "Max Score", "Avg Score"}, rows, 2, 3, 4)
	default:
		return fmt.Errorf("format %q is not supported for history", format)
	}
}

// WriteRunFiles renders the files of one run as a table or JSON.
func WriteRunFiles(w io.Writer, files []storage.RunFile, format Format) error {
	switch format {
	case JSON:
		out := make([]runFileJSON, 0, len(files))
		for _, f := range files {
			out = append(out, runFileJSON(f))
		}
		return encodeIndented(w, out)
	case Table:
		rows := make([][]string, 0, len(files))
		for _, f := range files {
			rows = append(rows, []string{
				f.FileName,
				strconv.Itoa(f.LineCount),
				strconv.Itoa(f.Cyclo),
				formatScore(f.FTAScore),
			})
		}
		return renderTable(w, []string{"File", "Num. lines", "Cyclo", "FTA Score"}, rows, 1, 2, 3)
	default:
		return fmt.Errorf("format %q is not supported for history", format)
	}
}

// renderTable draws a plain bordered table with the given columns right aligned.
func renderTable(w io.Writer, headers []string, rows [][]string, numeric ...int) error {
	right := make(map[int]bool, len(numeric))
	for _, c := range numeric {
		right[c] = true
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case right[col]:
				return numberStyle
			}
			return cellStyle
		})
	_, err := fmt.Fprintln(w, t.String())
	return err
}

func encodeIndented(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
