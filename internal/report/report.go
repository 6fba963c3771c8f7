// Package report renders analysis results as a terminal table, JSON or CSV.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"fta/internal/metrics"
)

// Format selects the output encoding.
type Format string

const (
	Table Format = "table"
	JSON  Format = "json"
	CSV   Format = "csv"
)

// Formats lists the accepted formats in help order.
var Formats = []Format{Table, JSON, CSV}

// ParseFormat validates a --format value.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown output format %q (want table, json or csv)", s)
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	numberStyle = cellStyle.Align(lipgloss.Right)
	footerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#64748B"))
)

func assessmentColor(a metrics.Assessment) (lipgloss.Color, bool) {
	switch a {
	case metrics.NeedsImprovement:
		return lipgloss.Color("#F87171"), true
	case metrics.CouldBeBetter:
		return lipgloss.Color("#FBBF24"), true
	case metrics.OK:
		return lipgloss.Color("#10B981"), true
	}
	return "", false
}

// Write renders files to w. elapsed is shown in the table footer only.
func Write(w io.Writer, files []metrics.FileMetrics, format Format, elapsed time.Duration) error {
	switch format {
	case Table:
		return writeTable(w, files, elapsed)
	case JSON:
		return writeJSON(w, files)
	case CSV:
		return writeCSV(w, files)
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

func writeTable(w io.Writer, files []metrics.FileMetrics, elapsed time.Duration) error {
	rows := make([][]string, 0, len(files))
	for _, f := range files {
		rows = append(rows, []string{
			f.FileName,
			strconv.Itoa(f.LineCount),
			formatScore(f.FTAScore),
			string(f.Assessment),
		})
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("File", "Num. lines", "FTA Score", "Assessment").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == 1 || col == 2:
				return numberStyle
			case col == 3 && row >= 0 && row < len(files):
				if c, ok := assessmentColor(files[row].Assessment); ok {
					return cellStyle.Foreground(c)
				}
			}
			return cellStyle
		})

	_, err := fmt.Fprintf(w, "%s\n%s\n", t.String(), footerStyle.Render(footer(len(files), elapsed)))
	return err
}

func footer(n int, elapsed time.Duration) string {
	noun := "files"
	if n == 1 {
		noun = "file"
	}
	return fmt.Sprintf("%d %s analyzed in %.4fs.", n, noun, elapsed.Seconds())
}

func writeJSON(w io.Writer, files []metrics.FileMetrics) error {
	if files == nil {
		files = []metrics.FileMetrics{}
	}
	return encodeIndented(w, files)
}

var csvHeader = []string{
	"file_name", "line_count", "cyclo",
	"halstead_volume", "halstead_difficulty", "halstead_effort", "halstead_bugs",
	"fta_score", "assessment",
}

func writeCSV(w io.Writer, files []metrics.FileMetrics) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, f := range files {
		record := []string{
			f.FileName,
			strconv.Itoa(f.LineCount),
			strconv.Itoa(f.Cyclo),
			formatFloat(f.Halstead.Volume),
			formatFloat(f.Halstead.Difficulty),
			formatFloat(f.Halstead.Effort),
			formatFloat(f.Halstead.Bugs),
			formatFloat(f.FTAScore),
			string(f.Assessment),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
