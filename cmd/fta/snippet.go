package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"fta/internal/binding"
	ftaerrors "fta/internal/errors"
	"fta/internal/parse"
)

var snippetTSX bool

var snippetCmd = &cobra.Command{
	Use:   "snippet [file]",
	Short: "Score a single snippet read from a file or stdin",
	Long: `Score one piece of source code and print a JSON object with the
line_count, cyclo, halstead_metrics and fta_score fields.

Examples:
  echo 'const x = a ? b : c;' | fta snippet
  fta snippet --tsx component.txt`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSnippet,
}

func init() {
	snippetCmd.Flags().BoolVar(&snippetTSX, "tsx", false, "Parse as TSX/JSX first")
	rootCmd.AddCommand(snippetCmd)
}

func runSnippet(cmd *cobra.Command, args []string) error {
	var source []byte
	var err error
	if len(args) == 1 {
		source, err = os.ReadFile(args[0])
	} else {
		source, err = io.ReadAll(cmd.InOrStdin())
	}
	if err != nil {
		return ftaerrors.New(ftaerrors.IOError, "read snippet", err)
	}

	dialect := parse.TypeScript
	if snippetTSX {
		dialect = parse.TSX
	}
	out, err := binding.AnalyzeSnippet(cmd.Context(), string(source), dialect)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), out)
	return err
}
