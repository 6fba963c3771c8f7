package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"fta/internal/config"
	ftaerrors "fta/internal/errors"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write a default fta.json",
	Long:  "Creates fta.json with the default configuration at the project root",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runInit,
}

func init() {
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "Overwrite an existing fta.json")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	path := filepath.Join(rootArg(args), config.FileName)
	out := cmd.OutOrStdout()

	if _, err := os.Stat(path); err == nil && !initForce {
		// Already initialized is success
		fmt.Fprintf(out, "Configuration already exists at %s\n", path)
		fmt.Fprintln(out, "Run 'fta init --force' to overwrite it.")
		return nil
	}

	if err := config.DefaultConfig().Save(path); err != nil {
		return ftaerrors.New(ftaerrors.IOError, "write "+config.FileName, err)
	}
	fmt.Fprintf(out, "Wrote default configuration to %s\n", path)
	return nil
}
