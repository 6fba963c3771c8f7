package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"fta/internal/config"
	"fta/internal/storage"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or clear the analysis cache",
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats [path]",
	Short: "Show the number of cached file results",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runCacheStats,
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear [path]",
	Short: "Remove every cached file result",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runCacheClear,
}

func init() {
	cacheCmd.AddCommand(cacheStatsCmd, cacheClearCmd)
	rootCmd.AddCommand(cacheCmd)
}

func withCache(cmd *cobra.Command, args []string, fn func(*storage.Cache) error) error {
	root := rootArg(args)
	cfg, err := config.LoadConfig(root, configPathFlag)
	if err != nil {
		return err
	}
	logger, closeLog, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	db, err := openDB(root, cfg, logger)
	if err != nil {
		return err
	}
	defer db.Close()

	cache, err := storage.NewCache(db)
	if err != nil {
		return err
	}
	defer cache.Close()
	return fn(cache)
}

func runCacheStats(cmd *cobra.Command, args []string) error {
	return withCache(cmd, args, func(c *storage.Cache) error {
		n, err := c.Count(cmd.Context())
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(cmd.OutOrStdout(), "%d cached file results\n", n)
		return err
	})
}

func runCacheClear(cmd *cobra.Command, args []string) error {
	return withCache(cmd, args, func(c *storage.Cache) error {
		n, err := c.Clear(cmd.Context())
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(cmd.OutOrStdout(), "Removed %d cached file results\n", n)
		return err
	})
}
