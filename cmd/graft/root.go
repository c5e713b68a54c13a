package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var (
	verbose bool
	adapter string
	path    string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "graft",
	Short: "An observable property store backed by pluggable key-value adapters",
	Long: `Graft manages primitive key-value state the way its model runtime sees it.
Values are typed (string, int, float, bool, bytes) and survive the round trip
through the memory, file, SQLite and HTTP adapters.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}

		opts := &slog.HandlerOptions{
			Level: level,
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, opts))
		slog.SetDefault(logger)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&adapter, "adapter", "file", "Store adapter (mem, file, sqlite, http)")
	rootCmd.PersistentFlags().StringVar(&path, "path", "graft.yaml", "Store location (file path, SQLite path or base URL)")
}
