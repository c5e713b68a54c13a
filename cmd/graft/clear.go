package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/aretw0/graft"
)

// clearCmd represents the clear command
var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every key",
	Run: func(cmd *cobra.Command, args []string) {
		store, err := graft.OpenStore(path,
			graft.WithAdapter(adapter),
			graft.WithLogger(slog.Default()),
		)
		if err != nil {
			fatal("Failed to open store", err)
		}

		if err := store.Clear(context.Background()); err != nil {
			fatal("Failed to clear store", err)
		}

		fmt.Println("Store cleared.")
	},
}

func init() {
	rootCmd.AddCommand(clearCmd)
}
