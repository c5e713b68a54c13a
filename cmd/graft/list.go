package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/aretw0/graft"
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all keys",
	Run: func(cmd *cobra.Command, args []string) {
		store, err := graft.OpenStore(path,
			graft.WithAdapter(adapter),
			graft.WithLogger(slog.Default()),
		)
		if err != nil {
			fatal("Failed to open store", err)
		}

		keys, err := store.List(context.Background())
		if err != nil {
			fatal("Failed to list keys", err)
		}

		if len(keys) == 0 {
			fmt.Println("Store is empty.")
			return
		}
		for _, key := range keys {
			fmt.Println(key)
		}
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
