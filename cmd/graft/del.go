package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/aretw0/graft"
)

// delCmd represents the del command
var delCmd = &cobra.Command{
	Use:   "del <key>",
	Short: "Remove a key",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		key := args[0]

		store, err := graft.OpenStore(path,
			graft.WithAdapter(adapter),
			graft.WithLogger(slog.Default()),
		)
		if err != nil {
			fatal("Failed to open store", err)
		}

		if err := store.Delete(context.Background(), key); err != nil {
			fatal("Failed to delete key", err)
		}

		fmt.Printf("Key '%s' removed.\n", key)
	},
}

func init() {
	rootCmd.AddCommand(delCmd)
}
