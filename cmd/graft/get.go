package main

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/graft"
)

// getCmd represents the get command
var getCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Read a value",
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

		value, ok, err := store.Get(context.Background(), key)
		if err != nil {
			fatal("Failed to get value", err)
		}
		if !ok {
			fmt.Fprintf(os.Stderr, "Key '%s' not found.\n", key)
			os.Exit(1)
		}

		if b, isBytes := value.([]byte); isBytes {
			fmt.Println(base64.StdEncoding.EncodeToString(b))
			return
		}
		fmt.Printf("%v\n", value)
	},
}

func init() {
	rootCmd.AddCommand(getCmd)
}
