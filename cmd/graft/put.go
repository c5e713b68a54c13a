package main

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/aretw0/graft"
)

var putKind string

// putCmd represents the put command
var putCmd = &cobra.Command{
	Use:   "put <key> <value>",
	Short: "Write a typed value",
	Long:  `Store a value under a key. The --kind flag controls how the value literal is parsed.`,
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		key, literal := args[0], args[1]

		value, err := parseLiteral(putKind, literal)
		if err != nil {
			fatal("Failed to parse value", err)
		}

		store, err := graft.OpenStore(path,
			graft.WithAdapter(adapter),
			graft.WithLogger(slog.Default()),
		)
		if err != nil {
			fatal("Failed to open store", err)
		}

		if err := store.Put(context.Background(), key, value); err != nil {
			fatal("Failed to put value", err)
		}

		fmt.Printf("Key '%s' written (%s).\n", key, putKind)
	},
}

// parseLiteral converts a CLI value literal into the canonical primitive for
// a kind. Bytes literals are base64.
func parseLiteral(kind, literal string) (any, error) {
	switch graft.Kind(kind) {
	case graft.KindString:
		return literal, nil
	case graft.KindInt:
		return strconv.ParseInt(literal, 10, 64)
	case graft.KindFloat:
		return strconv.ParseFloat(literal, 64)
	case graft.KindBool:
		return strconv.ParseBool(literal)
	case graft.KindBytes:
		return base64.StdEncoding.DecodeString(literal)
	}
	return nil, fmt.Errorf("unknown kind %q", kind)
}

func init() {
	rootCmd.AddCommand(putCmd)
	putCmd.Flags().StringVarP(&putKind, "kind", "k", "string", "Value kind (string, int, float, bool, bytes)")
}
