package main

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/aretw0/graft"
	"github.com/aretw0/graft/pkg/core"
)

// watchCmd represents the watch command
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Stream external changes to the store",
	Long:  `Print one line per key changed outside this process. Only adapters that support watching (file) can be watched.`,
	Run: func(cmd *cobra.Command, args []string) {
		store, err := graft.OpenStore(path,
			graft.WithAdapter(adapter),
			graft.WithLogger(slog.Default()),
		)
		if err != nil {
			fatal("Failed to open store", err)
		}

		w, ok := store.(core.Watchable)
		if !ok {
			fatal("Watch not supported", fmt.Errorf("adapter %q cannot watch", adapter))
		}

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		events, err := w.Watch(ctx)
		if err != nil {
			fatal("Failed to start watching", err)
		}

		fmt.Println("Watching for changes (Ctrl+C to stop)...")
		for event := range events {
			fmt.Println(event.String())
		}
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
