package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/takatori/threadsearch/internal/harvest"
)

func init() {
	rootCmd.AddCommand(updateCmd)
}

var updateCmd = &cobra.Command{
	Use:   "update [threadID...]",
	Short: "Tracks the given threads and keeps re-harvesting every tracked thread.",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		for _, arg := range args {
			threadID, err := strconv.ParseInt(arg, 10, 64)
			if err != nil {
				return err
			}
			if err := a.store.TrackThread(ctx, threadID); err != nil {
				return err
			}
		}

		slog.InfoContext(ctx, "starting updater", "interval", config.UpdateInterval.String())
		return harvest.NewUpdater(a.harvester, a.store, config.UpdateInterval).Run(ctx)
	},
}
