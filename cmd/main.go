package main

import (
	"log"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/takatori/threadsearch/internal"
	"github.com/takatori/threadsearch/internal/forum"
	"github.com/takatori/threadsearch/internal/harvest"
	"github.com/takatori/threadsearch/internal/search/solr"
	"github.com/takatori/threadsearch/internal/store"
)

var config *internal.Config

var rootCmd = &cobra.Command{
	Use:   "threadsearch",
	Short: "Harvests forum threads into Solr and searches them with boolean query trees.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		config, err = internal.LoadConfig()
		if err != nil {
			return err
		}
		slog.SetDefault(internal.NewLogger(config))
		return nil
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

// app wires the long-lived components shared by the subcommands.
type app struct {
	engine    *solr.SolrEngine
	store     *store.Store
	harvester *harvest.Harvester
}

func newApp() (*app, error) {
	st, err := store.Open(config.DBPath)
	if err != nil {
		return nil, err
	}
	engine := solr.NewSolrEngine(config)
	return &app{
		engine:    engine,
		store:     st,
		harvester: harvest.NewHarvester(config, forum.NewClient(config), engine, st),
	}, nil
}

func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		slog.Warn("failed to close store", "err", err)
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
