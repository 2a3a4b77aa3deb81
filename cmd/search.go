package main

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/morikuni/failure/v2"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/takatori/threadsearch/internal/errors"
	"github.com/takatori/threadsearch/internal/query"
	"github.com/takatori/threadsearch/internal/search"
	"github.com/takatori/threadsearch/internal/search/solr"
)

var (
	searchSaved  *string
	searchLimit  *int
	searchOffset *int
)

func init() {
	searchSaved = searchCmd.Flags().String("saved", "", "Name of a query in the saved queries file.")
	searchLimit = searchCmd.Flags().Int("limit", 10, "Maximum number of postings to return.")
	searchOffset = searchCmd.Flags().Int("offset", 0, "Number of postings to skip.")
	rootCmd.AddCommand(searchCmd)
}

var searchCmd = &cobra.Command{
	Use:   "search <collection> [file | --saved name]",
	Short: "Searches a collection with a JSON query tree or a saved query.",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		var q *query.Node
		var err error
		if *searchSaved != "" {
			q, err = savedQuery(config.SavedQueries, *searchSaved)
		} else {
			q, err = readQuery(cmd, args[1:])
		}
		if err != nil {
			return err
		}

		engine := solr.NewSolrEngine(config)
		result, err := engine.Search(cmd.Context(), args[0], q, search.Options{
			Limit:  *searchLimit,
			Offset: *searchOffset,
		})
		if err != nil {
			return err
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	},
}

func savedQuery(path, name string) (*query.Node, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	saved, err := query.ParseSavedYAML(data)
	if err != nil {
		return nil, err
	}
	q, ok := saved[name]
	if !ok {
		return nil, failure.New(
			errors.ErrNotFound,
			failure.Field(failure.Message("no such saved query")),
			failure.Context{
				"name":      name,
				"path":      path,
				"available": strings.Join(lo.Keys(saved), ","),
			},
		)
	}
	return q, nil
}
