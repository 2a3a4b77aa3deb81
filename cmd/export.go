package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/takatori/threadsearch/internal/corpus"
	"github.com/takatori/threadsearch/internal/store"
)

func init() {
	rootCmd.AddCommand(exportCmd)
}

var exportCmd = &cobra.Command{
	Use:   "export <threadID> <out[.gz]>",
	Short: "Writes the stored postings of a thread to a text corpus.",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		threadID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return err
		}

		st, err := store.Open(config.DBPath)
		if err != nil {
			return err
		}
		defer st.Close()

		texts, err := st.Corpus(cmd.Context(), threadID)
		if err != nil {
			return err
		}
		n, err := corpus.WriteFile(args[1], texts)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %d postings to %s\n", n, args[1])
		return nil
	},
}
