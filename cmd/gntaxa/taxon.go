package main

import (
	"context"

	"github.com/spf13/cobra"
)

func getTaxonCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "taxon <taxon-id>",
		Short: "Show a single taxon record",
		Long: `Fetch one taxon by its identifier and print it as JSON,
including its full ancestry chain.

Examples:
  gntaxa taxon 47219
  gntaxa taxon 47219 --backend pg`,
		Args: cobra.ExactArgs(1),
		RunE: runTaxon,
	}
	return cmd
}

func runTaxon(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	ids, err := parseIDs(args)
	if err != nil {
		return err
	}

	svc, err := buildService(ctx)
	if err != nil {
		return err
	}
	defer svc.Close()

	t, err := svc.GetTaxon(ctx, ids[0])
	if err != nil {
		return err
	}
	return printJSON(t)
}
