package main

import (
	"context"

	"github.com/gnames/gntaxa/pkg/taxon"
	"github.com/spf13/cobra"
)

var (
	ancestorsMinor bool
	ancestorsIDs   bool
)

func getAncestorsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ancestors <taxon-id>",
		Short: "Show the ancestry of a taxon",
		Long: `Print the ancestors of a taxon in root-first order, the taxon
itself excluded. By default only major ranks (kingdom through
species) are reported; --minor includes the in-between ranks.

Examples:
  gntaxa ancestors 47219
  gntaxa ancestors 47219 --minor
  gntaxa ancestors 47219 --ids`,
		Args: cobra.ExactArgs(1),
		RunE: runAncestors,
	}
	cmd.Flags().BoolVar(&ancestorsMinor, "minor", false,
		"include minor ranks in the ancestry")
	cmd.Flags().BoolVar(&ancestorsIDs, "ids", false,
		"print bare taxon ids instead of full records")
	return cmd
}

func runAncestors(cmd *cobra.Command, args []string) error {
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

	ancIDs, err := svc.Ancestors(ctx, ids[0], ancestorsMinor)
	if err != nil {
		return err
	}
	if ancestorsIDs {
		return printJSON(ancIDs)
	}

	taxa, err := svc.GetManyBatched(ctx, ancIDs)
	if err != nil {
		return err
	}
	// Preserve root-first order; ids missing from the table are skipped.
	ordered := make([]*taxon.Taxon, 0, len(ancIDs))
	for _, id := range ancIDs {
		if t, ok := taxa[id]; ok {
			ordered = append(ordered, t)
		}
	}
	return printJSON(ordered)
}
