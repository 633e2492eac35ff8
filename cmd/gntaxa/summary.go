package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	summaryMinor bool
	summaryJSON  bool
)

func getSummaryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "summary <taxon-id>",
		Short: "Show the display trail of a taxon",
		Long: `Build the root → taxon display trail with scientific and
vernacular names. By default the trail holds major ranks only
and is printed as a single line; --minor includes every rank,
--json prints the structured summary instead.

Examples:
  gntaxa summary 47219
  gntaxa summary 47219 --minor --json`,
		Args: cobra.ExactArgs(1),
		RunE: runSummary,
	}
	cmd.Flags().BoolVar(&summaryMinor, "minor", false,
		"include minor ranks in the trail")
	cmd.Flags().BoolVar(&summaryJSON, "json", false,
		"print the structured summary as JSON")
	return cmd
}

func runSummary(cmd *cobra.Command, args []string) error {
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

	sum, err := svc.TaxonSummary(ctx, ids[0], !summaryMinor)
	if err != nil {
		return err
	}

	if summaryJSON {
		return printJSON(sum)
	}
	fmt.Println(sum.FormatTrail(" → ", true))
	return nil
}
