package main

import (
	"context"

	"github.com/spf13/cobra"
)

func getSubtreeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "subtree <taxon-id> [taxon-id...]",
		Short: "Map a subtree as child → parent pairs",
		Long: `Fetch every taxon in the subtrees rooted at the given taxa and
print a child-id → parent-id map. The roots themselves map
to 0.

Examples:
  gntaxa subtree 47221
  gntaxa subtree 47221 52747`,
		Args: cobra.MinimumNArgs(1),
		RunE: runSubtree,
	}
	return cmd
}

func runSubtree(cmd *cobra.Command, args []string) error {
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

	tree, err := svc.FetchSubtree(ctx, ids)
	if err != nil {
		return err
	}
	return printJSON(tree)
}
