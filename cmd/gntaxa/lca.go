package main

import (
	"context"

	"github.com/spf13/cobra"
)

var lcaMinor bool

func getLCACmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lca <taxon-id> <taxon-id> [taxon-id...]",
		Short: "Find the lowest common ancestor of taxa",
		Long: `Find the most specific taxon that is an ancestor of, or equal
to, every given taxon. By default comparison is restricted to
major ranks; --minor makes minor-rank ancestors eligible too.

Examples:
  gntaxa lca 47219 54327
  gntaxa lca 47219 54327 --minor
  gntaxa lca 47219 54327 52775`,
		Args: cobra.MinimumNArgs(1),
		RunE: runLCA,
	}
	cmd.Flags().BoolVar(&lcaMinor, "minor", false,
		"allow minor ranks as the common ancestor")
	return cmd
}

func runLCA(cmd *cobra.Command, args []string) error {
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

	t, err := svc.LCA(ctx, ids, lcaMinor)
	if err != nil {
		return err
	}
	return printJSON(t)
}
