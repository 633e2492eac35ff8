package main

import (
	"context"

	"github.com/spf13/cobra"
)

var childrenDepth int

func getChildrenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "children <taxon-id>",
		Short: "List descendants of a taxon",
		Long: `List the taxa reachable by following parent links downward from
the given taxon, up to --depth hops. Depth 1 means direct
children only.

Examples:
  gntaxa children 47221
  gntaxa children 52747 --depth 3`,
		Args: cobra.ExactArgs(1),
		RunE: runChildren,
	}
	cmd.Flags().IntVar(&childrenDepth, "depth", 1,
		"how many levels down to traverse")
	return cmd
}

func runChildren(cmd *cobra.Command, args []string) error {
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

	children, err := svc.ChildrenList(ctx, ids[0], childrenDepth)
	if err != nil {
		return err
	}
	return printJSON(children)
}
