package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	distanceMinor     bool
	distanceInclusive bool
)

func getDistanceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "distance <taxon-id> <taxon-id>",
		Short: "Count rank steps between two taxa",
		Long: `Count the edges between two taxa through their lowest common
ancestor. By default only major ranks count as steps; --minor
counts every rank. With --inclusive the endpoints themselves
count as traversed nodes, adding one.

Examples:
  gntaxa distance 47219 54327
  gntaxa distance 47219 54327 --minor --inclusive`,
		Args: cobra.ExactArgs(2),
		RunE: runDistance,
	}
	cmd.Flags().BoolVar(&distanceMinor, "minor", false,
		"count minor ranks as steps")
	cmd.Flags().BoolVar(&distanceInclusive, "inclusive", false,
		"count the endpoints as traversed nodes")
	return cmd
}

func runDistance(cmd *cobra.Command, args []string) error {
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

	d, err := svc.Distance(ctx, ids[0], ids[1],
		distanceMinor, distanceInclusive)
	if err != nil {
		return err
	}
	fmt.Println(d)
	return nil
}
