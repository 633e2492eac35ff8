package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/gnames/gntaxa/pkg/rank"
	"github.com/gnames/gntaxa/pkg/search"
	"github.com/spf13/cobra"
)

var (
	searchLimit     int
	searchThreshold float64
	searchFuzzy     bool
	searchMatch     string
	searchScope     string
	searchRanks     []string
)

func getSearchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Find taxa by scientific or vernacular name",
		Long: `Search taxa by name. Matching escalates exact → prefix →
substring unless --match pins one mode. Fuzzy re-ranking is on
by default; results are ordered by similarity score.

Examples:
  gntaxa search "Apis mellifera"
  gntaxa search "honey bee" --scope vernacular
  gntaxa search "Vespa" --match exact
  gntaxa search "Apis mel" --threshold 0.5 --limit 5
  gntaxa search "vespa" --rank species`,
		Args: cobra.ExactArgs(1),
		RunE: runSearch,
	}
	cmd.Flags().IntVar(&searchLimit, "limit", 0,
		"maximum number of results (default from config)")
	cmd.Flags().Float64Var(&searchThreshold, "threshold", -1,
		"minimum fuzzy similarity kept, 0-1 (default from config)")
	cmd.Flags().BoolVar(&searchFuzzy, "fuzzy", true,
		"re-rank results by name similarity")
	cmd.Flags().StringVar(&searchMatch, "match", "auto",
		"matching mode: auto, exact, prefix, or substring")
	cmd.Flags().StringVar(&searchScope, "scope", "all",
		"name fields to match: scientific, vernacular, or all")
	cmd.Flags().StringSliceVar(&searchRanks, "rank", nil,
		"restrict results to rank names, e.g. species,genus")
	return cmd
}

func searchOptions() ([]search.Option, error) {
	cfg := getConfig()

	limit := cfg.Search.Limit
	if searchLimit > 0 {
		limit = searchLimit
	}
	threshold := cfg.Search.Threshold
	if searchThreshold >= 0 {
		threshold = searchThreshold
	}

	opts := []search.Option{
		search.OptLimit(limit),
		search.OptThreshold(threshold),
		search.OptFuzzy(searchFuzzy),
		search.OptMatch(search.Match(searchMatch)),
	}

	switch searchScope {
	case "scientific":
		opts = append(opts, search.OptScopes(search.ScopeScientific))
	case "vernacular":
		opts = append(opts, search.OptScopes(search.ScopeVernacular))
	case "all", "":
	default:
		return nil, fmt.Errorf(
			"unknown scope %q (use 'scientific', 'vernacular' or 'all')",
			searchScope)
	}

	if len(searchRanks) > 0 {
		levels := make([]rank.Level, 0, len(searchRanks))
		for _, name := range searchRanks {
			lvl, ok := rank.Infer(name)
			if !ok {
				return nil, fmt.Errorf("unknown rank %q", name)
			}
			levels = append(levels, lvl)
		}
		opts = append(opts, search.OptRanks(levels...))
	}

	return opts, nil
}

func runSearch(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	query := strings.TrimSpace(args[0])

	opts, err := searchOptions()
	if err != nil {
		return err
	}

	svc, err := buildService(ctx)
	if err != nil {
		return err
	}
	defer svc.Close()

	results, err := svc.SearchTaxa(ctx, query, opts...)
	if err != nil {
		return err
	}
	return printJSON(results)
}
