package iopg

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/gnames/gntaxa/pkg/expanded"
	"github.com/gnames/gntaxa/pkg/taxon"
	"github.com/gnames/gntaxa/pkg/taxonomy"
)

// LCA finds the lowest common ancestor of the given taxa. The wide
// rows already materialize every chain, so one batched fetch plus pure
// intersection does the whole job without recursion.
func (s *pgService) LCA(
	ctx context.Context, ids []int, includeMinor bool,
) (*taxon.Taxon, error) {
	ids = dedupe(ids)
	if len(ids) == 0 {
		return nil, &taxonomy.ServiceError{
			Op:  "lca",
			Err: errors.New("empty taxon id set"),
		}
	}
	if len(ids) == 1 {
		return s.GetTaxon(ctx, ids[0])
	}

	chains, err := s.ancestryChains(ctx, ids, includeMinor)
	if err != nil {
		return nil, err
	}
	lcaID, ok := expanded.LCAOfChains(chains)
	if !ok {
		return nil, &taxonomy.NoCommonAncestorError{TaxonIDs: ids}
	}
	return s.GetTaxon(ctx, lcaID)
}

func (s *pgService) Distance(
	ctx context.Context, a, b int, includeMinor, inclusive bool,
) (int, error) {
	chains, err := s.ancestryChains(ctx, []int{a, b}, includeMinor)
	if err != nil {
		return 0, err
	}
	if a == b {
		if inclusive {
			return 1, nil
		}
		return 0, nil
	}
	dist, ok := expanded.DistanceFromChains(chains[0], chains[1], inclusive)
	if !ok {
		return 0, &taxonomy.NoCommonAncestorError{TaxonIDs: []int{a, b}}
	}
	return dist, nil
}

func (s *pgService) ancestryChains(
	ctx context.Context, ids []int, includeMinor bool,
) ([][]int, error) {
	rows, err := s.fetchRows(ctx, ids)
	if err != nil {
		return nil, err
	}
	chains := make([][]int, 0, len(ids))
	for _, id := range ids {
		row, ok := rows[id]
		if !ok {
			return nil, &taxonomy.NotFoundError{TaxonID: id}
		}
		chain, err := row.AncestryIDs(includeMinor)
		if err != nil {
			return nil, s.queryError("ancestry", err)
		}
		chains = append(chains, chain)
	}
	return chains, nil
}

// TaxonSummary assembles the display trail for a taxon from the
// L-columns of its own row.
func (s *pgService) TaxonSummary(
	ctx context.Context, id int, majorOnly bool,
) (*taxon.Summary, error) {
	row, err := s.getRow(ctx, id)
	if err != nil {
		return nil, err
	}
	pairs, err := row.AncestryPairs()
	if err != nil {
		return nil, s.queryError("summary", err)
	}

	res := &taxon.Summary{
		ID:             id,
		ScientificName: row.Str(expanded.ColName),
		VernacularName: row.Str(expanded.ColCommonName),
	}
	if lvl, ok := row.Level(expanded.ColRankLevel); ok {
		res.RankLevel = lvl
	}

	for _, p := range pairs {
		if majorOnly && p.ID != id && !p.Level.IsMajor() {
			continue
		}
		node := taxon.TrailNode{
			RankLevel:      p.Level,
			ID:             p.ID,
			ScientificName: row.Str(expanded.NameCol(p.Level)),
			VernacularName: row.Str(expanded.CommonNameCol(p.Level)),
		}
		if p.ID == id {
			if node.ScientificName == "" {
				node.ScientificName = res.ScientificName
			}
			if node.VernacularName == "" {
				node.VernacularName = res.VernacularName
			}
		}
		if node.ScientificName == "" {
			if anc, err := s.GetTaxon(ctx, p.ID); err == nil {
				node.ScientificName = anc.ScientificName
				node.VernacularName = anc.CommonName("en")
			} else {
				node.ScientificName = strconv.Itoa(p.ID)
			}
		}
		res.Trail = append(res.Trail, node)
	}
	if res.ScientificName == "" {
		return nil, s.queryError("summary",
			fmt.Errorf("taxon %d has no name", id))
	}
	return res, nil
}
