package expanded

// Pure ancestor-chain arithmetic shared by both backends. Chains are
// root→self inclusive id sequences, as produced by Row.AncestryIDs.

// CommonPrefixLen returns the length of the longest common prefix of
// two chains.
func CommonPrefixLen(a, b []int) int {
	i := 0
	for i < len(a) && i < len(b) && a[i] == b[i] {
		i++
	}
	return i
}

// LCAOfChains intersects any number of chains and returns the deepest
// entry common to all of them. ok is false when the chains share no
// prefix, which means the taxa live in disconnected trees.
func LCAOfChains(chains [][]int) (int, bool) {
	if len(chains) == 0 {
		return 0, false
	}
	common := chains[0]
	for _, chain := range chains[1:] {
		common = common[:CommonPrefixLen(common, chain)]
		if len(common) == 0 {
			return 0, false
		}
	}
	return common[len(common)-1], true
}

// DistanceFromChains counts the edges between the ends of two chains
// through their fork point. With inclusive true the endpoints count as
// traversed nodes, adding one.
func DistanceFromChains(a, b []int, inclusive bool) (int, bool) {
	common := CommonPrefixLen(a, b)
	if common == 0 {
		return 0, false
	}
	dist := (len(a) - common) + (len(b) - common)
	if inclusive {
		dist++
	}
	return dist, true
}
