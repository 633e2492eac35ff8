package expanded_test

import (
	"testing"

	"github.com/gnames/gntaxa/pkg/expanded"
	"github.com/stretchr/testify/assert"
)

func TestCommonPrefixLen(t *testing.T) {
	tests := []struct {
		name string
		a, b []int
		want int
	}{
		{"identical", []int{1, 2, 3}, []int{1, 2, 3}, 3},
		{"fork", []int{1, 2, 3}, []int{1, 2, 4}, 2},
		{"prefix", []int{1, 2}, []int{1, 2, 3}, 2},
		{"disjoint", []int{1, 2}, []int{9, 2}, 0},
		{"empty", nil, []int{1}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, expanded.CommonPrefixLen(tt.a, tt.b))
		})
	}
}

func TestLCAOfChains(t *testing.T) {
	tests := []struct {
		name   string
		chains [][]int
		want   int
		ok     bool
	}{
		{
			"two chains",
			[][]int{{1, 47120, 47158, 47201, 47221}, {1, 47120, 47158, 47201, 52747}},
			47201, true,
		},
		{
			"ancestor of other",
			[][]int{{1, 47120}, {1, 47120, 47158}},
			47120, true,
		},
		{
			"three chains",
			[][]int{{1, 2, 3}, {1, 2, 4}, {1, 5}},
			1, true,
		},
		{"single chain", [][]int{{1, 2, 3}}, 3, true},
		{"disjoint", [][]int{{1, 2}, {9, 8}}, 0, false},
		{"no chains", nil, 0, false},
		{"empty chain", [][]int{{1, 2}, {}}, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := expanded.LCAOfChains(tt.chains)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDistanceFromChains(t *testing.T) {
	bee := []int{1, 47120, 47158, 47201, 47221, 47220, 47219}
	hornet := []int{1, 47120, 47158, 47201, 52747, 54328, 54327}

	tests := []struct {
		name      string
		a, b      []int
		inclusive bool
		want      int
		ok        bool
	}{
		{"fork at order", bee, hornet, false, 6, true},
		{"fork inclusive", bee, hornet, true, 7, true},
		{"same chain", bee, bee, false, 0, true},
		{"same chain inclusive", bee, bee, true, 1, true},
		{"parent and child", bee[:6], bee, false, 1, true},
		{"disjoint", []int{1, 2}, []int{9, 8}, false, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := expanded.DistanceFromChains(tt.a, tt.b, tt.inclusive)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}

	// Symmetric by construction.
	d1, _ := expanded.DistanceFromChains(bee, hornet, false)
	d2, _ := expanded.DistanceFromChains(hornet, bee, false)
	assert.Equal(t, d1, d2)
}
