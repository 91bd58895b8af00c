package world

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPlanner(g *Graph, seed int64) *Planner {
	return NewPlanner(g, rand.New(rand.NewSource(seed)))
}

// bestScoreBruteForce walks every path depth-first and returns the maximum
// score over walks that reach the target within budget hops.
func bestScoreBruteForce(g *Graph, current, budget int, trace []int) (int, bool) {
	visited := make(map[int]bool)
	for _, c := range trace {
		visited[c] = true
	}
	best, found := 0, false
	var walk func(seq []int)
	walk = func(seq []int) {
		if len(seq)-1 >= budget {
			return
		}
		for _, n := range g.Neighbors(seq[len(seq)-1]) {
			ext := append(append([]int(nil), seq...), n)
			if n == g.Target() {
				if s := score(ext, visited); !found || s > best {
					best, found = s, true
				}
				continue
			}
			walk(ext)
		}
	}
	walk([]int{current})
	return best, found
}

func TestPlannerReferenceGraphFromStart(t *testing.T) {
	g := ReferenceGraph()
	p := newTestPlanner(g, 1)

	next := p.Next(context.Background(), ReferenceStart, 6, nil)
	if !g.IsNeighbor(ReferenceStart, next) {
		t.Fatalf("Next() = %d, not a neighbour of cell %d", next, ReferenceStart)
	}

	route, ok := p.Best(ReferenceStart, 6, nil)
	require.True(t, ok)
	assert.Equal(t, ReferenceStart, route.Cells[0])
	assert.Equal(t, ReferenceTarget, route.Cells[len(route.Cells)-1])
	assert.LessOrEqual(t, len(route.Cells)-1, 6)

	want, found := bestScoreBruteForce(g, ReferenceStart, 6, nil)
	require.True(t, found)
	assert.Equal(t, want, route.Score)
}

func TestPlannerOptimalAcrossStartsAndTraces(t *testing.T) {
	g := ReferenceGraph()
	p := newTestPlanner(g, 7)
	traces := [][]int{nil, {1}, {1, 2, 4}, {1, 2, 5, 9, 13}}

	for start := 1; start <= g.Size(); start++ {
		for budget := 1; budget <= 6; budget++ {
			for _, trace := range traces {
				route, ok := p.Best(start, budget, trace)
				want, found := bestScoreBruteForce(g, start, budget, trace)
				if ok != found {
					t.Fatalf("Best(%d, %d, %v) found = %v, brute force %v", start, budget, trace, ok, found)
				}
				if ok && route.Score != want {
					t.Errorf("Best(%d, %d, %v) score = %d, want %d", start, budget, trace, route.Score, want)
				}
			}
		}
	}
}

func TestPlannerTiesKeepFirstFound(t *testing.T) {
	g := MustNewGraph([][]int{{2, 3}, {4}, {4}, {}}, 4)
	p := newTestPlanner(g, 1)

	route, ok := p.Best(1, 3, nil)
	require.True(t, ok)
	assert.Equal(t, []int{1, 2, 4}, route.Cells)
	assert.Equal(t, 2, route.Score)
}

func TestPlannerTracePenalty(t *testing.T) {
	g := MustNewGraph([][]int{{2, 3}, {4}, {4}, {}}, 4)
	p := newTestPlanner(g, 1)

	got := p.Next(context.Background(), 1, 3, []int{1, 2})
	assert.Equal(t, 3, got)

	route, _ := p.Best(1, 3, []int{1, 2})
	assert.Equal(t, 1, route.Score)
}

func TestPlannerDoesNotExtendThroughTarget(t *testing.T) {
	// 1 -> 2 (target) -> 3 -> 2 would score higher if extended past the target.
	g := MustNewGraph([][]int{{2}, {3}, {2}}, 2)
	p := newTestPlanner(g, 1)

	route, ok := p.Best(1, 5, nil)
	require.True(t, ok)
	assert.Equal(t, []int{1, 2}, route.Cells)
}

func TestPlannerBudgetZeroFallsBackToNeighbor(t *testing.T) {
	g := ReferenceGraph()
	for seed := int64(0); seed < 20; seed++ {
		p := newTestPlanner(g, seed)
		for _, cell := range []int{1, 3, 8, 17} {
			got := p.Next(context.Background(), cell, 0, nil)
			if !g.IsNeighbor(cell, got) {
				t.Errorf("Next(%d, 0) = %d, not in %v", cell, got, g.Neighbors(cell))
			}
		}
	}
}

func TestPlannerUnreachableTarget(t *testing.T) {
	g := MustNewGraph([][]int{{2, 3}, {1}, {1}, {4}}, 4)
	p := newTestPlanner(g, 3)

	_, ok := p.Best(1, 8, nil)
	assert.False(t, ok)

	for i := 0; i < 20; i++ {
		got := p.Next(context.Background(), 1, 8, nil)
		if got != 2 && got != 3 {
			t.Fatalf("Next() = %d, want 2 or 3", got)
		}
	}
}

func TestPlannerNoNeighbors(t *testing.T) {
	g := MustNewGraph([][]int{{}, {1}}, 2)
	p := newTestPlanner(g, 1)

	assert.Equal(t, 0, p.Next(context.Background(), 1, 4, nil))
}

func TestNewGraphValidation(t *testing.T) {
	tests := []struct {
		name      string
		adjacency [][]int
		target    int
	}{
		{"empty", nil, 1},
		{"target out of range", [][]int{{1}}, 2},
		{"neighbour out of range", [][]int{{2}}, 1},
		{"zero neighbour", [][]int{{0}}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewGraph(tt.adjacency, tt.target); err == nil {
				t.Errorf("NewGraph() error = nil, want error")
			}
		})
	}
}

func TestReferenceGraphShape(t *testing.T) {
	g := ReferenceGraph()
	assert.Equal(t, 20, g.Size())
	assert.Equal(t, 20, g.Target())
	assert.Equal(t, []int{2}, g.Neighbors(1))
	assert.Nil(t, g.Neighbors(21))
	assert.True(t, g.IsNeighbor(17, 20))
}
