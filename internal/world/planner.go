package world

import (
	"context"
	"math/rand"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/samdwyer/sortie/internal/telemetry"
)

// Route is a cell sequence from the current cell to the target.
type Route struct {
	Cells []int
	Score int
}

// Next returns the step the route takes after its first cell, or 0 for a
// route shorter than two cells.
func (r Route) Next() int {
	if len(r.Cells) < 2 {
		return 0
	}
	return r.Cells[1]
}

// Planner picks the next cell to move to on a graph. It keeps no state
// between calls apart from its random source.
type Planner struct {
	graph *Graph
	rng   *rand.Rand
}

// NewPlanner creates a planner over graph. A nil rng is seeded from the clock.
func NewPlanner(graph *Graph, rng *rand.Rand) *Planner {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Planner{graph: graph, rng: rng}
}

// Graph returns the graph the planner searches.
func (p *Planner) Graph() *Graph { return p.graph }

// Next returns the next cell to move to from current with budget moves left.
// The trace lists the cells already visited this session.
//
// It returns the second cell of the best route found by Best. When no route
// reaches the target within budget it returns a random neighbour of current,
// or 0 if current has no neighbours.
func (p *Planner) Next(ctx context.Context, current, budget int, trace []int) int {
	tracer := telemetry.Tracer("world")
	_, span := tracer.Start(ctx, "planner.next")
	defer span.End()

	route, ok := p.Best(current, budget, trace)
	next := route.Next()
	if !ok {
		next = p.randomNeighbor(current)
	}

	span.SetAttributes(
		attribute.Int("planner.current", current),
		attribute.Int("planner.budget", budget),
		attribute.Int("planner.trace_len", len(trace)),
		attribute.Bool("planner.route_found", ok),
		attribute.Int("planner.score", route.Score),
		attribute.Int("planner.next", next),
	)
	return next
}

// Best expands every cell sequence starting at current one hop per level,
// up to budget hops. Sequences that reach the target are scored and not
// extended further. It returns the highest scoring route; among equal
// scores the first one found wins. ok is false if nothing reached the target.
func (p *Planner) Best(current, budget int, trace []int) (best Route, ok bool) {
	visited := make(map[int]bool, len(trace))
	for _, c := range trace {
		visited[c] = true
	}

	queue := [][]int{{current}}
	for depth := 1; depth <= budget && len(queue) > 0; depth++ {
		var next [][]int
		for _, seq := range queue {
			for _, n := range p.graph.Neighbors(seq[len(seq)-1]) {
				ext := make([]int, len(seq)+1)
				copy(ext, seq)
				ext[len(seq)] = n

				if n != p.graph.Target() {
					next = append(next, ext)
					continue
				}
				if s := score(ext, visited); !ok || s > best.Score {
					best = Route{Cells: ext, Score: s}
					ok = true
				}
			}
		}
		queue = next
	}
	return best, ok
}

// score counts the distinct cells of seq beyond the first, minus one for
// every cell of seq already in the trace.
func score(seq []int, trace map[int]bool) int {
	distinct := make(map[int]struct{}, len(seq))
	revisits := 0
	for _, c := range seq {
		distinct[c] = struct{}{}
		if trace[c] {
			revisits++
		}
	}
	return len(distinct) - 1 - revisits
}

func (p *Planner) randomNeighbor(current int) int {
	neighbors := p.graph.Neighbors(current)
	if len(neighbors) == 0 {
		return 0
	}
	return neighbors[p.rng.Intn(len(neighbors))]
}
