// Package world provides the event maps a session moves across and the
// planner that picks the next cell on them.
package world

import "fmt"

// Graph is an immutable adjacency list over cells numbered 1..Size with one
// designated target cell.
type Graph struct {
	adjacency [][]int // adjacency[i] lists the neighbours of cell i+1
	target    int
}

// NewGraph builds a graph from an adjacency list. Row i holds the
// neighbours of cell i+1. Every neighbour and the target must be a valid cell.
func NewGraph(adjacency [][]int, target int) (*Graph, error) {
	size := len(adjacency)
	if size == 0 {
		return nil, fmt.Errorf("graph has no cells")
	}
	if target < 1 || target > size {
		return nil, fmt.Errorf("target %d outside cells 1..%d", target, size)
	}

	rows := make([][]int, size)
	for i, row := range adjacency {
		for _, n := range row {
			if n < 1 || n > size {
				return nil, fmt.Errorf("cell %d lists neighbour %d outside cells 1..%d", i+1, n, size)
			}
		}
		rows[i] = append([]int(nil), row...)
	}
	return &Graph{adjacency: rows, target: target}, nil
}

// MustNewGraph builds a graph, panicking on error.
func MustNewGraph(adjacency [][]int, target int) *Graph {
	g, err := NewGraph(adjacency, target)
	if err != nil {
		panic(err)
	}
	return g
}

// Size returns the number of cells.
func (g *Graph) Size() int { return len(g.adjacency) }

// Target returns the target cell.
func (g *Graph) Target() int { return g.target }

// Neighbors returns the neighbours of cell, or nil for an unknown cell.
// The returned slice must not be modified.
func (g *Graph) Neighbors(cell int) []int {
	if cell < 1 || cell > len(g.adjacency) {
		return nil
	}
	return g.adjacency[cell-1]
}

// IsNeighbor reports whether to is listed as a neighbour of from.
func (g *Graph) IsNeighbor(from, to int) bool {
	for _, n := range g.Neighbors(from) {
		if n == to {
			return true
		}
	}
	return false
}

// referenceAdjacency is the infiltration map used by the free-search event.
var referenceAdjacency = [][]int{
	{2},
	{3, 4, 5},
	{2, 4, 6, 7},
	{2, 3, 5, 8},
	{2, 4, 9},
	{3, 7, 11},
	{3, 6, 8, 12},
	{4, 7, 9, 17},
	{5, 8, 10, 13},
	{9, 14, 15},
	{6, 12, 16},
	{7, 11, 17},
	{9, 14, 17, 18},
	{10, 13, 19},
	{10, 19},
	{11, 17},
	{8, 12, 13, 16, 18, 20},
	{13, 17, 19},
	{14, 15, 18},
	{17},
}

const (
	// ReferenceTarget is the goal cell of the reference map.
	ReferenceTarget = 20
	// ReferenceStart is the cell a free-search session starts on.
	ReferenceStart = 1
)

var referenceGraph = MustNewGraph(referenceAdjacency, ReferenceTarget)

// ReferenceGraph returns the shared 20-cell free-search map.
func ReferenceGraph() *Graph {
	return referenceGraph
}
