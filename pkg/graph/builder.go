package graph

import (
	"fmt"
	"maps"
	"slices"
)

// Builder accumulates edges for a graph under construction. It is not safe
// for concurrent use.
type Builder struct {
	n        int
	directed bool
	edges    map[[2]int]struct{}
	adj      []map[int]struct{}
}

// NewBuilder returns a builder for a graph with n nodes.
func NewBuilder(n int, directed bool) *Builder {
	adj := make([]map[int]struct{}, n)
	for i := range adj {
		adj[i] = make(map[int]struct{})
	}
	return &Builder{
		n:        n,
		directed: directed,
		edges:    make(map[[2]int]struct{}),
		adj:      adj,
	}
}

// N returns the node count.
func (b *Builder) N() int { return b.n }

// AddEdge connects u and v. Self-loops and edges already present are ignored
// and reported as false.
func (b *Builder) AddEdge(u, v int) (bool, error) {
	if u < 0 || u >= b.n || v < 0 || v >= b.n {
		return false, fmt.Errorf("edge (%d, %d) with %d nodes: %w", u, v, b.n, ErrNodeOutOfRange)
	}
	if u == v {
		return false, nil
	}
	k := b.key(u, v)
	if _, ok := b.edges[k]; ok {
		return false, nil
	}
	b.edges[k] = struct{}{}
	b.adj[u][v] = struct{}{}
	b.adj[v][u] = struct{}{}
	return true, nil
}

// MustAddEdge is AddEdge for callers that only produce in-range endpoints.
func (b *Builder) MustAddEdge(u, v int) bool {
	added, err := b.AddEdge(u, v)
	if err != nil {
		panic(err)
	}
	return added
}

// RemoveEdge disconnects u and v if connected.
func (b *Builder) RemoveEdge(u, v int) {
	k := b.key(u, v)
	if _, ok := b.edges[k]; !ok {
		return
	}
	delete(b.edges, k)
	if b.directed && b.HasEdge(v, u) {
		return
	}
	delete(b.adj[u], v)
	delete(b.adj[v], u)
}

// HasEdge reports whether u and v are connected (u → v when directed).
func (b *Builder) HasEdge(u, v int) bool {
	_, ok := b.edges[b.key(u, v)]
	return ok
}

// Degree returns the number of distinct neighbors of u.
func (b *Builder) Degree(u int) int { return len(b.adj[u]) }

// Neighbors returns the neighbors of u in ascending order, ignoring
// direction.
func (b *Builder) Neighbors(u int) []int {
	return slices.Sorted(maps.Keys(b.adj[u]))
}

// EdgeCount returns the number of edges added so far.
func (b *Builder) EdgeCount() int { return len(b.edges) }

// Build freezes the builder into an unweighted Graph.
func (b *Builder) Build() *Graph {
	edges := make([]Edge, 0, len(b.edges))
	for k := range b.edges {
		edges = append(edges, Edge{U: k[0], V: k[1]})
	}
	return assemble(b.n, b.directed, false, edges)
}

func (b *Builder) key(u, v int) [2]int {
	if !b.directed {
		u, v = minmax(u, v)
	}
	return [2]int{u, v}
}
