package layout

import (
	"fmt"
	"math/rand/v2"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/graphsynth/pkg/graph"
)

// planar draws a graph without edge crossings. Graphs exceeding Euler's
// bound E ≤ 3V−6 or failing the left-right planarity test are rejected with
// [ErrNotPlanar]. Forests get a tidy tree drawing; every other planar graph
// is embedded and drawn on an integer grid by the shift method.
type planar struct{}

func (planar) Compute(g *graph.Graph, _ *rand.Rand) (Positions, error) {
	u := g.ToUndirected()
	n, e := u.N(), u.EdgeCount()
	if n >= 3 && e > 3*n-6 {
		return nil, fmt.Errorf("%d edges exceed 3V-6 for %d nodes: %w", e, n, ErrNotPlanar)
	}

	adj := adjacency(u)
	if e == n-components(adj) {
		return treeLayout(adj), nil
	}

	emb, ok := planarEmbedding(adj)
	if !ok {
		return nil, fmt.Errorf("left-right test found conflicting back edges: %w", ErrNotPlanar)
	}
	return straightLine(emb), nil
}

// treeLayout draws a forest top-down. Leaves take consecutive x slots in DFS
// order, a parent sits above the mean of its children, and y is −depth.
// Components are placed side by side.
func treeLayout(adj [][]int) Positions {
	n := len(adj)
	pos := origin(n)
	seen := make([]bool, n)
	slot := 0.0

	var place func(u, depth int) float64
	place = func(u, depth int) float64 {
		seen[u] = true
		sum, kids := 0.0, 0
		for _, v := range adj[u] {
			if seen[v] {
				continue
			}
			sum += place(v, depth+1)
			kids++
		}
		x := slot
		if kids > 0 {
			x = sum / float64(kids)
		} else {
			slot++
		}
		pos[u] = r2.Vec{X: x, Y: -float64(depth)}
		return x
	}

	for root := range n {
		if !seen[root] {
			place(root, 0)
			slot++
		}
	}
	return pos
}

func components(adj [][]int) int {
	seen := make([]bool, len(adj))
	count := 0
	for s := range adj {
		if seen[s] {
			continue
		}
		count++
		seen[s] = true
		stack := []int{s}
		for len(stack) > 0 {
			u := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			for _, v := range adj[u] {
				if !seen[v] {
					seen[v] = true
					stack = append(stack, v)
				}
			}
		}
	}
	return count
}
