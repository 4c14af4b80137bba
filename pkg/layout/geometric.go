package layout

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/graphsynth/pkg/graph"
)

// spiralResolution is the angular step between consecutive spiral nodes.
const spiralResolution = 0.35

type circular struct{}

func (circular) Compute(g *graph.Graph, _ *rand.Rand) (Positions, error) {
	return onCircle(identity(g.N())), nil
}

// onCircle places order[i] at angle 2πi/len(order) on the unit circle.
func onCircle(order []int) Positions {
	n := len(order)
	pos := origin(n)
	if n == 1 {
		return pos
	}
	for i, u := range order {
		theta := 2 * math.Pi * float64(i) / float64(n)
		pos[u] = r2.Vec{X: math.Cos(theta), Y: math.Sin(theta)}
	}
	return pos
}

// shell puts the highest-degree node at the center and every other node on
// the ring matching its BFS depth. Nodes unreachable from the center share
// one outer ring.
type shell struct{}

func (shell) Compute(g *graph.Graph, _ *rand.Rand) (Positions, error) {
	n := g.N()
	pos := origin(n)
	if n == 0 {
		return pos, nil
	}

	adj := adjacency(g)
	center := 0
	for u := 1; u < n; u++ {
		if len(adj[u]) > len(adj[center]) {
			center = u
		}
	}

	depth := bfsDepths(adj, center)
	outer := 0
	for _, d := range depth {
		outer = max(outer, d)
	}
	shells := make([][]int, outer+2)
	for u, d := range depth {
		if d < 0 {
			d = outer + 1
		}
		shells[d] = append(shells[d], u)
	}

	for r, ring := range shells {
		if len(ring) == 0 {
			continue
		}
		// Stagger rings so spokes do not line up.
		offset := float64(r) * spiralResolution
		for i, u := range ring {
			if r == 0 {
				continue
			}
			theta := offset + 2*math.Pi*float64(i)/float64(len(ring))
			pos[u] = r2.Vec{X: float64(r) * math.Cos(theta), Y: float64(r) * math.Sin(theta)}
		}
	}
	return pos, nil
}

// bfsDepths returns hop distances from src; unreachable nodes get -1.
func bfsDepths(adj [][]int, src int) []int {
	depth := make([]int, len(adj))
	for i := range depth {
		depth[i] = -1
	}
	depth[src] = 0
	queue := []int{src}
	for len(queue) > 0 {
		u := queue[0]
		queue = queue[1:]
		for _, v := range adj[u] {
			if depth[v] < 0 {
				depth[v] = depth[u] + 1
				queue = append(queue, v)
			}
		}
	}
	return depth
}

// spiral places node i at radius i and angle resolution·i.
type spiral struct {
	resolution float64
}

func (s spiral) Compute(g *graph.Graph, _ *rand.Rand) (Positions, error) {
	pos := origin(g.N())
	for i := range pos {
		theta := s.resolution * float64(i)
		r := float64(i)
		pos[i] = r2.Vec{X: r * math.Cos(theta), Y: r * math.Sin(theta)}
	}
	return pos, nil
}

// uniform draws every coordinate from [0, 1).
type uniform struct{}

func (uniform) Compute(g *graph.Graph, rng *rand.Rand) (Positions, error) {
	return randomPositions(g.N(), rng), nil
}
