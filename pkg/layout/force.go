package layout

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/graphsynth/pkg/graph"
)

const (
	springIterations = 50
	frIterations     = 100

	// minDistance keeps repulsion finite for coincident nodes.
	minDistance = 0.01

	// convergence stops the simulation once the mean displacement per node
	// drops below it.
	convergence = 1e-4
)

// forceDirected is the Fruchterman-Reingold simulation. Nodes repel with
// k²/d and attract along edges with A·d²/k, where A is the edge weight when
// weighted is set and 1 otherwise. The step size cools linearly to zero.
type forceDirected struct {
	iterations int
	weighted   bool
}

func (f forceDirected) Compute(g *graph.Graph, rng *rand.Rand) (Positions, error) {
	n := g.N()
	pos := randomPositions(n, rng)
	if n < 2 {
		return origin(n), nil
	}

	attraction := f.attraction(g)
	k := math.Sqrt(1 / float64(n))
	t := 0.1 * math.Max(spanOf(pos), 1e-9)
	dt := t / float64(f.iterations+1)

	disp := make(Positions, n)
	for range f.iterations {
		for i := range disp {
			disp[i] = r2.Vec{}
		}
		for i := range n {
			row := attraction[i]
			for j := range n {
				if i == j {
					continue
				}
				delta := r2.Sub(pos[i], pos[j])
				d := math.Max(r2.Norm(delta), minDistance)
				// Repulsion and attraction share delta; attraction only for
				// adjacent pairs.
				mag := k*k/(d*d) - row[j]*d/k
				disp[i] = r2.Add(disp[i], r2.Scale(mag, delta))
			}
		}

		moved := 0.0
		for i := range n {
			l := math.Max(r2.Norm(disp[i]), minDistance)
			step := r2.Scale(t/l, disp[i])
			pos[i] = r2.Add(pos[i], step)
			moved += r2.Norm(step)
		}
		t -= dt
		if moved/float64(n) < convergence {
			break
		}
	}
	return pos, nil
}

// attraction returns the dense symmetric weight matrix of g's undirected
// projection, with unit entries when f is unweighted.
func (f forceDirected) attraction(g *graph.Graph) [][]float64 {
	n := g.N()
	a := make([][]float64, n)
	for i := range a {
		a[i] = make([]float64, n)
	}
	u := g.ToUndirected()
	ws := u.Weights()
	for i, e := range u.Edges() {
		w := 1.0
		if f.weighted {
			w = ws[i]
		}
		a[e.U][e.V] = w
		a[e.V][e.U] = w
	}
	return a
}

func randomPositions(n int, rng *rand.Rand) Positions {
	pos := make(Positions, n)
	for i := range pos {
		pos[i] = r2.Vec{X: rng.Float64(), Y: rng.Float64()}
	}
	return pos
}

// spanOf returns the larger side of the bounding box of pos.
func spanOf(pos Positions) float64 {
	if len(pos) == 0 {
		return 0
	}
	lo, hi := pos[0], pos[0]
	for _, p := range pos[1:] {
		lo.X, lo.Y = math.Min(lo.X, p.X), math.Min(lo.Y, p.Y)
		hi.X, hi.Y = math.Max(hi.X, p.X), math.Max(hi.Y, p.Y)
	}
	return math.Max(hi.X-lo.X, hi.Y-lo.Y)
}
