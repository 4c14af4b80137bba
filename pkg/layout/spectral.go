package layout

import (
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/graphsynth/pkg/graph"
)

// spectral uses the eigenvectors of the second and third smallest eigenvalues
// of the weighted Laplacian as x and y. Each eigenvector is sign-normalized so
// its largest-magnitude entry is positive.
type spectral struct{}

func (spectral) Compute(g *graph.Graph, _ *rand.Rand) (Positions, error) {
	n := g.N()
	switch n {
	case 0, 1:
		return origin(n), nil
	case 2:
		return Positions{{X: 0, Y: 0}, {X: 1, Y: 0}}, nil
	}

	var es mat.EigenSym
	if ok := es.Factorize(laplacian(g), true); !ok {
		return nil, fmt.Errorf("laplacian of %d nodes: %w", n, ErrNoConvergence)
	}
	var vecs mat.Dense
	es.VectorsTo(&vecs)

	xs := column(&vecs, 1)
	ys := column(&vecs, 2)
	pos := make(Positions, n)
	for i := range pos {
		pos[i] = r2.Vec{X: xs[i], Y: ys[i]}
	}
	return pos, nil
}

// laplacian returns D − W of g's undirected projection.
func laplacian(g *graph.Graph) *mat.SymDense {
	n := g.N()
	l := mat.NewSymDense(n, nil)
	u := g.ToUndirected()
	ws := u.Weights()
	for i, e := range u.Edges() {
		w := ws[i]
		l.SetSym(e.U, e.V, l.At(e.U, e.V)-w)
		l.SetSym(e.U, e.U, l.At(e.U, e.U)+w)
		l.SetSym(e.V, e.V, l.At(e.V, e.V)+w)
	}
	return l
}

func column(m *mat.Dense, j int) []float64 {
	col := mat.Col(nil, j, m)
	peak := 0
	for i, v := range col {
		if math.Abs(v) > math.Abs(col[peak]) {
			peak = i
		}
	}
	if col[peak] < 0 {
		for i := range col {
			col[i] = -col[i]
		}
	}
	return col
}
