package layout

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/stat/mds"

	"github.com/matzehuels/graphsynth/pkg/graph"
)

const (
	stressIterations = 300
	stressTolerance  = 1e-5
)

// kamadaKawai minimizes the spring energy Σ (‖xi−xj‖ − dij)²/dij² over
// graph-theoretic distances by stress majorization. Pairs in different
// components are kept one hop beyond the diameter. The start configuration
// is classical MDS of the distance matrix.
type kamadaKawai struct {
	iterations int
}

func (kk kamadaKawai) Compute(g *graph.Graph, rng *rand.Rand) (Positions, error) {
	n := g.N()
	if n < 2 {
		return origin(n), nil
	}
	dist := hopDistances(adjacency(g))
	pos := classicalScaling(dist)
	if pos == nil {
		pos = onCircle(identity(n))
	}
	jitter(pos, rng)

	prev := stress(pos, dist)
	for range kk.iterations {
		for i := range n {
			var num r2.Vec
			den := 0.0
			for j := range n {
				if i == j {
					continue
				}
				dij := dist.At(i, j)
				w := 1 / (dij * dij)
				delta := r2.Sub(pos[i], pos[j])
				target := pos[j]
				if norm := r2.Norm(delta); norm > 0 {
					target = r2.Add(pos[j], r2.Scale(dij/norm, delta))
				}
				num = r2.Add(num, r2.Scale(w, target))
				den += w
			}
			pos[i] = r2.Scale(1/den, num)
		}
		cur := stress(pos, dist)
		if prev-cur < stressTolerance*prev {
			break
		}
		prev = cur
	}
	return pos, nil
}

// hopDistances returns all-pairs BFS distances. Unreachable pairs are set to
// the largest finite distance plus one.
func hopDistances(adj [][]int) *mat.SymDense {
	n := len(adj)
	d := mat.NewSymDense(n, nil)
	longest := 0
	rows := make([][]int, n)
	for u := range adj {
		rows[u] = bfsDepths(adj, u)
		for _, v := range rows[u] {
			longest = max(longest, v)
		}
	}
	for u := range n {
		for v := u + 1; v < n; v++ {
			h := rows[u][v]
			if h < 0 {
				h = longest + 1
			}
			d.SetSym(u, v, float64(h))
		}
	}
	return d
}

// classicalScaling embeds dist in the plane with Torgerson MDS. It returns
// nil when the scaling fails.
func classicalScaling(dist *mat.SymDense) Positions {
	var coords mat.Dense
	k, _ := mds.TorgersonScaling(&coords, nil, dist)
	if k == 0 {
		return nil
	}
	n, _ := dist.Dims()
	pos := make(Positions, n)
	for i := range pos {
		pos[i].X = coords.At(i, 0)
		if k > 1 {
			pos[i].Y = coords.At(i, 1)
		}
	}
	return pos
}

// jitter nudges every node slightly so that coincident starts separate.
func jitter(pos Positions, rng *rand.Rand) {
	for i := range pos {
		pos[i].X += 1e-3 * (rng.Float64() - 0.5)
		pos[i].Y += 1e-3 * (rng.Float64() - 0.5)
	}
}

func stress(pos Positions, dist *mat.SymDense) float64 {
	s := 0.0
	for i := range pos {
		for j := i + 1; j < len(pos); j++ {
			dij := dist.At(i, j)
			diff := r2.Norm(r2.Sub(pos[i], pos[j])) - dij
			s += diff * diff / (dij * dij)
		}
	}
	if math.IsNaN(s) {
		return 0
	}
	return s
}

func identity(n int) []int {
	ids := make([]int, n)
	for i := range ids {
		ids[i] = i
	}
	return ids
}
