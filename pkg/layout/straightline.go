package layout

import (
	"gonum.org/v1/gonum/spatial/r2"
)

// straightLine draws a planar embedding on an integer grid without edge
// crossings using the shift method of Chrobak and Payne. The embedding is
// first completed to a maximal planar graph; the added edges only guide
// placement and are not part of the drawing.
func straightLine(emb *rotation) Positions {
	n := len(emb.first)
	if n < 4 {
		base := []r2.Vec{{X: 0, Y: 0}, {X: 2, Y: 0}, {X: 1, Y: 1}}
		return Positions(append([]r2.Vec(nil), base[:n]...))
	}

	outer := triangulate(emb)
	order := canonicalOrder(emb, outer)

	left := make([]int, n)
	right := make([]int, n)
	dx := make([]int, n)
	y := make([]int, n)
	for v := range n {
		left[v], right[v] = -1, -1
	}

	v1, v2, v3 := order[0].node, order[1].node, order[2].node
	right[v1] = v3
	dx[v2] = 1
	dx[v3], y[v3] = 1, 1
	right[v3] = v2

	for _, step := range order[3:] {
		vk, c := step.node, step.contour
		wp, wp1 := c[0], c[1]
		wq, wq1 := c[len(c)-1], c[len(c)-2]
		covers := len(c) > 2

		dx[wp1]++
		dx[wq]++
		d := 0
		for _, x := range c[1:] {
			d += dx[x]
		}
		dx[vk] = floorHalf(-y[wp] + d + y[wq])
		y[vk] = floorHalf(y[wp] + d + y[wq])
		dx[wq] = d - dx[vk]
		if covers {
			dx[wp1] -= dx[vk]
		}

		right[wp] = vk
		right[vk] = wq
		if covers {
			left[vk] = wp1
			right[wq1] = -1
		} else {
			left[vk] = -1
		}
	}

	// Offsets are relative to the parent in the left/right tree rooted at v1.
	pos := origin(n)
	x := make([]int, n)
	stack := []int{v1}
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		pos[p] = r2.Vec{X: float64(x[p]), Y: float64(y[p])}
		for _, child := range [2]int{left[p], right[p]} {
			if child >= 0 {
				x[child] = x[p] + dx[child]
				stack = append(stack, child)
			}
		}
	}
	return pos
}

// floorHalf divides by two rounding toward negative infinity.
func floorHalf(v int) int {
	if v < 0 {
		return -((1 - v) / 2)
	}
	return v / 2
}

// =============================================================================
// Triangulation
// =============================================================================

// triangulate adds edges to emb until every face is a triangle and returns
// the outer face as three nodes in clockwise order.
func triangulate(emb *rotation) [3]int {
	n := len(emb.first)
	reps := componentRoots(emb)
	for i := 1; i < len(reps); i++ {
		connectNodes(emb, reps[i-1], reps[i])
	}

	var faces [][]int
	var outer []int
	counted := make(map[[2]int]bool)
	for v := range n {
		for _, w := range emb.neighbors(v) {
			face := makeBiconnected(emb, v, w, counted)
			if len(face) == 0 {
				continue
			}
			faces = append(faces, face)
			if len(face) > len(outer) {
				outer = face
			}
		}
	}
	for _, face := range faces {
		triangulateFace(emb, face[0], face[1])
	}

	a, b := outer[0], outer[1]
	return [3]int{a, b, emb.ccw[b][a]}
}

// componentRoots returns the smallest node of every connected component.
func componentRoots(emb *rotation) []int {
	n := len(emb.first)
	seen := make([]bool, n)
	var roots []int
	for s := range n {
		if seen[s] {
			continue
		}
		seen[s] = true
		roots = append(roots, s)
		stack := []int{s}
		for len(stack) > 0 {
			u := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			for _, v := range emb.neighbors(u) {
				if !seen[v] {
					seen[v] = true
					stack = append(stack, v)
				}
			}
		}
	}
	return roots
}

// connectNodes joins two components by an edge placed last in each rotation.
func connectNodes(emb *rotation, v, w int) {
	refV, refW := -1, -1
	if f := emb.first[v]; f >= 0 {
		refV = emb.ccw[v][f]
	}
	emb.addCW(v, w, refV)
	if f := emb.first[w]; f >= 0 {
		refW = emb.ccw[w][f]
	}
	emb.addCW(w, v, refW)
}

// makeBiconnected walks the face right of start→out and adds an edge each
// time the walk revisits a node, so that every face boundary becomes a
// simple cycle. It returns the face's nodes, or nil if the half-edge
// belongs to a face already walked.
func makeBiconnected(emb *rotation, start, out int, counted map[[2]int]bool) []int {
	if counted[[2]int{start, out}] {
		return nil
	}
	counted[[2]int{start, out}] = true

	v1, v2 := start, out
	face := []int{start}
	onFace := map[int]bool{start: true}
	_, v3 := emb.nextFace(v1, v2)
	for v2 != start || v3 != out {
		if onFace[v2] {
			emb.addCW(v1, v3, v2)
			emb.addCCW(v3, v1, v2)
			counted[[2]int{v2, v3}] = true
			counted[[2]int{v3, v1}] = true
			v2 = v1
		} else {
			onFace[v2] = true
			face = append(face, v2)
		}
		v1 = v2
		v2, v3 = emb.nextFace(v2, v3)
		counted[[2]int{v1, v2}] = true
	}
	return face
}

// triangulateFace fans chords across the face right of v1→v2, skipping
// chords that already exist elsewhere in the embedding.
func triangulateFace(emb *rotation, v1, v2 int) {
	_, v3 := emb.nextFace(v1, v2)
	_, v4 := emb.nextFace(v2, v3)
	if v1 == v2 || v1 == v3 {
		return
	}
	for v1 != v4 {
		if emb.hasEdge(v1, v3) {
			v1, v2, v3 = v2, v3, v4
		} else {
			emb.addCW(v1, v3, v2)
			emb.addCCW(v3, v1, v2)
			v2, v3 = v3, v4
		}
		_, v4 = emb.nextFace(v2, v3)
	}
}

// =============================================================================
// Canonical Ordering
// =============================================================================

// canonicalStep is one node of a canonical ordering with the contour
// segment wp … wq it covers when added.
type canonicalStep struct {
	node    int
	contour []int
}

// canonicalOrder computes a canonical ordering of a maximal planar
// embedding by peeling nodes off the outer face. Among ready nodes the
// smallest is taken, so the order is fixed by the embedding.
func canonicalOrder(emb *rotation, outer [3]int) []canonicalStep {
	n := len(emb.first)
	v1, v2 := outer[0], outer[1]
	chords := make([]int, n)
	marked := make([]bool, n)
	ready := map[int]bool{outer[2]: true}

	// Neighbors along the outer face, which runs v1 → v2 → … → v1.
	ccwOuter := map[int]int{v2: outer[2], outer[2]: v1}
	cwOuter := map[int]int{v1: outer[2], outer[2]: v2}

	isOuterNeighbor := func(x, y int) bool {
		c, hasCCW := ccwOuter[x]
		w, hasCW := cwOuter[x]
		return (hasCCW && c == y) || (hasCW && w == y)
	}
	onOuter := func(x int) bool {
		_, ok := ccwOuter[x]
		return !marked[x] && (ok || x == v1)
	}
	countChords := func(v int) {
		for _, nb := range emb.neighbors(v) {
			if onOuter(nb) && !isOuterNeighbor(v, nb) {
				chords[v]++
				delete(ready, v)
			}
		}
	}

	for _, v := range outer {
		countChords(v)
	}
	delete(ready, v1)
	delete(ready, v2)

	order := make([]canonicalStep, n)
	order[0] = canonicalStep{node: v1}
	order[1] = canonicalStep{node: v2}
	for k := n - 1; k > 1; k-- {
		v := smallest(ready)
		delete(ready, v)
		marked[v] = true

		wp, wq := -1, -1
		for _, nb := range emb.neighbors(v) {
			if marked[nb] {
				continue
			}
			if onOuter(nb) {
				switch {
				case nb == v1:
					wp = v1
				case nb == v2:
					wq = v2
				case cwOuter[nb] == v:
					wp = nb
				default:
					wq = nb
				}
			}
			if wp >= 0 && wq >= 0 {
				break
			}
		}

		path := []int{wp}
		for nb := wp; nb != wq; {
			next := emb.ccw[v][nb]
			path = append(path, next)
			cwOuter[nb] = next
			ccwOuter[next] = nb
			nb = next
		}

		if len(path) == 2 {
			for _, w := range path {
				chords[w]--
				if chords[w] == 0 && w != v1 && w != v2 {
					ready[w] = true
				}
			}
		} else {
			fresh := path[1 : len(path)-1]
			isFresh := make(map[int]bool, len(fresh))
			for _, w := range fresh {
				isFresh[w] = true
			}
			for _, w := range fresh {
				ready[w] = true
				for _, nb := range emb.neighbors(w) {
					if onOuter(nb) && !isOuterNeighbor(w, nb) {
						chords[w]++
						delete(ready, w)
						if !isFresh[nb] {
							chords[nb]++
							delete(ready, nb)
						}
					}
				}
			}
		}
		order[k] = canonicalStep{node: v, contour: path}
	}
	return order
}

func smallest(set map[int]bool) int {
	best := -1
	for v := range set {
		if best < 0 || v < best {
			best = v
		}
	}
	return best
}
