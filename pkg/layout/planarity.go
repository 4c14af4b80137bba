package layout

import (
	"slices"
)

// =============================================================================
// Rotation System
// =============================================================================

// rotation is a combinatorial embedding: the clockwise order of neighbors
// around every node. cw[v][w] is the neighbor following w clockwise around
// v, ccw[v][w] the one preceding it. first[v] is -1 for isolated nodes.
type rotation struct {
	cw, ccw []map[int]int
	first   []int
}

func newRotation(n int) *rotation {
	r := &rotation{
		cw:    make([]map[int]int, n),
		ccw:   make([]map[int]int, n),
		first: make([]int, n),
	}
	for v := range n {
		r.cw[v] = make(map[int]int)
		r.ccw[v] = make(map[int]int)
		r.first[v] = -1
	}
	return r
}

func (r *rotation) hasEdge(u, v int) bool {
	_, ok := r.cw[u][v]
	return ok
}

// addCW inserts the half-edge start→end clockwise after ref. A ref of -1
// requires start to have no neighbors yet.
func (r *rotation) addCW(start, end, ref int) {
	if ref < 0 {
		r.cw[start][end] = end
		r.ccw[start][end] = end
		r.first[start] = end
		return
	}
	next := r.cw[start][ref]
	r.cw[start][ref] = end
	r.cw[start][end] = next
	r.ccw[start][next] = end
	r.ccw[start][end] = ref
}

// addCCW inserts the half-edge start→end counterclockwise before ref.
func (r *rotation) addCCW(start, end, ref int) {
	if ref < 0 {
		r.addCW(start, end, -1)
		return
	}
	r.addCW(start, end, r.ccw[start][ref])
	if ref == r.first[start] {
		r.first[start] = end
	}
}

// addFirst inserts start→end as the new first neighbor of start.
func (r *rotation) addFirst(start, end int) {
	r.addCCW(start, end, r.first[start])
}

// nextFace returns the half-edge following v→w on the face to its right.
func (r *rotation) nextFace(v, w int) (int, int) {
	return w, r.ccw[w][v]
}

// neighbors returns the neighbors of v in clockwise order from first[v].
func (r *rotation) neighbors(v int) []int {
	start := r.first[v]
	if start < 0 {
		return nil
	}
	out := []int{start}
	for cur := r.cw[v][start]; cur != start; cur = r.cw[v][cur] {
		out = append(out, cur)
	}
	return out
}

// =============================================================================
// Left-Right Planarity Test
// =============================================================================

// arc is an edge oriented by the DFS; noArc stands for a missing arc.
type arc struct{ from, to int }

var noArc = arc{-1, -1}

type interval struct{ low, high arc }

func (i interval) empty() bool { return i.low == noArc && i.high == noArc }

type conflictPair struct{ left, right interval }

func (p *conflictPair) swap() { p.left, p.right = p.right, p.left }

// lrPlanarity is the left-right planarity test of de Fraysseix and
// Rosenstiehl in the formulation of Brandes. It orients the graph by DFS,
// partitions the back edges into left and right sides under the nesting
// constraints, and turns the resulting sides into a rotation system.
type lrPlanarity struct {
	adj     [][]int
	height  []int
	parent  []arc
	out     [][]int
	ordered [][]int
	roots   []int

	oriented map[[2]int]bool
	lowpt    map[arc]int
	lowpt2   map[arc]int
	nesting  map[arc]int

	stack       []*conflictPair
	stackBottom map[arc]*conflictPair
	lowptArc    map[arc]arc
	ref         map[arc]arc
	side        map[arc]int

	leftRef, rightRef []int
	emb               *rotation
}

// planarEmbedding returns a rotation system of the undirected graph adj, or
// false when the graph is not planar. adj must be symmetric and free of
// self-loops.
func planarEmbedding(adj [][]int) (*rotation, bool) {
	n := len(adj)
	e := 0
	for _, nbrs := range adj {
		e += len(nbrs)
	}
	if e /= 2; n > 2 && e > 3*n-6 {
		return nil, false
	}

	lr := &lrPlanarity{
		adj:         adj,
		height:      make([]int, n),
		parent:      make([]arc, n),
		out:         make([][]int, n),
		ordered:     make([][]int, n),
		oriented:    make(map[[2]int]bool, e),
		lowpt:       make(map[arc]int, e),
		lowpt2:      make(map[arc]int, e),
		nesting:     make(map[arc]int, e),
		stackBottom: make(map[arc]*conflictPair, e),
		lowptArc:    make(map[arc]arc, e),
		ref:         make(map[arc]arc, e),
		side:        make(map[arc]int, e),
		leftRef:     make([]int, n),
		rightRef:    make([]int, n),
	}
	for v := range n {
		lr.height[v] = -1
		lr.parent[v] = noArc
	}

	for v := range n {
		if lr.height[v] < 0 {
			lr.height[v] = 0
			lr.roots = append(lr.roots, v)
			lr.orient(v)
		}
	}

	lr.sortByNesting()
	for _, root := range lr.roots {
		if !lr.test(root) {
			return nil, false
		}
	}

	for v := range n {
		for _, w := range lr.out[v] {
			a := arc{v, w}
			lr.nesting[a] *= lr.sign(a)
		}
	}
	lr.sortByNesting()

	lr.emb = newRotation(n)
	for v := range n {
		prev := -1
		for _, w := range lr.ordered[v] {
			lr.emb.addCW(v, w, prev)
			prev = w
		}
	}
	for _, root := range lr.roots {
		lr.embed(root)
	}
	return lr.emb, true
}

// sortByNesting orders each node's outgoing arcs by nesting depth, ties
// kept in DFS order.
func (lr *lrPlanarity) sortByNesting() {
	for v, arcs := range lr.out {
		sorted := slices.Clone(arcs)
		slices.SortStableFunc(sorted, func(a, b int) int {
			return lr.nesting[arc{v, a}] - lr.nesting[arc{v, b}]
		})
		lr.ordered[v] = sorted
	}
}

func (lr *lrPlanarity) refOf(a arc) arc {
	if r, ok := lr.ref[a]; ok {
		return r
	}
	return noArc
}

func (lr *lrPlanarity) setRef(a, to arc) {
	if a != noArc {
		lr.ref[a] = to
	}
}

func (lr *lrPlanarity) sideOf(a arc) int {
	if s, ok := lr.side[a]; ok {
		return s
	}
	return 1
}

func (lr *lrPlanarity) top() *conflictPair {
	if len(lr.stack) == 0 {
		return nil
	}
	return lr.stack[len(lr.stack)-1]
}

func (lr *lrPlanarity) pop() *conflictPair {
	p := lr.stack[len(lr.stack)-1]
	lr.stack = lr.stack[:len(lr.stack)-1]
	return p
}

func (lr *lrPlanarity) conflicting(i interval, b arc) bool {
	return !i.empty() && lr.lowpt[i.high] > lr.lowpt[b]
}

func (lr *lrPlanarity) lowest(p *conflictPair) int {
	switch {
	case p.left.empty():
		return lr.lowpt[p.right.low]
	case p.right.empty():
		return lr.lowpt[p.left.low]
	}
	return min(lr.lowpt[p.left.low], lr.lowpt[p.right.low])
}

// orient runs the DFS that orients every edge, computing lowpoints and the
// nesting depth of each arc.
func (lr *lrPlanarity) orient(v int) {
	e := lr.parent[v]
	for _, w := range lr.adj[v] {
		key := [2]int{min(v, w), max(v, w)}
		if lr.oriented[key] {
			continue
		}
		lr.oriented[key] = true
		vw := arc{v, w}
		lr.out[v] = append(lr.out[v], w)

		lr.lowpt[vw] = lr.height[v]
		lr.lowpt2[vw] = lr.height[v]
		if lr.height[w] < 0 {
			lr.parent[w] = vw
			lr.height[w] = lr.height[v] + 1
			lr.orient(w)
		} else {
			lr.lowpt[vw] = lr.height[w]
		}

		lr.nesting[vw] = 2 * lr.lowpt[vw]
		if lr.lowpt2[vw] < lr.height[v] {
			lr.nesting[vw]++
		}

		if e == noArc {
			continue
		}
		switch {
		case lr.lowpt[vw] < lr.lowpt[e]:
			lr.lowpt2[e] = min(lr.lowpt[e], lr.lowpt2[vw])
			lr.lowpt[e] = lr.lowpt[vw]
		case lr.lowpt[vw] > lr.lowpt[e]:
			lr.lowpt2[e] = min(lr.lowpt2[e], lr.lowpt[vw])
		default:
			lr.lowpt2[e] = min(lr.lowpt2[e], lr.lowpt2[vw])
		}
	}
}

// test runs the second DFS, merging the return edges of each arc into
// conflict pairs. It reports false on the first unresolvable conflict.
func (lr *lrPlanarity) test(v int) bool {
	e := lr.parent[v]
	for i, w := range lr.ordered[v] {
		ei := arc{v, w}
		lr.stackBottom[ei] = lr.top()
		if ei == lr.parent[w] {
			if !lr.test(w) {
				return false
			}
		} else {
			lr.lowptArc[ei] = ei
			lr.stack = append(lr.stack, &conflictPair{
				left:  interval{noArc, noArc},
				right: interval{ei, ei},
			})
		}

		if lr.lowpt[ei] < lr.height[v] {
			if i == 0 {
				lr.lowptArc[e] = lr.lowptArc[ei]
			} else if !lr.addConstraints(ei, e) {
				return false
			}
		}
	}
	if e != noArc {
		lr.removeBackEdges(e)
	}
	return true
}

func (lr *lrPlanarity) addConstraints(ei, e arc) bool {
	p := &conflictPair{left: interval{noArc, noArc}, right: interval{noArc, noArc}}

	// Return edges of ei go right.
	for {
		q := lr.pop()
		if !q.left.empty() {
			q.swap()
		}
		if !q.left.empty() {
			return false
		}
		if lr.lowpt[q.right.low] > lr.lowpt[e] {
			if p.right.empty() {
				p.right = q.right
			} else {
				lr.setRef(p.right.low, q.right.high)
			}
			p.right.low = q.right.low
		} else {
			lr.setRef(q.right.low, lr.lowptArc[e])
		}
		if lr.top() == lr.stackBottom[ei] {
			break
		}
	}

	// Conflicting return edges of earlier siblings go left.
	for {
		t := lr.top()
		if t == nil || !(lr.conflicting(t.left, ei) || lr.conflicting(t.right, ei)) {
			break
		}
		q := lr.pop()
		if lr.conflicting(q.right, ei) {
			q.swap()
		}
		if lr.conflicting(q.right, ei) {
			return false
		}
		lr.setRef(p.right.low, q.right.high)
		if q.right.low != noArc {
			p.right.low = q.right.low
		}
		if p.left.empty() {
			p.left = q.left
		} else {
			lr.setRef(p.left.low, q.left.high)
		}
		p.left.low = q.left.low
	}

	if !p.left.empty() || !p.right.empty() {
		lr.stack = append(lr.stack, p)
	}
	return true
}

func (lr *lrPlanarity) removeBackEdges(e arc) {
	u := e.from
	for len(lr.stack) > 0 && lr.lowest(lr.top()) == lr.height[u] {
		p := lr.pop()
		if p.left.low != noArc {
			lr.side[p.left.low] = -1
		}
	}

	if len(lr.stack) > 0 {
		p := lr.pop()
		for p.left.high != noArc && p.left.high.to == u {
			p.left.high = lr.refOf(p.left.high)
		}
		if p.left.high == noArc && p.left.low != noArc {
			lr.ref[p.left.low] = p.right.low
			lr.side[p.left.low] = -1
			p.left.low = noArc
		}
		for p.right.high != noArc && p.right.high.to == u {
			p.right.high = lr.refOf(p.right.high)
		}
		if p.right.high == noArc && p.right.low != noArc {
			lr.ref[p.right.low] = p.left.low
			lr.side[p.right.low] = -1
			p.right.low = noArc
		}
		lr.stack = append(lr.stack, p)
	}

	// e takes the side of its highest return edge.
	if lr.lowpt[e] < lr.height[u] {
		hl, hr := lr.top().left.high, lr.top().right.high
		if hl != noArc && (hr == noArc || lr.lowpt[hl] > lr.lowpt[hr]) {
			lr.ref[e] = hl
		} else {
			lr.ref[e] = hr
		}
	}
}

// sign resolves the side of a relative to the DFS tree.
func (lr *lrPlanarity) sign(a arc) int {
	if r := lr.refOf(a); r != noArc {
		lr.side[a] = lr.sideOf(a) * lr.sign(r)
		lr.ref[a] = noArc
	}
	return lr.sideOf(a)
}

// embed adds the incoming half-edges to the rotation built from the
// outgoing arcs.
func (lr *lrPlanarity) embed(v int) {
	for _, w := range lr.ordered[v] {
		ei := arc{v, w}
		if ei == lr.parent[w] {
			lr.emb.addFirst(w, v)
			lr.leftRef[v] = w
			lr.rightRef[v] = w
			lr.embed(w)
			continue
		}
		if lr.sideOf(ei) == 1 {
			lr.emb.addCW(w, v, lr.rightRef[w])
		} else {
			lr.emb.addCCW(w, v, lr.leftRef[w])
			lr.leftRef[w] = v
		}
	}
}
