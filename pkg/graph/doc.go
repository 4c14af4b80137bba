// Package graph provides the immutable graph value shared by every stage of
// the synthesis pipeline.
//
// # Model
//
// A [Graph] has N nodes identified by the contiguous integer range [0, N).
// Edges are stored once:
//
//   - Undirected graphs keep each edge canonically with U < V.
//   - Directed graphs keep ordered arcs U → V.
//
// Self-loops and parallel edges are never stored. Edges are kept sorted by
// (U, V), so iteration order is deterministic and two graphs built from the
// same edge set compare equal edge by edge.
//
// # Building
//
// Generators assemble graphs through a [Builder], which supports removal and
// neighborhood queries while a model is still wiring edges:
//
//	b := graph.NewBuilder(5, false)
//	b.AddEdge(0, 1)
//	b.AddEdge(1, 2)
//	g := b.Build()
//
// # Immutability
//
// A built Graph is never mutated. Operations that change weights or
// orientation return a new value:
//
//	weighted := g.WithWeights(ws)
//	directed := weighted.ToDirected()
//
// [Graph.Edges] and [Graph.Weights] return copies, so callers holding a Graph
// cannot alter what other holders observe.
//
// # Gonum Interop
//
// [Graph.Undirected] and [Graph.WeightedUndirected] project a Graph onto
// gonum's simple graph types for the community, path and topology packages.
package graph
