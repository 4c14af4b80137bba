// Package models generates graphs under thirteen parameterized models.
//
// Each [Kind] maps to one generator strategy. The set is closed: dispatch is a
// switch over the enum, and [Kinds] lists every model in display order.
//
// # Parameters
//
// A generator receives [Params] (node count, a density in [0, 1] and the
// directed flag) and a seeded *rand.Rand. The density is interpreted per
// model: an edge probability, a degree fraction, or a connection radius.
// Derived parameters are clamped into the model's valid domain, with one
// exception: [RandomRegular] reports [ErrDegreeParity] or [ErrDegreeTooLarge]
// instead of clamping, since no clamped degree would honor the request.
//
// # Orientation
//
// Only [Random] and [ScaleFree] produce directed graphs natively. Every other
// model yields an undirected graph; callers orient it afterwards with
// graph.ToDirected when the directed flag is set.
//
// # Determinism
//
// Generators draw exclusively from the supplied source, so identical
// (seed, Params) pairs yield identical edge sets.
package models
