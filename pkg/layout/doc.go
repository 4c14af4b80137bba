// Package layout computes 2D node positions and maps them into a viewport.
//
// # Algorithms
//
// Nine strategies form a closed set selected by [Algorithm]:
//
//   - [Spring]: force-directed, k = 1/√N, 50 iterations, weighted attraction
//   - [Circular]: evenly spaced on a circle
//   - [Shell]: concentric rings by BFS depth from the highest-degree node
//   - [Spiral]: Archimedean spiral
//   - [Random]: uniform in the unit square
//   - [KamadaKawai]: stress majorization of hop distances, seeded by MDS
//   - [FruchtermanReingold]: force-directed with unit weights, 100 iterations
//   - [Spectral]: Laplacian eigenvectors 2 and 3
//   - [Planar]: left-right planarity test, then a straight-line grid drawing
//     by the shift method, or [ErrNotPlanar]
//
// Strategies work on the undirected projection and draw randomness only from
// the supplied source, so every layout is reproducible for a fixed seed.
//
// # Fallback
//
// [Compute] recovers any strategy failure ([ErrNotPlanar], [ErrNoConvergence])
// by running [Spring] instead. The returned [Result] records the requested and the used algorithm, so callers
// can tell the fallback happened without inspecting errors.
//
// # Normalization
//
// Raw coordinates are mapped into [0, W] × [0, H] by [Normalize]: the bounding
// box is scaled by 0.9·min(W/range_x, H/range_y) and centered. An axis with
// zero range has scale 1 instead of W/range_x.
package layout
