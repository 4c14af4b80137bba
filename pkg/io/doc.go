// Package io exports synthesized graphs and their metrics.
//
// # GEXF
//
// [WriteGEXF] writes a GEXF 1.2 document that Gephi and similar tools open
// directly. Nodes are the integers 0..N-1. Optional node data travels with
// the graph:
//
//   - viz:position from the normalized layout
//   - an integer "community" attribute from the partition labels
//
// Edge weights are written only when the graph is weighted. [ReadGEXF]
// reads such a document back, so an exported graph can be re-rendered
// without regenerating it.
//
//	err := io.ExportGEXF(g, io.GEXFOptions{Positions: pos, Labels: labels}, "out.gexf")
//
// # Metrics
//
// [WriteMetrics] writes the analysis record as indented JSON. Metrics that
// are undefined for the graph, such as the diameter of a disconnected graph,
// are written as their reason string instead of a number:
//
//	{
//	  "nodes": 20,
//	  "edges": 31,
//	  "connected": false,
//	  "diameter": "not connected",
//	  ...
//	}
//
// # Filenames
//
// [ExportFilename] names artifacts "graph_<kind>_<timestamp>.<ext>".
package io
