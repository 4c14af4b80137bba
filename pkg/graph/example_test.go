package graph_test

import (
	"fmt"

	"github.com/matzehuels/graphsynth/pkg/graph"
)

func ExampleBuilder() {
	b := graph.NewBuilder(4, false)
	b.MustAddEdge(2, 0)
	b.MustAddEdge(0, 1)
	b.MustAddEdge(1, 0) // duplicate of 0-1
	b.MustAddEdge(2, 3)
	g := b.Build()

	fmt.Println("nodes:", g.N(), "edges:", g.EdgeCount())
	for _, e := range g.Edges() {
		fmt.Printf("%d-%d\n", e.U, e.V)
	}
	fmt.Println("neighbors of 0:", g.Neighbors(0))
	// Output:
	// nodes: 4 edges: 3
	// 0-1
	// 0-2
	// 2-3
	// neighbors of 0: [1 2]
}

func ExampleGraph_WithWeights() {
	b := graph.NewBuilder(3, false)
	b.MustAddEdge(0, 1)
	b.MustAddEdge(1, 2)
	g, err := b.Build().WithWeights([]float64{2.5, 4})
	if err != nil {
		fmt.Println("Error:", err)
		return
	}

	w, _ := g.Weight(2, 1)
	fmt.Println("weighted:", g.Weighted(), "w(2,1):", w)
	// Output:
	// weighted: true w(2,1): 4
}

func ExampleGraph_ToDirected() {
	b := graph.NewBuilder(2, false)
	b.MustAddEdge(0, 1)
	d := b.Build().ToDirected()

	fmt.Println("directed:", d.Directed(), "arcs:", d.EdgeCount())
	// Output:
	// directed: true arcs: 2
}
