// Package graph implements a graph-shaped memory layer over a document
// collection backend. Nodes, facts (edges), and episodes each live in a
// named collection; episodes are written as thread messages and read back
// via semantic search over their collection.
package graph

// Collections names the three logical collections backing the graph.
type Collections struct {
	Nodes    string `json:"nodes"`
	Edges    string `json:"edges"`
	Episodes string `json:"episodes"`
}

// DefaultCollections returns the conventional collection names.
func DefaultCollections() Collections {
	return Collections{
		Nodes:    "nodes",
		Edges:    "edges",
		Episodes: "episodes",
	}
}

// Names returns the collection names in nodes, edges, episodes order.
func (c Collections) Names() []string {
	return []string{c.Nodes, c.Edges, c.Episodes}
}
