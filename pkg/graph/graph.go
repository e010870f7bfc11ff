// Package graph holds the in-memory graph: ordered node and edge
// collections with identity, relationship and approximate lookups. A Graph
// is not safe for concurrent mutation; wrap it in a Locked when it has to be
// shared.
package graph

import (
	"fmt"
	"io"
	"strings"

	"git.canoozie.net/riddling/nodedb/pkg/model"
	"git.canoozie.net/riddling/nodedb/pkg/query"
)

// Graph owns an ordered collection of nodes and edges. Insertion order is
// the iteration order and carries no ranking. The zero value is an empty
// graph logging to the package default logger.
type Graph struct {
	Nodes []*model.Node
	Edges []*model.Edge

	logger model.Logger
	engine *query.Engine
}

// New creates an empty graph
func New(logger model.Logger) *Graph {
	if logger == nil {
		logger = model.DefaultLoggerInstance
	}
	return &Graph{
		logger: logger,
		engine: query.NewEngine(logger),
	}
}

// log returns the graph's logger, falling back to the package default for
// a zero Graph
func (g *Graph) log() model.Logger {
	if g.logger == nil {
		return model.DefaultLoggerInstance
	}
	return g.logger
}

// queryEngine returns the graph's query engine, creating it on first use
func (g *Graph) queryEngine() *query.Engine {
	if g.engine == nil {
		g.engine = query.NewEngine(g.log())
	}
	return g.engine
}

// AddNode appends a node. Duplicates are not detected.
func (g *Graph) AddNode(n *model.Node) {
	g.Nodes = append(g.Nodes, n)
}

// AddEdge appends an edge. Parallel edges are permitted.
func (g *Graph) AddEdge(e *model.Edge) {
	g.Edges = append(g.Edges, e)
}

// Connect creates an edge of the base edge type and appends it
func (g *Graph) Connect(name string, a, b *model.Node) *model.Edge {
	e := model.NewEdge(name, a, b)
	g.AddEdge(e)
	return e
}

// RemoveNode removes every occurrence of n and every edge that has n as an
// endpoint. Nodes whose Parent is n keep the reference. Returns false when n
// is not in the graph.
func (g *Graph) RemoveNode(n *model.Node) bool {
	if !g.Contains(n) {
		return false
	}
	nodes := g.Nodes[:0]
	for _, candidate := range g.Nodes {
		if candidate != n {
			nodes = append(nodes, candidate)
		}
	}
	for i := len(nodes); i < len(g.Nodes); i++ {
		g.Nodes[i] = nil
	}
	g.Nodes = nodes

	kept := g.Edges[:0]
	pruned := 0
	for _, e := range g.Edges {
		if e.Touches(n) {
			pruned++
			continue
		}
		kept = append(kept, e)
	}
	for i := len(kept); i < len(g.Edges); i++ {
		g.Edges[i] = nil
	}
	g.Edges = kept

	g.log().Debug("Removed node %s and %d incident edges", n.ID, pruned)
	return true
}

// RemoveEdge removes e by identity. Returns false when e is not in the graph.
func (g *Graph) RemoveEdge(e *model.Edge) bool {
	for i, candidate := range g.Edges {
		if candidate == e {
			g.Edges = append(g.Edges[:i], g.Edges[i+1:]...)
			return true
		}
	}
	return false
}

// Contains reports whether n itself (not merely a node with the same id) is
// in the graph
func (g *Graph) Contains(n *model.Node) bool {
	return g.indexOf(n) >= 0
}

func (g *Graph) indexOf(n *model.Node) int {
	for i, candidate := range g.Nodes {
		if candidate == n {
			return i
		}
	}
	return -1
}

// NodeByID returns the first node with the given id, or nil
func (g *Graph) NodeByID(id string) *model.Node {
	for _, n := range g.Nodes {
		if n.ID == id {
			return n
		}
	}
	return nil
}

// NodeByAlias returns the first node with the given alias, or nil
func (g *Graph) NodeByAlias(alias string) *model.Node {
	for _, n := range g.Nodes {
		if n.Alias == alias {
			return n
		}
	}
	return nil
}

// NodeByName returns the first node with the given name, or nil
func (g *Graph) NodeByName(name string) *model.Node {
	for _, n := range g.Nodes {
		if n.Name == name {
			return n
		}
	}
	return nil
}

// NodesNameContaining returns the nodes whose name contains s. A node named
// exactly s short-circuits the scan and is returned alone.
func (g *Graph) NodesNameContaining(s string) []*model.Node {
	var nodes []*model.Node
	for _, n := range g.Nodes {
		if n.Name == s {
			return []*model.Node{n}
		}
		if strings.Contains(n.Name, s) {
			nodes = append(nodes, n)
		}
	}
	return nodes
}

// Parent returns the parent of the node with the given id. Nil when the node
// is absent or has no parent.
func (g *Graph) Parent(id string) *model.Node {
	n := g.NodeByID(id)
	if n == nil {
		return nil
	}
	return n.Parent
}

// Children returns the nodes whose Parent is parent
func (g *Graph) Children(parent *model.Node) []*model.Node {
	var children []*model.Node
	for _, n := range g.Nodes {
		if n.Parent == parent {
			children = append(children, n)
		}
	}
	return children
}

// EdgesFrom returns the edges whose source is n
func (g *Graph) EdgesFrom(n *model.Node) []*model.Edge {
	var edges []*model.Edge
	for _, e := range g.Edges {
		if e.NodeA == n {
			edges = append(edges, e)
		}
	}
	return edges
}

// EdgesTo returns the edges whose target is n
func (g *Graph) EdgesTo(n *model.Node) []*model.Edge {
	var edges []*model.Edge
	for _, e := range g.Edges {
		if e.NodeB == n {
			edges = append(edges, e)
		}
	}
	return edges
}

// FindNodesByQuery returns the nodes matching a filter expression such as
// `name=^foo && (alias!=bar || node_type=REPO)`
func (g *Graph) FindNodesByQuery(text string) ([]*model.Node, error) {
	return g.queryEngine().Find(g.Nodes, text)
}

// Print writes a listing of the graph's nodes and edges
func (g *Graph) Print(w io.Writer) error {
	if _, err := fmt.Fprintln(w, "Graph Nodes:"); err != nil {
		return err
	}
	for _, n := range g.Nodes {
		if _, err := fmt.Fprintf(w, "  - %s\n", n); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w, "\nGraph Edges:"); err != nil {
		return err
	}
	for _, e := range g.Edges {
		if _, err := fmt.Fprintf(w, "  - %s\n", e); err != nil {
			return err
		}
	}
	return nil
}
