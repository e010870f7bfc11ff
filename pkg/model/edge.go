package model

import (
	"fmt"

	"git.canoozie.net/riddling/nodedb/pkg/common"
)

var reservedEdgeFields = map[string]struct{}{
	common.ObjectKey: {},
	FieldName:        {},
	keyNodeA:         {},
	keyNodeB:         {},
}

// IsReservedEdgeField reports whether key is written by the edge itself in
// the persisted form and so cannot be used as a property name
func IsReservedEdgeField(key string) bool {
	_, ok := reservedEdgeFields[key]
	return ok
}

// Edge represents a named, directed relation between two nodes
type Edge struct {
	Name  string // Relation label, not unique
	NodeA *Node  // Source, not owned
	NodeB *Node  // Target, not owned
	Type  string // Dotted path of the edge's registered type
	*PropertyContainer
}

// NewEdge creates a new Edge from a to b with the given name
func NewEdge(name string, a, b *Node) *Edge {
	return &Edge{
		Name:              name,
		NodeA:             a,
		NodeB:             b,
		Type:              EdgePath,
		PropertyContainer: NewPropertyContainer(),
	}
}

// AddProperty adds or updates a property. Reserved names are refused with a
// warning and false is returned.
func (e *Edge) AddProperty(key string, value any) bool {
	if IsReservedEdgeField(key) {
		DefaultLoggerInstance.Warn("Property %q on edge %s is reserved, dropped", key, e.Name)
		return false
	}
	if e.PropertyContainer == nil {
		e.PropertyContainer = NewPropertyContainer()
	}
	e.PropertyContainer.AddProperty(key, value)
	return true
}

// Touches reports whether n is either endpoint of the edge
func (e *Edge) Touches(n *Node) bool {
	return e.NodeA == n || e.NodeB == n
}

// String renders the edge as "a --[name]--> b" using endpoint aliases
func (e *Edge) String() string {
	return fmt.Sprintf("%s --[%s]--> %s", endpointAlias(e.NodeA), e.Name, endpointAlias(e.NodeB))
}

func endpointAlias(n *Node) string {
	if n == nil {
		return "<nil>"
	}
	return n.Alias
}
