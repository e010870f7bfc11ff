package model

import (
	"fmt"

	"github.com/google/uuid"

	"git.canoozie.net/riddling/nodedb/pkg/common"
)

// Built-in field names resolvable on every node
const (
	FieldID       = "id"
	FieldName     = "name"
	FieldAlias    = "alias"
	FieldNodeType = "node_type"
	FieldParent   = "parent"
	FieldType     = "type"
)

var reservedNodeFields = map[string]struct{}{
	common.ObjectKey: {},
	FieldID:          {},
	FieldName:        {},
	FieldAlias:       {},
	FieldNodeType:    {},
	FieldParent:      {},
	FieldType:        {},
}

// IsReservedNodeField reports whether key is a built-in node field and so
// cannot be used as a property name
func IsReservedNodeField(key string) bool {
	_, ok := reservedNodeFields[key]
	return ok
}

// Node represents a vertex in the graph
type Node struct {
	ID       string   // Unique identifier, a UUID string
	Name     string   // Free-text name, not guaranteed unique
	Alias    string   // Short code, not guaranteed unique
	NodeType NodeType // Variant tag, empty when unset
	Parent   *Node    // Optional back-reference; not owned, cycles allowed
	Type     string   // Dotted path of the node's registered type
	*PropertyContainer
}

// NewNode creates a Node with a fresh id and an alias derived from name
func NewNode(name string) *Node {
	return &Node{
		ID:                uuid.NewString(),
		Name:              name,
		Alias:             GenerateAlias(name),
		Type:              NodePath,
		PropertyContainer: NewPropertyContainer(),
	}
}

// NewNodeWithID creates a Node with explicit alias and id. An empty alias is
// derived from name and an empty id is generated; a supplied id must be a
// valid UUID.
func NewNodeWithID(name, alias, id string) (*Node, error) {
	n := NewNode(name)
	if alias != "" {
		n.Alias = alias
	}
	if id != "" {
		if _, err := uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("%w: node id %q: %v", ErrInvalidInput, id, err)
		}
		n.ID = id
	}
	return n, nil
}

// AddProperty adds or updates a property. Built-in field names are refused
// with a warning and false is returned.
func (n *Node) AddProperty(key string, value any) bool {
	if IsReservedNodeField(key) {
		DefaultLoggerInstance.Warn("Property %q on node %s shadows a built-in field, dropped", key, n.ID)
		return false
	}
	if n.PropertyContainer == nil {
		n.PropertyContainer = NewPropertyContainer()
	}
	n.PropertyContainer.AddProperty(key, value)
	return true
}

// Field resolves a field by name: the built-in fields first, then the
// node's properties. The parent resolves to the parent's id.
func (n *Node) Field(name string) (any, bool) {
	switch name {
	case FieldID:
		return n.ID, true
	case FieldName:
		return n.Name, true
	case FieldAlias:
		return n.Alias, true
	case FieldNodeType:
		if n.NodeType == "" {
			return nil, true
		}
		return string(n.NodeType), true
	case FieldParent:
		if n.Parent == nil {
			return nil, true
		}
		return n.Parent.ID, true
	case FieldType:
		return n.Type, true
	}
	if n.PropertyContainer == nil {
		return nil, false
	}
	return n.GetProperty(name)
}

// String returns a short description used in listings
func (n *Node) String() string {
	return fmt.Sprintf("%s (%s) [%s]", n.Name, n.Alias, n.ID)
}
