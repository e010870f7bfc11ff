package model

import "sync"

// NodeType is the variant tag of a node. The set of values is open:
// applications add their own with RegisterNodeType. Values that were never
// registered are kept verbatim and report as unknown.
type NodeType string

// Built-in node types
const (
	NodeTypeUndefined NodeType = "UNDEFINED"
	NodeTypeRepo      NodeType = "REPO"
	NodeTypeProject   NodeType = "PROJECT"

	// NodeTypeUnknown is the wildcard arm for values not in the registry
	NodeTypeUnknown NodeType = "UNKNOWN"
)

var (
	nodeTypesMu sync.RWMutex
	nodeTypes   = map[NodeType]struct{}{
		NodeTypeUndefined: {},
		NodeTypeRepo:      {},
		NodeTypeProject:   {},
		NodeTypeUnknown:   {},
	}
)

// RegisterNodeType adds a value to the set of known node types
func RegisterNodeType(t NodeType) {
	nodeTypesMu.Lock()
	defer nodeTypesMu.Unlock()
	nodeTypes[t] = struct{}{}
}

// ParseNodeType converts s to a NodeType and reports whether it is known
func ParseNodeType(s string) (NodeType, bool) {
	t := NodeType(s)
	return t, t.IsKnown()
}

// IsKnown reports whether the node type has been registered
func (t NodeType) IsKnown() bool {
	nodeTypesMu.RLock()
	defer nodeTypesMu.RUnlock()
	_, ok := nodeTypes[t]
	return ok
}

// Kind returns t when it is registered and NodeTypeUnknown otherwise
func (t NodeType) Kind() NodeType {
	if t.IsKnown() {
		return t
	}
	return NodeTypeUnknown
}

// String returns the node type's name
func (t NodeType) String() string {
	return string(t)
}
