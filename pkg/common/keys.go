package common

import "strings"

// Reserved keys of the persisted document
const (
	ObjectKey   = "@object"  // Type tag of a typed mapping (an instance)
	TypeRefKey  = "@type"    // Bare reference to a type, e.g. an enum value
	RegistryKey = "REGISTRY" // Top-level key carrying the type registry
	NodesKey    = "nodes"    // Top-level list of node mappings
	EdgesKey    = "edges"    // Top-level list of edge mappings

	OpaqueKeyPrefix = "EXTRACT_" // Prefix of every minted opaque key
)

// TypeKeys lists the mapping keys that carry a type identifier
var TypeKeys = []string{ObjectKey, TypeRefKey}

// IsOpaqueKey reports whether s looks like a minted opaque key
func IsOpaqueKey(s string) bool {
	return strings.HasPrefix(s, OpaqueKeyPrefix)
}
