package model

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// BaseCategory is the coarse classification of a registered type. It scopes
// the candidates considered when a persisted type path has to be matched
// against the types known today.
type BaseCategory string

// Base categories
const (
	BaseNone      BaseCategory = "NONE"
	BaseBaseModel BaseCategory = "BASEMODEL"
	BaseNode      BaseCategory = "NODE"
	BaseEdge      BaseCategory = "EDGE"
)

// ParseBaseCategory converts a persisted category name. An empty or
// unrecognised name yields BaseNone.
func ParseBaseCategory(s string) (BaseCategory, bool) {
	switch c := BaseCategory(s); c {
	case BaseBaseModel, BaseNode, BaseEdge, BaseNone:
		return c, true
	default:
		return BaseNone, false
	}
}

// Includes reports whether a type of category other descends from c.
// Everything descends from BASEMODEL except NONE; NODE and EDGE only
// include themselves.
func (c BaseCategory) Includes(other BaseCategory) bool {
	switch c {
	case BaseBaseModel:
		return other != BaseNone
	case BaseNode, BaseEdge:
		return other == c
	default:
		return false
	}
}

// Paths of the types every registry starts with
const (
	BaseModelPath = "nodedb.BaseModel"
	NodePath      = "nodedb.Node"
	EdgePath      = "nodedb.Edge"
	NodeTypePath  = "nodedb.NodeType"
)

// TypeDescriptor describes a concrete node or edge type that can be
// persisted and restored
type TypeDescriptor struct {
	Path    string            // Dotted type path, unique within a registry
	Base    BaseCategory      // Category the type descends from
	Fields  []Property        // Declared subtype fields with their defaults
	Renames map[string]string // Legacy field name -> current field name
}

// Namespace returns the first segment of the type's dotted path
func (d *TypeDescriptor) Namespace() string {
	return Namespace(d.Path)
}

// Namespace returns the first segment of a dotted type path
func Namespace(path string) string {
	ns, _, _ := strings.Cut(path, ".")
	return ns
}

// TypeRegistry maps dotted type paths to descriptors. It is populated once
// at startup; lookups after that are read-only.
type TypeRegistry struct {
	mu    sync.RWMutex
	types map[string]*TypeDescriptor
}

// NewTypeRegistry creates a registry holding the built-in types
func NewTypeRegistry() *TypeRegistry {
	r := &TypeRegistry{types: make(map[string]*TypeDescriptor)}
	for _, d := range builtinTypes() {
		r.types[d.Path] = d
	}
	return r
}

func builtinTypes() []*TypeDescriptor {
	return []*TypeDescriptor{
		{Path: BaseModelPath, Base: BaseBaseModel},
		{Path: NodePath, Base: BaseNode},
		{Path: EdgePath, Base: BaseEdge},
		{Path: NodeTypePath, Base: BaseNone},
	}
}

// DefaultTypes is the registry used when callers do not supply their own
var DefaultTypes = NewTypeRegistry()

// Register adds a descriptor. Registering the same path twice is an error.
func (r *TypeRegistry) Register(d TypeDescriptor) error {
	if d.Path == "" || !strings.Contains(d.Path, ".") {
		return fmt.Errorf("%w: type path %q must be dotted", ErrInvalidInput, d.Path)
	}
	if _, ok := ParseBaseCategory(string(d.Base)); !ok {
		return fmt.Errorf("%w: type %s has unknown base %q", ErrInvalidInput, d.Path, d.Base)
	}
	for _, f := range d.Fields {
		if (d.Base == BaseNode && IsReservedNodeField(f.Key)) || (d.Base == BaseEdge && IsReservedEdgeField(f.Key)) {
			return fmt.Errorf("%w: type %s declares reserved field %q", ErrInvalidInput, d.Path, f.Key)
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.types[d.Path]; exists {
		return fmt.Errorf("%w: type %s already registered", ErrInvalidInput, d.Path)
	}
	r.types[d.Path] = &d
	return nil
}

// MustRegister is like Register but panics on error. Intended for init().
func (r *TypeRegistry) MustRegister(d TypeDescriptor) {
	if err := r.Register(d); err != nil {
		panic(err)
	}
}

// Lookup returns the descriptor registered under path
func (r *TypeRegistry) Lookup(path string) (*TypeDescriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.types[path]
	return d, ok
}

// Known returns every registered type keyed by path
func (r *TypeRegistry) Known() map[string]*TypeDescriptor {
	return r.filter(func(*TypeDescriptor) bool { return true })
}

// SubtypesOf returns the registered types that descend from base, excluding
// the built-in type that represents the category itself
func (r *TypeRegistry) SubtypesOf(base BaseCategory) map[string]*TypeDescriptor {
	self := categoryPath(base)
	return r.filter(func(d *TypeDescriptor) bool {
		return d.Path != self && base.Includes(d.Base)
	})
}

// InNamespace returns the registered types whose path shares the given top
// level namespace
func (r *TypeRegistry) InNamespace(ns string) map[string]*TypeDescriptor {
	return r.filter(func(d *TypeDescriptor) bool {
		return d.Namespace() == ns
	})
}

// Paths returns the registered paths in sorted order
func (r *TypeRegistry) Paths() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	paths := make([]string, 0, len(r.types))
	for p := range r.types {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

func (r *TypeRegistry) filter(keep func(*TypeDescriptor) bool) map[string]*TypeDescriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]*TypeDescriptor)
	for p, d := range r.types {
		if keep(d) {
			out[p] = d
		}
	}
	return out
}

// NewNode constructs a node of the registered type at path, with the
// type's declared fields set to their defaults
func (r *TypeRegistry) NewNode(path, name string) (*Node, error) {
	d, ok := r.Lookup(path)
	if !ok {
		return nil, &UnknownTypeError{Path: path}
	}
	if d.Base != BaseNode {
		return nil, fmt.Errorf("%w: type %s is not a node type", ErrInvalidInput, path)
	}
	n := NewNode(name)
	n.Type = d.Path
	for _, f := range d.Fields {
		n.AddProperty(f.Key, f.Value)
	}
	return n, nil
}

// NewEdge constructs an edge of the registered type at path
func (r *TypeRegistry) NewEdge(path, name string, a, b *Node) (*Edge, error) {
	d, ok := r.Lookup(path)
	if !ok {
		return nil, &UnknownTypeError{Path: path}
	}
	if d.Base != BaseEdge {
		return nil, fmt.Errorf("%w: type %s is not an edge type", ErrInvalidInput, path)
	}
	e := NewEdge(name, a, b)
	e.Type = d.Path
	for _, f := range d.Fields {
		e.AddProperty(f.Key, f.Value)
	}
	return e, nil
}

func categoryPath(c BaseCategory) string {
	switch c {
	case BaseBaseModel:
		return BaseModelPath
	case BaseNode:
		return NodePath
	case BaseEdge:
		return EdgePath
	default:
		return ""
	}
}
