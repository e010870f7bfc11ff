package model

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"git.canoozie.net/riddling/nodedb/pkg/common"
)

// ErrInvalidSerializedData is returned when a document does not have the
// shape of a persisted graph
var ErrInvalidSerializedData = errors.New("invalid serialized data")

// Keys of a node or edge mapping that are not properties
const (
	keyValue = "value"
	keyNodeA = "node_a"
	keyNodeB = "node_b"
)

// Keys every node mapping carries for its built-in fields
var nodeReservedKeys = map[string]struct{}{
	common.ObjectKey: {},
	FieldID:          {},
	FieldName:        {},
	FieldAlias:       {},
	FieldNodeType:    {},
	FieldParent:      {},
}

// EncodeGraphDocument maps nodes and edges onto a JSON-compatible tree.
// References to nodes in the list are written as ids; references to nodes
// outside it are written inline as full node mappings.
func EncodeGraphDocument(nodes []*Node, edges []*Edge) map[string]any {
	enc := &documentEncoder{
		inGraph:  make(map[*Node]struct{}, len(nodes)),
		visiting: make(map[*Node]struct{}),
	}
	for _, n := range nodes {
		enc.inGraph[n] = struct{}{}
	}

	nodeList := make([]any, 0, len(nodes))
	for _, n := range nodes {
		nodeList = append(nodeList, enc.node(n))
	}
	edgeList := make([]any, 0, len(edges))
	for _, e := range edges {
		edgeList = append(edgeList, enc.edge(e))
	}

	return map[string]any{
		common.NodesKey: nodeList,
		common.EdgesKey: edgeList,
	}
}

type documentEncoder struct {
	inGraph  map[*Node]struct{}
	visiting map[*Node]struct{}
}

func (enc *documentEncoder) node(n *Node) map[string]any {
	enc.visiting[n] = struct{}{}
	defer delete(enc.visiting, n)

	m := make(map[string]any)
	if n.PropertyContainer != nil {
		for k, v := range n.Properties {
			m[k] = copyValue(v)
		}
	}
	m[common.ObjectKey] = n.Type
	m[FieldID] = n.ID
	m[FieldName] = n.Name
	m[FieldAlias] = n.Alias
	m[FieldNodeType] = encodeNodeType(n.NodeType)
	m[FieldParent] = enc.ref(n.Parent)
	return m
}

func (enc *documentEncoder) edge(e *Edge) map[string]any {
	m := make(map[string]any)
	if e.PropertyContainer != nil {
		for k, v := range e.Properties {
			m[k] = copyValue(v)
		}
	}
	m[common.ObjectKey] = e.Type
	m[FieldName] = e.Name
	m[keyNodeA] = enc.ref(e.NodeA)
	m[keyNodeB] = enc.ref(e.NodeB)
	return m
}

// ref writes a node reference. A node already being written further up the
// stack is referenced by id to break cycles.
func (enc *documentEncoder) ref(n *Node) any {
	if n == nil {
		return nil
	}
	if _, ok := enc.inGraph[n]; ok {
		return n.ID
	}
	if _, ok := enc.visiting[n]; ok {
		return n.ID
	}
	return enc.node(n)
}

// copyValue clones nested mappings and sequences so later rewrites of the
// document never reach a node's own property values
func copyValue(v any) any {
	switch x := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, item := range x {
			out[k] = copyValue(item)
		}
		return out
	case []any:
		out := make([]any, len(x))
		for i, item := range x {
			out[i] = copyValue(item)
		}
		return out
	default:
		return v
	}
}

func encodeNodeType(t NodeType) any {
	if t == "" {
		return nil
	}
	return map[string]any{
		common.TypeRefKey: NodeTypePath,
		keyValue:          string(t),
	}
}

// DecodeGraphDocument rebuilds nodes and edges from a tree produced by
// EncodeGraphDocument. Legacy field names are renamed using the descriptor
// of each mapping's type before properties are assigned; types missing from
// the registry are kept verbatim. References that cannot be resolved are
// logged and left nil.
func DecodeGraphDocument(doc map[string]any, types *TypeRegistry, logger Logger) ([]*Node, []*Edge, error) {
	if types == nil {
		types = DefaultTypes
	}
	if logger == nil {
		logger = DefaultLoggerInstance
	}

	rawNodes, err := listAt(doc, common.NodesKey)
	if err != nil {
		return nil, nil, err
	}
	rawEdges, err := listAt(doc, common.EdgesKey)
	if err != nil {
		return nil, nil, err
	}

	dec := &documentDecoder{
		types:    types,
		logger:   logger,
		byID:     make(map[string]*Node),
		detached: make(map[string]*Node),
	}

	nodes := make([]*Node, 0, len(rawNodes))
	parents := make([]any, 0, len(rawNodes))
	for i, raw := range rawNodes {
		m, ok := raw.(map[string]any)
		if !ok {
			return nil, nil, fmt.Errorf("%w: node %d is %T, not a mapping", ErrInvalidSerializedData, i, raw)
		}
		n, parent, err := dec.node(m)
		if err != nil {
			return nil, nil, fmt.Errorf("node %d: %w", i, err)
		}
		if _, dup := dec.byID[n.ID]; !dup {
			dec.byID[n.ID] = n
		}
		nodes = append(nodes, n)
		parents = append(parents, parent)
	}

	for i, n := range nodes {
		parent, err := dec.resolve(parents[i])
		if err != nil {
			return nil, nil, fmt.Errorf("node %s parent: %w", n.ID, err)
		}
		n.Parent = parent
	}

	edges := make([]*Edge, 0, len(rawEdges))
	for i, raw := range rawEdges {
		m, ok := raw.(map[string]any)
		if !ok {
			return nil, nil, fmt.Errorf("%w: edge %d is %T, not a mapping", ErrInvalidSerializedData, i, raw)
		}
		e, err := dec.edge(m)
		if err != nil {
			return nil, nil, fmt.Errorf("edge %d: %w", i, err)
		}
		edges = append(edges, e)
	}

	return nodes, edges, nil
}

type documentDecoder struct {
	types    *TypeRegistry
	logger   Logger
	byID     map[string]*Node // Nodes of the graph, first occurrence per id
	detached map[string]*Node // Nodes written inline, outside the graph
}

// node decodes a node mapping and returns the unresolved parent reference
func (dec *documentDecoder) node(m map[string]any) (*Node, any, error) {
	typePath, err := stringAt(m, common.ObjectKey)
	if err != nil {
		return nil, nil, err
	}
	state := dec.renamed(typePath, m)

	n := &Node{Type: typePath, PropertyContainer: NewPropertyContainer()}
	if n.ID, err = stringAt(state, FieldID); err != nil {
		return nil, nil, err
	}
	if n.ID == "" {
		n.ID = uuid.NewString()
		dec.logger.Warn("Node %q has no id, assigned %s", state[FieldName], n.ID)
	}
	if n.Name, err = stringAt(state, FieldName); err != nil {
		return nil, nil, err
	}
	if n.Alias, err = stringAt(state, FieldAlias); err != nil {
		return nil, nil, err
	}
	if n.NodeType, err = dec.nodeType(state[FieldNodeType]); err != nil {
		return nil, nil, err
	}

	for k, v := range state {
		if _, written := nodeReservedKeys[k]; written {
			continue
		}
		if IsReservedNodeField(k) {
			dec.logger.Warn("Node %s has a %q property that shadows a built-in field, dropped", n.ID, k)
			continue
		}
		n.AddProperty(k, v)
	}
	return n, state[FieldParent], nil
}

func (dec *documentDecoder) edge(m map[string]any) (*Edge, error) {
	typePath, err := stringAt(m, common.ObjectKey)
	if err != nil {
		return nil, err
	}
	state := dec.renamed(typePath, m)

	e := &Edge{Type: typePath, PropertyContainer: NewPropertyContainer()}
	if e.Name, err = stringAt(state, FieldName); err != nil {
		return nil, err
	}
	if e.NodeA, err = dec.resolve(state[keyNodeA]); err != nil {
		return nil, fmt.Errorf("node_a: %w", err)
	}
	if e.NodeB, err = dec.resolve(state[keyNodeB]); err != nil {
		return nil, fmt.Errorf("node_b: %w", err)
	}

	for k, v := range state {
		if !IsReservedEdgeField(k) {
			e.AddProperty(k, v)
		}
	}
	return e, nil
}

// renamed returns a copy of m with the legacy field names of the type at
// typePath replaced by their current names
func (dec *documentDecoder) renamed(typePath string, m map[string]any) map[string]any {
	state := make(map[string]any, len(m))
	for k, v := range m {
		state[k] = v
	}

	d, ok := dec.types.Lookup(typePath)
	if !ok {
		return state
	}
	for oldName, newName := range d.Renames {
		if v, ok := state[oldName]; ok {
			delete(state, oldName)
			state[newName] = v
			dec.logger.Debug("Renamed legacy field %s.%s to %s", typePath, oldName, newName)
		}
	}
	return state
}

func (dec *documentDecoder) nodeType(raw any) (NodeType, error) {
	var value string
	switch v := raw.(type) {
	case nil:
		return "", nil
	case string:
		value = v
	case map[string]any:
		s, err := stringAt(v, keyValue)
		if err != nil {
			return "", err
		}
		value = s
	default:
		return "", fmt.Errorf("%w: node_type is %T", ErrInvalidSerializedData, raw)
	}

	t, known := ParseNodeType(value)
	if !known {
		dec.logger.Warn("Node type %q is not registered, keeping it as %s", value, NodeTypeUnknown)
	}
	return t, nil
}

// resolve turns a persisted node reference into a node: ids are looked up
// among the graph's nodes and then among inline nodes already decoded;
// mappings are decoded as inline nodes
func (dec *documentDecoder) resolve(ref any) (*Node, error) {
	switch v := ref.(type) {
	case nil:
		return nil, nil
	case string:
		if n, ok := dec.byID[v]; ok {
			return n, nil
		}
		if n, ok := dec.detached[v]; ok {
			return n, nil
		}
		dec.logger.Warn("Reference to unknown node %s dropped", v)
		return nil, nil
	case map[string]any:
		n, parent, err := dec.node(v)
		if err != nil {
			return nil, err
		}
		if existing, ok := dec.detached[n.ID]; ok {
			return existing, nil
		}
		dec.detached[n.ID] = n
		if n.Parent, err = dec.resolve(parent); err != nil {
			return nil, err
		}
		return n, nil
	default:
		return nil, fmt.Errorf("%w: node reference is %T", ErrInvalidSerializedData, ref)
	}
}

func listAt(m map[string]any, key string) ([]any, error) {
	raw, ok := m[key]
	if !ok || raw == nil {
		return nil, nil
	}
	list, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: %s is %T, not a list", ErrInvalidSerializedData, key, raw)
	}
	return list, nil
}

// stringAt reads an optional string field; absent and null read as ""
func stringAt(m map[string]any, key string) (string, error) {
	raw, ok := m[key]
	if !ok || raw == nil {
		return "", nil
	}
	s, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("%w: %s is %T, not a string", ErrInvalidSerializedData, key, raw)
	}
	return s, nil
}
