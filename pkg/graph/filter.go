package graph

import (
	"sort"

	"git.canoozie.net/riddling/nodedb/pkg/model"
	"git.canoozie.net/riddling/nodedb/pkg/query"
)

// FilterNodesByField returns the nodes whose field equals value. Every node
// must have the field; otherwise a *model.FieldNotFoundError is returned.
func (g *Graph) FilterNodesByField(field string, value any) ([]*model.Node, error) {
	var nodes []*model.Node
	for _, n := range g.Nodes {
		v, ok := n.Field(field)
		if !ok {
			return nil, &model.FieldNotFoundError{Field: field, NodeID: n.ID}
		}
		if model.ValuesEqual(v, value) {
			nodes = append(nodes, n)
		}
	}
	return nodes, nil
}

// FindNodes returns the nodes for which pred returns true
func (g *Graph) FindNodes(pred func(*model.Node) bool) []*model.Node {
	var nodes []*model.Node
	for _, n := range g.Nodes {
		if pred(n) {
			nodes = append(nodes, n)
		}
	}
	return nodes
}

// FindNodesByRegex returns the nodes whose field, in string form, contains a
// match for pattern. The search is unanchored.
func (g *Graph) FindNodesByRegex(field, pattern string) ([]*model.Node, error) {
	re, err := query.CompilePattern(pattern)
	if err != nil {
		return nil, err
	}

	var nodes []*model.Node
	for _, n := range g.Nodes {
		v, ok := n.Field(field)
		if !ok {
			return nil, &model.FieldNotFoundError{Field: field, NodeID: n.ID}
		}
		if re.MatchString(model.FormatValue(v)) {
			nodes = append(nodes, n)
		}
	}
	return nodes, nil
}

// SortNodesBy returns the nodes stably sorted by field and sliced to
// [offset, offset+limit). A limit of zero or less means no limit. The graph's
// own order is left untouched.
func (g *Graph) SortNodesBy(field string, limit, offset int) ([]*model.Node, error) {
	type keyed struct {
		node  *model.Node
		value any
	}

	items := make([]keyed, 0, len(g.Nodes))
	for _, n := range g.Nodes {
		v, ok := n.Field(field)
		if !ok {
			return nil, &model.FieldNotFoundError{Field: field, NodeID: n.ID}
		}
		items = append(items, keyed{node: n, value: v})
	}

	sort.SliceStable(items, func(i, j int) bool {
		return model.CompareValues(items[i].value, items[j].value) < 0
	})

	if offset < 0 {
		offset = 0
	}
	if offset > len(items) {
		offset = len(items)
	}
	end := len(items)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}

	nodes := make([]*model.Node, 0, end-offset)
	for _, item := range items[offset:end] {
		nodes = append(nodes, item.node)
	}
	return nodes, nil
}
