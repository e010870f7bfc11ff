package model

import (
	"errors"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRegistry(t *testing.T) *TypeRegistry {
	t.Helper()
	r := NewTypeRegistry()
	require.NoError(t, r.Register(TypeDescriptor{
		Path:   "app.Service",
		Base:   BaseNode,
		Fields: []Property{NewProperty("port", 8080), NewProperty("public", false)},
	}))
	require.NoError(t, r.Register(TypeDescriptor{Path: "app.Calls", Base: BaseEdge}))
	require.NoError(t, r.Register(TypeDescriptor{Path: "ops.Host", Base: BaseNode}))
	return r
}

func keys(m map[string]*TypeDescriptor) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func TestTypeRegistryRegister(t *testing.T) {
	r := newTestRegistry(t)

	tests := []struct {
		name string
		desc TypeDescriptor
	}{
		{"undotted path", TypeDescriptor{Path: "Service", Base: BaseNode}},
		{"empty path", TypeDescriptor{Base: BaseNode}},
		{"unknown base", TypeDescriptor{Path: "app.Thing", Base: "WIDGET"}},
		{"duplicate", TypeDescriptor{Path: "app.Service", Base: BaseNode}},
		{"reserved node field", TypeDescriptor{Path: "app.Named", Base: BaseNode, Fields: []Property{NewProperty("name", "")}}},
		{"reserved edge field", TypeDescriptor{Path: "app.Link", Base: BaseEdge, Fields: []Property{NewProperty("node_a", nil)}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := r.Register(tt.desc)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidInput))
		})
	}

	assert.Panics(t, func() {
		r.MustRegister(TypeDescriptor{Path: "app.Service", Base: BaseNode})
	})
}

func TestTypeRegistryQueries(t *testing.T) {
	r := newTestRegistry(t)

	d, ok := r.Lookup("app.Service")
	require.True(t, ok)
	assert.Equal(t, "app", d.Namespace())

	_, ok = r.Lookup("app.Missing")
	assert.False(t, ok)

	assert.Equal(t, []string{"app.Service", "ops.Host"}, keys(r.SubtypesOf(BaseNode)))
	assert.Equal(t, []string{"app.Calls"}, keys(r.SubtypesOf(BaseEdge)))
	assert.Equal(t,
		[]string{"app.Calls", "app.Service", EdgePath, NodePath, "ops.Host"},
		keys(r.SubtypesOf(BaseBaseModel)),
	)
	assert.Empty(t, r.SubtypesOf(BaseNone))

	assert.Equal(t, []string{"app.Calls", "app.Service"}, keys(r.InNamespace("app")))
	assert.Equal(t, []string{BaseModelPath, EdgePath, NodePath, NodeTypePath}, keys(r.InNamespace("nodedb")))

	paths := r.Paths()
	assert.True(t, sort.StringsAreSorted(paths))
	assert.Len(t, paths, 7)
	assert.Len(t, r.Known(), 7)
}

func TestBaseCategory(t *testing.T) {
	c, ok := ParseBaseCategory("EDGE")
	assert.True(t, ok)
	assert.Equal(t, BaseEdge, c)

	c, ok = ParseBaseCategory("")
	assert.False(t, ok)
	assert.Equal(t, BaseNone, c)

	assert.True(t, BaseBaseModel.Includes(BaseNode))
	assert.True(t, BaseBaseModel.Includes(BaseEdge))
	assert.False(t, BaseBaseModel.Includes(BaseNone))
	assert.True(t, BaseNode.Includes(BaseNode))
	assert.False(t, BaseNode.Includes(BaseEdge))
	assert.False(t, BaseNone.Includes(BaseNone))

	assert.Equal(t, "app", Namespace("app.models.Service"))
	assert.Equal(t, "plain", Namespace("plain"))
}

func TestTypeRegistryConstructors(t *testing.T) {
	r := newTestRegistry(t)

	svc, err := r.NewNode("app.Service", "billing")
	require.NoError(t, err)
	assert.Equal(t, "app.Service", svc.Type)
	port, _ := svc.GetProperty("port")
	assert.Equal(t, 8080, port)

	host, err := r.NewNode("ops.Host", "db01")
	require.NoError(t, err)

	edge, err := r.NewEdge("app.Calls", "calls", svc, host)
	require.NoError(t, err)
	assert.Equal(t, "app.Calls", edge.Type)

	_, err = r.NewNode("app.Calls", "wrong")
	assert.True(t, errors.Is(err, ErrInvalidInput))

	_, err = r.NewEdge("app.Service", "wrong", svc, host)
	assert.True(t, errors.Is(err, ErrInvalidInput))

	_, err = r.NewNode("app.Nope", "x")
	var unknown *UnknownTypeError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "app.Nope", unknown.Path)
}
