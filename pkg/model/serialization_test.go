package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"git.canoozie.net/riddling/nodedb/pkg/common"
)

// jsonRoundTrip pushes a document through encoding/json so values take the
// shapes a loaded file would have
func jsonRoundTrip(t *testing.T, doc map[string]any) map[string]any {
	t.Helper()
	data, err := json.Marshal(doc)
	require.NoError(t, err)
	var out map[string]any
	require.NoError(t, json.Unmarshal(data, &out))
	return out
}

func observedLogger() (Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return NewZapLogger(zap.New(core), LogLevelDebug), logs
}

func TestEncodeGraphDocument(t *testing.T) {
	repo := NewNode("repo")
	repo.NodeType = NodeTypeRepo
	child := NewNode("child")
	child.Parent = repo
	edge := NewEdge("contains", repo, child)

	doc := EncodeGraphDocument([]*Node{repo, child}, []*Edge{edge})

	nodes := doc[common.NodesKey].([]any)
	require.Len(t, nodes, 2)
	first := nodes[0].(map[string]any)
	assert.Equal(t, NodePath, first[common.ObjectKey])
	assert.Equal(t, repo.ID, first[FieldID])
	assert.Equal(t, map[string]any{common.TypeRefKey: NodeTypePath, "value": "REPO"}, first[FieldNodeType])
	assert.Nil(t, first[FieldParent])

	second := nodes[1].(map[string]any)
	assert.Equal(t, repo.ID, second[FieldParent], "in-graph parents are written as ids")
	assert.Nil(t, second[FieldNodeType])

	edges := doc[common.EdgesKey].([]any)
	require.Len(t, edges, 1)
	e := edges[0].(map[string]any)
	assert.Equal(t, EdgePath, e[common.ObjectKey])
	assert.Equal(t, repo.ID, e["node_a"])
	assert.Equal(t, child.ID, e["node_b"])
}

func TestGraphDocumentRoundTrip(t *testing.T) {
	repo := NewNode("repo")
	repo.NodeType = NodeTypeRepo
	repo.AddProperty("stars", 12)
	child := NewNode("child")
	child.Parent = repo
	edge := NewEdge("contains", repo, child)
	edge.AddProperty("weight", 0.5)

	doc := jsonRoundTrip(t, EncodeGraphDocument([]*Node{repo, child}, []*Edge{edge}))
	nodes, edges, err := DecodeGraphDocument(doc, nil, NewNoOpLogger())
	require.NoError(t, err)
	require.Len(t, nodes, 2)
	require.Len(t, edges, 1)

	assert.Equal(t, repo.ID, nodes[0].ID)
	assert.Equal(t, "repo", nodes[0].Name)
	assert.Equal(t, repo.Alias, nodes[0].Alias)
	assert.Equal(t, NodeTypeRepo, nodes[0].NodeType)
	stars, _ := nodes[0].GetProperty("stars")
	assert.Equal(t, float64(12), stars)

	assert.Same(t, nodes[0], nodes[1].Parent, "parent references resolve to the decoded node")
	assert.Same(t, nodes[0], edges[0].NodeA)
	assert.Same(t, nodes[1], edges[0].NodeB)
	weight, _ := edges[0].GetProperty("weight")
	assert.Equal(t, 0.5, weight)
}

func TestGraphDocumentInlineParent(t *testing.T) {
	inGraph := NewNode("member")
	outside := NewNode("outsider")
	inGraph.Parent = outside
	outside.Parent = inGraph

	doc := EncodeGraphDocument([]*Node{inGraph}, nil)
	parent := doc[common.NodesKey].([]any)[0].(map[string]any)[FieldParent]
	inline, ok := parent.(map[string]any)
	require.True(t, ok, "nodes outside the graph are written inline")
	assert.Equal(t, inGraph.ID, inline[FieldParent], "the cycle back into the graph is an id")

	nodes, _, err := DecodeGraphDocument(jsonRoundTrip(t, doc), nil, NewNoOpLogger())
	require.NoError(t, err)
	require.Len(t, nodes, 1)
	require.NotNil(t, nodes[0].Parent)
	assert.Equal(t, outside.ID, nodes[0].Parent.ID)
	assert.Same(t, nodes[0], nodes[0].Parent.Parent)
}

func TestDecodeGraphDocumentRenames(t *testing.T) {
	types := NewTypeRegistry()
	types.MustRegister(TypeDescriptor{
		Path:    "app.Task",
		Base:    BaseNode,
		Renames: map[string]string{"owner": "assignee"},
	})

	doc := map[string]any{
		common.NodesKey: []any{
			map[string]any{
				common.ObjectKey: "app.Task",
				FieldID:          "8a3e6f5c-1d52-4f2b-9a57-3c4d0f1e2b3a",
				FieldName:        "ship it",
				FieldAlias:       "shi",
				"owner":          "sam",
			},
		},
	}

	nodes, _, err := DecodeGraphDocument(doc, types, NewNoOpLogger())
	require.NoError(t, err)
	require.Len(t, nodes, 1)
	_, hasOld := nodes[0].GetProperty("owner")
	assert.False(t, hasOld)
	assignee, _ := nodes[0].GetProperty("assignee")
	assert.Equal(t, "sam", assignee)
}

func TestDecodeGraphDocumentWarnings(t *testing.T) {
	logger, logs := observedLogger()

	doc := map[string]any{
		common.NodesKey: []any{
			map[string]any{
				common.ObjectKey: NodePath,
				FieldName:        "no id",
				FieldNodeType:    map[string]any{common.TypeRefKey: NodeTypePath, "value": "GALAXY"},
				FieldParent:      "00000000-0000-0000-0000-000000000000",
			},
		},
	}

	nodes, _, err := DecodeGraphDocument(doc, nil, logger)
	require.NoError(t, err)
	require.Len(t, nodes, 1)
	assert.NotEmpty(t, nodes[0].ID, "a missing id is generated")
	assert.Equal(t, NodeType("GALAXY"), nodes[0].NodeType)
	assert.Equal(t, NodeTypeUnknown, nodes[0].NodeType.Kind())
	assert.Nil(t, nodes[0].Parent, "dangling references are dropped")

	assert.Equal(t, 3, logs.FilterLevelExact(zapcore.WarnLevel).Len())
}

func TestDecodeGraphDocumentInvalid(t *testing.T) {
	tests := []struct {
		name string
		doc  map[string]any
	}{
		{"nodes not a list", map[string]any{common.NodesKey: "nope"}},
		{"node not a mapping", map[string]any{common.NodesKey: []any{42}}},
		{"name not a string", map[string]any{common.NodesKey: []any{map[string]any{FieldName: 1}}}},
		{"bad reference", map[string]any{common.EdgesKey: []any{map[string]any{"node_a": 3.0}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := DecodeGraphDocument(tt.doc, nil, NewNoOpLogger())
			assert.ErrorIs(t, err, ErrInvalidSerializedData)
		})
	}
}

func TestEncodeGraphDocumentCopiesProperties(t *testing.T) {
	project := NewNode("project")
	project.AddProperty("repos", []any{
		map[string]any{common.ObjectKey: "app.Repo", "name": "core"},
	})
	project.AddProperty("meta", map[string]any{"owner": "sam"})

	doc := EncodeGraphDocument([]*Node{project}, nil)
	encoded := doc[common.NodesKey].([]any)[0].(map[string]any)
	encoded["repos"].([]any)[0].(map[string]any)[common.ObjectKey] = "EXTRACT_rewritten"
	encoded["meta"].(map[string]any)["owner"] = "someone else"

	repos, _ := project.GetProperty("repos")
	assert.Equal(t, "app.Repo", repos.([]any)[0].(map[string]any)[common.ObjectKey], "rewriting the document leaves the node alone")
	meta, _ := project.GetProperty("meta")
	assert.Equal(t, "sam", meta.(map[string]any)["owner"])
}

func TestDecodeGraphDocumentDropsShadowingKeys(t *testing.T) {
	logger, logs := observedLogger()
	doc := map[string]any{
		common.NodesKey: []any{
			map[string]any{
				common.ObjectKey: NodePath,
				FieldID:          "8a3e6f5c-1d52-4f2b-9a57-3c4d0f1e2b3a",
				FieldName:        "n",
				FieldType:        "legacy",
				"stars":          1.0,
			},
		},
	}

	nodes, _, err := DecodeGraphDocument(doc, nil, logger)
	require.NoError(t, err)
	_, hasType := nodes[0].GetProperty(FieldType)
	assert.False(t, hasType)
	assert.Equal(t, NodePath, nodes[0].Type)
	assert.Len(t, nodes[0].Properties, 1)
	assert.Equal(t, 1, logs.FilterLevelExact(zapcore.WarnLevel).Len())
}
