package storage

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"git.canoozie.net/riddling/nodedb/pkg/codec"
	"git.canoozie.net/riddling/nodedb/pkg/common"
	"git.canoozie.net/riddling/nodedb/pkg/graph"
	"git.canoozie.net/riddling/nodedb/pkg/model"
)

// ErrIntegrity indicates a refusal to persist: the graph is empty or the
// destination is a directory
var ErrIntegrity = errors.New("integrity check failed")

// StoreConfig holds configuration options for the graph store
type StoreConfig struct {
	// Registry of the node and edge types that may be persisted
	Types *model.TypeRegistry

	// Logger for store operations
	Logger model.Logger

	// Whether an unresolvable type path fails the load
	Strict bool

	// Whether an invalid override fails the load
	StrictOverrides bool

	// Permissions for files and for directories created on save
	FileMode os.FileMode
	DirMode  os.FileMode
}

// DefaultStoreConfig returns a default configuration for the store
func DefaultStoreConfig() StoreConfig {
	return StoreConfig{
		Types:    model.DefaultTypes,
		Logger:   model.DefaultLoggerInstance,
		FileMode: 0644,
		DirMode:  0755,
	}
}

// Store reads and writes graphs as single JSON documents. Writes are plain
// file writes with no atomicity across crashes.
type Store struct {
	config StoreConfig
	logger model.Logger
}

// NewStore creates a new store
func NewStore(config StoreConfig) (*Store, error) {
	if config.Logger == nil {
		config.Logger = model.DefaultLoggerInstance
	}
	if config.Types == nil {
		config.Types = model.DefaultTypes
	}
	if config.FileMode == 0 {
		config.FileMode = 0644
	}
	if config.DirMode == 0 {
		config.DirMode = 0755
	}
	return &Store{config: config, logger: config.Logger}, nil
}

// Save writes g to path, creating missing parent directories
func (s *Store) Save(path string, g *graph.Graph) error {
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return errors.Wrapf(ErrIntegrity, "refusing to overwrite directory %s", path)
	}

	data, err := s.Marshal(g)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), s.config.DirMode); err != nil {
		return errors.Wrap(err, "failed to create graph directory")
	}
	if err := os.WriteFile(path, data, s.config.FileMode); err != nil {
		return errors.Wrapf(err, "failed to write graph to %s", path)
	}

	s.logger.Info("Saved graph with %d nodes and %d edges to %s", len(g.Nodes), len(g.Edges), path)
	return nil
}

// Load reads the graph at path. overrides maps persisted type paths to
// their replacements and may be nil.
func (s *Store) Load(path string, overrides map[string]string) (*graph.Graph, *codec.Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "failed to read graph from %s", path)
	}

	g, report, err := s.Unmarshal(data, overrides)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "failed to load graph from %s", path)
	}

	s.logger.Info("Loaded graph with %d nodes and %d edges from %s", len(g.Nodes), len(g.Edges), path)
	return g, report, nil
}

// Marshal encodes g as an indented JSON document with a type registry
func (s *Store) Marshal(g *graph.Graph) ([]byte, error) {
	if g == nil || (len(g.Nodes) == 0 && len(g.Edges) == 0) {
		return nil, errors.Wrap(ErrIntegrity, "refusing to persist an empty graph")
	}

	doc := model.EncodeGraphDocument(g.Nodes, g.Edges)
	doc, err := codec.Encode(doc, s.config.Types, s.logger)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode type registry")
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return nil, errors.Wrap(err, "failed to marshal graph")
	}

	data := bytes.TrimSpace(buf.Bytes())
	if len(data) == 0 || bytes.Equal(data, []byte("null")) || bytes.Equal(data, []byte("{}")) {
		return nil, errors.Wrap(ErrIntegrity, "encoded graph is empty")
	}
	return append(data, '\n'), nil
}

// Unmarshal decodes a document produced by Marshal. A document without a
// registry was written before registries existed; it is encoded first so
// the normal resolution path applies to it.
func (s *Store) Unmarshal(data []byte, overrides map[string]string) (*graph.Graph, *codec.Report, error) {
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, nil, errors.Wrap(model.ErrInvalidSerializedData, err.Error())
	}
	if doc == nil {
		return nil, nil, errors.Wrap(model.ErrInvalidSerializedData, "document is null")
	}

	if _, ok := doc[common.RegistryKey]; !ok {
		s.logger.Warn("Document has no %s, treating it as a legacy document", common.RegistryKey)
		var err error
		if doc, err = codec.Encode(doc, s.config.Types, s.logger); err != nil {
			return nil, nil, errors.Wrap(err, "failed to synthesize type registry")
		}
	}

	doc, report, err := codec.Decode(doc, codec.DecodeOptions{
		Types:           s.config.Types,
		Logger:          s.logger,
		Overrides:       overrides,
		Strict:          s.config.Strict,
		StrictOverrides: s.config.StrictOverrides,
	})
	if err != nil {
		return nil, nil, err
	}

	nodes, edges, err := model.DecodeGraphDocument(doc, s.config.Types, s.logger)
	if err != nil {
		return nil, nil, err
	}

	g := graph.New(s.logger)
	g.Nodes = nodes
	g.Edges = edges
	return g, report, nil
}
