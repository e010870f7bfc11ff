package main

import (
	"errors"
	"fmt"
	"os"

	"git.canoozie.net/riddling/nodedb/pkg/config"
	"git.canoozie.net/riddling/nodedb/pkg/graph"
	"git.canoozie.net/riddling/nodedb/pkg/model"
	"git.canoozie.net/riddling/nodedb/pkg/storage"
)

type globalOptions struct {
	configPath string
	graphPath  string
	logLevel   string
}

// app bundles what every subcommand needs: configuration, a logger and a
// store bound to the configured graph file
type app struct {
	cfg    *config.Config
	logger model.Logger
	store  *storage.Store
	types  *model.TypeRegistry
}

func newApp(opts *globalOptions) (*app, error) {
	cfg := config.DefaultConfig()
	if opts.configPath != "" {
		loaded, err := config.LoadFromFile(opts.configPath)
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
	}
	cfg.ApplyEnv()
	if opts.graphPath != "" {
		cfg.Graph.Path = opts.graphPath
	}
	if opts.logLevel != "" {
		cfg.Log.Level = opts.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := model.NewDefaultLogger(model.ParseLogLevel(cfg.Log.Level))
	model.SetDefaultLogger(logger)

	storeConfig := storage.DefaultStoreConfig()
	storeConfig.Logger = logger
	storeConfig.Strict = cfg.Decode.Strict
	storeConfig.StrictOverrides = cfg.Decode.StrictOverrides

	store, err := storage.NewStore(storeConfig)
	if err != nil {
		return nil, fmt.Errorf("create store: %w", err)
	}

	return &app{cfg: cfg, logger: logger, store: store, types: storeConfig.Types}, nil
}

// loadGraph reads the configured graph, or starts an empty one when the file
// does not exist yet
func (a *app) loadGraph() (*graph.Graph, error) {
	g, _, err := a.store.Load(a.cfg.Graph.Path, a.cfg.Overrides)
	if errors.Is(err, os.ErrNotExist) {
		a.logger.Debug("No graph at %s, starting empty", a.cfg.Graph.Path)
		return graph.New(a.logger), nil
	}
	return g, err
}

func (a *app) saveGraph(g *graph.Graph) error {
	return a.store.Save(a.cfg.Graph.Path, g)
}

// resolveNode finds a node by exact id, alias or name, then by id prefix,
// then by the closest alias or name
func (a *app) resolveNode(g *graph.Graph, ref string) (*model.Node, error) {
	cutoff := a.cfg.Match.Cutoff
	lookups := []func() *model.Node{
		func() *model.Node { return g.NodeByID(ref) },
		func() *model.Node { return g.NodeByAlias(ref) },
		func() *model.Node { return g.NodeByName(ref) },
		func() *model.Node { return g.MatchClosestID(ref, 1) },
		func() *model.Node { return g.MatchClosestAlias(ref, cutoff) },
		func() *model.Node { return g.MatchClosestName(ref, cutoff) },
	}
	for _, lookup := range lookups {
		if n := lookup(); n != nil {
			return n, nil
		}
	}
	return nil, fmt.Errorf("no node matches %q", ref)
}
