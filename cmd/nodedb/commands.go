package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"git.canoozie.net/riddling/nodedb/pkg/graph"
	"git.canoozie.net/riddling/nodedb/pkg/model"
)

func addNodeCmd(opts *globalOptions) *cobra.Command {
	var (
		alias    string
		id       string
		typePath string
		nodeType string
		parent   string
		sets     []string
	)

	cmd := &cobra.Command{
		Use:   "add-node NAME",
		Short: "Add a node to the graph",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(opts)
			if err != nil {
				return err
			}
			g, err := a.loadGraph()
			if err != nil {
				return err
			}

			n, err := a.types.NewNode(typePath, args[0])
			if err != nil {
				return err
			}
			if alias != "" {
				n.Alias = alias
			}
			if id != "" {
				withID, err := model.NewNodeWithID(n.Name, n.Alias, id)
				if err != nil {
					return err
				}
				n.ID = withID.ID
			}
			if nodeType != "" {
				t, known := model.ParseNodeType(strings.ToUpper(nodeType))
				if !known {
					a.logger.Warn("Node type %s is not registered", t)
				}
				n.NodeType = t
			}
			if parent != "" {
				p, err := a.resolveNode(g, parent)
				if err != nil {
					return fmt.Errorf("parent: %w", err)
				}
				n.Parent = p
			}
			if err := applySets(n.AddProperty, sets); err != nil {
				return err
			}

			g.AddNode(n)
			if err := a.saveGraph(g); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), n.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&alias, "alias", "", "Alias (derived from the name when empty)")
	cmd.Flags().StringVar(&id, "id", "", "Explicit UUID")
	cmd.Flags().StringVar(&typePath, "type", model.NodePath, "Registered node type path")
	cmd.Flags().StringVar(&nodeType, "node-type", "", "Node type tag, e.g. REPO")
	cmd.Flags().StringVar(&parent, "parent", "", "Parent node (id, alias or name)")
	cmd.Flags().StringArrayVar(&sets, "set", nil, "Property as key=value (repeatable)")
	return cmd
}

func addEdgeCmd(opts *globalOptions) *cobra.Command {
	var (
		typePath string
		sets     []string
	)

	cmd := &cobra.Command{
		Use:   "add-edge NAME FROM TO",
		Short: "Add a named edge between two nodes",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(opts)
			if err != nil {
				return err
			}
			g, err := a.loadGraph()
			if err != nil {
				return err
			}

			from, err := a.resolveNode(g, args[1])
			if err != nil {
				return fmt.Errorf("from: %w", err)
			}
			to, err := a.resolveNode(g, args[2])
			if err != nil {
				return fmt.Errorf("to: %w", err)
			}

			e, err := a.types.NewEdge(typePath, args[0], from, to)
			if err != nil {
				return err
			}
			if err := applySets(e.AddProperty, sets); err != nil {
				return err
			}

			g.AddEdge(e)
			if err := a.saveGraph(g); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), e)
			return nil
		},
	}

	cmd.Flags().StringVar(&typePath, "type", model.EdgePath, "Registered edge type path")
	cmd.Flags().StringArrayVar(&sets, "set", nil, "Property as key=value (repeatable)")
	return cmd
}

func removeNodeCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "rm-node NODE",
		Short: "Remove a node and its edges",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(opts)
			if err != nil {
				return err
			}
			g, err := a.loadGraph()
			if err != nil {
				return err
			}
			n, err := a.resolveNode(g, args[0])
			if err != nil {
				return err
			}
			g.RemoveNode(n)
			if err := a.saveGraph(g); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", n)
			return nil
		},
	}
}

func queryCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "query EXPR",
		Short: "List nodes matching a filter such as 'name=^foo && node_type=REPO'",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(opts)
			if err != nil {
				return err
			}
			g, err := a.loadGraph()
			if err != nil {
				return err
			}
			nodes, err := g.FindNodesByQuery(args[0])
			if err != nil {
				return err
			}
			for _, n := range nodes {
				fmt.Fprintln(cmd.OutOrStdout(), n)
			}
			return nil
		},
	}
}

func matchCmd(opts *globalOptions) *cobra.Command {
	var (
		by     string
		cutoff float64
	)

	cmd := &cobra.Command{
		Use:   "match VALUE",
		Short: "Find the node closest to VALUE by alias, name or id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(opts)
			if err != nil {
				return err
			}
			g, err := a.loadGraph()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("cutoff") {
				cutoff = a.cfg.Match.Cutoff
			}

			var n *model.Node
			switch by {
			case "alias":
				n = g.MatchClosestAlias(args[0], cutoff)
			case "name":
				n = g.MatchClosestName(args[0], cutoff)
			case "id":
				n = g.MatchClosestID(args[0], cutoff)
			default:
				return fmt.Errorf("--by must be alias, name or id, got %q", by)
			}
			if n == nil {
				return fmt.Errorf("no node close enough to %q", args[0])
			}
			fmt.Fprintln(cmd.OutOrStdout(), n)
			return nil
		},
	}

	cmd.Flags().StringVar(&by, "by", "name", "Field to match: alias, name or id")
	cmd.Flags().Float64Var(&cutoff, "cutoff", graph.DefaultCutoff, "Minimum similarity ratio")
	return cmd
}

func showCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print every node and edge",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(opts)
			if err != nil {
				return err
			}
			g, err := a.loadGraph()
			if err != nil {
				return err
			}
			return g.Print(cmd.OutOrStdout())
		},
	}
}

// applySets parses key=value pairs and hands them to set. Values are read as
// YAML scalars so numbers and booleans keep their type.
func applySets(set func(key string, value any) bool, sets []string) error {
	for _, kv := range sets {
		key, raw, ok := strings.Cut(kv, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return fmt.Errorf("invalid --set %q, expected key=value", kv)
		}
		var value any
		if err := yaml.Unmarshal([]byte(raw), &value); err != nil {
			return fmt.Errorf("invalid value for %s: %w", key, err)
		}
		if !set(key, value) {
			return fmt.Errorf("property %s is a reserved field name", key)
		}
	}
	return nil
}
