package query

import (
	"fmt"
	"regexp"

	"git.canoozie.net/riddling/nodedb/pkg/model"
)

// Engine evaluates filter expressions against nodes. Queries are always
// full scans. An Engine caches compiled patterns and is not safe for
// concurrent use.
type Engine struct {
	logger   model.Logger
	patterns map[string]*regexp.Regexp
}

// NewEngine creates a new query engine
func NewEngine(logger model.Logger) *Engine {
	if logger == nil {
		logger = model.DefaultLoggerInstance
	}
	return &Engine{
		logger:   logger,
		patterns: make(map[string]*regexp.Regexp),
	}
}

// Find returns, in order, every node for which the query evaluates true
func (e *Engine) Find(nodes []*model.Node, query string) ([]*model.Node, error) {
	expr, err := Parse(query)
	if err != nil {
		return nil, err
	}
	e.logger.Debug("Parsed query %q as %s", query, expr)

	var matched []*model.Node
	for _, n := range nodes {
		ok, err := e.Eval(expr, n)
		if err != nil {
			return nil, err
		}
		if ok {
			matched = append(matched, n)
		}
	}
	return matched, nil
}

// Eval evaluates an expression against a single node. Both operands of AND
// and OR are always evaluated so pattern errors surface regardless of the
// other side.
func (e *Engine) Eval(expr Expr, n *model.Node) (bool, error) {
	switch x := expr.(type) {
	case *Match:
		return e.evalMatch(x, n)
	case *And:
		left, err := e.Eval(x.Left, n)
		if err != nil {
			return false, err
		}
		right, err := e.Eval(x.Right, n)
		if err != nil {
			return false, err
		}
		return left && right, nil
	case *Or:
		left, err := e.Eval(x.Left, n)
		if err != nil {
			return false, err
		}
		right, err := e.Eval(x.Right, n)
		if err != nil {
			return false, err
		}
		return left || right, nil
	default:
		return false, fmt.Errorf("%w: unsupported expression %T", model.ErrInvalidInput, expr)
	}
}

func (e *Engine) evalMatch(m *Match, n *model.Node) (bool, error) {
	value, ok := n.Field(m.Field)
	if !ok {
		return false, nil
	}

	re, err := e.compile(m.Pattern)
	if err != nil {
		return false, err
	}

	found := re.MatchString(model.FormatValue(value))
	if m.Op == OpNeq {
		return !found, nil
	}
	return found, nil
}

func (e *Engine) compile(pattern string) (*regexp.Regexp, error) {
	if re, ok := e.patterns[pattern]; ok {
		return re, nil
	}
	re, err := CompilePattern(pattern)
	if err != nil {
		return nil, err
	}
	e.patterns[pattern] = re
	return re, nil
}

// CompilePattern compiles a regular expression for unanchored search,
// reporting failures as *model.PatternError
func CompilePattern(pattern string) (*regexp.Regexp, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, &model.PatternError{Pattern: pattern, Err: err}
	}
	return re, nil
}
