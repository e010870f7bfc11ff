package graph

import (
	"strings"

	"git.canoozie.net/riddling/nodedb/pkg/common"
	"git.canoozie.net/riddling/nodedb/pkg/model"
)

// DefaultCutoff is the minimum similarity accepted by the closest-match
// lookups when callers have no better value
const DefaultCutoff = 0.7

// MatchClosestAlias returns the node whose alias equals q or, failing that,
// the node whose alias is most similar to q with a ratio of at least cutoff
func (g *Graph) MatchClosestAlias(q string, cutoff float64) *model.Node {
	return g.matchClosest(q, cutoff, func(n *model.Node) string { return n.Alias })
}

// MatchClosestName returns the node whose name equals q or, failing that,
// the node whose name is most similar to q with a ratio of at least cutoff
func (g *Graph) MatchClosestName(q string, cutoff float64) *model.Node {
	return g.matchClosest(q, cutoff, func(n *model.Node) string { return n.Name })
}

// MatchClosestID resolves a possibly abbreviated id. An exact id wins; then
// the shortest id that starts with q; then the most similar id with a ratio
// of at least cutoff.
func (g *Graph) MatchClosestID(q string, cutoff float64) *model.Node {
	if n := g.NodeByID(q); n != nil {
		return n
	}

	var prefixed *model.Node
	for _, n := range g.Nodes {
		if !strings.HasPrefix(n.ID, q) {
			continue
		}
		if prefixed == nil || len(n.ID) < len(prefixed.ID) {
			prefixed = n
		}
	}
	if prefixed != nil {
		return prefixed
	}

	return g.matchClosest(q, cutoff, func(n *model.Node) string { return n.ID })
}

// matchClosest is the shared scan: exact match first, otherwise the first
// node with the highest similarity, accepted only at or above cutoff
func (g *Graph) matchClosest(q string, cutoff float64, key func(*model.Node) string) *model.Node {
	for _, n := range g.Nodes {
		if key(n) == q {
			return n
		}
	}

	var (
		best      *model.Node
		bestScore float64
	)
	for _, n := range g.Nodes {
		score := common.Ratio(q, key(n))
		if best == nil || score > bestScore {
			best, bestScore = n, score
		}
	}

	if best == nil || bestScore < cutoff {
		return nil
	}
	g.log().Debug("Closest match for %q is %s (ratio %.3f)", q, best.ID, bestScore)
	return best
}
