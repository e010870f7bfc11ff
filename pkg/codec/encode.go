package codec

import (
	"errors"
	"fmt"

	"git.canoozie.net/riddling/nodedb/pkg/common"
	"git.canoozie.net/riddling/nodedb/pkg/model"
)

// ErrAlreadyEncoded is returned when Encode is given a document that already
// carries a registry
var ErrAlreadyEncoded = errors.New("document already carries a type registry")

// Encode replaces every type identifier in doc with an opaque key and
// attaches the registry under the reserved top-level key. Identical
// identifiers share one key. Identifiers that are not registered are logged
// and classified as NODE. doc is modified in place and returned.
func Encode(doc map[string]any, types *model.TypeRegistry, logger model.Logger) (map[string]any, error) {
	if types == nil {
		types = model.DefaultTypes
	}
	if logger == nil {
		logger = model.DefaultLoggerInstance
	}
	if _, ok := doc[common.RegistryKey]; ok {
		return nil, ErrAlreadyEncoded
	}

	registry := NewRegistry()
	reverse := make(map[string]string)

	common.ForEachSubtree(doc, func(m map[string]any) any {
		key, original, ok := typeKeyOf(m)
		if !ok {
			return m
		}

		opaque, seen := reverse[original]
		if !seen {
			opaque = mintKey()
			reverse[original] = opaque
			registry.Set(opaque, Entry{Path: original, Base: classify(original, types, logger)})
		}
		m[key] = opaque
		return m
	})

	doc[common.RegistryKey] = registry
	logger.Debug("Encoded %d distinct types", registry.Len())
	return doc, nil
}

// classify maps a type path to the category recorded in the registry.
// Types that are not node, edge or base models are recorded as NODE.
func classify(path string, types *model.TypeRegistry, logger model.Logger) model.BaseCategory {
	d, ok := types.Lookup(path)
	if !ok {
		logger.Warn("Type %s could not be resolved while encoding, recording it as %s", path, model.BaseNode)
		return model.BaseNode
	}
	switch d.Base {
	case model.BaseNode, model.BaseEdge, model.BaseBaseModel:
		return d.Base
	default:
		return model.BaseNode
	}
}

// String renders the entry as "path (BASE)"
func (e Entry) String() string {
	return fmt.Sprintf("%s (%s)", e.Path, e.Base)
}
