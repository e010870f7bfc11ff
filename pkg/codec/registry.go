// Package codec replaces the type identifiers embedded in a persisted
// document with opaque keys, and restores them on load. The indirection
// lets a document written by one version of a schema be read after its node
// and edge types have been renamed or moved: a path that no longer exists is
// resolved through caller overrides or by fuzzy matching against the types
// registered today.
package codec

import (
	"fmt"

	"github.com/google/uuid"
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"git.canoozie.net/riddling/nodedb/pkg/common"
	"git.canoozie.net/riddling/nodedb/pkg/model"
)

// Entry records the type an opaque key stands for
type Entry struct {
	Path string             `json:"path"`
	Base model.BaseCategory `json:"base"`
}

// Registry maps opaque keys to entries in the order they were minted
type Registry = orderedmap.OrderedMap[string, Entry]

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return orderedmap.New[string, Entry]()
}

func mintKey() string {
	return common.OpaqueKeyPrefix + uuid.NewString()
}

// registryFrom accepts either a *Registry built by Encode or the generic
// mapping produced by decoding JSON
func registryFrom(raw any) (*Registry, error) {
	switch v := raw.(type) {
	case nil:
		return NewRegistry(), nil
	case *Registry:
		return v, nil
	case map[string]any:
		reg := NewRegistry()
		for key, rawEntry := range v {
			m, ok := rawEntry.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("%w: registry entry %s is %T", model.ErrInvalidSerializedData, key, rawEntry)
			}
			path, _ := m["path"].(string)
			if path == "" {
				return nil, fmt.Errorf("%w: registry entry %s has no path", model.ErrInvalidSerializedData, key)
			}
			baseName, _ := m["base"].(string)
			base, _ := model.ParseBaseCategory(baseName)
			reg.Set(key, Entry{Path: path, Base: base})
		}
		return reg, nil
	default:
		return nil, fmt.Errorf("%w: %s is %T", model.ErrInvalidSerializedData, common.RegistryKey, raw)
	}
}

// typeKeyOf returns the type key carried by m and its string value
func typeKeyOf(m map[string]any) (string, string, bool) {
	for _, key := range common.TypeKeys {
		if v, ok := m[key].(string); ok {
			return key, v, true
		}
	}
	return "", "", false
}
