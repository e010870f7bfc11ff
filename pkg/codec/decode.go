package codec

import (
	"sort"

	"git.canoozie.net/riddling/nodedb/pkg/common"
	"git.canoozie.net/riddling/nodedb/pkg/model"
)

// FuzzyCutoff is the minimum similarity for a fuzzy type substitution
const FuzzyCutoff = 0.7

// DecodeOptions controls how persisted type paths are resolved
type DecodeOptions struct {
	Types  *model.TypeRegistry
	Logger model.Logger

	// Overrides maps a persisted path to the path to use instead. It is
	// consulted before any other resolution.
	Overrides map[string]string

	// Strict turns an unresolvable path into a *ResolutionError instead of a
	// warning
	Strict bool

	// StrictOverrides turns an invalid override into an error instead of a
	// warning
	StrictOverrides bool
}

// How a persisted path was replaced
const (
	ReasonOverride = "override"
	ReasonFuzzy    = "fuzzy"
)

// Substitution records a persisted type path replaced during decode
type Substitution struct {
	From   string
	To     string
	Reason string
}

// Report lists what Decode had to change or could not resolve
type Report struct {
	Substitutions []Substitution
	Unresolved    []string
}

// Decode pops the registry off doc and restores every opaque key to a type
// path. For each registry entry the path is resolved once, in order: a
// caller override; the path itself when it is registered; the closest
// registered subtype of the entry's base category; the closest registered
// type in the path's top-level namespace. A fuzzy substitution is always
// logged as a warning. A path that cannot be resolved fails in strict mode
// and is otherwise logged and kept. doc is modified in place and returned.
func Decode(doc map[string]any, opts DecodeOptions) (map[string]any, *Report, error) {
	if opts.Types == nil {
		opts.Types = model.DefaultTypes
	}
	if opts.Logger == nil {
		opts.Logger = model.DefaultLoggerInstance
	}

	registry, err := registryFrom(doc[common.RegistryKey])
	if err != nil {
		return nil, nil, err
	}
	delete(doc, common.RegistryKey)

	overrides, err := ValidateOverrides(opts.Overrides, opts.Types, opts.StrictOverrides, opts.Logger)
	if err != nil {
		return nil, nil, err
	}

	r := &resolver{
		types:     opts.Types,
		logger:    opts.Logger,
		overrides: overrides,
		strict:    opts.Strict,
		resolved:  make(map[string]string),
		report:    &Report{},
	}

	common.ForEachSubtree(doc, func(m map[string]any) any {
		if r.err != nil {
			return m
		}
		key, opaque, ok := typeKeyOf(m)
		if !ok || !common.IsOpaqueKey(opaque) {
			return m
		}
		entry, ok := registry.Get(opaque)
		if !ok {
			return m
		}
		path, err := r.resolve(opaque, entry)
		if err != nil {
			r.err = err
			return m
		}
		m[key] = path
		return m
	})

	if r.err != nil {
		return nil, nil, r.err
	}
	return doc, r.report, nil
}

type resolver struct {
	types     *model.TypeRegistry
	logger    model.Logger
	overrides map[string]string
	strict    bool
	resolved  map[string]string // opaque key -> path
	report    *Report
	err       error
}

func (r *resolver) resolve(opaque string, entry Entry) (string, error) {
	if path, ok := r.resolved[opaque]; ok {
		return path, nil
	}
	path, err := r.resolveEntry(entry)
	if err != nil {
		return "", err
	}
	r.resolved[opaque] = path
	return path, nil
}

func (r *resolver) resolveEntry(entry Entry) (string, error) {
	original := entry.Path

	if replacement, ok := r.overrides[original]; ok {
		r.logger.Info("Overriding type `%s` with `%s`", original, replacement)
		r.report.Substitutions = append(r.report.Substitutions, Substitution{From: original, To: replacement, Reason: ReasonOverride})
		return replacement, nil
	}

	if _, ok := r.types.Lookup(original); ok {
		return original, nil
	}

	if match, ok := r.fuzzy(original, entry.Base); ok {
		r.logger.Warn("Fuzzy matched `%s` to `%s`", original, match)
		r.report.Substitutions = append(r.report.Substitutions, Substitution{From: original, To: match, Reason: ReasonFuzzy})
		return match, nil
	}

	rerr := &ResolutionError{Path: original}
	if r.strict {
		return "", rerr
	}
	r.logger.Warn("%v", rerr)
	r.report.Unresolved = append(r.report.Unresolved, original)
	return original, nil
}

// fuzzy looks for a replacement among the subtypes of base first, then
// among every type in the same top-level namespace
func (r *resolver) fuzzy(path string, base model.BaseCategory) (string, bool) {
	if match, ok := common.CloseMatch(path, sortedPaths(r.types.SubtypesOf(base)), FuzzyCutoff); ok {
		return match, true
	}
	return common.CloseMatch(path, sortedPaths(r.types.InNamespace(model.Namespace(path))), FuzzyCutoff)
}

func sortedPaths(types map[string]*model.TypeDescriptor) []string {
	paths := make([]string, 0, len(types))
	for p := range types {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}
