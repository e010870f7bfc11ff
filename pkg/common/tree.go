package common

// VisitFunc is called for every mapping in a document tree. Returning a
// value that is not a map[string]any replaces the mapping and stops descent
// into it.
type VisitFunc func(m map[string]any) any

// ForEachSubtree walks a decoded JSON tree depth-first, calling visit on
// every mapping before its children. Sequences are rebuilt from the visited
// elements; primitives are returned unchanged.
func ForEachSubtree(tree any, visit VisitFunc) any {
	switch v := tree.(type) {
	case map[string]any:
		result := visit(v)
		m, ok := result.(map[string]any)
		if !ok {
			return result
		}
		for key, child := range m {
			m[key] = ForEachSubtree(child, visit)
		}
		return m
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = ForEachSubtree(item, visit)
		}
		return out
	default:
		return tree
	}
}
