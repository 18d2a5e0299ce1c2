package domain

// MetadataContains reports whether meta is a superset of filter.
// Map values are matched recursively; slices must match element-wise;
// everything else compares by loose equality so that a filter built
// from decoded JSON (float64 numbers) still matches int metadata.
func MetadataContains(meta, filter map[string]any) bool {
	for key, want := range filter {
		got, ok := meta[key]
		if !ok || !valueMatches(got, want) {
			return false
		}
	}
	return true
}

func valueMatches(got, want any) bool {
	switch w := want.(type) {
	case map[string]any:
		g, ok := got.(map[string]any)
		return ok && MetadataContains(g, w)
	case []any:
		g, ok := got.([]any)
		if !ok || len(g) != len(w) {
			return false
		}
		for i := range w {
			if !valueMatches(g[i], w[i]) {
				return false
			}
		}
		return true
	default:
		return looseEqual(got, want)
	}
}

// looseEqual compares scalars, treating all numeric types as float64.
// JSON round-trips turn ints into float64; without this, a filter
// decoded from JSON would never match metadata set in Go code.
func looseEqual(a, b any) bool {
	if af, ok := toFloat(a); ok {
		bf, ok := toFloat(b)
		return ok && af == bf
	}
	return a == b
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}
