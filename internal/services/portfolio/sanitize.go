package portfolio

import (
	"encoding/json"
	"math"
)

// SanitizeTree walks a generic JSON-like tree and replaces every NaN or
// infinite float with nil. Standard JSON has no token for non-finite
// numbers, so this is a hard contract for anything that gets serialized.
func SanitizeTree(v any) any {
	switch value := v.(type) {
	case float64:
		if math.IsNaN(value) || math.IsInf(value, 0) {
			return nil
		}
		return value
	case float32:
		f := float64(value)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil
		}
		return f
	case map[string]any:
		out := make(map[string]any, len(value))
		for k, child := range value {
			out[k] = SanitizeTree(child)
		}
		return out
	case []any:
		out := make([]any, len(value))
		for i, child := range value {
			out[i] = SanitizeTree(child)
		}
		return out
	default:
		return v
	}
}

// toGeneric converts a typed value into the generic map/slice/float tree
// SanitizeTree operates on. Values that cannot round-trip through JSON
// come back as nil.
func toGeneric(v any) any {
	data, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil
	}
	return out
}
