package generate

import "strings"

// SanitizeMarkup strips stray bold markers from every string field of
// a finished item, at any depth. Underline tags survive untouched, the
// renderers depend on them.
func SanitizeMarkup(item map[string]any) map[string]any {
	out, _ := sanitizeValue(item).(map[string]any)
	return out
}

func sanitizeValue(v any) any {
	switch t := v.(type) {
	case string:
		return strings.ReplaceAll(t, "**", "")
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = sanitizeValue(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = sanitizeValue(val)
		}
		return out
	default:
		return v
	}
}
