package generate

// keyAliases maps the field names models habitually substitute to the
// canonical specification keys. Applied once, recursively, before any
// specification hook sees the output.
var keyAliases = map[string]string{
	"stimulus":      "passage",
	"question_stem": "question",
}

// CoerceCommonKeys renames aliased keys at every depth of the decoded
// output and backstops a missing top-level passage with the one the
// caller supplied. It returns a new map and never mutates the input.
func CoerceCommonKeys(raw map[string]any, passage string) map[string]any {
	out, _ := coerceValue(raw).(map[string]any)
	if out == nil {
		out = map[string]any{}
	}
	if _, ok := out["passage"]; !ok && passage != "" {
		out["passage"] = passage
	}
	return out
}

func coerceValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			if alias, ok := keyAliases[k]; ok {
				k = alias
			}
			out[k] = coerceValue(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = coerceValue(val)
		}
		return out
	default:
		return v
	}
}
