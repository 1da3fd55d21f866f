package itemspec

import (
	"regexp"
	"strings"
)

// CoerceTranscript normalizes the transcript shapes listening models
// produce: a plain string, a line list, a list of {speaker, text}
// objects, or an object wrapping one of those under dialogue/lines/
// utterances.
func CoerceTranscript(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	case []any:
		var lines []string
		for _, it := range v {
			switch e := it.(type) {
			case string:
				if s := strings.TrimSpace(e); s != "" {
					lines = append(lines, s)
				}
			case map[string]any:
				sp := strings.TrimSpace(stringify(e["speaker"]))
				tx := strings.TrimSpace(stringify(e["text"]))
				switch {
				case sp != "" && tx != "":
					lines = append(lines, sp+": "+tx)
				case tx != "":
					lines = append(lines, tx)
				}
			}
		}
		return strings.Join(lines, "\n")
	case map[string]any:
		for _, key := range []string{"dialogue", "lines", "utterances"} {
			if inner, ok := v[key].([]any); ok {
				return CoerceTranscript(inner)
			}
		}
		var parts []string
		for _, k := range []string{"speaker", "text", "context", "content"} {
			if s, ok := v[k].(string); ok {
				if s = strings.TrimSpace(s); s != "" {
					parts = append(parts, s)
				}
			}
		}
		return strings.Join(parts, "\n")
	}
	return strings.TrimSpace(stringify(value))
}

var (
	wsRunRE      = regexp.MustCompile(`\s+`)
	speakerTagRE = regexp.MustCompile(`\s+((?:M|W|Man|Woman|Q|S)\s*:)`)
)

// EnsureDialogueNewlines inserts line breaks before speaker tags when
// a transcript arrives as one run-on line. Transcripts that already
// contain newlines are returned as-is.
func EnsureDialogueNewlines(text string) string {
	s := strings.TrimSpace(text)
	if strings.Contains(s, "\n") {
		return s
	}
	s = wsRunRE.ReplaceAllString(s, " ")
	return speakerTagRE.ReplaceAllString(s, "\n$1")
}
