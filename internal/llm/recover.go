package llm

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// Models wrap JSON in fences, mix prose around it, emit curly quotes,
// leave bare circled option labels, and add trailing commas. Recover
// runs a cleanup ladder over the raw completion and parses whatever
// JSON object or array survives.

var (
	fenceRE         = regexp.MustCompile(`(?im)^\x60\x60\x60(?:json)?\s*|\s*\x60\x60\x60$`)
	trailingCommaRE = regexp.MustCompile(`,\s*([}\]])`)
	controlCharsRE  = regexp.MustCompile(`[\x00-\x1F]`)
)

// Single smart quotes and primes are safe to fold to an apostrophe.
// Double smart quotes are left alone: folding them to '"' can break a
// JSON string that legitimately contains them.
var smartQuoteFolder = strings.NewReplacer(
	"‘", "'",
	"’", "'",
	"′", "'",
)

// Typographic double quotes are folded only after parsing, inside
// string values, where they can no longer break JSON syntax.
var smartDoubleFolder = strings.NewReplacer(
	"“", `"`,
	"”", `"`,
	"„", `"`,
	"‟", `"`,
	"″", `"`,
)

const circledDigits = "①②③④⑤"

// RecoveryError reports that no JSON could be recovered from a
// completion. Cleaned holds the text after the cleanup ladder, useful
// for logging what the parser actually saw.
type RecoveryError struct {
	Cleaned string
	Err     error
}

func (e *RecoveryError) Error() string {
	return fmt.Sprintf("json recovery failed: %v", e.Err)
}

func (e *RecoveryError) Unwrap() error { return e.Err }

// Recover parses free-form LLM output into a JSON value
// (map[string]any or []any). Control characters in the raw text are
// replaced with spaces up front so stray \x00..\x1F bytes inside string
// values cannot kill the parse; after parsing, every string in the
// result gets the same control strip plus typographic double-quote
// folding, which had to wait until quotes can no longer break syntax.
func Recover(text string) (any, error) {
	clean := controlCharsRE.ReplaceAllString(text, " ")

	data, err := extractJSON(clean)
	if err != nil {
		return nil, err
	}
	return stripControlsDeep(data), nil
}

// extractJSON pulls a JSON value out of text that may mix prose with
// the payload.
func extractJSON(text string) (any, error) {
	s, err := precleanJSONish(text)
	if err != nil {
		return nil, err
	}

	var v any
	jsonErr := json.Unmarshal([]byte(s), &v)
	if jsonErr == nil {
		return v, nil
	}

	// Second chance: the model wrote a Python-style literal (single
	// quotes, True/False/None). Only objects and arrays count as a
	// recovered result.
	if loose, looseErr := looseParse(s); looseErr == nil {
		return loose, nil
	}

	return nil, &RecoveryError{Cleaned: s, Err: jsonErr}
}

// precleanJSONish applies the textual repairs that precede parsing:
// fence removal, smart quote folding, quoting of bare circled digits,
// trailing comma removal, and outer block extraction.
func precleanJSONish(raw string) (string, error) {
	s := strings.TrimSpace(fenceRE.ReplaceAllString(raw, ""))
	s = smartQuoteFolder.Replace(s)
	s = quoteBareCircled(s)
	s = trailingCommaRE.ReplaceAllString(s, "$1")
	return extractOuterBlock(s)
}

// quoteBareCircled wraps circled digits that sit outside JSON strings
// in quotes, so `"answer": ③` becomes `"answer": "③"`. A small state
// machine tracks string boundaries and backslash escapes; digits inside
// strings are left untouched.
func quoteBareCircled(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	inStr := false
	esc := false
	for _, ch := range s {
		if inStr {
			b.WriteRune(ch)
			switch {
			case esc:
				esc = false
			case ch == '\\':
				esc = true
			case ch == '"':
				inStr = false
			}
			continue
		}
		if ch == '"' {
			inStr = true
			b.WriteRune(ch)
			continue
		}
		if strings.ContainsRune(circledDigits, ch) {
			b.WriteRune('"')
			b.WriteRune(ch)
			b.WriteRune('"')
			continue
		}
		b.WriteRune(ch)
	}
	return b.String()
}

// extractOuterBlock returns the text as-is when it already parses as
// JSON, otherwise slices from the first '{' to the last '}'. Grabbing
// the outer object window tolerates prose before and after the payload.
func extractOuterBlock(s string) (string, error) {
	s = strings.TrimSpace(s)

	if json.Valid([]byte(s)) {
		return s, nil
	}

	start := strings.IndexByte(s, '{')
	end := strings.LastIndexByte(s, '}')
	if start == -1 || end == -1 || end <= start {
		return "", &RecoveryError{
			Cleaned: s,
			Err:     fmt.Errorf("no JSON object found in model response"),
		}
	}
	return s[start : end+1], nil
}

// looseParse rewrites a Python-style literal into JSON and parses it.
// Single-quoted strings become double-quoted, and the bare words True,
// False and None become their JSON forms. Scalars are rejected.
func looseParse(s string) (any, error) {
	converted, err := pythonishToJSON(s)
	if err != nil {
		return nil, err
	}

	var v any
	if err := json.Unmarshal([]byte(converted), &v); err != nil {
		return nil, err
	}

	switch v.(type) {
	case map[string]any, []any:
		return v, nil
	}
	return nil, fmt.Errorf("recovered literal is %T, want object or array", v)
}

// pythonishToJSON converts single-quoted strings and Python keyword
// literals to JSON syntax, tracking string state so content inside
// strings is never rewritten as a keyword.
func pythonishToJSON(s string) (string, error) {
	var b strings.Builder
	b.Grow(len(s))

	runes := []rune(s)
	i := 0
	for i < len(runes) {
		ch := runes[i]
		switch ch {
		case '"':
			j, err := copyDoubleQuoted(&b, runes, i)
			if err != nil {
				return "", err
			}
			i = j
		case '\'':
			j, err := convertSingleQuoted(&b, runes, i)
			if err != nil {
				return "", err
			}
			i = j
		default:
			if replaced, j := replaceKeyword(runes, i); j > i {
				b.WriteString(replaced)
				i = j
				continue
			}
			b.WriteRune(ch)
			i++
		}
	}
	return b.String(), nil
}

// copyDoubleQuoted copies a double-quoted string verbatim, returning
// the index past the closing quote.
func copyDoubleQuoted(b *strings.Builder, runes []rune, start int) (int, error) {
	b.WriteRune('"')
	i := start + 1
	for i < len(runes) {
		ch := runes[i]
		b.WriteRune(ch)
		if ch == '\\' && i+1 < len(runes) {
			b.WriteRune(runes[i+1])
			i += 2
			continue
		}
		if ch == '"' {
			return i + 1, nil
		}
		i++
	}
	return 0, fmt.Errorf("unterminated string literal")
}

// convertSingleQuoted rewrites a single-quoted string as double-quoted,
// escaping embedded double quotes and unescaping \' sequences.
func convertSingleQuoted(b *strings.Builder, runes []rune, start int) (int, error) {
	b.WriteRune('"')
	i := start + 1
	for i < len(runes) {
		ch := runes[i]
		if ch == '\\' && i+1 < len(runes) {
			next := runes[i+1]
			if next == '\'' {
				b.WriteRune('\'')
			} else {
				b.WriteRune('\\')
				b.WriteRune(next)
			}
			i += 2
			continue
		}
		if ch == '\'' {
			b.WriteRune('"')
			return i + 1, nil
		}
		if ch == '"' {
			b.WriteString(`\"`)
			i++
			continue
		}
		b.WriteRune(ch)
		i++
	}
	return 0, fmt.Errorf("unterminated string literal")
}

// replaceKeyword matches Python keyword literals at word boundaries.
func replaceKeyword(runes []rune, i int) (string, int) {
	rest := string(runes[i:])
	for py, js := range pythonKeywords {
		if strings.HasPrefix(rest, py) {
			end := i + len([]rune(py))
			if end < len(runes) && isWordRune(runes[end]) {
				continue
			}
			if i > 0 && isWordRune(runes[i-1]) {
				continue
			}
			return js, end
		}
	}
	return "", i
}

var pythonKeywords = map[string]string{
	"True":  "true",
	"False": "false",
	"None":  "null",
}

func isWordRune(r rune) bool {
	return r == '_' ||
		(r >= 'a' && r <= 'z') ||
		(r >= 'A' && r <= 'Z') ||
		(r >= '0' && r <= '9')
}

// stripControlsDeep replaces control characters with spaces and folds
// typographic double quotes to '"' in every string reachable from the
// value.
func stripControlsDeep(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = stripControlsDeep(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = stripControlsDeep(val)
		}
		return out
	case string:
		return smartDoubleFolder.Replace(controlCharsRE.ReplaceAllString(t, " "))
	default:
		return v
	}
}
