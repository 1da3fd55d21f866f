package itemspec

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

var answerMap = map[string]string{
	"①": "1", "②": "2", "③": "3", "④": "4", "⑤": "5",
	"A": "1", "B": "2", "C": "3", "D": "4", "E": "5",
	"a": "1", "b": "2", "c": "3", "d": "4", "e": "5",
	"1": "1", "2": "2", "3": "3", "4": "4", "5": "5",
}

var answerPrefixRE = regexp.MustCompile(`(?i)^answer\s*[:：]\s*`)

// StandardizeAnswer collapses the common answer spellings (circled
// numerals, letter labels, digits, "answer: X" noise) to the canonical
// "1".."5" string. Unrecognized values pass through for validation to
// reject.
func StandardizeAnswer(v any) string {
	s := strings.TrimSpace(stringify(v))
	s = answerPrefixRE.ReplaceAllString(s, "")
	if mapped, ok := answerMap[s]; ok {
		return mapped
	}
	return s
}

var optionKeyOrders = [][]string{
	{"1", "2", "3", "4", "5"},
	{"A", "B", "C", "D", "E"},
	{"a", "b", "c", "d", "e"},
	{"①", "②", "③", "④", "⑤"},
}

var optionLabelRE = regexp.MustCompile(`^(?:[ABCDE①②③④⑤1-5][\)\].:\-]\s*)`)

// TidyOptions normalizes the option shapes models produce: a string
// list, a list of labeled objects, a keyed map, or one newline-joined
// blob with leading labels. Empty entries are dropped.
func TidyOptions(opts any) []string {
	switch v := opts.(type) {
	case map[string]any:
		var ordered []string
		for _, order := range optionKeyOrders {
			all := true
			for _, k := range order {
				if _, ok := v[k]; !ok {
					all = false
					break
				}
			}
			if all {
				for _, k := range order {
					ordered = append(ordered, strings.TrimSpace(stringify(v[k])))
				}
				break
			}
		}
		if ordered == nil {
			keys := make([]string, 0, len(v))
			for k := range v {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				ordered = append(ordered, strings.TrimSpace(stringify(v[k])))
			}
		}
		return dropEmpty(ordered)

	case []any:
		var xs []string
		for _, o := range v {
			if d, ok := o.(map[string]any); ok {
				cand := stringify(d["text"])
				if cand == "" {
					cand = stringify(d["option"])
				}
				if cand == "" {
					cand = stringify(d["value"])
				}
				xs = append(xs, strings.TrimSpace(cand))
				continue
			}
			xs = append(xs, strings.TrimSpace(stringify(o)))
		}
		return dropEmpty(xs)

	case []string:
		var xs []string
		for _, o := range v {
			xs = append(xs, strings.TrimSpace(o))
		}
		return dropEmpty(xs)

	case string:
		var xs []string
		for _, ln := range regexp.MustCompile(`[\r\n]+`).Split(v, -1) {
			ln = strings.TrimSpace(ln)
			if ln == "" {
				continue
			}
			ln = optionLabelRE.ReplaceAllString(ln, "")
			xs = append(xs, strings.TrimSpace(ln))
		}
		return dropEmpty(xs)
	}
	return nil
}

var (
	questionAliases = []string{"question", "prompt", "stem"}
	optionAliases   = []string{"options", "choices", "answers", "answer_choices"}
	answerAliases   = []string{"correct_answer", "answer", "answer_key", "correct", "label", "solution", "key"}
	rationaleAlias  = []string{"rationale", "explanation", "reasoning", "analysis"}
)

// CoerceMCQLike maps the common alias field names onto the standard
// MCQ layout and standardizes options and answer. The input map is not
// mutated.
func CoerceMCQLike(d map[string]any) map[string]any {
	x := make(map[string]any, len(d))
	for k, v := range d {
		x[k] = v
	}

	fill := func(target string, aliases []string) {
		if stringify(x[target]) != "" {
			return
		}
		for _, k := range aliases {
			if v, ok := x[k]; ok && stringify(v) != "" {
				x[target] = v
				return
			}
		}
	}
	fill("question", questionAliases)
	fillAny(x, "options", optionAliases)
	fill("correct_answer", answerAliases)
	fill("rationale", rationaleAlias)

	x["question"] = strings.TrimSpace(stringify(x["question"]))
	x["options"] = TidyOptions(x["options"])
	x["correct_answer"] = StandardizeAnswer(x["correct_answer"])
	if _, ok := x["rationale"]; ok {
		x["rationale"] = strings.TrimSpace(stringify(x["rationale"]))
	}
	return x
}

// fillAny is fill for fields whose value is structural (lists, maps)
// rather than string-like.
func fillAny(x map[string]any, target string, aliases []string) {
	if v, ok := x[target]; ok && !isEmptyValue(v) {
		return
	}
	for _, k := range aliases {
		if v, ok := x[k]; ok && !isEmptyValue(v) {
			x[target] = v
			return
		}
	}
}

func isEmptyValue(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(t) == ""
	case []any:
		return len(t) == 0
	case []string:
		return len(t) == 0
	case map[string]any:
		return len(t) == 0
	}
	return false
}

func dropEmpty(xs []string) []string {
	out := xs[:0]
	for _, x := range xs {
		if x != "" {
			out = append(out, x)
		}
	}
	return out
}

// stringify renders scalar values without the "%!s" noise fmt would
// add for nil, and without scientific notation for whole floats.
func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		if t == float64(int64(t)) {
			return fmt.Sprintf("%d", int64(t))
		}
		return fmt.Sprintf("%g", t)
	case int:
		return fmt.Sprintf("%d", t)
	case bool:
		if t {
			return "true"
		}
		return "false"
	}
	return fmt.Sprintf("%v", v)
}
