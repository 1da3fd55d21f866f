package itemspec

import (
	"regexp"
	"strings"
)

// circledLabels are the standard position markers in display order.
var circledLabels = []string{"①", "②", "③", "④", "⑤"}

// letterLabels are the lowercase set-item markers.
var letterLabels = []string{"(a)", "(b)", "(c)", "(d)", "(e)"}

func hasAllLabels(text string, labels []string) bool {
	for _, l := range labels {
		if !strings.Contains(text, l) {
			return false
		}
	}
	return true
}

func circledToDigit(s string) string {
	for i, l := range circledLabels {
		if s == l {
			return string(rune('1' + i))
		}
	}
	return s
}

// replaceOnce swaps old for new exactly once: first with word
// boundaries, then with whitespace-loose matching if the strict pass
// found nothing.
func replaceOnce(text, old, new string) string {
	if old == "" || new == "" {
		return text
	}
	strict, err := regexp.Compile(`(?i)\b` + regexp.QuoteMeta(old) + `\b`)
	if err == nil {
		if loc := strict.FindStringIndex(text); loc != nil {
			return text[:loc[0]] + new + text[loc[1]:]
		}
	}
	loosePat := strings.ReplaceAll(regexp.QuoteMeta(old), `\ `, `\s+`)
	loose, err := regexp.Compile(`(?i)` + loosePat)
	if err != nil {
		return text
	}
	if loc := loose.FindStringIndex(text); loc != nil {
		return text[:loc[0]] + new + text[loc[1]:]
	}
	return text
}

var wordRunRE = regexp.MustCompile(`[A-Za-z]+`)

// collapseDupWords fixes doubled tokens a loose replacement can leave
// behind ("CraftingCrafting" -> "Crafting").
func collapseDupWords(text string) string {
	return wordRunRE.ReplaceAllStringFunc(text, func(w string) string {
		if len(w) >= 4 && len(w)%2 == 0 {
			half := w[:len(w)/2]
			if strings.EqualFold(half, w[len(w)/2:]) {
				return half
			}
		}
		return w
	})
}

// splitCircledStatements returns the statements introduced by circled
// markers, in marker order, with the markers stripped.
func splitCircledStatements(passage string) []string {
	idx := make([]int, 0, 5)
	for _, l := range circledLabels {
		i := strings.Index(passage, l)
		if i < 0 {
			break
		}
		idx = append(idx, i)
	}
	if len(idx) == 0 {
		return nil
	}
	var out []string
	for n, start := range idx {
		end := len(passage)
		if n+1 < len(idx) {
			end = idx[n+1]
		}
		stmt := passage[start:end]
		stmt = strings.TrimPrefix(stmt, circledLabels[n])
		out = append(out, strings.TrimSpace(stmt))
	}
	return out
}
