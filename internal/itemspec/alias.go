package itemspec

import (
	"regexp"
	"strconv"
	"strings"
)

// typeToItemID maps the UI-facing family codes to concrete item codes.
var typeToItemID = map[string]string{
	"RC_PURPOSE":   "RC18",
	"RC_EMOTION":   "RC19",
	"RC_ARGUMENT":  "RC20",
	"RC_INFERENCE": "RC21",
	"RC_SUMMARY":   "RC22",
	"RC_TITLE":     "RC24",

	"RC_CHART":           "RC25",
	"RC_MISMATCH":        "RC26",
	"RC_NOTICE_MISMATCH": "RC27",
	"RC_NOTICE_MATCH":    "RC28",

	"RC_GRAMMAR": "RC29",
	"RC_VOCAB":   "RC30",

	"RC_BLANK":      "RC34",
	"RC_IRRELEVANT": "RC35",
	"RC_ORDER":      "RC36",
	"RC_INSERTION":  "RC38",

	"RC_SET": "RC41_42",
}

var (
	rcSetRangeRE = regexp.MustCompile(`^RC\d{2}[_-]\d{2}$`)
	rcNumericRE  = regexp.MustCompile(`^RC(\d{2})$`)
)

// ResolveTypeAlias converts whatever code a caller sends (a concrete
// item code, a family alias, or a numeric-range set code) to the item
// code the registry and prompt builder understand. Every input
// resolves to something; RC34 is the terminal fallback.
func ResolveTypeAlias(itemType string) string {
	code := strings.ToUpper(strings.TrimSpace(itemType))
	if code == "" {
		return "RC34"
	}

	// Set codes pass through untouched.
	if code == "RC41_42" || code == "RC43_45" {
		return code
	}

	// Listening codes resolve inside the registry's LC family.
	if strings.HasPrefix(code, "LC") {
		return code
	}

	if m := rcNumericRE.FindStringSubmatch(code); m != nil {
		n, _ := strconv.Atoi(m[1])
		switch {
		case n >= 18 && n <= 40:
			return code
		case n == 41 || n == 42:
			return "RC41_42"
		case n >= 43 && n <= 45:
			return "RC43_45"
		}
		return "RC34"
	}

	if rcSetRangeRE.MatchString(code) {
		return "RC41_42"
	}

	if mapped, ok := typeToItemID[code]; ok {
		return mapped
	}

	return "RC34"
}
