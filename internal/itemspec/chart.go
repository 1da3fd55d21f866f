package itemspec

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/abhisek/itemforge/internal/prompts"
)

const rc25Question = "Which statement does NOT agree with the chart?"

var (
	year4RE          = regexp.MustCompile(`^\d{4}$`)
	doubledFromRE    = regexp.MustCompile(`(?P<label>[a-z0-9–\- ._/]+?)\s+(?:has|had|was|were|showed|shows|with)?\s*doubled?\s+from\s+(?P<y1>\d{4})\s+to\s+(?P<y2>\d{4})`)
	steadyIncreaseRE = regexp.MustCompile(`(?P<label>[a-z0-9–\- ._/]+?)\s+(?:has|had|was|were|showed|shows|with)?\s*(?:a\s+)?steady\s+increase`)
	unchangedRE      = regexp.MustCompile(`(?:unchanged|same).*?(?P<y1>\d{4}).*?(?:and|to)\s*(?P<y2>\d{4})`)
	twiceInYearRE    = regexp.MustCompile(`(?P<a>[a-z][a-z0-9 ._-]*)\s+(?:is|was)\s+(?:twice|double)\s+(?P<b>[a-z][a-z0-9 ._-]*)\s+in\s+(?P<y>\d{4})`)
	inYearRE         = regexp.MustCompile(`in\s+(?P<y>\d{4})`)
	neverExceedRE    = regexp.MustCompile(`never exceeding\s*(?P<x>\d+(?:\.\d+)?)\s*%`)
)

// chartSeries is one dataset line of a chart.
type chartSeries struct {
	Label string
	Data  []float64
}

// normalizeChart coerces the model's chart_data into
// {type, title, labels[], datasets:[{label, data[]}]} with at least
// two labels and one dataset, padding or truncating data to the label
// count.
func normalizeChart(chart map[string]any) map[string]any {
	cd := make(map[string]any, len(chart)+3)
	for k, v := range chart {
		cd[k] = v
	}
	typ := strings.ToLower(strings.TrimSpace(stringify(cd["type"])))
	if typ == "" {
		typ = "bar"
	}
	cd["type"] = typ

	var labels []string
	switch lv := cd["labels"].(type) {
	case string:
		for _, p := range strings.FieldsFunc(lv, func(r rune) bool { return r == ',' || r == '\n' }) {
			if p = strings.TrimSpace(p); p != "" {
				labels = append(labels, p)
			}
		}
	case []any:
		for _, x := range lv {
			labels = append(labels, strings.TrimSpace(stringify(x)))
		}
	case []string:
		for _, x := range lv {
			labels = append(labels, strings.TrimSpace(x))
		}
	}
	switch len(labels) {
	case 0:
		labels = []string{"X1", "X2"}
	case 1:
		labels = []string{labels[0], labels[0] + "_2"}
	}
	L := len(labels)

	var dsIn []any
	switch v := cd["datasets"].(type) {
	case []any:
		dsIn = v
	case nil:
	default:
		dsIn = []any{v}
	}
	var norm []map[string]any
	for i, raw := range dsIn {
		lab := fmt.Sprintf("Series %d", i+1)
		var dataRaw []any
		if obj, ok := raw.(map[string]any); ok {
			if l := strings.TrimSpace(stringify(obj["label"])); l != "" {
				lab = l
			}
			if dl, ok := obj["data"].([]any); ok {
				dataRaw = dl
			} else if obj["data"] != nil {
				dataRaw = []any{obj["data"]}
			}
		} else if dl, ok := raw.([]any); ok {
			dataRaw = dl
		} else if raw != nil {
			dataRaw = []any{raw}
		}
		vals := make([]float64, 0, L)
		for _, v := range dataRaw {
			vals = append(vals, toFloat(v))
		}
		for len(vals) < L {
			vals = append(vals, 0)
		}
		if len(vals) > L {
			vals = vals[:L]
		}
		dataAny := make([]any, len(vals))
		for j, f := range vals {
			dataAny[j] = f
		}
		norm = append(norm, map[string]any{"label": lab, "data": dataAny})
	}
	if len(norm) == 0 {
		zero := make([]any, L)
		for i := range zero {
			zero[i] = float64(0)
		}
		norm = []map[string]any{{"label": "Series 1", "data": zero}}
	}
	cd["labels"] = labels
	normAny := make([]any, len(norm))
	for i, m := range norm {
		normAny[i] = m
	}
	cd["datasets"] = normAny
	return cd
}

func toFloat(v any) float64 {
	switch x := v.(type) {
	case float64:
		return x
	case int:
		return float64(x)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

func chartLabels(cd map[string]any) []string {
	switch v := cd["labels"].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, x := range v {
			out = append(out, stringify(x))
		}
		return out
	}
	return nil
}

func chartDatasets(cd map[string]any) []chartSeries {
	raw, _ := cd["datasets"].([]any)
	var out []chartSeries
	for _, r := range raw {
		obj, ok := r.(map[string]any)
		if !ok {
			continue
		}
		s := chartSeries{Label: stringify(obj["label"])}
		if dl, ok := obj["data"].([]any); ok {
			for _, v := range dl {
				s.Data = append(s.Data, toFloat(v))
			}
		}
		out = append(out, s)
	}
	return out
}

// localFalseCandidates applies strict quantitative readings to the
// five statements and returns the indexes that contradict the chart.
// "steady increase" means strictly increasing, "double" exactly 2x,
// superlatives require strict ordering.
func localFalseCandidates(statements []string, cd map[string]any) []int {
	labels := chartLabels(cd)
	datasets := chartDatasets(cd)

	series := func(name string) *chartSeries {
		name = strings.ToLower(strings.TrimSpace(name))
		for i := range datasets {
			if strings.ToLower(strings.TrimSpace(datasets[i].Label)) == name {
				return &datasets[i]
			}
		}
		return nil
	}
	labelIndex := func(y string) int {
		for i, l := range labels {
			if l == y {
				return i
			}
		}
		return -1
	}
	allYears := func() bool {
		for _, l := range labels {
			if !year4RE.MatchString(l) {
				return false
			}
		}
		return len(labels) > 0
	}

	falseSet := map[int]bool{}

	for i, stmt := range statements {
		tl := strings.ToLower(strings.TrimSpace(stmt))

		if m := doubledFromRE.FindStringSubmatch(tl); m != nil && allYears() {
			grp, y1, y2 := m[1], m[2], m[3]
			i1, i2 := labelIndex(y1), labelIndex(y2)
			if i1 >= 0 && i2 >= 0 {
				if ds := series(grp); ds != nil && i1 < len(ds.Data) && i2 < len(ds.Data) {
					if math.Abs(ds.Data[i2]-2*ds.Data[i1]) > 1e-9 {
						falseSet[i] = true
					}
				}
			}
		}

		if m := steadyIncreaseRE.FindStringSubmatch(tl); m != nil && len(labels) > 0 && len(datasets) > 0 {
			if ds := series(m[1]); ds != nil {
				vals := ds.Data
				if len(vals) > len(labels) {
					vals = vals[:len(labels)]
				}
				strictlyInc := true
				for j := 1; j < len(vals); j++ {
					if vals[j] <= vals[j-1] {
						strictlyInc = false
						break
					}
				}
				if !strictlyInc {
					falseSet[i] = true
				}
			}
		}

		if m := unchangedRE.FindStringSubmatch(tl); m != nil && allYears() {
			i1, i2 := labelIndex(m[1]), labelIndex(m[2])
			if i1 >= 0 && i2 >= 0 {
				for _, ds := range datasets {
					if i1 < len(ds.Data) && i2 < len(ds.Data) && ds.Data[i1] != ds.Data[i2] {
						falseSet[i] = true
						break
					}
				}
			}
		}

		if m := twiceInYearRE.FindStringSubmatch(tl); m != nil && allYears() {
			a, b, y := m[1], m[2], m[3]
			iy := labelIndex(y)
			dsA, dsB := series(a), series(b)
			if iy >= 0 && dsA != nil && dsB != nil && iy < len(dsA.Data) && iy < len(dsB.Data) {
				va, vb := dsA.Data[iy], dsB.Data[iy]
				if vb == 0 || math.Abs(va/vb-2) > 1e-9 {
					falseSet[i] = true
				}
			}
		}

		if strings.Contains(tl, "lowest") || strings.Contains(tl, "highest") {
			if m := inYearRE.FindStringSubmatch(tl); m != nil {
				iy := labelIndex(m[1])
				if iy >= 0 {
					type nv struct {
						name string
						v    float64
					}
					var vals []nv
					for _, ds := range datasets {
						if iy < len(ds.Data) {
							vals = append(vals, nv{ds.Label, ds.Data[iy]})
						}
					}
					var mentioned *nv
					for j := range vals {
						n := strings.ToLower(strings.TrimSpace(vals[j].name))
						if n != "" && strings.Contains(tl, n) {
							mentioned = &vals[j]
							break
						}
					}
					if mentioned != nil && len(vals) > 1 {
						lo, hi := vals[0].v, vals[0].v
						for _, x := range vals[1:] {
							if x.v < lo {
								lo = x.v
							}
							if x.v > hi {
								hi = x.v
							}
						}
						if strings.Contains(tl, "lowest") && mentioned.v != lo {
							falseSet[i] = true
						}
						if strings.Contains(tl, "highest") && !strings.Contains(tl, "second-highest") && mentioned.v != hi {
							falseSet[i] = true
						}
						if strings.Contains(tl, "second-highest") {
							sorted := append([]nv(nil), vals...)
							sort.Slice(sorted, func(a, b int) bool { return sorted[a].v > sorted[b].v })
							if mentioned.name != sorted[1].name {
								falseSet[i] = true
							}
						}
					}
				}
			}
		}

		if m := neverExceedRE.FindStringSubmatch(tl); m != nil {
			x, err := strconv.ParseFloat(m[1], 64)
			if err == nil {
				for _, ds := range datasets {
					key := strings.ToLower(strings.TrimSpace(ds.Label))
					if key != "" && strings.Contains(tl, key) {
						for _, v := range ds.Data {
							if v > x {
								falseSet[i] = true
								break
							}
						}
						break
					}
				}
			}
		}
	}

	out := make([]int, 0, len(falseSet))
	for i := range falseSet {
		out = append(out, i)
	}
	sort.Ints(out)
	return out
}

// fiveCircledStatements returns the five statements following ① to ⑤,
// nil when any marker is missing.
func fiveCircledStatements(passageText string) []string {
	segs := splitCircledStatements(passageText)
	if len(segs) != 5 {
		return nil
	}
	for i := range segs {
		segs[i] = multiSpaceRE.ReplaceAllString(segs[i], " ")
	}
	return segs
}

func badChartExplanation(expl, fi string) bool {
	s := strings.TrimSpace(expl)
	if s == "" || strings.Contains(s, "{}") || strings.Contains(s, "[]") {
		return true
	}
	return !strings.Contains(s, "("+fi+")")
}

// rc25Spec is the chart/graph NOT-true item: a described chart, five
// circled statements, exactly one contradicting the data.
type rc25Spec struct{}

func newRC25() Spec { return &rc25Spec{} }

func (s *rc25Spec) ID() string { return "RC25" }

func (s *rc25Spec) SystemPrompt() string {
	return "English exam item RC25 (Chart/Graph Analysis + MCQ). " +
		"Return ONLY JSON with fields: {question, passage, options[5], correct_answer(1..5 as string), " +
		"explanation, chart_data:{type, title, labels[], datasets:[{label, data[]}]}}. " +
		"Exactly ONE statement among ① to ⑤ must be false; the others must be strictly true to the chart. " +
		"Use precise terms: 'steady increase' means strictly increasing each year; 'double' means exactly 2x; " +
		"'lowest/highest/second-highest' require strict ordering (ties invalidate strictness). " +
		"No markdown."
}

func (s *rc25Spec) BuildPrompt(ctx GenContext) string {
	return prompts.Generate(orDefault(ctx.ItemID, "RC25"), orDefault(ctx.Difficulty, "medium"), orDefault(ctx.Topic, "random"), ctx.Passage)
}

func (s *rc25Spec) Normalize(raw map[string]any) (map[string]any, error) {
	d := CoerceMCQLike(raw)
	for _, k := range []string{"question", "passage", "explanation"} {
		if _, ok := d[k]; ok {
			d[k] = strings.TrimSpace(stringify(d[k]))
		}
	}
	opts := TidyOptions(d["options"])
	if len(opts) == 5 {
		d["options"] = opts
	} else {
		d["options"] = append([]string(nil), circledLabels...)
	}
	ca := StandardizeAnswer(stringify(d["correct_answer"]))
	if len(ca) != 1 || ca < "1" || ca > "5" {
		ca = "1"
	}
	d["correct_answer"] = ca
	chart, _ := d["chart_data"].(map[string]any)
	d["chart_data"] = normalizeChart(chart)
	return d, nil
}

func (s *rc25Spec) precheck(item map[string]any) error {
	cd, _ := item["chart_data"].(map[string]any)
	labels := chartLabels(cd)
	datasets := chartDatasets(cd)
	if len(labels) < 2 || len(datasets) < 1 {
		return fmt.Errorf("chart needs at least 2 labels and 1 dataset")
	}
	if len(fiveCircledStatements(stringify(item["passage"]))) != 5 {
		return fmt.Errorf("need five numbered statements ① to ⑤ in the passage")
	}
	return nil
}

func (s *rc25Spec) Validate(item map[string]any) error {
	if err := validateSchema(mcqSchema, item); err != nil {
		return err
	}
	if err := s.precheck(item); err != nil {
		return err
	}
	statements := fiveCircledStatements(stringify(item["passage"]))
	cd, _ := item["chart_data"].(map[string]any)

	localFalse := localFalseCandidates(statements, cd)
	if len(localFalse) >= 2 {
		return fmt.Errorf("chart contradicts statements %v; exactly one must be false", localFalse)
	}
	ca := stringify(item["correct_answer"])
	if len(ca) != 1 || ca < "1" || ca > "5" {
		return fmt.Errorf("correct_answer must be '1'..'5'")
	}
	if len(localFalse) == 1 && fmt.Sprint(localFalse[0]+1) != ca {
		return fmt.Errorf("correct_answer %s disagrees with chart analysis (statement %d is false)", ca, localFalse[0]+1)
	}
	if badChartExplanation(stringify(item["explanation"]), ca) {
		return fmt.Errorf("explanation must reference the false statement as (%s)", ca)
	}
	return nil
}

func (s *rc25Spec) Budget() Budget { return Budget{Fixer: 0, Regen: 2, Timeout: 20 * time.Second} }

// Repair reconciles the declared answer with the chart analysis when
// exactly one statement is provably false, patching the explanation
// with a minimal template if it no longer matches.
func (s *rc25Spec) Repair(item map[string]any, _ GenContext) map[string]any {
	d := make(map[string]any, len(item))
	for k, v := range item {
		d[k] = v
	}
	statements := fiveCircledStatements(stringify(d["passage"]))
	cd, _ := d["chart_data"].(map[string]any)
	localFalse := localFalseCandidates(statements, cd)
	if len(localFalse) != 1 {
		return d
	}
	fi := fmt.Sprint(localFalse[0] + 1)
	if stringify(d["correct_answer"]) != fi {
		d["correct_answer"] = fi
	}
	if badChartExplanation(stringify(d["explanation"]), fi) {
		d["explanation"] = "The incorrect statement is (" + fi + "). Comparing the chart values for the referenced periods shows the statement does not match the data."
	}
	return d
}

func (s *rc25Spec) QuoteBuildPrompt(passageText string) string {
	return "You are generating a chart/graph-based NOT-true reading item in QUOTE mode.\n" +
		"\n" +
		"STRICT QUOTE MODE RULES:\n" +
		"1) You are given a PASSAGE that MUST be preserved EXACTLY.\n" +
		"   - DO NOT paraphrase, translate, reorder, insert, or delete any words or sentences.\n" +
		"   - The ONLY allowed modification is to INSERT the circled numerals ①, ②, ③, ④, ⑤\n" +
		"     immediately BEFORE five sentences that will serve as the options.\n" +
		"   - If the passage already contains any of ① to ⑤, DO NOT remove or move them.\n" +
		"2) After your edit, each of ①, ②, ③, ④, ⑤ must appear EXACTLY ONCE in the passage.\n" +
		"3) Apart from these numerals, every other character (including spacing and line breaks)\n" +
		"   must remain identical to the original PASSAGE.\n" +
		"4) Use the information in the passage to design a chart_data object and one false statement among ① to ⑤.\n" +
		"\n" +
		"OUTPUT FORMAT (JSON ONLY):\n" +
		"{\n" +
		"  \"question\": \"" + rc25Question + "\",\n" +
		"  \"passage\": \"original passage, only with ① to ⑤ inserted before five option sentences\",\n" +
		"  \"options\": [\"①\",\"②\",\"③\",\"④\",\"⑤\"],\n" +
		"  \"correct_answer\": \"1\"..\"5\" as string,\n" +
		"  \"explanation\": \"explanation mentioning the wrong option like (3)\",\n" +
		"  \"chart_data\": {\"type\": \"bar\"|\"line\", \"title\": \"...\", \"labels\": [...], \"datasets\": [{\"label\": \"...\", \"data\": [...]}]}\n" +
		"}\n" +
		"\n" +
		"Again: DO NOT CHANGE the PASSAGE text other than inserting ① to ⑤ before five sentences.\n" +
		"PASSAGE (to preserve):\n" + passageText
}

func (s *rc25Spec) QuotePostprocess(passageText string, raw map[string]any) (map[string]any, error) {
	obj, err := s.Normalize(raw)
	if err != nil {
		return nil, err
	}
	pNew := stringify(obj["passage"])

	for _, n := range circledLabels {
		if c := strings.Count(pNew, n); c != 1 {
			return nil, fmt.Errorf("numeral %s must appear exactly once, got %d", n, c)
		}
	}
	normText := func(t string) string {
		t = circledRE.ReplaceAllString(t, "")
		return strings.TrimSpace(multiSpaceRE.ReplaceAllString(t, " "))
	}
	if normText(pNew) != normText(passageText) {
		return nil, fmt.Errorf("passage text must be identical to the original except for ① to ⑤ inserts")
	}

	obj["options"] = append([]string(nil), circledLabels...)
	ca := stringify(obj["correct_answer"])
	if len(ca) != 1 || ca < "1" || ca > "5" {
		ca = "1"
	}
	obj["correct_answer"] = ca

	if err := s.precheck(obj); err != nil {
		return nil, err
	}
	return obj, nil
}

func (s *rc25Spec) QuoteValidate(item map[string]any) error {
	if !equalStrings(TidyOptions(item["options"]), circledLabels) {
		return fmt.Errorf("options must be ['①','②','③','④','⑤']")
	}
	ca := stringify(item["correct_answer"])
	if len(ca) != 1 || ca < "1" || ca > "5" {
		return fmt.Errorf("correct_answer must be '1'..'5'")
	}
	p := stringify(item["passage"])
	for _, n := range circledLabels {
		if strings.Count(p, n) != 1 {
			return fmt.Errorf("passage must contain each numeral ① to ⑤ exactly once")
		}
	}
	return s.precheck(item)
}
