package itemspec

import (
	"strings"
	"testing"
)

func beeChart() map[string]any {
	return map[string]any{
		"type":   "bar",
		"title":  "Honey production",
		"labels": []any{"2019", "2020", "2021"},
		"datasets": []any{
			map[string]any{"label": "hives", "data": []any{float64(10), float64(20), float64(15)}},
			map[string]any{"label": "farms", "data": []any{float64(5), float64(10), float64(30)}},
		},
	}
}

func TestNormalizeChartPadsData(t *testing.T) {
	cd := normalizeChart(map[string]any{
		"labels":   []any{"2019", "2020", "2021"},
		"datasets": []any{map[string]any{"label": "hives", "data": []any{float64(1)}}},
	})
	ds := chartDatasets(cd)
	if len(ds) != 1 || len(ds[0].Data) != 3 {
		t.Fatalf("datasets = %+v", ds)
	}
	if ds[0].Data[1] != 0 || ds[0].Data[2] != 0 {
		t.Errorf("padding = %v", ds[0].Data)
	}
	if cd["type"] != "bar" {
		t.Errorf("type = %v", cd["type"])
	}
}

func TestNormalizeChartDefaults(t *testing.T) {
	cd := normalizeChart(map[string]any{})
	labels := chartLabels(cd)
	if len(labels) != 2 {
		t.Fatalf("labels = %v", labels)
	}
	ds := chartDatasets(cd)
	if len(ds) != 1 || ds[0].Label != "Series 1" {
		t.Errorf("datasets = %+v", ds)
	}
}

func TestLocalFalseCandidates(t *testing.T) {
	stmts := []string{
		"hives doubled from 2019 to 2020.",                // true: 10 -> 20
		"farms showed a steady increase over the period.", // true: 5, 10, 30
		"hives showed a steady increase over the period.", // false: 20 -> 15
		"farms was twice hives in 2021.",                  // true: 30 vs 15
		"hives doubled from 2020 to 2021.",                // false: 20 -> 15
	}
	got := localFalseCandidates(stmts, beeChart())
	if len(got) != 2 || got[0] != 2 || got[1] != 4 {
		t.Fatalf("false candidates = %v, want [2 4]", got)
	}
}

func TestRC25ValidateMismatchedAnswer(t *testing.T) {
	s := newRC25()
	passageText := "① hives doubled from 2019 to 2020. ② farms showed a steady increase over the period. " +
		"③ hives showed a steady increase over the period. ④ farms was twice hives in 2021. ⑤ all values are shown."
	item := map[string]any{
		"question":       rc25Question,
		"passage":        passageText,
		"options":        append([]string(nil), circledLabels...),
		"correct_answer": "1",
		"explanation":    "Statement (3) contradicts the chart values for hives, which dip in 2021.",
		"chart_data":     normalizeChart(beeChart()),
	}
	if err := s.Validate(item); err == nil {
		t.Fatal("expected error: analysis says 3 is false but answer claims 1")
	}
	item["correct_answer"] = "3"
	if err := s.Validate(item); err != nil {
		t.Fatalf("Validate with matching answer: %v", err)
	}
}

func TestRC25RepairSetsAnswer(t *testing.T) {
	s := newRC25().(Repairer)
	passageText := "① hives doubled from 2019 to 2020. ② farms showed a steady increase over the period. " +
		"③ hives showed a steady increase over the period. ④ farms was twice hives in 2021. ⑤ all values are shown."
	item := map[string]any{
		"question":       rc25Question,
		"passage":        passageText,
		"options":        append([]string(nil), circledLabels...),
		"correct_answer": "1",
		"explanation":    "",
		"chart_data":     normalizeChart(beeChart()),
	}
	fixed := s.Repair(item, GenContext{})
	if fixed["correct_answer"] != "3" {
		t.Errorf("correct_answer = %v, want 3", fixed["correct_answer"])
	}
	if !strings.Contains(stringify(fixed["explanation"]), "(3)") {
		t.Errorf("explanation = %v", fixed["explanation"])
	}
}
