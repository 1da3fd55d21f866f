package passage

import (
	"strings"
	"testing"
)

func TestSanitize_UnderlineTags(t *testing.T) {
	clean, _ := Sanitize(`The author <u>argues</u> that <ins>change</ins> is slow.`)
	if clean != "The author argues that change is slow." {
		t.Fatalf("got %q", clean)
	}
}

func TestSanitize_UnderlineSpan(t *testing.T) {
	in := `It was <span style="text-decoration: underline">remarkable</span> indeed.`
	clean, _ := Sanitize(in)
	if clean != "It was remarkable indeed." {
		t.Fatalf("got %q", clean)
	}
}

func TestSanitize_InlineMarkedWords(t *testing.T) {
	clean, meta := Sanitize("People ①reflects on the past, while ② looking forward.")
	if strings.ContainsAny(clean, circledMarks) {
		t.Fatalf("markers survived: %q", clean)
	}
	if !strings.Contains(clean, "reflects") || !strings.Contains(clean, "looking forward") {
		t.Fatalf("labeled words lost: %q", clean)
	}
	if len(meta.Candidates) != 2 {
		t.Fatalf("expected 2 candidates, got %v", meta.Candidates)
	}
	if meta.Candidates[0].Mark != "①" || meta.Candidates[0].Phrase != "reflects on the past" {
		t.Fatalf("bad first candidate: %+v", meta.Candidates[0])
	}
	if meta.Candidates[1].Mark != "②" || meta.Candidates[1].Phrase != "looking forward" {
		t.Fatalf("bad second candidate: %+v", meta.Candidates[1])
	}
}

func TestSanitize_ParenthesizedMarkers(t *testing.T) {
	clean, meta := Sanitize("Choose the best option. ( ① ) The tide rises. (②) It falls.")
	if strings.ContainsAny(clean, circledMarks) {
		t.Fatalf("markers survived: %q", clean)
	}
	// Parenthesized markers label positions, not words.
	if len(meta.Candidates) != 0 {
		t.Fatalf("expected no candidates, got %v", meta.Candidates)
	}
}

func TestSanitize_BlankTokens(t *testing.T) {
	clean, meta := Sanitize("The answer is ____ and the reason is ______.")
	if meta.BlankCount != 2 {
		t.Fatalf("expected 2 blanks, got %d", meta.BlankCount)
	}
	if !strings.Contains(clean, "<<BLANK_1>>") || !strings.Contains(clean, "<<BLANK_2>>") {
		t.Fatalf("blank tokens missing: %q", clean)
	}
}

func TestSanitize_ShortUnderscoreRunKept(t *testing.T) {
	clean, meta := Sanitize("snake_case and a__b stay put")
	if meta.BlankCount != 0 {
		t.Fatalf("expected no blanks, got %d", meta.BlankCount)
	}
	if !strings.Contains(clean, "snake_case") || !strings.Contains(clean, "a__b") {
		t.Fatalf("short runs rewritten: %q", clean)
	}
}

func TestSanitize_WhitespaceCollapsed(t *testing.T) {
	clean, _ := Sanitize("  too   many    spaces  ")
	if clean != "too many spaces" {
		t.Fatalf("got %q", clean)
	}
}

func TestSanitize_PreservesOriginal(t *testing.T) {
	in := "Keep ①this around."
	_, meta := Sanitize(in)
	if meta.Original != in {
		t.Fatalf("original not preserved: %q", meta.Original)
	}
}

func TestStripBlankTokens(t *testing.T) {
	got := StripBlankTokens("before <<BLANK_1>> after <<BLANK_12>>")
	if strings.Contains(got, "BLANK") {
		t.Fatalf("tokens survived: %q", got)
	}
}

func TestStripAnnotations(t *testing.T) {
	got := StripAnnotations("A <u>word</u> with ②marker")
	if strings.Contains(got, "<u>") || strings.ContainsAny(got, circledMarks) {
		t.Fatalf("annotations survived: %q", got)
	}
}
