package passage

import (
	"context"
	"strings"
	"testing"

	"github.com/abhisek/itemforge/internal/llm"
)

func TestRepairSemantics_UsesLLMPassage(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockText(`{"passage": "The fixed passage."}`),
	)
	r := &Repairer{Provider: mock}

	got := r.RepairSemantics(context.Background(), "The broken <<BLANK_1>> passage.", Meta{BlankCount: 1})
	if got != "The fixed passage." {
		t.Fatalf("got %q", got)
	}
}

func TestRepairSemantics_PromptCarriesHints(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockText(`{"passage": "ok"}`))
	r := &Repairer{Provider: mock}

	meta := Meta{
		Candidates: []MarkedPhrase{{Mark: "①", Phrase: "reflects"}, {Mark: "③", Phrase: "deny"}},
		BlankCount: 2,
	}
	r.RepairSemantics(context.Background(), "clean text", meta)

	if len(mock.Calls) == 0 {
		t.Fatal("no LLM call made")
	}
	user := mock.Calls[0].Messages[0].Content
	if !strings.Contains(user, "①:reflects; ③:deny") {
		t.Fatalf("candidate hint missing from prompt:\n%s", user)
	}
	if !strings.Contains(user, "Number of placeholders to fill: 2") {
		t.Fatalf("blank count hint missing from prompt:\n%s", user)
	}
}

func TestRepairSemantics_FallbackStripsTokens(t *testing.T) {
	// Empty queue: every attempt fails and CallJSON returns its sentinel.
	mock := llm.NewMockProvider()
	r := &Repairer{Provider: mock}

	got := r.RepairSemantics(context.Background(), "keep this <<BLANK_1>> text", Meta{BlankCount: 1})
	if strings.Contains(got, "BLANK") {
		t.Fatalf("fallback kept token: %q", got)
	}
	if !strings.Contains(got, "keep this") {
		t.Fatalf("fallback lost text: %q", got)
	}
}

func TestRepairSemantics_NonStringPassageFallsBack(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockText(`{"passage": 42}`),
		llm.MockText(`{"passage": 42}`),
		llm.MockText(`{"passage": 42}`),
	)
	r := &Repairer{Provider: mock}

	got := r.RepairSemantics(context.Background(), "text <<BLANK_1>>", Meta{BlankCount: 1})
	if got != "text" {
		t.Fatalf("got %q", got)
	}
}

func TestRetarget_EndToEnd(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockText(`{"passage": "All mended."}`))
	r := &Repairer{Provider: mock}

	got := r.Retarget(context.Background(), "Raw ①word with ____ blank.")
	if got != "All mended." {
		t.Fatalf("got %q", got)
	}
	user := mock.Calls[0].Messages[0].Content
	if strings.Contains(user, "①") && !strings.Contains(user, "①:word") {
		t.Fatalf("sanitized passage leaked markers:\n%s", user)
	}
}
