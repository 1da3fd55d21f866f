package generate

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/abhisek/itemforge/internal/itemspec"
	"github.com/abhisek/itemforge/internal/llm"
	"github.com/abhisek/itemforge/internal/passage"
	"github.com/abhisek/itemforge/internal/prompts"
)

// stubSpec is a minimal specification whose hooks are injectable per
// test.
type stubSpec struct {
	id        string
	budget    itemspec.Budget
	normalize func(map[string]any) (map[string]any, error)
	validate  func(map[string]any) error
}

func (s *stubSpec) ID() string { return s.id }

func (s *stubSpec) SystemPrompt() string { return "You write stub items." }

func (s *stubSpec) BuildPrompt(itemspec.GenContext) string { return "Build one stub item." }

func (s *stubSpec) Normalize(raw map[string]any) (map[string]any, error) {
	if s.normalize != nil {
		return s.normalize(raw)
	}
	return raw, nil
}

func (s *stubSpec) Validate(item map[string]any) error {
	if s.validate != nil {
		return s.validate(item)
	}
	return nil
}

func (s *stubSpec) Budget() itemspec.Budget {
	if s.budget != (itemspec.Budget{}) {
		return s.budget
	}
	return itemspec.Budget{Fixer: 1, Regen: 1}
}

// stubQuoteSpec adds the quote hooks on top of stubSpec.
type stubQuoteSpec struct {
	stubSpec
}

func (s *stubQuoteSpec) QuoteBuildPrompt(p string) string { return "Quote protocol for: " + p }

func (s *stubQuoteSpec) QuotePostprocess(p string, raw map[string]any) (map[string]any, error) {
	raw["passage"] = p
	return raw, nil
}

func (s *stubQuoteSpec) QuoteValidate(map[string]any) error { return nil }

type stubResolver map[string]itemspec.Spec

func (r stubResolver) Resolve(t string) itemspec.Spec { return r[t] }

func itemJSON() llm.MockResponse {
	return llm.MockText(`{"question": "Pick one.", "answer": "1"}`)
}

func TestGenerateBatchIsolation(t *testing.T) {
	resolver := stubResolver{
		"A": &stubSpec{id: "A"},
		"B": &stubSpec{id: "B", validate: func(map[string]any) error {
			return errors.New("always broken")
		}},
		"C": &stubSpec{id: "C"},
	}
	mock := llm.NewMockProvider(itemJSON(), itemJSON(), itemJSON())
	o := &Orchestrator{Provider: mock, Registry: resolver}

	results := o.GenerateBatch(context.Background(), BatchRequest{
		Types: []string{"A", "B", "C"},
	})
	require.Len(t, results, 3)

	failed := 0
	for i, env := range results {
		if env.OK {
			continue
		}
		failed++
		require.Equal(t, FailMessage, env.Message)
		require.Equal(t, "B", env.Meta.Type)
		require.Contains(t, env.Error.Detail, "always broken")
		require.Equal(t, 1, i, "caller order not preserved")
	}
	require.Equal(t, 1, failed)
}

func TestRepairBudgetTermination(t *testing.T) {
	attempts := 0
	spec := &stubSpec{
		id:     "X",
		budget: itemspec.Budget{Fixer: 2, Regen: 1},
		validate: func(map[string]any) error {
			attempts++
			return errors.New("never valid")
		},
	}
	mock := llm.NewMockProvider(itemJSON())
	o := &Orchestrator{Provider: mock, Registry: stubResolver{"X": spec}}

	results := o.GenerateBatch(context.Background(), BatchRequest{Types: []string{"X"}})
	require.False(t, results[0].OK)
	require.Equal(t, 3, attempts, "validate attempts must stop at 1+fixer")
}

func TestGenerateBatchRepetitions(t *testing.T) {
	mock := llm.NewMockProvider(itemJSON(), itemJSON())
	o := &Orchestrator{Provider: mock, Registry: stubResolver{"A": &stubSpec{id: "A"}}}

	results := o.GenerateBatch(context.Background(), BatchRequest{
		Types:    []string{"A"},
		NPerType: 2,
	})
	require.Len(t, results, 2)
	require.NotEqual(t, results[0].Meta.TraceID, results[1].Meta.TraceID)
}

func TestRegenOnNormalizeError(t *testing.T) {
	calls := 0
	spec := &stubSpec{
		id: "X",
		normalize: func(raw map[string]any) (map[string]any, error) {
			calls++
			if calls == 1 {
				return nil, errors.New("incomplete output")
			}
			return raw, nil
		},
	}
	mock := llm.NewMockProvider(itemJSON(), itemJSON())
	o := &Orchestrator{Provider: mock, Registry: stubResolver{"X": spec}}

	results := o.GenerateBatch(context.Background(), BatchRequest{Types: []string{"X"}})
	require.True(t, results[0].OK, "expected success after regen")
	require.Equal(t, 2, mock.CallCount())
}

func TestRegenBudgetExhausted(t *testing.T) {
	spec := &stubSpec{
		id:     "X",
		budget: itemspec.Budget{Fixer: 1, Regen: 1},
		normalize: func(map[string]any) (map[string]any, error) {
			return nil, errors.New("beyond salvage")
		},
	}
	mock := llm.NewMockProvider(itemJSON(), itemJSON(), itemJSON())
	o := &Orchestrator{Provider: mock, Registry: stubResolver{"X": spec}}

	results := o.GenerateBatch(context.Background(), BatchRequest{Types: []string{"X"}})
	require.False(t, results[0].OK)
	require.Contains(t, results[0].Error.Detail, "normalize")
	require.Equal(t, 2, mock.CallCount(), "expected 1+regen llm calls")
}

func TestLLMFailureEnvelope(t *testing.T) {
	mock := llm.NewMockProvider() // empty queue, every call errors
	o := &Orchestrator{Provider: mock, Registry: stubResolver{"A": &stubSpec{id: "A"}}}

	results := o.GenerateBatch(context.Background(), BatchRequest{Types: []string{"A"}})
	require.False(t, results[0].OK)
	require.Contains(t, results[0].Error.Detail, "llm returned no valid JSON")
}

func TestModelOKFalseTreatedAsFailure(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockText(`{"ok": false, "reason": "cannot comply"}`))
	o := &Orchestrator{Provider: mock, Registry: stubResolver{"A": &stubSpec{id: "A"}}}

	results := o.GenerateBatch(context.Background(), BatchRequest{Types: []string{"A"}})
	require.False(t, results[0].OK, "model-declared failure accepted")
}

func TestQuoteBranch(t *testing.T) {
	spec := &stubQuoteSpec{stubSpec{id: "Q"}}
	mock := llm.NewMockProvider(
		llm.MockText(`{"passage": "A clean retargeted passage."}`),
		llm.MockText(`{"answer": "2", "note": "**meta** only"}`),
	)
	o := &Orchestrator{
		Provider: mock,
		Registry: stubResolver{"Q": spec},
		Repairer: &passage.Repairer{Provider: mock},
	}

	results := o.GenerateBatch(context.Background(), BatchRequest{
		Passage: "Raw passage with ① markers.",
		Types:   []string{"Q"},
	})
	env := results[0]
	require.True(t, env.OK)
	require.Equal(t, "quote", env.Meta.Mode)
	require.Equal(t, "A clean retargeted passage.", env.Item["passage"])
	require.Equal(t, "meta only", env.Item["note"], "markup not sanitized")
	require.Equal(t, prompts.GeneratorSystem, mock.Calls[1].System)
}

func TestCompatPromptCarriesPassageAndGuard(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockText(`{"passage": "Retargeted text."}`),
		itemJSON(),
	)
	o := &Orchestrator{
		Provider: mock,
		Registry: stubResolver{"A": &stubSpec{id: "A"}},
		Repairer: &passage.Repairer{Provider: mock},
	}

	results := o.GenerateBatch(context.Background(), BatchRequest{
		Passage: "Raw input passage.",
		Types:   []string{"A"},
	})
	require.True(t, results[0].OK)
	require.Equal(t, "compat", results[0].Meta.Mode)

	gen := mock.Calls[1]
	user := gen.Messages[0].Content
	require.Contains(t, user, "```passage")
	require.Contains(t, user, "Retargeted text.")
	require.Contains(t, gen.System, passageGuard)
}

func TestAttemptPanicIsolated(t *testing.T) {
	resolver := stubResolver{
		"P": &stubSpec{id: "P", validate: func(map[string]any) error {
			panic("hook exploded")
		}},
		"A": &stubSpec{id: "A"},
	}
	mock := llm.NewMockProvider(itemJSON(), itemJSON())
	o := &Orchestrator{Provider: mock, Registry: resolver}

	results := o.GenerateBatch(context.Background(), BatchRequest{Types: []string{"P", "A"}})
	require.False(t, results[0].OK, "panicking attempt reported success")
	require.Contains(t, results[0].Error.Detail, "unhandled")
	require.True(t, results[1].OK, "sibling attempt dragged down by panic")
}

func TestEnvelopeMeta(t *testing.T) {
	mock := llm.NewMockProvider(itemJSON())
	o := &Orchestrator{Provider: mock, Registry: stubResolver{"rc34": &stubSpec{id: "RC34"}}}

	results := o.GenerateBatch(context.Background(), BatchRequest{
		Types: []string{"rc34"},
		Seed:  77,
	})
	meta := results[0].Meta
	require.Equal(t, "rc34", meta.Type)
	require.Equal(t, "RC34", meta.ItemID)
	require.Equal(t, 77, meta.Seed)
	require.NotEmpty(t, meta.TraceID)
}

func TestDetailTruncated(t *testing.T) {
	spec := &stubSpec{id: "X", validate: func(map[string]any) error {
		return errors.New(strings.Repeat("x", 1000))
	}}
	mock := llm.NewMockProvider(itemJSON())
	o := &Orchestrator{Provider: mock, Registry: stubResolver{"X": spec}}

	results := o.GenerateBatch(context.Background(), BatchRequest{Types: []string{"X"}})
	require.LessOrEqual(t, len(results[0].Error.Detail), 300)
}
