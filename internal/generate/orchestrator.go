package generate

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/itemforge/internal/itemspec"
	"github.com/abhisek/itemforge/internal/llm"
	"github.com/abhisek/itemforge/internal/passage"
	"github.com/abhisek/itemforge/internal/prompts"
)

// Resolver maps a requested type code to its specification. Every code
// resolves to something usable; see itemspec.Registry.
type Resolver interface {
	Resolve(itemType string) itemspec.Spec
}

// Orchestrator runs generation batches. One instance is safe for
// concurrent use; all per-attempt state is local.
type Orchestrator struct {
	Provider llm.Provider
	Registry Resolver
	Repairer *passage.Repairer
}

// New wires an orchestrator with the standard registry and a passage
// repairer backed by the same provider.
func New(p llm.Provider) *Orchestrator {
	return &Orchestrator{
		Provider: p,
		Registry: itemspec.NewRegistry(),
		Repairer: &passage.Repairer{Provider: p},
	}
}

const (
	baseTemperature = 0.2

	passageGuard = "Use ONLY the provided passage. Do NOT invent or substitute a new passage."
)

// GenerateBatch produces NPerType items for each requested type from
// the shared passage. The passage is retargeted once for the whole
// batch; each (type, repetition) pair then runs as an isolated attempt
// and contributes exactly one envelope, in caller order. The batch
// itself never fails for a single bad item.
func (o *Orchestrator) GenerateBatch(ctx context.Context, req BatchRequest) []Envelope {
	reps := req.NPerType
	if reps < 1 {
		reps = 1
	}
	difficulty := req.Difficulty
	if difficulty == "" {
		difficulty = "medium"
	}

	prepped := ""
	if strings.TrimSpace(req.Passage) != "" {
		prepped = o.Repairer.Retarget(ctx, req.Passage)
	}

	results := make([]Envelope, 0, len(req.Types)*reps)
	for _, t := range req.Types {
		spec := o.Registry.Resolve(t)
		for i := 0; i < reps; i++ {
			results = append(results, o.attempt(ctx, t, spec, prepped, difficulty, req.Seed))
		}
	}
	return results
}

// attempt runs one generation attempt end to end. Panics inside
// specification hooks are converted into failure envelopes here so a
// misbehaving type cannot take down its siblings.
func (o *Orchestrator) attempt(ctx context.Context, requested string, spec itemspec.Spec, prepped, difficulty string, seed int) (env Envelope) {
	meta := Meta{
		Type:    requested,
		ItemID:  spec.ID(),
		Seed:    seed,
		TraceID: uuid.NewString(),
	}
	defer func() {
		if r := recover(); r != nil {
			env = failEnvelope(meta, fmt.Sprintf("unhandled: %v", r))
		}
	}()

	ctx = llm.WithPurpose(ctx, llm.PurposeItemGen)

	if qs, ok := spec.(itemspec.QuoteSpec); ok && prepped != "" {
		meta.Mode = "quote"
		return o.quoteAttempt(ctx, qs, prepped, meta)
	}
	meta.Mode = "compat"
	return o.compatAttempt(ctx, spec, prepped, difficulty, meta)
}

// quoteAttempt is the quote sub-protocol: the passage is reproduced
// deterministically and the model only supplies the apparatus around
// it. The quote prompt carries the full protocol, so the system prompt
// stays minimal.
func (o *Orchestrator) quoteAttempt(ctx context.Context, qs itemspec.QuoteSpec, prepped string, meta Meta) Envelope {
	prompt := qs.QuoteBuildPrompt(prepped)

	res := llm.CallJSON(ctx, o.Provider, prompts.GeneratorSystem, prompt, llm.CallOptions{
		Temperature: baseTemperature,
		MaxTokens:   1200,
		Seed:        meta.Seed,
		Timeout:     18 * time.Second,
		Retries:     -1,
	})
	if callFailed(res) {
		return failEnvelope(meta, "llm returned no valid JSON (quote)")
	}
	delete(res.Data, "ok")
	raw := CoerceCommonKeys(res.Data, prepped)

	item, err := qs.QuotePostprocess(prepped, raw)
	if err != nil {
		return failEnvelope(meta, "quote postprocess: "+err.Error())
	}
	if err := qs.QuoteValidate(item); err != nil {
		return failEnvelope(meta, "quote validation: "+err.Error())
	}

	return Envelope{OK: true, Item: SanitizeMarkup(item), Meta: meta}
}

// compatAttempt is the generic path: build the prompt from the
// specification, call the model, then normalize, repair, and validate
// within the type's declared budget. Normalize errors mean the output
// is beyond salvage, so they spend the regen budget on a fresh call
// with nudged parameters; validation failures spend the fixer budget
// on deterministic repair only.
func (o *Orchestrator) compatAttempt(ctx context.Context, spec itemspec.Spec, prepped, difficulty string, meta Meta) Envelope {
	gctx := itemspec.GenContext{
		ItemID:     spec.ID(),
		Difficulty: difficulty,
		Topic:      "random",
		Passage:    prepped,
		Mode:       "generate",
	}

	prompt := spec.BuildPrompt(gctx)
	if strings.TrimSpace(prepped) != "" && !prompts.HasPassageBlock(prompt) {
		prompt = prompts.WithPassage(prompt, strings.TrimSpace(prepped))
	}
	system := systemPrompt(spec, prepped)

	budget := spec.Budget()

	// Multi-question sets are costlier to retry, so they run on a
	// tighter call budget.
	maxTokens, timeout := 1500, 18*time.Second
	if budget.Timeout > 0 {
		timeout = budget.Timeout
	}
	if spec.ID() == "RC41_42" {
		maxTokens, timeout = 1000, 16*time.Second
	}
	params := CallParams{Temperature: baseTemperature, Seed: meta.Seed}

	var data map[string]any
	for round := 0; ; round++ {
		res := llm.CallJSON(ctx, o.Provider, system, prompt, llm.CallOptions{
			Temperature: params.Temperature,
			MaxTokens:   maxTokens,
			Seed:        params.Seed,
			Timeout:     timeout,
			Retries:     -1,
		})
		if callFailed(res) {
			return failEnvelope(meta, "llm returned no valid JSON")
		}
		delete(res.Data, "ok")
		raw := CoerceCommonKeys(res.Data, prepped)

		var err error
		data, err = spec.Normalize(raw)
		if err == nil {
			break
		}
		if round >= budget.Regen {
			return failEnvelope(meta, "normalize: "+err.Error())
		}
		params = RetryParams(round+1, CallParams{Temperature: baseTemperature, Seed: meta.Seed})
	}

	if rep, ok := spec.(itemspec.Repairer); ok {
		data = rep.Repair(data, gctx)
	}
	verr := spec.Validate(data)
	for fix := 0; verr != nil && fix < budget.Fixer; fix++ {
		if rep, ok := spec.(itemspec.Repairer); ok {
			data = rep.Repair(data, gctx)
		}
		verr = spec.Validate(data)
	}
	if verr != nil {
		return failEnvelope(meta, "validation: "+verr.Error())
	}

	data = SanitizeMarkup(data)

	if sc, ok := spec.(itemspec.SelfChecker); ok {
		if issues := sc.SelfChecks(data, prepped); len(issues) > 0 {
			return failEnvelope(meta, "self checks: "+strings.Join(issues, "; "))
		}
	}

	return Envelope{OK: true, Item: data, Meta: meta}
}

// callFailed reports an unusable call result: either every attempt
// failed, or the model flagged its own output with ok=false.
func callFailed(res llm.CallResult) bool {
	return !res.OK || res.Data["ok"] == false
}

// systemPrompt returns the specification's system message with the
// passage guard appended when a passage is in play and the message does
// not already carry it.
func systemPrompt(spec itemspec.Spec, prepped string) string {
	base := spec.SystemPrompt()
	if base == "" {
		base = prompts.DefaultSystem
	}
	if strings.TrimSpace(prepped) != "" && !strings.Contains(base, passageGuard) {
		base = strings.TrimSpace(base) + "\n" + passageGuard
	}
	return base
}
