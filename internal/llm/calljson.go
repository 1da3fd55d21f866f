package llm

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"
)

// CallOptions tune a single CallJSON invocation.
type CallOptions struct {
	Temperature float64
	MaxTokens   int
	Seed        int

	// Timeout bounds each attempt. Zero means no per-attempt deadline
	// beyond what the caller's context carries.
	Timeout time.Duration

	// Retries is the number of additional attempts after the first.
	// Negative disables the default.
	Retries int

	// Backoff is the base wait between attempts; attempt N sleeps
	// Backoff*N. Defaults to 800ms.
	Backoff time.Duration
}

const (
	defaultCallRetries = 2
	defaultCallBackoff = 800 * time.Millisecond
	defaultCallTokens  = 4000
)

// CallResult is the outcome of a JSON-mode LLM call. OK is false when
// every attempt failed; Data is then an empty map so callers can index
// it without nil checks.
type CallResult struct {
	OK   bool
	Data map[string]any
}

// CallJSON sends a system and user prompt to the provider and recovers
// a JSON object from the completion. Parse failures and provider errors
// are retried with linear backoff; after the attempts are exhausted it
// returns CallResult{OK: false} rather than an error, so batch callers
// can fall back without unwinding.
func CallJSON(ctx context.Context, p Provider, system, user string, opts CallOptions) CallResult {
	retries := opts.Retries
	if retries == 0 {
		retries = defaultCallRetries
	}
	if retries < 0 {
		retries = 0
	}
	backoff := opts.Backoff
	if backoff <= 0 {
		backoff = defaultCallBackoff
	}
	maxTokens := opts.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultCallTokens
	}

	var lastErr error
	for attempt := 0; attempt <= retries; attempt++ {
		data, err := callOnce(ctx, p, system, user, opts, maxTokens)
		if err == nil {
			return okResult(data)
		}
		lastErr = err

		if attempt < retries {
			wait := backoff * time.Duration(attempt+1)
			select {
			case <-ctx.Done():
				slog.Warn("json call abandoned", "purpose", PurposeFrom(ctx), "error", ctx.Err())
				return failedResult()
			case <-time.After(wait):
			}
		}
	}

	slog.Warn("json call failed after retries",
		"purpose", PurposeFrom(ctx),
		"attempts", retries+1,
		"error", lastErr)
	return failedResult()
}

func callOnce(ctx context.Context, p Provider, system, user string, opts CallOptions, maxTokens int) (map[string]any, error) {
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	resp, err := p.Generate(ctx, Request{
		System:      system,
		Messages:    []Message{{Role: RoleUser, Content: user}},
		MaxTokens:   maxTokens,
		Temperature: opts.Temperature,
		Seed:        opts.Seed,
	})
	if err != nil {
		return nil, err
	}

	parsed, err := Recover(rawText(resp.Content))
	if err != nil {
		return nil, err
	}

	switch v := parsed.(type) {
	case map[string]any:
		return v, nil
	case []any:
		// Arrays are rare but valid recovery output. Wrap so the
		// result shape stays uniform for callers.
		return map[string]any{"data": v}, nil
	}
	return nil, &ErrInvalidResponse{Content: resp.Content, Err: ErrEmptyResponse}
}

// rawText unwraps providers that hand back plain text as a JSON-quoted
// string.
func rawText(content json.RawMessage) string {
	var s string
	if len(content) > 0 && content[0] == '"' && json.Unmarshal(content, &s) == nil {
		return s
	}
	return string(content)
}

func okResult(data map[string]any) CallResult {
	if _, exists := data["ok"]; !exists {
		data["ok"] = true
	}
	return CallResult{OK: true, Data: data}
}

func failedResult() CallResult {
	return CallResult{OK: false, Data: map[string]any{"ok": false, "candidates": []any{}}}
}
