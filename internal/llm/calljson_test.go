package llm

import (
	"context"
	"testing"
	"time"
)

func fastCallOptions() CallOptions {
	return CallOptions{Backoff: time.Millisecond}
}

func TestCallJSON_HappyPath(t *testing.T) {
	mock := NewMockProvider(
		MockText(`{"candidates": [{"type": "RC22", "fit": 0.9}]}`),
	)

	res := CallJSON(context.Background(), mock, "classify", "passage text", fastCallOptions())
	if !res.OK {
		t.Fatal("expected OK result")
	}
	if res.Data["ok"] != true {
		t.Fatalf("expected ok flag injected, got %v", res.Data["ok"])
	}
	cands, ok := res.Data["candidates"].([]any)
	if !ok || len(cands) != 1 {
		t.Fatalf("expected 1 candidate, got %v", res.Data["candidates"])
	}
}

func TestCallJSON_RespectsExistingOKFlag(t *testing.T) {
	mock := NewMockProvider(MockText(`{"ok": false, "reason": "unfit"}`))

	res := CallJSON(context.Background(), mock, "s", "u", fastCallOptions())
	if !res.OK {
		t.Fatal("call itself succeeded, expected OK")
	}
	if res.Data["ok"] != false {
		t.Fatalf("model's own ok flag overwritten: %v", res.Data["ok"])
	}
}

func TestCallJSON_RecoversFromFencedResponse(t *testing.T) {
	mock := NewMockProvider(
		MockText("Here you go:\n```json\n{\"answer\": ②,}\n```"),
	)

	res := CallJSON(context.Background(), mock, "s", "u", fastCallOptions())
	if !res.OK {
		t.Fatal("expected recovery to succeed")
	}
	if res.Data["answer"] != "②" {
		t.Fatalf("expected answer ②, got %v", res.Data["answer"])
	}
}

func TestCallJSON_RetriesThenSucceeds(t *testing.T) {
	mock := NewMockProvider(
		MockText("not json at all"),
		MockText(`{"status": "fine"}`),
	)

	res := CallJSON(context.Background(), mock, "s", "u", fastCallOptions())
	if !res.OK {
		t.Fatal("expected success on second attempt")
	}
	if mock.CallCount() != 2 {
		t.Fatalf("expected 2 calls, got %d", mock.CallCount())
	}
}

func TestCallJSON_SentinelAfterExhaustion(t *testing.T) {
	mock := NewMockProvider(
		MockText("garbage"),
		MockText("still garbage"),
		MockText("garbage forever"),
	)

	res := CallJSON(context.Background(), mock, "s", "u", fastCallOptions())
	if res.OK {
		t.Fatal("expected failure sentinel")
	}
	if res.Data["ok"] != false {
		t.Fatalf("sentinel missing ok=false: %v", res.Data)
	}
	cands, ok := res.Data["candidates"].([]any)
	if !ok || len(cands) != 0 {
		t.Fatalf("sentinel missing empty candidates: %v", res.Data)
	}
	if mock.CallCount() != 3 {
		t.Fatalf("expected 3 attempts (1 + 2 retries), got %d", mock.CallCount())
	}
}

func TestCallJSON_NoRetriesWhenDisabled(t *testing.T) {
	mock := NewMockProvider(MockText("garbage"))

	opts := fastCallOptions()
	opts.Retries = -1
	res := CallJSON(context.Background(), mock, "s", "u", opts)
	if res.OK {
		t.Fatal("expected failure")
	}
	if mock.CallCount() != 1 {
		t.Fatalf("expected single attempt, got %d", mock.CallCount())
	}
}

func TestCallJSON_ArrayWrapped(t *testing.T) {
	mock := NewMockProvider(MockText(`[{"type": "RC18"}, {"type": "RC22"}]`))

	res := CallJSON(context.Background(), mock, "s", "u", fastCallOptions())
	if !res.OK {
		t.Fatal("expected OK")
	}
	items, ok := res.Data["data"].([]any)
	if !ok || len(items) != 2 {
		t.Fatalf("expected wrapped array of 2, got %v", res.Data)
	}
}

func TestCallJSON_ForwardsRequestParameters(t *testing.T) {
	mock := NewMockProvider(MockText(`{"a": 1}`))

	opts := fastCallOptions()
	opts.Temperature = 0.2
	opts.MaxTokens = 1000
	opts.Seed = 42
	CallJSON(context.Background(), mock, "system text", "user text", opts)

	if len(mock.Calls) != 1 {
		t.Fatalf("expected 1 call, got %d", len(mock.Calls))
	}
	req := mock.Calls[0]
	if req.System != "system text" {
		t.Fatalf("system = %q", req.System)
	}
	if req.Temperature != 0.2 || req.MaxTokens != 1000 || req.Seed != 42 {
		t.Fatalf("parameters not forwarded: %+v", req)
	}
}

func TestCallJSON_CancelledContext(t *testing.T) {
	mock := NewMockProvider() // empty queue, every attempt errors

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	opts := fastCallOptions()
	opts.Backoff = time.Hour
	res := CallJSON(ctx, mock, "s", "u", opts)
	if res.OK {
		t.Fatal("expected failure")
	}
	if mock.CallCount() != 1 {
		t.Fatalf("expected 1 attempt before cancellation, got %d", mock.CallCount())
	}
}
