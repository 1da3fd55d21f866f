package llm

import (
	"context"
	"encoding/json"
	"testing"
)

type captureLog struct {
	records []RequestRecord
}

func (c *captureLog) Record(_ context.Context, rec RequestRecord) error {
	c.records = append(c.records, rec)
	return nil
}

func TestWithLogging_RecordsSuccess(t *testing.T) {
	mock := NewMockProvider(MockResponse{
		Content: json.RawMessage(`{"a":1}`),
		Usage:   Usage{InputTokens: 100, OutputTokens: 50, TotalTokens: 150},
	})
	sink := &captureLog{}
	p := WithLogging(mock, sink)

	ctx := WithPurpose(context.Background(), PurposeItemGen)
	_, err := p.Generate(ctx, Request{Messages: []Message{{Role: RoleUser, Content: "go"}}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(sink.records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(sink.records))
	}
	rec := sink.records[0]
	if !rec.Success {
		t.Fatal("expected success record")
	}
	if rec.Purpose != PurposeItemGen {
		t.Fatalf("purpose = %q", rec.Purpose)
	}
	if rec.InputTokens != 100 || rec.OutputTokens != 50 {
		t.Fatalf("token counts not recorded: %+v", rec)
	}
}

func TestWithLogging_RecordsFailure(t *testing.T) {
	mock := NewMockProvider(MockResponse{Err: &ErrProviderUnavailable{}})
	sink := &captureLog{}
	p := WithLogging(mock, sink)

	_, err := p.Generate(context.Background(), Request{})
	if err == nil {
		t.Fatal("expected error")
	}

	if len(sink.records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(sink.records))
	}
	rec := sink.records[0]
	if rec.Success {
		t.Fatal("expected failure record")
	}
	if rec.ErrorMessage == "" {
		t.Fatal("expected error message on record")
	}
}

func TestWithLogging_CostFromPricingTable(t *testing.T) {
	cost, ok := LookupCost("gpt-4o-mini")
	if !ok {
		t.Fatal("expected pricing for gpt-4o-mini")
	}
	got := cost.Cost(Usage{InputTokens: 1_000_000, OutputTokens: 1_000_000})
	if diff := got - 0.75; diff > 1e-9 || diff < -1e-9 {
		t.Fatalf("cost = %v, want 0.75", got)
	}
}
