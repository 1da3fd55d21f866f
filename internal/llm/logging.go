package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// RequestRecord captures one LLM round trip for observability.
type RequestRecord struct {
	Model        string
	Purpose      string
	LatencyMs    int64
	Success      bool
	InputTokens  int
	OutputTokens int
	CostUSD      float64
	RequestBody  string
	ResponseBody string
	ErrorMessage string
}

// RequestLog receives a record for every LLM request. Implementations
// must not block; failures are logged and never fail the request.
type RequestLog interface {
	Record(ctx context.Context, rec RequestRecord) error
}

// SlogRequestLog writes request records through a structured logger.
// It is the default sink when no custom RequestLog is wired.
type SlogRequestLog struct {
	Logger *slog.Logger
}

func (s *SlogRequestLog) Record(_ context.Context, rec RequestRecord) error {
	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}
	attrs := []any{
		"model", rec.Model,
		"purpose", rec.Purpose,
		"latency_ms", rec.LatencyMs,
		"input_tokens", rec.InputTokens,
		"output_tokens", rec.OutputTokens,
		"cost_usd", rec.CostUSD,
	}
	if rec.Success {
		logger.Info("llm request", attrs...)
	} else {
		logger.Warn("llm request failed", append(attrs, "error", rec.ErrorMessage)...)
	}
	return nil
}

// LoggingProvider is a decorator that records every LLM request.
type LoggingProvider struct {
	inner Provider
	sink  RequestLog
}

// WithLogging wraps a Provider with request logging. A nil sink falls
// back to SlogRequestLog on the default logger.
func WithLogging(p Provider, sink RequestLog) Provider {
	if sink == nil {
		sink = &SlogRequestLog{}
	}
	return &LoggingProvider{inner: p, sink: sink}
}

func (l *LoggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	purpose := PurposeFrom(ctx)

	resp, err := l.inner.Generate(ctx, req)

	rec := RequestRecord{
		Model:       l.inner.ModelID(),
		Purpose:     purpose,
		LatencyMs:   time.Since(start).Milliseconds(),
		Success:     err == nil,
		RequestBody: serializeRequest(req),
	}

	if resp != nil {
		rec.InputTokens = resp.Usage.InputTokens
		rec.OutputTokens = resp.Usage.OutputTokens
		rec.Model = resp.Model
		rec.ResponseBody = string(resp.Content)
		if cost, ok := LookupCost(resp.Model); ok {
			rec.CostUSD = cost.Cost(resp.Usage)
		}
	}

	if err != nil {
		rec.ErrorMessage = err.Error()
	}

	// Record the request but never fail it on a sink error.
	if logErr := l.sink.Record(ctx, rec); logErr != nil {
		slog.Warn("failed to record llm request", "error", logErr)
	}

	return resp, err
}

func (l *LoggingProvider) ModelID() string {
	return l.inner.ModelID()
}

// serializeRequest builds a readable representation of the LLM request.
func serializeRequest(req Request) string {
	var b strings.Builder

	if req.System != "" {
		b.WriteString("[system]\n")
		b.WriteString(req.System)
		b.WriteString("\n\n")
	}

	for _, m := range req.Messages {
		b.WriteString(fmt.Sprintf("[%s]\n", m.Role))
		b.WriteString(m.Content)
		b.WriteString("\n\n")
	}

	if req.Schema != nil {
		schemaDef, err := json.Marshal(req.Schema.Definition)
		if err == nil {
			b.WriteString(fmt.Sprintf("[schema: %s]\n", req.Schema.Name))
			b.WriteString(string(schemaDef))
			b.WriteString("\n")
		}
	}

	return b.String()
}
