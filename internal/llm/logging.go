package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/admitflow/admitflow/internal/store"
)

// LoggingProvider records each call as an LLM request event.
type LoggingProvider struct {
	inner  Provider
	events store.EventRepo
}

// WithLogging wraps p so each Generate call is appended to events.
func WithLogging(p Provider, events store.EventRepo) Provider {
	return &LoggingProvider{inner: p, events: events}
}

func (l *LoggingProvider) Name() string    { return l.inner.Name() }
func (l *LoggingProvider) ModelID() string { return l.inner.ModelID() }

func (l *LoggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	resp, err := l.inner.Generate(ctx, req)

	ev := store.LLMRequestEventData{
		Provider:    l.inner.Name(),
		Model:       l.inner.ModelID(),
		Purpose:     PurposeFrom(ctx),
		LatencyMs:   time.Since(start).Milliseconds(),
		Success:     err == nil,
		RequestBody: transcript(req),
	}
	if resp != nil {
		ev.Model = resp.Model
		ev.InputTokens = resp.Usage.InputTokens
		ev.OutputTokens = resp.Usage.OutputTokens
		ev.ResponseBody = string(resp.Content)
	}
	if err != nil {
		ev.ErrorMessage = err.Error()
	}

	// A failed write must not fail the generation. The request context may
	// already be done, so the event is written without it.
	if werr := l.events.AppendLLMRequest(context.WithoutCancel(ctx), ev); werr != nil {
		fmt.Fprintf(os.Stderr, "warning: record LLM event: %v\n", werr)
	}
	return resp, err
}

// transcript renders req as the plain text shown by "admitflow llm view".
func transcript(req Request) string {
	var b strings.Builder
	if req.System != "" {
		fmt.Fprintf(&b, "[system]\n%s\n\n", req.System)
	}
	for _, m := range req.Messages {
		fmt.Fprintf(&b, "[%s]\n%s\n\n", m.Role, m.Content)
	}
	if req.Schema != nil {
		if def, err := json.Marshal(req.Schema.Definition); err == nil {
			fmt.Fprintf(&b, "[schema: %s]\n%s\n", req.Schema.Name, def)
		}
	}
	return b.String()
}
