package store

import (
	"context"
	"testing"
	"time"
)

func TestAppendAndQueryLLMEvents(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	for i, purpose := range []string{"review", "review", "summary"} {
		err := repo.AppendLLMRequest(ctx, LLMRequestEventData{
			Provider:     "mock",
			Model:        "mock-model",
			Purpose:      purpose,
			InputTokens:  10 * (i + 1),
			OutputTokens: 5,
			LatencyMs:    100,
			Success:      true,
			RequestBody:  `{"q":1}`,
		})
		if err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}

	events, err := repo.QueryLLMEvents(ctx, QueryOpts{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("events = %d, want 3", len(events))
	}
	if events[0].Purpose != "summary" {
		t.Errorf("newest purpose = %q, want summary", events[0].Purpose)
	}
	if events[0].Sequence <= events[1].Sequence {
		t.Errorf("events not newest first: %d <= %d", events[0].Sequence, events[1].Sequence)
	}

	limited, err := repo.QueryLLMEvents(ctx, QueryOpts{Limit: 2})
	if err != nil {
		t.Fatalf("query limited: %v", err)
	}
	if len(limited) != 2 {
		t.Errorf("limited events = %d, want 2", len(limited))
	}

	future, err := repo.QueryLLMEvents(ctx, QueryOpts{From: time.Now().Add(time.Hour)})
	if err != nil {
		t.Fatalf("query future: %v", err)
	}
	if len(future) != 0 {
		t.Errorf("future events = %d, want 0", len(future))
	}
}

func TestGetLLMEvent(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	err := repo.AppendLLMRequest(ctx, LLMRequestEventData{
		Provider:     "mock",
		Model:        "m",
		Purpose:      "review",
		Success:      false,
		ErrorMessage: "boom",
		ResponseBody: "raw",
	})
	if err != nil {
		t.Fatalf("append: %v", err)
	}

	events, err := repo.QueryLLMEvents(ctx, QueryOpts{Limit: 1})
	if err != nil || len(events) != 1 {
		t.Fatalf("query: %v (%d events)", err, len(events))
	}

	got, err := repo.GetLLMEvent(ctx, events[0].ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil {
		t.Fatal("expected event")
	}
	if got.ErrorMessage != "boom" || got.ResponseBody != "raw" || got.Success {
		t.Errorf("unexpected event: %+v", got)
	}

	missing, err := repo.GetLLMEvent(ctx, 9999)
	if err != nil {
		t.Fatalf("get missing: %v", err)
	}
	if missing != nil {
		t.Errorf("expected nil for missing event, got %+v", missing)
	}
}

func TestLLMUsageAggregates(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	data := []LLMRequestEventData{
		{Provider: "p", Model: "a", Purpose: "review", InputTokens: 10, OutputTokens: 1, LatencyMs: 100},
		{Provider: "p", Model: "a", Purpose: "review", InputTokens: 20, OutputTokens: 2, LatencyMs: 300},
		{Provider: "p", Model: "b", Purpose: "summary", InputTokens: 5, OutputTokens: 5, LatencyMs: 50},
	}
	for _, d := range data {
		if err := repo.AppendLLMRequest(ctx, d); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	byPurpose, err := repo.LLMUsageByPurpose(ctx)
	if err != nil {
		t.Fatalf("usage by purpose: %v", err)
	}
	if len(byPurpose) != 2 {
		t.Fatalf("purposes = %d, want 2", len(byPurpose))
	}
	review := byPurpose[0]
	if review.Purpose != "review" || review.Calls != 2 || review.InputTokens != 30 || review.OutputTokens != 3 || review.AvgLatencyMs != 200 {
		t.Errorf("review usage = %+v", review)
	}

	byModel, err := repo.LLMUsageByModel(ctx)
	if err != nil {
		t.Fatalf("usage by model: %v", err)
	}
	if len(byModel) != 2 {
		t.Fatalf("models = %d, want 2", len(byModel))
	}
	if byModel[1].Model != "b" || byModel[1].Calls != 1 || byModel[1].InputTokens != 5 {
		t.Errorf("model b usage = %+v", byModel[1])
	}
}
