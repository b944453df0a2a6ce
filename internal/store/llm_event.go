package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

var llmEventColumns = []string{
	"id", "sequence", "timestamp", "provider", "model", "purpose",
	"input_tokens", "output_tokens", "latency_ms", "success",
	"error_message", "request_body", "response_body",
}

// eventRepo implements EventRepo backed by the SQL builder and the global
// sequence counter.
type eventRepo struct {
	db  *sql.DB
	seq *sequenceCounter
}

func (r *eventRepo) AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	seqNum, err := r.seq.nextIn(ctx, tx)
	if err != nil {
		return err
	}

	query, args := builder().Insert(llmEventsTableName).
		Columns(llmEventColumns[1:]...).
		Values(
			seqNum, time.Now().UTC(),
			data.Provider, data.Model, data.Purpose,
			data.InputTokens, data.OutputTokens, data.LatencyMs, data.Success,
			data.ErrorMessage, data.RequestBody, data.ResponseBody,
		).
		Query()
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save LLM request event: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit LLM request event: %w", err)
	}
	return nil
}

func (r *eventRepo) QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMRequestEventRecord, error) {
	b := builder()
	sel := b.Select(llmEventColumns...).
		From(b.Table(llmEventsTableName)).
		OrderBy(entsql.Desc("sequence"))

	var preds []*entsql.Predicate
	if !opts.From.IsZero() {
		preds = append(preds, entsql.GTE("timestamp", opts.From))
	}
	if !opts.To.IsZero() {
		preds = append(preds, entsql.LTE("timestamp", opts.To))
	}
	if len(preds) > 0 {
		sel.Where(entsql.And(preds...))
	}
	if opts.Limit > 0 {
		sel.Limit(opts.Limit)
	}

	query, args := sel.Query()
	return r.queryEvents(ctx, query, args)
}

func (r *eventRepo) GetLLMEvent(ctx context.Context, id int) (*LLMRequestEventRecord, error) {
	b := builder()
	query, args := b.Select(llmEventColumns...).
		From(b.Table(llmEventsTableName)).
		Where(entsql.EQ("id", id)).
		Query()

	events, err := r.queryEvents(ctx, query, args)
	if err != nil {
		return nil, err
	}
	if len(events) == 0 {
		return nil, nil
	}
	return &events[0], nil
}

func (r *eventRepo) LLMUsageByPurpose(ctx context.Context) ([]LLMUsageStats, error) {
	b := builder()
	query, args := b.Select(
		"purpose",
		entsql.As(entsql.Count("*"), "calls"),
		entsql.As(entsql.Sum("input_tokens"), "input_tokens"),
		entsql.As(entsql.Sum("output_tokens"), "output_tokens"),
		entsql.As(entsql.Avg("latency_ms"), "avg_latency"),
	).
		From(b.Table(llmEventsTableName)).
		GroupBy("purpose").
		OrderBy("purpose").
		Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query LLM usage by purpose: %w", err)
	}
	defer rows.Close()

	var out []LLMUsageStats
	for rows.Next() {
		var (
			s          LLMUsageStats
			in, outTok sql.NullInt64
			avg        sql.NullFloat64
		)
		if err := rows.Scan(&s.Purpose, &s.Calls, &in, &outTok, &avg); err != nil {
			return nil, fmt.Errorf("scan LLM usage: %w", err)
		}
		s.InputTokens = int(in.Int64)
		s.OutputTokens = int(outTok.Int64)
		s.AvgLatencyMs = int64(avg.Float64)
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *eventRepo) LLMUsageByModel(ctx context.Context) ([]LLMModelUsage, error) {
	b := builder()
	query, args := b.Select(
		"model",
		entsql.As(entsql.Count("*"), "calls"),
		entsql.As(entsql.Sum("input_tokens"), "input_tokens"),
		entsql.As(entsql.Sum("output_tokens"), "output_tokens"),
	).
		From(b.Table(llmEventsTableName)).
		GroupBy("model").
		OrderBy("model").
		Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query LLM usage by model: %w", err)
	}
	defer rows.Close()

	var out []LLMModelUsage
	for rows.Next() {
		var (
			m          LLMModelUsage
			in, outTok sql.NullInt64
		)
		if err := rows.Scan(&m.Model, &m.Calls, &in, &outTok); err != nil {
			return nil, fmt.Errorf("scan LLM model usage: %w", err)
		}
		m.InputTokens = int(in.Int64)
		m.OutputTokens = int(outTok.Int64)
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *eventRepo) queryEvents(ctx context.Context, query string, args []any) ([]LLMRequestEventRecord, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query LLM events: %w", err)
	}
	defer rows.Close()

	var out []LLMRequestEventRecord
	for rows.Next() {
		var e LLMRequestEventRecord
		if err := rows.Scan(
			&e.ID, &e.Sequence, &e.Timestamp,
			&e.Provider, &e.Model, &e.Purpose,
			&e.InputTokens, &e.OutputTokens, &e.LatencyMs, &e.Success,
			&e.ErrorMessage, &e.RequestBody, &e.ResponseBody,
		); err != nil {
			return nil, fmt.Errorf("scan LLM event: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
