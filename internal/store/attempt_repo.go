package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"

	"github.com/admitflow/admitflow/internal/attempts"
)

// ErrNotPending is returned by Score when the attempt was already scored.
var ErrNotPending = errors.New("attempt is not pending")

var attemptColumns = []string{
	"id", "sequence", "student_id", "subject", "level", "result",
	"attempts_easy", "attempts_medium", "attempts_hard", "created_at", "scored_at",
}

// execQuerier is satisfied by *sql.DB and *sql.Tx.
type execQuerier interface {
	queryRower
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// attemptRepo implements AttemptRepo with ent's SQL builder.
type attemptRepo struct {
	db  *sql.DB
	seq *sequenceCounter
}

func builder() *entsql.DialectBuilder {
	return entsql.Dialect(dialect.SQLite)
}

func (r *attemptRepo) Create(ctx context.Context, rec *attempts.Record) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := r.create(ctx, tx, rec); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit attempt: %w", err)
	}
	return nil
}

func (r *attemptRepo) create(ctx context.Context, q execQuerier, rec *attempts.Record) error {
	if rec.ID == "" || rec.StudentID == "" {
		return fmt.Errorf("create attempt: id and student id are required")
	}
	if rec.Sequence == 0 {
		seq, err := r.seq.nextIn(ctx, q)
		if err != nil {
			return err
		}
		rec.Sequence = seq
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	var scoredAt any
	if rec.ScoredAt != nil {
		scoredAt = *rec.ScoredAt
	}

	query, args := builder().Insert(attemptsTableName).
		Columns(attemptColumns...).
		Values(
			rec.ID, rec.Sequence, rec.StudentID,
			string(rec.Subject), string(rec.Level), string(rec.Result),
			rec.AttemptsEasy, rec.AttemptsMedium, rec.AttemptsHard,
			rec.CreatedAt, scoredAt,
		).
		Query()
	if _, err := q.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save attempt: %w", err)
	}
	return nil
}

func (r *attemptRepo) Get(ctx context.Context, id string) (*attempts.Record, error) {
	return r.get(ctx, r.db, id)
}

func (r *attemptRepo) get(ctx context.Context, q execQuerier, id string) (*attempts.Record, error) {
	b := builder()
	query, args := b.Select(attemptColumns...).
		From(b.Table(attemptsTableName)).
		Where(entsql.EQ("id", id)).
		Query()

	recs, err := queryAttempts(ctx, q, query, args)
	if err != nil {
		return nil, fmt.Errorf("query attempt %s: %w", id, err)
	}
	if len(recs) == 0 {
		return nil, fmt.Errorf("attempt %s: %w", id, ErrNotFound)
	}
	return &recs[0], nil
}

func (r *attemptRepo) ListByStudent(ctx context.Context, studentID string) ([]attempts.Record, error) {
	b := builder()
	query, args := b.Select(attemptColumns...).
		From(b.Table(attemptsTableName)).
		Where(entsql.EQ("student_id", studentID)).
		OrderBy("sequence").
		Query()

	recs, err := queryAttempts(ctx, r.db, query, args)
	if err != nil {
		return nil, fmt.Errorf("query attempts for %s: %w", studentID, err)
	}
	return recs, nil
}

func (r *attemptRepo) FindPending(ctx context.Context, studentID string, subject attempts.Subject, level attempts.Level) (*attempts.Record, error) {
	b := builder()
	query, args := b.Select(attemptColumns...).
		From(b.Table(attemptsTableName)).
		Where(entsql.And(
			entsql.EQ("student_id", studentID),
			entsql.EQ("subject", string(subject)),
			entsql.EQ("level", string(level)),
			entsql.EQ("result", string(attempts.ResultPending)),
		)).
		OrderBy(entsql.Desc("sequence")).
		Limit(1).
		Query()

	recs, err := queryAttempts(ctx, r.db, query, args)
	if err != nil {
		return nil, fmt.Errorf("query pending attempt: %w", err)
	}
	if len(recs) == 0 {
		return nil, nil
	}
	return &recs[0], nil
}

func (r *attemptRepo) Score(ctx context.Context, id string, result attempts.Result, at time.Time) (*attempts.Record, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	rec, err := r.get(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if rec.Result != attempts.ResultPending {
		return nil, fmt.Errorf("attempt %s is %s: %w", id, rec.Result, ErrNotPending)
	}

	query, args := builder().Update(attemptsTableName).
		Set("result", string(result)).
		Set("scored_at", at.UTC()).
		Where(entsql.EQ("id", id)).
		Query()
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("update attempt result: %w", err)
	}

	query, args = builder().Update(attemptsTableName).
		Add(counterColumn(rec.Level), 1).
		Where(entsql.And(
			entsql.EQ("student_id", rec.StudentID),
			entsql.EQ("subject", string(rec.Subject)),
			entsql.GTE("sequence", rec.Sequence),
		)).
		Query()
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("increment attempt counters: %w", err)
	}

	updated, err := r.get(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit score: %w", err)
	}
	return updated, nil
}

func (r *attemptRepo) ReplaceStudent(ctx context.Context, studentID string, records []attempts.Record) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query, args := builder().Delete(attemptsTableName).
		Where(entsql.EQ("student_id", studentID)).
		Query()
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("clear attempts for %s: %w", studentID, err)
	}

	for i := range records {
		rec := records[i]
		rec.StudentID = studentID
		rec.Sequence = 0
		if err := r.create(ctx, tx, &rec); err != nil {
			return fmt.Errorf("import attempt %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit import: %w", err)
	}
	return nil
}

func (r *attemptRepo) Students(ctx context.Context) ([]StudentSummary, error) {
	b := builder()
	query, args := b.Select(
		"student_id",
		entsql.As(entsql.Count("*"), "attempts"),
		entsql.As(entsql.Max("created_at"), "last_seen"),
	).
		From(b.Table(attemptsTableName)).
		GroupBy("student_id").
		OrderBy("student_id").
		Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query students: %w", err)
	}
	defer rows.Close()

	var out []StudentSummary
	for rows.Next() {
		var (
			s    StudentSummary
			last sql.NullString
		)
		if err := rows.Scan(&s.StudentID, &s.Attempts, &last); err != nil {
			return nil, fmt.Errorf("scan student: %w", err)
		}
		s.LastSeen = parseStoredTime(last.String)
		out = append(out, s)
	}
	return out, rows.Err()
}

func counterColumn(level attempts.Level) string {
	switch level {
	case attempts.LevelMedium:
		return "attempts_medium"
	case attempts.LevelHard:
		return "attempts_hard"
	default:
		return "attempts_easy"
	}
}

func queryAttempts(ctx context.Context, q execQuerier, query string, args []any) ([]attempts.Record, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []attempts.Record
	for rows.Next() {
		var (
			rec                    attempts.Record
			subject, level, result string
			scoredAt               sql.NullTime
		)
		if err := rows.Scan(
			&rec.ID, &rec.Sequence, &rec.StudentID,
			&subject, &level, &result,
			&rec.AttemptsEasy, &rec.AttemptsMedium, &rec.AttemptsHard,
			&rec.CreatedAt, &scoredAt,
		); err != nil {
			return nil, fmt.Errorf("scan attempt: %w", err)
		}
		rec.Subject = attempts.Subject(subject)
		rec.Level = attempts.Level(level)
		rec.Result = attempts.Result(result)
		if scoredAt.Valid {
			t := scoredAt.Time
			rec.ScoredAt = &t
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// storedTimeLayouts are the text forms SQLite hands back for aggregated
// datetime columns.
var storedTimeLayouts = []string{
	"2006-01-02 15:04:05.999999999-07:00",
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
}

func parseStoredTime(s string) time.Time {
	for _, layout := range storedTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
