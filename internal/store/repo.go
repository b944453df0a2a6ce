package store

import (
	"context"
	"errors"
	"time"

	"github.com/admitflow/admitflow/internal/attempts"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit int       // max results (0 = unlimited)
	From  time.Time // timestamp >= From
	To    time.Time // timestamp <= To
}

// StudentSummary is a student with the number of recorded attempts.
type StudentSummary struct {
	StudentID string
	Attempts  int
	LastSeen  time.Time
}

// AttemptRepo persists attempt records.
type AttemptRepo interface {
	// Create inserts rec. ID and StudentID must be set; Sequence and
	// CreatedAt are assigned when zero.
	Create(ctx context.Context, rec *attempts.Record) error

	// Get returns the attempt with the given ID or ErrNotFound.
	Get(ctx context.Context, id string) (*attempts.Record, error)

	// ListByStudent returns every attempt of a student in creation order.
	ListByStudent(ctx context.Context, studentID string) ([]attempts.Record, error)

	// FindPending returns the most recent pending attempt for the
	// student/subject/level, or nil if there is none.
	FindPending(ctx context.Context, studentID string, subject attempts.Subject, level attempts.Level) (*attempts.Record, error)

	// Score records the outcome of a pending attempt and increments its level
	// counter on it and on every later attempt of the same student and
	// subject. Returns ErrNotFound if the attempt does not exist.
	Score(ctx context.Context, id string, result attempts.Result, at time.Time) (*attempts.Record, error)

	// ReplaceStudent atomically replaces a student's history with records.
	ReplaceStudent(ctx context.Context, studentID string, records []attempts.Record) error

	// Students lists every student with recorded attempts.
	Students(ctx context.Context) ([]StudentSummary, error)
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMRequestEventRecord is a stored LLM request event.
type LLMRequestEventRecord struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	LLMRequestEventData
}

// LLMUsageStats aggregates token usage for one purpose.
type LLMUsageStats struct {
	Purpose      string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// LLMModelUsage aggregates token usage for one model.
type LLMModelUsage struct {
	Model        string
	Calls        int
	InputTokens  int
	OutputTokens int
}

// EventRepo provides append and query access to LLM request events.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QueryLLMEvents returns events newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMRequestEventRecord, error)

	// GetLLMEvent returns a single event, or nil if it does not exist.
	GetLLMEvent(ctx context.Context, id int) (*LLMRequestEventRecord, error)

	// LLMUsageByPurpose aggregates usage per purpose.
	LLMUsageByPurpose(ctx context.Context) ([]LLMUsageStats, error)

	// LLMUsageByModel aggregates usage per model.
	LLMUsageByModel(ctx context.Context) ([]LLMModelUsage, error)
}
