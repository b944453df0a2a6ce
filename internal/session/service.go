package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/admitflow/admitflow/internal/attempts"
	"github.com/admitflow/admitflow/internal/progression"
	"github.com/admitflow/admitflow/internal/store"
)

// Service runs the test-taking flow on top of an attempt store.
type Service struct {
	repo  store.AttemptRepo
	now   func() time.Time
	newID func() string
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a test-taking service.
func NewService(repo store.AttemptRepo, opts ...Option) *Service {
	s := &Service{
		repo:  repo,
		now:   time.Now,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Started is the outcome of Start.
type Started struct {
	Attempt *attempts.Record
	// Resumed is true when an existing pending attempt was returned.
	Resumed bool
}

// Start begins a test on the requested subject and level. A pending attempt
// for the same subject and level is resumed rather than duplicated.
func (s *Service) Start(ctx context.Context, in attempts.StartInput) (*Started, error) {
	in.StudentID = strings.TrimSpace(in.StudentID)
	in.Subject = strings.ToLower(strings.TrimSpace(in.Subject))
	in.Level = strings.ToLower(strings.TrimSpace(in.Level))
	if err := in.Validate(); err != nil {
		return nil, err
	}
	subject, err := attempts.ParseSubject(in.Subject)
	if err != nil {
		return nil, err
	}
	level, err := attempts.ParseLevel(in.Level)
	if err != nil {
		return nil, err
	}

	records, err := s.repo.ListByStudent(ctx, in.StudentID)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}

	p := progression.Derive(records, subject)
	if p.Lock.IsLocked {
		return nil, &SubjectLockedError{Subject: subject, Reason: p.Lock.Reason}
	}
	state, _ := p.Level(level)
	if !state.Reachable() {
		return nil, fmt.Errorf("%s %s: %w", subject.DisplayName(), level.DisplayName(), ErrLevelLocked)
	}

	pending, err := s.repo.FindPending(ctx, in.StudentID, subject, level)
	if err != nil {
		return nil, err
	}
	if pending != nil {
		return &Started{Attempt: pending, Resumed: true}, nil
	}

	easy, _ := p.Level(attempts.LevelEasy)
	medium, _ := p.Level(attempts.LevelMedium)
	hard, _ := p.Level(attempts.LevelHard)
	rec := &attempts.Record{
		ID:             s.newID(),
		StudentID:      in.StudentID,
		Subject:        subject,
		Level:          level,
		Result:         attempts.ResultPending,
		AttemptsEasy:   easy.Attempts,
		AttemptsMedium: medium.Attempts,
		AttemptsHard:   hard.Attempts,
		CreatedAt:      s.now().UTC(),
	}
	if err := s.repo.Create(ctx, rec); err != nil {
		return nil, fmt.Errorf("start attempt: %w", err)
	}
	return &Started{Attempt: rec}, nil
}

// Score records the outcome of a pending attempt. Only pass and fail are
// accepted.
func (s *Service) Score(ctx context.Context, id string, result attempts.Result) (*attempts.Record, error) {
	if result != attempts.ResultPass && result != attempts.ResultFail {
		return nil, fmt.Errorf("score %q: %w", result, attempts.ErrInvalidResult)
	}
	rec, err := s.repo.Score(ctx, id, result, s.now())
	if errors.Is(err, store.ErrNotPending) {
		return nil, fmt.Errorf("attempt %s: %w", id, ErrAlreadyScored)
	}
	return rec, err
}

// Progress derives the student's progression for subject.
func (s *Service) Progress(ctx context.Context, studentID string, subject attempts.Subject) (progression.Progress, error) {
	records, err := s.repo.ListByStudent(ctx, studentID)
	if err != nil {
		return progression.Progress{}, fmt.Errorf("load history: %w", err)
	}
	return progression.Derive(records, subject), nil
}

// Overview derives the student's progression for every subject.
func (s *Service) Overview(ctx context.Context, studentID string) ([]progression.Progress, error) {
	records, err := s.repo.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	return progression.Overview(records), nil
}

// History returns the student's attempts in creation order.
func (s *Service) History(ctx context.Context, studentID string) ([]attempts.Record, error) {
	return s.repo.ListByStudent(ctx, studentID)
}

// Import replaces the student's stored history with records, keeping their
// order. Records without an ID get a fresh one; records without a creation
// time sort before every timestamped record.
func (s *Service) Import(ctx context.Context, studentID string, records []attempts.Record) error {
	studentID = strings.TrimSpace(studentID)
	if studentID == "" {
		return errors.New("import: student id is required")
	}
	out := make([]attempts.Record, len(records))
	for i, r := range records {
		if r.ID == "" {
			r.ID = s.newID()
		}
		if r.CreatedAt.IsZero() {
			r.CreatedAt = time.Unix(0, 0).UTC()
		}
		out[i] = r
	}
	return s.repo.ReplaceStudent(ctx, studentID, out)
}
