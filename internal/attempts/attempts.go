package attempts

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrInvalidSubject = errors.New("invalid subject")
	ErrInvalidLevel   = errors.New("invalid level")
	ErrInvalidResult  = errors.New("invalid result")
)

// Subject is one of the academic domains that gate progression.
type Subject string

const (
	SubjectMath      Subject = "math"
	SubjectPhysics   Subject = "physics"
	SubjectChemistry Subject = "chemistry"
)

// DefaultSubject is assumed for records that arrive without a subject.
const DefaultSubject = SubjectPhysics

// AllSubjects returns the subjects in unlock order.
func AllSubjects() []Subject {
	return []Subject{SubjectMath, SubjectPhysics, SubjectChemistry}
}

// DisplayName returns a human-readable name for a subject.
func (s Subject) DisplayName() string {
	switch s {
	case SubjectMath:
		return "Mathematics"
	case SubjectPhysics:
		return "Physics"
	case SubjectChemistry:
		return "Chemistry"
	default:
		return string(s)
	}
}

// Valid reports whether s is a known subject.
func (s Subject) Valid() bool {
	switch s {
	case SubjectMath, SubjectPhysics, SubjectChemistry:
		return true
	}
	return false
}

// Prerequisite returns the subject whose hard level must be passed before s
// is reachable. Math has no prerequisite.
func Prerequisite(s Subject) (Subject, bool) {
	switch s {
	case SubjectPhysics:
		return SubjectMath, true
	case SubjectChemistry:
		return SubjectPhysics, true
	}
	return "", false
}

// Level is a difficulty tier within a subject.
type Level string

const (
	LevelEasy   Level = "easy"
	LevelMedium Level = "medium"
	LevelHard   Level = "hard"
)

// Levels returns the three levels in ascending difficulty.
func Levels() [3]Level {
	return [3]Level{LevelEasy, LevelMedium, LevelHard}
}

// DisplayName returns a capitalized level name.
func (l Level) DisplayName() string {
	switch l {
	case LevelEasy:
		return "Easy"
	case LevelMedium:
		return "Medium"
	case LevelHard:
		return "Hard"
	default:
		return string(l)
	}
}

// Result is the outcome of a test-taking session.
type Result string

const (
	ResultPass    Result = "pass"
	ResultFail    Result = "fail"
	ResultPending Result = "pending"
)

// Record is one test-taking session for a student.
//
// The attempt counters are cumulative per subject; only the most recently
// created record of a subject carries authoritative values.
type Record struct {
	ID             string
	StudentID      string
	Subject        Subject
	Level          Level
	Result         Result
	AttemptsEasy   int
	AttemptsMedium int
	AttemptsHard   int
	Sequence       int64
	CreatedAt      time.Time
	ScoredAt       *time.Time
}

// Attempts returns the counter matching level.
func (r Record) Attempts(level Level) int {
	switch level {
	case LevelEasy:
		return r.AttemptsEasy
	case LevelMedium:
		return r.AttemptsMedium
	case LevelHard:
		return r.AttemptsHard
	}
	return 0
}

// NormalizeSubject maps raw subject values from ingested data onto a Subject.
// Empty and unrecognized values fall back to DefaultSubject.
func NormalizeSubject(raw string) Subject {
	s := Subject(strings.ToLower(strings.TrimSpace(raw)))
	if s.Valid() {
		return s
	}
	return DefaultSubject
}

// ParseSubject parses user input strictly.
func ParseSubject(raw string) (Subject, error) {
	s := Subject(strings.ToLower(strings.TrimSpace(raw)))
	if !s.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidSubject, raw)
	}
	return s, nil
}

// ParseLevel parses user input strictly.
func ParseLevel(raw string) (Level, error) {
	l := Level(strings.ToLower(strings.TrimSpace(raw)))
	switch l {
	case LevelEasy, LevelMedium, LevelHard:
		return l, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidLevel, raw)
}

// ParseResult parses user input strictly.
func ParseResult(raw string) (Result, error) {
	r := Result(strings.ToLower(strings.TrimSpace(raw)))
	switch r {
	case ResultPass, ResultFail, ResultPending:
		return r, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidResult, raw)
}
