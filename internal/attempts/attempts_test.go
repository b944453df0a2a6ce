package attempts

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeSubject(t *testing.T) {
	tests := []struct {
		raw  string
		want Subject
	}{
		{"math", SubjectMath},
		{"  Chemistry ", SubjectChemistry},
		{"physics", SubjectPhysics},
		{"", SubjectPhysics},
		{"biology", SubjectPhysics},
	}
	for _, tt := range tests {
		if got := NormalizeSubject(tt.raw); got != tt.want {
			t.Errorf("NormalizeSubject(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestParseSubjectRejectsUnknown(t *testing.T) {
	_, err := ParseSubject("biology")
	if !errors.Is(err, ErrInvalidSubject) {
		t.Fatalf("expected ErrInvalidSubject, got %v", err)
	}
	s, err := ParseSubject("MATH")
	require.NoError(t, err)
	assert.Equal(t, SubjectMath, s)
}

func TestParseLevelAndResult(t *testing.T) {
	l, err := ParseLevel("Hard")
	require.NoError(t, err)
	assert.Equal(t, LevelHard, l)

	_, err = ParseLevel("expert")
	assert.ErrorIs(t, err, ErrInvalidLevel)

	r, err := ParseResult("pass")
	require.NoError(t, err)
	assert.Equal(t, ResultPass, r)

	_, err = ParseResult("passed")
	assert.ErrorIs(t, err, ErrInvalidResult)
}

func TestPrerequisite(t *testing.T) {
	_, ok := Prerequisite(SubjectMath)
	assert.False(t, ok)

	p, ok := Prerequisite(SubjectPhysics)
	assert.True(t, ok)
	assert.Equal(t, SubjectMath, p)

	p, ok = Prerequisite(SubjectChemistry)
	assert.True(t, ok)
	assert.Equal(t, SubjectPhysics, p)
}

func TestRecordAttempts(t *testing.T) {
	r := Record{AttemptsEasy: 1, AttemptsMedium: 2, AttemptsHard: 3}
	assert.Equal(t, 1, r.Attempts(LevelEasy))
	assert.Equal(t, 2, r.Attempts(LevelMedium))
	assert.Equal(t, 3, r.Attempts(LevelHard))
	assert.Equal(t, 0, r.Attempts(Level("bogus")))
}

func TestDecodeHistoryNormalizes(t *testing.T) {
	body := `[
		{"subject": "math", "level": "hard", "result": "pass", "attempts_easy": 2, "attempts_medium": 1, "attempts_hard": 1, "created_at": "2024-03-01T10:00:00Z"},
		{"subject": null, "level": "Easy", "result": "pending", "created_at": "2024-03-02T09:30:00.123456+00:00"},
		{"level": "medium", "result": "fail", "attempts_medium": -4, "created_at": "not a time"}
	]`

	records, err := DecodeHistory(strings.NewReader(body))
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, SubjectMath, records[0].Subject)
	assert.Equal(t, LevelHard, records[0].Level)
	assert.Equal(t, ResultPass, records[0].Result)
	assert.Equal(t, 2, records[0].AttemptsEasy)
	assert.Equal(t, time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC), records[0].CreatedAt)
	assert.Equal(t, int64(1), records[0].Sequence)

	assert.Equal(t, SubjectPhysics, records[1].Subject, "null subject defaults to physics")
	assert.Equal(t, LevelEasy, records[1].Level)
	assert.Equal(t, ResultPending, records[1].Result)
	assert.Equal(t, 0, records[1].AttemptsEasy)
	assert.Equal(t, 2024, records[1].CreatedAt.Year())

	assert.Equal(t, SubjectPhysics, records[2].Subject, "missing subject defaults to physics")
	assert.Equal(t, 0, records[2].AttemptsMedium, "negative counters clamp to zero")
	assert.True(t, records[2].CreatedAt.IsZero())
}

func TestDecodeHistoryRejectsMalformedJSON(t *testing.T) {
	_, err := DecodeHistory(strings.NewReader(`{"subject": "math"}`))
	require.Error(t, err)
}

func TestToHistoryRoundTripsSubject(t *testing.T) {
	created := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	items := ToHistory([]Record{{
		Subject:      SubjectChemistry,
		Level:        LevelMedium,
		Result:       ResultFail,
		AttemptsHard: 4,
		CreatedAt:    created,
	}})
	require.Len(t, items, 1)
	back := FromHistory(items)
	assert.Equal(t, SubjectChemistry, back[0].Subject)
	assert.Equal(t, 4, back[0].AttemptsHard)
	assert.Equal(t, created, back[0].CreatedAt)
}

func TestStartInputValidate(t *testing.T) {
	ok := StartInput{StudentID: "s-1", Subject: "math", Level: "easy"}
	require.NoError(t, ok.Validate())

	err := StartInput{Subject: "biology", Level: "easy"}.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "StudentID is required")
	assert.Contains(t, err.Error(), "Subject must be one of")
	assert.ErrorIs(t, err, ErrInvalidInput)
}
