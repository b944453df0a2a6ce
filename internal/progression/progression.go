// Package progression derives per-level display state for a student's
// subject from their attempt history.
package progression

import "github.com/admitflow/admitflow/internal/attempts"

// Lock reasons shown when a subject's prerequisite is not yet met.
const (
	ReasonPhysicsLocked   = "Complete Mathematics (Hard Level) to unlock Physics."
	ReasonChemistryLocked = "Complete Physics (Hard Level) to unlock Chemistry."
)

// Status is the display state of a level.
type Status string

const (
	StatusLocked    Status = "locked"
	StatusCurrent   Status = "current"
	StatusCompleted Status = "completed"
)

// LevelState is the derived state of one level within a subject.
type LevelState struct {
	Level    attempts.Level `json:"level"`
	Status   Status         `json:"status"`
	Attempts int            `json:"attempts"`
}

// SubjectLock reports whether the selected subject is gated by an unmet
// prerequisite. Reason is empty when the subject is open.
type SubjectLock struct {
	IsLocked bool   `json:"is_locked"`
	Reason   string `json:"reason"`
}

// Progress is the derived state for one subject: easy, medium and hard in
// that order, plus the subject lock.
type Progress struct {
	Subject attempts.Subject `json:"subject"`
	Levels  [3]LevelState    `json:"levels"`
	Lock    SubjectLock      `json:"lock"`
}

// flags collects the pass/pending scan of one subject's records.
type flags struct {
	passed  map[attempts.Level]bool
	pending map[attempts.Level]bool
	latest  *attempts.Record
}

// Derive computes the progression state of selected from records.
// It never fails and never mutates records.
func Derive(records []attempts.Record, selected attempts.Subject) Progress {
	if !selected.Valid() {
		selected = attempts.NormalizeSubject(string(selected))
	}

	lock := subjectLock(records, selected)
	f := scan(records, selected)

	var counters attempts.Record
	if f.latest != nil {
		counters = *f.latest
	}

	p := Progress{Subject: selected, Lock: lock}
	for i, level := range attempts.Levels() {
		p.Levels[i] = LevelState{
			Level:    level,
			Status:   levelStatus(level, f, lock.IsLocked),
			Attempts: counters.Attempts(level),
		}
	}
	return p
}

// Overview derives progress for every subject in unlock order.
func Overview(records []attempts.Record) []Progress {
	subjects := attempts.AllSubjects()
	out := make([]Progress, 0, len(subjects))
	for _, s := range subjects {
		out = append(out, Derive(records, s))
	}
	return out
}

func subjectLock(records []attempts.Record, selected attempts.Subject) SubjectLock {
	prereq, ok := attempts.Prerequisite(selected)
	if !ok || hardPassed(records, prereq) {
		return SubjectLock{}
	}
	switch selected {
	case attempts.SubjectPhysics:
		return SubjectLock{IsLocked: true, Reason: ReasonPhysicsLocked}
	case attempts.SubjectChemistry:
		return SubjectLock{IsLocked: true, Reason: ReasonChemistryLocked}
	}
	return SubjectLock{}
}

func hardPassed(records []attempts.Record, subject attempts.Subject) bool {
	for _, r := range records {
		if recordSubject(r) == subject && r.Level == attempts.LevelHard && r.Result == attempts.ResultPass {
			return true
		}
	}
	return false
}

func scan(records []attempts.Record, subject attempts.Subject) flags {
	f := flags{
		passed:  make(map[attempts.Level]bool, 3),
		pending: make(map[attempts.Level]bool, 3),
	}
	for i := range records {
		r := &records[i]
		if recordSubject(*r) != subject {
			continue
		}
		switch r.Result {
		case attempts.ResultPass:
			f.passed[r.Level] = true
		case attempts.ResultPending:
			f.pending[r.Level] = true
		}
		if f.latest == nil || !createdBefore(r, f.latest) {
			f.latest = r
		}
	}
	return f
}

// recordSubject reads a record's subject the way history decoding does:
// an absent or unknown value counts as physics.
func recordSubject(r attempts.Record) attempts.Subject {
	return attempts.NormalizeSubject(string(r.Subject))
}

// createdBefore reports whether a was created strictly before b. Equal
// timestamps fall back to the sequence number; a full tie is not "before",
// so the later record in input order wins.
func createdBefore(a, b *attempts.Record) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.Before(b.CreatedAt)
	}
	return a.Sequence < b.Sequence
}

func levelStatus(level attempts.Level, f flags, subjectLocked bool) Status {
	if subjectLocked {
		return StatusLocked
	}
	if f.passed[level] {
		return StatusCompleted
	}
	switch level {
	case attempts.LevelEasy:
		return StatusCurrent
	case attempts.LevelMedium:
		if f.passed[attempts.LevelEasy] || f.pending[attempts.LevelMedium] {
			return StatusCurrent
		}
	case attempts.LevelHard:
		if f.passed[attempts.LevelMedium] || f.pending[attempts.LevelHard] {
			return StatusCurrent
		}
	}
	return StatusLocked
}
