package session

import (
	"errors"
	"fmt"

	"github.com/admitflow/admitflow/internal/attempts"
)

var (
	// ErrSubjectLocked is matched by every *SubjectLockedError.
	ErrSubjectLocked = errors.New("subject is locked")

	// ErrLevelLocked is returned when a test is started on a locked level.
	ErrLevelLocked = errors.New("level is locked")

	// ErrAlreadyScored is returned when scoring an attempt that is not pending.
	ErrAlreadyScored = errors.New("attempt already scored")
)

// SubjectLockedError carries the unlock hint shown to the student.
type SubjectLockedError struct {
	Subject attempts.Subject
	Reason  string
}

func (e *SubjectLockedError) Error() string {
	return fmt.Sprintf("%s is locked: %s", e.Subject.DisplayName(), e.Reason)
}

func (e *SubjectLockedError) Unwrap() error { return ErrSubjectLocked }
