package progression

import "github.com/admitflow/admitflow/internal/attempts"

// Icon returns the display icon for a level status.
func (s Status) Icon() string {
	switch s {
	case StatusLocked:
		return "🔒"
	case StatusCurrent:
		return "📝"
	case StatusCompleted:
		return "✅"
	default:
		return "?"
	}
}

// Label returns the display label for a level status.
func (s Status) Label() string {
	switch s {
	case StatusLocked:
		return "Locked"
	case StatusCurrent:
		return "Current"
	case StatusCompleted:
		return "Completed"
	default:
		return "Unknown"
	}
}

// Reachable reports whether the student may start a test at this level.
func (l LevelState) Reachable() bool {
	return l.Status != StatusLocked
}

// Level returns the state for level, or false if level is unknown.
func (p Progress) Level(level attempts.Level) (LevelState, bool) {
	for _, ls := range p.Levels {
		if ls.Level == level {
			return ls, true
		}
	}
	return LevelState{}, false
}

// Completed returns the number of completed levels.
func (p Progress) Completed() int {
	n := 0
	for _, ls := range p.Levels {
		if ls.Status == StatusCompleted {
			n++
		}
	}
	return n
}

// Percent returns the completed fraction of the subject in [0, 1].
func (p Progress) Percent() float64 {
	return float64(p.Completed()) / float64(len(p.Levels))
}

// Next returns the first reachable level that is not yet completed.
func (p Progress) Next() (LevelState, bool) {
	for _, ls := range p.Levels {
		if ls.Status == StatusCurrent {
			return ls, true
		}
	}
	return LevelState{}, false
}
