package review

import (
	"github.com/admitflow/admitflow/internal/attempts"
	"github.com/admitflow/admitflow/internal/progression"
)

// Notes are AI-generated study notes for one subject level.
type Notes struct {
	Subject      attempts.Subject `json:"subject"`
	Level        attempts.Level   `json:"level"`
	Title        string           `json:"title"`
	Summary      string           `json:"summary"`
	KeyConcepts  []string         `json:"key_concepts"`
	PracticeTips []string         `json:"practice_tips"`
}

// Input holds the context needed to generate review notes.
type Input struct {
	Subject attempts.Subject
	State   progression.LevelState
	// Recent holds the latest attempts at this subject and level, oldest first.
	Recent []attempts.Record
}

// MaxRecent is the number of recent attempts included in a prompt.
const MaxRecent = 5

// BuildInput selects the context for level from a student's history.
func BuildInput(p progression.Progress, records []attempts.Record, level attempts.Level) Input {
	state, _ := p.Level(level)
	var recent []attempts.Record
	for _, r := range records {
		if r.Subject == p.Subject && r.Level == level {
			recent = append(recent, r)
		}
	}
	if len(recent) > MaxRecent {
		recent = recent[len(recent)-MaxRecent:]
	}
	return Input{Subject: p.Subject, State: state, Recent: recent}
}
