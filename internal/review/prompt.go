package review

import (
	"fmt"
	"strings"

	"github.com/admitflow/admitflow/internal/attempts"
)

const notesSystemPrompt = `You are a focused tutor preparing a student for a university admission test. Write short, practical review notes for one subject at one difficulty level.`

var levelFocus = map[attempts.Level]string{
	attempts.LevelEasy:   "core definitions and single-step problems",
	attempts.LevelMedium: "multi-step problems that combine two or three ideas",
	attempts.LevelHard:   "exam-style problems under time pressure with tricky edge cases",
}

func buildNotesUserMessage(input Input) string {
	var b strings.Builder

	level := input.State.Level
	b.WriteString(fmt.Sprintf("Subject: %s\n", input.Subject.DisplayName()))
	b.WriteString(fmt.Sprintf("Level: %s (%s)\n", level.DisplayName(), levelFocus[level]))
	b.WriteString(fmt.Sprintf("Status: %s\n", input.State.Status.Label()))
	b.WriteString(fmt.Sprintf("Attempts so far: %d\n", input.State.Attempts))

	b.WriteString("\nRecent Results:\n")
	if len(input.Recent) == 0 {
		b.WriteString("None\n")
	} else {
		for _, r := range input.Recent {
			when := "unknown date"
			if !r.CreatedAt.IsZero() && r.CreatedAt.Unix() > 0 {
				when = r.CreatedAt.Format("2006-01-02")
			}
			b.WriteString(fmt.Sprintf("- %s: %s\n", when, r.Result))
		}
	}

	b.WriteString(`
Instructions:
1. Summarize what this level covers and where the student stands, based on the results above.
2. List the key concepts the student should revise before the next attempt.
3. Give concrete practice tips. If the student keeps failing, suggest smaller steps; if they passed, suggest how to prepare for the next level.
4. Use plain ASCII text. No LaTeX.`)

	return b.String()
}
