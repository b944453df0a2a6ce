package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/admitflow/admitflow/internal/attempts"
	"github.com/admitflow/admitflow/internal/progression"
	"github.com/admitflow/admitflow/internal/review"
	"github.com/admitflow/admitflow/internal/session"
)

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Generate AI review notes for a subject level",
	RunE: func(cmd *cobra.Command, args []string) error {
		student, _ := cmd.Flags().GetString("student")
		subjectFlag, _ := cmd.Flags().GetString("subject")
		levelFlag, _ := cmd.Flags().GetString("level")

		if strings.TrimSpace(student) == "" {
			return fmt.Errorf("--student is required")
		}
		subject, err := attempts.ParseSubject(subjectFlag)
		if err != nil {
			return err
		}
		level, err := attempts.ParseLevel(levelFlag)
		if err != nil {
			return err
		}

		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		reviews := optionalReviews(cmd.Context(), st.EventRepo())
		if reviews == nil {
			return fmt.Errorf("no LLM provider configured; set ADMITFLOW_LLM_PROVIDER or a provider API key")
		}

		records, err := session.NewService(st.AttemptRepo()).History(cmd.Context(), student)
		if err != nil {
			return fmt.Errorf("load history: %w", err)
		}

		input := review.BuildInput(progression.Derive(records, subject), records, level)
		notes, err := reviews.Generate(cmd.Context(), input)
		if err != nil {
			return fmt.Errorf("generate notes: %w", err)
		}
		printNotes(cmd.OutOrStdout(), notes)
		return nil
	},
}

func init() {
	reviewCmd.Flags().StringP("student", "s", "", "Student ID")
	reviewCmd.Flags().String("subject", "", "Subject (math, physics, chemistry)")
	reviewCmd.Flags().StringP("level", "l", "", "Level (easy, medium, hard)")
}

func printNotes(w io.Writer, n *review.Notes) {
	fmt.Fprintln(w, n.Title)
	fmt.Fprintln(w, strings.Repeat("─", 60))
	fmt.Fprintln(w, n.Summary)
	if len(n.KeyConcepts) > 0 {
		fmt.Fprintln(w, "\nKey concepts")
		for _, c := range n.KeyConcepts {
			fmt.Fprintf(w, "  • %s\n", c)
		}
	}
	if len(n.PracticeTips) > 0 {
		fmt.Fprintln(w, "\nPractice")
		for _, tip := range n.PracticeTips {
			fmt.Fprintf(w, "  • %s\n", tip)
		}
	}
}
