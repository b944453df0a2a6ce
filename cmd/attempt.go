package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/admitflow/admitflow/internal/attempts"
	"github.com/admitflow/admitflow/internal/session"
)

var attemptCmd = &cobra.Command{
	Use:   "attempt",
	Short: "Start, score and list test attempts",
}

var attemptStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start (or resume) a test at a subject level",
	RunE: func(cmd *cobra.Command, args []string) error {
		in := attempts.StartInput{}
		in.StudentID, _ = cmd.Flags().GetString("student")
		in.Subject, _ = cmd.Flags().GetString("subject")
		in.Level, _ = cmd.Flags().GetString("level")

		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		started, err := session.NewService(st.AttemptRepo()).Start(cmd.Context(), in)
		var locked *session.SubjectLockedError
		switch {
		case errors.As(err, &locked):
			fmt.Fprintln(cmd.OutOrStdout(), "🔒", locked.Reason)
			return nil
		case errors.Is(err, session.ErrLevelLocked):
			fmt.Fprintln(cmd.OutOrStdout(), "🔒 Finish the previous level first.")
			return nil
		case err != nil:
			return err
		}

		verb := "Started"
		if started.Resumed {
			verb = "Resumed"
		}
		a := started.Attempt
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s test %s\n", verb, a.Subject.DisplayName(), a.Level, a.ID)
		return nil
	},
}

var attemptScoreCmd = &cobra.Command{
	Use:   "score <id> <pass|fail>",
	Short: "Record the result of a pending test",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := attempts.ParseResult(args[1])
		if err != nil {
			return err
		}

		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		rec, err := session.NewService(st.AttemptRepo()).Score(cmd.Context(), args[0], result)
		if errors.Is(err, session.ErrAlreadyScored) {
			fmt.Fprintf(cmd.OutOrStdout(), "Attempt %s was already scored.\n", args[0])
			return nil
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s: %s (%d attempt(s))\n",
			rec.Subject.DisplayName(), rec.Level, rec.Result, rec.Attempts(rec.Level))
		return nil
	},
}

var attemptListCmd = &cobra.Command{
	Use:   "list",
	Short: "List a student's attempts in creation order",
	RunE: func(cmd *cobra.Command, args []string) error {
		student, _ := cmd.Flags().GetString("student")
		if strings.TrimSpace(student) == "" {
			return fmt.Errorf("--student is required")
		}

		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		recs, err := session.NewService(st.AttemptRepo()).History(cmd.Context(), student)
		if err != nil {
			return fmt.Errorf("load history: %w", err)
		}
		if len(recs) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No attempts found.")
			return nil
		}

		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "%-36s  %-10s  %-7s  %-8s  %-5s  %-5s  %-5s  %s\n",
			"ID", "Subject", "Level", "Result", "Easy", "Med", "Hard", "Created")
		fmt.Fprintln(w, strings.Repeat("─", 110))
		for _, r := range recs {
			fmt.Fprintf(w, "%-36s  %-10s  %-7s  %-8s  %-5d  %-5d  %-5d  %s\n",
				r.ID, r.Subject, r.Level, r.Result,
				r.AttemptsEasy, r.AttemptsMedium, r.AttemptsHard,
				r.CreatedAt.Local().Format("2006-01-02 15:04:05"))
		}
		return nil
	},
}

func init() {
	attemptStartCmd.Flags().StringP("student", "s", "", "Student ID")
	attemptStartCmd.Flags().String("subject", "", "Subject (math, physics, chemistry)")
	attemptStartCmd.Flags().StringP("level", "l", "", "Level (easy, medium, hard)")
	attemptListCmd.Flags().StringP("student", "s", "", "Student ID")

	attemptCmd.AddCommand(attemptStartCmd)
	attemptCmd.AddCommand(attemptScoreCmd)
	attemptCmd.AddCommand(attemptListCmd)
}
