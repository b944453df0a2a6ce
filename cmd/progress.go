package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/admitflow/admitflow/internal/attempts"
	"github.com/admitflow/admitflow/internal/progression"
	"github.com/admitflow/admitflow/internal/session"
)

var progressCmd = &cobra.Command{
	Use:   "progress",
	Short: "Show level states and subject locks for a student",
	Long: "Show level states and subject locks for a student.\n\n" +
		"With --file, progression is derived from a JSON attempt history\n" +
		"(\"-\" reads stdin) instead of the local database.",
	RunE: func(cmd *cobra.Command, args []string) error {
		student, _ := cmd.Flags().GetString("student")
		subjectFlag, _ := cmd.Flags().GetString("subject")
		file, _ := cmd.Flags().GetString("file")
		asJSON, _ := cmd.Flags().GetBool("json")

		var subjects []attempts.Subject
		if subjectFlag != "" {
			subj, err := attempts.ParseSubject(subjectFlag)
			if err != nil {
				return err
			}
			subjects = []attempts.Subject{subj}
		} else {
			subjects = attempts.AllSubjects()
		}

		var records []attempts.Record
		switch {
		case file != "":
			recs, err := readHistoryFile(file)
			if err != nil {
				return err
			}
			records = recs
		case student != "":
			st, err := openStore(cmd)
			if err != nil {
				return err
			}
			defer st.Close()
			recs, err := session.NewService(st.AttemptRepo()).History(cmd.Context(), student)
			if err != nil {
				return fmt.Errorf("load history: %w", err)
			}
			records = recs
		default:
			return fmt.Errorf("either --student or --file is required")
		}

		out := make([]progression.Progress, 0, len(subjects))
		for _, subj := range subjects {
			out = append(out, progression.Derive(records, subj))
		}

		if asJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if len(out) == 1 {
				return enc.Encode(out[0])
			}
			return enc.Encode(out)
		}

		for i, p := range out {
			if i > 0 {
				fmt.Fprintln(cmd.OutOrStdout())
			}
			printProgress(cmd.OutOrStdout(), p)
		}
		return nil
	},
}

func init() {
	progressCmd.Flags().StringP("student", "s", "", "Student ID")
	progressCmd.Flags().String("subject", "", "Subject (math, physics, chemistry); all when omitted")
	progressCmd.Flags().StringP("file", "f", "", "Read attempt history JSON from a file instead of the database")
	progressCmd.Flags().Bool("json", false, "Print JSON")
}

func readHistoryFile(path string) ([]attempts.Record, error) {
	var r io.Reader = os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open history: %w", err)
		}
		defer f.Close()
		r = f
	}
	return attempts.DecodeHistory(r)
}

func printProgress(w io.Writer, p progression.Progress) {
	fmt.Fprintf(w, "%s  (%d/3 completed)\n", p.Subject.DisplayName(), p.Completed())
	fmt.Fprintln(w, strings.Repeat("─", 40))
	if p.Lock.IsLocked {
		fmt.Fprintf(w, "🔒 %s\n", p.Lock.Reason)
	}
	for _, ls := range p.Levels {
		fmt.Fprintf(w, "%s %-8s %-10s %d attempt(s)\n",
			ls.Status.Icon(), ls.Level.DisplayName(), ls.Status.Label(), ls.Attempts)
	}
}
