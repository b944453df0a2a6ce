package cmd

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var studentsCmd = &cobra.Command{
	Use:   "students",
	Short: "List students with recorded attempts",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		students, err := st.AttemptRepo().Students(cmd.Context())
		if err != nil {
			return fmt.Errorf("list students: %w", err)
		}
		if len(students) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No students yet.")
			return nil
		}

		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "%-36s  %8s  %s\n", "Student", "Attempts", "Last seen")
		fmt.Fprintln(w, strings.Repeat("─", 64))
		for _, s := range students {
			last := "never"
			if !s.LastSeen.IsZero() {
				last = humanize.Time(s.LastSeen)
			}
			fmt.Fprintf(w, "%-36s  %8s  %s\n", s.StudentID, humanize.Comma(int64(s.Attempts)), last)
		}
		return nil
	},
}
