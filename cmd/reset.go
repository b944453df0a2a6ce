package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/admitflow/admitflow/internal/session"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete a student's attempt history",
	RunE: func(cmd *cobra.Command, args []string) error {
		student, _ := cmd.Flags().GetString("student")
		if strings.TrimSpace(student) == "" {
			return fmt.Errorf("--student is required")
		}
		if yes, _ := cmd.Flags().GetBool("yes"); !yes {
			fmt.Fprintf(cmd.OutOrStdout(), "This deletes every attempt for %s. Re-run with --yes to confirm.\n", student)
			return nil
		}

		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		if err := session.NewService(st.AttemptRepo()).Import(cmd.Context(), student, nil); err != nil {
			return fmt.Errorf("reset %s: %w", student, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Reset %s.\n", student)
		return nil
	},
}

func init() {
	resetCmd.Flags().StringP("student", "s", "", "Student ID")
	resetCmd.Flags().Bool("yes", false, "Confirm deletion")
}
