package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/admitflow/admitflow/internal/history"
	"github.com/admitflow/admitflow/internal/progression"
	"github.com/admitflow/admitflow/internal/session"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Replace a student's local history with the remote attempt history",
	RunE: func(cmd *cobra.Command, args []string) error {
		student, _ := cmd.Flags().GetString("student")
		if strings.TrimSpace(student) == "" {
			return fmt.Errorf("--student is required")
		}

		cfg := history.ConfigFromEnv()
		if u, _ := cmd.Flags().GetString("url"); u != "" {
			cfg.BaseURL = u
		}
		client, err := history.NewClient(cfg, nil)
		if err != nil {
			return err
		}

		records, err := client.Fetch(cmd.Context(), student)
		if err != nil {
			return fmt.Errorf("fetch history: %w", err)
		}

		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		if err := session.NewService(st.AttemptRepo()).Import(cmd.Context(), student, records); err != nil {
			return fmt.Errorf("import history: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Imported %d attempt(s) for %s.\n\n", len(records), student)
		for i, p := range progression.Overview(records) {
			if i > 0 {
				fmt.Fprintln(cmd.OutOrStdout())
			}
			printProgress(cmd.OutOrStdout(), p)
		}
		return nil
	},
}

func init() {
	syncCmd.Flags().StringP("student", "s", "", "Student ID")
	syncCmd.Flags().String("url", "", "History service base URL (overrides ADMITFLOW_HISTORY_URL)")
}
