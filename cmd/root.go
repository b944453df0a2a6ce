package cmd

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/admitflow/admitflow/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "admitflow",
	Short: "Admission test practice with level-by-level progression",
	Long: "AdmitFlow tracks a student's practice tests across Mathematics, Physics and Chemistry.\n" +
		"Each subject has easy, medium and hard levels that unlock in order.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load .env: %w", err)
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		student, _ := cmd.Flags().GetString("student")
		return runApp(cmd, student)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides ADMITFLOW_DB env var)")
	rootCmd.Flags().StringP("student", "s", "", "Student ID (skips the welcome screen)")

	rootCmd.AddCommand(browseCmd)
	rootCmd.AddCommand(progressCmd)
	rootCmd.AddCommand(attemptCmd)
	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(studentsCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(reviewCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then ADMITFLOW_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}

// openStore resolves the database path and opens the store.
func openStore(cmd *cobra.Command) (*store.Store, error) {
	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return st, nil
}
