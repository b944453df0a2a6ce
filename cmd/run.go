package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/admitflow/admitflow/internal/app"
	"github.com/admitflow/admitflow/internal/llm"
	"github.com/admitflow/admitflow/internal/review"
	"github.com/admitflow/admitflow/internal/screens/level"
	"github.com/admitflow/admitflow/internal/session"
	"github.com/admitflow/admitflow/internal/store"
)

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Open the subject browser for a student",
	RunE: func(cmd *cobra.Command, args []string) error {
		student, _ := cmd.Flags().GetString("student")
		return runApp(cmd, student)
	},
}

func init() {
	browseCmd.Flags().StringP("student", "s", "", "Student ID")
}

// runApp opens the store, builds dependencies, and launches the TUI.
func runApp(cmd *cobra.Command, student string) error {
	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	deps := app.Deps{
		Services: level.Services{
			Sessions: session.NewService(st.AttemptRepo()),
			Reviews:  optionalReviews(cmd.Context(), st.EventRepo()),
		},
		StudentID: student,
	}
	return app.Run(deps)
}

// optionalReviews builds the review notes service when an LLM provider is
// configured and returns nil otherwise.
func optionalReviews(ctx context.Context, events store.EventRepo) *review.Service {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, ok := llm.ResolveConfig()
	if !ok {
		return nil
	}
	provider, err := llm.NewProvider(ctx, cfg, events)
	if err != nil {
		fmt.Fprintln(os.Stderr, "LLM provider not configured:", err)
		fmt.Fprintln(os.Stderr, "Review notes will be unavailable.")
		return nil
	}
	return review.NewService(provider, review.DefaultConfig())
}
