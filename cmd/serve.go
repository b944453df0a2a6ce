package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/admitflow/admitflow/internal/api"
	"github.com/admitflow/admitflow/internal/session"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the progression HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := api.ConfigFromEnv()
		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			cfg.Addr = addr
		}

		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		srv := api.NewServer(cfg,
			session.NewService(st.AttemptRepo()),
			optionalReviews(ctx, st.EventRepo()),
		).WithOutput(cmd.ErrOrStderr())
		return srv.Run(ctx)
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (overrides ADMITFLOW_ADDR)")
}
