package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/yungbote/focusgate-backend/internal/app"
	"github.com/yungbote/focusgate-backend/internal/platform/envutil"
	"github.com/yungbote/focusgate-backend/internal/platform/logger"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	serve := serveCmd()
	root := &cobra.Command{
		Use:          "focusgate",
		Short:        "Domain rule and content classification API",
		SilenceUsage: true,
		RunE:         serve.RunE,
	}
	root.AddCommand(serve, migrateCmd())
	return root
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API (default)",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := app.New()
			if err != nil {
				fmt.Fprintf(os.Stderr, "init app: %v\n", err)
				return err
			}
			defer a.Close()

			a.Start(ctx)
			if err := a.Run(ctx); err != nil {
				a.Log.Error("server failed", "error", err)
				return err
			}
			a.Log.Info("server stopped")
			return nil
		},
	}
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the rule tables and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := logger.New(envutil.String("LOG_MODE", "development"))
			if err != nil {
				return err
			}
			defer log.Sync()
			return app.Migrate(log)
		},
	}
}
