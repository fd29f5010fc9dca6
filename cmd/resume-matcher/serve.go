package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"alfredoptarigan/resume-matcher/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API and the matcher form",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return serve(cmd)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringP("port", "p", "", "port to listen on (overrides server.port)")
}

func serve(cmd *cobra.Command) error {
	cfg, log, err := setup(cmd)
	if err != nil {
		return err
	}
	defer log.Sync()

	if port, _ := cmd.Flags().GetString("port"); port != "" {
		cfg.Server.Port = port
	}

	c, err := wire(cfg, log)
	if err != nil {
		log.Error("initializing services", zap.Error(err))
		return err
	}

	app := server.New(cfg, server.Services{
		Matcher: c.matcher,
		Pool:    c.pool,
		Report:  c.report,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info("starting the resume-matcher",
		zap.String("version", version),
		zap.String("env", cfg.Server.Env),
		zap.Bool("persistent_pool", c.persistent),
	)

	if err := server.Run(ctx, app, cfg.Server.Port, log); err != nil {
		log.Error("server stopped", zap.Error(err))
		return err
	}

	return nil
}
