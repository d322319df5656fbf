package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"cytodiag/db"
	qhttp "cytodiag/http"
	"cytodiag/logger"
	"cytodiag/ml"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the dashboard HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd)
	},
}

func init() {
	serveCmd.Flags().Int("port", 0, "Listen port (overrides http.port)")
}

func runServe(cmd *cobra.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if port, _ := cmd.Flags().GetInt("port"); port > 0 {
		cfg.Http.Port = port
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		return err
	}
	defer log.Sync()

	p, err := buildPipeline(cfg, log)
	if err != nil {
		return err
	}
	cached, err := ml.NewCachedPredictor(p.predictor, cfg.Cache.Size)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := db.Open(p.table.Schema())
	if err != nil {
		return fmt.Errorf("open summary store: %w", err)
	}
	defer store.Close()
	if err := store.LoadTable(ctx, p.table); err != nil {
		return fmt.Errorf("load summary store: %w", err)
	}

	app := &qhttp.App{
		Collector:  p.collector,
		Normalizer: p.normalizer,
		Predictor:  cached,
		Store:      store,
		Locale:     cfg.Locale.Default,
		Logger:     log,
	}
	server := qhttp.NewServer(qhttp.ServerConfig{
		Port:           cfg.Http.Port,
		Timeout:        cfg.Http.Timeout,
		AllowedOrigins: cfg.Http.AllowedOrigins,
	}, app)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	log.Info("shutdown requested")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Stop(shutdownCtx); err != nil {
		log.Error("shutdown", zap.Error(err))
		return err
	}
	log.Info("exiting")
	return nil
}
