package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/linusc17/fitness-planner/internal/api"
	"github.com/linusc17/fitness-planner/internal/auth"
	"github.com/linusc17/fitness-planner/internal/config"
	"github.com/linusc17/fitness-planner/internal/generator"
	"github.com/linusc17/fitness-planner/internal/logging"
	"github.com/linusc17/fitness-planner/internal/metrics"
	"github.com/linusc17/fitness-planner/internal/planner"
	"github.com/linusc17/fitness-planner/internal/storage"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the planner HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig(configPath)
		if err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		logger, err := logging.New(cfg.Logging)
		if err != nil {
			return err
		}
		defer logger.Sync()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return serve(ctx, cfg, logger)
	},
}

func serve(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	st, err := storage.Open(cfg.DB.ConnectionString, cfg.DB.AuthToken, cfg.DB.Timeout.Duration)
	if err != nil {
		return err
	}
	defer st.Close()

	model, err := generator.NewGemini(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model)
	if err != nil {
		return err
	}
	gen := generator.New(model, cfg.Gemini.Timeout.Duration, logger.Named("generator"))
	logger.Info("Using generation model",
		zap.String("model", model.Name()),
		zap.Duration("timeout", cfg.Gemini.Timeout.Duration))

	sessions := auth.NewSessions(auth.NewRedisClient(cfg.Redis), cfg.Redis.SessionTTL.Duration)
	defer sessions.Close()
	if err := sessions.Ping(ctx); err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg)

	svc := planner.New(gen, st, logger.Named("planner"), m)
	handler := api.NewServer(svc, st, sessions, logger.Named("api"), m).Handler(cfg.Server.AllowedOrigins)

	servers := []*http.Server{api.NewHTTPServer(cfg.Server, handler)}
	if cfg.Metrics.Enabled {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
		servers = append(servers, &http.Server{
			Addr:              cfg.Metrics.Addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		})
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, srv := range servers {
		g.Go(func() error {
			logger.Info("Listening", zap.String("addr", srv.Addr))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("server on %s: %w", srv.Addr, err)
			}
			return nil
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		var errs []error
		for _, srv := range servers {
			errs = append(errs, srv.Shutdown(shutdownCtx))
		}
		return errors.Join(errs...)
	})

	return g.Wait()
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
