package cmd

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"dashtutor/internal/config"
	"dashtutor/internal/engine"
	"dashtutor/internal/httpapi"
	"dashtutor/internal/skillcache"
	"dashtutor/internal/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the tutoring engine HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfgPath, _ := cmd.Flags().GetString("config")
		cfg, err := config.Load(cfgPath)
		if err != nil {
			return err
		}
		return runServe(cmd.Context(), cfg)
	},
}

func runServe(parent context.Context, cfg config.Config) error {
	log, err := zap.NewProduction()
	if err != nil {
		return err
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	handler, err := store.Connect(ctx, cfg.Mongo, log)
	if err != nil {
		return err
	}
	defer handler.Close(context.Background())

	docs, err := handler.ListSkillDocuments(ctx)
	if err != nil {
		return err
	}
	cache, err := skillcache.Build(docs, log)
	if err != nil {
		return err
	}

	eng := engine.New(cache, handler, cfg.Tuning, log)
	srv := &http.Server{
		Addr:    cfg.HTTP.Addr,
		Handler: httpapi.New(eng, log).Router(),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("http server listening", zap.String("addr", cfg.HTTP.Addr))
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
