package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"flashcard_service/internal/auth"
	"flashcard_service/internal/config"
	"flashcard_service/internal/handler"
	"flashcard_service/internal/quiz"
	"flashcard_service/internal/seed"
	"flashcard_service/internal/service"
	"flashcard_service/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

func main() {
	//PARSE ARGS
	var configPath string
	flag.StringVar(&configPath, "config", "", "path to the YAML config file (or CONFIG_PATH)")

	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using environment variables")
	}

	configPath = config.ResolvePath(configPath)
	if configPath == "" {
		log.Fatal("failed get config path from flags")
	}

	cfg := config.MustLoadConfig(configPath)

	//INIT LOGGER
	lgr := setupLogger(cfg.Env)
	lgr.Info("starting flashcard service", slog.String("env", cfg.Env))

	if cfg.Env == envProd {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	//INIT DB
	st, err := storage.NewPostgresStorage(ctx, cfg.DB.DbURL, cfg.DB.MaxConns)
	if err != nil {
		lgr.Error("failed to init storage", slog.Any("error", err))
		os.Exit(1)
	}
	defer st.Close()

	if err := st.RunMigrations(ctx); err != nil {
		lgr.Error("failed to apply migrations", slog.Any("error", err))
		os.Exit(1)
	}

	if cfg.SeedPath != "" {
		if _, err := seed.Seed(ctx, st, cfg.SeedPath, lgr); err != nil {
			lgr.Error("failed to seed database", slog.Any("error", err))
			os.Exit(1)
		}
	}

	tokens, err := auth.NewTokenService(cfg.JWT.Secret, cfg.JWT.TokenTTL)
	if err != nil {
		lgr.Error("failed to init token service", slog.Any("error", err))
		os.Exit(1)
	}

	registry := quiz.NewRegistry(cfg.Quiz.SessionTTL).WithMaxSessions(cfg.Quiz.MaxSessions)
	go registry.Run(ctx, cfg.Quiz.SweepInterval)

	services := service.NewServices(st, tokens, registry, lgr)
	h := handler.NewHandler(services, tokens, st, lgr)

	//INIT SERVER
	srv := &http.Server{
		Addr:         cfg.HTTPServer.Address,
		Handler:      h.InitRoutes(cfg.HTTPServer.CORSOrigins),
		ReadTimeout:  cfg.HTTPServer.ReadTimeout,
		WriteTimeout: cfg.HTTPServer.WriteTimeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		lgr.Info("http server started", slog.String("address", srv.Addr))

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			lgr.Error("http server failed", slog.Any("error", err))
			sigs <- syscall.SIGTERM
		}
	}()

	sig := <-sigs
	lgr.Info("shutting down", slog.String("signal", sig.String()))

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.HTTPServer.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		lgr.Error("failed to shut down http server", slog.Any("error", err))
	}

	lgr.Info("server stopped")
}

func setupLogger(env string) *slog.Logger {
	var log *slog.Logger

	switch env {
	case envLocal:
		log = slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envDev:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envProd:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	default:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	}
	return log
}
