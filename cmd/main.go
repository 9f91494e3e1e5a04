package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"github.com/tournio/swiss-system/config"
	"github.com/tournio/swiss-system/handlers"
	"github.com/tournio/swiss-system/pairing"
	"github.com/tournio/swiss-system/repositories"
	api "github.com/tournio/swiss-system/routes"
	"github.com/tournio/swiss-system/services"
)

const shutdownTimeout = 15 * time.Second

func main() {
	// Настройка логгера
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	// Загрузка конфигурации
	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort))

	// Инициализация WebSocket Hub
	wsHub := pairing.NewHub()
	go wsHub.Run()
	logger.Info("WebSocket hub started")

	// Репозиторий и стратегии
	tournamentRepo := repositories.NewInMemoryTournamentRepository()
	swissGenerator := pairing.NewSwissGenerator(nil)
	tieBreaker := pairing.NewLeaderTieBreaker()

	// Сервисы
	tournamentService := services.NewTournamentService(
		tournamentRepo,
		swissGenerator,
		tieBreaker,
		wsHub,
		logger,
	)
	statsService := services.NewStatsService(tournamentRepo)
	authService := services.NewAuthService(cfg.AdminEmail, cfg.AdminPasswordHash, []byte(cfg.JWTSecretKey))
	logger.Info("services initialized", slog.String("pairing", swissGenerator.GetName()))

	// Обработчики HTTP
	authHandler := handlers.NewAuthHandler(authService)
	tournamentHandler := handlers.NewTournamentHandler(tournamentService, statsService)
	webSocketHandler := handlers.NewWebSocketHandler(wsHub, tournamentService)

	// Маршрутизатор
	router := chi.NewRouter()
	api.SetupRoutes(
		router,
		authHandler,
		tournamentHandler,
		webSocketHandler,
		[]byte(cfg.JWTSecretKey),
		cfg.CORSAllowedOrigins,
	)
	logger.Info("routes configured")

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("starting server", slog.String("address", server.Addr))
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		logger.Info("shutdown signal received", slog.Duration("timeout", shutdownTimeout))
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			// Если мягкое завершение не удалось — закрываем принудительно.
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			return err
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("server error", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("application exited")
}
