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

	"github.com/Dosada05/padel-ladder-system/config"
	"github.com/Dosada05/padel-ladder-system/db"
	"github.com/Dosada05/padel-ladder-system/handlers"
	"github.com/Dosada05/padel-ladder-system/realtime"
	"github.com/Dosada05/padel-ladder-system/repositories"
	api "github.com/Dosada05/padel-ladder-system/routes"
	"github.com/Dosada05/padel-ladder-system/services"
	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"
)

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

	// Подключение к базе данных
	dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		} else {
			logger.Info("database connection closed")
		}
	}()
	logger.Info("database connection established")

	// Websocket-хаб для realtime-событий лестницы и турнирных сеток
	wsHub := realtime.NewHub()
	go wsHub.Run()
	logger.Info("realtime hub started")

	// Инициализация репозиториев
	teamRepo := repositories.NewPostgresTeamRepository(dbConn)
	ladderRepo := repositories.NewPostgresLadderRepository(dbConn)
	rankingRepo := repositories.NewPostgresRankingRepository(dbConn)
	auditRepo := repositories.NewPostgresAuditRepository(dbConn)
	challengeRepo := repositories.NewPostgresChallengeRepository(dbConn)
	matchRepo := repositories.NewPostgresMatchRepository(dbConn)
	tournamentRepo := repositories.NewPostgresTournamentRepository(dbConn)
	participantRepo := repositories.NewPostgresParticipantRepository(dbConn)
	tournamentMatchRepo := repositories.NewPostgresTournamentMatchRepository(dbConn)
	americanoRepo := repositories.NewPostgresAmericanoRepository(dbConn)
	logger.Info("repositories initialized")

	// Инициализация сервисов
	txRunner := services.NewTxRunner(dbConn)
	notifier := realtime.NewEventNotifier(wsHub)

	teamService := services.NewTeamService(teamRepo, auditRepo, logger)
	ladderService := services.NewLadderService(ladderRepo, logger)
	rankingService := services.NewRankingService(txRunner, rankingRepo, auditRepo, logger, cfg.LadderWinPoints, cfg.LadderLossPenalty)
	challengeService := services.NewChallengeService(txRunner, challengeRepo, matchRepo, teamRepo, ladderRepo, rankingRepo, notifier, logger, cfg.ChallengeWindow)
	matchService := services.NewMatchService(txRunner, matchRepo, rankingService, notifier, logger)
	tournamentService := services.NewTournamentService(txRunner, tournamentRepo, participantRepo, tournamentMatchRepo, logger)
	americanoService := services.NewAmericanoService(txRunner, americanoRepo, logger)
	logger.Info("services initialized")

	// Планировщик: просроченные вызовы и дедлайны регистрации турниров
	go func() {
		ticker := time.NewTicker(cfg.SchedulerInterval)
		defer ticker.Stop()
		logger.Info("scheduler started", slog.Duration("interval", cfg.SchedulerInterval))

		sweep := func() {
			if expired, err := challengeService.ExpireOverdue(context.Background()); err != nil {
				logger.Error("scheduler: challenge expiry sweep failed", slog.Any("error", err))
			} else if expired > 0 {
				logger.Info("scheduler: challenges expired", slog.Int64("count", expired))
			}
			if moved, err := tournamentService.AutoUpdateStatuses(context.Background()); err != nil {
				logger.Error("scheduler: tournament status sweep failed", slog.Any("error", err))
			} else if moved > 0 {
				logger.Info("scheduler: tournaments moved to in_progress", slog.Int("count", moved))
			}
		}

		// Первый проход сразу при старте, дальше по тикеру.
		sweep()
		for range ticker.C {
			sweep()
		}
	}()

	// Инициализация обработчиков HTTP
	teamHandler := handlers.NewTeamHandler(teamService)
	ladderHandler := handlers.NewLadderHandler(ladderService)
	rankingHandler := handlers.NewRankingHandler(rankingService)
	challengeHandler := handlers.NewChallengeHandler(challengeService)
	matchHandler := handlers.NewMatchHandler(matchService)
	tournamentHandler := handlers.NewTournamentHandler(tournamentService, wsHub)
	americanoHandler := handlers.NewAmericanoHandler(americanoService)
	webSocketHandler := handlers.NewWebSocketHandler(wsHub)
	logger.Info("HTTP handlers initialized")

	// Настройка маршрутизатора
	router := chi.NewRouter()
	api.SetupRoutes(
		router,
		teamHandler,
		ladderHandler,
		rankingHandler,
		challengeHandler,
		matchHandler,
		tournamentHandler,
		americanoHandler,
		webSocketHandler,
		[]byte(cfg.JWTSecretKey),
		cfg.AdminKeyHash,
	)
	logger.Info("routes configured")

	// Настройка и запуск HTTP-сервера
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	// Ожидание сигнала завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		} else {
			logger.Info("server stopped gracefully")
		}
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancelShutdown()

		logger.Info("shutting down server", slog.Duration("timeout", 15*time.Second))
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			os.Exit(1)
		} else {
			logger.Info("server shutdown complete")
		}
	}
	logger.Info("application exited")
}
