package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config хранит все конфигурационные параметры приложения.
type Config struct {
	DatabaseURL  string
	ServerPort   int
	JWTSecretKey string
	AdminKeyHash string

	ChallengeWindow   time.Duration
	SchedulerInterval time.Duration
	LadderWinPoints   int
	LadderLossPenalty int
}

// Load загружает конфигурацию из переменных окружения.
// Опционально подгружает .env файл (полезно для локальной разработки).
func Load() (*Config, error) {
	_ = godotenv.Load()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is not set")
	}

	jwtKey := os.Getenv("JWT_SECRET_KEY")
	if jwtKey == "" {
		return nil, fmt.Errorf("JWT_SECRET_KEY environment variable is not set")
	}

	adminKeyHash := os.Getenv("ADMIN_KEY_HASH")
	if adminKeyHash == "" {
		return nil, fmt.Errorf("ADMIN_KEY_HASH environment variable is not set")
	}

	port, err := intEnv("SERVER_PORT", 8080)
	if err != nil {
		return nil, err
	}
	if port <= 0 || port > 65535 {
		return nil, fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", port)
	}

	challengeWindowDays, err := intEnv("CHALLENGE_WINDOW_DAYS", 7)
	if err != nil {
		return nil, err
	}
	if challengeWindowDays <= 0 {
		return nil, fmt.Errorf("CHALLENGE_WINDOW_DAYS must be positive, got %d", challengeWindowDays)
	}

	schedulerSeconds, err := intEnv("SCHEDULER_INTERVAL_SECONDS", 60)
	if err != nil {
		return nil, err
	}
	if schedulerSeconds <= 0 {
		return nil, fmt.Errorf("SCHEDULER_INTERVAL_SECONDS must be positive, got %d", schedulerSeconds)
	}

	winPoints, err := intEnv("LADDER_WIN_POINTS", 25)
	if err != nil {
		return nil, err
	}
	lossPenalty, err := intEnv("LADDER_LOSS_PENALTY", 10)
	if err != nil {
		return nil, err
	}
	if winPoints < 0 || lossPenalty < 0 {
		return nil, fmt.Errorf("ladder point values must not be negative")
	}

	cfg := &Config{
		DatabaseURL:       dbURL,
		ServerPort:        port,
		JWTSecretKey:      jwtKey,
		AdminKeyHash:      adminKeyHash,
		ChallengeWindow:   time.Duration(challengeWindowDays) * 24 * time.Hour,
		SchedulerInterval: time.Duration(schedulerSeconds) * time.Second,
		LadderWinPoints:   winPoints,
		LadderLossPenalty: lossPenalty,
	}

	return cfg, nil
}

func intEnv(name string, def int) (int, error) {
	raw := os.Getenv(name)
	if raw == "" {
		return def, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s environment variable: %w", name, err)
	}
	return value, nil
}
