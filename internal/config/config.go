package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/yukikurage/stride-league-api/internal/constants"
)

type Config struct {
	DBDriver      string
	DBHost        string
	DBPort        string
	DBUser        string
	DBPassword    string
	DBName        string
	DBSSLMode     string
	RedisHost     string
	RedisPort     string
	SessionSecret string
	GinMode       string
	Environment   string
	ServerAddr    string
	OpenAIAPIKey  string

	AllowedOrigins []string

	StreakBonusPoints   int
	StreakBonusInterval int

	EnableScheduler    bool
	DailyChallengeCron string
	StreakSweepCron    string
}

func Load() *Config {
	return &Config{
		DBDriver:      getEnv("DB_DRIVER", "postgres"),
		DBHost:        getEnv("DB_HOST", "localhost"),
		DBPort:        getEnv("DB_PORT", "5432"),
		DBUser:        getEnv("DB_USER", "stride"),
		DBPassword:    getEnv("DB_PASSWORD", "stridepassword"),
		DBName:        getEnv("DB_NAME", "stride_league"),
		DBSSLMode:     getEnv("DB_SSLMODE", "disable"),
		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		SessionSecret: getEnv("SESSION_SECRET", "default-secret-key-change-me"),
		GinMode:       getEnv("GIN_MODE", "debug"),
		Environment:   getEnv("ENVIRONMENT", "production"),
		ServerAddr:    getEnv("SERVER_ADDR", ":8080"),
		OpenAIAPIKey:  getEnv("OPENAI_API_KEY", ""),

		AllowedOrigins: splitList(getEnv("ALLOWED_ORIGINS", "http://localhost:3000")),

		StreakBonusPoints:   getEnvInt("STREAK_BONUS_POINTS", constants.DefaultStreakBonusPoints),
		StreakBonusInterval: getEnvInt("STREAK_BONUS_INTERVAL", constants.DefaultStreakBonusInterval),

		EnableScheduler:    getEnvBool("ENABLE_SCHEDULER", true),
		DailyChallengeCron: getEnv("DAILY_CHALLENGE_CRON", "0 0 * * *"),
		StreakSweepCron:    getEnv("STREAK_SWEEP_CRON", "5 0 * * *"),
	}
}

// IsDevelopment reports whether internal error details may be exposed to clients.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvBool(key string, defaultValue bool) bool {
	value, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
