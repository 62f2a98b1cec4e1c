package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Addr           string
	DatabaseURL    string
	JWTSecret      string
	Environment    string
	LogLevel       string
	AllowedOrigins []string
	RunMigrations  bool
	MigrationsDir  string
	RunSeed        bool
	SeedTenantName string

	// Workforce policy knobs. These feed the policy bundle passed to the
	// leave and attendance services; they are never read as ambient state
	// inside a computation.
	WorkingDays        []time.Weekday
	StandardDailyHours float64
	HalfDayHourFactor  float64
	OverdrawPolicy     string
}

const (
	OverdrawWarn  = "warn"
	OverdrawBlock = "block"
)

func Load() Config {
	return Config{
		Addr:               getEnv("APP_ADDR", ":8080"),
		DatabaseURL:        getEnv("DATABASE_URL", ""),
		JWTSecret:          getEnv("JWT_SECRET", ""),
		Environment:        getEnv("APP_ENV", "development"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		AllowedOrigins:     getEnvList("ALLOWED_ORIGINS", []string{"*"}),
		RunMigrations:      getEnvBool("RUN_MIGRATIONS", true),
		MigrationsDir:      getEnv("MIGRATIONS_DIR", "migrations"),
		RunSeed:            getEnvBool("RUN_SEED", true),
		SeedTenantName:     getEnv("SEED_TENANT_NAME", "Default Tenant"),
		WorkingDays:        getEnvWeekdays("WORKING_DAYS", []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday}),
		StandardDailyHours: getEnvFloat("STANDARD_DAILY_HOURS", 8),
		HalfDayHourFactor:  getEnvFloat("HALF_DAY_HOUR_FACTOR", 0.5),
		OverdrawPolicy:     getEnv("OVERDRAW_POLICY", OverdrawWarn),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvFloat(key string, fallback float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvList(key string, fallback []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}

var weekdayNames = map[string]time.Weekday{
	"sun": time.Sunday, "mon": time.Monday, "tue": time.Tuesday, "wed": time.Wednesday,
	"thu": time.Thursday, "fri": time.Friday, "sat": time.Saturday,
}

func getEnvWeekdays(key string, fallback []time.Weekday) []time.Weekday {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	var out []time.Weekday
	for _, part := range strings.Split(value, ",") {
		name := strings.ToLower(strings.TrimSpace(part))
		if len(name) > 3 {
			name = name[:3]
		}
		day, ok := weekdayNames[name]
		if !ok {
			return fallback
		}
		out = append(out, day)
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.DatabaseURL) == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.Environment == "production" && strings.TrimSpace(c.JWTSecret) == "" {
		return fmt.Errorf("JWT_SECRET must be set to a strong value in production")
	}
	if len(c.WorkingDays) == 0 || len(c.WorkingDays) > 7 {
		return fmt.Errorf("WORKING_DAYS must name between 1 and 7 days")
	}
	if c.StandardDailyHours <= 0 || c.StandardDailyHours > 24 {
		return fmt.Errorf("STANDARD_DAILY_HOURS must be in (0, 24]")
	}
	if c.HalfDayHourFactor <= 0 || c.HalfDayHourFactor >= 1 {
		return fmt.Errorf("HALF_DAY_HOUR_FACTOR must be in (0, 1)")
	}
	if c.OverdrawPolicy != OverdrawWarn && c.OverdrawPolicy != OverdrawBlock {
		return fmt.Errorf("OVERDRAW_POLICY must be %q or %q", OverdrawWarn, OverdrawBlock)
	}
	return nil
}
