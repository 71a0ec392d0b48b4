package main

// @title           Statute Core API
// @version         1.0
// @description     Reconstructs statutes as they read on any date and compares versions section by section.

// @contact.name   Custodia Labs
// @contact.url    https://github.com/custodia-labs/statute-core/issues

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:8080
// @BasePath  /api/v1
// @schemes   http https

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// config is read from the environment; flags override it
type config struct {
	DatabaseURL       string
	DBMaxOpenConns    int
	DBMaxIdleConns    int
	DBConnMaxLifetime time.Duration
	DBConnMaxIdleTime time.Duration
	RedisURL          string
	Port              int

	VersionTTL         time.Duration
	DiffTTL            time.Duration
	TimelineTTL        time.Duration
	CacheMaxEntries    int
	PrewarmConcurrency int
	ReferenceTimezone  string

	Bundles   []string
	LogLevel  string
	LogFormat string
}

func loadConfig() *config {
	return &config{
		DatabaseURL:        getEnv("DATABASE_URL", ""),
		DBMaxOpenConns:     getEnvInt("DB_MAX_OPEN_CONNS", 25),
		DBMaxIdleConns:     getEnvInt("DB_MAX_IDLE_CONNS", 5),
		DBConnMaxLifetime:  time.Duration(getEnvInt("DB_CONN_MAX_LIFETIME_SEC", 300)) * time.Second,
		DBConnMaxIdleTime:  time.Duration(getEnvInt("DB_CONN_MAX_IDLE_SEC", 60)) * time.Second,
		RedisURL:           getEnv("REDIS_URL", ""),
		Port:               getEnvInt("PORT", 8080),
		VersionTTL:         time.Duration(getEnvInt("CACHE_VERSION_TTL_SEC", 86400)) * time.Second,
		DiffTTL:            time.Duration(getEnvInt("CACHE_DIFF_TTL_SEC", 3600)) * time.Second,
		TimelineTTL:        time.Duration(getEnvInt("CACHE_TIMELINE_TTL_SEC", 86400)) * time.Second,
		CacheMaxEntries:    getEnvInt("CACHE_MAX_ENTRIES", 500),
		PrewarmConcurrency: getEnvInt("PREWARM_CONCURRENCY", 4),
		ReferenceTimezone:  getEnv("REFERENCE_TIMEZONE", "Europe/Stockholm"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		LogFormat:          getEnv("LOG_FORMAT", "text"),
	}
}

func newRootCmd() *cobra.Command {
	cfg := loadConfig()

	root := &cobra.Command{
		Use:           "statute-core",
		Short:         "Statute version reconstruction and diff service",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger(cmd.ErrOrStderr(), cfg.LogLevel, cfg.LogFormat)
			if err != nil {
				return err
			}
			slog.SetDefault(logger)
			return nil
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&cfg.DatabaseURL, "database-url", cfg.DatabaseURL, "PostgreSQL connection string (DATABASE_URL)")
	pf.StringVar(&cfg.RedisURL, "redis-url", cfg.RedisURL, "Redis URL for the shared cache and locks (REDIS_URL)")
	pf.StringSliceVar(&cfg.Bundles, "bundle", nil, "YAML statute bundle to serve instead of PostgreSQL (repeatable)")
	pf.StringVar(&cfg.ReferenceTimezone, "timezone", cfg.ReferenceTimezone, "IANA zone whose calendar day decides which amendments are in force (REFERENCE_TIMEZONE)")
	pf.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "debug, info, warn or error (LOG_LEVEL)")
	pf.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "text or json (LOG_FORMAT)")

	root.AddCommand(
		newServeCmd(cfg),
		newSeedCmd(cfg),
		newPrewarmCmd(cfg),
		newVersionCmd(cfg),
		newDiffCmd(cfg),
	)
	return root
}

func newLogger(w io.Writer, level, format string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q", level)
	}
	opts := &slog.HandlerOptions{Level: lvl}

	switch strings.ToLower(format) {
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	case "text", "":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	}
	return nil, fmt.Errorf("invalid log format %q", format)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		var result int
		if _, err := fmt.Sscanf(value, "%d", &result); err == nil {
			return result
		}
	}
	return defaultValue
}
