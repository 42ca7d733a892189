package config

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Config carries every tunable the monitor honors. All values come from the
// environment; prod injects them, local dev can rely on the defaults.
type Config struct {
	UseSQLite   bool
	SQLitePath  string
	DatabaseURL string

	Port    int
	LogMode string

	// Reporting timezone: daily rollups use local-time day boundaries,
	// not UTC midnight, so reports align with the business day.
	Timezone string

	RetentionDays      int
	ExpectedStoreCount int
	GenericNamePattern string
}

func Load() (*Config, error) {
	cfg := &Config{
		UseSQLite:          envBool("USE_SQLITE", true),
		SQLitePath:         envStr("SQLITE_PATH", "store_status.db"),
		DatabaseURL:        strings.TrimSpace(os.Getenv("DATABASE_URL")),
		Port:               envInt("PORT", 8090),
		LogMode:            envStr("LOG_MODE", "dev"),
		Timezone:           envStr("TIMEZONE", "Asia/Manila"),
		RetentionDays:      envInt("RETENTION_DAYS", 90),
		ExpectedStoreCount: envInt("EXPECTED_STORE_COUNT", 66),
		GenericNamePattern: envStr("GENERIC_NAME_PATTERN", `(?i)\bstore\b|^stores$|\(unknown\)|\(error\)`),
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if !c.UseSQLite && c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is not set and USE_SQLITE is false")
	}
	if c.RetentionDays < 0 {
		return fmt.Errorf("RETENTION_DAYS must be >= 0, got %d", c.RetentionDays)
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("invalid TIMEZONE %q: %w", c.Timezone, err)
	}
	if _, err := regexp.Compile(c.GenericNamePattern); err != nil {
		return fmt.Errorf("invalid GENERIC_NAME_PATTERN: %w", err)
	}
	return nil
}

// Location resolves the reporting timezone. Load has already validated it.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// GenericNameRegexp compiles the placeholder-name pattern used by the
// consistency validator.
func (c *Config) GenericNameRegexp() *regexp.Regexp {
	return regexp.MustCompile(c.GenericNamePattern)
}

func envStr(name, def string) string {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return def
	}
	return v
}

func envInt(name string, def int) int {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

func envBool(name string, def bool) bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv(name)))
	if v == "" {
		return def
	}
	return v == "true" || v == "1" || v == "yes"
}
