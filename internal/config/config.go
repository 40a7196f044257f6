package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the settings shared by the API server and leaguectl.
type Config struct {
	Port    int           `yaml:"port"`
	Env     string        `yaml:"env"`
	DB      DBConfig      `yaml:"db"`
	Limiter LimiterConfig `yaml:"limiter"`
	SMTP    SMTPConfig    `yaml:"smtp"`
	CORS    CORSConfig    `yaml:"cors"`
}

type DBConfig struct {
	DSN          string        `yaml:"dsn"`
	MaxOpenConns int           `yaml:"max_open_conns"`
	MaxIdleConns int           `yaml:"max_idle_conns"`
	MaxIdleTime  time.Duration `yaml:"max_idle_time"`
}

type LimiterConfig struct {
	RPS     float64 `yaml:"rps"`
	Burst   int     `yaml:"burst"`
	Enabled bool    `yaml:"enabled"`
}

type SMTPConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Sender   string `yaml:"sender"`
}

type CORSConfig struct {
	TrustedOrigins []string `yaml:"trusted_origins"`
}

func Default() *Config {
	return &Config{
		Port: 8008,
		Env:  "development",
		DB: DBConfig{
			MaxOpenConns: 25,
			MaxIdleConns: 25,
			MaxIdleTime:  15 * time.Minute,
		},
		Limiter: LimiterConfig{RPS: 2, Burst: 4, Enabled: true},
		SMTP: SMTPConfig{
			Host:   "localhost",
			Port:   2525,
			Sender: "Bowling League <no-reply@bowling-league.local>",
		},
	}
}

// LoadConfig reads the YAML file over the defaults. A missing file is not an
// error: the defaults are used. Environment variables win over both.
func LoadConfig(filename string) (*Config, error) {
	cfg := Default()

	if filename != "" {
		data, err := os.ReadFile(filename)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to unmarshal config: %w", err)
			}
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (cfg *Config) applyEnv() error {
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.DB.DSN = v
	}
	if v := os.Getenv("ENV"); v != "" {
		cfg.Env = v
	}
	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid PORT value: %w", err)
		}
		cfg.Port = port
	}
	if v := os.Getenv("SMTP_HOST"); v != "" {
		cfg.SMTP.Host = v
	}
	if v := os.Getenv("SMTP_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid SMTP_PORT value: %w", err)
		}
		cfg.SMTP.Port = port
	}
	if v := os.Getenv("SMTP_USERNAME"); v != "" {
		cfg.SMTP.Username = v
	}
	if v := os.Getenv("SMTP_PASSWORD"); v != "" {
		cfg.SMTP.Password = v
	}
	if v := os.Getenv("SMTP_SENDER"); v != "" {
		cfg.SMTP.Sender = v
	}
	if v := os.Getenv("CORS_TRUSTED_ORIGINS"); v != "" {
		cfg.CORS.TrustedOrigins = strings.Fields(v)
	}
	if v := os.Getenv("LIMITER_ENABLED"); v != "" {
		cfg.Limiter.Enabled = v == "true"
	}
	return nil
}

// Validate reports settings the server cannot start with.
func (cfg *Config) Validate() error {
	var problems []string
	if cfg.DB.DSN == "" {
		problems = append(problems, "db.dsn (or DATABASE_URL) must be set")
	}
	if cfg.Port < 1 || cfg.Port > 65535 {
		problems = append(problems, "port must be between 1 and 65535")
	}
	if slices.Contains(cfg.CORS.TrustedOrigins, "*") {
		problems = append(problems, `cors.trusted_origins cannot contain "*" with authorization headers`)
	}
	if cfg.Limiter.Enabled && (cfg.Limiter.RPS <= 0 || cfg.Limiter.Burst < 1) {
		problems = append(problems, "limiter.rps and limiter.burst must be positive when enabled")
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid config: %s", strings.Join(problems, "; "))
	}
	return nil
}
