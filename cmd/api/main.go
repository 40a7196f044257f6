package main

import (
	"context"
	"database/sql"
	"expvar"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"strings"
	"sync"
	"time"

	"BowlingLeagueApi/internal/config"
	"BowlingLeagueApi/internal/data"
	"BowlingLeagueApi/internal/gamehub"
	"BowlingLeagueApi/internal/mailer"
	"BowlingLeagueApi/internal/scoresheet"
	"BowlingLeagueApi/internal/scoring"

	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const version = "1.0.0"

type application struct {
	config      *config.Config
	logger      *slog.Logger
	models      data.Models
	mailer      *mailer.Mailer
	matches     *scoring.MatchService
	rolls       *scoring.RollService
	live        *gamehub.Registry
	sheets      *scoresheet.Factory
	registry    *prometheus.Registry
	httpMetrics *httpMetrics
	wg          sync.WaitGroup
}

func main() {
	configFile := flag.String("config", "config.yaml", "Path to the YAML config file")

	// Explicit flags win over the config file and environment.
	port := flag.Int("port", 0, "API server port")
	env := flag.String("env", "", "Environment (development|staging|production)")
	dsn := flag.String("db-dsn", "", "PostgreSQL DSN")
	maxOpenConns := flag.Int("db-max-open-conns", 0, "PostgreSQL max open connections")
	maxIdleConns := flag.Int("db-max-idle-conns", 0, "PostgreSQL max idle connections")
	maxIdleTime := flag.Duration("db-max-idle-time", 0, "PostgreSQL max connection idle time")
	limiterRPS := flag.Float64("limiter-rps", 0, "Rate limiter maximum requests per second")
	limiterBurst := flag.Int("limiter-burst", 0, "Rate limiter maximum burst")
	limiterEnabled := flag.Bool("limiter-enabled", true, "Enable rate limiter")
	smtpHost := flag.String("smtp-host", "", "SMTP host")
	smtpPort := flag.Int("smtp-port", 0, "SMTP port")
	smtpUsername := flag.String("smtp-username", "", "SMTP username")
	smtpPassword := flag.String("smtp-password", "", "SMTP password")
	smtpSender := flag.String("smtp-sender", "", "SMTP sender")
	corsOrigins := flag.String("cors-trusted-origins", "", "Trusted CORS origins (space separated)")
	displayVersion := flag.Bool("version", false, "Show API version and immediately exit")

	flag.Parse()

	if *displayVersion {
		fmt.Printf("Version: %s\n", version)
		os.Exit(0)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg, err := config.LoadConfig(*configFile)
	if err != nil {
		logger.Error(err.Error())
		os.Exit(1)
	}

	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "port":
			cfg.Port = *port
		case "env":
			cfg.Env = *env
		case "db-dsn":
			cfg.DB.DSN = *dsn
		case "db-max-open-conns":
			cfg.DB.MaxOpenConns = *maxOpenConns
		case "db-max-idle-conns":
			cfg.DB.MaxIdleConns = *maxIdleConns
		case "db-max-idle-time":
			cfg.DB.MaxIdleTime = *maxIdleTime
		case "limiter-rps":
			cfg.Limiter.RPS = *limiterRPS
		case "limiter-burst":
			cfg.Limiter.Burst = *limiterBurst
		case "limiter-enabled":
			cfg.Limiter.Enabled = *limiterEnabled
		case "smtp-host":
			cfg.SMTP.Host = *smtpHost
		case "smtp-port":
			cfg.SMTP.Port = *smtpPort
		case "smtp-username":
			cfg.SMTP.Username = *smtpUsername
		case "smtp-password":
			cfg.SMTP.Password = *smtpPassword
		case "smtp-sender":
			cfg.SMTP.Sender = *smtpSender
		case "cors-trusted-origins":
			cfg.CORS.TrustedOrigins = strings.Fields(*corsOrigins)
		}
	})

	if err := cfg.Validate(); err != nil {
		logger.Error(err.Error())
		os.Exit(1)
	}

	db, err := openDB(cfg)
	if err != nil {
		logger.Error(err.Error())
		os.Exit(1)
	}
	defer db.Close()
	logger.Info("database connection pool established")

	expvar.NewString("version").Set(version)
	expvar.Publish("goroutines", expvar.Func(func() any {
		return runtime.NumGoroutine()
	}))
	expvar.Publish("database", expvar.Func(func() any {
		return db.Stats()
	}))
	expvar.Publish("timestamp", expvar.Func(func() any {
		return time.Now().Unix()
	}))

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewDBStatsCollector(db, "bowling"),
	)

	app := newApplication(cfg, logger, data.NewModels(db), registry)

	err = app.serve()
	if err != nil {
		logger.Error(err.Error())
		os.Exit(1)
	}
}

// newApplication wires the services around the given models.
func newApplication(cfg *config.Config, logger *slog.Logger, models data.Models,
	registry *prometheus.Registry) *application {
	app := &application{
		config:   cfg,
		logger:   logger,
		models:   models,
		registry: registry,
		sheets:   scoresheet.NewFactory(),
		mailer: mailer.New(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Username, cfg.SMTP.Password,
			cfg.SMTP.Sender),
	}

	app.httpMetrics = newHTTPMetrics(registry)
	app.live = gamehub.NewRegistry(logger, models.Players.Directory, cfg.CORS.TrustedOrigins)

	metrics := scoring.NewMetrics(registry)
	app.rolls = scoring.NewRollService(models.Rolls, logger, metrics)
	app.matches = scoring.NewMatchService(scoring.MatchServiceConfig{
		Matches:    models.Matches,
		Players:    models.Players,
		Notifier:   app.mailer,
		Publisher:  app.live,
		Rolls:      app.rolls,
		Logger:     logger,
		Metrics:    metrics,
		Background: app.background,
	})

	return app
}

func openDB(cfg *config.Config) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.DB.DSN)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(cfg.DB.MaxOpenConns)
	db.SetMaxIdleConns(cfg.DB.MaxIdleConns)
	db.SetConnMaxIdleTime(cfg.DB.MaxIdleTime)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err = db.PingContext(ctx)
	if err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}
