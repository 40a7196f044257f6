package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"time"

	"BowlingLeagueApi/internal/config"
	"BowlingLeagueApi/internal/data"
	"BowlingLeagueApi/internal/mailer"
	"BowlingLeagueApi/internal/scoring"

	_ "github.com/lib/pq"
	"github.com/urfave/cli/v2"
)

// env is shared by every command once the database is open.
type env struct {
	cfg     *config.Config
	logger  *slog.Logger
	db      *sql.DB
	models  data.Models
	mailer  *mailer.Mailer
	matches *scoring.MatchService
	rolls   *scoring.RollService
}

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	e := &env{logger: logger}

	cliApp := &cli.App{
		Name:  "leaguectl",
		Usage: "bowling league maintenance",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Value: "config.yaml",
				Usage: "path to the YAML config file",
			},
		},
		Before: e.open,
		After:  e.close,
		Commands: []*cli.Command{
			newPointsCommand(e),
			newUsersCommand(e),
			newSeedCommand(e),
		},
	}

	if err := cliApp.Run(os.Args); err != nil {
		logger.Error(err.Error())
		os.Exit(1)
	}
}

func (e *env) open(c *cli.Context) error {
	cfg, err := config.LoadConfig(c.String("config"))
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	db, err := sql.Open("postgres", cfg.DB.DSN)
	if err != nil {
		return err
	}
	db.SetMaxOpenConns(cfg.DB.MaxOpenConns)
	db.SetMaxIdleConns(cfg.DB.MaxIdleConns)
	db.SetConnMaxIdleTime(cfg.DB.MaxIdleTime)

	ctx, cancel := context.WithTimeout(c.Context, 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return fmt.Errorf("connect to database: %w", err)
	}

	e.cfg = cfg
	e.db = db
	e.models = data.NewModels(db)
	e.mailer = mailer.New(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Username, cfg.SMTP.Password,
		cfg.SMTP.Sender)
	e.rolls = scoring.NewRollService(e.models.Rolls, e.logger, nil)
	e.matches = scoring.NewMatchService(scoring.MatchServiceConfig{
		Matches: e.models.Matches,
		Players: e.models.Players,
		Rolls:   e.rolls,
		Logger:  e.logger,
	})
	return nil
}

func (e *env) close(*cli.Context) error {
	if e.db == nil {
		return nil
	}
	return e.db.Close()
}
