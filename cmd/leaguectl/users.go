package main

import (
	"fmt"
	"log/slog"
	"time"

	"BowlingLeagueApi/internal/data"

	"github.com/urfave/cli/v2"
)

func newUsersCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:  "users",
		Usage: "user account maintenance",
		Subcommands: []*cli.Command{
			{
				Name:  "send-verification",
				Usage: "mail a fresh activation token to every unactivated user",
				Action: func(c *cli.Context) error {
					users, err := e.models.Users.GetUnactivated(c.Context)
					if err != nil {
						return err
					}

					sent := 0
					for _, user := range users {
						if err := e.sendVerification(c, user); err != nil {
							e.logger.Error("verification not sent",
								slog.Int64("user_id", user.ID),
								slog.String("error", err.Error()))
							continue
						}
						sent++
					}

					fmt.Printf("Sent %d of %d verification mails\n", sent, len(users))
					return nil
				},
			},
		},
	}
}

func (e *env) sendVerification(c *cli.Context, user *data.User) error {
	err := e.models.Tokens.DeleteAllForUser(c.Context, data.ScopeActivation, user.ID)
	if err != nil {
		return err
	}

	token, err := e.models.Tokens.New(c.Context, user.ID, 3*24*time.Hour, data.ScopeActivation)
	if err != nil {
		return err
	}

	return e.mailer.Send(user.Email, "user_welcome.tmpl", map[string]any{
		"PlayerName":      user.Player().FullName(),
		"UserID":          user.ID,
		"ActivationToken": token.Plaintext,
	})
}
