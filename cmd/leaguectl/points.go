package main

import (
	"fmt"

	"github.com/urfave/cli/v2"
)

func newPointsCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:  "points",
		Usage: "match points maintenance",
		Subcommands: []*cli.Command{
			{
				Name:  "recalculate",
				Usage: "recompute the points of every finished match",
				Flags: []cli.Flag{
					&cli.Int64Flag{Name: "league", Usage: "only matches of this league id"},
				},
				Action: func(c *cli.Context) error {
					var leagueID *int64
					if c.IsSet("league") {
						id := c.Int64("league")
						leagueID = &id
					}

					updated, err := e.matches.RecalculatePoints(c.Context, leagueID)
					fmt.Printf("Recalculated points for %d matches\n", updated)
					return err
				},
			},
		},
	}
}
