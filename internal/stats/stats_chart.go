package stats

import (
	"bytes"
	"cmp"
	"errors"
	"slices"
	"time"

	"BowlingLeagueApi/internal/bowling"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

var ErrNotEnoughHistory = errors.New("at least two finished matches are needed to draw a chart")

// ScorePoint is a player's total score in one finished match.
type ScorePoint struct {
	MatchID int64     `json:"match_id"`
	Date    time.Time `json:"date"`
	Score   int       `json:"score"`
}

// ScoreHistory lists the player's match totals in date order.
func ScoreHistory(matches []*bowling.Match, playerID int64) []ScorePoint {
	history := make([]ScorePoint, 0)
	for _, m := range finished(matches, nil) {
		if m.SideOf(playerID) == bowling.SideNone {
			continue
		}
		history = append(history, ScorePoint{MatchID: m.ID, Date: m.Date, Score: m.PlayerTotalScore(playerID)})
	}
	slices.SortStableFunc(history, func(a, b ScorePoint) int {
		return cmp.Compare(a.Date.Unix(), b.Date.Unix())
	})
	return history
}

// ScoreHistoryChart renders the history as a PNG line chart.
func ScoreHistoryChart(history []ScorePoint, title string) ([]byte, error) {
	if len(history) < 2 {
		return nil, ErrNotEnoughHistory
	}

	xValues := make([]time.Time, len(history))
	yValues := make([]float64, len(history))
	for i, p := range history {
		xValues[i] = p.Date
		yValues[i] = float64(p.Score)
	}

	series := chart.TimeSeries{
		Name:    title,
		XValues: xValues,
		YValues: yValues,
		Style: chart.Style{
			StrokeColor: drawing.ColorFromHex("1f6feb"),
			StrokeWidth: 2,
			DotWidth:    4,
			DotColor:    drawing.ColorFromHex("f0883e"),
		},
	}

	graph := chart.Chart{
		Title:  title,
		Width:  800,
		Height: 400,
		XAxis: chart.XAxis{
			Name:           "Date",
			ValueFormatter: chart.TimeValueFormatterWithFormat("2006-01-02"),
		},
		YAxis: chart.YAxis{
			Name: "Score",
		},
		Series: []chart.Series{series},
	}

	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}
