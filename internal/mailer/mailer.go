package mailer

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"strings"
	tt "text/template"
	"time"

	"BowlingLeagueApi/internal/bowling"

	"github.com/go-mail/mail/v2"
)

//go:embed "templates"
var templateFS embed.FS

const dateLayout = "Mon Jan 2 2006, 15:04"

type Mailer struct {
	dialer     *mail.Dialer
	sender     string
	retryDelay time.Duration
	send       func(msg *mail.Message) error
}

func New(host string, port int, username, password, sender string) *Mailer {
	dialer := mail.NewDialer(host, port, username, password)
	dialer.Timeout = 5 * time.Second

	m := &Mailer{dialer: dialer, sender: sender, retryDelay: 500 * time.Millisecond}
	m.send = func(msg *mail.Message) error { return dialer.DialAndSend(msg) }
	return m
}

// Send renders the named template with data and delivers it, retrying up to
// three times.
func (m *Mailer) Send(recipient, templateFile string, data any) error {
	subject, plainBody, htmlBody, err := render(templateFile, data)
	if err != nil {
		return err
	}

	msg := mail.NewMessage()
	msg.SetHeader("To", recipient)
	msg.SetHeader("From", m.sender)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", plainBody)
	msg.AddAlternative("text/html", htmlBody)

	for i := 1; i <= 3; i++ {
		err = m.send(msg)
		if err == nil {
			return nil
		}
		time.Sleep(m.retryDelay)
	}

	return err
}

func render(templateFile string, data any) (subject, plainBody, htmlBody string, err error) {
	textTmpl, err := tt.New("").ParseFS(templateFS, "templates/"+templateFile)
	if err != nil {
		return "", "", "", err
	}

	var buf bytes.Buffer
	if err = textTmpl.ExecuteTemplate(&buf, "subject", data); err != nil {
		return "", "", "", err
	}
	subject = strings.TrimSpace(buf.String())

	buf.Reset()
	if err = textTmpl.ExecuteTemplate(&buf, "plainBody", data); err != nil {
		return "", "", "", err
	}
	plainBody = buf.String()

	htmlTmpl, err := template.New("").ParseFS(templateFS, "templates/"+templateFile)
	if err != nil {
		return "", "", "", err
	}
	buf.Reset()
	if err = htmlTmpl.ExecuteTemplate(&buf, "htmlBody", data); err != nil {
		return "", "", "", err
	}
	htmlBody = buf.String()

	return subject, plainBody, htmlBody, nil
}

type matchMail struct {
	PlayerName string
	MatchDate  string
	OldDate    string
	MatchPin   string
	Lanes      string
}

func (m *Mailer) MatchScheduled(ctx context.Context, match *bowling.Match, players []bowling.Player) error {
	return m.toPlayers(ctx, "match_scheduled.tmpl", match, players, time.Time{})
}

func (m *Mailer) MatchCancelled(ctx context.Context, match *bowling.Match, players []bowling.Player) error {
	return m.toPlayers(ctx, "match_cancelled.tmpl", match, players, time.Time{})
}

func (m *Mailer) MatchDateChanged(ctx context.Context, match *bowling.Match, players []bowling.Player,
	oldDate time.Time) error {
	return m.toPlayers(ctx, "match_date_changed.tmpl", match, players, oldDate)
}

// toPlayers mails every player that has an address. Players without one are
// skipped and failures for one player do not stop the others.
func (m *Mailer) toPlayers(ctx context.Context, templateFile string, match *bowling.Match,
	players []bowling.Player, oldDate time.Time) error {
	lanes := laneList(match)

	var errs []error
	for _, p := range players {
		if ctx.Err() != nil {
			errs = append(errs, ctx.Err())
			break
		}
		if p.Email == "" {
			continue
		}

		data := matchMail{
			PlayerName: p.FullName(),
			MatchDate:  match.Date.Format(dateLayout),
			MatchPin:   match.Pin,
			Lanes:      lanes,
		}
		if !oldDate.IsZero() {
			data.OldDate = oldDate.Format(dateLayout)
		}

		if err := m.Send(p.Email, templateFile, data); err != nil {
			errs = append(errs, fmt.Errorf("mail %s: %w", p.Email, err))
		}
	}
	return errors.Join(errs...)
}

func laneList(match *bowling.Match) string {
	lanes := bowling.DescribeStructure(match).Lanes
	if len(lanes) == 0 {
		return "to be announced"
	}
	parts := make([]string, len(lanes))
	for i, l := range lanes {
		parts[i] = fmt.Sprint(l)
	}
	return strings.Join(parts, ", ")
}
