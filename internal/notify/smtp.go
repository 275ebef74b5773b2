package notify

import (
	"context"
	"fmt"
	"html"
	"net/smtp"
	"strings"

	"jobscout/internal/domain"
)

// provider -> SMTP host:port (STARTTLS on 587)
var smtpHosts = map[string]string{
	"gmail":   "smtp.gmail.com:587",
	"outlook": "smtp-mail.outlook.com:587",
	"hotmail": "smtp-mail.outlook.com:587",
	"yahoo":   "smtp.mail.yahoo.com:587",
}

type SMTPConfig struct {
	Provider string // gmail/outlook/hotmail/yahoo, or empty with Host set
	Host     string // overrides Provider when set, host:port
	From     string
	Password string
	To       string
}

// SMTP emails a digest of new postings.
type SMTP struct {
	cfg SMTPConfig
}

func NewSMTP(cfg SMTPConfig) (*SMTP, error) {
	if cfg.From == "" || cfg.To == "" || cfg.Password == "" {
		return nil, fmt.Errorf("smtp notifier needs from, to and password")
	}
	if cfg.Host == "" {
		host, ok := smtpHosts[strings.ToLower(cfg.Provider)]
		if !ok {
			return nil, fmt.Errorf("unknown smtp provider %q", cfg.Provider)
		}
		cfg.Host = host
	}
	return &SMTP{cfg: cfg}, nil
}

func (s *SMTP) Notify(_ context.Context, postings []domain.Posting) error {
	if len(postings) == 0 {
		return nil
	}

	subject := fmt.Sprintf("%d new job posting(s) found", len(postings))
	body := digestHTML(postings)

	var msg strings.Builder
	fmt.Fprintf(&msg, "From: jobscout <%s>\r\n", s.cfg.From)
	fmt.Fprintf(&msg, "To: %s\r\n", s.cfg.To)
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(body)

	host := s.cfg.Host[:strings.LastIndex(s.cfg.Host, ":")]
	auth := smtp.PlainAuth("", s.cfg.From, s.cfg.Password, host)
	if err := smtp.SendMail(s.cfg.Host, auth, s.cfg.From, []string{s.cfg.To}, []byte(msg.String())); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

func digestHTML(postings []domain.Posting) string {
	var b strings.Builder
	b.WriteString("<h2>New job postings</h2><ul>")
	for _, p := range postings {
		b.WriteString("<li><b>")
		b.WriteString(html.EscapeString(p.Title))
		b.WriteString("</b>")
		if p.Company != "" {
			b.WriteString(" at ")
			b.WriteString(html.EscapeString(p.Company))
		}
		if p.Location != "" {
			b.WriteString(", ")
			b.WriteString(html.EscapeString(p.Location))
		}
		if p.URL != "" {
			fmt.Fprintf(&b, ` (<a href=%q>link</a>)`, p.URL)
		}
		fmt.Fprintf(&b, " <i>[%s]</i></li>", html.EscapeString(p.Source))
	}
	b.WriteString("</ul>")
	return b.String()
}
