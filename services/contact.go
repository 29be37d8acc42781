package services

import (
	"context"
	"fmt"
	"html"
	"net/mail"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/jonasmwansa/portfolio-backend/errs"
	"github.com/jonasmwansa/portfolio-backend/models"
)

// ContactSubmission is what a visitor fills in on the contact form.
type ContactSubmission struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// CounterRecorder bumps a daily analytics counter.
type CounterRecorder interface {
	Record(ctx context.Context, counter models.AnalyticsCounter) error
}

type ContactConfig struct {
	OwnerEmail string
	OwnerName  string
	FromEmail  string
}

// ContactRelay forwards contact form submissions to the site owner and sends
// the visitor an acknowledgement.
type ContactRelay struct {
	mailer   Mailer
	cfg      ContactConfig
	recorder CounterRecorder
	logger   zerolog.Logger
}

// NewContactRelay builds a relay. recorder may be nil. The owner address is
// required, and so is the sender address when mail goes through Resend.
func NewContactRelay(mailer Mailer, cfg ContactConfig, recorder CounterRecorder) (*ContactRelay, error) {
	if strings.TrimSpace(cfg.OwnerEmail) == "" {
		return nil, errs.NewConfigMissingError("CONTACT_OWNER_EMAIL")
	}
	if _, ok := mailer.(*ResendMailer); ok && strings.TrimSpace(cfg.FromEmail) == "" {
		return nil, errs.NewConfigMissingError("DEFAULT_FROM_EMAIL")
	}
	if cfg.OwnerName == "" {
		cfg.OwnerName = "Jonas Mwansa"
	}
	return &ContactRelay{
		mailer:   mailer,
		cfg:      cfg,
		recorder: recorder,
		logger:   log.With().Str("service", "contactRelay").Logger(),
	}, nil
}

// Submit validates the submission and sends both emails. It returns a
// *errs.ValidationError or an errs.ErrInvalidHeader error before anything is
// sent, and an *errs.MailTransportError when either send fails. The visitor
// is only acknowledged once the owner notification went out.
func (c *ContactRelay) Submit(ctx context.Context, s ContactSubmission) error {
	s, err := c.validate(s)
	if err != nil {
		return err
	}

	if err := c.mailer.Send(ctx, c.ownerMessage(s)); err != nil {
		c.logger.Error().Err(err).Msg("Contact form delivery to owner failed")
		return errs.NewMailTransportError(c.cfg.OwnerEmail, err)
	}
	if err := c.mailer.Send(ctx, c.acknowledgement(s)); err != nil {
		c.logger.Error().Err(err).Msg("Contact form acknowledgement failed")
		return errs.NewMailTransportError(s.Email, err)
	}

	c.logger.Info().Str("subject", s.Subject).Msg("Contact form relayed")
	if c.recorder != nil {
		if err := c.recorder.Record(ctx, models.CounterContactFormSubmissions); err != nil {
			c.logger.Warn().Err(err).Msg("Failed to record contact submission")
		}
	}
	return nil
}

func (c *ContactRelay) validate(s ContactSubmission) (ContactSubmission, error) {
	s.Name = strings.TrimSpace(s.Name)
	s.Email = strings.TrimSpace(s.Email)
	s.Subject = strings.TrimSpace(s.Subject)
	s.Message = strings.TrimSpace(s.Message)

	for _, f := range []struct{ field, value string }{
		{"name", s.Name},
		{"email", s.Email},
		{"subject", s.Subject},
		{"message", s.Message},
	} {
		if f.value == "" {
			return s, errs.NewValidationError(f.field, "Please fill in all required fields.")
		}
	}

	for _, f := range []struct{ field, value string }{
		{"name", s.Name},
		{"email", s.Email},
		{"subject", s.Subject},
	} {
		if strings.ContainsAny(f.value, "\r\n") {
			return s, errs.NewInvalidHeaderError(f.field)
		}
	}

	addr, err := mail.ParseAddress(s.Email)
	if err != nil {
		return s, errs.NewValidationError("email", "Enter a valid email address.")
	}
	s.Email = addr.Address
	return s, nil
}

func (c *ContactRelay) ownerMessage(s ContactSubmission) Message {
	text := fmt.Sprintf(`New contact form submission:

Name: %s
Email: %s
Subject: %s

Message:
%s

---
Sent from your portfolio website.
`, s.Name, s.Email, s.Subject, s.Message)

	htmlBody := fmt.Sprintf(`<p>New contact form submission:</p>
<p><strong>Name:</strong> %s<br>
<strong>Email:</strong> %s<br>
<strong>Subject:</strong> %s</p>
<p><strong>Message:</strong><br>%s</p>
<hr>
<p>Sent from your portfolio website.</p>`,
		html.EscapeString(s.Name),
		html.EscapeString(s.Email),
		html.EscapeString(s.Subject),
		paragraph(s.Message))

	return Message{
		From:    c.cfg.FromEmail,
		To:      []string{c.cfg.OwnerEmail},
		ReplyTo: s.Email,
		Subject: "Portfolio Contact: " + s.Subject,
		Text:    text,
		HTML:    htmlBody,
	}
}

func (c *ContactRelay) acknowledgement(s ContactSubmission) Message {
	text := fmt.Sprintf(`Hi %s,

Thank you for reaching out! I've received your message and will get back to you as soon as possible.

Here's a copy of your message:
Subject: %s
Message: %s

Best regards,
%s

---
This is an automated response.
`, s.Name, s.Subject, s.Message, c.cfg.OwnerName)

	htmlBody := fmt.Sprintf(`<p>Hi %s,</p>
<p>Thank you for reaching out! I've received your message and will get back to you as soon as possible.</p>
<p>Here's a copy of your message:<br>
<strong>Subject:</strong> %s<br>
<strong>Message:</strong><br>%s</p>
<p>Best regards,<br>%s</p>
<hr>
<p>This is an automated response.</p>`,
		html.EscapeString(s.Name),
		html.EscapeString(s.Subject),
		paragraph(s.Message),
		html.EscapeString(c.cfg.OwnerName))

	return Message{
		From:    c.cfg.FromEmail,
		To:      []string{s.Email},
		Subject: "Thank you for contacting " + firstName(c.cfg.OwnerName),
		Text:    text,
		HTML:    htmlBody,
	}
}

func paragraph(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = html.EscapeString(strings.TrimRight(line, "\r"))
	}
	return strings.Join(lines, "<br>")
}

func firstName(name string) string {
	if fields := strings.Fields(name); len(fields) > 0 {
		return fields[0]
	}
	return name
}
