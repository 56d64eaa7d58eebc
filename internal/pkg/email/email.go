package email

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"html/template"
	"mime"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/yigit/edupath/internal/pkg/i18n"
)

// EmailService defines the interface for email operations
type EmailService interface {
	// SendApplicationConfirmation tells the student their application was received
	SendApplicationConfirmation(ctx context.Context, msg ApplicationConfirmation) error
	// SendContactInquiry forwards a public contact form to the agency inbox
	SendContactInquiry(ctx context.Context, inquiry ContactInquiry) error
}

// ApplicationConfirmation is the data of the confirmation email
type ApplicationConfirmation struct {
	ToEmail       string
	ToName        string
	ApplicationID string
	University    string
	Program       string
	Lang          i18n.Lang
}

// ContactInquiry is a message from the public contact form
type ContactInquiry struct {
	Name    string
	Email   string
	Phone   string
	Subject string
	Message string
	Lang    i18n.Lang
}

// SMTPConfig holds configuration for SMTP server
type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromName  string
	FromEmail string
	UseTLS    bool
	// AgencyTo receives contact inquiries
	AgencyTo string
}

// sendFunc delivers a complete RFC 822 message
type sendFunc func(from string, to []string, message []byte) error

// EmailServiceImpl implements EmailService
type EmailServiceImpl struct {
	config SMTPConfig
	logger zerolog.Logger
	send   sendFunc
}

// NewEmailService creates a new EmailService
func NewEmailService(config SMTPConfig, logger zerolog.Logger) *EmailServiceImpl {
	s := &EmailServiceImpl{
		config: config,
		logger: logger,
	}
	s.send = s.sendSMTP
	return s
}

// configured reports whether SMTP delivery is possible; otherwise emails are only logged
func (s *EmailServiceImpl) configured() bool {
	return s.config.Host != "" && s.config.FromEmail != ""
}

func (s *EmailServiceImpl) SendApplicationConfirmation(ctx context.Context, msg ApplicationConfirmation) error {
	if msg.ToEmail == "" {
		return nil
	}
	if !s.configured() {
		s.logger.Warn().
			Str("toEmail", msg.ToEmail).
			Str("applicationId", msg.ApplicationID).
			Msg("SMTP not configured - confirmation email not sent")
		return nil
	}

	subject := i18n.T(msg.Lang, i18n.KeyEmailConfirmationSubject, msg.ApplicationID)
	text := i18n.T(msg.Lang, i18n.KeyEmailConfirmationBody, msg.ToName, msg.ApplicationID)

	var body bytes.Buffer
	err := confirmationTemplate.Execute(&body, map[string]interface{}{
		"Dir":        direction(msg.Lang),
		"Paragraphs": strings.Split(text, "\n\n"),
		"University": msg.University,
		"Program":    msg.Program,
	})
	if err != nil {
		return fmt.Errorf("failed to render confirmation email: %w", err)
	}

	return s.deliver(ctx, msg.ToEmail, subject, "", body.String())
}

func (s *EmailServiceImpl) SendContactInquiry(ctx context.Context, inquiry ContactInquiry) error {
	if !s.configured() || s.config.AgencyTo == "" {
		s.logger.Warn().
			Str("fromEmail", inquiry.Email).
			Str("subject", inquiry.Subject).
			Msg("SMTP not configured - contact inquiry only logged")
		return nil
	}

	var body bytes.Buffer
	if err := inquiryTemplate.Execute(&body, inquiry); err != nil {
		return fmt.Errorf("failed to render inquiry email: %w", err)
	}

	subject := "[Contact] " + inquiry.Subject
	return s.deliver(ctx, s.config.AgencyTo, subject, inquiry.Email, body.String())
}

func (s *EmailServiceImpl) deliver(ctx context.Context, to, subject, replyTo, htmlBody string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var message bytes.Buffer
	headers := [][2]string{
		{"From", fmt.Sprintf("%s <%s>", mime.QEncoding.Encode("utf-8", s.config.FromName), s.config.FromEmail)},
		{"To", to},
		{"Subject", mime.QEncoding.Encode("utf-8", subject)},
		{"Date", time.Now().Format(time.RFC1123Z)},
		{"MIME-Version", "1.0"},
		{"Content-Type", "text/html; charset=UTF-8"},
	}
	if replyTo != "" {
		headers = append(headers, [2]string{"Reply-To", replyTo})
	}
	for _, h := range headers {
		fmt.Fprintf(&message, "%s: %s\r\n", h[0], h[1])
	}
	message.WriteString("\r\n")
	message.WriteString(htmlBody)

	if err := s.send(s.config.FromEmail, []string{to}, message.Bytes()); err != nil {
		s.logger.Error().Err(err).Str("to", to).Msg("Failed to send email")
		return err
	}
	s.logger.Info().Str("to", to).Str("subject", subject).Msg("Email sent")
	return nil
}

// sendSMTP sends through the configured server, over implicit TLS when UseTLS is set
func (s *EmailServiceImpl) sendSMTP(from string, to []string, message []byte) error {
	var auth smtp.Auth
	if s.config.Username != "" {
		auth = smtp.PlainAuth("", s.config.Username, s.config.Password, s.config.Host)
	}
	serverAddress := s.config.Host + ":" + strconv.Itoa(s.config.Port)

	if !s.config.UseTLS {
		if err := smtp.SendMail(serverAddress, auth, from, to, message); err != nil {
			return fmt.Errorf("failed to send email: %w", err)
		}
		return nil
	}

	conn, err := tls.Dial("tcp", serverAddress, &tls.Config{ServerName: s.config.Host})
	if err != nil {
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, s.config.Host)
	if err != nil {
		return fmt.Errorf("failed to create SMTP client: %w", err)
	}
	defer client.Quit()

	if auth != nil {
		if err = client.Auth(auth); err != nil {
			return fmt.Errorf("SMTP authentication failed: %w", err)
		}
	}
	if err = client.Mail(from); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}
	for _, rcpt := range to {
		if err = client.Rcpt(rcpt); err != nil {
			return fmt.Errorf("failed to set recipient: %w", err)
		}
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to get data writer: %w", err)
	}
	if _, err = w.Write(message); err != nil {
		return fmt.Errorf("failed to write email message: %w", err)
	}
	return w.Close()
}

func direction(lang i18n.Lang) string {
	if lang == i18n.Arabic {
		return "rtl"
	}
	return "ltr"
}

var confirmationTemplate = template.Must(template.New("confirmation").Parse(`<html>
<body dir="{{.Dir}}">
	<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
		{{range .Paragraphs}}<p>{{.}}</p>
		{{end}}
		{{if .University}}<p><strong>{{.University}}</strong>{{if .Program}} - {{.Program}}{{end}}</p>{{end}}
	</div>
</body>
</html>`))

var inquiryTemplate = template.Must(template.New("inquiry").Parse(`<html>
<body>
	<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
		<h2>New contact inquiry</h2>
		<p><strong>Name:</strong> {{.Name}}</p>
		<p><strong>Email:</strong> {{.Email}}</p>
		{{if .Phone}}<p><strong>Phone:</strong> {{.Phone}}</p>{{end}}
		<p><strong>Language:</strong> {{.Lang}}</p>
		<p><strong>Subject:</strong> {{.Subject}}</p>
		<p>{{.Message}}</p>
	</div>
</body>
</html>`))
