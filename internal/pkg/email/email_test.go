package email

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/edupath/internal/pkg/i18n"
)

type sentMail struct {
	from    string
	to      []string
	message string
}

func newTestService(cfg SMTPConfig) (*EmailServiceImpl, *[]sentMail) {
	var sent []sentMail
	s := NewEmailService(cfg, zerolog.Nop())
	s.send = func(from string, to []string, message []byte) error {
		sent = append(sent, sentMail{from: from, to: to, message: string(message)})
		return nil
	}
	return s, &sent
}

var smtpConfig = SMTPConfig{
	Host:      "smtp.example.com",
	Port:      587,
	FromName:  "Admissions",
	FromEmail: "noreply@example.com",
	AgencyTo:  "office@example.com",
}

func TestSendApplicationConfirmation(t *testing.T) {
	s, sent := newTestService(smtpConfig)

	err := s.SendApplicationConfirmation(context.Background(), ApplicationConfirmation{
		ToEmail:       "student@example.com",
		ToName:        "Omar",
		ApplicationID: "APP-20250301-1234",
		University:    "Istanbul University",
		Program:       "Computer Engineering",
		Lang:          i18n.English,
	})
	require.NoError(t, err)
	require.Len(t, *sent, 1)

	mail := (*sent)[0]
	assert.Equal(t, "noreply@example.com", mail.from)
	assert.Equal(t, []string{"student@example.com"}, mail.to)
	assert.Contains(t, mail.message, "Subject: Application APP-20250301-1234 received")
	assert.Contains(t, mail.message, "Hello Omar,")
	assert.Contains(t, mail.message, "Istanbul University")
	assert.Contains(t, mail.message, `dir="ltr"`)
}

func TestSendApplicationConfirmation_ArabicIsEncoded(t *testing.T) {
	s, sent := newTestService(smtpConfig)

	require.NoError(t, s.SendApplicationConfirmation(context.Background(), ApplicationConfirmation{
		ToEmail:       "student@example.com",
		ToName:        "عمر",
		ApplicationID: "APP-20250301-1234",
		Lang:          i18n.Arabic,
	}))
	require.Len(t, *sent, 1)
	assert.Contains(t, (*sent)[0].message, "Subject: =?utf-8?q?")
	assert.Contains(t, (*sent)[0].message, `dir="rtl"`)
}

func TestSendContactInquiry(t *testing.T) {
	s, sent := newTestService(smtpConfig)

	require.NoError(t, s.SendContactInquiry(context.Background(), ContactInquiry{
		Name:    "Sara",
		Email:   "sara@example.com",
		Subject: "Scholarships",
		Message: "<b>Do you offer scholarships?</b>",
		Lang:    i18n.Turkish,
	}))
	require.Len(t, *sent, 1)

	mail := (*sent)[0]
	assert.Equal(t, []string{"office@example.com"}, mail.to)
	assert.Contains(t, mail.message, "Reply-To: sara@example.com")
	assert.Contains(t, mail.message, "&lt;b&gt;Do you offer scholarships?&lt;/b&gt;")
}

func TestNotConfiguredOnlyLogs(t *testing.T) {
	s, sent := newTestService(SMTPConfig{})

	assert.NoError(t, s.SendApplicationConfirmation(context.Background(), ApplicationConfirmation{ToEmail: "a@b.c"}))
	assert.NoError(t, s.SendContactInquiry(context.Background(), ContactInquiry{Email: "a@b.c"}))
	assert.Empty(t, *sent)
}

func TestSendFailureIsReturned(t *testing.T) {
	s := NewEmailService(smtpConfig, zerolog.Nop())
	s.send = func(string, []string, []byte) error { return errors.New("connection refused") }

	err := s.SendApplicationConfirmation(context.Background(), ApplicationConfirmation{ToEmail: "a@b.c", ApplicationID: "APP-1"})
	assert.EqualError(t, err, "connection refused")
}
