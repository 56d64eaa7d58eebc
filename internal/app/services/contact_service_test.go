package services

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/edupath/internal/app/models/dto"
	"github.com/yigit/edupath/internal/pkg/i18n"
)

func TestContact_Submit(t *testing.T) {
	mailer := &fakeMailer{}
	s := NewContactService(mailer, zerolog.Nop())

	ack, err := s.Submit(context.Background(), &dto.ContactRequest{
		Name: " Omar ", Email: "omar@example.com", Subject: " Scholarships ", Message: "Do you offer scholarships for master programs?",
	}, i18n.Arabic)
	require.NoError(t, err)
	assert.Equal(t, i18n.T(i18n.Arabic, i18n.KeyContactReceived), ack)

	require.Len(t, mailer.inquiries, 1)
	assert.Equal(t, "Omar", mailer.inquiries[0].Name)
	assert.Equal(t, "Scholarships", mailer.inquiries[0].Subject)
	assert.Equal(t, i18n.Arabic, mailer.inquiries[0].Lang)
}

func TestContact_MailFailure(t *testing.T) {
	mailer := &fakeMailer{err: errors.New("smtp down")}
	s := NewContactService(mailer, zerolog.Nop())

	_, err := s.Submit(context.Background(), &dto.ContactRequest{Name: "Omar", Email: "omar@example.com"}, i18n.English)
	assert.Error(t, err)
}
