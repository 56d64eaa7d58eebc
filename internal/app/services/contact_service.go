package services

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/yigit/edupath/internal/app/models/dto"
	"github.com/yigit/edupath/internal/pkg/email"
	"github.com/yigit/edupath/internal/pkg/i18n"
)

// ContactService forwards public inquiries to the agency inbox
type ContactService struct {
	mailer email.EmailService
	logger zerolog.Logger
}

// NewContactService creates a new ContactService
func NewContactService(mailer email.EmailService, logger zerolog.Logger) *ContactService {
	return &ContactService{mailer: mailer, logger: logger}
}

// Submit sends the inquiry and returns the localized acknowledgement
func (s *ContactService) Submit(ctx context.Context, req *dto.ContactRequest, lang i18n.Lang) (string, error) {
	inquiry := email.ContactInquiry{
		Name:    strings.TrimSpace(req.Name),
		Email:   strings.TrimSpace(req.Email),
		Phone:   req.Phone,
		Subject: strings.TrimSpace(req.Subject),
		Message: req.Message,
		Lang:    lang,
	}
	if err := s.mailer.SendContactInquiry(ctx, inquiry); err != nil {
		s.logger.Error().Err(err).Str("email", inquiry.Email).Msg("Failed to forward contact inquiry")
		return "", err
	}

	s.logger.Info().Str("email", inquiry.Email).Str("subject", inquiry.Subject).Msg("Contact inquiry forwarded")
	return i18n.T(lang, i18n.KeyContactReceived), nil
}
