package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yigit/edupath/internal/app/models/dto"
	"github.com/yigit/edupath/internal/pkg/apperrors"
	"github.com/yigit/edupath/internal/pkg/i18n"
	"github.com/yigit/edupath/internal/pkg/logger"
	"github.com/yigit/edupath/internal/pkg/remote"
	"github.com/yigit/edupath/internal/pkg/validation"
)

// wizardErrors are the step gates a student can fix by editing the form
var wizardErrors = []struct {
	err error
	key string
}{
	{apperrors.ErrPhotoRequired, i18n.KeyWizardPhotoRequired},
	{apperrors.ErrPassportRequired, i18n.KeyWizardPassportRequired},
	{apperrors.ErrStepIncomplete, i18n.KeyWizardStepIncomplete},
	{apperrors.ErrStepLocked, i18n.KeyWizardStepLocked},
	{apperrors.ErrNotAtReview, i18n.KeyWizardNotAtReview},
	{apperrors.ErrTermsNotAccepted, i18n.KeyWizardTermsRequired},
}

// notFoundErrors all answer 404
var notFoundErrors = []error{
	apperrors.ErrUserNotFound,
	apperrors.ErrUniversityNotFound,
	apperrors.ErrProgramNotFound,
	apperrors.ErrApplicationNotFound,
	apperrors.ErrDraftNotFound,
	apperrors.ErrDocumentNotFound,
	apperrors.ErrNotificationNotFound,
	apperrors.ErrMessageNotFound,
	apperrors.ErrAgentNotFound,
}

// HandleAPIError handles common API errors and returns appropriate responses
// in the request language.
func HandleAPIError(c *gin.Context, err error) {
	lang := LangFrom(c)
	status, detail := mapError(err, lang)

	if status >= http.StatusInternalServerError {
		logger.Error().Err(err).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Msg("Request failed")
	}

	_ = c.Error(err)
	c.AbortWithStatusJSON(status, dto.NewErrorResponse(detail))
}

func mapError(err error, lang i18n.Lang) (int, *dto.ErrorDetail) {
	var rejected *remote.RejectedError

	for _, w := range wizardErrors {
		if errors.Is(err, w.err) {
			detail := dto.NewErrorDetail(dto.ErrorCodeStepBlocked, i18n.T(lang, w.key)).
				WithSeverity(dto.ErrorSeverityWarning)
			if fields := validation.Default().Translate(err, lang); len(fields) > 0 {
				detail = detail.WithDetails(fields).WithField(fields[0].Field)
			}
			return http.StatusUnprocessableEntity, detail
		}
	}

	switch {
	case errors.Is(err, apperrors.ErrValidationFailed):
		detail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, i18n.T(lang, i18n.KeyErrorValidation))
		if fields := validation.Default().Translate(err, lang); len(fields) > 0 {
			detail = detail.WithDetails(fields).WithField(fields[0].Field)
		}
		return http.StatusBadRequest, detail

	case errors.Is(err, apperrors.ErrUnsupportedFile):
		status := http.StatusBadRequest
		details := apperrors.DetailsOf(err)
		if _, tooLarge := details["maxSize"]; tooLarge {
			status = http.StatusRequestEntityTooLarge
		}
		detail := dto.NewErrorDetail(dto.ErrorCodeUnsupportedFile, i18n.T(lang, i18n.KeyErrorUnsupportedFile))
		if details != nil {
			detail = detail.WithDetails(details)
		}
		return status, detail

	case errors.Is(err, apperrors.ErrBadRequest), errors.Is(err, apperrors.ErrInvalidStatus):
		return http.StatusBadRequest, dto.NewErrorDetail(dto.ErrorCodeBadRequest, i18n.T(lang, i18n.KeyErrorBadRequest)).
			WithDetails(err.Error())

	case errors.Is(err, apperrors.ErrInvalidCredentials):
		return http.StatusUnauthorized, dto.NewErrorDetail(dto.ErrorCodeInvalidCredentials, i18n.T(lang, i18n.KeyErrorInvalidCredentials))

	case errors.Is(err, apperrors.ErrTokenExpired):
		return http.StatusUnauthorized, dto.NewErrorDetail(dto.ErrorCodeExpiredToken, i18n.T(lang, i18n.KeyErrorTokenExpired))

	case apperrors.Is(err, apperrors.ErrTokenInvalid, apperrors.ErrInvalidFormat):
		return http.StatusUnauthorized, dto.NewErrorDetail(dto.ErrorCodeInvalidToken, i18n.T(lang, i18n.KeyErrorUnauthorized))

	case errors.Is(err, apperrors.ErrAccountDisabled):
		return http.StatusForbidden, dto.NewErrorDetail(dto.ErrorCodeAccountDisabled, i18n.T(lang, i18n.KeyErrorAccountDisabled))

	case errors.Is(err, apperrors.ErrPermissionDenied):
		return http.StatusForbidden, dto.NewErrorDetail(dto.ErrorCodeForbidden, i18n.T(lang, i18n.KeyErrorForbidden))

	case errors.Is(err, apperrors.ErrEmailAlreadyExists):
		return http.StatusConflict, dto.NewErrorDetail(dto.ErrorCodeResourceAlreadyExists, i18n.T(lang, i18n.KeyErrorEmailExists)).
			WithField("email")

	case apperrors.Is(err, apperrors.ErrResourceAlreadyExists, apperrors.ErrConflict, apperrors.ErrUniversityHasPrograms, apperrors.ErrApplicationIDTaken):
		return http.StatusConflict, dto.NewErrorDetail(dto.ErrorCodeConflict, i18n.T(lang, i18n.KeyErrorConflict)).
			WithDetails(err.Error())

	case apperrors.Is(err, apperrors.ErrResourceNotFound, notFoundErrors...):
		return http.StatusNotFound, dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, i18n.T(lang, i18n.KeyErrorNotFound))

	case errors.Is(err, apperrors.ErrTooManyRequests):
		return http.StatusTooManyRequests, dto.NewErrorDetail(dto.ErrorCodeTooManyRequests, i18n.T(lang, i18n.KeyErrorTooManyRequests)).
			WithSeverity(dto.ErrorSeverityWarning)

	case errors.As(err, &rejected):
		return http.StatusBadGateway, dto.NewErrorDetail(dto.ErrorCodeExternalServiceError, i18n.T(lang, i18n.KeyErrorRemoteRejected, rejected.Message)).
			WithDetails(map[string]interface{}{"statusCode": rejected.StatusCode})

	case errors.Is(err, apperrors.ErrRemoteRejected):
		return http.StatusBadGateway, dto.NewErrorDetail(dto.ErrorCodeExternalServiceError, i18n.T(lang, i18n.KeyErrorRemoteRejected, err.Error()))
	}

	return http.StatusInternalServerError, dto.NewErrorDetail(dto.ErrorCodeInternalServer, i18n.T(lang, i18n.KeyErrorInternal)).
		WithSeverity(dto.ErrorSeverityCritical)
}
