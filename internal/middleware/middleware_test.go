package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/edupath/internal/app/models"
	"github.com/yigit/edupath/internal/app/models/dto"
	"github.com/yigit/edupath/internal/pkg/apperrors"
	"github.com/yigit/edupath/internal/pkg/auth"
	"github.com/yigit/edupath/internal/pkg/i18n"
	"github.com/yigit/edupath/internal/pkg/kvstore"
	"github.com/yigit/edupath/internal/pkg/remote"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) dto.ErrorResponse {
	t.Helper()
	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	return resp
}

func newJWT() *auth.JWTService {
	return auth.NewJWTService(auth.JWTConfig{SecretKey: "test-secret", AccessTokenExp: time.Hour, TokenIssuer: "edupath-test"})
}

func tokenFor(t *testing.T, jwtService *auth.JWTService, role models.RoleType, lang string) string {
	t.Helper()
	token, _, err := jwtService.GenerateToken(&models.User{ID: 7, Email: "user@example.com", RoleType: role, Language: lang})
	require.NoError(t, err)
	return token
}

func TestLocale(t *testing.T) {
	tests := []struct {
		name   string
		query  string
		header string
		want   i18n.Lang
	}{
		{"query wins", "tr", "en", i18n.Turkish},
		{"accept language", "", "en", i18n.English},
		{"unsupported falls back", "fr", "de", i18n.Arabic},
		{"nothing", "", "", i18n.Arabic},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.Use(Locale(i18n.Arabic))
			r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, string(LangFrom(c))) })

			req := httptest.NewRequest(http.MethodGet, "/?lang="+tt.query, nil)
			if tt.header != "" {
				req.Header.Set("Accept-Language", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, string(tt.want), w.Body.String())
		})
	}
}

func TestJWTAuth(t *testing.T) {
	jwtService := newJWT()
	m := NewAuthMiddleware(jwtService)

	r := gin.New()
	r.Use(Locale(i18n.English))
	r.GET("/me", m.JWTAuth(), func(c *gin.Context) {
		actor, err := ActorFrom(c)
		if err != nil {
			HandleAPIError(c, err)
			return
		}
		c.String(http.StatusOK, fmt.Sprintf("%d:%s:%s", actor.UserID, actor.Role, actor.Lang))
	})

	t.Run("missing token", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me", nil))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		resp := decodeError(t, w)
		assert.Equal(t, dto.ErrorCodeUnauthorized, resp.Error.Code)
		assert.Equal(t, i18n.T(i18n.English, i18n.KeyErrorUnauthorized), resp.Error.Message)
	})

	t.Run("garbage token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer nope")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, dto.ErrorCodeInvalidToken, decodeError(t, w).Error.Code)
	})

	t.Run("bearer header uses stored language", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+tokenFor(t, jwtService, models.RoleStudent, "tr"))
		req.Header.Set("Accept-Language", "en")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "7:STUDENT:tr", w.Body.String())
	})

	t.Run("query token and explicit language", func(t *testing.T) {
		token := tokenFor(t, jwtService, models.RoleAdmin, "tr")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me?lang=en&token="+token, nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "7:ADMIN:en", w.Body.String())
	})
}

func TestRoleRequired(t *testing.T) {
	jwtService := newJWT()
	m := NewAuthMiddleware(jwtService)

	r := gin.New()
	r.GET("/staff", m.JWTAuth(), m.StaffRequired(), func(c *gin.Context) { c.Status(http.StatusNoContent) })
	r.GET("/open", m.RoleRequired(models.RoleAdmin), func(c *gin.Context) { c.Status(http.StatusNoContent) })

	tests := []struct {
		role models.RoleType
		want int
	}{
		{models.RoleStudent, http.StatusForbidden},
		{models.RoleAgent, http.StatusNoContent},
		{models.RoleAdmin, http.StatusNoContent},
	}
	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/staff", nil)
			req.Header.Set("Authorization", "Bearer "+tokenFor(t, jwtService, tt.role, "en"))
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.want, w.Code)
		})
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/open", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestHandleAPIError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   dto.ErrorCode
	}{
		{"not found", fmt.Errorf("load: %w", apperrors.ErrApplicationNotFound), http.StatusNotFound, dto.ErrorCodeResourceNotFound},
		{"generic not found", apperrors.NewResourceNotFoundError("missing"), http.StatusNotFound, dto.ErrorCodeResourceNotFound},
		{"bad request", apperrors.NewBadRequestError("bad"), http.StatusBadRequest, dto.ErrorCodeBadRequest},
		{"invalid status", apperrors.ErrInvalidStatus, http.StatusBadRequest, dto.ErrorCodeBadRequest},
		{"credentials", apperrors.ErrInvalidCredentials, http.StatusUnauthorized, dto.ErrorCodeInvalidCredentials},
		{"expired", apperrors.ErrTokenExpired, http.StatusUnauthorized, dto.ErrorCodeExpiredToken},
		{"disabled", apperrors.ErrAccountDisabled, http.StatusForbidden, dto.ErrorCodeAccountDisabled},
		{"forbidden", apperrors.ErrPermissionDenied, http.StatusForbidden, dto.ErrorCodeForbidden},
		{"email exists", apperrors.ErrEmailAlreadyExists, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists},
		{"conflict", apperrors.ErrUniversityHasPrograms, http.StatusConflict, dto.ErrorCodeConflict},
		{"too many", apperrors.ErrTooManyRequests, http.StatusTooManyRequests, dto.ErrorCodeTooManyRequests},
		{"step locked", apperrors.ErrStepLocked, http.StatusUnprocessableEntity, dto.ErrorCodeStepBlocked},
		{"photo", apperrors.ErrPhotoRequired, http.StatusUnprocessableEntity, dto.ErrorCodeStepBlocked},
		{"remote rejected", &remote.RejectedError{StatusCode: 422, Message: "bad passport"}, http.StatusBadGateway, dto.ErrorCodeExternalServiceError},
		{"unsupported file", apperrors.NewCustomError(apperrors.ErrUnsupportedFile, "type"), http.StatusBadRequest, dto.ErrorCodeUnsupportedFile},
		{"file too large", apperrors.NewCustomError(apperrors.ErrUnsupportedFile, "size").WithDetails(map[string]interface{}{"maxSize": 10}), http.StatusRequestEntityTooLarge, dto.ErrorCodeUnsupportedFile},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, dto.ErrorCodeInternalServer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
			c.Set(ContextLang, i18n.English)

			HandleAPIError(c, tt.err)

			assert.Equal(t, tt.status, w.Code)
			resp := decodeError(t, w)
			assert.False(t, resp.Success)
			assert.Equal(t, tt.code, resp.Error.Code)
			assert.NotEmpty(t, resp.Error.Message)
		})
	}
}

func TestHandleAPIError_RemoteRejectionMessage(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", nil)
	c.Set(ContextLang, i18n.English)

	HandleAPIError(c, fmt.Errorf("submit: %w", &remote.RejectedError{StatusCode: 422, Message: "bad passport"}))

	resp := decodeError(t, w)
	assert.Equal(t, i18n.T(i18n.English, i18n.KeyErrorRemoteRejected, "bad passport"), resp.Error.Message)
}

type signupForm struct {
	Email string `json:"email" validate:"required,email"`
	Name  string `json:"name" validate:"required"`
}

func TestBindJSON(t *testing.T) {
	r := gin.New()
	r.Use(Locale(i18n.English))
	r.POST("/", func(c *gin.Context) {
		var form signupForm
		if !BindJSON(c, &form) {
			return
		}
		c.String(http.StatusOK, form.Email)
	})

	send := func(body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	w := send(`{"email":"a@example.com","name":"Ali"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "a@example.com", w.Body.String())

	w = send(`{"email":"not-an-email","name":"Ali"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeError(t, w)
	assert.Equal(t, dto.ErrorCodeValidationFailed, resp.Error.Code)
	assert.Equal(t, "email", resp.Error.Field)

	w = send(`{`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, dto.ErrorCodeBadRequest, decodeError(t, w).Error.Code)
}

func TestParamID(t *testing.T) {
	r := gin.New()
	r.GET("/items/:id", func(c *gin.Context) {
		id, ok := ParamID(c, "id")
		if !ok {
			return
		}
		c.String(http.StatusOK, fmt.Sprint(id))
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/items/12", nil))
	assert.Equal(t, "12", w.Body.String())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/items/abc", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRateLimit(t *testing.T) {
	limiters := map[string]Limiter{
		"local": NewLocalLimiter(2, time.Minute),
		"store": NewStoreLimiter(kvstore.NewMemoryStore(), 2, time.Minute),
	}

	for name, limiter := range limiters {
		t.Run(name, func(t *testing.T) {
			r := gin.New()
			r.POST("/contact", RateLimit(limiter, time.Minute), func(c *gin.Context) { c.Status(http.StatusNoContent) })

			codes := make([]int, 0, 3)
			for i := 0; i < 3; i++ {
				w := httptest.NewRecorder()
				r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/contact", nil))
				codes = append(codes, w.Code)
				if w.Code == http.StatusTooManyRequests {
					assert.Equal(t, "60", w.Header().Get("Retry-After"))
				}
			}
			assert.Equal(t, []int{http.StatusNoContent, http.StatusNoContent, http.StatusTooManyRequests}, codes)
		})
	}
}

func TestRequestLogger(t *testing.T) {
	var buf strings.Builder
	log := zerolog.New(&buf)

	r := gin.New()
	r.Use(RequestLogger(log))
	r.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Contains(t, buf.String(), `"path":"/health"`)
	assert.Contains(t, buf.String(), `"status":200`)
}
