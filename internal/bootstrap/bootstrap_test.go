package bootstrap

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/edupath/internal/config"
	"github.com/yigit/edupath/internal/pkg/events"
	"github.com/yigit/edupath/internal/pkg/filestorage"
	"github.com/yigit/edupath/internal/pkg/kvstore"
)

const adminPassword = "Admin123!"

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code string `json:"code"`
	} `json:"error"`
}

func newTestApp(t *testing.T) (*gin.Engine, *events.Recorder) {
	t.Helper()

	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("DB_DRIVER", "memory")
	t.Setenv("DB_ADMIN_PASSWORD", adminPassword)
	t.Setenv("SERVER_MODE", "production")
	t.Setenv("MESSAGING_AUTO_REPLY", "false")
	t.Setenv("STORAGE_LOCAL_PATH", t.TempDir())

	cfg, err := config.LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	storage, err := filestorage.NewLocalStorage(cfg.Storage.LocalPath, "http://localhost/uploads")
	require.NoError(t, err)

	recorder := &events.Recorder{}
	infra := &Infrastructure{
		KV:        kvstore.NewMemoryStore(),
		Storage:   storage,
		Publisher: recorder,
	}
	t.Cleanup(func() { infra.Close() })

	deps, err := BuildDependencies(context.Background(), cfg, infra, zerolog.Nop())
	require.NoError(t, err)

	return SetupRouter(cfg, deps, zerolog.Nop()), recorder
}

func do(t *testing.T, router *gin.Engine, method, path, token string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	}
	return w, env
}

func tokenFrom(t *testing.T, env envelope) string {
	t.Helper()
	var auth struct {
		Token struct {
			AccessToken string `json:"accessToken"`
		} `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &auth))
	require.NotEmpty(t, auth.Token.AccessToken)
	return auth.Token.AccessToken
}

func TestApp_HealthAndSeededCatalog(t *testing.T) {
	router, _ := newTestApp(t)

	w, _ := do(t, router, http.MethodGet, "/api/v1/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, env := do(t, router, http.MethodGet, "/api/v1/universities", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var universities []map[string]interface{}
	require.NoError(t, json.Unmarshal(env.Data, &universities))
	assert.Len(t, universities, 3)

	w, env = do(t, router, http.MethodGet, "/api/v1/countries", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var countries []string
	require.NoError(t, json.Unmarshal(env.Data, &countries))
	assert.ElementsMatch(t, []string{"Malaysia", "Turkey"}, countries)
}

func TestApp_StudentSubmitsAndAdminReviews(t *testing.T) {
	router, recorder := newTestApp(t)

	w, env := do(t, router, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"email":     "student@example.com",
		"password":  "Passw0rd!",
		"firstName": "Ahmed",
		"lastName":  "Hassan",
		"language":  "en",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	studentToken := tokenFrom(t, env)

	w, env = do(t, router, http.MethodPost, "/api/v1/applications", studentToken, map[string]interface{}{
		"formData": map[string]interface{}{"passport": "P1234567", "photo": "photo.jpg"},
		"semester": "fall",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var submission struct {
		Application struct {
			ID     string `json:"id"`
			Status string `json:"status"`
		} `json:"application"`
		Outcome string `json:"outcome"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &submission))
	assert.Equal(t, "partial_success", submission.Outcome, "no admissions endpoint is configured")
	assert.Regexp(t, `^APP-\d{8}-\d{4}$`, submission.Application.ID)
	assert.Equal(t, "pending", submission.Application.Status)

	// Students are kept out of the back-office
	w, _ = do(t, router, http.MethodGet, "/api/v1/admin/applications", studentToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, env = do(t, router, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    "admin@edupath.app",
		"password": adminPassword,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	adminToken := tokenFrom(t, env)

	w, _ = do(t, router, http.MethodGet, "/api/v1/admin/applications", adminToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = do(t, router, http.MethodPatch, "/api/v1/admin/applications/"+submission.Application.ID+"/status", adminToken,
		map[string]string{"status": "review"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// The student is notified about both the submission and the status change
	w, env = do(t, router, http.MethodGet, "/api/v1/notifications/unread-count", studentToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var unread struct {
		UnreadCount int `json:"unreadCount"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &unread))
	assert.GreaterOrEqual(t, unread.UnreadCount, 2)

	var names []string
	for _, e := range recorder.Events() {
		names = append(names, e.Name)
	}
	assert.Contains(t, names, events.ApplicationSubmitted)
	assert.Contains(t, names, events.ApplicationStatusChanged)
}

func TestApp_UnauthenticatedRequestsAreRejected(t *testing.T) {
	router, _ := newTestApp(t)

	w, env := do(t, router, http.MethodGet, "/api/v1/notifications", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "AUTH_008", env.Error.Code)
}

func register(t *testing.T, router *gin.Engine, email string) string {
	t.Helper()
	w, env := do(t, router, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"email":     email,
		"password":  "Passw0rd!",
		"firstName": "Sara",
		"lastName":  "Yilmaz",
		"language":  "tr",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return tokenFrom(t, env)
}

func TestApp_WizardGuardsSteps(t *testing.T) {
	router, _ := newTestApp(t)
	owner := register(t, router, "owner@example.com")
	other := register(t, router, "other@example.com")

	w, env := do(t, router, http.MethodPost, "/api/v1/wizard/drafts", owner, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var draft struct {
		ID          string `json:"id"`
		CurrentStep int    `json:"currentStep"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &draft))
	assert.Equal(t, 1, draft.CurrentStep)

	w, _ = do(t, router, http.MethodGet, "/api/v1/wizard/drafts/"+draft.ID, other, nil)
	assert.Equal(t, http.StatusNotFound, w.Code, "drafts are private to their owner")

	w, env = do(t, router, http.MethodPut, "/api/v1/wizard/drafts/"+draft.ID+"/steps/3", owner,
		map[string]string{"highSchool": "Lycee"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "VAL_003", env.Error.Code)

	w, env = do(t, router, http.MethodPost, "/api/v1/wizard/drafts/"+draft.ID+"/next", owner, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "VAL_003", env.Error.Code)

	w, env = do(t, router, http.MethodPost, "/api/v1/wizard/drafts/"+draft.ID+"/back", owner, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(env.Data, &draft))
	assert.Equal(t, 1, draft.CurrentStep, "back never goes below the first step")
}
