package controller

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"talentscout-be/internal/dto"
	"talentscout-be/internal/pkg/logger"
	"talentscout-be/internal/pkg/serverutils"
	"talentscout-be/internal/repository/memory"
	"talentscout-be/internal/service"
	"talentscout-be/pkg/audit"
	"talentscout-be/pkg/interview"
	"talentscout-be/pkg/screening"
	"talentscout-be/pkg/security"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testJwtSecret = "test-secret"

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	log := logger.NewNopLogger()

	key, _, err := security.GenerateKey()
	require.NoError(t, err)
	cipher, err := security.NewCipherBox(key)
	require.NoError(t, err)

	factory := memory.NewRepositoryFactory(memory.NewStore())
	store := service.NewCandidateStoreService(factory, cipher, audit.NewLog(factory, log), log, 0)
	messenger := interview.NewMessenger(nil, "TalentScout", log)
	screeningSvc := service.NewScreeningService(service.ScreeningDeps{
		Machine:   screening.NewMachine(store, interview.NewQuestionGenerator(nil, log), messenger, log, 5),
		Sessions:  memory.NewSessionRepository(time.Hour),
		Store:     store,
		Messenger: messenger,
		Logger:    log,
	})

	app := fiber.New()
	app.Use(serverutils.ErrorHandlerMiddleware())
	api := app.Group("/api")
	NewScreeningController(screeningSvc).RegisterRoutes(api)
	NewCandidateController(store).RegisterRoutes(api)
	NewAdminController(service.NewAdminService(store, nil, log), testJwtSecret).RegisterRoutes(api)
	return app
}

func do(t *testing.T, app *fiber.App, method, path string, body interface{}, header map[string]string) (int, []byte, http.Header) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range header {
		req.Header.Set(k, v)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, raw, resp.Header
}

func startSession(t *testing.T, app *fiber.App) string {
	t.Helper()
	code, raw, _ := do(t, app, "POST", "/api/screening/v1/sessions", dto.StartSessionRequest{Consent: true}, nil)
	require.Equal(t, http.StatusCreated, code, string(raw))
	var res serverutils.Response[dto.StartSessionResponse]
	require.NoError(t, json.Unmarshal(raw, &res))
	return res.Data.CandidateId
}

func adminToken(t *testing.T) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  "recruiter-1",
		"role": "admin",
		"exp":  time.Now().Add(time.Hour).Unix(),
	})
	s, err := tok.SignedString([]byte(testJwtSecret))
	require.NoError(t, err)
	return "Bearer " + s
}

func TestScreeningRoutes(t *testing.T) {
	app := newTestApp(t)

	code, _, _ := do(t, app, "POST", "/api/screening/v1/sessions", dto.StartSessionRequest{Consent: false}, nil)
	assert.Equal(t, http.StatusBadRequest, code)

	id := startSession(t, app)

	code, _, _ = do(t, app, "POST", "/api/screening/v1/sessions/"+id+"/messages", dto.SendMessageRequest{Message: ""}, nil)
	assert.Equal(t, http.StatusBadRequest, code)

	code, _, _ = do(t, app, "POST", "/api/screening/v1/sessions/candidate_nope/messages", dto.SendMessageRequest{Message: "hi"}, nil)
	assert.Equal(t, http.StatusNotFound, code)

	code, raw, _ := do(t, app, "POST", "/api/screening/v1/sessions/"+id+"/messages", dto.SendMessageRequest{Message: "Asha Rao"}, nil)
	require.Equal(t, http.StatusOK, code, string(raw))
	var res serverutils.Response[dto.SendMessageResponse]
	require.NoError(t, json.Unmarshal(raw, &res))
	assert.Equal(t, "COLLECTING_EMAIL", res.Data.Stage)

	code, raw, _ = do(t, app, "GET", "/api/screening/v1/sessions/"+id, nil, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(raw), "COLLECTING_EMAIL")

	code, raw, _ = do(t, app, "GET", "/api/screening/v1/sessions/"+id+"/history", nil, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(raw), "Asha Rao")

	code, _, _ = do(t, app, "POST", "/api/screening/v1/sessions/"+id+"/messages", dto.SendMessageRequest{Message: "bye"}, nil)
	require.Equal(t, http.StatusOK, code)

	code, _, _ = do(t, app, "POST", "/api/screening/v1/sessions/"+id+"/messages", dto.SendMessageRequest{Message: "hello again"}, nil)
	assert.Equal(t, http.StatusConflict, code)
}

func TestCandidateRoutes(t *testing.T) {
	app := newTestApp(t)
	id := startSession(t, app)
	for _, msg := range []string{"Asha Rao", "asha@x.com", "exit"} {
		code, raw, _ := do(t, app, "POST", "/api/screening/v1/sessions/"+id+"/messages", dto.SendMessageRequest{Message: msg}, nil)
		require.Equal(t, http.StatusOK, code, string(raw))
	}

	code, raw, _ := do(t, app, "GET", "/api/candidates/v1/"+id, nil, nil)
	require.Equal(t, http.StatusOK, code)
	var got serverutils.Response[dto.CandidateRecordDocument]
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, "Asha Rao", got.Data.FullName)
	assert.Equal(t, "asha@x.com", got.Data.Email)

	code, raw, header := do(t, app, "GET", "/api/candidates/v1/"+id+"/export?format=CSV", nil, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, header.Get("Content-Type"), "text/csv")
	assert.Contains(t, string(raw), "candidate_id,full_name")

	code, raw, _ = do(t, app, "GET", "/api/candidates/v1/"+id+"/export", nil, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(raw), `"candidate_id": "`+id+`"`)

	code, _, _ = do(t, app, "GET", "/api/candidates/v1/"+id+"/export?format=xml", nil, nil)
	assert.Equal(t, http.StatusBadRequest, code)

	code, _, _ = do(t, app, "DELETE", "/api/candidates/v1/"+id, nil, nil)
	assert.Equal(t, http.StatusOK, code)
	code, _, _ = do(t, app, "DELETE", "/api/candidates/v1/"+id, nil, nil)
	assert.Equal(t, http.StatusNotFound, code)
	code, _, _ = do(t, app, "GET", "/api/candidates/v1/"+id, nil, nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestAdminRoutes(t *testing.T) {
	app := newTestApp(t)
	id := startSession(t, app)
	for _, msg := range []string{"Asha Rao", "asha@x.com", "quit"} {
		code, _, _ := do(t, app, "POST", "/api/screening/v1/sessions/"+id+"/messages", dto.SendMessageRequest{Message: msg}, nil)
		require.Equal(t, http.StatusOK, code)
	}

	code, _, _ := do(t, app, "GET", "/api/admin/v1/candidates", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, code)

	auth := map[string]string{"Authorization": adminToken(t)}

	code, raw, _ := do(t, app, "GET", "/api/admin/v1/candidates?page=1&limit=10", nil, auth)
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(raw), id)
	assert.NotContains(t, string(raw), "asha@x.com")
	assert.NotContains(t, string(raw), "Asha Rao")

	code, raw, _ = do(t, app, "GET", "/api/admin/v1/audit?candidate_id="+id, nil, auth)
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(raw), "DATA_CREATED")

	code, raw, _ = do(t, app, "POST", "/api/admin/v1/retention/sweep", nil, auth)
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(raw), `"deleted":0`)

	code, _, _ = do(t, app, "GET", "/api/admin/v1/logs", nil, auth)
	assert.Equal(t, http.StatusOK, code)
}
