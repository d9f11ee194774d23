package serverutils

import (
	"errors"
	"fmt"
	"net/http/httptest"
	"testing"
	"time"

	"talentscout-be/internal/service"
	"talentscout-be/pkg/screening"
	"talentscout-be/pkg/security"
	"talentscout-be/pkg/sessionlock"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusFor(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
	}{
		{"fiber error", fiber.NewError(fiber.StatusTeapot, "tea"), fiber.StatusTeapot},
		{"validation", &ValidationErrors{Fields: map[string]string{"message": "required"}}, 400},
		{"empty input", screening.ErrEmptyInput, 400},
		{"consent", service.ErrConsentRequired, 400},
		{"export format", fmt.Errorf("export: %w", service.ErrUnsupportedExportFormat), 400},
		{"candidate missing", service.ErrCandidateNotFound, 404},
		{"session missing", service.ErrSessionNotFound, 404},
		{"session ended", screening.ErrSessionEnded, 409},
		{"lock timeout", sessionlock.ErrLockTimeout, 409},
		{"persistence", &service.PersistenceError{Op: "upsert", CandidateId: "c", Err: errors.New("down")}, 503},
		{"decryption", &security.DecryptionError{Err: errors.New("auth failed")}, 500},
		{"unknown", errors.New("boom"), 500},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			code, msg := StatusFor(tc.err)
			assert.Equal(t, tc.code, code)
			assert.NotEmpty(t, msg)
		})
	}

	_, msg := StatusFor(errors.New("pq: password authentication failed"))
	assert.Equal(t, "Internal server error", msg)
}

type sampleRequest struct {
	Message string `validate:"required,max=5"`
}

func TestValidateRequest(t *testing.T) {
	assert.NoError(t, ValidateRequest(&sampleRequest{Message: "hi"}))

	err := ValidateRequest(&sampleRequest{})
	var vErr *ValidationErrors
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, "required", vErr.Fields["message"])

	err = ValidateRequest(&sampleRequest{Message: "too long"})
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, "max", vErr.Fields["message"])
}

func signed(t *testing.T, secret, role string) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  "recruiter-1",
		"role": role,
		"exp":  time.Now().Add(time.Hour).Unix(),
	})
	s, err := tok.SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

func TestAdminMiddleware(t *testing.T) {
	app := fiber.New()
	app.Get("/admin", AdminMiddleware("s3cret"), func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	cases := []struct {
		name   string
		header string
		code   int
	}{
		{"no header", "", 401},
		{"wrong secret", "Bearer " + signed(t, "other", "admin"), 401},
		{"not admin", "Bearer " + signed(t, "s3cret", "candidate"), 403},
		{"admin", "Bearer " + signed(t, "s3cret", "admin"), 200},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/admin", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tc.code, resp.StatusCode)
		})
	}
}

func TestErrorHandlerMiddleware(t *testing.T) {
	app := fiber.New()
	app.Use(ErrorHandlerMiddleware())
	app.Get("/missing", func(c *fiber.Ctx) error { return service.ErrSessionNotFound })

	resp, err := app.Test(httptest.NewRequest("GET", "/missing", nil))
	require.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)
}
