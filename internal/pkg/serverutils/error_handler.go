package serverutils

import (
	"errors"

	"talentscout-be/internal/service"
	"talentscout-be/pkg/screening"
	"talentscout-be/pkg/security"
	"talentscout-be/pkg/sessionlock"

	"github.com/gofiber/fiber/v2"
)

// StatusFor maps a service error onto an HTTP status and a message that is
// safe to show to the caller.
func StatusFor(err error) (int, string) {
	var (
		fiberErr      *fiber.Error
		validationErr *ValidationErrors
		persistErr    *service.PersistenceError
		decryptErr    *security.DecryptionError
	)
	switch {
	case errors.As(err, &fiberErr):
		return fiberErr.Code, fiberErr.Message
	case errors.As(err, &validationErr):
		return fiber.StatusBadRequest, validationErr.Error()
	case errors.Is(err, screening.ErrEmptyInput),
		errors.Is(err, service.ErrConsentRequired),
		errors.Is(err, service.ErrUnsupportedExportFormat):
		return fiber.StatusBadRequest, err.Error()
	case errors.Is(err, service.ErrCandidateNotFound),
		errors.Is(err, service.ErrSessionNotFound):
		return fiber.StatusNotFound, err.Error()
	case errors.Is(err, screening.ErrSessionEnded),
		errors.Is(err, sessionlock.ErrLockTimeout):
		return fiber.StatusConflict, err.Error()
	case errors.As(err, &persistErr):
		return fiber.StatusServiceUnavailable, "Storage is temporarily unavailable, please retry"
	case errors.As(err, &decryptErr):
		return fiber.StatusInternalServerError, "Stored record could not be read"
	}
	return fiber.StatusInternalServerError, "Internal server error"
}

func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}
		code, message := StatusFor(err)
		return ctx.Status(code).JSON(ErrorResponse(code, message))
	}
}
