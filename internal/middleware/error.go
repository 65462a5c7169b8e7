package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"bloodlink/internal/domain"
	"bloodlink/internal/service/auth"
)

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	TraceID string `json:"trace_id,omitempty"`
}

func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	errorCode := "INTERNAL_ERROR"
	message := "Internal server error"

	if status, label, ok := mapDomainError(err); ok {
		code = status
		errorCode = label
		message = err.Error()
	} else if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message

		switch code {
		case fiber.StatusBadRequest:
			errorCode = "BAD_REQUEST"
		case fiber.StatusUnauthorized:
			errorCode = "UNAUTHORIZED"
		case fiber.StatusForbidden:
			errorCode = "FORBIDDEN"
		case fiber.StatusNotFound:
			errorCode = "NOT_FOUND"
		case fiber.StatusConflict:
			errorCode = "CONFLICT"
		case fiber.StatusUnprocessableEntity:
			errorCode = "VALIDATION_ERROR"
		}
	}

	traceID := uuid.New().String()[:8]

	return c.Status(code).JSON(ErrorResponse{
		Code:    errorCode,
		Message: message,
		TraceID: traceID,
	})
}

func mapDomainError(err error) (int, string, bool) {
	switch {
	case errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrRequestNotFound),
		errors.Is(err, domain.ErrMatchNotFound):
		return fiber.StatusNotFound, "NOT_FOUND", true

	case errors.Is(err, domain.ErrNotMatchParty),
		errors.Is(err, domain.ErrNotDonor):
		return fiber.StatusForbidden, "FORBIDDEN", true

	case errors.Is(err, domain.ErrMatchExpired):
		return fiber.StatusGone, "MATCH_EXPIRED", true

	case errors.Is(err, domain.ErrMatchResolved),
		errors.Is(err, domain.ErrMatchConflict),
		errors.Is(err, domain.ErrDuplicateMatch),
		errors.Is(err, domain.ErrRequestAlreadyCancelled),
		errors.Is(err, domain.ErrRequestAlreadyMatched):
		return fiber.StatusConflict, "CONFLICT", true

	case errors.Is(err, domain.ErrInvalidDecision),
		errors.Is(err, domain.ErrInvalidRole),
		errors.Is(err, domain.ErrInvalidBloodType):
		return fiber.StatusBadRequest, "BAD_REQUEST", true

	case errors.Is(err, domain.ErrUsernameTaken),
		errors.Is(err, domain.ErrEmailTaken):
		return fiber.StatusConflict, "CONFLICT", true

	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrInvalidToken):
		return fiber.StatusUnauthorized, "UNAUTHORIZED", true
	}

	return 0, "", false
}

func BadRequest(message string) *fiber.Error {
	return fiber.NewError(fiber.StatusBadRequest, message)
}

func Unauthorized(message string) *fiber.Error {
	return fiber.NewError(fiber.StatusUnauthorized, message)
}

func Forbidden(message string) *fiber.Error {
	return fiber.NewError(fiber.StatusForbidden, message)
}

func NotFound(message string) *fiber.Error {
	return fiber.NewError(fiber.StatusNotFound, message)
}

func Conflict(message string) *fiber.Error {
	return fiber.NewError(fiber.StatusConflict, message)
}

func UnprocessableEntity(message string) *fiber.Error {
	return fiber.NewError(fiber.StatusUnprocessableEntity, message)
}
