// Package handlers defines HTTP-layer error codes used across all API endpoints.
//
// This file centralizes symbolic error code constants that are mapped to HTTP responses
// (via the `fail()` helper in this package). These codes provide clients with a stable,
// machine-readable error taxonomy that supplements human-readable messages.
//
// Conventions:
//   - Codes are lowercase, snake_case, and domain-agnostic unless explicitly noted.
//   - Generic codes (e.g., bad_request, unauthorized, conflict) mirror common HTTP
//     status semantics to aid interoperability.
//   - Domain-specific codes (e.g., answer_failed, email_failed) are reserved for
//     business logic errors that cannot be conveyed by status alone.
//   - All error responses must include both an HTTP status and one of these codes.
//
// Usage:
//   - Handlers select the most specific matching code and pass it to `fail()` along
//     with the corresponding HTTP status and message.
//   - Clients are expected to branch on these codes for programmatic error handling.
//
// Example response:
//
//	{
//	  "request_id": "e1b9be03-4999-4289-9f03-999b042d65d6",
//	  "code": "conflict",
//	  "message": "user is already a member of this chat room"
//	}
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/teamchat/go-team-chat/internal/ai"
	"github.com/teamchat/go-team-chat/internal/services"
)

const (
	ErrCodeBadRequest   = "bad_request"
	ErrCodeUnauthorized = "unauthorized"
	ErrCodeForbidden    = "forbidden"
	ErrCodeNotFound     = "not_found"
	ErrCodeConflict     = "conflict"
	ErrCodeRateLimited  = "too_many_requests"
	ErrCodeInternal     = "internal_error"

	// Domain-specific:
	ErrCodeAnswerFailed     = "answer_failed"
	ErrCodeEmailFailed      = "email_failed"
	ErrCodeMethodNotAllowed = "method_not_allowed"
)

// failErr maps known service sentinels onto the HTTP error taxonomy and
// writes the corresponding ErrorResponse. Unknown errors become 500s with
// a generic message so internal details never leak to clients.
func failErr(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrEmptyName),
		errors.Is(err, services.ErrEmptyMessage),
		errors.Is(err, services.ErrMissingParameter),
		errors.Is(err, services.ErrInvalidEmail),
		errors.Is(err, services.ErrSelfConversation):
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())

	case errors.Is(err, services.ErrNotMember),
		errors.Is(err, services.ErrNotModerator),
		errors.Is(err, services.ErrNotParticipant),
		errors.Is(err, services.ErrCannotRemoveCreator):
		fail(c, http.StatusForbidden, ErrCodeForbidden, err.Error())

	case errors.Is(err, services.ErrRoomNotFound),
		errors.Is(err, services.ErrConversationNotFound),
		errors.Is(err, services.ErrNotificationNotFound),
		errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrAIConversationNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, err.Error())

	case errors.Is(err, services.ErrAlreadyMember):
		fail(c, http.StatusConflict, ErrCodeConflict, err.Error())

	case errors.Is(err, services.ErrEmailFailed):
		fail(c, http.StatusBadGateway, ErrCodeEmailFailed, err.Error())

	case errors.Is(err, ai.ErrProviderFailure),
		errors.Is(err, ai.ErrNotConfigured):
		fail(c, http.StatusBadGateway, ErrCodeAnswerFailed, err.Error())

	default:
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "unexpected server error")
	}
}
