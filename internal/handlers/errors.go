package handlers

import (
	"errors"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/gravadigital/convite-api/internal/ai"
	"github.com/gravadigital/convite-api/internal/auth"
	"github.com/gravadigital/convite-api/internal/domain/common"
	"github.com/gravadigital/convite-api/internal/domain/invitee"
	"github.com/gravadigital/convite-api/internal/domain/rsvp"
	"github.com/gravadigital/convite-api/internal/importer"
	"github.com/gravadigital/convite-api/internal/response"
	"github.com/gravadigital/convite-api/internal/services"
	"github.com/gravadigital/convite-api/internal/validation"
)

// respondError maps a service error to the response envelope. Unknown
// errors are logged and answered with fallback.
func respondError(c *gin.Context, l *log.Logger, err error, fallback string) {
	var fields validation.FieldErrors
	switch {
	case errors.As(err, &fields):
		response.ValidationError(c, "Validation failed", fields)
	case errors.Is(err, common.ErrNotFound):
		response.NotFoundError(c, "Record not found")
	case errors.Is(err, invitee.ErrNameNotFound):
		response.NotFoundError(c, "Name not found on the guest list. Check the spelling or contact the couple.")
	case errors.Is(err, invitee.ErrAmbiguousName):
		response.UnprocessableError(c, "More than one guest matches this name. Please type your full name.")
	case errors.Is(err, rsvp.ErrAlreadyConfirmed):
		response.ConflictError(c, "An RSVP was already sent for this name")
	case errors.Is(err, rsvp.ErrTooManyCompanions), errors.Is(err, rsvp.ErrCompanionsNotAllowed),
		errors.Is(err, rsvp.ErrCompanionIndex), errors.Is(err, rsvp.ErrNotVerified):
		response.BadRequestError(c, err.Error())
	case errors.Is(err, services.ErrManualLocked):
		response.UnauthorizedError(c, "The manual is password protected")
	case errors.Is(err, auth.ErrInvalidCredentials):
		response.UnauthorizedError(c, "Invalid credentials")
	case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrInsufficientScope):
		response.UnauthorizedError(c, err.Error())
	case errors.Is(err, importer.ErrUnknownColumn):
		response.ValidationError(c, "Validation failed", map[string]string{"map": err.Error()})
	case errors.Is(err, importer.ErrUnsupportedFormat):
		response.BadRequestError(c, err.Error())
	case errors.Is(err, importer.ErrUnparseable):
		response.UnprocessableError(c, err.Error())
	case errors.Is(err, ai.ErrNotConfigured):
		response.ServiceUnavailableError(c, "Message generation is not configured")
	case errors.Is(err, ai.ErrUpstream), errors.Is(err, ai.ErrEmptyOutput):
		l.Error("upstream failure", "path", c.FullPath(), "error", err)
		response.BadGatewayError(c, "Message generation failed, try again")
	default:
		l.Error(fallback, "path", c.FullPath(), "error", err)
		response.InternalServerError(c, fallback)
	}
}

// bindJSON decodes the body, answering 400 on failure
func bindJSON(c *gin.Context, l *log.Logger, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		l.Warn("invalid request payload", "path", c.FullPath(), "error", err)
		response.BadRequestError(c, "Invalid request payload: "+err.Error())
		return false
	}
	return true
}
