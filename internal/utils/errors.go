package utils

import (
	"errors"

	"github.com/gin-gonic/gin"

	"telehealth-app-server/internal/apperrors"
)

// RespondError maps a domain error onto the standard response envelope.
func RespondError(c *gin.Context, err error) {
	var (
		validationErr *apperrors.ValidationError
		authErr       *apperrors.AuthorizationError
		notFoundErr   *apperrors.NotFoundError
		stateErr      *apperrors.InvalidStateError
		depErr        *apperrors.DependencyError
	)

	switch {
	case errors.As(err, &validationErr):
		BadRequest(c, validationErr.Msg)
	case errors.As(err, &authErr):
		Forbidden(c, authErr.Msg)
	case errors.As(err, &notFoundErr):
		NotFound(c, notFoundErr.Error())
	case errors.As(err, &stateErr):
		Conflict(c, stateErr.Msg)
	case errors.As(err, &depErr):
		ServiceUnavailable(c, "A backing service is unavailable, please retry")
	default:
		InternalServerError(c, err.Error())
	}
}
