package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sajango/account-service/internal/dto"
	"github.com/sajango/account-service/internal/service"
)

// respondError maps a service outcome to an HTTP status. The expected
// sentinels carry their own message; anything else is an unexpected failure
// and surfaces as a generic 500 with no detail leaked.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrAlreadyExists):
		c.JSON(http.StatusConflict, dto.ErrorResponse{
			Error:   "Conflict",
			Message: service.ErrAlreadyExists.Error(),
		})

	case errors.Is(err, service.ErrProviderMismatch):
		c.JSON(http.StatusConflict, dto.ErrorResponse{
			Error:   "Conflict",
			Message: service.ErrProviderMismatch.Error(),
		})

	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{
			Error:   "Unauthorized",
			Message: service.ErrInvalidCredentials.Error(),
		})

	case errors.Is(err, service.ErrInvalidToken):
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{
			Error:   "Unauthorized",
			Message: service.ErrInvalidToken.Error(),
		})

	case errors.Is(err, service.ErrInvalidProviderToken):
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{
			Error:   "Unauthorized",
			Message: service.ErrInvalidProviderToken.Error(),
		})

	case errors.Is(err, service.ErrAccountDeactivated):
		c.JSON(http.StatusForbidden, dto.ErrorResponse{
			Error:   "Forbidden",
			Message: service.ErrAccountDeactivated.Error(),
		})

	case errors.Is(err, service.ErrUserNotFound):
		c.JSON(http.StatusNotFound, dto.ErrorResponse{
			Error:   "Not found",
			Message: service.ErrUserNotFound.Error(),
		})

	case errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "Bad request",
			Message: err.Error(),
		})

	default:
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error:   "Internal server error",
			Message: "something went wrong",
		})
	}
}
