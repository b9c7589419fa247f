package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/hemovault/bloodbank-api/internal/model"
	"github.com/hemovault/bloodbank-api/internal/repository"
	authservice "github.com/hemovault/bloodbank-api/internal/service/auth"
	jwtauth "github.com/hemovault/bloodbank-api/pkg/auth"
	apperrors "github.com/hemovault/bloodbank-api/pkg/errors"
)

type Response struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func NewSuccessResponse(data interface{}) *Response {
	return &Response{
		Status: "success",
		Data:   data,
	}
}

func NewErrorResponse(message string) *Response {
	return &Response{
		Status:  "error",
		Message: message,
	}
}

// RespondError maps service errors onto the HTTP taxonomy. Unknown errors
// become a generic 500 and are logged server-side only.
func RespondError(c *gin.Context, err error) {
	var appErr *apperrors.AppError

	switch {
	case errors.Is(err, model.ErrEmailExists):
		c.JSON(http.StatusConflict, NewErrorResponse(model.ErrEmailExists.Error()))
	case errors.Is(err, model.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, NewErrorResponse(model.ErrInvalidCredentials.Error()))
	case errors.Is(err, jwtauth.ErrInvalidToken),
		errors.Is(err, jwtauth.ErrExpiredToken),
		errors.Is(err, authservice.ErrTokenRevoked):
		c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized"))
	case errors.Is(err, repository.ErrInventoryUnavailable):
		c.JSON(http.StatusConflict, NewErrorResponse("inventory row is not available"))
	case errors.Is(err, repository.ErrNotFound):
		c.JSON(http.StatusNotFound, NewErrorResponse("not found"))
	case errors.As(err, &appErr):
		c.JSON(appErr.StatusCode(), NewErrorResponse(appErr.Message))
	default:
		log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("request failed")
		c.JSON(http.StatusInternalServerError, NewErrorResponse("internal server error"))
	}
}
