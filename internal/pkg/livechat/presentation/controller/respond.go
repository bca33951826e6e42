package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/smartcoder-7/Webinar-backend-snippet/internal/pkg/livechat/application/usecase"
)

// respondError maps the use-case error taxonomy onto HTTP statuses.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, usecase.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, usecase.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, usecase.ErrConflict):
		status = http.StatusConflict
	}
	c.JSON(status, gin.H{"code": usecase.CodeOf(err), "error": err.Error()})
}
