package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/tasklane/tasklane/internal/domain/apperror"
	"github.com/tasklane/tasklane/pkg/response"
)

// respondError maps the domain error taxonomy onto HTTP status codes:
// Validation -> 400, NotFound -> 404, Conflict/Invariant -> 409, anything
// else -> 500 with no domain details leaked.
func respondError(c *gin.Context, logger *logrus.Logger, err error) {
	switch apperror.KindOf(err) {
	case apperror.Validation:
		response.Error[any](c, http.StatusBadRequest, err.Error(), nil)
	case apperror.NotFound:
		response.Error[any](c, http.StatusNotFound, err.Error(), nil)
	case apperror.Conflict, apperror.Invariant:
		response.Error[any](c, http.StatusConflict, err.Error(), nil)
	default:
		if logger != nil {
			logger.WithError(err).WithField("path", c.FullPath()).Error("unhandled error")
		}
		response.Error[any](c, http.StatusInternalServerError, "internal error", nil)
	}
}
