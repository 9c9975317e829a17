package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Kamal-dev-1999/TejBharatNetwork-full-site-copy/internal/logger"
	"github.com/Kamal-dev-1999/TejBharatNetwork-full-site-copy/internal/middleware"
	"github.com/Kamal-dev-1999/TejBharatNetwork-full-site-copy/internal/services"
	"github.com/Kamal-dev-1999/TejBharatNetwork-full-site-copy/internal/utils"
)

// WriteError maps a service error to its HTTP response. Anything that is not
// a known client error is logged and reported as a generic server error.
func WriteError(c *gin.Context, log *logger.Logger, err error) {
	switch {
	case errors.Is(err, services.ErrMissingCategory):
		utils.ErrorResponse(c, http.StatusBadRequest, "Category parameter is missing")
	case errors.Is(err, services.ErrInvalidCategory):
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid category")
	case errors.Is(err, services.ErrInvalidID):
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid article id")
	case errors.Is(err, services.ErrMissingQuery):
		utils.ErrorResponse(c, http.StatusBadRequest, "Search query parameter 'q' is missing")
	case errors.Is(err, services.ErrNotFound):
		utils.ErrorResponse(c, http.StatusNotFound, "Article not found")
	default:
		log.Error("request failed",
			"request_id", middleware.RequestID(c),
			"path", c.Request.URL.Path,
			"error", err,
		)
		utils.ErrorResponse(c, http.StatusInternalServerError, "Server error")
	}
}
