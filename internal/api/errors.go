package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/personal-blog-api/internal/models"
	"github.com/personal-blog-api/internal/service"
	"github.com/personal-blog-api/internal/validation"
	"github.com/rs/zerolog"
)

const invalidDataMessage = "The given data was invalid."

// respondError maps a service error onto an HTTP response. Anything
// unrecognised is logged and reported as a 500.
func respondError(c *gin.Context, log zerolog.Logger, err error) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"message": invalidDataMessage,
			"errors":  verr.Fields,
		})
	case errors.Is(err, service.ErrSlugTaken):
		c.JSON(http.StatusConflict, gin.H{
			"message": invalidDataMessage,
			"errors":  validation.Errors{"slug": {"The slug has already been taken."}},
		})
	case errors.Is(err, service.ErrEmailTaken):
		c.JSON(http.StatusConflict, gin.H{
			"message": invalidDataMessage,
			"errors":  validation.Errors{"email": {"The email has already been taken."}},
		})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	case errors.Is(err, service.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthenticated."})
	default:
		log.Error().
			Err(err).
			Str("request_id", c.GetString("request_id")).
			Str("path", c.Request.URL.Path).
			Msg("Request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

// badRequest reports a body that could not be decoded at all
func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
}

// idParam parses a positive numeric path parameter. A malformed id cannot
// match any row, so it is reported as not found.
func idParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id < 1 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		return 0, false
	}
	return id, true
}

// pageRequest reads ?page=N. Malformed values fall back to the first page
// and huge ones are clamped to MaxPage.
func pageRequest(c *gin.Context, perPage int) models.PageRequest {
	page, err := strconv.Atoi(c.Query("page"))
	if err != nil || page < 1 {
		page = 1
	}
	if page > models.MaxPage {
		page = models.MaxPage
	}
	return models.PageRequest{Page: page, PerPage: perPage}
}
