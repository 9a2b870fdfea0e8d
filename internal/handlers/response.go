package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"Tasker/internal/dto"
	"Tasker/internal/paging"
	"Tasker/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

func respond(c *gin.Context, code int, data any) {
	c.JSON(code, dto.Success(code, data))
}

func fail(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, dto.Failure(code, message, c.Request.URL.Path))
}

// writeError maps service errors to HTTP statuses. Anything unrecognised is
// logged and reported as a bare 500.
func writeError(c *gin.Context, log zerolog.Logger, err error) {
	switch {
	case errors.Is(err, service.ErrDuplicateIdentity):
		fail(c, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		fail(c, http.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrNotFound):
		fail(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrInvalidDueDate),
		errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, paging.ErrInvalidPage):
		fail(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrUpdateFailed):
		log.Warn().Err(err).Str("path", c.Request.URL.Path).Msg("conditional write matched no rows")
		fail(c, http.StatusInternalServerError, err.Error())
	default:
		log.Error().Err(err).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Msg("request failed")
		fail(c, http.StatusInternalServerError, "internal error")
	}
}

// requestURL rebuilds the absolute URL of the current request; pagination
// links are derived from it. X-Forwarded-Proto is expected to reach here
// only from trusted proxies and is honoured for http and https alone.
func requestURL(c *gin.Context) string {
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	switch p := strings.ToLower(c.GetHeader("X-Forwarded-Proto")); p {
	case "http", "https":
		scheme = p
	}
	return scheme + "://" + c.Request.Host + c.Request.URL.RequestURI()
}

func parseID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		fail(c, http.StatusBadRequest, "invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}

// checkLimit rejects page sizes above max. Non-positive values are left
// to the paging package.
func checkLimit(c *gin.Context, limit, max int) bool {
	if max > 0 && limit > max {
		fail(c, http.StatusBadRequest, "limit must not exceed "+strconv.Itoa(max))
		return false
	}
	return true
}
