package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"pilot_logbook/internal/middleware"
	"pilot_logbook/internal/store"
)

// respondError maps store errors onto HTTP responses. Unexpected errors are
// logged and answered with a generic message.
func respondError(c *gin.Context, err error, what string) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": what + " not found"})
	case errors.Is(err, store.ErrDuplicate):
		c.JSON(http.StatusConflict, gin.H{"error": what + " already exists"})
	default:
		middleware.Log(c).WithError(err).Errorf("%s: request failed", what)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server Error"})
	}
}

// uintParam parses a positive integer path parameter, answering 400 when it is not one.
func uintParam(c *gin.Context, name string) (uint, bool) {
	v, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || v == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return uint(v), true
}

// authorize answers 403 when the caller may not act for userID.
func authorize(c *gin.Context, userID uint) bool {
	if !middleware.AuthorizedFor(c, userID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
		return false
	}
	return true
}
