package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wpendl99/jwt-pizza-service/apperr"
	"github.com/wpendl99/jwt-pizza-service/logger"
)

// respondError maps a domain error to its caller-facing status and
// message. Anything unexpected becomes a generic 500; raw store errors
// never reach the caller.
func respondError(c *gin.Context, err error) {
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		if appErr.Kind == apperr.KindInternal && appErr.Err != nil {
			logger.UnhandledError(appErr.Err)
		}
		c.JSON(appErr.Status, gin.H{"message": appErr.Message})
		return
	}
	logger.UnhandledError(err)
	c.JSON(http.StatusInternalServerError, gin.H{"message": "internal server error"})
}
