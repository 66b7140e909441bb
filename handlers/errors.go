package handlers

import (
	"log"
	"net/http"
	"strconv"

	"buzzboard/middleware"
	"buzzboard/services"

	"github.com/gin-gonic/gin"
)

func statusFor(kind services.ErrorKind) int {
	switch kind {
	case services.KindUnauthorized:
		return http.StatusUnauthorized
	case services.KindNotFound:
		return http.StatusNotFound
	case services.KindInvalidInput:
		return http.StatusBadRequest
	case services.KindIllegalTransition:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes err as {"error", "code"}. Internal errors are logged
// and replaced with a generic message.
func respondError(c *gin.Context, err error) {
	kind := services.KindOf(err)
	if kind == "" {
		log.Printf("%s %s: %v", c.Request.Method, c.FullPath(), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error", "code": "internal"})
		return
	}
	c.JSON(statusFor(kind), gin.H{"error": err.Error(), "code": kind})
}

func respondBindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": services.KindInvalidInput})
}

func currentUserID(c *gin.Context) (uint, bool) {
	userID, exists := c.Get(middleware.ContextUserID)
	if !exists {
		respondError(c, services.Unauthorizedf("user not authenticated"))
		return 0, false
	}
	return userID.(uint), true
}

func parseID(c *gin.Context, param, label string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(param), 10, 32)
	if err != nil || id == 0 {
		respondError(c, services.InvalidInputf("invalid %s id", label))
		return 0, false
	}
	return uint(id), true
}
