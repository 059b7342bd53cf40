package httpapi

import (
	"net/http"
	"strconv"

	"postsapi/internal/adapters/httpapi/middleware"
	"postsapi/internal/core/apperror"
	userPort "postsapi/internal/ports/user"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var statusByKind = map[apperror.Kind]int{
	apperror.NotFound:     http.StatusNotFound,
	apperror.Forbidden:    http.StatusForbidden,
	apperror.Conflict:     http.StatusConflict,
	apperror.Unauthorized: http.StatusUnauthorized,
	apperror.Invalid:      http.StatusBadRequest,
}

// writeError renders err as {"detail": ...}. Anything that is not a domain
// error is a storage fault and is hidden behind a 500.
func writeError(c *gin.Context, logger *zap.Logger, err error) {
	kind := apperror.KindOf(err)
	if kind == apperror.Unauthorized {
		middleware.Unauthorized(c)
		return
	}
	if status, ok := statusByKind[kind]; ok {
		c.AbortWithStatusJSON(status, gin.H{"detail": err.Error()})
		return
	}

	logger.Error("request failed",
		zap.String("method", c.Request.Method),
		zap.String("route", c.FullPath()),
		zap.Error(err))
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"detail": "internal server error"})
}

func badRequest(c *gin.Context, detail string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"detail": detail})
}

// idParam parses the :id path parameter. A non-integer is a bad request;
// an integer no row can have (0, negative) renders notFound.
func idParam(c *gin.Context, logger *zap.Logger, notFound func(id int64) error) (uint, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		badRequest(c, "invalid id")
		return 0, false
	}
	if id <= 0 {
		writeError(c, logger, notFound(id))
		return 0, false
	}
	return uint(id), true
}

// currentUser returns the user stored by JWTAuthMiddleware.
func currentUser(c *gin.Context) (*userPort.UserDTO, bool) {
	v, exists := c.Get(middleware.CurrentUserKey)
	u, ok := v.(*userPort.UserDTO)
	if !exists || !ok {
		middleware.Unauthorized(c)
		return nil, false
	}
	return u, true
}
