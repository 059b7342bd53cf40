package middleware

import (
	"context"
	"net/http"
	"strings"

	tokenPort "postsapi/internal/ports/token"
	userPort "postsapi/internal/ports/user"

	"github.com/gin-gonic/gin"
)

// Context keys set by JWTAuthMiddleware.
const (
	CurrentUserKey = "currentUser"
	UserIDKey      = "userID"
	ClaimsKey      = "tokenClaims"
)

type Authenticator interface {
	Authenticate(ctx context.Context, raw string) (*userPort.UserDTO, *tokenPort.Claims, error)
}

// JWTAuthMiddleware rejects the request with 401 unless it carries a valid
// bearer token, and stores the resolved user in the gin context.
func JWTAuthMiddleware(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			Unauthorized(c)
			return
		}

		u, claims, err := auth.Authenticate(c.Request.Context(), raw)
		if err != nil {
			Unauthorized(c)
			return
		}

		c.Set(CurrentUserKey, u)
		c.Set(UserIDKey, u.ID)
		c.Set(ClaimsKey, claims)
		c.Next()
	}
}

// Unauthorized aborts with the 401 body and challenge header used for every
// authentication failure.
func Unauthorized(c *gin.Context) {
	c.Header("WWW-Authenticate", "Bearer")
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Could not validate credentials"})
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
