package httpapi

import (
	"net/http"

	"postsapi/internal/adapters/httpapi/middleware"
	tokenPort "postsapi/internal/ports/token"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"go.uber.org/zap"
)

type AuthController struct {
	ac     AuthUseCase
	logger *zap.Logger
}

func NewAuthController(ac AuthUseCase, logger *zap.Logger) *AuthController {
	return &AuthController{ac: ac, logger: logger}
}

// Login accepts the OAuth2 password form (username holds the email) or a
// JSON body with email and password.
func (ctl *AuthController) Login(c *gin.Context) {
	var email, password string
	if c.ContentType() == binding.MIMEJSON {
		var req struct {
			Email    string `json:"email" binding:"required"`
			Password string `json:"password" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "invalid input")
			return
		}
		email, password = req.Email, req.Password
	} else {
		var req struct {
			Username string `form:"username" binding:"required"`
			Password string `form:"password" binding:"required"`
		}
		if err := c.ShouldBind(&req); err != nil {
			badRequest(c, "invalid input")
			return
		}
		email, password = req.Username, req.Password
	}

	tok, err := ctl.ac.LoginUser(c.Request.Context(), email, password)
	if err != nil {
		writeError(c, ctl.logger, err)
		return
	}
	c.JSON(http.StatusOK, tok)
}

func (ctl *AuthController) Logout(c *gin.Context) {
	v, _ := c.Get(middleware.ClaimsKey)
	claims, ok := v.(*tokenPort.Claims)
	if !ok {
		middleware.Unauthorized(c)
		return
	}
	if err := ctl.ac.Logout(c.Request.Context(), claims); err != nil {
		writeError(c, ctl.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}
