package httpapi

import (
	"net/http"

	userapp "postsapi/internal/core/user/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type UserController struct {
	uc     UserUseCase
	logger *zap.Logger
}

func NewUserController(uc UserUseCase, logger *zap.Logger) *UserController {
	return &UserController{uc: uc, logger: logger}
}

func (ctl *UserController) RegisterUser(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid input")
		return
	}
	u, err := ctl.uc.RegisterUser(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		writeError(c, ctl.logger, err)
		return
	}
	c.JSON(http.StatusCreated, u)
}

func (ctl *UserController) GetUser(c *gin.Context) {
	id, ok := idParam(c, ctl.logger, userapp.UserNotFound)
	if !ok {
		return
	}
	u, err := ctl.uc.GetUser(c.Request.Context(), id)
	if err != nil {
		writeError(c, ctl.logger, err)
		return
	}
	c.JSON(http.StatusOK, u)
}
