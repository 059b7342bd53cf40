package httpapi

import (
	"net/http"

	votePort "postsapi/internal/ports/vote"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type VoteController struct {
	vc     VoteUseCase
	logger *zap.Logger
}

func NewVoteController(vc VoteUseCase, logger *zap.Logger) *VoteController {
	return &VoteController{vc: vc, logger: logger}
}

func (ctl *VoteController) Vote(c *gin.Context) {
	u, ok := currentUser(c)
	if !ok {
		return
	}
	var req struct {
		PostID uint `json:"post_id" binding:"required"`
		Dir    *int `json:"dir" binding:"required,oneof=0 1"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid input")
		return
	}
	res, err := ctl.vc.Vote(c.Request.Context(), req.PostID, votePort.Direction(*req.Dir), u.ID)
	if err != nil {
		writeError(c, ctl.logger, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}
