package httpapi

import (
	"context"
	"net/http"

	postapp "postsapi/internal/core/post/service"
	postPort "postsapi/internal/ports/post"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type PostController struct {
	pc     PostUseCase
	logger *zap.Logger
}

func NewPostController(pc PostUseCase, logger *zap.Logger) *PostController {
	return &PostController{pc: pc, logger: logger}
}

type listQuery struct {
	Limit  int    `form:"limit" binding:"min=0"`
	Skip   int    `form:"skip" binding:"min=0"`
	Search string `form:"search"`
}

// postRequest is the body of create and update. Title and content must be
// present but may be empty. It has no owner field; the owner is always the
// caller.
type postRequest struct {
	Title     *string `json:"title" binding:"required"`
	Content   *string `json:"content" binding:"required"`
	Published *bool   `json:"published"`
}

func (r postRequest) input() postPort.PostInput {
	published := true
	if r.Published != nil {
		published = *r.Published
	}
	return postPort.PostInput{Title: *r.Title, Content: *r.Content, Published: published}
}

func (ctl *PostController) ListPosts(c *gin.Context) {
	ctl.list(c, ctl.pc.ListPosts)
}

func (ctl *PostController) ListMyPosts(c *gin.Context) {
	ctl.list(c, ctl.pc.ListMyPosts)
}

func (ctl *PostController) GetPost(c *gin.Context) {
	u, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := idParam(c, ctl.logger, postapp.PostNotFound)
	if !ok {
		return
	}
	res, err := ctl.pc.GetPost(c.Request.Context(), id, u.ID)
	if err != nil {
		writeError(c, ctl.logger, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (ctl *PostController) CreatePost(c *gin.Context) {
	u, ok := currentUser(c)
	if !ok {
		return
	}
	var req postRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid input")
		return
	}
	res, err := ctl.pc.CreatePost(c.Request.Context(), req.input(), u.ID)
	if err != nil {
		writeError(c, ctl.logger, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

func (ctl *PostController) DeletePost(c *gin.Context) {
	u, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := idParam(c, ctl.logger, postapp.PostNotFound)
	if !ok {
		return
	}
	if err := ctl.pc.DeletePost(c.Request.Context(), id, u.ID); err != nil {
		writeError(c, ctl.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (ctl *PostController) UpdatePost(c *gin.Context) {
	u, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := idParam(c, ctl.logger, postapp.PostNotFound)
	if !ok {
		return
	}
	var req postRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid input")
		return
	}
	res, err := ctl.pc.UpdatePost(c.Request.Context(), id, req.input(), u.ID)
	if err != nil {
		writeError(c, ctl.logger, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

type listFunc func(ctx context.Context, filter postPort.ListFilter, currentUserID uint) ([]*postPort.PostVoteDTO, error)

func (ctl *PostController) list(c *gin.Context, fn listFunc) {
	u, ok := currentUser(c)
	if !ok {
		return
	}
	q := listQuery{Limit: postapp.DefaultLimit}
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, "limit and skip must be non-negative integers")
		return
	}
	res, err := fn(c.Request.Context(), postPort.ListFilter{Limit: q.Limit, Skip: q.Skip, Search: q.Search}, u.ID)
	if err != nil {
		writeError(c, ctl.logger, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
