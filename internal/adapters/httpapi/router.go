package httpapi

import (
	"context"

	"postsapi/internal/adapters/httpapi/middleware"
	postPort "postsapi/internal/ports/post"
	tokenPort "postsapi/internal/ports/token"
	userPort "postsapi/internal/ports/user"
	votePort "postsapi/internal/ports/vote"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// UserUseCase: اینترفیسِ لازم برای کنترلر/روتر (Inbound Port)
type UserUseCase interface {
	RegisterUser(ctx context.Context, email, password string) (*userPort.UserDTO, error)
	GetUser(ctx context.Context, id uint) (*userPort.UserDTO, error)
}

type AuthUseCase interface {
	middleware.Authenticator
	LoginUser(ctx context.Context, email, password string) (*tokenPort.Token, error)
	Logout(ctx context.Context, claims *tokenPort.Claims) error
}

type PostUseCase interface {
	ListPosts(ctx context.Context, filter postPort.ListFilter, currentUserID uint) ([]*postPort.PostVoteDTO, error)
	ListMyPosts(ctx context.Context, filter postPort.ListFilter, currentUserID uint) ([]*postPort.PostVoteDTO, error)
	GetPost(ctx context.Context, id, currentUserID uint) (*postPort.PostVoteDTO, error)
	CreatePost(ctx context.Context, input postPort.PostInput, currentUserID uint) (*postPort.PostDTO, error)
	DeletePost(ctx context.Context, id, currentUserID uint) error
	UpdatePost(ctx context.Context, id uint, input postPort.PostInput, currentUserID uint) (*postPort.PostDTO, error)
}

type VoteUseCase interface {
	Vote(ctx context.Context, postID uint, dir votePort.Direction, currentUserID uint) (*votePort.VoteResult, error)
}

// فقط روتینگ: UseCase از بیرون تزریق می‌شود
func SetupRoutes(
	userUC UserUseCase,
	authUC AuthUseCase,
	postUC PostUseCase,
	voteUC VoteUseCase,
	limiter middleware.Limiter,
	health HealthChecks,
	logger *zap.Logger,
) *gin.Engine {
	r := gin.New()
	r.Use(middleware.ZapRecovery(logger), middleware.ZapLogger(logger))

	uc := NewUserController(userUC, logger)
	ac := NewAuthController(authUC, logger)
	pc := NewPostController(postUC, logger)
	vc := NewVoteController(voteUC, logger)
	hc := NewHealthController(health, logger)

	r.GET("/healthz", hc.Health)

	// routes without a token are limited per client IP
	public := r.Group("/", middleware.RateLimitMiddleware(limiter, logger))
	public.POST("/users/", uc.RegisterUser)
	public.POST("/login", ac.Login)

	authed := r.Group("/",
		middleware.JWTAuthMiddleware(authUC),
		middleware.RateLimitMiddleware(limiter, logger),
	)
	authed.GET("/users/:id", uc.GetUser)
	authed.POST("/logout", ac.Logout)

	posts := authed.Group("/posts")
	posts.GET("/", pc.ListPosts)
	posts.GET("/my_posts", pc.ListMyPosts)
	posts.GET("/:id", pc.GetPost)
	posts.POST("/", pc.CreatePost)
	posts.DELETE("/:id", pc.DeletePost)
	posts.PUT("/:id", pc.UpdatePost)

	authed.POST("/vote/", vc.Vote)

	return r
}
