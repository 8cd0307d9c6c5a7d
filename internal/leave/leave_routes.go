package leave

import (
	"dataguard-hris/internal/middleware"
	"dataguard-hris/internal/rbac"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
	rdb *redis.Client,
	logger *zap.Logger,
) {
	leaves := r.Group("/leaves")
	leaves.Use(middleware.AuthMiddleware())
	leaves.Use(middleware.ContextLogger(logger))
	{
		leaves.POST("",
			middleware.RateLimitByUser(1, 3),
			middleware.RBACAuthorize(rbacService, "leave", "create"),
			middleware.Idempotency(rdb),
			handler.Submit,
		)
		leaves.GET("",
			middleware.RateLimitByUser(3, 10),
			middleware.RBACAuthorize(rbacService, "leave", "read"),
			handler.GetMine,
		)
		leaves.GET("/team",
			middleware.RateLimitByUser(3, 10),
			middleware.RBACAuthorize(rbacService, "leave", "manage_team"),
			handler.GetTeam,
		)
		leaves.GET("/pending",
			middleware.RateLimitByUser(3, 10),
			middleware.RBACAuthorize(rbacService, "leave", "approve"),
			handler.GetPending,
		)
		leaves.POST("/:id/manager-approve",
			middleware.RBACAuthorize(rbacService, "leave", "manage_team"),
			handler.ManagerApprove,
		)
		leaves.POST("/:id/manager-reject",
			middleware.RBACAuthorize(rbacService, "leave", "manage_team"),
			handler.ManagerReject,
		)
		leaves.POST("/:id/approve",
			middleware.RBACAuthorize(rbacService, "leave", "approve"),
			handler.Approve,
		)
		leaves.POST("/:id/reject",
			middleware.RBACAuthorize(rbacService, "leave", "approve"),
			handler.Reject,
		)
	}
}
