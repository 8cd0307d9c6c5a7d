package performance

import (
	"dataguard-hris/internal/middleware"
	"dataguard-hris/internal/rbac"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService rbac.Service, logger *zap.Logger) {
	performance := r.Group("/performance")
	performance.Use(middleware.AuthMiddleware())
	performance.Use(middleware.ContextLogger(logger))
	{
		cycles := performance.Group("/cycles")
		{
			cycles.GET("",
				middleware.RBACAuthorize(rbacService, "performance", "read"),
				handler.ListCycles,
			)
			cycles.POST("",
				middleware.RateLimitByUser(2, 5),
				middleware.RBACAuthorize(rbacService, "performance", "manage_cycles"),
				handler.CreateCycle,
			)
			cycles.POST("/:id/status",
				middleware.RateLimitByUser(2, 5),
				middleware.RBACAuthorize(rbacService, "performance", "manage_cycles"),
				handler.AdvanceCycle,
			)
		}

		goals := performance.Group("/goals")
		{
			goals.GET("",
				middleware.RBACAuthorize(rbacService, "performance", "read"),
				handler.ListGoals,
			)
			goals.POST("",
				middleware.RateLimitByUser(2, 5),
				middleware.RBACAuthorize(rbacService, "performance", "manage_own"),
				handler.CreateGoal,
			)
			goals.PUT("/:id",
				middleware.RBACAuthorize(rbacService, "performance", "manage_own"),
				handler.UpdateGoal,
			)
		}
	}
}
