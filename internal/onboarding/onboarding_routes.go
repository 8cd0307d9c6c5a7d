package onboarding

import (
	"dataguard-hris/internal/middleware"
	"dataguard-hris/internal/rbac"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService rbac.Service, logger *zap.Logger) {
	onboarding := r.Group("/onboarding")
	onboarding.Use(middleware.AuthMiddleware())
	onboarding.Use(middleware.ContextLogger(logger))
	{
		items := onboarding.Group("/items")
		{
			items.GET("",
				middleware.RBACAuthorize(rbacService, "onboarding", "read"),
				handler.ListItems,
			)
			items.POST("",
				middleware.RateLimitByUser(2, 5),
				middleware.RBACAuthorize(rbacService, "onboarding", "manage"),
				handler.CreateItem,
			)
			items.PUT("/:id",
				middleware.RateLimitByUser(2, 5),
				middleware.RBACAuthorize(rbacService, "onboarding", "manage"),
				handler.UpdateItem,
			)
			items.DELETE("/:id",
				middleware.RateLimitByUser(2, 5),
				middleware.RBACAuthorize(rbacService, "onboarding", "manage"),
				handler.DeleteItem,
			)
		}

		onboarding.POST("/assign",
			middleware.RateLimitByUser(2, 5),
			middleware.RBACAuthorize(rbacService, "onboarding", "manage"),
			handler.Assign,
		)
		onboarding.GET("/tasks",
			middleware.RBACAuthorize(rbacService, "onboarding", "read"),
			handler.ListTasks,
		)
		onboarding.POST("/tasks/:id/toggle",
			middleware.RBACAuthorize(rbacService, "onboarding", "update_own"),
			handler.Toggle,
		)
	}
}
