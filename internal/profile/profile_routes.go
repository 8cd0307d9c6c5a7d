package profile

import (
	"dataguard-hris/internal/middleware"
	"dataguard-hris/internal/rbac"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
	logger *zap.Logger,
) {
	staff := r.Group("/staff")
	staff.Use(middleware.AuthMiddleware())
	staff.Use(middleware.ContextLogger(logger))
	{
		staff.GET("",
			middleware.RateLimitByUser(3, 10),
			middleware.RBACAuthorize(rbacService, "profile", "read"),
			handler.GetAll,
		)
		staff.GET("/options",
			middleware.RateLimitByUser(5, 20),
			middleware.RBACAuthorize(rbacService, "profile", "read"),
			handler.GetOptions,
		)
		staff.GET("/:id",
			middleware.RateLimitByUser(3, 10),
			middleware.RBACAuthorize(rbacService, "profile", "read"),
			handler.GetById,
		)
		staff.POST("",
			middleware.RateLimitByUser(0.5, 2),
			middleware.RBACAuthorize(rbacService, "staff", "manage"),
			handler.Create,
		)
		staff.PUT("/:id",
			middleware.RateLimitByUser(0.5, 2),
			middleware.RBACAuthorize(rbacService, "staff", "manage"),
			handler.Update,
		)
		staff.DELETE("/:id",
			middleware.RateLimitByUser(0.1, 1),
			middleware.RBACAuthorize(rbacService, "staff", "manage"),
			handler.Delete,
		)
	}

	profile := r.Group("/profile")
	profile.Use(middleware.AuthMiddleware())
	profile.Use(middleware.ContextLogger(logger))
	{
		profile.GET("/me",
			middleware.RBACAuthorize(rbacService, "profile", "read"),
			handler.GetMe,
		)
		profile.POST("/corrections",
			middleware.RateLimitByUser(0.5, 2),
			middleware.RBACAuthorize(rbacService, "profile", "request_correction"),
			handler.SubmitCorrection,
		)
		profile.GET("/corrections",
			middleware.RBACAuthorize(rbacService, "profile", "review_correction"),
			handler.ListCorrections,
		)
		profile.POST("/corrections/:id/approve",
			middleware.RBACAuthorize(rbacService, "profile", "review_correction"),
			handler.ApproveCorrection,
		)
		profile.POST("/corrections/:id/reject",
			middleware.RBACAuthorize(rbacService, "profile", "review_correction"),
			handler.RejectCorrection,
		)
	}
}
