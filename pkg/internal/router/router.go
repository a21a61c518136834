// Package router 管理路由配置，将 HTTP 路径绑定到 pkg/internal/handle 中的处理器.
package router

import (
	"github.com/gin-gonic/gin"
)

// RegisterAll 在 /api/v1 下注册全部业务路由.
func RegisterAll(e *gin.Engine) {
	v1 := e.Group("/api/v1")

	RegisterProjectRoutes(v1)
	RegisterTaskRoutes(v1)
	RegisterAttachmentRoutes(v1)
	RegisterCommentRoutes(v1)
	RegisterNotificationRoutes(v1)
	RegisterPreferenceRoutes(v1)
	RegisterSearchRoutes(v1)
	RegisterSchedulerRoutes(v1)
	RegisterHealthCheckRoute(v1)
}
