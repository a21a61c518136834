package router

import (
	"github.com/gin-gonic/gin"

	"github.com/yeisme/taskvault/pkg/internal/handle"
)

// RegisterNotificationRoutes 注册通知相关路由.
func RegisterNotificationRoutes(g *gin.RouterGroup) {
	notifyRoutes := g.Group("/notifications")
	{
		notifyRoutes.GET("", handle.ListNotifications)
		notifyRoutes.POST("/read", handle.MarkNotificationsRead)
	}
}
