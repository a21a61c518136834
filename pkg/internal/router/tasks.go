package router

import (
	"github.com/gin-gonic/gin"

	"github.com/yeisme/taskvault/pkg/internal/handle"
)

// RegisterTaskRoutes 注册任务相关路由.
func RegisterTaskRoutes(g *gin.RouterGroup) {
	taskRoutes := g.Group("/tasks/:taskId")
	{
		taskRoutes.GET("", handle.GetTask)
		taskRoutes.PUT("", handle.UpdateTask)
		taskRoutes.DELETE("", handle.DeleteTask)

		// 工作流操作
		taskRoutes.POST("/status", handle.ChangeTaskStatus)
		taskRoutes.POST("/assign", handle.AssignTask)
		taskRoutes.POST("/move", handle.MoveTask)
	}
}
