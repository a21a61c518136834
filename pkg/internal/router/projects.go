package router

import (
	"github.com/gin-gonic/gin"

	"github.com/yeisme/taskvault/pkg/internal/handle"
	"github.com/yeisme/taskvault/pkg/middleware"
)

// RegisterProjectRoutes 注册项目相关路由.
func RegisterProjectRoutes(g *gin.RouterGroup) {
	projectRoutes := g.Group("/projects")
	{
		projectRoutes.POST("", handle.CreateProject)
		projectRoutes.GET("", handle.ListProjects)

		singleGroup := projectRoutes.Group("/:projectId")
		{
			singleGroup.GET("", handle.GetProject)
			singleGroup.PUT("", handle.UpdateProject)
			singleGroup.DELETE("", middleware.RequireMinRole(middleware.RoleManager), handle.DeleteProject)
			// 归档后项目只读，不再接受新任务
			singleGroup.POST("/archive", middleware.RequireMinRole(middleware.RoleManager), handle.ArchiveProject)
			singleGroup.GET("/stats", handle.ProjectStats)

			// 项目维度的任务视图
			singleGroup.POST("/tasks", handle.CreateTask)
			singleGroup.GET("/tasks", handle.ListTasks)
			singleGroup.GET("/board", handle.ProjectBoard)
			singleGroup.GET("/calendar", handle.ProjectCalendar)
		}
	}
}
