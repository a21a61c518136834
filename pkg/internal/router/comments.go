package router

import (
	"github.com/gin-gonic/gin"

	"github.com/yeisme/taskvault/pkg/internal/handle"
)

// RegisterCommentRoutes 注册评论相关路由.
func RegisterCommentRoutes(g *gin.RouterGroup) {
	g.POST("/tasks/:taskId/comments", handle.CreateComment)
	g.GET("/tasks/:taskId/comments", handle.ListComments)
	g.DELETE("/comments/:commentId", handle.DeleteComment)
}
