package router

import (
	"github.com/gin-gonic/gin"

	"github.com/yeisme/taskvault/pkg/internal/handle"
)

// RegisterAttachmentRoutes 注册附件相关路由.
func RegisterAttachmentRoutes(g *gin.RouterGroup) {
	// 任务维度：上传与列表
	taskGroup := g.Group("/tasks/:taskId/attachments")
	{
		taskGroup.POST("", handle.UploadAttachment)
		taskGroup.GET("", handle.ListAttachments)
		taskGroup.GET("/:fileName/versions", handle.ListAttachmentVersions)
	}

	// 版本记录维度：恢复、删除、下载
	recordGroup := g.Group("/attachments/:attachmentId")
	{
		recordGroup.POST("/restore", handle.RestoreAttachment)
		recordGroup.DELETE("", handle.DeleteAttachment)
		recordGroup.GET("/url", handle.AttachmentDownloadURL)
	}
}
