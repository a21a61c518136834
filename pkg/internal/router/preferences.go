package router

import (
	"github.com/gin-gonic/gin"

	"github.com/yeisme/taskvault/pkg/internal/handle"
)

// RegisterPreferenceRoutes 注册用户偏好路由.
func RegisterPreferenceRoutes(g *gin.RouterGroup) {
	g.GET("/preferences/:key", handle.GetPreference)
	g.PUT("/preferences/:key", handle.SetPreference)
}
