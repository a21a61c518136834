// Package api 汇总对外 HTTP 接口的注册入口.
package api

import (
	"github.com/gin-gonic/gin"

	"github.com/yeisme/taskvault/pkg/internal/router"
)

// RegisterGroup 将全部业务路由注册到传入的 gin 引擎.
func RegisterGroup(e *gin.Engine) *gin.Engine {
	router.RegisterAll(e)
	router.RegisterSwaggerRoute(e)

	return e
}
