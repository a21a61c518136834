// Package handle 提供 HTTP 请求处理器的实现.
package handle

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/taskvault/pkg/internal/service"
	"github.com/yeisme/taskvault/pkg/rule"
)

func checkUser(c *gin.Context) (string, error) {
	// 提取用户：代理注入 Header 优先 -> query 参数 -> 默认 test-user（便于测试）
	user := c.GetHeader("X-Auth-Request-Email")
	if user == "" {
		user = c.GetHeader("X-Forwarded-Email")
	}

	if user == "" {
		user = c.Query("user")
	}
	// 测试默认值，不为 Release 模式时
	if user == "" && gin.Mode() != gin.ReleaseMode {
		user = "test-user@example.com"
	}

	user = strings.TrimSpace(user)

	// 使用 validator 验证用户名格式为 email
	if err := rule.ValidateVar(user, "required,email"); err != nil {
		return "", err
	}

	return user, nil
}

// uintParam 解析路径中的数字 ID 参数.
func uintParam(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)

	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})

		return 0, false
	}

	return uint(id), true
}

// errStatus 将业务错误映射为 HTTP 状态码.
func errStatus(err error) int {
	switch {
	case errors.Is(err, service.ErrProjectNotFound),
		errors.Is(err, service.ErrTaskNotFound),
		errors.Is(err, service.ErrCommentNotFound),
		errors.Is(err, service.ErrAttachmentNotFound),
		errors.Is(err, service.ErrNotificationNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrNotCommentAuthor):
		return http.StatusForbidden
	case errors.Is(err, service.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, service.ErrUnsupportedFileType):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, service.ErrInvalidFileName),
		errors.Is(err, service.ErrInvalidFileSize),
		errors.Is(err, service.ErrInvalidTransition),
		errors.Is(err, service.ErrBadDueDate),
		errors.Is(err, service.ErrBadMoveTarget),
		errors.Is(err, service.ErrProjectArchived):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// abortWith 统一错误响应.
func abortWith(c *gin.Context, err error) {
	c.JSON(errStatus(err), gin.H{"error": err.Error()})
}
