package handle

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/taskvault/pkg/internal/service"
	"github.com/yeisme/taskvault/pkg/internal/types"
	"github.com/yeisme/taskvault/pkg/log"
	"github.com/yeisme/taskvault/pkg/middleware"
)

// ListNotifications 当前用户的通知列表.
//
//	@Summary		通知列表
//	@Description	按创建时间从新到旧返回，unread=true 时只返回未读
//	@Tags			通知
//	@Produce		json
//	@Param			unread		query		bool	false	"只看未读"
//	@Param			page		query		int		false	"页码"
//	@Param			page_size	query		int		false	"每页条数"
//	@Success		200			{object}	types.ListNotificationsResponse
//	@Failure		400			{object}	map[string]string
//	@Router			/api/v1/notifications [get]
func ListNotifications(c *gin.Context) {
	l := log.Logger()

	var req types.ListNotificationsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := checkUser(c)
	if user == "" || err != nil {
		l.Warn().Err(err).Msg("missing or invalid user")
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing user"})

		return
	}

	svc := service.NewNotificationService(c.Request.Context(), middleware.GetState(c))

	resp, err := svc.List(c.Request.Context(), user, &req)
	if err != nil {
		l.Error().Err(err).Str("recipient", user).Msg("list notifications failed")
		abortWith(c, err)

		return
	}

	c.JSON(http.StatusOK, resp)
}

// MarkNotificationsRead 标记通知为已读.
//
//	@Summary		标记已读
//	@Description	ids 为空时标记当前用户全部未读通知
//	@Tags			通知
//	@Accept			json
//	@Produce		json
//	@Param			body	body		types.MarkNotificationsReadRequest	true	"要标记的通知 ID 列表"
//	@Success		200		{object}	map[string]int64
//	@Failure		400		{object}	map[string]string
//	@Router			/api/v1/notifications/read [post]
func MarkNotificationsRead(c *gin.Context) {
	l := log.Logger()

	var req types.MarkNotificationsReadRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := checkUser(c)
	if user == "" || err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing user"})
		return
	}

	svc := service.NewNotificationService(c.Request.Context(), middleware.GetState(c))

	updated, err := svc.MarkRead(c.Request.Context(), user, req.IDs)
	if err != nil {
		l.Error().Err(err).Str("recipient", user).Msg("mark notifications read failed")
		abortWith(c, err)

		return
	}

	c.JSON(http.StatusOK, gin.H{"updated": updated})
}
