package handle

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/taskvault/pkg/internal/service"
	"github.com/yeisme/taskvault/pkg/internal/types"
	"github.com/yeisme/taskvault/pkg/log"
	"github.com/yeisme/taskvault/pkg/middleware"
)

// CreateComment 在任务下发表评论.
//
//	@Summary		发表评论
//	@Description	正文中 @邮箱 形式的提及会触发站内通知
//	@Tags			评论
//	@Accept			json
//	@Produce		json
//	@Param			taskId	path		int							true	"任务 ID"
//	@Param			comment	body		types.CreateCommentRequest	true	"评论内容"
//	@Success		201		{object}	types.CommentInfo
//	@Failure		400		{object}	map[string]string
//	@Failure		404		{object}	map[string]string
//	@Router			/api/v1/tasks/{taskId}/comments [post]
func CreateComment(c *gin.Context) {
	l := log.Logger()

	taskID, ok := uintParam(c, "taskId")
	if !ok {
		return
	}

	var req types.CreateCommentRequest
	if err := c.ShouldBind(&req); err != nil {
		l.Warn().Err(err).Msg("invalid request")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

		return
	}

	user, err := checkUser(c)
	if user == "" || err != nil {
		l.Warn().Err(err).Msg("missing or invalid user")
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing user"})

		return
	}

	svc := service.NewCommentService(c.Request.Context(), middleware.GetState(c))

	comment, err := svc.Create(c.Request.Context(), taskID, user, &req)
	if err != nil {
		l.Error().Err(err).Uint("task_id", taskID).Msg("create comment failed")
		abortWith(c, err)

		return
	}

	c.JSON(http.StatusCreated, service.CommentToInfo(comment))
}

// ListComments 任务评论列表.
//
//	@Summary		评论列表
//	@Tags			评论
//	@Produce		json
//	@Param			taskId	path		int	true	"任务 ID"
//	@Success		200		{object}	types.ListCommentsResponse
//	@Failure		400		{object}	map[string]string
//	@Router			/api/v1/tasks/{taskId}/comments [get]
func ListComments(c *gin.Context) {
	taskID, ok := uintParam(c, "taskId")
	if !ok {
		return
	}

	svc := service.NewCommentService(c.Request.Context(), middleware.GetState(c))

	resp, err := svc.List(c.Request.Context(), taskID)
	if err != nil {
		abortWith(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// DeleteComment 删除评论.
//
//	@Summary		删除评论
//	@Description	仅评论作者本人可删除
//	@Tags			评论
//	@Produce		json
//	@Param			commentId	path		int	true	"评论 ID"
//	@Success		200			{object}	map[string]string
//	@Failure		404			{object}	map[string]string
//	@Router			/api/v1/comments/{commentId} [delete]
func DeleteComment(c *gin.Context) {
	id, ok := uintParam(c, "commentId")
	if !ok {
		return
	}

	user, err := checkUser(c)
	if user == "" || err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing user"})
		return
	}

	svc := service.NewCommentService(c.Request.Context(), middleware.GetState(c))

	if err := svc.Delete(c.Request.Context(), id, user); err != nil {
		abortWith(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "comment deleted"})
}
