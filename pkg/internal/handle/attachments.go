package handle

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/taskvault/pkg/internal/service"
	"github.com/yeisme/taskvault/pkg/internal/types"
	"github.com/yeisme/taskvault/pkg/log"
)

// UploadAttachment 上传任务附件.
//
// 同名文件再次上传会生成递增的新版本并成为最新版本.
//
//	@Summary		上传附件
//	@Description	multipart 表单上传，单文件上限 10 MiB，仅允许白名单内的 MIME 类型
//	@Tags			附件
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			taskId	path		int		true	"任务 ID"
//	@Param			file	formData	file	true	"附件文件"
//	@Success		201		{object}	types.UploadAttachmentResponse
//	@Failure		400		{object}	map[string]string
//	@Failure		413		{object}	map[string]string
//	@Failure		415		{object}	map[string]string
//	@Router			/api/v1/tasks/{taskId}/attachments [post]
func UploadAttachment(c *gin.Context) {
	l := log.Logger()

	taskID, ok := uintParam(c, "taskId")
	if !ok {
		return
	}

	user, err := checkUser(c)
	if user == "" || err != nil {
		l.Warn().Err(err).Msg("missing or invalid user")
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing user"})

		return
	}

	header, err := c.FormFile("file")
	if err != nil {
		l.Warn().Err(err).Msg("invalid multipart upload")
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing file field"})

		return
	}

	blob, err := header.Open()
	if err != nil {
		l.Error().Err(err).Msg("open uploaded file failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})

		return
	}
	defer func() { _ = blob.Close() }()

	fileType := header.Header.Get("Content-Type")

	svc := service.NewAttachmentService(c.Request.Context())

	rec, err := svc.Upload(c.Request.Context(), taskID, header.Filename, fileType, header.Size, blob, user)
	if err != nil {
		l.Warn().Err(err).Uint("task_id", taskID).Str("file_name", header.Filename).Msg("upload attachment failed")
		abortWith(c, err)

		return
	}

	c.JSON(http.StatusCreated, types.UploadAttachmentResponse{Attachment: service.AttachmentToInfo(rec)})
}

// ListAttachments 任务的最新附件列表.
//
//	@Summary		附件列表
//	@Description	每个文件名只返回最新版本
//	@Tags			附件
//	@Produce		json
//	@Param			taskId	path		int	true	"任务 ID"
//	@Success		200		{object}	types.ListAttachmentsResponse
//	@Failure		400		{object}	map[string]string
//	@Router			/api/v1/tasks/{taskId}/attachments [get]
func ListAttachments(c *gin.Context) {
	taskID, ok := uintParam(c, "taskId")
	if !ok {
		return
	}

	svc := service.NewAttachmentService(c.Request.Context())

	recs, err := svc.ListLatest(c.Request.Context(), taskID)
	if err != nil {
		abortWith(c, err)
		return
	}

	resp := types.ListAttachmentsResponse{
		Attachments: make([]types.AttachmentInfo, 0, len(recs)),
		Total:       len(recs),
	}
	for i := range recs {
		resp.Attachments = append(resp.Attachments, service.AttachmentToInfo(&recs[i]))
	}

	c.JSON(http.StatusOK, resp)
}

// ListAttachmentVersions 单个文件名的版本历史.
//
//	@Summary		附件版本历史
//	@Description	按版本号从新到旧返回
//	@Tags			附件
//	@Produce		json
//	@Param			taskId		path		int		true	"任务 ID"
//	@Param			fileName	path		string	true	"文件名（上传时的原始展示名）"
//	@Success		200			{object}	types.ListAttachmentVersionsResponse
//	@Failure		400			{object}	map[string]string
//	@Router			/api/v1/tasks/{taskId}/attachments/{fileName}/versions [get]
func ListAttachmentVersions(c *gin.Context) {
	taskID, ok := uintParam(c, "taskId")
	if !ok {
		return
	}

	fileName := c.Param("fileName")
	if fileName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing file name"})
		return
	}

	svc := service.NewAttachmentService(c.Request.Context())

	recs, err := svc.ListVersions(c.Request.Context(), taskID, fileName)
	if err != nil {
		abortWith(c, err)
		return
	}

	resp := types.ListAttachmentVersionsResponse{
		FileName: fileName,
		Versions: make([]types.AttachmentInfo, 0, len(recs)),
		Total:    len(recs),
	}
	for i := range recs {
		resp.Versions = append(resp.Versions, service.AttachmentToInfo(&recs[i]))
	}

	c.JSON(http.StatusOK, resp)
}

// RestoreAttachment 将历史版本恢复为最新版本.
//
//	@Summary		恢复附件版本
//	@Description	目标版本已是最新时不做任何修改，changed 返回 false
//	@Tags			附件
//	@Produce		json
//	@Param			attachmentId	path		int	true	"附件版本记录 ID"
//	@Success		200				{object}	types.RestoreAttachmentResponse
//	@Failure		404				{object}	map[string]string
//	@Router			/api/v1/attachments/{attachmentId}/restore [post]
func RestoreAttachment(c *gin.Context) {
	l := log.Logger()

	id, ok := uintParam(c, "attachmentId")
	if !ok {
		return
	}

	user, err := checkUser(c)
	if user == "" || err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing user"})
		return
	}

	svc := service.NewAttachmentService(c.Request.Context())

	rec, changed, err := svc.Restore(c.Request.Context(), id, user)
	if err != nil {
		l.Warn().Err(err).Uint("attachment_id", id).Msg("restore attachment failed")
		abortWith(c, err)

		return
	}

	c.JSON(http.StatusOK, types.RestoreAttachmentResponse{
		Attachment: service.AttachmentToInfo(rec),
		Changed:    changed,
	})
}

// DeleteAttachment 删除单个附件版本.
//
//	@Summary		删除附件版本
//	@Description	删除最新版本时自动提升剩余版本中版本号最高的为最新
//	@Tags			附件
//	@Produce		json
//	@Param			attachmentId	path		int	true	"附件版本记录 ID"
//	@Success		200				{object}	types.DeleteAttachmentResponse
//	@Failure		404				{object}	map[string]string
//	@Router			/api/v1/attachments/{attachmentId} [delete]
func DeleteAttachment(c *gin.Context) {
	l := log.Logger()

	id, ok := uintParam(c, "attachmentId")
	if !ok {
		return
	}

	user, err := checkUser(c)
	if user == "" || err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing user"})
		return
	}

	svc := service.NewAttachmentService(c.Request.Context())

	deleted, promoted, err := svc.Delete(c.Request.Context(), id, user)
	if err != nil {
		l.Warn().Err(err).Uint("attachment_id", id).Msg("delete attachment failed")
		abortWith(c, err)

		return
	}

	resp := types.DeleteAttachmentResponse{Deleted: service.AttachmentToInfo(deleted)}
	if promoted != nil {
		info := service.AttachmentToInfo(promoted)
		resp.Promoted = &info
	}

	c.JSON(http.StatusOK, resp)
}

// AttachmentDownloadURL 获取附件版本的预签名下载地址.
//
//	@Summary		附件下载地址
//	@Tags			附件
//	@Produce		json
//	@Param			attachmentId	path		int	true	"附件版本记录 ID"
//	@Success		200				{object}	types.AttachmentURLResponse
//	@Failure		404				{object}	map[string]string
//	@Router			/api/v1/attachments/{attachmentId}/url [get]
func AttachmentDownloadURL(c *gin.Context) {
	id, ok := uintParam(c, "attachmentId")
	if !ok {
		return
	}

	svc := service.NewAttachmentService(c.Request.Context())

	resp, err := svc.PresignDownload(c.Request.Context(), id)
	if err != nil {
		abortWith(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
