package handle

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/taskvault/pkg/internal/service"
	"github.com/yeisme/taskvault/pkg/internal/types"
	"github.com/yeisme/taskvault/pkg/log"
	"github.com/yeisme/taskvault/pkg/middleware"
)

// CreateProject 创建项目.
//
//	@Summary		创建项目
//	@Description	创建新项目，请求人成为项目负责人
//	@Tags			项目
//	@Accept			json
//	@Produce		json
//	@Param			project	body		types.CreateProjectRequest	true	"创建项目请求"
//	@Success		201		{object}	types.ProjectInfo
//	@Failure		400		{object}	map[string]string	"请求参数错误"
//	@Failure		500		{object}	map[string]string	"服务器内部错误"
//	@Router			/api/v1/projects [post]
func CreateProject(c *gin.Context) {
	l := log.Logger()

	var req types.CreateProjectRequest
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

	svc := service.NewProjectService(c.Request.Context(), middleware.GetState(c))

	p, err := svc.Create(c.Request.Context(), user, &req)
	if err != nil {
		l.Error().Err(err).Msg("create project failed")
		abortWith(c, err)

		return
	}

	c.JSON(http.StatusCreated, service.ProjectToInfo(p))
}

// ListProjects 项目列表.
//
//	@Summary		项目列表
//	@Description	返回全部项目及各自的任务数
//	@Tags			项目
//	@Produce		json
//	@Success		200	{object}	types.ListProjectsResponse
//	@Failure		500	{object}	map[string]string
//	@Router			/api/v1/projects [get]
func ListProjects(c *gin.Context) {
	svc := service.NewProjectService(c.Request.Context(), middleware.GetState(c))

	resp, err := svc.List(c.Request.Context())
	if err != nil {
		log.Logger().Error().Err(err).Msg("list projects failed")
		abortWith(c, err)

		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetProject 项目详情.
//
//	@Summary		项目详情
//	@Tags			项目
//	@Produce		json
//	@Param			projectId	path		int	true	"项目 ID"
//	@Success		200			{object}	types.ProjectInfo
//	@Failure		404			{object}	map[string]string
//	@Router			/api/v1/projects/{projectId} [get]
func GetProject(c *gin.Context) {
	id, ok := uintParam(c, "projectId")
	if !ok {
		return
	}

	svc := service.NewProjectService(c.Request.Context(), middleware.GetState(c))

	p, err := svc.Get(c.Request.Context(), id)
	if err != nil {
		abortWith(c, err)
		return
	}

	c.JSON(http.StatusOK, service.ProjectToInfo(p))
}

// UpdateProject 更新项目.
//
//	@Summary		更新项目
//	@Tags			项目
//	@Accept			json
//	@Produce		json
//	@Param			projectId	path		int							true	"项目 ID"
//	@Param			project		body		types.UpdateProjectRequest	true	"更新项目请求"
//	@Success		200			{object}	types.ProjectInfo
//	@Failure		400			{object}	map[string]string
//	@Failure		404			{object}	map[string]string
//	@Router			/api/v1/projects/{projectId} [put]
func UpdateProject(c *gin.Context) {
	l := log.Logger()

	id, ok := uintParam(c, "projectId")
	if !ok {
		return
	}

	var req types.UpdateProjectRequest
	if err := c.ShouldBind(&req); err != nil {
		l.Warn().Err(err).Msg("invalid request")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

		return
	}

	user, err := checkUser(c)
	if user == "" || err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing user"})
		return
	}

	svc := service.NewProjectService(c.Request.Context(), middleware.GetState(c))

	p, err := svc.Update(c.Request.Context(), id, user, &req)
	if err != nil {
		l.Error().Err(err).Uint("project_id", id).Msg("update project failed")
		abortWith(c, err)

		return
	}

	c.JSON(http.StatusOK, service.ProjectToInfo(p))
}

// ArchiveProject 归档项目.
//
//	@Summary		归档项目
//	@Description	归档后项目下的任务不可再变更
//	@Tags			项目
//	@Produce		json
//	@Param			projectId	path		int	true	"项目 ID"
//	@Success		200			{object}	types.ProjectInfo
//	@Failure		404			{object}	map[string]string
//	@Router			/api/v1/projects/{projectId}/archive [post]
func ArchiveProject(c *gin.Context) {
	id, ok := uintParam(c, "projectId")
	if !ok {
		return
	}

	user, err := checkUser(c)
	if user == "" || err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing user"})
		return
	}

	svc := service.NewProjectService(c.Request.Context(), middleware.GetState(c))

	p, err := svc.Archive(c.Request.Context(), id, user)
	if err != nil {
		abortWith(c, err)
		return
	}

	c.JSON(http.StatusOK, service.ProjectToInfo(p))
}

// DeleteProject 删除项目.
//
//	@Summary		删除项目
//	@Tags			项目
//	@Produce		json
//	@Param			projectId	path		int	true	"项目 ID"
//	@Success		200			{object}	map[string]string
//	@Failure		404			{object}	map[string]string
//	@Router			/api/v1/projects/{projectId} [delete]
func DeleteProject(c *gin.Context) {
	id, ok := uintParam(c, "projectId")
	if !ok {
		return
	}

	user, err := checkUser(c)
	if user == "" || err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing user"})
		return
	}

	svc := service.NewProjectService(c.Request.Context(), middleware.GetState(c))

	if err := svc.Delete(c.Request.Context(), id, user); err != nil {
		abortWith(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "project deleted"})
}

// ProjectStats 项目统计.
//
//	@Summary		项目统计
//	@Description	任务按状态/类型/优先级的分布、逾期数与附件占用
//	@Tags			项目
//	@Produce		json
//	@Param			projectId	path		int	true	"项目 ID"
//	@Success		200			{object}	types.ProjectStats
//	@Failure		404			{object}	map[string]string
//	@Router			/api/v1/projects/{projectId}/stats [get]
func ProjectStats(c *gin.Context) {
	id, ok := uintParam(c, "projectId")
	if !ok {
		return
	}

	svc := service.NewProjectService(c.Request.Context(), middleware.GetState(c))

	stats, err := svc.Stats(c.Request.Context(), id)
	if err != nil {
		abortWith(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}
