package handle

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/taskvault/pkg/internal/service"
	"github.com/yeisme/taskvault/pkg/internal/types"
	"github.com/yeisme/taskvault/pkg/log"
	"github.com/yeisme/taskvault/pkg/middleware"
)

// CreateTask 在项目下创建任务.
//
//	@Summary		创建任务
//	@Description	在项目下创建任务，初始状态 todo，追加到看板列尾
//	@Tags			任务
//	@Accept			json
//	@Produce		json
//	@Param			projectId	path		int						true	"项目 ID"
//	@Param			task		body		types.CreateTaskRequest	true	"创建任务请求"
//	@Success		201			{object}	types.TaskInfo
//	@Failure		400			{object}	map[string]string
//	@Failure		404			{object}	map[string]string
//	@Router			/api/v1/projects/{projectId}/tasks [post]
func CreateTask(c *gin.Context) {
	l := log.Logger()

	projectID, ok := uintParam(c, "projectId")
	if !ok {
		return
	}

	var req types.CreateTaskRequest
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

	svc := service.NewTaskService(c.Request.Context(), middleware.GetState(c))

	t, err := svc.Create(c.Request.Context(), projectID, user, &req)
	if err != nil {
		l.Error().Err(err).Uint("project_id", projectID).Msg("create task failed")
		abortWith(c, err)

		return
	}

	c.JSON(http.StatusCreated, service.TaskToInfo(t))
}

// ListTasks 任务列表.
//
//	@Summary		任务列表
//	@Description	按状态/类型/优先级/负责人筛选并分页
//	@Tags			任务
//	@Produce		json
//	@Param			projectId	path		int		true	"项目 ID"
//	@Param			status		query		string	false	"任务状态"
//	@Param			type		query		string	false	"任务类型"
//	@Param			priority	query		string	false	"优先级"
//	@Param			assignee	query		string	false	"负责人邮箱"
//	@Success		200			{object}	types.ListTasksResponse
//	@Failure		400			{object}	map[string]string
//	@Router			/api/v1/projects/{projectId}/tasks [get]
func ListTasks(c *gin.Context) {
	projectID, ok := uintParam(c, "projectId")
	if !ok {
		return
	}

	var req types.ListTasksRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	svc := service.NewTaskService(c.Request.Context(), middleware.GetState(c))

	resp, err := svc.List(c.Request.Context(), projectID, &req)
	if err != nil {
		abortWith(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetTask 任务详情.
//
//	@Summary		任务详情
//	@Tags			任务
//	@Produce		json
//	@Param			taskId	path		int	true	"任务 ID"
//	@Success		200		{object}	types.TaskInfo
//	@Failure		404		{object}	map[string]string
//	@Router			/api/v1/tasks/{taskId} [get]
func GetTask(c *gin.Context) {
	id, ok := uintParam(c, "taskId")
	if !ok {
		return
	}

	svc := service.NewTaskService(c.Request.Context(), middleware.GetState(c))

	t, err := svc.Get(c.Request.Context(), id)
	if err != nil {
		abortWith(c, err)
		return
	}

	c.JSON(http.StatusOK, service.TaskToInfo(t))
}

// UpdateTask 更新任务字段.
//
//	@Summary		更新任务
//	@Tags			任务
//	@Accept			json
//	@Produce		json
//	@Param			taskId	path		int						true	"任务 ID"
//	@Param			task	body		types.UpdateTaskRequest	true	"更新任务请求"
//	@Success		200		{object}	types.TaskInfo
//	@Failure		400		{object}	map[string]string
//	@Failure		404		{object}	map[string]string
//	@Router			/api/v1/tasks/{taskId} [put]
func UpdateTask(c *gin.Context) {
	l := log.Logger()

	id, ok := uintParam(c, "taskId")
	if !ok {
		return
	}

	var req types.UpdateTaskRequest
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

	svc := service.NewTaskService(c.Request.Context(), middleware.GetState(c))

	t, err := svc.Update(c.Request.Context(), id, user, &req)
	if err != nil {
		l.Error().Err(err).Uint("task_id", id).Msg("update task failed")
		abortWith(c, err)

		return
	}

	c.JSON(http.StatusOK, service.TaskToInfo(t))
}

// DeleteTask 删除任务.
//
//	@Summary		删除任务
//	@Tags			任务
//	@Produce		json
//	@Param			taskId	path		int	true	"任务 ID"
//	@Success		200		{object}	map[string]string
//	@Failure		404		{object}	map[string]string
//	@Router			/api/v1/tasks/{taskId} [delete]
func DeleteTask(c *gin.Context) {
	id, ok := uintParam(c, "taskId")
	if !ok {
		return
	}

	user, err := checkUser(c)
	if user == "" || err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing user"})
		return
	}

	svc := service.NewTaskService(c.Request.Context(), middleware.GetState(c))

	if err := svc.Delete(c.Request.Context(), id, user); err != nil {
		abortWith(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "task deleted"})
}

// ChangeTaskStatus 任务状态流转.
//
//	@Summary		任务状态流转
//	@Description	按固定工作流 todo → in_progress → review → done 流转，blocked 可与未完成状态互转
//	@Tags			任务
//	@Accept			json
//	@Produce		json
//	@Param			taskId	path		int								true	"任务 ID"
//	@Param			status	body		types.ChangeTaskStatusRequest	true	"目标状态"
//	@Success		200		{object}	types.TaskInfo
//	@Failure		400		{object}	map[string]string	"非法流转"
//	@Failure		404		{object}	map[string]string
//	@Router			/api/v1/tasks/{taskId}/status [post]
func ChangeTaskStatus(c *gin.Context) {
	l := log.Logger()

	id, ok := uintParam(c, "taskId")
	if !ok {
		return
	}

	var req types.ChangeTaskStatusRequest
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

	svc := service.NewTaskService(c.Request.Context(), middleware.GetState(c))

	t, err := svc.ChangeStatus(c.Request.Context(), id, user, req.Status)
	if err != nil {
		l.Warn().Err(err).Uint("task_id", id).Str("to", req.Status).Msg("status change rejected")
		abortWith(c, err)

		return
	}

	c.JSON(http.StatusOK, service.TaskToInfo(t))
}

// AssignTask 指派任务.
//
//	@Summary		指派任务
//	@Tags			任务
//	@Accept			json
//	@Produce		json
//	@Param			taskId		path		int						true	"任务 ID"
//	@Param			assignee	body		types.AssignTaskRequest	true	"指派请求"
//	@Success		200			{object}	types.TaskInfo
//	@Failure		400			{object}	map[string]string
//	@Failure		404			{object}	map[string]string
//	@Router			/api/v1/tasks/{taskId}/assign [post]
func AssignTask(c *gin.Context) {
	id, ok := uintParam(c, "taskId")
	if !ok {
		return
	}

	var req types.AssignTaskRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := checkUser(c)
	if user == "" || err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing user"})
		return
	}

	svc := service.NewTaskService(c.Request.Context(), middleware.GetState(c))

	t, err := svc.Assign(c.Request.Context(), id, user, req.Assignee)
	if err != nil {
		abortWith(c, err)
		return
	}

	c.JSON(http.StatusOK, service.TaskToInfo(t))
}

// MoveTask 看板拖拽移动任务.
//
//	@Summary		移动任务
//	@Description	将任务移动到目标列的指定位置，跨列移动受状态工作流约束
//	@Tags			看板
//	@Accept			json
//	@Produce		json
//	@Param			taskId	path		int						true	"任务 ID"
//	@Param			move	body		types.MoveTaskRequest	true	"移动请求"
//	@Success		200		{object}	types.MoveTaskResponse
//	@Failure		400		{object}	map[string]string
//	@Failure		404		{object}	map[string]string
//	@Router			/api/v1/tasks/{taskId}/move [post]
func MoveTask(c *gin.Context) {
	l := log.Logger()

	id, ok := uintParam(c, "taskId")
	if !ok {
		return
	}

	var req types.MoveTaskRequest
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

	svc := service.NewBoardService(c.Request.Context(), middleware.GetState(c))

	t, err := svc.Move(c.Request.Context(), id, user, &req)
	if err != nil {
		l.Warn().Err(err).Uint("task_id", id).Msg("move rejected")
		abortWith(c, err)

		return
	}

	c.JSON(http.StatusOK, types.MoveTaskResponse{Task: service.TaskToInfo(t)})
}

// ProjectBoard 项目看板视图.
//
//	@Summary		看板视图
//	@Description	任务按状态分列，列内按排序键升序
//	@Tags			看板
//	@Produce		json
//	@Param			projectId	path		int	true	"项目 ID"
//	@Success		200			{object}	types.BoardResponse
//	@Failure		400			{object}	map[string]string
//	@Router			/api/v1/projects/{projectId}/board [get]
func ProjectBoard(c *gin.Context) {
	projectID, ok := uintParam(c, "projectId")
	if !ok {
		return
	}

	svc := service.NewBoardService(c.Request.Context(), middleware.GetState(c))

	resp, err := svc.View(c.Request.Context(), projectID)
	if err != nil {
		abortWith(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// ProjectCalendar 项目日历视图.
//
//	@Summary		日历视图
//	@Description	区间内有到期日的任务按日期分组，month 与 from/to 二选一
//	@Tags			日历
//	@Produce		json
//	@Param			projectId	path		int		true	"项目 ID"
//	@Param			month		query		string	false	"月视图（2006-01）"
//	@Param			from		query		string	false	"起始日期（RFC3339 或 2006-01-02）"
//	@Param			to			query		string	false	"结束日期"
//	@Success		200			{object}	types.CalendarResponse
//	@Failure		400			{object}	map[string]string
//	@Router			/api/v1/projects/{projectId}/calendar [get]
func ProjectCalendar(c *gin.Context) {
	projectID, ok := uintParam(c, "projectId")
	if !ok {
		return
	}

	var req types.CalendarRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	svc := service.NewCalendarService(c.Request.Context())

	resp, err := svc.Range(c.Request.Context(), projectID, &req)
	if err != nil {
		abortWith(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// SearchTasks 任务搜索.
//
//	@Summary		任务搜索
//	@Description	在任务标题、描述、标签与元数据中做子串搜索，读内存状态镜像
//	@Tags			搜索
//	@Produce		json
//	@Param			q			query		string	true	"搜索关键字"
//	@Param			project_id	query		int		false	"限定项目，缺省全部"
//	@Param			type		query		string	false	"任务类型过滤"
//	@Success		200			{object}	types.SearchResponse
//	@Failure		400			{object}	map[string]string
//	@Router			/api/v1/search [get]
func SearchTasks(c *gin.Context) {
	var req types.SearchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	st := middleware.GetState(c)
	if st == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "state cache not initialized"})
		return
	}

	resp, err := service.NewSearchService(st).Search(c.Request.Context(), &req)
	if err != nil {
		abortWith(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
