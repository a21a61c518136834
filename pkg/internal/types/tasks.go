package types

// CreateTaskRequest 创建任务请求.
type CreateTaskRequest struct {
	Title       string            `binding:"required,min=1,max=255"       json:"title"`
	Description string            `json:"description,omitempty"`
	Type        string            `binding:"required,task_type"           json:"type"`
	Priority    string            `binding:"omitempty,task_priority"      json:"priority,omitempty"` // 缺省 medium
	Assignee    string            `binding:"omitempty,email"              json:"assignee,omitempty"`
	DueDate     string            `json:"due_date,omitempty"`                                       // RFC3339
	Tags        []string          `binding:"omitempty,max=16,dive,min=1,max=64" json:"tags,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`                                       // 类型相关扩展字段
}

// UpdateTaskRequest 更新任务请求，nil 字段表示不修改.
type UpdateTaskRequest struct {
	Title       *string           `json:"title,omitempty"`
	Description *string           `json:"description,omitempty"`
	Priority    *string           `binding:"omitempty,task_priority" json:"priority,omitempty"`
	Assignee    *string           `json:"assignee,omitempty"`
	DueDate     *string           `json:"due_date,omitempty"` // RFC3339，空串表示清除
	Tags        []string          `binding:"omitempty,max=16,dive,min=1,max=64" json:"tags,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

// ChangeTaskStatusRequest 任务状态流转请求.
type ChangeTaskStatusRequest struct {
	Status string `binding:"required,task_status" json:"status"`
}

// ListTasksRequest 任务列表筛选参数.
type ListTasksRequest struct {
	PageRequest
	Status   string `binding:"omitempty,task_status"   form:"status"   json:"status,omitempty"`
	Type     string `binding:"omitempty,task_type"     form:"type"     json:"type,omitempty"`
	Priority string `binding:"omitempty,task_priority" form:"priority" json:"priority,omitempty"`
	Assignee string `form:"assignee" json:"assignee,omitempty"`
}

// TaskInfo 任务信息.
type TaskInfo struct {
	ID          uint              `json:"id"`
	ProjectID   uint              `json:"project_id"`
	Title       string            `json:"title"`
	Description string            `json:"description,omitempty"`
	Type        string            `json:"type"`
	Status      string            `json:"status"`
	Priority    string            `json:"priority"`
	Assignee    string            `json:"assignee,omitempty"`
	Reporter    string            `json:"reporter"`
	Rank        string            `json:"rank,omitempty"` // 看板列内排序键
	DueDate     string            `json:"due_date,omitempty"`
	Tags        []string          `json:"tags,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
	CreatedAt   string            `json:"created_at"`
	UpdatedAt   string            `json:"updated_at"`
}

// ListTasksResponse 任务列表响应.
type ListTasksResponse struct {
	Tasks []TaskInfo `json:"tasks"`
	Total int64      `json:"total"`
}

// AssignTaskRequest 指派任务请求.
type AssignTaskRequest struct {
	Assignee string `binding:"required,email" json:"assignee"`
}
