package types

// BoardColumn 看板单列，按状态分组并按 rank 升序排列.
type BoardColumn struct {
	Status string     `json:"status"`
	Tasks  []TaskInfo `json:"tasks"`
}

// BoardResponse 项目看板视图响应.
type BoardResponse struct {
	ProjectID uint          `json:"project_id"`
	Columns   []BoardColumn `json:"columns"`
}

// MoveTaskRequest 看板拖拽移动任务请求.
// 目标位置由前后两个任务 ID 描述，二者都为零表示移动到列首.
type MoveTaskRequest struct {
	Status   string `binding:"required,task_status" json:"status"` // 目标列
	AfterID  uint   `json:"after_id,omitempty"`                    // 落点前一个任务
	BeforeID uint   `json:"before_id,omitempty"`                   // 落点后一个任务
}

// MoveTaskResponse 移动任务响应.
type MoveTaskResponse struct {
	Task TaskInfo `json:"task"`
}
