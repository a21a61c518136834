package types

// ProjectStats 项目统计信息.
type ProjectStats struct {
	ProjectID       uint             `json:"project_id"`
	TaskTotal       int64            `json:"task_total"`
	ByStatus        map[string]int64 `json:"by_status"`
	ByType          map[string]int64 `json:"by_type"`
	ByPriority      map[string]int64 `json:"by_priority"`
	Overdue         int64            `json:"overdue"`
	AttachmentTotal int64            `json:"attachment_total"`
	AttachmentBytes int64            `json:"attachment_bytes"` // 仅统计最新版本
	GeneratedAt     string           `json:"generated_at"`     // RFC3339
}
