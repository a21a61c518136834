package queue

import "time"

// EventHeader 定义所有事件的通用头部元数据.
// 建议在发布消息时填充 TraceID、OccurredAt、Producer 等，便于追踪链路与审计.
type EventHeader struct {
	// Topic 冗余记录消息主题，便于离线处理或转储后定位来源主题.
	Topic string `json:"topic"`
	// TraceID 分布式追踪/关联 ID，可来自中间件或业务生成.
	TraceID string `json:"trace_id,omitempty"`
	// Producer 生产者服务名或节点标识.
	Producer string `json:"producer,omitempty"`
	// OccurredAt 事件发生时间（UTC，RFC3339）.
	OccurredAt time.Time `json:"occurred_at"`
	// Version 事件负载版本，便于向后兼容演进.
	Version string `json:"version,omitempty"`
}

// Message 是统一的消息封装，Header + Payload.
// T 即不同主题对应的负载结构体.
type Message[T any] struct {
	Header  EventHeader `json:"header"`
	Payload T           `json:"payload"`
}

// -------------------------- 项目领域 --------------------------

// ProjectPayload 项目生命周期事件负载.
type ProjectPayload struct {
	ProjectID uint   `json:"project_id"`
	Name      string `json:"name,omitempty"`
	Actor     string `json:"actor,omitempty"` // 操作人邮箱
}

// -------------------------- 任务领域 --------------------------

// TaskRef 标识一条任务及其所属项目.
type TaskRef struct {
	TaskID    uint   `json:"task_id"`
	ProjectID uint   `json:"project_id,omitempty"`
	Title     string `json:"title,omitempty"`
	Type      string `json:"type,omitempty"`
}

// TaskCreatedPayload 任务创建完成.
type TaskCreatedPayload struct {
	Task     TaskRef `json:"task"`
	Assignee string  `json:"assignee,omitempty"`
	Actor    string  `json:"actor,omitempty"`
}

// TaskUpdatedPayload 任务字段更新.
type TaskUpdatedPayload struct {
	Task          TaskRef  `json:"task"`
	ChangedFields []string `json:"changed_fields,omitempty"`
	Actor         string   `json:"actor,omitempty"`
}

// TaskDeletedPayload 任务删除.
type TaskDeletedPayload struct {
	Task  TaskRef `json:"task"`
	Actor string  `json:"actor,omitempty"`
}

// TaskAssignedPayload 任务指派变更.
type TaskAssignedPayload struct {
	Task         TaskRef `json:"task"`
	PrevAssignee string  `json:"prev_assignee,omitempty"`
	Assignee     string  `json:"assignee"`
	Actor        string  `json:"actor,omitempty"`
}

// TaskStatusChangedPayload 任务状态流转.
type TaskStatusChangedPayload struct {
	Task       TaskRef `json:"task"`
	FromStatus string  `json:"from_status"`
	ToStatus   string  `json:"to_status"`
	Assignee   string  `json:"assignee,omitempty"` // 当前负责人，通知生成使用
	Actor      string  `json:"actor,omitempty"`
}

// TaskMovedPayload 任务在看板列间移动.
type TaskMovedPayload struct {
	Task       TaskRef `json:"task"`
	FromStatus string  `json:"from_status,omitempty"`
	ToStatus   string  `json:"to_status"`
	Rank       string  `json:"rank,omitempty"` // 列内排序键
	Actor      string  `json:"actor,omitempty"`
}

// TaskDuePayload 任务临近截止/逾期（调度器触发）.
type TaskDuePayload struct {
	Task    TaskRef   `json:"task"`
	DueDate time.Time `json:"due_date"`
}

// -------------------------- 评论领域 --------------------------

// CommentPayload 评论事件负载.
type CommentPayload struct {
	CommentID uint     `json:"comment_id"`
	Task      TaskRef  `json:"task"`
	Author    string   `json:"author,omitempty"`
	Mentions  []string `json:"mentions,omitempty"` // @提及的用户邮箱
}

// -------------------------- 附件领域 --------------------------

// AttachmentRef 标识附件在目录与对象存储中的位置与版本.
type AttachmentRef struct {
	AttachmentID uint   `json:"attachment_id,omitempty"`
	TaskID       uint   `json:"task_id"`
	FileName     string `json:"file_name"`
	StoragePath  string `json:"storage_path,omitempty"`
	FileType     string `json:"file_type,omitempty"`
	FileSize     int64  `json:"file_size,omitempty"`
	Version      int    `json:"version"`
}

// AttachmentUploadedPayload 新附件版本写入完成.
type AttachmentUploadedPayload struct {
	Attachment AttachmentRef `json:"attachment"`
	UploadedBy string        `json:"uploaded_by,omitempty"`
}

// AttachmentRestoredPayload 历史版本恢复为最新.
type AttachmentRestoredPayload struct {
	Attachment  AttachmentRef `json:"attachment"`
	PrevVersion int           `json:"prev_version,omitempty"` // 恢复前的最新版本号
	Actor       string        `json:"actor,omitempty"`
}

// AttachmentDeletedPayload 附件版本删除.
type AttachmentDeletedPayload struct {
	Attachment AttachmentRef `json:"attachment"`
	WasLatest  bool          `json:"was_latest,omitempty"` // 删除的是否为最新版本
	Promoted   int           `json:"promoted,omitempty"`   // 被提升为最新的版本号（0 表示无）
	Actor      string        `json:"actor,omitempty"`
}

// -------------------------- 通知领域 --------------------------

// NotifyPayload 通知事件负载.
type NotifyPayload struct {
	NotificationID uint   `json:"notification_id,omitempty"`
	Recipient      string `json:"recipient"`
	Kind           string `json:"kind,omitempty"` // assigned/mentioned/status_changed/due_soon...
	TaskID         uint   `json:"task_id,omitempty"`
	Body           string `json:"body,omitempty"`
}

// NotifyPrunedPayload 过期通知清理结果（调度器触发）.
type NotifyPrunedPayload struct {
	Removed int       `json:"removed"`
	Before  time.Time `json:"before"` // 清理阈值时间
}
