package model

import (
	"time"
)

// 通知类型.
const (
	NotifyKindMention    = "mention"     // 评论中被 @ 提及
	NotifyKindAssigned   = "assigned"    // 任务被指派
	NotifyKindStatus     = "status"      // 关注任务状态变更
	NotifyKindDueSoon    = "due_soon"    // 任务即将到期
	NotifyKindOverdue    = "overdue"     // 任务已逾期
	NotifyKindAttachment = "attachment"  // 任务新增附件版本
)

// Notification 站内通知模型.
type Notification struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	Recipient string     `gorm:"size:255;index" json:"recipient"`
	Kind      string     `gorm:"size:32;index"  json:"kind"`
	TaskID    uint       `gorm:"index"          json:"task_id"`
	Body      string     `gorm:"size:2048"      json:"body"`
	// 列名避开 SQL 保留字 READ
	Read      bool       `gorm:"column:is_read;index" json:"read"`
	CreatedAt time.Time  `json:"created_at"`
	ReadAt    *time.Time `json:"read_at,omitempty"`
}
