package model

import (
	"time"

	"gorm.io/gorm"
)

// 任务状态流转：todo -> in_progress -> review -> done，blocked 可与任一未完成状态互转.
const (
	TaskStatusTodo       = "todo"
	TaskStatusInProgress = "in_progress"
	TaskStatusReview     = "review"
	TaskStatusDone       = "done"
	TaskStatusBlocked    = "blocked"
)

// 任务类型.
const (
	TaskTypeDevelopment = "development"
	TaskTypeResearch    = "research"
	TaskTypeGIS         = "gis"
	TaskTypeMarketing   = "marketing"
)

// 任务优先级.
const (
	TaskPriorityLow    = "low"
	TaskPriorityMedium = "medium"
	TaskPriorityHigh   = "high"
	TaskPriorityUrgent = "urgent"
)

// Task 任务模型.
type Task struct {
	ID        uint   `gorm:"primaryKey"     json:"id"`
	ProjectID uint   `gorm:"index"          json:"project_id"`
	Title     string `gorm:"size:512;index" json:"title"`
	// Description 任务详情，支持 Markdown
	Description string `gorm:"type:text"      json:"description"`
	Type        string `gorm:"size:32;index"  json:"type"`
	Status      string `gorm:"size:32;index"  json:"status"`
	Priority    string `gorm:"size:32;index"  json:"priority"`
	// Assignee / Reporter 使用邮箱标识
	Assignee string `gorm:"size:255;index" json:"assignee"`
	Reporter string `gorm:"size:255;index" json:"reporter"`
	// Rank 看板列内排序键，字典序决定展示顺序.列名避开 SQL 保留字 RANK
	Rank string `gorm:"column:board_rank;size:64;index" json:"rank"`
	// DueDate 截止时间，日历视图与到期提醒使用
	DueDate *time.Time `gorm:"index" json:"due_date,omitempty"`
	// TagsJSON 以 JSON 字符串形式存储标签列表
	TagsJSON string `gorm:"type:text" json:"-"`
	// MetadataJSON 按任务类型存放差异化字段（如 gis 的坐标范围、marketing 的投放渠道）
	MetadataJSON string `gorm:"type:text" json:"-"`
	// 审计与软删除
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
