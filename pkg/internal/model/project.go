// Package model 定义项目协作领域的数据库模型.
package model

import (
	"time"

	"gorm.io/gorm"
)

// 项目状态.
const (
	ProjectStatusActive   = "active"
	ProjectStatusArchived = "archived"
)

// Project 项目模型.
type Project struct {
	ID          uint   `gorm:"primaryKey"      json:"id"`
	Name        string `gorm:"size:255;index"  json:"name"`
	Description string `gorm:"type:text"       json:"description"`
	// Owner 项目负责人邮箱
	Owner  string `gorm:"size:255;index" json:"owner"`
	Status string `gorm:"size:32;index"  json:"status"`
	// Color 看板/日历中的项目标识色，#RRGGBB
	Color string `gorm:"size:16" json:"color"`
	// MembersJSON 以 JSON 字符串形式存储成员邮箱列表；未来可拆关联表
	MembersJSON string `gorm:"type:text" json:"-"`
	// 审计与软删除
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
