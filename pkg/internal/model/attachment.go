package model

import (
	"time"
)

// Attachment 附件版本目录模型：每条记录对应对象存储中的一个不可变对象.
// 同一 (task_id, file_name) 下版本号从 1 递增，且至多一条 is_latest=true.
type Attachment struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	TaskID uint `gorm:"index:idx_task_file;index:idx_task_file_version,unique" json:"task_id"`
	// FileName 上传者提供的原始展示名，同名即同一附件的版本序列；
	// 规范化只作用于 StoragePath 的文件名分量
	FileName string `gorm:"size:255;index:idx_task_file;index:idx_task_file_version,unique" json:"file_name"`
	// StoragePath 对象存储键：{taskId}/{randomToken}-{fileName}，随机前缀避免覆盖
	StoragePath string `gorm:"size:1024;uniqueIndex" json:"storage_path"`
	// FileType 上传时声明并经白名单校验的 MIME 类型
	FileType string `gorm:"size:255"  json:"file_type"`
	FileSize int64  `json:"file_size"`
	Version  int    `gorm:"index:idx_task_file_version,unique" json:"version"`
	IsLatest bool   `gorm:"index"     json:"is_latest"`
	// UploadedBy 上传人邮箱
	UploadedBy string    `gorm:"size:255"  json:"uploaded_by"`
	CreatedAt  time.Time `json:"created_at"`
}
