package model

import (
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Comment 任务评论模型.
type Comment struct {
	ID     uint   `gorm:"primaryKey"     json:"id"`
	TaskID uint   `gorm:"index"          json:"task_id"`
	Author string `gorm:"size:255;index" json:"author"`
	Body   string `gorm:"type:text"      json:"body"`
	// MentionsJSON 以 JSON 字符串形式存储 @提及的邮箱列表
	MentionsJSON string `gorm:"type:text" json:"-"`
	// 审计与软删除
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// Mentions 反序列化 @提及列表.
func (c *Comment) Mentions() ([]string, error) {
	if c.MentionsJSON == "" {
		return nil, nil
	}

	var mentions []string
	if err := json.Unmarshal([]byte(c.MentionsJSON), &mentions); err != nil {
		return nil, fmt.Errorf("unmarshal mentions: %w", err)
	}

	return mentions, nil
}

// SetMentions 序列化 @提及列表.
func (c *Comment) SetMentions(mentions []string) error {
	if len(mentions) == 0 {
		c.MentionsJSON = ""
		return nil
	}

	b, err := json.Marshal(mentions)
	if err != nil {
		return fmt.Errorf("marshal mentions: %w", err)
	}

	c.MentionsJSON = string(b)

	return nil
}
