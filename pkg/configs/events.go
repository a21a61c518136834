package configs

import "github.com/spf13/viper"

// EventsConfig 控制事件发布的开关（全局与分领域）.
type EventsConfig struct {
	Enabled    bool                   `mapstructure:"enabled"` // 总开关
	Task       TaskEventsConfig       `mapstructure:"task"`
	Attachment AttachmentEventsConfig `mapstructure:"attachment"`
}

// TaskEventsConfig 任务/评论领域的事件开关.
type TaskEventsConfig struct {
	Created       bool `mapstructure:"created"`
	Updated       bool `mapstructure:"updated"`
	Deleted       bool `mapstructure:"deleted"`
	Assigned      bool `mapstructure:"assigned"`
	StatusChanged bool `mapstructure:"status_changed"`
	Commented     bool `mapstructure:"commented"`
}

// AttachmentEventsConfig 附件领域的事件开关.
type AttachmentEventsConfig struct {
	Uploaded bool `mapstructure:"uploaded"`
	Restored bool `mapstructure:"restored"`
	Deleted  bool `mapstructure:"deleted"`
}

func (c *EventsConfig) setDefaults(v *viper.Viper) {
	// 总开关：默认启用事件系统
	v.SetDefault("events.enabled", true)

	// 通知相关的事件默认开启，邮件投递由下游消费者完成
	v.SetDefault("events.task.assigned", true)
	v.SetDefault("events.task.status_changed", true)
	v.SetDefault("events.task.commented", true)

	// 其余事件按需开启，避免噪声过大
	v.SetDefault("events.task.created", false)
	v.SetDefault("events.task.updated", false)
	v.SetDefault("events.task.deleted", false)

	v.SetDefault("events.attachment.uploaded", true)
	v.SetDefault("events.attachment.restored", false)
	v.SetDefault("events.attachment.deleted", true)
}
