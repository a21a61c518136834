package types

// NotificationInfo 通知信息.
type NotificationInfo struct {
	ID        uint   `json:"id"`
	Recipient string `json:"recipient"`
	Kind      string `json:"kind"`
	TaskID    uint   `json:"task_id,omitempty"`
	Body      string `json:"body"`
	Read      bool   `json:"read"`
	CreatedAt string `json:"created_at"`
	ReadAt    string `json:"read_at,omitempty"`
}

// ListNotificationsRequest 通知列表筛选参数.
type ListNotificationsRequest struct {
	PageRequest
	Unread bool `form:"unread" json:"unread,omitempty"` // 仅未读
}

// ListNotificationsResponse 通知列表响应.
type ListNotificationsResponse struct {
	Notifications []NotificationInfo `json:"notifications"`
	Total         int64              `json:"total"`
	Unread        int64              `json:"unread"`
}

// MarkNotificationsReadRequest 批量标记已读请求，空列表表示全部.
type MarkNotificationsReadRequest struct {
	IDs []uint `json:"ids,omitempty"`
}

// MarkNotificationsReadResponse 批量标记已读响应.
type MarkNotificationsReadResponse struct {
	Marked int64 `json:"marked"`
}
