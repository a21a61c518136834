package types

// CreateCommentRequest 创建评论请求.
type CreateCommentRequest struct {
	Body string `binding:"required,min=1,max=8192" json:"body"`
}

// CommentInfo 评论信息.
type CommentInfo struct {
	ID        uint     `json:"id"`
	TaskID    uint     `json:"task_id"`
	Author    string   `json:"author"`
	Body      string   `json:"body"`
	Mentions  []string `json:"mentions,omitempty"` // 正文中 @ 提及的用户
	CreatedAt string   `json:"created_at"`
}

// ListCommentsResponse 评论列表响应.
type ListCommentsResponse struct {
	Comments []CommentInfo `json:"comments"`
	Total    int64         `json:"total"`
}
