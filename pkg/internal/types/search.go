package types

// SearchRequest 全局搜索参数.
type SearchRequest struct {
	PageRequest
	Query     string `binding:"required,min=1" form:"q"          json:"q"`
	ProjectID uint   `form:"project_id" json:"project_id,omitempty"` // 限定项目，0 表示全部
	Type      string `binding:"omitempty,task_type" form:"type" json:"type,omitempty"`
}

// SearchResponse 搜索结果，匹配任务标题、描述与评论正文.
type SearchResponse struct {
	Tasks []TaskInfo `json:"tasks"`
	Total int64      `json:"total"`
}
