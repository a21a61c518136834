package types

// CreateProjectRequest 创建项目请求.
type CreateProjectRequest struct {
	Name        string   `binding:"required,min=1,max=255" json:"name"`
	Description string   `json:"description,omitempty"`
	Color       string   `binding:"omitempty,hexcolor" json:"color,omitempty"`
	Members     []string `json:"members,omitempty"` // 成员邮箱列表
}

// UpdateProjectRequest 更新项目请求，零值字段表示不修改.
type UpdateProjectRequest struct {
	Name        *string  `json:"name,omitempty"`
	Description *string  `json:"description,omitempty"`
	Color       *string  `binding:"omitempty" json:"color,omitempty"`
	Members     []string `json:"members,omitempty"`
}

// ProjectInfo 项目信息.
type ProjectInfo struct {
	ID          uint     `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Owner       string   `json:"owner"`
	Status      string   `json:"status"`
	Color       string   `json:"color,omitempty"`
	Members     []string `json:"members,omitempty"`
	TaskCount   int64    `json:"task_count"`
	CreatedAt   string   `json:"created_at"` // RFC3339
	UpdatedAt   string   `json:"updated_at"`
}

// ListProjectsResponse 项目列表响应.
type ListProjectsResponse struct {
	Projects []ProjectInfo `json:"projects"`
	Total    int64         `json:"total"`
}
