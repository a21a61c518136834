// Package types 定义 HTTP API 的请求与响应结构体.
package types

// PageRequest 通用分页参数.
type PageRequest struct {
	Page     int `form:"page"      json:"page,omitempty"`      // 页码，从 1 开始
	PageSize int `form:"page_size" json:"page_size,omitempty"` // 每页条数，缺省 20
}

// Normalize 规范化分页参数，返回 offset/limit.
func (p *PageRequest) Normalize() (offset, limit int) {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = 20
	}
	if p.PageSize > 100 {
		p.PageSize = 100
	}
	return (p.Page - 1) * p.PageSize, p.PageSize
}

// ErrorResponse 统一错误响应.
type ErrorResponse struct {
	Error string `json:"error"`
}
