package types

// CalendarRequest 日历视图查询参数，month 与 from/to 二选一.
type CalendarRequest struct {
	Month string `binding:"omitempty,len=7" form:"month" json:"month"` // 月视图，2006-01
	From  string `binding:"required_without=Month" form:"from" json:"from"` // RFC3339 或 2006-01-02
	To    string `binding:"required_without=Month" form:"to"   json:"to"`
}

// CalendarEntry 日历条目，按到期日聚合任务.
type CalendarEntry struct {
	Date  string     `json:"date"` // 2006-01-02
	Tasks []TaskInfo `json:"tasks"`
}

// CalendarResponse 日历视图响应.
type CalendarResponse struct {
	ProjectID uint            `json:"project_id,omitempty"` // 0 表示跨项目
	Entries   []CalendarEntry `json:"entries"`
}
