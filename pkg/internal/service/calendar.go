package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"gorm.io/gorm"

	"github.com/yeisme/taskvault/pkg/internal/model"
	"github.com/yeisme/taskvault/pkg/internal/types"
)

// CalendarService 按到期日聚合任务的日历视图.
type CalendarService struct {
	db *gorm.DB
}

// NewCalendarService 从请求上下文解析依赖构造日历服务.
func NewCalendarService(c context.Context) *CalendarService {
	return &CalendarService{db: depsFromContext(c).db}
}

// NewCalendarServiceWith 显式依赖构造，供测试使用.
func NewCalendarServiceWith(db *gorm.DB) *CalendarService {
	return &CalendarService{db: db}
}

// Range 返回 [from, to] 区间内有到期日的任务，按日期分组.
// req.Month 非空时区间取整月，projectID 为 0 时跨项目.
func (s *CalendarService) Range(ctx context.Context, projectID uint, req *types.CalendarRequest) (*types.CalendarResponse, error) {
	var from, to time.Time

	if req.Month != "" {
		m, err := time.Parse("2006-01", req.Month)
		if err != nil {
			return nil, fmt.Errorf("%w: month %q", ErrBadDueDate, req.Month)
		}

		from = m
		to = m.AddDate(0, 1, -1)
	} else {
		var err error

		if from, err = parseDueDate(req.From); err != nil {
			return nil, err
		}

		if to, err = parseDueDate(req.To); err != nil {
			return nil, err
		}
	}

	if to.Before(from) {
		return nil, fmt.Errorf("%w: range %s..%s", ErrBadDueDate, req.From, req.To)
	}

	// 右边界取到当天结束
	to = to.Add(24*time.Hour - time.Nanosecond)

	q := s.db.WithContext(ctx).
		Where("due_date IS NOT NULL AND due_date >= ? AND due_date <= ?", from, to)

	if projectID != 0 {
		q = q.Where("project_id = ?", projectID)
	}

	var tasks []model.Task
	if err := q.Order("due_date, id").Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("load calendar tasks: %w", err)
	}

	grouped := make(map[string][]types.TaskInfo)
	for i := range tasks {
		day := tasks[i].DueDate.UTC().Format("2006-01-02")
		grouped[day] = append(grouped[day], TaskToInfo(&tasks[i]))
	}

	days := make([]string, 0, len(grouped))
	for day := range grouped {
		days = append(days, day)
	}

	sort.Strings(days)

	resp := &types.CalendarResponse{
		ProjectID: projectID,
		Entries:   make([]types.CalendarEntry, 0, len(days)),
	}
	for _, day := range days {
		resp.Entries = append(resp.Entries, types.CalendarEntry{Date: day, Tasks: grouped[day]})
	}

	return resp, nil
}

// DueBetween 返回到期时间落在区间内且未完成的任务，调度器的到期提醒使用.
func (s *CalendarService) DueBetween(ctx context.Context, from, to time.Time) ([]model.Task, error) {
	var tasks []model.Task

	err := s.db.WithContext(ctx).
		Where("due_date IS NOT NULL AND due_date >= ? AND due_date < ? AND status <> ?",
			from, to, model.TaskStatusDone).
		Find(&tasks).Error
	if err != nil {
		return nil, fmt.Errorf("load due tasks: %w", err)
	}

	return tasks, nil
}
