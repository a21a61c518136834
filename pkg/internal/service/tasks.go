package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"gorm.io/gorm"

	"github.com/yeisme/taskvault/pkg/configs"
	"github.com/yeisme/taskvault/pkg/internal/model"
	"github.com/yeisme/taskvault/pkg/internal/state"
	"github.com/yeisme/taskvault/pkg/internal/types"
	tlog "github.com/yeisme/taskvault/pkg/log"
	"github.com/yeisme/taskvault/pkg/metrics"
	"github.com/yeisme/taskvault/pkg/queue"
)

var (
	ErrTaskNotFound      = errors.New("task not found")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrBadDueDate        = errors.New("invalid due date")
)

// statusTransitions 固定工作流：todo → in_progress → review → done，
// review 可退回 in_progress，blocked 与任一未完成状态互转.
var statusTransitions = map[string][]string{
	model.TaskStatusTodo:       {model.TaskStatusInProgress, model.TaskStatusBlocked},
	model.TaskStatusInProgress: {model.TaskStatusReview, model.TaskStatusBlocked},
	model.TaskStatusReview:     {model.TaskStatusDone, model.TaskStatusInProgress, model.TaskStatusBlocked},
	model.TaskStatusBlocked:    {model.TaskStatusTodo, model.TaskStatusInProgress, model.TaskStatusReview},
	model.TaskStatusDone:       {},
}

// CanTransition 判断状态流转是否合法.
func CanTransition(from, to string) bool {
	if from == to {
		return true
	}

	for _, next := range statusTransitions[from] {
		if next == to {
			return true
		}
	}

	return false
}

// TaskService 任务 CRUD 与状态工作流.
type TaskService struct {
	db    *gorm.DB
	pub   message.Publisher
	state *state.Store
}

// NewTaskService 从请求上下文解析依赖构造任务服务.
func NewTaskService(c context.Context, st *state.Store) *TaskService {
	d := depsFromContext(c)

	return &TaskService{db: d.db, pub: d.pub, state: st}
}

// NewTaskServiceWith 显式依赖构造，供测试与定时任务复用.
func NewTaskServiceWith(db *gorm.DB, st *state.Store) *TaskService {
	return &TaskService{db: db, state: st}
}

// Create 在项目下创建任务，初始状态 todo，追加到看板列尾.
func (s *TaskService) Create(ctx context.Context, projectID uint, reporter string,
	req *types.CreateTaskRequest,
) (*model.Task, error) {
	var project model.Project

	err := s.db.WithContext(ctx).First(&project, projectID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: id %d", ErrProjectNotFound, projectID)
	}

	if err != nil {
		return nil, fmt.Errorf("load project: %w", err)
	}

	if project.Status == model.ProjectStatusArchived {
		return nil, fmt.Errorf("%w: id %d", ErrProjectArchived, projectID)
	}

	t := model.Task{
		ProjectID:   projectID,
		Title:       req.Title,
		Description: req.Description,
		Type:        req.Type,
		Status:      model.TaskStatusTodo,
		Priority:    req.Priority,
		Assignee:    req.Assignee,
		Reporter:    reporter,
	}

	if t.Priority == "" {
		t.Priority = model.TaskPriorityMedium
	}

	if req.DueDate != "" {
		due, err := parseDueDate(req.DueDate)
		if err != nil {
			return nil, err
		}

		t.DueDate = &due
	}

	if len(req.Tags) > 0 {
		raw, err := json.Marshal(req.Tags)
		if err != nil {
			return nil, fmt.Errorf("encode task tags: %w", err)
		}

		t.TagsJSON = string(raw)
	}

	if len(req.Metadata) > 0 {
		raw, err := json.Marshal(req.Metadata)
		if err != nil {
			return nil, fmt.Errorf("encode task metadata: %w", err)
		}

		t.MetadataJSON = string(raw)
	}

	// 追加到 todo 列尾
	lastRank, err := s.lastRank(ctx, projectID, model.TaskStatusTodo)
	if err != nil {
		return nil, err
	}

	t.Rank = rankBetween(lastRank, "")

	if err := s.db.WithContext(ctx).Create(&t).Error; err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}

	s.syncState(ctx, &t)
	s.publishTask(queue.TopicTaskCreated, queue.TaskCreatedPayload{
		Task:     taskRef(&t),
		Assignee: t.Assignee,
		Actor:    reporter,
	})

	if t.Assignee != "" {
		s.publishTask(queue.TopicTaskAssigned, queue.TaskAssignedPayload{
			Task:     taskRef(&t),
			Assignee: t.Assignee,
			Actor:    reporter,
		})
	}

	return &t, nil
}

// Update 更新任务字段，nil 字段不修改.
func (s *TaskService) Update(ctx context.Context, id uint, actor string, req *types.UpdateTaskRequest) (*model.Task, error) {
	t, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	changed := []string{}

	if req.Title != nil {
		updates["title"] = *req.Title
		changed = append(changed, "title")
	}

	if req.Description != nil {
		updates["description"] = *req.Description
		changed = append(changed, "description")
	}

	if req.Priority != nil {
		updates["priority"] = *req.Priority
		changed = append(changed, "priority")
	}

	if req.Assignee != nil {
		updates["assignee"] = *req.Assignee
		changed = append(changed, "assignee")
	}

	if req.DueDate != nil {
		if *req.DueDate == "" {
			updates["due_date"] = nil
		} else {
			due, err := parseDueDate(*req.DueDate)
			if err != nil {
				return nil, err
			}

			updates["due_date"] = due
		}

		changed = append(changed, "due_date")
	}

	if req.Tags != nil {
		raw, err := json.Marshal(req.Tags)
		if err != nil {
			return nil, fmt.Errorf("encode task tags: %w", err)
		}

		updates["tags_json"] = string(raw)
		changed = append(changed, "tags")
	}

	if req.Metadata != nil {
		raw, err := json.Marshal(req.Metadata)
		if err != nil {
			return nil, fmt.Errorf("encode task metadata: %w", err)
		}

		updates["metadata_json"] = string(raw)
		changed = append(changed, "metadata")
	}

	if len(updates) == 0 {
		return t, nil
	}

	prevAssignee := t.Assignee

	if err := s.db.WithContext(ctx).Model(t).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}

	t, err = s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	s.syncState(ctx, t)
	s.publishTask(queue.TopicTaskUpdated, queue.TaskUpdatedPayload{
		Task:          taskRef(t),
		ChangedFields: changed,
		Actor:         actor,
	})

	if req.Assignee != nil && *req.Assignee != prevAssignee && *req.Assignee != "" {
		s.publishTask(queue.TopicTaskAssigned, queue.TaskAssignedPayload{
			Task:         taskRef(t),
			PrevAssignee: prevAssignee,
			Assignee:     *req.Assignee,
			Actor:        actor,
		})
	}

	return t, nil
}

// ChangeStatus 按固定工作流流转任务状态.
func (s *TaskService) ChangeStatus(ctx context.Context, id uint, actor, to string) (*model.Task, error) {
	t, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if t.Status == to {
		return t, nil
	}

	if !CanTransition(t.Status, to) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, t.Status, to)
	}

	from := t.Status

	// 进入新列时追加到列尾
	lastRank, err := s.lastRank(ctx, t.ProjectID, to)
	if err != nil {
		return nil, err
	}

	newRank := rankBetween(lastRank, "")
	updates := map[string]any{"status": to, "board_rank": newRank}

	if err := s.db.WithContext(ctx).Model(t).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("change task status: %w", err)
	}

	t.Status = to
	t.Rank = newRank

	metrics.TaskStatusChanges.WithLabelValues(from, to).Inc()

	s.syncState(ctx, t)

	if s.pub != nil {
		err := queue.PublishTaskStatusChanged(s.pub, queue.TaskStatusChangedPayload{
			Task:       taskRef(t),
			FromStatus: from,
			ToStatus:   to,
			Assignee:   t.Assignee,
			Actor:      actor,
		}, queue.WithProducer(configs.AppName))
		if err != nil {
			tlog.Logger().Warn().Err(err).Msg("publish task status event failed")
		}
	}

	return t, nil
}

// Assign 指派任务.
func (s *TaskService) Assign(ctx context.Context, id uint, actor, assignee string) (*model.Task, error) {
	return s.Update(ctx, id, actor, &types.UpdateTaskRequest{Assignee: &assignee})
}

// Delete 软删除任务.
func (s *TaskService) Delete(ctx context.Context, id uint, actor string) error {
	t, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := s.db.WithContext(ctx).Delete(t).Error; err != nil {
		return fmt.Errorf("delete task: %w", err)
	}

	if s.state != nil {
		if err := s.state.DeleteTask(ctx, id); err != nil {
			tlog.Logger().Warn().Err(err).Uint("task_id", id).Msg("state cache delete failed")
		}
	}

	s.publishTask(queue.TopicTaskDeleted, queue.TaskDeletedPayload{Task: taskRef(t), Actor: actor})

	return nil
}

// Get 按 ID 读取任务.
func (s *TaskService) Get(ctx context.Context, id uint) (*model.Task, error) {
	var t model.Task

	err := s.db.WithContext(ctx).First(&t, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: id %d", ErrTaskNotFound, id)
	}

	if err != nil {
		return nil, fmt.Errorf("load task: %w", err)
	}

	return &t, nil
}

// List 按筛选条件分页列出项目下的任务.
func (s *TaskService) List(ctx context.Context, projectID uint, req *types.ListTasksRequest) (*types.ListTasksResponse, error) {
	q := s.db.WithContext(ctx).Model(&model.Task{}).Where("project_id = ?", projectID)

	if req.Status != "" {
		q = q.Where("status = ?", req.Status)
	}

	if req.Type != "" {
		q = q.Where("type = ?", req.Type)
	}

	if req.Priority != "" {
		q = q.Where("priority = ?", req.Priority)
	}

	if req.Assignee != "" {
		q = q.Where("assignee = ?", req.Assignee)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("count tasks: %w", err)
	}

	offset, limit := req.Normalize()

	var tasks []model.Task
	if err := q.Order("id").Offset(offset).Limit(limit).Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}

	resp := &types.ListTasksResponse{
		Tasks: make([]types.TaskInfo, 0, len(tasks)),
		Total: total,
	}
	for i := range tasks {
		resp.Tasks = append(resp.Tasks, TaskToInfo(&tasks[i]))
	}

	return resp, nil
}

// lastRank 返回列内最大的排序键，空列返回空串.
func (s *TaskService) lastRank(ctx context.Context, projectID uint, status string) (string, error) {
	var last model.Task

	err := s.db.WithContext(ctx).
		Where("project_id = ? AND status = ?", projectID, status).
		Order("board_rank DESC").
		First(&last).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}

	if err != nil {
		return "", fmt.Errorf("find column tail: %w", err)
	}

	return last.Rank, nil
}

func (s *TaskService) syncState(ctx context.Context, t *model.Task) {
	if s.state == nil {
		return
	}

	if err := s.state.PutTask(ctx, *t); err != nil {
		tlog.Logger().Warn().Err(err).Uint("task_id", t.ID).Msg("state cache sync failed")
	}
}

func (s *TaskService) publishTask(topic string, payload any) {
	if s.pub == nil {
		return
	}

	msg, err := queue.NewWatermillMessage(topic, payload, queue.WithProducer(configs.AppName))
	if err == nil {
		err = s.pub.Publish(topic, msg)
	}

	if err != nil {
		tlog.Logger().Warn().Err(err).Str("topic", topic).Msg("publish task event failed")
	}
}

func parseDueDate(raw string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if due, err := time.Parse(layout, raw); err == nil {
			return due.UTC(), nil
		}
	}

	return time.Time{}, fmt.Errorf("%w: %q", ErrBadDueDate, raw)
}

func taskRef(t *model.Task) queue.TaskRef {
	return queue.TaskRef{
		TaskID:    t.ID,
		ProjectID: t.ProjectID,
		Title:     t.Title,
		Type:      t.Type,
	}
}

// TaskToInfo 将任务模型转换为 API 响应结构.
func TaskToInfo(t *model.Task) types.TaskInfo {
	info := types.TaskInfo{
		ID:          t.ID,
		ProjectID:   t.ProjectID,
		Title:       t.Title,
		Description: t.Description,
		Type:        t.Type,
		Status:      t.Status,
		Priority:    t.Priority,
		Assignee:    t.Assignee,
		Reporter:    t.Reporter,
		Rank:        t.Rank,
		CreatedAt:   t.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:   t.UpdatedAt.UTC().Format(time.RFC3339),
	}

	if t.DueDate != nil {
		info.DueDate = t.DueDate.UTC().Format(time.RFC3339)
	}

	if t.TagsJSON != "" {
		_ = json.Unmarshal([]byte(t.TagsJSON), &info.Tags)
	}

	if t.MetadataJSON != "" {
		_ = json.Unmarshal([]byte(t.MetadataJSON), &info.Metadata)
	}

	return info
}
