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
	"github.com/yeisme/taskvault/pkg/queue"
)

var (
	ErrProjectNotFound = errors.New("project not found")
	ErrProjectArchived = errors.New("project is archived")
)

// ProjectService 项目生命周期管理.
type ProjectService struct {
	db    *gorm.DB
	pub   message.Publisher
	state *state.Store
}

// NewProjectService 从请求上下文解析依赖构造项目服务.
func NewProjectService(c context.Context, st *state.Store) *ProjectService {
	d := depsFromContext(c)

	return &ProjectService{db: d.db, pub: d.pub, state: st}
}

// Create 创建项目，操作人成为负责人.
func (s *ProjectService) Create(ctx context.Context, owner string, req *types.CreateProjectRequest) (*model.Project, error) {
	p := model.Project{
		Name:        req.Name,
		Description: req.Description,
		Owner:       owner,
		Status:      model.ProjectStatusActive,
		Color:       req.Color,
	}

	if len(req.Members) > 0 {
		raw, err := json.Marshal(req.Members)
		if err != nil {
			return nil, fmt.Errorf("encode members: %w", err)
		}

		p.MembersJSON = string(raw)
	}

	if err := s.db.WithContext(ctx).Create(&p).Error; err != nil {
		return nil, fmt.Errorf("create project: %w", err)
	}

	s.syncState(ctx, &p)
	s.publish(queue.TopicProjectCreated, &p, owner)

	return &p, nil
}

// Update 更新项目字段，nil 字段不修改.
func (s *ProjectService) Update(ctx context.Context, id uint, actor string, req *types.UpdateProjectRequest) (*model.Project, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}

	if req.Name != nil {
		updates["name"] = *req.Name
	}

	if req.Description != nil {
		updates["description"] = *req.Description
	}

	if req.Color != nil {
		updates["color"] = *req.Color
	}

	if req.Members != nil {
		raw, err := json.Marshal(req.Members)
		if err != nil {
			return nil, fmt.Errorf("encode members: %w", err)
		}

		updates["members_json"] = string(raw)
	}

	if len(updates) == 0 {
		return p, nil
	}

	if err := s.db.WithContext(ctx).Model(p).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("update project: %w", err)
	}

	p, err = s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	s.syncState(ctx, p)
	s.publish(queue.TopicProjectUpdated, p, actor)

	return p, nil
}

// Archive 归档项目，归档后项目下的任务不可再变更.
func (s *ProjectService) Archive(ctx context.Context, id uint, actor string) (*model.Project, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if p.Status == model.ProjectStatusArchived {
		return p, nil
	}

	if err := s.db.WithContext(ctx).Model(p).Update("status", model.ProjectStatusArchived).Error; err != nil {
		return nil, fmt.Errorf("archive project: %w", err)
	}

	p.Status = model.ProjectStatusArchived

	s.syncState(ctx, p)
	s.publish(queue.TopicProjectArchived, p, actor)

	return p, nil
}

// Delete 软删除项目及其状态镜像.
func (s *ProjectService) Delete(ctx context.Context, id uint, actor string) error {
	p, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := s.db.WithContext(ctx).Delete(p).Error; err != nil {
		return fmt.Errorf("delete project: %w", err)
	}

	if s.state != nil {
		if err := s.state.DeleteProject(ctx, id); err != nil {
			tlog.Logger().Warn().Err(err).Uint("project_id", id).Msg("state cache delete failed")
		}
	}

	s.publish(queue.TopicProjectDeleted, p, actor)

	return nil
}

// Get 按 ID 读取项目.
func (s *ProjectService) Get(ctx context.Context, id uint) (*model.Project, error) {
	var p model.Project

	err := s.db.WithContext(ctx).First(&p, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: id %d", ErrProjectNotFound, id)
	}

	if err != nil {
		return nil, fmt.Errorf("load project: %w", err)
	}

	return &p, nil
}

// List 返回全部项目及每个项目的任务数.
func (s *ProjectService) List(ctx context.Context) (*types.ListProjectsResponse, error) {
	var projects []model.Project

	if err := s.db.WithContext(ctx).Order("id").Find(&projects).Error; err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}

	resp := &types.ListProjectsResponse{
		Projects: make([]types.ProjectInfo, 0, len(projects)),
		Total:    int64(len(projects)),
	}

	for i := range projects {
		info := ProjectToInfo(&projects[i])

		var count int64
		if err := s.db.WithContext(ctx).Model(&model.Task{}).
			Where("project_id = ?", projects[i].ID).Count(&count).Error; err == nil {
			info.TaskCount = count
		}

		resp.Projects = append(resp.Projects, info)
	}

	return resp, nil
}

// Stats 统计项目任务与附件分布.
func (s *ProjectService) Stats(ctx context.Context, id uint) (*types.ProjectStats, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}

	stats := &types.ProjectStats{
		ProjectID:   id,
		ByStatus:    make(map[string]int64),
		ByType:      make(map[string]int64),
		ByPriority:  make(map[string]int64),
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
	}

	type bucket struct {
		Key   string
		Count int64
	}

	for col, dst := range map[string]map[string]int64{
		"status":   stats.ByStatus,
		"type":     stats.ByType,
		"priority": stats.ByPriority,
	} {
		var rows []bucket

		err := s.db.WithContext(ctx).Model(&model.Task{}).
			Select(col+" AS key, COUNT(*) AS count").
			Where("project_id = ?", id).
			Group(col).
			Scan(&rows).Error
		if err != nil {
			return nil, fmt.Errorf("aggregate tasks by %s: %w", col, err)
		}

		for _, r := range rows {
			dst[r.Key] = r.Count
			if col == "status" {
				stats.TaskTotal += r.Count
			}
		}
	}

	now := time.Now().UTC()
	if err := s.db.WithContext(ctx).Model(&model.Task{}).
		Where("project_id = ? AND due_date < ? AND status <> ?", id, now, model.TaskStatusDone).
		Count(&stats.Overdue).Error; err != nil {
		return nil, fmt.Errorf("count overdue tasks: %w", err)
	}

	// 附件只统计最新版本
	row := s.db.WithContext(ctx).Model(&model.Attachment{}).
		Select("COUNT(*) AS total, COALESCE(SUM(file_size), 0) AS bytes").
		Where("is_latest = ? AND task_id IN (?)", true,
			s.db.Model(&model.Task{}).Select("id").Where("project_id = ?", id))

	var agg struct {
		Total int64
		Bytes int64
	}

	if err := row.Scan(&agg).Error; err != nil {
		return nil, fmt.Errorf("aggregate attachments: %w", err)
	}

	stats.AttachmentTotal = agg.Total
	stats.AttachmentBytes = agg.Bytes

	return stats, nil
}

func (s *ProjectService) syncState(ctx context.Context, p *model.Project) {
	if s.state == nil {
		return
	}

	if err := s.state.PutProject(ctx, *p); err != nil {
		tlog.Logger().Warn().Err(err).Uint("project_id", p.ID).Msg("state cache sync failed")
	}
}

func (s *ProjectService) publish(topic string, p *model.Project, actor string) {
	if s.pub == nil {
		return
	}

	msg, err := queue.NewWatermillMessage(topic, queue.ProjectPayload{
		ProjectID: p.ID,
		Name:      p.Name,
		Actor:     actor,
	}, queue.WithProducer(configs.AppName))
	if err == nil {
		err = s.pub.Publish(topic, msg)
	}

	if err != nil {
		tlog.Logger().Warn().Err(err).Str("topic", topic).Msg("publish project event failed")
	}
}

// ProjectToInfo 将项目模型转换为 API 响应结构.
func ProjectToInfo(p *model.Project) types.ProjectInfo {
	info := types.ProjectInfo{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Owner:       p.Owner,
		Status:      p.Status,
		Color:       p.Color,
		CreatedAt:   p.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:   p.UpdatedAt.UTC().Format(time.RFC3339),
	}

	if p.MembersJSON != "" {
		_ = json.Unmarshal([]byte(p.MembersJSON), &info.Members)
	}

	return info
}
