package service

import (
	"context"

	"github.com/yeisme/taskvault/pkg/internal/model"
	"github.com/yeisme/taskvault/pkg/internal/state"
	"github.com/yeisme/taskvault/pkg/internal/types"
)

// SearchService 任务子串搜索，直接读内存状态镜像，不落数据库.
type SearchService struct {
	state *state.Store
}

// NewSearchService 构造搜索服务.
func NewSearchService(st *state.Store) *SearchService {
	return &SearchService{state: st}
}

// Search 在任务标题、描述与元数据中搜索，支持项目与类型过滤、分页.
func (s *SearchService) Search(_ context.Context, req *types.SearchRequest) (*types.SearchResponse, error) {
	matched := s.state.SearchTasks(req.ProjectID, req.Query)

	if req.Type != "" {
		filtered := matched[:0]

		for _, t := range matched {
			if t.Type == req.Type {
				filtered = append(filtered, t)
			}
		}

		matched = filtered
	}

	total := int64(len(matched))
	offset, limit := req.Normalize()

	if offset >= len(matched) {
		matched = nil
	} else {
		end := offset + limit
		if end > len(matched) {
			end = len(matched)
		}

		matched = matched[offset:end]
	}

	resp := &types.SearchResponse{
		Tasks: make([]types.TaskInfo, 0, len(matched)),
		Total: total,
	}

	for i := range matched {
		t := matched[i]
		resp.Tasks = append(resp.Tasks, TaskToInfo(&t))
	}

	return resp, nil
}

// RebuildState 从数据库全量重建状态镜像，服务启动时调用.
func RebuildState(ctx context.Context, svc *TaskService, st *state.Store) error {
	var projects []model.Project
	if err := svc.db.WithContext(ctx).Find(&projects).Error; err != nil {
		return err
	}

	for i := range projects {
		if err := st.PutProject(ctx, projects[i]); err != nil {
			return err
		}
	}

	var tasks []model.Task
	if err := svc.db.WithContext(ctx).Find(&tasks).Error; err != nil {
		return err
	}

	for i := range tasks {
		if err := st.PutTask(ctx, tasks[i]); err != nil {
			return err
		}
	}

	var comments []model.Comment
	if err := svc.db.WithContext(ctx).Find(&comments).Error; err != nil {
		return err
	}

	for i := range comments {
		if err := st.PutComment(ctx, comments[i]); err != nil {
			return err
		}
	}

	var notifications []model.Notification
	if err := svc.db.WithContext(ctx).Find(&notifications).Error; err != nil {
		return err
	}

	for i := range notifications {
		if err := st.PutNotification(ctx, notifications[i]); err != nil {
			return err
		}
	}

	return nil
}
