package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

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

var ErrBadMoveTarget = errors.New("move target does not belong to the column")

// boardColumns 看板列顺序.
var boardColumns = []string{
	model.TaskStatusTodo,
	model.TaskStatusInProgress,
	model.TaskStatusReview,
	model.TaskStatusDone,
	model.TaskStatusBlocked,
}

// rankDigits 排序键字符表，base36 字典序.
const rankDigits = "0123456789abcdefghijklmnopqrstuvwxyz"

// rankBetween 返回字典序严格介于 prev 与 next 之间的排序键.
// prev 为空表示列首，next 为空表示列尾.所有排序键都由本函数生成，
// 因此不会出现无法插入的相邻键.
func rankBetween(prev, next string) string {
	var out []byte

	for i := 0; ; i++ {
		p := 0
		if i < len(prev) {
			p = strings.IndexByte(rankDigits, prev[i])
		}

		n := len(rankDigits)
		if i < len(next) {
			n = strings.IndexByte(rankDigits, next[i])
		}

		if n-p > 1 {
			out = append(out, rankDigits[p+(n-p)/2])

			return string(out)
		}

		// 无空隙：复制下界字符，继续向后找
		out = append(out, rankDigits[p])

		if n-p == 1 {
			// 越过分歧点后上界不再约束
			next = ""
		}
	}
}

// BoardService 项目看板视图与拖拽移动.
type BoardService struct {
	db    *gorm.DB
	pub   message.Publisher
	state *state.Store
}

// NewBoardService 从请求上下文解析依赖构造看板服务.
func NewBoardService(c context.Context, st *state.Store) *BoardService {
	d := depsFromContext(c)

	return &BoardService{db: d.db, pub: d.pub, state: st}
}

// NewBoardServiceWith 显式依赖构造，供测试使用.
func NewBoardServiceWith(db *gorm.DB, st *state.Store) *BoardService {
	return &BoardService{db: db, state: st}
}

// View 返回项目看板：任务按状态分列，列内按排序键升序.
func (s *BoardService) View(ctx context.Context, projectID uint) (*types.BoardResponse, error) {
	var tasks []model.Task

	err := s.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("board_rank, id").
		Find(&tasks).Error
	if err != nil {
		return nil, fmt.Errorf("load board tasks: %w", err)
	}

	grouped := make(map[string][]types.TaskInfo, len(boardColumns))
	for i := range tasks {
		grouped[tasks[i].Status] = append(grouped[tasks[i].Status], TaskToInfo(&tasks[i]))
	}

	resp := &types.BoardResponse{
		ProjectID: projectID,
		Columns:   make([]types.BoardColumn, 0, len(boardColumns)),
	}
	for _, status := range boardColumns {
		resp.Columns = append(resp.Columns, types.BoardColumn{
			Status: status,
			Tasks:  grouped[status],
		})
	}

	return resp, nil
}

// Move 将任务移动到目标列的指定位置.跨列移动受状态工作流约束.
// 落点由 AfterID/BeforeID 描述，两者都为零表示移动到列首.
func (s *BoardService) Move(ctx context.Context, taskID uint, actor string, req *types.MoveTaskRequest) (*model.Task, error) {
	var t model.Task

	err := s.db.WithContext(ctx).First(&t, taskID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: id %d", ErrTaskNotFound, taskID)
	}

	if err != nil {
		return nil, fmt.Errorf("load task: %w", err)
	}

	from := t.Status

	if from != req.Status && !CanTransition(from, req.Status) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, req.Status)
	}

	prevRank, err := s.neighborRank(ctx, &t, req.AfterID, req.Status)
	if err != nil {
		return nil, err
	}

	nextRank, err := s.neighborRank(ctx, &t, req.BeforeID, req.Status)
	if err != nil {
		return nil, err
	}

	newRank := rankBetween(prevRank, nextRank)

	updates := map[string]any{"status": req.Status, "board_rank": newRank}
	if err := s.db.WithContext(ctx).Model(&t).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("move task: %w", err)
	}

	t.Status = req.Status
	t.Rank = newRank

	if from != req.Status {
		metrics.TaskStatusChanges.WithLabelValues(from, req.Status).Inc()
	}

	if s.state != nil {
		if err := s.state.PutTask(ctx, t); err != nil {
			tlog.Logger().Warn().Err(err).Uint("task_id", t.ID).Msg("state cache sync failed")
		}
	}

	s.publishMoved(&t, from, actor)

	return &t, nil
}

// neighborRank 解析落点邻居任务的排序键，id 为零返回空串.
// 邻居必须属于同一项目的目标列.
func (s *BoardService) neighborRank(ctx context.Context, moving *model.Task, id uint, status string) (string, error) {
	if id == 0 {
		return "", nil
	}

	var neighbor model.Task

	err := s.db.WithContext(ctx).First(&neighbor, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", fmt.Errorf("%w: id %d", ErrTaskNotFound, id)
	}

	if err != nil {
		return "", fmt.Errorf("load neighbor task: %w", err)
	}

	if neighbor.ProjectID != moving.ProjectID || neighbor.Status != status {
		return "", fmt.Errorf("%w: task %d", ErrBadMoveTarget, id)
	}

	return neighbor.Rank, nil
}

func (s *BoardService) publishMoved(t *model.Task, from, actor string) {
	if s.pub == nil {
		return
	}

	msg, err := queue.NewWatermillMessage(queue.TopicTaskMoved, queue.TaskMovedPayload{
		Task:       taskRef(t),
		FromStatus: from,
		ToStatus:   t.Status,
		Rank:       t.Rank,
		Actor:      actor,
	}, queue.WithProducer(configs.AppName))
	if err == nil {
		err = s.pub.Publish(queue.TopicTaskMoved, msg)
	}

	if err != nil {
		tlog.Logger().Warn().Err(err).Msg("publish task moved event failed")
	}
}
