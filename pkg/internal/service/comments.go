package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
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
	ErrCommentNotFound  = errors.New("comment not found")
	ErrNotCommentAuthor = errors.New("comment can only be deleted by its author")
)

// mentionPattern 评论正文中 @邮箱 形式的提及.
var mentionPattern = regexp.MustCompile(`@([A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,})`)

// CommentService 任务评论.
type CommentService struct {
	db    *gorm.DB
	pub   message.Publisher
	state *state.Store
}

// NewCommentService 从请求上下文解析依赖构造评论服务.
func NewCommentService(c context.Context, st *state.Store) *CommentService {
	d := depsFromContext(c)

	return &CommentService{db: d.db, pub: d.pub, state: st}
}

// Create 在任务下创建评论，解析正文中的 @提及并随事件发布.
func (s *CommentService) Create(ctx context.Context, taskID uint, author string, req *types.CreateCommentRequest) (*model.Comment, error) {
	var task model.Task

	err := s.db.WithContext(ctx).First(&task, taskID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: id %d", ErrTaskNotFound, taskID)
	}

	if err != nil {
		return nil, fmt.Errorf("load task: %w", err)
	}

	c := model.Comment{
		TaskID: taskID,
		Author: author,
		Body:   req.Body,
	}

	mentions := ExtractMentions(req.Body)
	if err := c.SetMentions(mentions); err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Create(&c).Error; err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}

	if s.state != nil {
		if err := s.state.PutComment(ctx, c); err != nil {
			tlog.Logger().Warn().Err(err).Uint("comment_id", c.ID).Msg("state cache sync failed")
		}
	}

	s.publish(queue.TopicCommentCreated, &c, &task, mentions)

	return &c, nil
}

// Delete 删除评论，仅作者本人可删.
func (s *CommentService) Delete(ctx context.Context, id uint, actor string) error {
	var c model.Comment

	err := s.db.WithContext(ctx).First(&c, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: id %d", ErrCommentNotFound, id)
	}

	if err != nil {
		return fmt.Errorf("load comment: %w", err)
	}

	if c.Author != actor {
		return fmt.Errorf("%w: id %d", ErrNotCommentAuthor, id)
	}

	if err := s.db.WithContext(ctx).Delete(&c).Error; err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}

	if s.state != nil {
		if err := s.state.DeleteComment(ctx, id); err != nil {
			tlog.Logger().Warn().Err(err).Uint("comment_id", id).Msg("state cache delete failed")
		}
	}

	s.publish(queue.TopicCommentDeleted, &c, nil, nil)

	return nil
}

// List 按创建顺序返回任务下的评论.
func (s *CommentService) List(ctx context.Context, taskID uint) (*types.ListCommentsResponse, error) {
	var comments []model.Comment

	err := s.db.WithContext(ctx).
		Where("task_id = ?", taskID).
		Order("id").
		Find(&comments).Error
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}

	resp := &types.ListCommentsResponse{
		Comments: make([]types.CommentInfo, 0, len(comments)),
		Total:    int64(len(comments)),
	}
	for i := range comments {
		resp.Comments = append(resp.Comments, CommentToInfo(&comments[i]))
	}

	return resp, nil
}

// ExtractMentions 提取正文中 @邮箱 提及，去重保序.
func ExtractMentions(body string) []string {
	matches := mentionPattern.FindAllStringSubmatch(body, -1)
	if len(matches) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(matches))

	var out []string

	for _, m := range matches {
		if _, ok := seen[m[1]]; ok {
			continue
		}

		seen[m[1]] = struct{}{}
		out = append(out, m[1])
	}

	return out
}

func (s *CommentService) publish(topic string, c *model.Comment, task *model.Task, mentions []string) {
	if s.pub == nil {
		return
	}

	payload := queue.CommentPayload{
		CommentID: c.ID,
		Task:      queue.TaskRef{TaskID: c.TaskID},
		Author:    c.Author,
		Mentions:  mentions,
	}
	if task != nil {
		payload.Task = taskRef(task)
	}

	msg, err := queue.NewWatermillMessage(topic, payload, queue.WithProducer(configs.AppName))
	if err == nil {
		err = s.pub.Publish(topic, msg)
	}

	if err != nil {
		tlog.Logger().Warn().Err(err).Str("topic", topic).Msg("publish comment event failed")
	}
}

// CommentToInfo 将评论模型转换为 API 响应结构.
func CommentToInfo(c *model.Comment) types.CommentInfo {
	info := types.CommentInfo{
		ID:        c.ID,
		TaskID:    c.TaskID,
		Author:    c.Author,
		Body:      c.Body,
		CreatedAt: c.CreatedAt.UTC().Format(time.RFC3339),
	}

	if mentions, err := c.Mentions(); err == nil {
		info.Mentions = mentions
	}

	return info
}
