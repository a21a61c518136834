package service

import (
	"context"
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

var ErrNotificationNotFound = errors.New("notification not found")

// NotificationService 站内通知：记录落库，投递交给订阅 MQ 的外部 worker.
type NotificationService struct {
	db    *gorm.DB
	pub   message.Publisher
	state *state.Store
}

// NewNotificationService 从请求上下文解析依赖构造通知服务.
func NewNotificationService(c context.Context, st *state.Store) *NotificationService {
	d := depsFromContext(c)

	return &NotificationService{db: d.db, pub: d.pub, state: st}
}

// NewNotificationServiceWith 显式依赖构造，供事件 worker 与定时任务复用.
func NewNotificationServiceWith(db *gorm.DB, pub message.Publisher, st *state.Store) *NotificationService {
	return &NotificationService{db: db, pub: pub, state: st}
}

// Create 写入一条通知并发布 tv.notify.created 事件.
func (s *NotificationService) Create(ctx context.Context, recipient, kind string, taskID uint, body string) (*model.Notification, error) {
	n := model.Notification{
		Recipient: recipient,
		Kind:      kind,
		TaskID:    taskID,
		Body:      body,
	}

	if err := s.db.WithContext(ctx).Create(&n).Error; err != nil {
		return nil, fmt.Errorf("create notification: %w", err)
	}

	if s.state != nil {
		if err := s.state.PutNotification(ctx, n); err != nil {
			tlog.Logger().Warn().Err(err).Uint("notification_id", n.ID).Msg("state cache sync failed")
		}
	}

	if s.pub != nil {
		err := queue.PublishNotifyCreated(s.pub, queue.NotifyPayload{
			NotificationID: n.ID,
			Recipient:      recipient,
			Kind:           kind,
			TaskID:         taskID,
			Body:           body,
		}, queue.WithProducer(configs.AppName))
		if err != nil {
			tlog.Logger().Warn().Err(err).Msg("publish notify created event failed")
		}
	}

	return &n, nil
}

// List 分页返回收件人的通知.
func (s *NotificationService) List(ctx context.Context, recipient string, req *types.ListNotificationsRequest) (*types.ListNotificationsResponse, error) {
	q := s.db.WithContext(ctx).Model(&model.Notification{}).Where("recipient = ?", recipient)

	if req.Unread {
		q = q.Where("is_read = ?", false)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("count notifications: %w", err)
	}

	var unread int64
	if err := s.db.WithContext(ctx).Model(&model.Notification{}).
		Where("recipient = ? AND is_read = ?", recipient, false).
		Count(&unread).Error; err != nil {
		return nil, fmt.Errorf("count unread notifications: %w", err)
	}

	offset, limit := req.Normalize()

	var rows []model.Notification
	if err := q.Order("id DESC").Offset(offset).Limit(limit).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}

	resp := &types.ListNotificationsResponse{
		Notifications: make([]types.NotificationInfo, 0, len(rows)),
		Total:         total,
		Unread:        unread,
	}
	for i := range rows {
		resp.Notifications = append(resp.Notifications, NotificationToInfo(&rows[i]))
	}

	return resp, nil
}

// MarkRead 批量标记收件人的通知为已读，空 ID 列表表示全部.
func (s *NotificationService) MarkRead(ctx context.Context, recipient string, ids []uint) (int64, error) {
	now := time.Now().UTC()

	q := s.db.WithContext(ctx).Model(&model.Notification{}).
		Where("recipient = ? AND is_read = ?", recipient, false)

	if len(ids) > 0 {
		q = q.Where("id IN ?", ids)
	}

	res := q.Updates(map[string]any{"is_read": true, "read_at": now})
	if res.Error != nil {
		return 0, fmt.Errorf("mark notifications read: %w", res.Error)
	}

	// 同步状态镜像
	if s.state != nil && res.RowsAffected > 0 {
		var rows []model.Notification
		if err := s.db.WithContext(ctx).
			Where("recipient = ? AND is_read = ?", recipient, true).
			Find(&rows).Error; err == nil {
			for i := range rows {
				_ = s.state.PutNotification(ctx, rows[i])
			}
		}
	}

	return res.RowsAffected, nil
}

// PruneRead 删除早于阈值的已读通知，返回删除数.定时任务调用.
func (s *NotificationService) PruneRead(ctx context.Context, before time.Time) (int64, error) {
	var ids []uint

	err := s.db.WithContext(ctx).Model(&model.Notification{}).
		Where("is_read = ? AND created_at < ?", true, before).
		Pluck("id", &ids).Error
	if err != nil {
		return 0, fmt.Errorf("find prunable notifications: %w", err)
	}

	if len(ids) == 0 {
		return 0, nil
	}

	res := s.db.WithContext(ctx).Delete(&model.Notification{}, ids)
	if res.Error != nil {
		return 0, fmt.Errorf("prune notifications: %w", res.Error)
	}

	if s.state != nil {
		if _, err := s.state.DeleteNotifications(ctx, ids); err != nil {
			tlog.Logger().Warn().Err(err).Msg("state cache prune failed")
		}
	}

	if s.pub != nil {
		msg, err := queue.NewWatermillMessage(queue.TopicNotifyPruned, queue.NotifyPrunedPayload{
			Removed: int(res.RowsAffected),
			Before:  before,
		}, queue.WithProducer(configs.AppName))
		if err == nil {
			err = s.pub.Publish(queue.TopicNotifyPruned, msg)
		}

		if err != nil {
			tlog.Logger().Warn().Err(err).Msg("publish notify pruned event failed")
		}
	}

	return res.RowsAffected, nil
}

// NotificationToInfo 将通知模型转换为 API 响应结构.
func NotificationToInfo(n *model.Notification) types.NotificationInfo {
	info := types.NotificationInfo{
		ID:        n.ID,
		Recipient: n.Recipient,
		Kind:      n.Kind,
		TaskID:    n.TaskID,
		Body:      n.Body,
		Read:      n.Read,
		CreatedAt: n.CreatedAt.UTC().Format(time.RFC3339),
	}

	if n.ReadAt != nil {
		info.ReadAt = n.ReadAt.UTC().Format(time.RFC3339)
	}

	return info
}
