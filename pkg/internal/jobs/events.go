package jobs

import (
	"context"
	"errors"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"
	"gorm.io/gorm"

	"github.com/yeisme/taskvault/pkg/internal/model"
	"github.com/yeisme/taskvault/pkg/internal/service"
	"github.com/yeisme/taskvault/pkg/internal/state"
	"github.com/yeisme/taskvault/pkg/internal/storage"
	"github.com/yeisme/taskvault/pkg/log"
	"github.com/yeisme/taskvault/pkg/queue"
)

// eventWorker 消费领域事件并生成站内通知.
type eventWorker struct {
	db     *gorm.DB
	notify *service.NotificationService
}

// StartEventWorker 订阅任务、评论与附件事件并生成站内通知.
// 指派、状态流转、@提及与附件上传都会为相关人产生一条通知记录，
// 邮件等外部投递由订阅 tv.notify.created 的外部 worker 完成.
func StartEventWorker(ctx context.Context, mgr *storage.Manager, st *state.Store) error {
	mq := mgr.GetMQClient()
	if mq == nil {
		return fmt.Errorf("mq client not initialized")
	}

	db := mgr.GetDBClient().DB
	w := &eventWorker{
		db:     db,
		notify: service.NewNotificationServiceWith(db, nil, st),
	}

	subscriptions := map[string]func(context.Context, *message.Message) error{
		queue.TopicTaskAssigned:       w.handleTaskAssigned,
		queue.TopicTaskStatusChanged:  w.handleTaskStatusChanged,
		queue.TopicCommentCreated:     w.handleCommentCreated,
		queue.TopicAttachmentUploaded: w.handleAttachmentUploaded,
	}

	for topic, handler := range subscriptions {
		msgs, err := mq.Subscribe(ctx, topic)
		if err != nil {
			return fmt.Errorf("subscribe %s: %w", topic, err)
		}

		go consume(ctx, topic, msgs, handler)
	}

	log.Logger().Info().Int("topics", len(subscriptions)).Msg("event worker started")

	return nil
}

func consume(ctx context.Context, topic string, msgs <-chan *message.Message,
	handler func(context.Context, *message.Message) error,
) {
	l := log.Logger().With().Str("worker", topic).Logger()

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-msgs:
			if !ok {
				return
			}

			if err := handler(ctx, msg); err != nil {
				l.Error().Err(err).Str("message_id", msg.UUID).Msg("handle event failed")
				msg.Nack()

				continue
			}

			msg.Ack()
		}
	}
}

func (w *eventWorker) handleTaskAssigned(ctx context.Context, msg *message.Message) error {
	env, err := queue.ParseWatermillMessage[queue.TaskAssignedPayload](msg)
	if err != nil {
		return err
	}

	p := env.Payload
	if p.Assignee == "" || p.Assignee == p.Actor {
		return nil
	}

	body := fmt.Sprintf("%s 将任务「%s」指派给你", p.Actor, p.Task.Title)

	_, err = w.notify.Create(ctx, p.Assignee, model.NotifyKindAssigned, p.Task.TaskID, body)

	return err
}

func (w *eventWorker) handleTaskStatusChanged(ctx context.Context, msg *message.Message) error {
	env, err := queue.ParseTaskStatusChanged(msg)
	if err != nil {
		return err
	}

	p := env.Payload
	if p.Assignee == "" || p.Assignee == p.Actor {
		return nil
	}

	body := fmt.Sprintf("任务「%s」状态从 %s 变为 %s", p.Task.Title, p.FromStatus, p.ToStatus)

	_, err = w.notify.Create(ctx, p.Assignee, model.NotifyKindStatus, p.Task.TaskID, body)

	return err
}

func (w *eventWorker) handleCommentCreated(ctx context.Context, msg *message.Message) error {
	env, err := queue.ParseWatermillMessage[queue.CommentPayload](msg)
	if err != nil {
		return err
	}

	p := env.Payload

	for _, mention := range p.Mentions {
		if mention == p.Author {
			continue
		}

		body := fmt.Sprintf("%s 在任务「%s」的评论中提到了你", p.Author, p.Task.Title)
		if _, err := w.notify.Create(ctx, mention, model.NotifyKindMention, p.Task.TaskID, body); err != nil {
			return err
		}
	}

	return nil
}

func (w *eventWorker) handleAttachmentUploaded(ctx context.Context, msg *message.Message) error {
	env, err := queue.ParseAttachmentUploaded(msg)
	if err != nil {
		return err
	}

	p := env.Payload

	// 通知任务负责人有新附件版本，上传人是负责人自己时跳过
	var task model.Task

	err = w.db.WithContext(ctx).First(&task, p.Attachment.TaskID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}

	if err != nil {
		return err
	}

	if task.Assignee == "" || task.Assignee == p.UploadedBy {
		return nil
	}

	body := fmt.Sprintf("%s 上传了附件 %s（v%d）", p.UploadedBy, p.Attachment.FileName, p.Attachment.Version)

	_, err = w.notify.Create(ctx, task.Assignee, model.NotifyKindAttachment, task.ID, body)

	return err
}
