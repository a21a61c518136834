// Package jobs 负责注册与实现业务定时任务（基于 scheduler）。
// 定时任务只做通知与镜像维护，从不触碰附件版本目录.
package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"

	ctxPkg "github.com/yeisme/taskvault/pkg/context"
	"github.com/yeisme/taskvault/pkg/internal/model"
	"github.com/yeisme/taskvault/pkg/internal/service"
	"github.com/yeisme/taskvault/pkg/internal/state"
	"github.com/yeisme/taskvault/pkg/internal/storage"
	"github.com/yeisme/taskvault/pkg/log"
	"github.com/yeisme/taskvault/pkg/queue"
	"github.com/yeisme/taskvault/pkg/scheduler"
)

// 已读通知保留天数.
const notifyRetentionDays = 30

// RegisterCronJobs 配置业务定时任务：
//   - 每天 03:30 清理 30 天前的已读通知
//   - 每天 08:00 对 24 小时内到期的任务发布提醒并生成通知
//   - 每天 00:05 对已逾期任务发布逾期事件
//   - 每 10 分钟将状态镜像落盘
func RegisterCronJobs(sched *scheduler.Scheduler, mgr *storage.Manager, st *state.Store) error {
	if sched == nil {
		return fmt.Errorf("scheduler is nil")
	}

	if mgr == nil {
		return fmt.Errorf("storage manager is nil")
	}

	// 将 storage manager 注入到 context，便于 service 使用
	baseCtx := ctxPkg.WithStorageManager(context.Background(), mgr)

	_ = sched.AddCron(JobNotifyPrune, CronNotifyPrune, func(ctx context.Context) {
		runNotifyPrune(ctx, mgr, st)
	}, baseCtx)

	_ = sched.AddCron(JobTaskDueSoon, CronTaskDueSoon, func(ctx context.Context) {
		runDueSoon(ctx, mgr, st)
	}, baseCtx)

	_ = sched.AddCron(JobTaskOverdue, CronTaskOverdue, func(ctx context.Context) {
		runOverdue(ctx, mgr)
	}, baseCtx)

	if st != nil {
		_ = sched.AddCron(JobStateSnapshot, CronStateSnapshot, func(ctx context.Context) {
			if err := st.Flush(ctx); err != nil {
				log.Logger().Error().Err(err).Str("job", JobStateSnapshot).Msg("state snapshot flush failed")
			}
		}, baseCtx)
	}

	return nil
}

// runNotifyPrune 清理保留期之前的已读通知.
func runNotifyPrune(ctx context.Context, mgr *storage.Manager, st *state.Store) {
	l := log.Logger().With().Str("job", JobNotifyPrune).Logger()

	svc := service.NewNotificationServiceWith(mgr.GetDBClient().DB, publisherOf(mgr), st)

	before := time.Now().UTC().AddDate(0, 0, -notifyRetentionDays)

	n, err := svc.PruneRead(ctx, before)
	if err != nil {
		l.Error().Err(err).Msg("prune failed")
		return
	}

	if n > 0 {
		l.Info().Int64("removed", n).Time("before", before).Msg("pruned read notifications")
	}
}

// runDueSoon 对 24 小时内到期的未完成任务生成提醒通知并发布事件.
func runDueSoon(ctx context.Context, mgr *storage.Manager, st *state.Store) {
	l := log.Logger().With().Str("job", JobTaskDueSoon).Logger()

	cal := service.NewCalendarService(ctxPkg.WithStorageManager(ctx, mgr))
	notify := service.NewNotificationServiceWith(mgr.GetDBClient().DB, publisherOf(mgr), st)

	now := time.Now().UTC()

	tasks, err := cal.DueBetween(ctx, now, now.Add(24*time.Hour))
	if err != nil {
		l.Error().Err(err).Msg("load due tasks failed")
		return
	}

	for i := range tasks {
		t := &tasks[i]
		if t.Assignee == "" {
			continue
		}

		body := fmt.Sprintf("任务「%s」将于 %s 到期", t.Title, t.DueDate.UTC().Format("2006-01-02 15:04"))
		if _, err := notify.Create(ctx, t.Assignee, model.NotifyKindDueSoon, t.ID, body); err != nil {
			l.Error().Err(err).Uint("task_id", t.ID).Msg("create due-soon notification failed")
			continue
		}

		publishDue(mgr, queue.TopicTaskDueSoon, t)
	}

	if len(tasks) > 0 {
		l.Info().Int("tasks", len(tasks)).Msg("due-soon reminders sent")
	}
}

// runOverdue 发布逾期事件，逾期判断以当天零点为界.
func runOverdue(ctx context.Context, mgr *storage.Manager) {
	l := log.Logger().With().Str("job", JobTaskOverdue).Logger()

	cal := service.NewCalendarService(ctxPkg.WithStorageManager(ctx, mgr))

	now := time.Now().UTC()

	// 过去 30 天内逾期仍未完成的任务
	tasks, err := cal.DueBetween(ctx, now.AddDate(0, 0, -30), now)
	if err != nil {
		l.Error().Err(err).Msg("load overdue tasks failed")
		return
	}

	for i := range tasks {
		publishDue(mgr, queue.TopicTaskOverdue, &tasks[i])
	}

	if len(tasks) > 0 {
		l.Info().Int("tasks", len(tasks)).Msg("overdue events published")
	}
}

func publisherOf(mgr *storage.Manager) message.Publisher {
	if mq := mgr.GetMQClient(); mq != nil {
		return mq.Publisher()
	}

	return nil
}

func publishDue(mgr *storage.Manager, topic string, t *model.Task) {
	pub := publisherOf(mgr)
	if pub == nil || t.DueDate == nil {
		return
	}

	msg, err := queue.NewWatermillMessage(topic, queue.TaskDuePayload{
		Task: queue.TaskRef{
			TaskID:    t.ID,
			ProjectID: t.ProjectID,
			Title:     t.Title,
			Type:      t.Type,
		},
		DueDate: *t.DueDate,
	})
	if err == nil {
		err = pub.Publish(topic, msg)
	}

	if err != nil {
		log.Logger().Warn().Err(err).Str("topic", topic).Msg("publish due event failed")
	}
}
