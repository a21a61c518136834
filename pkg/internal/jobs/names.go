package jobs

// 任务名称常量，便于统一管理与引用.
const (
	JobNotifyPrune     = "notify.prune"
	JobTaskDueSoon     = "task.due_soon"
	JobTaskOverdue     = "task.overdue"
	JobStateSnapshot   = "state.snapshot"
)

// Cron 表达式常量（可选，但推荐一并集中管理）.
const (
	CronNotifyPrune   = "30 3 * * *"    // 每天 03:30 清理已读通知
	CronTaskDueSoon   = "0 8 * * *"     // 每天 08:00 到期提醒
	CronTaskOverdue   = "5 0 * * *"     // 每天 00:05 逾期标记
	CronStateSnapshot = "*/10 * * * *"  // 每 10 分钟落盘状态镜像
)
