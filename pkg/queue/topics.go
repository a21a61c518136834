// Package queue 定义消息主题常量与分组，供发布/订阅使用.
package queue

// 主题命名规范：tv.<域>.<动作>[.<状态>]，尽量稳定且向后兼容.
// 域：project(项目)、task(任务)、comment(评论)、attachment(附件)、notify(通知)
// 动作：created/updated/deleted/assigned/moved 等
// 状态：完成态使用过去式，失败追加 failed

const (
	// 项目领域.
	TopicProjectCreated  = "tv.project.created"  // 项目创建完成
	TopicProjectUpdated  = "tv.project.updated"  // 项目信息更新
	TopicProjectArchived = "tv.project.archived" // 项目归档
	TopicProjectDeleted  = "tv.project.deleted"  // 项目删除

	// 任务领域.
	TopicTaskCreated       = "tv.task.created"        // 任务创建完成
	TopicTaskUpdated       = "tv.task.updated"        // 任务字段更新
	TopicTaskDeleted       = "tv.task.deleted"        // 任务删除
	TopicTaskAssigned      = "tv.task.assigned"       // 任务指派变更
	TopicTaskStatusChanged = "tv.task.status.changed" // 任务状态流转
	TopicTaskMoved         = "tv.task.moved"          // 任务在看板列间移动
	TopicTaskDueSoon       = "tv.task.due.soon"       // 任务临近截止（由调度器触发）
	TopicTaskOverdue       = "tv.task.overdue"        // 任务已逾期（由调度器触发）

	// 评论领域.
	TopicCommentCreated = "tv.comment.created" // 评论发布
	TopicCommentDeleted = "tv.comment.deleted" // 评论删除

	// 附件领域.
	TopicAttachmentUploaded = "tv.attachment.uploaded" // 新附件版本写入对象存储并登记到目录
	TopicAttachmentRestored = "tv.attachment.restored" // 历史版本恢复为最新
	TopicAttachmentDeleted  = "tv.attachment.deleted"  // 附件版本删除（目录与对象存储均已清理）

	// 通知领域.
	TopicNotifyCreated = "tv.notify.created" // 通知生成，待推送/落库
	TopicNotifyRead    = "tv.notify.read"    // 通知被标记已读
	TopicNotifyPruned  = "tv.notify.pruned"  // 过期通知清理完成（由调度器触发）
)

// 主题分组，用于批量订阅或权限控制.
var (
	// 项目相关主题集合.
	ProjectTopics = []string{
		TopicProjectCreated, TopicProjectUpdated,
		TopicProjectArchived, TopicProjectDeleted,
	}

	// 任务相关主题集合.
	TaskTopics = []string{
		TopicTaskCreated, TopicTaskUpdated, TopicTaskDeleted,
		TopicTaskAssigned, TopicTaskStatusChanged, TopicTaskMoved,
		TopicTaskDueSoon, TopicTaskOverdue,
	}

	// 评论相关主题集合.
	CommentTopics = []string{
		TopicCommentCreated, TopicCommentDeleted,
	}

	// 附件相关主题集合.
	AttachmentTopics = []string{
		TopicAttachmentUploaded, TopicAttachmentRestored, TopicAttachmentDeleted,
	}

	// 通知相关主题集合.
	NotifyTopics = []string{
		TopicNotifyCreated, TopicNotifyRead, TopicNotifyPruned,
	}
)
