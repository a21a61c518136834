package queue

import "github.com/ThreeDotsLabs/watermill/message"

// -------------------------- 基于业务封装 events --------------------------

// PublishAttachmentUploaded 发布 tv.attachment.uploaded 事件。
// 用于附件新版本写入对象存储并登记到目录后，通知下游流程（如通知推送、审计）。
// 可通过可选项 opts 注入 TraceID、Producer 等头部信息。
func PublishAttachmentUploaded(pub message.Publisher, payload AttachmentUploadedPayload, opts ...func(*EventHeader)) error {
	msg, err := NewWatermillMessage(TopicAttachmentUploaded, payload, opts...)
	if err != nil {
		return err
	}

	return pub.Publish(TopicAttachmentUploaded, msg)
}

// ParseAttachmentUploaded 将 Watermill 消息解析为强类型 Envelope（AttachmentUploadedPayload）。
func ParseAttachmentUploaded(msg *message.Message) (Message[AttachmentUploadedPayload], error) {
	return ParseWatermillMessage[AttachmentUploadedPayload](msg)
}

// PublishTaskStatusChanged 发布 tv.task.status.changed 事件。
func PublishTaskStatusChanged(pub message.Publisher, payload TaskStatusChangedPayload, opts ...func(*EventHeader)) error {
	msg, err := NewWatermillMessage(TopicTaskStatusChanged, payload, opts...)
	if err != nil {
		return err
	}

	return pub.Publish(TopicTaskStatusChanged, msg)
}

// ParseTaskStatusChanged 将 Watermill 消息解析为强类型 Envelope（TaskStatusChangedPayload）。
func ParseTaskStatusChanged(msg *message.Message) (Message[TaskStatusChangedPayload], error) {
	return ParseWatermillMessage[TaskStatusChangedPayload](msg)
}

// PublishNotifyCreated 发布 tv.notify.created 事件。
func PublishNotifyCreated(pub message.Publisher, payload NotifyPayload, opts ...func(*EventHeader)) error {
	msg, err := NewWatermillMessage(TopicNotifyCreated, payload, opts...)
	if err != nil {
		return err
	}

	return pub.Publish(TopicNotifyCreated, msg)
}

// ParseNotifyCreated 将 Watermill 消息解析为强类型 Envelope（NotifyPayload）。
func ParseNotifyCreated(msg *message.Message) (Message[NotifyPayload], error) {
	return ParseWatermillMessage[NotifyPayload](msg)
}
