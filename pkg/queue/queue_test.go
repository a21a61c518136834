package queue_test

import (
	"testing"

	"github.com/yeisme/taskvault/pkg/queue"
)

// TestNewWatermillMessage 测试消息构造与元数据设置.
func TestNewWatermillMessage(t *testing.T) {
	payload := queue.AttachmentUploadedPayload{
		Attachment: queue.AttachmentRef{
			TaskID:   42,
			FileName: "report.pdf",
			Version:  3,
			FileSize: 1024,
		},
		UploadedBy: "alice@example.com",
	}

	msg, err := queue.NewWatermillMessage(
		queue.TopicAttachmentUploaded, payload,
		queue.WithTraceID("trace-xyz"),
		queue.WithProducer("taskvault"),
	)
	if err != nil {
		t.Fatalf("NewWatermillMessage failed: %v", err)
	}

	if msg.UUID == "" {
		t.Error("Expected non-empty message UUID")
	}

	if got := msg.Metadata.Get("topic"); got != queue.TopicAttachmentUploaded {
		t.Errorf("Expected topic metadata %q, got %q", queue.TopicAttachmentUploaded, got)
	}

	if got := msg.Metadata.Get("trace_id"); got != "trace-xyz" {
		t.Errorf("Expected trace_id metadata 'trace-xyz', got %q", got)
	}

	if got := msg.Metadata.Get("producer"); got != "taskvault" {
		t.Errorf("Expected producer metadata 'taskvault', got %q", got)
	}
}

// TestParseWatermillMessage 测试消息解析回强类型信封.
func TestParseWatermillMessage(t *testing.T) {
	payload := queue.TaskStatusChangedPayload{
		Task:       queue.TaskRef{TaskID: 7, ProjectID: 1, Title: "联调支付网关"},
		FromStatus: "in_progress",
		ToStatus:   "review",
		Actor:      "bob@example.com",
	}

	msg, err := queue.NewWatermillMessage(queue.TopicTaskStatusChanged, payload)
	if err != nil {
		t.Fatalf("NewWatermillMessage failed: %v", err)
	}

	env, err := queue.ParseWatermillMessage[queue.TaskStatusChangedPayload](msg)
	if err != nil {
		t.Fatalf("ParseWatermillMessage failed: %v", err)
	}

	if env.Header.Topic != queue.TopicTaskStatusChanged {
		t.Errorf("Expected header topic %q, got %q", queue.TopicTaskStatusChanged, env.Header.Topic)
	}

	if env.Header.Version != queue.PayloadVersionV1 {
		t.Errorf("Expected version %q, got %q", queue.PayloadVersionV1, env.Header.Version)
	}

	if env.Payload.Task.TaskID != 7 || env.Payload.ToStatus != "review" {
		t.Errorf("Payload mismatch: %+v", env.Payload)
	}

	if env.Header.OccurredAt.IsZero() {
		t.Error("Expected non-zero occurred_at")
	}
}
