package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/yeisme/taskvault/pkg/internal/model"
	"github.com/yeisme/taskvault/pkg/internal/service"
	"github.com/yeisme/taskvault/pkg/internal/types"
)

func newTaskFixture(t *testing.T) (*gorm.DB, *service.TaskService, uint) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	if err := db.AutoMigrate(&model.Project{}, &model.Task{}, &model.Comment{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	project := model.Project{Name: "瓦片渲染平台", Owner: "alice@example.com", Status: model.ProjectStatusActive}
	if err := db.Create(&project).Error; err != nil {
		t.Fatalf("seed project: %v", err)
	}

	return db, service.NewTaskServiceWith(db, nil), project.ID
}

func createTask(t *testing.T, svc *service.TaskService, projectID uint, title string) *model.Task {
	t.Helper()

	task, err := svc.Create(context.Background(), projectID, "alice@example.com", &types.CreateTaskRequest{
		Title: title,
		Type:  model.TaskTypeDevelopment,
	})
	if err != nil {
		t.Fatalf("create task %q: %v", title, err)
	}

	return task
}

func TestTaskCreateDefaults(t *testing.T) {
	_, svc, projectID := newTaskFixture(t)

	task := createTask(t, svc, projectID, "实现切片缓存")

	if task.Status != model.TaskStatusTodo {
		t.Fatalf("new task must start in todo, got %s", task.Status)
	}

	if task.Priority != model.TaskPriorityMedium {
		t.Fatalf("default priority must be medium, got %s", task.Priority)
	}

	if task.Rank == "" {
		t.Fatal("new task must get a board rank")
	}
}

func TestTaskWorkflowTransitions(t *testing.T) {
	_, svc, projectID := newTaskFixture(t)
	ctx := context.Background()

	task := createTask(t, svc, projectID, "接入对象存储")

	// 合法链路 todo -> in_progress -> review -> done
	for _, next := range []string{
		model.TaskStatusInProgress,
		model.TaskStatusReview,
		model.TaskStatusDone,
	} {
		updated, err := svc.ChangeStatus(ctx, task.ID, "alice@example.com", next)
		if err != nil {
			t.Fatalf("transition to %s: %v", next, err)
		}

		if updated.Status != next {
			t.Fatalf("expected status %s, got %s", next, updated.Status)
		}
	}

	// done 是终态
	if _, err := svc.ChangeStatus(ctx, task.ID, "alice@example.com", model.TaskStatusTodo); !errors.Is(err, service.ErrInvalidTransition) {
		t.Fatalf("done must be terminal, got %v", err)
	}
}

func TestTaskSkipTransitionRejected(t *testing.T) {
	_, svc, projectID := newTaskFixture(t)

	task := createTask(t, svc, projectID, "前端联调")

	_, err := svc.ChangeStatus(context.Background(), task.ID, "alice@example.com", model.TaskStatusDone)
	if !errors.Is(err, service.ErrInvalidTransition) {
		t.Fatalf("todo -> done must be rejected, got %v", err)
	}
}

func TestTaskBlockedRoundTrip(t *testing.T) {
	_, svc, projectID := newTaskFixture(t)
	ctx := context.Background()

	task := createTask(t, svc, projectID, "等待上游接口")

	if _, err := svc.ChangeStatus(ctx, task.ID, "alice@example.com", model.TaskStatusBlocked); err != nil {
		t.Fatalf("todo -> blocked: %v", err)
	}

	updated, err := svc.ChangeStatus(ctx, task.ID, "alice@example.com", model.TaskStatusInProgress)
	if err != nil {
		t.Fatalf("blocked -> in_progress: %v", err)
	}

	if updated.Status != model.TaskStatusInProgress {
		t.Fatalf("expected in_progress, got %s", updated.Status)
	}
}

func TestTaskCreateInArchivedProjectRejected(t *testing.T) {
	db, svc, projectID := newTaskFixture(t)

	if err := db.Model(&model.Project{}).Where("id = ?", projectID).
		Update("status", model.ProjectStatusArchived).Error; err != nil {
		t.Fatalf("archive project: %v", err)
	}

	_, err := svc.Create(context.Background(), projectID, "alice@example.com", &types.CreateTaskRequest{
		Title: "不应创建",
		Type:  model.TaskTypeResearch,
	})
	if !errors.Is(err, service.ErrProjectArchived) {
		t.Fatalf("expected ErrProjectArchived, got %v", err)
	}
}

func TestTaskListFilters(t *testing.T) {
	_, svc, projectID := newTaskFixture(t)
	ctx := context.Background()

	createTask(t, svc, projectID, "调研 PostGIS")
	dev := createTask(t, svc, projectID, "编写迁移脚本")

	if _, err := svc.Assign(ctx, dev.ID, "alice@example.com", "bob@example.com"); err != nil {
		t.Fatalf("assign: %v", err)
	}

	resp, err := svc.List(ctx, projectID, &types.ListTasksRequest{Assignee: "bob@example.com"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}

	if resp.Total != 1 || resp.Tasks[0].ID != dev.ID {
		t.Fatalf("expected only assigned task, got %+v", resp)
	}
}

func TestBoardMoveReordersColumn(t *testing.T) {
	db, svc, projectID := newTaskFixture(t)
	ctx := context.Background()

	first := createTask(t, svc, projectID, "任务一")
	second := createTask(t, svc, projectID, "任务二")
	third := createTask(t, svc, projectID, "任务三")

	board := service.NewBoardServiceWith(db, nil)

	// 将任务三移动到列首
	moved, err := board.Move(ctx, third.ID, "alice@example.com", &types.MoveTaskRequest{
		Status:   model.TaskStatusTodo,
		BeforeID: first.ID,
	})
	if err != nil {
		t.Fatalf("move to front: %v", err)
	}

	if moved.Rank >= first.Rank {
		t.Fatalf("moved rank %q must sort before %q", moved.Rank, first.Rank)
	}

	view, err := board.View(ctx, projectID)
	if err != nil {
		t.Fatalf("board view: %v", err)
	}

	var todo []types.TaskInfo

	for _, col := range view.Columns {
		if col.Status == model.TaskStatusTodo {
			todo = col.Tasks
		}
	}

	if len(todo) != 3 {
		t.Fatalf("expected 3 tasks in todo, got %d", len(todo))
	}

	wantOrder := []uint{third.ID, first.ID, second.ID}
	for i, want := range wantOrder {
		if todo[i].ID != want {
			t.Fatalf("column order mismatch at %d: want task %d, got %d", i, want, todo[i].ID)
		}
	}
}

func TestBoardMoveAcrossColumnsValidatesWorkflow(t *testing.T) {
	db, svc, projectID := newTaskFixture(t)
	ctx := context.Background()

	task := createTask(t, svc, projectID, "跳过流程")
	board := service.NewBoardServiceWith(db, nil)

	_, err := board.Move(ctx, task.ID, "alice@example.com", &types.MoveTaskRequest{
		Status: model.TaskStatusDone,
	})
	if !errors.Is(err, service.ErrInvalidTransition) {
		t.Fatalf("todo -> done via board must be rejected, got %v", err)
	}

	if _, err := board.Move(ctx, task.ID, "alice@example.com", &types.MoveTaskRequest{
		Status: model.TaskStatusInProgress,
	}); err != nil {
		t.Fatalf("todo -> in_progress via board: %v", err)
	}
}

func TestCalendarMonthView(t *testing.T) {
	db, svc, projectID := newTaskFixture(t)
	ctx := context.Background()

	for _, tc := range []struct {
		title string
		due   string
	}{
		{"月初设计评审", "2026-09-01"},
		{"月中联调", "2026-09-15"},
		{"同日发布", "2026-09-15"},
		{"下月回顾", "2026-10-02"},
	} {
		if _, err := svc.Create(ctx, projectID, "alice@example.com", &types.CreateTaskRequest{
			Title:   tc.title,
			Type:    model.TaskTypeDevelopment,
			DueDate: tc.due,
		}); err != nil {
			t.Fatalf("create task %q: %v", tc.title, err)
		}
	}

	cal := service.NewCalendarServiceWith(db)

	resp, err := cal.Range(ctx, projectID, &types.CalendarRequest{Month: "2026-09"})
	if err != nil {
		t.Fatalf("month view: %v", err)
	}

	if len(resp.Entries) != 2 {
		t.Fatalf("expected 2 days with tasks in 2026-09, got %d", len(resp.Entries))
	}

	if resp.Entries[0].Date != "2026-09-01" || resp.Entries[1].Date != "2026-09-15" {
		t.Fatalf("unexpected day buckets: %+v", resp.Entries)
	}

	if len(resp.Entries[1].Tasks) != 2 {
		t.Fatalf("expected 2 tasks due 2026-09-15, got %d", len(resp.Entries[1].Tasks))
	}

	if _, err := cal.Range(ctx, projectID, &types.CalendarRequest{Month: "2026-9"}); err == nil {
		t.Fatal("malformed month must be rejected")
	}
}

func TestExtractMentions(t *testing.T) {
	body := "请 @bob@example.com 和 @carol@example.com 评审，@bob@example.com 优先"

	got := service.ExtractMentions(body)
	want := []string{"bob@example.com", "carol@example.com"}

	if len(got) != len(want) {
		t.Fatalf("expected %d mentions, got %d: %v", len(want), len(got), got)
	}

	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("mention %d: want %s, got %s", i, want[i], got[i])
		}
	}

	if got := service.ExtractMentions("没有提及任何人"); got != nil {
		t.Fatalf("expected no mentions, got %v", got)
	}
}
