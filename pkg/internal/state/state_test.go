package state_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/yeisme/taskvault/pkg/internal/model"
	"github.com/yeisme/taskvault/pkg/internal/state"
)

// fakeKV 内存 KV，记录写入次数.
type fakeKV struct {
	mu     sync.Mutex
	data   map[string][]byte
	writes int
}

func newFakeKV() *fakeKV {
	return &fakeKV{data: make(map[string][]byte)}
}

func (f *fakeKV) Get(_ context.Context, key string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	v, ok := f.data[key]
	if !ok {
		return nil, fmt.Errorf("key not found: %s", key)
	}

	return v, nil
}

func (f *fakeKV) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.data[key] = value
	f.writes++

	return nil
}

func (f *fakeKV) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.data, key)

	return nil
}

func (f *fakeKV) Exists(_ context.Context, key string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.data[key]

	return ok, nil
}

func (f *fakeKV) Keys(_ context.Context, _ string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	keys := make([]string, 0, len(f.data))
	for k := range f.data {
		keys = append(keys, k)
	}

	return keys, nil
}

func (f *fakeKV) Close() error { return nil }

func TestStorePersistAndLoad(t *testing.T) {
	ctx := context.Background()
	kvStore := newFakeKV()

	s := state.NewStore(kvStore)
	if err := s.Load(ctx); err != nil {
		t.Fatalf("load empty store: %v", err)
	}

	if err := s.PutProject(ctx, model.Project{ID: 1, Name: "地图平台", Owner: "alice@example.com"}); err != nil {
		t.Fatalf("put project: %v", err)
	}

	if err := s.PutTask(ctx, model.Task{ID: 10, ProjectID: 1, Title: "绘制底图", Status: model.TaskStatusTodo}); err != nil {
		t.Fatalf("put task: %v", err)
	}

	if kvStore.writes == 0 {
		t.Fatal("expected every mutation to persist a snapshot")
	}

	// 新实例从同一 KV 恢复
	restored := state.NewStore(kvStore)
	if err := restored.Load(ctx); err != nil {
		t.Fatalf("load snapshot: %v", err)
	}

	p, ok := restored.GetProject(1)
	if !ok || p.Name != "地图平台" {
		t.Fatalf("restored project mismatch: %+v ok=%v", p, ok)
	}

	tk, ok := restored.GetTask(10)
	if !ok || tk.Title != "绘制底图" {
		t.Fatalf("restored task mismatch: %+v ok=%v", tk, ok)
	}
}

func TestStoreTaskFilters(t *testing.T) {
	ctx := context.Background()
	s := state.NewStore(newFakeKV())

	tasks := []model.Task{
		{ID: 1, ProjectID: 1, Title: "需求评审", Status: model.TaskStatusTodo, Rank: "b"},
		{ID: 2, ProjectID: 1, Title: "接口开发", Status: model.TaskStatusTodo, Rank: "a"},
		{ID: 3, ProjectID: 1, Title: "上线验证", Status: model.TaskStatusDone, Rank: "a"},
		{ID: 4, ProjectID: 2, Title: "市场调研", Status: model.TaskStatusTodo, Rank: "a"},
	}
	for _, tk := range tasks {
		if err := s.PutTask(ctx, tk); err != nil {
			t.Fatalf("put task %d: %v", tk.ID, err)
		}
	}

	byProject := s.TasksByProject(1)
	if len(byProject) != 3 {
		t.Fatalf("expected 3 tasks in project 1, got %d", len(byProject))
	}

	todo := s.TasksByStatus(1, model.TaskStatusTodo)
	if len(todo) != 2 {
		t.Fatalf("expected 2 todo tasks, got %d", len(todo))
	}
	// Rank 升序
	if todo[0].ID != 2 || todo[1].ID != 1 {
		t.Fatalf("expected rank order [2 1], got [%d %d]", todo[0].ID, todo[1].ID)
	}
}

func TestStoreSearchTasks(t *testing.T) {
	ctx := context.Background()
	s := state.NewStore(newFakeKV())

	_ = s.PutTask(ctx, model.Task{ID: 1, ProjectID: 1, Title: "GIS 图层渲染", Description: "瓦片服务"})
	_ = s.PutTask(ctx, model.Task{ID: 2, ProjectID: 2, Title: "竞品分析", Description: "整理 GIS 行业报告"})

	all := s.SearchTasks(0, "gis")
	if len(all) != 2 {
		t.Fatalf("expected 2 matches across projects, got %d", len(all))
	}

	scoped := s.SearchTasks(1, "gis")
	if len(scoped) != 1 || scoped[0].ID != 1 {
		t.Fatalf("expected scoped match task 1, got %+v", scoped)
	}

	if got := s.SearchTasks(1, "   "); got != nil {
		t.Fatalf("blank query should return nil, got %+v", got)
	}
}

func TestStoreNotifications(t *testing.T) {
	ctx := context.Background()
	s := state.NewStore(newFakeKV())

	_ = s.PutNotification(ctx, model.Notification{ID: 1, Recipient: "bob@example.com", Kind: model.NotifyKindAssigned})
	_ = s.PutNotification(ctx, model.Notification{ID: 2, Recipient: "bob@example.com", Kind: model.NotifyKindMention, Read: true})
	_ = s.PutNotification(ctx, model.Notification{ID: 3, Recipient: "carol@example.com", Kind: model.NotifyKindDueSoon})

	unread := s.NotificationsFor("bob@example.com", true)
	if len(unread) != 1 || unread[0].ID != 1 {
		t.Fatalf("expected unread [1], got %+v", unread)
	}

	removed, err := s.DeleteNotifications(ctx, []uint{1, 2, 99})
	if err != nil {
		t.Fatalf("delete notifications: %v", err)
	}

	if removed != 2 {
		t.Fatalf("expected 2 removed, got %d", removed)
	}
}

func TestStoreDeleteProjectCascades(t *testing.T) {
	ctx := context.Background()
	s := state.NewStore(newFakeKV())

	_ = s.PutProject(ctx, model.Project{ID: 1, Name: "营销活动"})
	_ = s.PutTask(ctx, model.Task{ID: 1, ProjectID: 1, Title: "文案"})
	_ = s.PutComment(ctx, model.Comment{ID: 1, TaskID: 1, Author: "dave@example.com", Body: "初稿已提交"})

	if err := s.DeleteProject(ctx, 1); err != nil {
		t.Fatalf("delete project: %v", err)
	}

	if _, ok := s.GetTask(1); ok {
		t.Fatal("task should be removed with its project")
	}

	if got := s.CommentsByTask(1); len(got) != 0 {
		t.Fatalf("comments should be removed with their task, got %d", len(got))
	}
}
