// Package state 维护项目、任务、评论、通知与用户偏好的内存镜像，
// 每次变更后将快照持久化到 KV 存储，进程重启时通过 Load 恢复.
// 镜像服务于列表筛选与子串搜索，目录数据库仍是事实来源.
package state

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/bytedance/sonic"

	"github.com/yeisme/taskvault/pkg/internal/model"
	"github.com/yeisme/taskvault/pkg/internal/storage/kv"
)

const snapshotKey = "state:snapshot"

// snapshot KV 中持久化的完整状态.
type snapshot struct {
	Projects      map[uint]model.Project      `json:"projects"`
	Tasks         map[uint]model.Task         `json:"tasks"`
	Comments      map[uint]model.Comment      `json:"comments"`
	Notifications map[uint]model.Notification `json:"notifications"`
	// Preferences 以用户为键的偏好设置
	Preferences map[string]map[string]string `json:"preferences"`
}

func newSnapshot() snapshot {
	return snapshot{
		Projects:      make(map[uint]model.Project),
		Tasks:         make(map[uint]model.Task),
		Comments:      make(map[uint]model.Comment),
		Notifications: make(map[uint]model.Notification),
		Preferences:   make(map[string]map[string]string),
	}
}

// Store 单写者状态存储，所有读写都经由互斥锁.
type Store struct {
	mu    sync.RWMutex
	kv    kv.KVStore
	data  snapshot
	dirty bool
}

// NewStore 创建状态存储，kvStore 为持久化后端.
func NewStore(kvStore kv.KVStore) *Store {
	return &Store{kv: kvStore, data: newSnapshot()}
}

// Load 从 KV 恢复快照，键不存在时保持空状态.
func (s *Store) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := s.kv.Get(ctx, snapshotKey)
	if err != nil {
		// 首次启动没有快照
		return nil
	}

	snap := newSnapshot()
	if err := sonic.Unmarshal(raw, &snap); err != nil {
		return fmt.Errorf("decode state snapshot: %w", err)
	}

	s.data = snap

	return nil
}

// Close 将未落盘的变更写回 KV.KV 连接本身由存储管理器负责关闭.
func (s *Store) Close(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.dirty {
		return nil
	}

	return s.persistLocked(ctx)
}

// Flush 主动落盘当前快照，供定时任务调用.
func (s *Store) Flush(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.persistLocked(ctx)
}

// persistLocked 调用方必须持有写锁.
func (s *Store) persistLocked(ctx context.Context) error {
	raw, err := sonic.Marshal(s.data)
	if err != nil {
		return fmt.Errorf("encode state snapshot: %w", err)
	}

	if err := s.kv.Set(ctx, snapshotKey, raw, 0); err != nil {
		return fmt.Errorf("persist state snapshot: %w", err)
	}

	s.dirty = false

	return nil
}

// mutate 在写锁内应用变更并立即持久化.
func (s *Store) mutate(ctx context.Context, fn func(*snapshot)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	fn(&s.data)
	s.dirty = true

	return s.persistLocked(ctx)
}

// PutProject 写入或覆盖项目.
func (s *Store) PutProject(ctx context.Context, p model.Project) error {
	return s.mutate(ctx, func(snap *snapshot) {
		snap.Projects[p.ID] = p
	})
}

// DeleteProject 删除项目及其任务、评论.
func (s *Store) DeleteProject(ctx context.Context, id uint) error {
	return s.mutate(ctx, func(snap *snapshot) {
		delete(snap.Projects, id)

		for tid, t := range snap.Tasks {
			if t.ProjectID != id {
				continue
			}

			delete(snap.Tasks, tid)

			for cid, c := range snap.Comments {
				if c.TaskID == tid {
					delete(snap.Comments, cid)
				}
			}
		}
	})
}

// GetProject 按 ID 读取项目.
func (s *Store) GetProject(id uint) (model.Project, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.data.Projects[id]

	return p, ok
}

// ListProjects 返回全部项目，按 ID 升序.
func (s *Store) ListProjects() []model.Project {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Project, 0, len(s.data.Projects))
	for _, p := range s.data.Projects {
		out = append(out, p)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	return out
}

// PutTask 写入或覆盖任务.
func (s *Store) PutTask(ctx context.Context, t model.Task) error {
	return s.mutate(ctx, func(snap *snapshot) {
		snap.Tasks[t.ID] = t
	})
}

// DeleteTask 删除任务及其评论.
func (s *Store) DeleteTask(ctx context.Context, id uint) error {
	return s.mutate(ctx, func(snap *snapshot) {
		delete(snap.Tasks, id)

		for cid, c := range snap.Comments {
			if c.TaskID == id {
				delete(snap.Comments, cid)
			}
		}
	})
}

// GetTask 按 ID 读取任务.
func (s *Store) GetTask(id uint) (model.Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.data.Tasks[id]

	return t, ok
}

// TasksByProject 返回项目下的任务，按 ID 升序.
func (s *Store) TasksByProject(projectID uint) []model.Task {
	return s.filterTasks(func(t model.Task) bool { return t.ProjectID == projectID })
}

// TasksByStatus 返回项目下处于指定状态的任务，按 Rank 升序.
func (s *Store) TasksByStatus(projectID uint, status string) []model.Task {
	out := s.filterTasks(func(t model.Task) bool {
		return t.ProjectID == projectID && t.Status == status
	})

	sort.Slice(out, func(i, j int) bool {
		if out[i].Rank != out[j].Rank {
			return out[i].Rank < out[j].Rank
		}

		return out[i].ID < out[j].ID
	})

	return out
}

// SearchTasks 在任务标题、描述、标签与元数据中做大小写无关的子串搜索.
// projectID 为 0 时跨项目搜索.
func (s *Store) SearchTasks(projectID uint, query string) []model.Task {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}

	return s.filterTasks(func(t model.Task) bool {
		if projectID != 0 && t.ProjectID != projectID {
			return false
		}

		return strings.Contains(strings.ToLower(t.Title), q) ||
			strings.Contains(strings.ToLower(t.Description), q) ||
			strings.Contains(strings.ToLower(t.TagsJSON), q) ||
			strings.Contains(strings.ToLower(t.MetadataJSON), q)
	})
}

func (s *Store) filterTasks(keep func(model.Task) bool) []model.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []model.Task

	for _, t := range s.data.Tasks {
		if keep(t) {
			out = append(out, t)
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	return out
}

// PutComment 写入或覆盖评论.
func (s *Store) PutComment(ctx context.Context, c model.Comment) error {
	return s.mutate(ctx, func(snap *snapshot) {
		snap.Comments[c.ID] = c
	})
}

// DeleteComment 删除评论.
func (s *Store) DeleteComment(ctx context.Context, id uint) error {
	return s.mutate(ctx, func(snap *snapshot) {
		delete(snap.Comments, id)
	})
}

// CommentsByTask 返回任务下的评论，按 ID 升序.
func (s *Store) CommentsByTask(taskID uint) []model.Comment {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []model.Comment

	for _, c := range s.data.Comments {
		if c.TaskID == taskID {
			out = append(out, c)
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	return out
}

// PutNotification 写入或覆盖通知.
func (s *Store) PutNotification(ctx context.Context, n model.Notification) error {
	return s.mutate(ctx, func(snap *snapshot) {
		snap.Notifications[n.ID] = n
	})
}

// DeleteNotifications 批量删除通知，返回实际删除数.
func (s *Store) DeleteNotifications(ctx context.Context, ids []uint) (int, error) {
	removed := 0

	err := s.mutate(ctx, func(snap *snapshot) {
		for _, id := range ids {
			if _, ok := snap.Notifications[id]; ok {
				delete(snap.Notifications, id)
				removed++
			}
		}
	})

	return removed, err
}

// NotificationsFor 返回收件人的通知，unreadOnly 时过滤已读，按 ID 降序.
func (s *Store) NotificationsFor(recipient string, unreadOnly bool) []model.Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []model.Notification

	for _, n := range s.data.Notifications {
		if n.Recipient != recipient {
			continue
		}

		if unreadOnly && n.Read {
			continue
		}

		out = append(out, n)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })

	return out
}

// SetPreference 写入用户偏好.
func (s *Store) SetPreference(ctx context.Context, user, key, value string) error {
	return s.mutate(ctx, func(snap *snapshot) {
		prefs, ok := snap.Preferences[user]
		if !ok {
			prefs = make(map[string]string)
			snap.Preferences[user] = prefs
		}

		prefs[key] = value
	})
}

// GetPreference 读取用户偏好.
func (s *Store) GetPreference(user, key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.data.Preferences[user][key]

	return v, ok
}
