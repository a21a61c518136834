package service_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/yeisme/taskvault/pkg/configs"
	"github.com/yeisme/taskvault/pkg/internal/model"
	"github.com/yeisme/taskvault/pkg/internal/service"
)

// fakeBlobStore 内存对象存储，记录写入与删除.
type fakeBlobStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	puts    int
	fail    bool
}

func newFakeBlobStore() *fakeBlobStore {
	return &fakeBlobStore{objects: make(map[string][]byte)}
}

func (f *fakeBlobStore) PutBlob(_ context.Context, path string, r io.Reader, _ int64, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.fail {
		return errors.New("store unavailable")
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}

	f.objects[path] = data
	f.puts++

	return nil
}

func (f *fakeBlobStore) RemoveBlob(_ context.Context, path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.objects[path]; !ok {
		return fmt.Errorf("object not found: %s", path)
	}

	delete(f.objects, path)

	return nil
}

func (f *fakeBlobStore) PresignGetBlob(_ context.Context, path string, expiry time.Duration) (string, error) {
	return fmt.Sprintf("https://blob.test/%s?ttl=%d", path, int(expiry.Seconds())), nil
}

func (f *fakeBlobStore) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return len(f.objects)
}

func newTestService(t *testing.T) (*gorm.DB, *service.AttachmentService, *fakeBlobStore) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	if err := db.AutoMigrate(&model.Attachment{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	store := newFakeBlobStore()
	svc := service.NewAttachmentServiceWith(db, store, configs.UploadConfig{
		MaxSizeBytes: configs.DefaultUploadMaxSize,
		SignedURLTTL: configs.DefaultSignedURLTTL,
	})

	return db, svc, store
}

func upload(t *testing.T, svc *service.AttachmentService, taskID uint, name, mime, body string) *model.Attachment {
	t.Helper()

	rec, err := svc.Upload(context.Background(), taskID, name, mime, int64(len(body)),
		bytes.NewReader([]byte(body)), "alice@example.com")
	if err != nil {
		t.Fatalf("upload %s: %v", name, err)
	}

	return rec
}

// assertSingleLatest 校验 (taskID, fileName) 至多一条 is_latest 记录.
func assertSingleLatest(t *testing.T, svc *service.AttachmentService, taskID uint, fileName string, want int) {
	t.Helper()

	recs, err := svc.ListVersions(context.Background(), taskID, fileName)
	if err != nil {
		t.Fatalf("list versions: %v", err)
	}

	latest := 0

	for _, r := range recs {
		if r.IsLatest {
			latest++
		}
	}

	if latest != want {
		t.Fatalf("expected %d latest record(s) for %s, got %d", want, fileName, latest)
	}
}

func TestUploadVersionSequence(t *testing.T) {
	_, svc, store := newTestService(t)
	ctx := context.Background()

	const n = 5
	for i := 1; i <= n; i++ {
		rec := upload(t, svc, 1, "design.pdf", "application/pdf", fmt.Sprintf("revision %d", i))
		if rec.Version != i {
			t.Fatalf("expected version %d, got %d", i, rec.Version)
		}

		if !rec.IsLatest {
			t.Fatalf("new upload must be latest, version %d is not", rec.Version)
		}

		assertSingleLatest(t, svc, 1, "design.pdf", 1)
	}

	recs, err := svc.ListVersions(ctx, 1, "design.pdf")
	if err != nil {
		t.Fatalf("list versions: %v", err)
	}

	if len(recs) != n {
		t.Fatalf("expected %d versions, got %d", n, len(recs))
	}

	// 版本号降序
	for i, r := range recs {
		if r.Version != n-i {
			t.Fatalf("expected version %d at index %d, got %d", n-i, i, r.Version)
		}
	}

	if store.count() != n {
		t.Fatalf("expected %d stored objects, got %d", n, store.count())
	}
}

func TestUploadRejectionsLeaveNoTrace(t *testing.T) {
	_, svc, store := newTestService(t)
	ctx := context.Background()

	cases := []struct {
		name     string
		fileName string
		mime     string
		size     int64
		wantErr  error
	}{
		{"oversize", "big.pdf", "application/pdf", configs.DefaultUploadMaxSize + 1, service.ErrFileTooLarge},
		{"negative size", "odd.pdf", "application/pdf", -1, service.ErrInvalidFileSize},
		{"bad mime", "tool.exe", "application/x-msdownload", 100, service.ErrUnsupportedFileType},
		{"svg not allowed", "icon.svg", "image/svg+xml", 100, service.ErrUnsupportedFileType},
		{"empty name", "   ", "image/png", 100, service.ErrInvalidFileName},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Upload(ctx, 1, tc.fileName, tc.mime, tc.size,
				strings.NewReader("x"), "alice@example.com")
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}

	if store.puts != 0 {
		t.Fatalf("rejected uploads must not write to the store, got %d writes", store.puts)
	}

	latest, err := svc.ListLatest(ctx, 1)
	if err != nil {
		t.Fatalf("list latest: %v", err)
	}

	if len(latest) != 0 {
		t.Fatalf("rejected uploads must not create catalog records, got %d", len(latest))
	}
}

func TestUploadSanitizesTraversalName(t *testing.T) {
	_, svc, _ := newTestService(t)

	rec := upload(t, svc, 7, "../../etc/passwd.png", "image/png", "pixels")

	// 展示名保留上传者原始输入，规范化只作用于存储路径
	if rec.FileName != "../../etc/passwd.png" {
		t.Fatalf("display name must keep uploader input, got %q", rec.FileName)
	}

	// 存储路径第一段必须是任务 ID，文件名分量不含遍历符
	if !strings.HasPrefix(rec.StoragePath, "7/") {
		t.Fatalf("storage path must start with task id: %q", rec.StoragePath)
	}

	if strings.Contains(rec.StoragePath[2:], "/") || strings.Contains(rec.StoragePath, "..") {
		t.Fatalf("storage path contains traversal: %q", rec.StoragePath)
	}
}

func TestUploadKeepsDisplayNamePairsIndependent(t *testing.T) {
	_, svc, _ := newTestService(t)
	ctx := context.Background()

	// 两个展示名在路径规范化后同为 a_b.pdf，但版本链必须各自独立
	spaced := upload(t, svc, 1, "a b.pdf", "application/pdf", "spaced")
	underscored := upload(t, svc, 1, "a_b.pdf", "application/pdf", "underscored")

	if spaced.FileName != "a b.pdf" || underscored.FileName != "a_b.pdf" {
		t.Fatalf("display names must keep uploader input, got %q and %q",
			spaced.FileName, underscored.FileName)
	}

	if spaced.Version != 1 || underscored.Version != 1 {
		t.Fatalf("distinct display names must version independently, got v%d and v%d",
			spaced.Version, underscored.Version)
	}

	assertSingleLatest(t, svc, 1, "a b.pdf", 1)
	assertSingleLatest(t, svc, 1, "a_b.pdf", 1)

	latest, err := svc.ListLatest(ctx, 1)
	if err != nil {
		t.Fatalf("list latest: %v", err)
	}

	if len(latest) != 2 {
		t.Fatalf("expected one latest per display name, got %d", len(latest))
	}
}

func TestZeroByteUploadAccepted(t *testing.T) {
	_, svc, store := newTestService(t)

	rec := upload(t, svc, 1, "placeholder.txt", "text/plain", "")

	if rec.Version != 1 || !rec.IsLatest {
		t.Fatalf("zero-byte upload must create v1 latest, got %+v", rec)
	}

	if store.count() != 1 {
		t.Fatalf("expected 1 stored object, got %d", store.count())
	}
}

func TestRestoreDemotesPreviousLatest(t *testing.T) {
	_, svc, _ := newTestService(t)
	ctx := context.Background()

	v1 := upload(t, svc, 1, "spec.docx",
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document", "v1")
	v2 := upload(t, svc, 1, "spec.docx",
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document", "v2")

	// 恢复 v1
	restored, changed, err := svc.Restore(ctx, v1.ID, "bob@example.com")
	if err != nil {
		t.Fatalf("restore: %v", err)
	}

	if !changed || !restored.IsLatest {
		t.Fatalf("restore must promote the record: changed=%v latest=%v", changed, restored.IsLatest)
	}

	assertSingleLatest(t, svc, 1, "spec.docx", 1)

	recs, _ := svc.ListVersions(ctx, 1, "spec.docx")
	for _, r := range recs {
		if r.ID == v2.ID && r.IsLatest {
			t.Fatal("previous latest must be demoted")
		}
	}

	// 恢复已是最新的版本是无操作
	_, changed, err = svc.Restore(ctx, v1.ID, "bob@example.com")
	if err != nil {
		t.Fatalf("restore latest: %v", err)
	}

	if changed {
		t.Fatal("restoring the latest version must be a no-op")
	}
}

func TestRestoreRepairsZeroLatestPair(t *testing.T) {
	db, svc, _ := newTestService(t)
	ctx := context.Background()

	v1 := upload(t, svc, 1, "handbook.pdf", "application/pdf", "v1")
	v2 := upload(t, svc, 1, "handbook.pdf", "application/pdf", "v2")

	// 目录退化为无最新版的状态
	if err := db.Model(&model.Attachment{}).
		Where("task_id = ? AND file_name = ?", uint(1), "handbook.pdf").
		Update("is_latest", false).Error; err != nil {
		t.Fatalf("clear latest flags: %v", err)
	}

	assertSingleLatest(t, svc, 1, "handbook.pdf", 0)

	restored, changed, err := svc.Restore(ctx, v1.ID, "bob@example.com")
	if err != nil {
		t.Fatalf("restore: %v", err)
	}

	if !changed || !restored.IsLatest {
		t.Fatalf("restore must repair the pair: changed=%v latest=%v", changed, restored.IsLatest)
	}

	assertSingleLatest(t, svc, 1, "handbook.pdf", 1)

	recs, err := svc.ListVersions(ctx, 1, "handbook.pdf")
	if err != nil {
		t.Fatalf("list versions: %v", err)
	}

	for _, r := range recs {
		if r.ID == v2.ID && r.IsLatest {
			t.Fatal("only the restored record may be latest")
		}
	}
}

func TestDeleteLatestPromotesHighestRemaining(t *testing.T) {
	_, svc, store := newTestService(t)
	ctx := context.Background()

	upload(t, svc, 1, "report.pdf", "application/pdf", "v1")
	upload(t, svc, 1, "report.pdf", "application/pdf", "v2")
	v3 := upload(t, svc, 1, "report.pdf", "application/pdf", "v3")

	deleted, promoted, err := svc.Delete(ctx, v3.ID, "alice@example.com")
	if err != nil {
		t.Fatalf("delete: %v", err)
	}

	if deleted.Version != 3 {
		t.Fatalf("expected deleted version 3, got %d", deleted.Version)
	}

	if promoted == nil || promoted.Version != 2 {
		t.Fatalf("expected version 2 promoted, got %+v", promoted)
	}

	assertSingleLatest(t, svc, 1, "report.pdf", 1)

	if store.count() != 2 {
		t.Fatalf("expected 2 remaining objects, got %d", store.count())
	}
}

func TestDeleteMiddleVersionKeepsLatest(t *testing.T) {
	_, svc, _ := newTestService(t)
	ctx := context.Background()

	v1 := upload(t, svc, 1, "data.csv", "text/csv", "v1")
	upload(t, svc, 1, "data.csv", "text/csv", "v2")

	_, promoted, err := svc.Delete(ctx, v1.ID, "alice@example.com")
	if err != nil {
		t.Fatalf("delete: %v", err)
	}

	if promoted != nil {
		t.Fatalf("deleting a non-latest version must not promote, got %+v", promoted)
	}

	assertSingleLatest(t, svc, 1, "data.csv", 1)
}

func TestDeleteOnlyVersionLeavesNone(t *testing.T) {
	_, svc, store := newTestService(t)
	ctx := context.Background()

	only := upload(t, svc, 1, "notes.txt", "text/plain", "solo")

	_, promoted, err := svc.Delete(ctx, only.ID, "alice@example.com")
	if err != nil {
		t.Fatalf("delete: %v", err)
	}

	if promoted != nil {
		t.Fatalf("no record should be promoted, got %+v", promoted)
	}

	recs, err := svc.ListVersions(ctx, 1, "notes.txt")
	if err != nil {
		t.Fatalf("list versions: %v", err)
	}

	if len(recs) != 0 {
		t.Fatalf("expected no remaining records, got %d", len(recs))
	}

	if store.count() != 0 {
		t.Fatalf("expected empty store, got %d objects", store.count())
	}
}

func TestListLatestAcrossFileNames(t *testing.T) {
	_, svc, _ := newTestService(t)
	ctx := context.Background()

	// report.pdf: v1 -> v2 -> 删除 v2
	upload(t, svc, 1, "report.pdf", "application/pdf", "v1")
	v2 := upload(t, svc, 1, "report.pdf", "application/pdf", "v2")
	upload(t, svc, 1, "photo.jpg", "image/jpeg", "jpeg")

	if _, _, err := svc.Delete(ctx, v2.ID, "alice@example.com"); err != nil {
		t.Fatalf("delete: %v", err)
	}

	latest, err := svc.ListLatest(ctx, 1)
	if err != nil {
		t.Fatalf("list latest: %v", err)
	}

	if len(latest) != 2 {
		t.Fatalf("expected one latest per file name, got %d", len(latest))
	}

	byName := make(map[string]model.Attachment, len(latest))
	for _, r := range latest {
		byName[r.FileName] = r
	}

	if r := byName["report.pdf"]; r.Version != 1 || !r.IsLatest {
		t.Fatalf("report.pdf latest should be v1 after deleting v2, got %+v", r)
	}
}

func TestUploadStoreFailureLeavesCatalogEmpty(t *testing.T) {
	_, svc, store := newTestService(t)
	ctx := context.Background()

	store.fail = true

	_, err := svc.Upload(ctx, 1, "photo.png", "image/png", 10,
		strings.NewReader("0123456789"), "alice@example.com")
	if err == nil {
		t.Fatal("expected upload error when store fails")
	}

	recs, _ := svc.ListLatest(ctx, 1)
	if len(recs) != 0 {
		t.Fatalf("failed store write must not create catalog records, got %d", len(recs))
	}
}

func TestPresignDownload(t *testing.T) {
	_, svc, _ := newTestService(t)

	rec := upload(t, svc, 3, "map.webp", "image/webp", "tiles")

	resp, err := svc.PresignDownload(context.Background(), rec.ID)
	if err != nil {
		t.Fatalf("presign: %v", err)
	}

	if !strings.Contains(resp.GetURL, rec.StoragePath) {
		t.Fatalf("presigned URL should reference the storage path: %s", resp.GetURL)
	}

	if resp.ExpiresIn != configs.DefaultSignedURLTTL {
		t.Fatalf("expected ttl %d, got %d", configs.DefaultSignedURLTTL, resp.ExpiresIn)
	}
}
