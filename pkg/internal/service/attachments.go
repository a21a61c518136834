package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/oklog/ulid/v2"
	"gorm.io/gorm"

	"github.com/yeisme/taskvault/pkg/configs"
	ctxPkg "github.com/yeisme/taskvault/pkg/context"
	"github.com/yeisme/taskvault/pkg/internal/model"
	"github.com/yeisme/taskvault/pkg/internal/types"
	tlog "github.com/yeisme/taskvault/pkg/log"
	"github.com/yeisme/taskvault/pkg/metrics"
	"github.com/yeisme/taskvault/pkg/queue"
)

// 附件校验错误，handler 据此映射到 4xx.
var (
	ErrFileTooLarge        = errors.New("attachment exceeds size limit")
	ErrInvalidFileSize     = errors.New("attachment size invalid")
	ErrUnsupportedFileType = errors.New("attachment file type not allowed")
	ErrInvalidFileName     = errors.New("attachment file name invalid")
	ErrAttachmentNotFound  = errors.New("attachment not found")
)

// allowedFileTypes 附件 MIME 白名单：图片、PDF、Word/Excel 新旧格式、纯文本与 CSV.
var allowedFileTypes = map[string]struct{}{
	"image/jpeg":      {},
	"image/png":       {},
	"image/gif":       {},
	"image/webp":      {},
	"application/pdf": {},
	"application/msword": {},
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": {},
	"application/vnd.ms-excel": {},
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet":       {},
	"text/plain": {},
	"text/csv":   {},
}

const maxFileNameLen = 255

// unsafeFileNameChars 文件名中需要替换为下划线的字符.
var unsafeFileNameChars = regexp.MustCompile(`[^A-Za-z0-9._-]`)

// BlobStore 附件对象存储的窄接口，由 s3.Client 实现，测试用内存假实现.
type BlobStore interface {
	PutBlob(ctx context.Context, path string, r io.Reader, size int64, contentType string) error
	RemoveBlob(ctx context.Context, path string) error
	PresignGetBlob(ctx context.Context, path string, expiry time.Duration) (string, error)
}

// AttachmentService 管理任务附件的版本目录与对象存储.
// 保证任一 (task_id, file_name) 在操作完成后恰有一条 is_latest 记录，
// 且任意时刻不会出现两条（目录写入总是先降级后提升）.
type AttachmentService struct {
	db    *gorm.DB
	store BlobStore
	pub   message.Publisher
	cfg   configs.UploadConfig
}

// NewAttachmentService 从请求上下文解析依赖构造附件服务.
func NewAttachmentService(c context.Context) *AttachmentService {
	d := depsFromContext(c)

	svc := &AttachmentService{
		db:  d.db,
		cfg: configs.GetConfig().Upload,
	}

	if s3c := ctxPkg.GetS3Client(c); s3c != nil {
		svc.store = s3c
	}

	if d.pub != nil {
		svc.pub = d.pub
	}

	return svc
}

// NewAttachmentServiceWith 使用显式依赖构造，供测试与内部任务复用.
func NewAttachmentServiceWith(db *gorm.DB, store BlobStore, cfg configs.UploadConfig) *AttachmentService {
	return &AttachmentService{db: db, store: store, cfg: cfg}
}

// Upload 上传一个新附件版本.
//
// 校验顺序：大小 → MIME 白名单 → 文件名.0 字节文件是合法输入.
// 展示名保留上传者原始输入（仅去首尾空白），(task_id, file_name) 版本链
// 以它为键；规范化只作用于存储路径分量.任何校验失败都不产生存储写入
// 与目录记录.通过校验后先写对象存储，再在单个事务内完成旧最新版降级
// 与新记录插入；事务失败时对象成为孤儿，不做回收重试.
func (s *AttachmentService) Upload(ctx context.Context, taskID uint, fileName, fileType string,
	fileSize int64, blob io.Reader, uploadedBy string,
) (*model.Attachment, error) {
	if fileSize < 0 {
		metrics.AttachmentUploads.WithLabelValues("rejected").Inc()

		return nil, fmt.Errorf("%w: %d bytes", ErrInvalidFileSize, fileSize)
	}

	if fileSize > s.maxSize() {
		metrics.AttachmentUploads.WithLabelValues("rejected").Inc()

		return nil, fmt.Errorf("%w: %d bytes (limit %d)", ErrFileTooLarge, fileSize, s.maxSize())
	}

	if _, ok := allowedFileTypes[fileType]; !ok {
		metrics.AttachmentUploads.WithLabelValues("rejected").Inc()

		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFileType, fileType)
	}

	name := strings.TrimSpace(fileName)
	if name == "" || len(name) > maxFileNameLen {
		metrics.AttachmentUploads.WithLabelValues("rejected").Inc()

		return nil, fmt.Errorf("%w: %q", ErrInvalidFileName, fileName)
	}

	pathName, err := sanitizeFileName(name)
	if err != nil {
		metrics.AttachmentUploads.WithLabelValues("rejected").Inc()

		return nil, err
	}

	// 随机前缀保证对象键唯一，历史版本互不覆盖
	path := fmt.Sprintf("%d/%s-%s", taskID, ulid.Make().String(), pathName)

	if err := s.store.PutBlob(ctx, path, blob, fileSize, fileType); err != nil {
		metrics.AttachmentUploads.WithLabelValues("failed").Inc()

		return nil, fmt.Errorf("store attachment blob: %w", err)
	}

	rec := model.Attachment{
		TaskID:      taskID,
		FileName:    name,
		StoragePath: path,
		FileType:    fileType,
		FileSize:    fileSize,
		IsLatest:    true,
		UploadedBy:  uploadedBy,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var maxVersion int
		if err := tx.Model(&model.Attachment{}).
			Where("task_id = ? AND file_name = ?", taskID, name).
			Select("COALESCE(MAX(version), 0)").
			Scan(&maxVersion).Error; err != nil {
			return err
		}

		// 先降级旧最新版，再插入新记录
		if err := tx.Model(&model.Attachment{}).
			Where("task_id = ? AND file_name = ? AND is_latest = ?", taskID, name, true).
			Update("is_latest", false).Error; err != nil {
			return err
		}

		rec.Version = maxVersion + 1

		return tx.Create(&rec).Error
	})
	if err != nil {
		// 对象已写入但目录登记失败，留下孤儿对象
		metrics.AttachmentUploads.WithLabelValues("failed").Inc()
		tlog.Logger().Error().Err(err).
			Str("storage_path", path).
			Msg("attachment catalog write failed, blob orphaned")

		return nil, fmt.Errorf("register attachment version: %w", err)
	}

	metrics.AttachmentUploads.WithLabelValues("accepted").Inc()
	metrics.AttachmentBytes.Add(float64(fileSize))

	s.publishUploaded(&rec)

	return &rec, nil
}

// Restore 将历史版本恢复为最新版本.目标已是最新时不做任何修改.
// 返回值 changed=false 表示无操作.
func (s *AttachmentService) Restore(ctx context.Context, recordID uint, actor string) (*model.Attachment, bool, error) {
	rec, err := s.getRecord(ctx, recordID)
	if err != nil {
		return nil, false, err
	}

	if rec.IsLatest {
		return rec, false, nil
	}

	prevVersion := 0

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 降级当前最新版
		var latest model.Attachment
		if err := tx.Where("task_id = ? AND file_name = ? AND is_latest = ?",
			rec.TaskID, rec.FileName, true).First(&latest).Error; err == nil {
			prevVersion = latest.Version

			if err := tx.Model(&latest).Update("is_latest", false).Error; err != nil {
				return err
			}
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		return tx.Model(rec).Update("is_latest", true).Error
	})
	if err != nil {
		return nil, false, fmt.Errorf("restore attachment version: %w", err)
	}

	rec.IsLatest = true

	s.publishRestored(rec, prevVersion, actor)

	return rec, true, nil
}

// Delete 删除一个附件版本：先删对象存储，再删目录记录.
// 被删的是最新版时，提升剩余版本中版本号最高者；无剩余版本时该文件名消失.
// 返回被提升的记录（可能为 nil）.
func (s *AttachmentService) Delete(ctx context.Context, recordID uint, actor string) (*model.Attachment, *model.Attachment, error) {
	rec, err := s.getRecord(ctx, recordID)
	if err != nil {
		return nil, nil, err
	}

	if err := s.store.RemoveBlob(ctx, rec.StoragePath); err != nil {
		return nil, nil, fmt.Errorf("remove attachment blob: %w", err)
	}

	var promoted *model.Attachment

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&model.Attachment{}, rec.ID).Error; err != nil {
			return err
		}

		if !rec.IsLatest {
			return nil
		}

		// 删除的是最新版，提升剩余的最高版本
		var next model.Attachment

		err := tx.Where("task_id = ? AND file_name = ?", rec.TaskID, rec.FileName).
			Order("version DESC").
			First(&next).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}

		if err != nil {
			return err
		}

		if err := tx.Model(&next).Update("is_latest", true).Error; err != nil {
			return err
		}

		next.IsLatest = true
		promoted = &next

		return nil
	})
	if err != nil {
		return nil, nil, fmt.Errorf("delete attachment version: %w", err)
	}

	s.publishDeleted(rec, promoted, actor)

	return rec, promoted, nil
}

// ListLatest 返回任务下每个文件名的最新版本，按创建时间降序.
func (s *AttachmentService) ListLatest(ctx context.Context, taskID uint) ([]model.Attachment, error) {
	var recs []model.Attachment

	err := s.db.WithContext(ctx).
		Where("task_id = ? AND is_latest = ?", taskID, true).
		Order("created_at DESC").
		Find(&recs).Error
	if err != nil {
		return nil, fmt.Errorf("list latest attachments: %w", err)
	}

	return recs, nil
}

// ListVersions 返回任务下指定文件名的全部版本，按版本号降序.
func (s *AttachmentService) ListVersions(ctx context.Context, taskID uint, fileName string) ([]model.Attachment, error) {
	var recs []model.Attachment

	err := s.db.WithContext(ctx).
		Where("task_id = ? AND file_name = ?", taskID, fileName).
		Order("version DESC").
		Find(&recs).Error
	if err != nil {
		return nil, fmt.Errorf("list attachment versions: %w", err)
	}

	return recs, nil
}

// PresignDownload 生成指定版本的预签名下载 URL.
func (s *AttachmentService) PresignDownload(ctx context.Context, recordID uint) (*types.AttachmentURLResponse, error) {
	rec, err := s.getRecord(ctx, recordID)
	if err != nil {
		return nil, err
	}

	ttl := time.Duration(s.cfg.SignedURLTTL) * time.Second
	if ttl <= 0 {
		ttl = configs.DefaultSignedURLTTL * time.Second
	}

	u, err := s.store.PresignGetBlob(ctx, rec.StoragePath, ttl)
	if err != nil {
		return nil, fmt.Errorf("presign attachment download: %w", err)
	}

	return &types.AttachmentURLResponse{
		FileName:  rec.FileName,
		Version:   rec.Version,
		GetURL:    u,
		ExpiresIn: int(ttl.Seconds()),
	}, nil
}

func (s *AttachmentService) getRecord(ctx context.Context, recordID uint) (*model.Attachment, error) {
	var rec model.Attachment

	err := s.db.WithContext(ctx).First(&rec, recordID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: id %d", ErrAttachmentNotFound, recordID)
	}

	if err != nil {
		return nil, fmt.Errorf("load attachment record: %w", err)
	}

	return &rec, nil
}

func (s *AttachmentService) maxSize() int64 {
	if s.cfg.MaxSizeBytes > 0 {
		return s.cfg.MaxSizeBytes
	}

	return configs.DefaultUploadMaxSize
}

// sanitizeFileName 规范化文件名：丢弃路径分量，非法字符替换为下划线，
// 折叠连续点号并去掉首尾点号，截断到 255 字节.
func sanitizeFileName(raw string) (string, error) {
	name := strings.TrimSpace(raw)

	if i := strings.LastIndexAny(name, "/\\"); i >= 0 {
		name = name[i+1:]
	}

	name = unsafeFileNameChars.ReplaceAllString(name, "_")

	for strings.Contains(name, "..") {
		name = strings.ReplaceAll(name, "..", ".")
	}

	name = strings.Trim(name, ".")

	if name == "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidFileName, raw)
	}

	if len(name) > maxFileNameLen {
		name = name[:maxFileNameLen]
	}

	return name, nil
}

func (s *AttachmentService) publishUploaded(rec *model.Attachment) {
	if s.pub == nil {
		return
	}

	err := queue.PublishAttachmentUploaded(s.pub, queue.AttachmentUploadedPayload{
		Attachment: attachmentRef(rec),
		UploadedBy: rec.UploadedBy,
	}, queue.WithProducer(configs.AppName))
	if err != nil {
		tlog.Logger().Warn().Err(err).Msg("publish attachment uploaded event failed")
	}
}

func (s *AttachmentService) publishRestored(rec *model.Attachment, prevVersion int, actor string) {
	if s.pub == nil {
		return
	}

	msg, err := queue.NewWatermillMessage(queue.TopicAttachmentRestored, queue.AttachmentRestoredPayload{
		Attachment:  attachmentRef(rec),
		PrevVersion: prevVersion,
		Actor:       actor,
	}, queue.WithProducer(configs.AppName))
	if err == nil {
		err = s.pub.Publish(queue.TopicAttachmentRestored, msg)
	}

	if err != nil {
		tlog.Logger().Warn().Err(err).Msg("publish attachment restored event failed")
	}
}

func (s *AttachmentService) publishDeleted(rec *model.Attachment, promoted *model.Attachment, actor string) {
	if s.pub == nil {
		return
	}

	payload := queue.AttachmentDeletedPayload{
		Attachment: attachmentRef(rec),
		WasLatest:  rec.IsLatest,
		Actor:      actor,
	}
	if promoted != nil {
		payload.Promoted = promoted.Version
	}

	msg, err := queue.NewWatermillMessage(queue.TopicAttachmentDeleted, payload, queue.WithProducer(configs.AppName))
	if err == nil {
		err = s.pub.Publish(queue.TopicAttachmentDeleted, msg)
	}

	if err != nil {
		tlog.Logger().Warn().Err(err).Msg("publish attachment deleted event failed")
	}
}

func attachmentRef(rec *model.Attachment) queue.AttachmentRef {
	return queue.AttachmentRef{
		AttachmentID: rec.ID,
		TaskID:       rec.TaskID,
		FileName:     rec.FileName,
		StoragePath:  rec.StoragePath,
		FileType:     rec.FileType,
		FileSize:     rec.FileSize,
		Version:      rec.Version,
	}
}

// AttachmentToInfo 将目录记录转换为 API 响应结构.
func AttachmentToInfo(rec *model.Attachment) types.AttachmentInfo {
	return types.AttachmentInfo{
		ID:          rec.ID,
		TaskID:      rec.TaskID,
		FileName:    rec.FileName,
		StoragePath: rec.StoragePath,
		FileType:    rec.FileType,
		FileSize:    rec.FileSize,
		Version:     rec.Version,
		IsLatest:    rec.IsLatest,
		UploadedBy:  rec.UploadedBy,
		CreatedAt:   rec.CreatedAt.UTC().Format(time.RFC3339),
	}
}
