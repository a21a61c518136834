package types

// AttachmentInfo 单个附件版本信息.
type AttachmentInfo struct {
	ID          uint   `json:"id"`
	TaskID      uint   `json:"task_id"`
	FileName    string `json:"file_name"`
	StoragePath string `json:"storage_path"`
	FileType    string `json:"file_type"`
	FileSize    int64  `json:"file_size"`
	Version     int    `json:"version"`
	IsLatest    bool   `json:"is_latest"`
	UploadedBy  string `json:"uploaded_by"`
	CreatedAt   string `json:"created_at"` // RFC3339
}

// UploadAttachmentResponse 上传附件响应.
type UploadAttachmentResponse struct {
	Attachment AttachmentInfo `json:"attachment"`
}

// ListAttachmentsResponse 任务最新附件列表响应，每个文件名一条.
type ListAttachmentsResponse struct {
	Attachments []AttachmentInfo `json:"attachments"`
	Total       int              `json:"total"`
}

// ListAttachmentVersionsResponse 单个文件名的全部版本响应，按版本号降序.
type ListAttachmentVersionsResponse struct {
	FileName string           `json:"file_name"`
	Versions []AttachmentInfo `json:"versions"`
	Total    int              `json:"total"`
}

// RestoreAttachmentResponse 恢复历史版本为最新版本的响应.
type RestoreAttachmentResponse struct {
	Attachment AttachmentInfo `json:"attachment"`
	Changed    bool           `json:"changed"` // false 表示该版本已是最新，未做任何修改
}

// DeleteAttachmentResponse 删除附件版本响应.
type DeleteAttachmentResponse struct {
	Deleted  AttachmentInfo  `json:"deleted"`
	Promoted *AttachmentInfo `json:"promoted,omitempty"` // 删除最新版本后被提升的版本
}

// AttachmentURLResponse 附件下载 URL 响应.
type AttachmentURLResponse struct {
	FileName  string `json:"file_name"`
	Version   int    `json:"version"`
	GetURL    string `json:"get_url"`
	ExpiresIn int    `json:"expires_in"` // 秒
}
