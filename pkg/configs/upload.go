package configs

import "github.com/spf13/viper"

const (
	// DefaultUploadMaxSize 附件最大字节数（10 MiB）.
	DefaultUploadMaxSize = 10 * 1024 * 1024
	// DefaultSignedURLTTL 下载签名URL的默认有效期（秒）.
	DefaultSignedURLTTL = 900
)

// UploadConfig 附件上传限制配置.
// 允许的 MIME 类型在代码内以白名单固定（见 service 层），这里只暴露尺寸与签名URL相关的可调项.
type UploadConfig struct {
	MaxSizeBytes int64 `mapstructure:"max_size_bytes" rule:"min=1"`
	SignedURLTTL int   `mapstructure:"signed_url_ttl" rule:"min=60,max=86400"`
}

func (c *UploadConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("upload.max_size_bytes", DefaultUploadMaxSize)
	v.SetDefault("upload.signed_url_ttl", DefaultSignedURLTTL)
}
