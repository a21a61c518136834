// Package configs 管理应用程序配置，包括数据库、对象存储、消息队列等配置信息.
// 支持多种配置格式（YAML、JSON、TOML、dotenv）并可启用热重载.
//
// Example:
//
//	import "github.com/yeisme/taskvault/pkg/configs"
//
//	err := configs.InitConfig("./")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	config := configs.GetConfig()
//	fmt.Println(config.Server.Port)
package configs

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// AppName 应用名称，用于事件 Producer 标识与 User-Agent.
const AppName = "taskvault"

// AppVersion 应用版本号，构建时可通过 ldflags 覆盖.
var AppVersion = "1.0.0"

type (
	// AppConfig 全局应用程序配置.
	AppConfig struct {
		Server  ServerConfig         `mapstructure:"server"`  // 服务器配置
		DB      DBConfig             `mapstructure:"db"`      // 数据库（附件目录、项目/任务表）配置
		S3      S3Config             `mapstructure:"s3"`      // 对象存储（附件 Blob）配置
		KV      KVConfig             `mapstructure:"kv"`      // 键值存储（状态缓存持久化）配置
		MQ      MQConfig             `mapstructure:"mq"`      // 消息队列（事件通知）配置
		Upload  UploadConfig         `mapstructure:"upload"`  // 附件上传限制配置
		Log     LogConfig            `mapstructure:"log"`     // 日志配置
		Auth    AuthConfig           `mapstructure:"auth"`    // 认证配置
		Metrics MetricsConfig        `mapstructure:"metrics"` // 监控配置
		Tracing TracingConfig        `mapstructure:"tracing"` // 追踪配置
		Ratelim RateLimitConfig      `mapstructure:"rate_limit"`
		Breaker CircuitBreakerConfig `mapstructure:"circuit_breaker"`
		Events  EventsConfig         `mapstructure:"events"`
	}
)

var (
	globalConfig AppConfig
	appViper     *viper.Viper
)

// InitConfig 加载应用程序配置，path 可以是配置文件或其所在目录.
func InitConfig(path string) error {
	appViper = viper.New()
	setAllDefaults(appViper)

	if info, err := os.Stat(path); err == nil && !info.IsDir() {
		appViper.SetConfigFile(path)
	} else {
		appViper.SetConfigName("config")
		appViper.AddConfigPath(path)
		appViper.AddConfigPath(filepath.Join(path, "configs"))

		exts := []string{"yaml", "yml", "json", "toml", "env", "dotenv"}

		for _, ext := range exts {
			cfg := filepath.Join(path, "config."+ext)
			if _, err := os.Stat(cfg); err == nil {
				appViper.SetConfigFile(cfg)

				break
			}
		}
	}

	appViper.AutomaticEnv()
	appViper.SetEnvPrefix("TASKVAULT")

	if err := appViper.ReadInConfig(); err != nil {
		// 没有配置文件时允许仅凭默认值与环境变量启动
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}

	if err := appViper.Unmarshal(&globalConfig); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}

	reloadConfigs(appViper, globalConfig.Server.ReloadConfig)

	return nil
}

// setAllDefaults 设置所有配置段的默认值.
func setAllDefaults(v *viper.Viper) {
	var (
		serverConfig  ServerConfig
		dbConfig      DBConfig
		s3Config      S3Config
		kvConfig      KVConfig
		mqConfig      MQConfig
		uploadConfig  UploadConfig
		logConfig     LogConfig
		authConfig    AuthConfig
		metricsConfig MetricsConfig
		tracingConfig TracingConfig
		rlConfig      RateLimitConfig
		cbConfig      CircuitBreakerConfig
		eventsConfig  EventsConfig
	)

	serverConfig.setDefaults(v)
	dbConfig.setDefaults(v)
	s3Config.setDefaults(v)
	kvConfig.setDefaults(v)
	mqConfig.setDefaults(v)
	uploadConfig.setDefaults(v)
	logConfig.setDefaults(v)
	authConfig.setDefaults(v)
	metricsConfig.setDefaults(v)
	tracingConfig.setDefaults(v)
	rlConfig.setDefaults(v)
	cbConfig.setDefaults(v)
	eventsConfig.setDefaults(v)
}

func reloadConfigs(v *viper.Viper, isHotReload bool) {
	if !isHotReload {
		return
	}

	v.OnConfigChange(func(e fsnotify.Event) {
		fmt.Println("Config file changed:", e.Name)

		if err := v.Unmarshal(&globalConfig); err != nil {
			fmt.Printf("Error reloading config: %v\n", err)
		}
	})
	v.WatchConfig()
}

// GetConfig 返回全局配置实例.
func GetConfig() *AppConfig {
	return &globalConfig
}

// GetViper 返回全局 Viper 实例.
func GetViper() *viper.Viper {
	return appViper
}
