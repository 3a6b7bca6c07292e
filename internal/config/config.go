// Package config 提供应用程序的配置加载和管理功能
// 使用 TOML 格式的配置文件，支持多路径查找
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml" // TOML 配置文件解析库
)

// MainConfig 主配置，包含应用基本信息和后端地址
type MainConfig struct {
	AppName string `toml:"appName"` // 应用名称，用于日志标识等
	ApiUrl  string `toml:"apiUrl"`  // 后端 HTTP 基地址，如 "http://localhost:8000"
	WsUrl   string `toml:"wsUrl"`   // WebSocket 基地址，留空时由 ApiUrl 派生
}

// ReconnectConfig 管理端 WebSocket 重连策略配置
type ReconnectConfig struct {
	Enabled         bool `toml:"enabled"`         // 是否启用自动重连
	DelaySeconds    int  `toml:"delaySeconds"`    // 首次重连延迟（秒），默认 3
	MaxDelaySeconds int  `toml:"maxDelaySeconds"` // 退避延迟上限（秒）
	MaxAttempts     int  `toml:"maxAttempts"`     // 最大重连次数，0 表示不限
}

// WidgetConfig 访客挂件配置
type WidgetConfig struct {
	Position     string `toml:"position"`     // 挂件位置，如 "bottom-right"
	PrimaryColor string `toml:"primaryColor"` // 主题色
	Greeting     string `toml:"greeting"`     // 欢迎语
	CompanyName  string `toml:"companyName"`  // 公司名称，用于标题显示
	Reconnect    bool   `toml:"reconnect"`    // 访客连接是否自动重连
}

// TokenConfig 管理端令牌持久化配置
type TokenConfig struct {
	StorePath string `toml:"storePath"` // 令牌文件存储路径
}

// LogConfig 日志配置，使用 lumberjack 进行日志轮转
type LogConfig struct {
	LogPath    string `toml:"logPath"`    // 日志文件存储目录
	FileName   string `toml:"fileName"`   // 日志文件名
	MaxSize    int    `toml:"maxSize"`    // 单个日志文件最大大小（MB）
	MaxBackups int    `toml:"maxBackups"` // 保留旧日志文件的最大个数
	MaxAge     int    `toml:"maxAge"`     // 保留旧日志文件的最大天数
	Level      string `toml:"level"`      // 日志级别：debug, info, warn, error
}

// Config 应用程序总配置，聚合所有子配置
type Config struct {
	MainConfig      `toml:"mainConfig"`      // 主配置
	ReconnectConfig `toml:"reconnectConfig"` // 重连策略配置
	WidgetConfig    `toml:"widgetConfig"`    // 访客挂件配置
	TokenConfig     `toml:"tokenConfig"`     // 令牌持久化配置
	LogConfig       `toml:"logConfig"`       // 日志配置
}

// config 全局配置单例，延迟加载
var config *Config

// LoadConfig 从多个候选路径加载配置文件
// 按顺序尝试加载，找到第一个可用的配置文件即停止
// 环境变量 SUPPORT_CHAT_CONFIG 可指定额外的优先路径
func LoadConfig() error {
	if config == nil {
		config = new(Config)
	}
	paths := []string{
		"configs/config_local.toml", // 本地开发配置（优先）
		"configs/config.toml",       // 默认配置
		"../../configs/config_local.toml", // 从子目录运行时的路径
		"../../configs/config.toml",
	}
	if p := os.Getenv("SUPPORT_CHAT_CONFIG"); p != "" {
		paths = append([]string{p}, paths...)
	}

	for _, path := range paths {
		if _, err := toml.DecodeFile(path, config); err == nil {
			config.applyDefaults()
			return nil
		}
	}

	return fmt.Errorf("could not find configuration file in any of the search paths")
}

// GetConfig 获取全局配置实例（单例模式）
// 首次调用时会自动加载配置文件，加载失败时使用默认值
func GetConfig() *Config {
	if config == nil {
		config = new(Config)
		_ = LoadConfig()
		config.applyDefaults()
	}
	return config
}

// applyDefaults 填充缺省配置
// 缺省值与原产品的前端默认行为保持一致（3 秒重连、bottom-right 挂件等）
func (c *Config) applyDefaults() {
	if c.MainConfig.AppName == "" {
		c.MainConfig.AppName = "support_chat_client"
	}
	if c.MainConfig.ApiUrl == "" {
		c.MainConfig.ApiUrl = "http://localhost:8000"
	}
	if v := os.Getenv("SUPPORT_CHAT_API_URL"); v != "" {
		c.MainConfig.ApiUrl = v
		c.MainConfig.WsUrl = ""
	}
	if c.MainConfig.WsUrl == "" {
		c.MainConfig.WsUrl = DeriveWsUrl(c.MainConfig.ApiUrl)
	}
	if c.ReconnectConfig.DelaySeconds <= 0 {
		c.ReconnectConfig.DelaySeconds = 3
	}
	if c.ReconnectConfig.MaxDelaySeconds <= 0 {
		c.ReconnectConfig.MaxDelaySeconds = 30
	}
	if c.WidgetConfig.Position == "" {
		c.WidgetConfig.Position = "bottom-right"
	}
	if c.WidgetConfig.PrimaryColor == "" {
		c.WidgetConfig.PrimaryColor = "#6366f1"
	}
	if c.WidgetConfig.Greeting == "" {
		c.WidgetConfig.Greeting = "Hi! How can I help you today?"
	}
	if c.WidgetConfig.CompanyName == "" {
		c.WidgetConfig.CompanyName = "Support"
	}
	if c.TokenConfig.StorePath == "" {
		c.TokenConfig.StorePath = defaultTokenPath()
	}
}

// ReconnectDelay 首次重连延迟
func (c *ReconnectConfig) ReconnectDelay() time.Duration {
	return time.Duration(c.DelaySeconds) * time.Second
}

// ReconnectMaxDelay 退避延迟上限
func (c *ReconnectConfig) ReconnectMaxDelay() time.Duration {
	return time.Duration(c.MaxDelaySeconds) * time.Second
}

// DeriveWsUrl 从 HTTP 基地址派生 WebSocket 基地址
// 与浏览器端相同的做法：http → ws，https → wss
func DeriveWsUrl(apiUrl string) string {
	if strings.HasPrefix(apiUrl, "https") {
		return "wss" + strings.TrimPrefix(apiUrl, "https")
	}
	return "ws" + strings.TrimPrefix(apiUrl, "http")
}

func defaultTokenPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".support_chat_token"
	}
	return home + "/.support_chat_token"
}
