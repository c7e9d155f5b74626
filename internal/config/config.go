// Package config 提供应用配置管理。
//
// 配置加载优先级 (从低到高)：
//  1. 默认值 - DefaultConfig() 函数中定义
//  2. 配置文件 - 通过 WithAppName / WithConfigPaths 选项设置
//  3. 环境变量 - 通过 WithEnvPrefix 选项启用
//  4. CLI flags - 通过 WithCommand 选项设置
package config

import (
	"time"
)

// EnvPrefix 环境变量前缀。
const EnvPrefix = "JSONGEN_"

// 输出格式。
const (
	FormatJSON  = "json"
	FormatJSONL = "jsonl"
	FormatYAML  = "yaml"
)

// Config 应用配置。
type Config struct {
	Log    LogConfig    `json:"log"    desc:"日志配置"`
	Expand ExpandConfig `json:"expand" desc:"模板展开配置"`
	Output OutputConfig `json:"output" desc:"输出配置"`
	Server ServerConfig `json:"server" desc:"服务端配置"`
	Client ClientConfig `json:"client" desc:"客户端配置"`
}

// LogConfig 日志配置。
type LogConfig struct {
	Level string `json:"level" desc:"日志级别 (debug, info, warn, error)"`
}

// ExpandConfig 模板展开配置。
type ExpandConfig struct {
	Workers int  `json:"workers" desc:"并发渲染的 worker 数量"`
	Env     bool `json:"env"     desc:"展开前先执行 ${VAR} 环境变量替换"`
}

// OutputConfig 输出配置。
type OutputConfig struct {
	Format  string `json:"format"  desc:"输出格式 (json, jsonl, yaml)"`
	Indent  int    `json:"indent"  desc:"JSON 缩进空格数，0 为紧凑输出"`
	Dir     string `json:"dir"     desc:"按文档拆分输出的目录，为空则写到标准输出"`
	Pattern string `json:"pattern" desc:"拆分输出的文件名模板 ({index} {number} {count} {stem})"`
}

// ServerConfig 服务端配置。
//
//nolint:tagliatelle
type ServerConfig struct {
	Addr     string        `json:"addr"     desc:"服务器监听地址"`
	Timeout  time.Duration `json:"timeout"  desc:"HTTP 读写超时"`
	Idletime time.Duration `json:"idletime" desc:"HTTP 空闲超时"`
	MaxBody  int64         `json:"max-body" desc:"请求体最大字节数"`
}

// ClientConfig 客户端配置。
type ClientConfig struct {
	URL     string        `json:"url"     desc:"服务器地址"`
	Timeout time.Duration `json:"timeout" desc:"请求超时时间"`
	Retries int           `json:"retries" desc:"重试次数"`
}

// DefaultConfig 返回默认配置。
// 注意：internal/command/command.go 中的 Defaults 变量引用此函数以实现单一配置来源。
func DefaultConfig() Config {
	return Config{
		Log: LogConfig{
			Level: "info",
		},
		Expand: ExpandConfig{
			Workers: 1,
		},
		Output: OutputConfig{
			Format:  FormatJSON,
			Indent:  2,
			Pattern: "{stem}-{number}.json",
		},
		Server: ServerConfig{
			Addr:     ":40117",
			Timeout:  15 * time.Second,
			Idletime: 60 * time.Second,
			MaxBody:  1 << 20,
		},
		Client: ClientConfig{
			URL:     "http://localhost:40117",
			Timeout: 30 * time.Second,
			Retries: 3,
		},
	}
}
