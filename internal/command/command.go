// Package command 提供各子命令共享的默认配置与辅助函数。
package command

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/lwmacct/251207-go-pkg-jsongen/internal/config"
	"github.com/lwmacct/251207-go-pkg-jsongen/internal/version"
	"github.com/lwmacct/251207-go-pkg-jsongen/pkg/cfgm"
)

// Defaults 为默认配置的单一来源。
var Defaults = config.DefaultConfig()

// LoadConfig 按 默认值 → 配置文件 → 环境变量 → CLI flags 加载配置。
//
// 指定 --config 时只读取该文件。
func LoadConfig(cmd *cli.Command) (*config.Config, error) {
	opts := []cfgm.Option{cfgm.WithEnvPrefix(config.EnvPrefix)}
	if path := cmd.String("config"); path != "" {
		opts = append(opts, cfgm.WithConfigPaths(path))
	}

	cfg, err := cfgm.LoadCmd(cmd, config.DefaultConfig(), version.AppRawName, opts...)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate 检查配置取值，返回全部问题。
func Validate(cfg *config.Config) error {
	var errs []error

	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(cfg.Log.Level))); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}
	switch cfg.Output.Format {
	case config.FormatJSON, config.FormatJSONL, config.FormatYAML:
	default:
		errs = append(errs, fmt.Errorf("output.format: %q is not one of json, jsonl, yaml", cfg.Output.Format))
	}
	if cfg.Output.Indent < 0 {
		errs = append(errs, fmt.Errorf("output.indent: must not be negative, got %d", cfg.Output.Indent))
	}
	if cfg.Server.MaxBody <= 0 {
		errs = append(errs, fmt.Errorf("server.max-body: must be positive, got %d", cfg.Server.MaxBody))
	}
	if cfg.Client.Retries < 0 {
		errs = append(errs, fmt.Errorf("client.retries: must not be negative, got %d", cfg.Client.Retries))
	}

	return errors.Join(errs...)
}

// GlobalFlags 返回根命令的全局 flags，子命令通过 cmd.String 读取。
//
//   - --config: 配置文件路径，未指定时按搜索路径查找
//   - --log-level: 对应配置 key log.level
func GlobalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "配置文件路径（默认按搜索路径查找）",
		},
		&cli.StringFlag{
			Name:  "log-level",
			Value: Defaults.Log.Level,
			Usage: "日志级别 (debug, info, warn, error)",
		},
	}
}

// Before 根命令的 Before 钩子：加载配置并安装日志处理器。
func Before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	cfg, err := LoadConfig(cmd)
	if err != nil {
		return ctx, err
	}

	return ctx, SetupLogger(cmd.Root().ErrWriter, cfg.Log.Level)
}

// SetupLogger 按级别安装输出到 w 的文本 slog 处理器。
func SetupLogger(w io.Writer, level string) error {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(level))); err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})))

	return nil
}

// ReadInput 读取参数指定的文件；无参数或参数为 "-" 时读取标准输入。
//
// 返回内容与用于命名输出的文件名主干。
func ReadInput(cmd *cli.Command) (content, stem string, err error) {
	path := cmd.Args().First()
	if path == "" || path == "-" {
		data, err := io.ReadAll(cmd.Root().Reader)
		if err != nil {
			return "", "", fmt.Errorf("read stdin: %w", err)
		}

		return string(data), "stdin", nil
	}

	data, err := os.ReadFile(path) //nolint:gosec // path is provided by the operator
	if err != nil {
		return "", "", fmt.Errorf("read template: %w", err)
	}

	return string(data), fileStem(path), nil
}

func fileStem(path string) string {
	base := path[strings.LastIndexAny(path, `/\`)+1:]
	if i := strings.IndexByte(base, '.'); i > 0 {
		return base[:i]
	}

	return base
}
