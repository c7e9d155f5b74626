package expand

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	json "github.com/goccy/go-json"
	"github.com/urfave/cli/v3"

	"github.com/lwmacct/251207-go-pkg-jsongen/internal/command"
	"github.com/lwmacct/251207-go-pkg-jsongen/internal/config"
	"github.com/lwmacct/251207-go-pkg-jsongen/pkg/jsongen"
	"github.com/lwmacct/251207-go-pkg-jsongen/pkg/templexp"
)

func action(_ context.Context, cmd *cli.Command) error {
	cfg, err := command.LoadConfig(cmd)
	if err != nil {
		return err
	}

	content, stem, err := command.ReadInput(cmd)
	if err != nil {
		return err
	}

	start := time.Now()
	docs, err := Generate(content, cfg.Expand)
	if err != nil {
		return err
	}
	slog.Debug("Template expanded", "documents", len(docs), "elapsed", time.Since(start))

	if cfg.Output.Dir != "" {
		paths, err := WriteFiles(cfg.Output, stem, docs)
		if err != nil {
			return err
		}
		slog.Info("Documents written", "dir", cfg.Output.Dir, "count", len(paths))

		return nil
	}

	return Write(cmd.Root().Writer, cfg.Output, docs)
}

// Generate 按展开配置生成全部文档，保留对象 key 的书写顺序。
//
// 启用 Env 时先以进程环境变量执行 ${VAR} 替换，$name 占位符不受影响。
func Generate(content string, cfg config.ExpandConfig) ([]json.RawMessage, error) {
	if cfg.Env {
		expanded, err := templexp.ExpandTemplate(content)
		if err != nil {
			return nil, fmt.Errorf("expand environment: %w", err)
		}
		content = expanded
	}

	tpl, err := jsongen.Parse(content)
	if err != nil {
		return nil, err
	}

	return tpl.GenerateRaw(jsongen.WithWorkers(cfg.Workers))
}
