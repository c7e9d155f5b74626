// Package expand 提供 expand 命令：展开模板并输出全部 JSON 文档。
package expand

import (
	"github.com/urfave/cli/v3"

	"github.com/lwmacct/251207-go-pkg-jsongen/internal/command"
	"github.com/lwmacct/251207-go-pkg-jsongen/internal/version"
)

// Command 展开命令
var Command = newCommand()

func newCommand() *cli.Command {
	return &cli.Command{
		Name:      "expand",
		Usage:     "展开模板，输出全部 JSON 文档",
		ArgsUsage: "[FILE]",
		Action:    action,
		Commands:  []*cli.Command{version.Command},
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "expand-workers",
				Aliases: []string{"w"},
				Value:   command.Defaults.Expand.Workers,
				Usage:   "并发渲染的 worker 数量",
			},
			&cli.BoolFlag{
				Name:    "expand-env",
				Aliases: []string{"e"},
				Usage:   "展开前先执行 ${VAR} 环境变量替换",
			},
			&cli.StringFlag{
				Name:    "output-format",
				Aliases: []string{"f"},
				Value:   command.Defaults.Output.Format,
				Usage:   "输出格式 (json, jsonl, yaml)",
			},
			&cli.IntFlag{
				Name:  "output-indent",
				Value: command.Defaults.Output.Indent,
				Usage: "JSON 缩进空格数，0 为紧凑输出",
			},
			&cli.StringFlag{
				Name:    "output-dir",
				Aliases: []string{"o"},
				Usage:   "按文档拆分输出到该目录",
			},
			&cli.StringFlag{
				Name:  "output-pattern",
				Value: command.Defaults.Output.Pattern,
				Usage: "拆分输出的文件名模板 ({index} {number} {count} {stem})",
			},
		},
	}
}
