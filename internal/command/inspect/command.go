// Package inspect 提供 inspect 命令：输出模板的生成次数与变量表。
package inspect

import (
	"github.com/urfave/cli/v3"

	"github.com/lwmacct/251207-go-pkg-jsongen/internal/version"
)

// Command 检查命令
var Command = newCommand()

func newCommand() *cli.Command {
	return &cli.Command{
		Name:      "inspect",
		Usage:     "解析模板，输出生成次数与变量表",
		ArgsUsage: "[FILE]",
		Action:    action,
		Commands:  []*cli.Command{version.Command},
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "以 JSON 输出",
			},
			&cli.BoolFlag{
				Name:  "no-color",
				Usage: "禁用彩色输出",
			},
		},
	}
}
