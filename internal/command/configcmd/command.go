// Package configcmd 提供 config 命令：输出配置示例与校验配置文件。
package configcmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/lwmacct/251207-go-pkg-jsongen/internal/command"
	"github.com/lwmacct/251207-go-pkg-jsongen/internal/config"
	"github.com/lwmacct/251207-go-pkg-jsongen/pkg/cfgm"
)

// Command 配置命令
var Command = newCommand()

func newCommand() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "配置文件工具",
		Commands: []*cli.Command{
			{
				Name:   "example",
				Usage:  "输出带注释的默认配置",
				Action: exampleAction,
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "json", Usage: "以 JSON 输出"},
				},
			},
			{
				Name:      "check",
				Usage:     "检查配置文件中未定义的 key，并验证加载结果",
				ArgsUsage: "FILE",
				Action:    checkAction,
			},
		},
	}
}

func exampleAction(_ context.Context, cmd *cli.Command) error {
	out := cfgm.ExampleYAML(config.DefaultConfig())
	if cmd.Bool("json") {
		out = append(cfgm.MarshalJSON(config.DefaultConfig()), '\n')
	}
	_, err := cmd.Root().Writer.Write(out)

	return err
}

func checkAction(_ context.Context, cmd *cli.Command) error {
	path := cmd.Args().First()
	if path == "" {
		return errors.New("config check: missing FILE argument")
	}

	unknown, err := cfgm.UnknownKeys(config.DefaultConfig(), path)
	if err != nil {
		return err
	}
	if len(unknown) > 0 {
		return fmt.Errorf("%s: unknown keys: %s", path, strings.Join(unknown, ", "))
	}

	cfg, err := cfgm.Load(config.DefaultConfig(), cfgm.WithConfigPaths(path), cfgm.WithEnvPrefix(config.EnvPrefix))
	if err != nil {
		return err
	}
	if err := command.Validate(cfg); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	_, err = fmt.Fprintf(cmd.Root().Writer, "%s: ok\n", path)

	return err
}
