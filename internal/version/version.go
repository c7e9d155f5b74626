// Package version 提供构建版本信息与 version 子命令。
package version

import (
	"context"
	"fmt"
	"runtime/debug"

	"github.com/urfave/cli/v3"
)

// AppRawName 应用名称，同时用于配置文件搜索路径。
const AppRawName = "jsongen"

// 构建时通过 -ldflags "-X" 注入。
var (
	Version   = ""
	Commit    = ""
	BuildTime = ""
)

// GetVersion 返回版本号。
//
// 未注入时依次回退到模块版本与 VCS 修订号，均缺失时为 "dev"。
func GetVersion() string {
	if Version != "" {
		return Version
	}

	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "dev"
	}
	if v := info.Main.Version; v != "" && v != "(devel)" {
		return v
	}
	for _, setting := range info.Settings {
		if setting.Key == "vcs.revision" && len(setting.Value) >= 7 {
			return "dev-" + setting.Value[:7]
		}
	}

	return "dev"
}

// Command version 子命令。
var Command = &cli.Command{
	Name:  "version",
	Usage: "显示版本信息",
	Action: func(_ context.Context, cmd *cli.Command) error {
		_, err := fmt.Fprintf(cmd.Root().Writer, "%s %s\n", AppRawName, GetVersion())
		if err != nil {
			return err
		}
		if Commit != "" || BuildTime != "" {
			_, err = fmt.Fprintf(cmd.Root().Writer, "commit: %s\nbuilt: %s\n", Commit, BuildTime)
		}

		return err
	},
}
