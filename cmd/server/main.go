package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/lwmacct/251207-go-pkg-jsongen/internal/command"
	app "github.com/lwmacct/251207-go-pkg-jsongen/internal/command/server"
	"github.com/lwmacct/251207-go-pkg-jsongen/internal/version"
)

func main() {
	root := &cli.Command{
		Name:           version.AppRawName + "-server",
		Usage:          app.Command.Usage,
		Version:        version.GetVersion(),
		Flags:          command.GlobalFlags(),
		Before:         command.Before,
		Commands:       []*cli.Command{app.Command},
		DefaultCommand: app.Command.Name,
	}

	if err := root.Run(context.Background(), os.Args); err != nil {
		slog.Error("应用程序运行失败", "error", err)
		os.Exit(1)
	}
}
