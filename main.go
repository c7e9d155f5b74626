package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/lwmacct/251207-go-pkg-jsongen/internal/command"
	"github.com/lwmacct/251207-go-pkg-jsongen/internal/command/client"
	"github.com/lwmacct/251207-go-pkg-jsongen/internal/command/configcmd"
	"github.com/lwmacct/251207-go-pkg-jsongen/internal/command/expand"
	"github.com/lwmacct/251207-go-pkg-jsongen/internal/command/inspect"
	"github.com/lwmacct/251207-go-pkg-jsongen/internal/command/server"
	"github.com/lwmacct/251207-go-pkg-jsongen/internal/version"
)

func main() {
	app := &cli.Command{
		Name:    version.AppRawName,
		Usage:   "JSON 模板变量展开工具",
		Version: version.GetVersion(),
		Flags:   command.GlobalFlags(),
		Before:  command.Before,
		Commands: []*cli.Command{
			version.Command,
			expand.Command,
			inspect.Command,
			configcmd.Command,
			client.Command,
			server.Command,
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
