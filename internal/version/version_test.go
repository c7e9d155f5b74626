package version

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"
)

func TestGetVersion_Injected(t *testing.T) {
	old := Version
	t.Cleanup(func() { Version = old })

	Version = "v1.2.3"
	assert.Equal(t, "v1.2.3", GetVersion())
}

func TestGetVersion_Fallback(t *testing.T) {
	old := Version
	t.Cleanup(func() { Version = old })

	Version = ""
	assert.NotEmpty(t, GetVersion())
}

func TestCommand(t *testing.T) {
	oldVersion, oldCommit := Version, Commit
	t.Cleanup(func() { Version, Commit = oldVersion, oldCommit })
	Version, Commit = "v0.1.0", "abc1234"

	var out bytes.Buffer
	root := &cli.Command{Name: AppRawName, Writer: &out, Commands: []*cli.Command{Command}}

	require.NoError(t, root.Run(context.Background(), []string{AppRawName, "version"}))
	assert.Contains(t, out.String(), "jsongen v0.1.0")
	assert.Contains(t, out.String(), "commit: abc1234")
}
