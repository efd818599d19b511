package cache

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/aussie/rolectl/internal/role"
)

var (
	_ role.CacheInvalidator = (*Command)(nil)
	_ role.CacheInvalidator = (*Log)(nil)
)

func TestCommand_PassesRoleID(t *testing.T) {
	out := filepath.Join(t.TempDir(), "rebuilt")
	c := NewCommand(`printf '%s' "$ROLECTL_ROLE_ID" > `+out, nil)

	require.NoError(t, c.Invalidate(context.Background(), "editor"))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	require.Equal(t, "editor", string(data))
}

func TestCommand_Failure(t *testing.T) {
	c := NewCommand("echo nope >&2; exit 3", zap.NewNop())

	err := c.Invalidate(context.Background(), "editor")
	require.Error(t, err)
	require.Contains(t, err.Error(), "nope")
}

func TestLog(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	l := &Log{Logger: zap.New(core)}

	require.NoError(t, l.Invalidate(context.Background(), "editor"))
	require.Equal(t, 1, logs.Len())
	require.Equal(t, "editor", logs.All()[0].ContextMap()["role"])
}
