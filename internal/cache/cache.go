// Package cache runs the host system's cache rebuild after role permissions
// change.
package cache

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"go.uber.org/zap"
)

// RoleIDEnv is set to the changed role's machine name when running a command.
const RoleIDEnv = "ROLECTL_ROLE_ID"

// Command runs a shell command for every invalidation.
type Command struct {
	// Script is passed to "sh -c".
	Script string

	// Shell overrides the interpreter. Defaults to "sh".
	Shell string

	Logger *zap.Logger
}

// NewCommand returns an invalidator that runs script.
func NewCommand(script string, logger *zap.Logger) *Command {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Command{Script: script, Logger: logger}
}

// Invalidate runs the command and waits for it to finish.
func (c *Command) Invalidate(ctx context.Context, roleID string) error {
	shell := c.Shell
	if shell == "" {
		shell = "sh"
	}

	cmd := exec.CommandContext(ctx, shell, "-c", c.Script)
	cmd.Env = append(os.Environ(), RoleIDEnv+"="+roleID)
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	c.Logger.Debug("running cache rebuild", zap.String("command", c.Script), zap.String("role", roleID))
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("cache rebuild %q failed: %w: %s", c.Script, err, strings.TrimSpace(out.String()))
	}
	c.Logger.Debug("cache rebuild finished", zap.String("output", strings.TrimSpace(out.String())))
	return nil
}

// Log records invalidations without acting on them.
type Log struct {
	Logger *zap.Logger
}

func (l *Log) Invalidate(_ context.Context, roleID string) error {
	l.Logger.Info("role permissions changed, derived caches are stale", zap.String("role", roleID))
	return nil
}
