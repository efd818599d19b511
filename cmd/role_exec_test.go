package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
)

// resetFlags restores every flag to its default so state from one execution
// does not leak into the next.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, child := range c.Commands() {
		resetFlags(child)
	}
}

// run executes the CLI with args and returns stdout, stderr and the error.
func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	resetFlags(rootCmd)

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	}()

	err := Execute()
	return stdout.String(), stderr.String(), err
}

// writeConfig creates a config file pointing at a fresh database.
func writeConfig(t *testing.T, extra string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "rolectl.toml")
	content := fmt.Sprintf("[store]\ndriver = \"sqlite\"\npath = %q\n\n%s", filepath.Join(dir, "roles.db"), extra)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRoleLifecycle(t *testing.T) {
	cfg := writeConfig(t, "")

	_, stderr, err := run(t, "-c", cfg, "role", "create", "test_role")
	require.NoError(t, err)
	require.Equal(t, "[success] Created \"test_role\"\n", stderr)

	_, stderr, err = run(t, "-c", cfg, "role", "perm", "add", "test_role", "post comments,access content")
	require.NoError(t, err)
	require.Contains(t, stderr, `Added "post comments", "access content" to "test_role"`)

	stdout, _, err := run(t, "-c", cfg, "role", "list", "--format", "json")
	require.NoError(t, err)

	var listed map[string]struct {
		Label string   `json:"label"`
		Perms []string `json:"perms"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &listed))
	require.Equal(t, "Test_role", listed["test_role"].Label)
	require.Equal(t, []string{"access content", "post comments"}, listed["test_role"].Perms)

	_, stderr, err = run(t, "-c", cfg, "role", "perm", "remove", "test_role", "post comments")
	require.NoError(t, err)
	require.Contains(t, stderr, `Removed "post comments" from "test_role"`)

	stdout, _, err = run(t, "-c", cfg, "role", "get", "test_role")
	require.NoError(t, err)
	require.Contains(t, stdout, "Label:        Test_role\n")
	require.Contains(t, stdout, "Permissions:  access content\n")

	_, stderr, err = run(t, "-c", cfg, "role", "delete", "test_role")
	require.NoError(t, err)
	require.Contains(t, stderr, `Deleted "test_role"`)

	stdout, _, err = run(t, "-c", cfg, "role", "list", "--format", "table")
	require.NoError(t, err)
	require.Equal(t, "No roles found.\n", stdout)
}

func TestRoleCreate_WithLabelAndDuplicate(t *testing.T) {
	cfg := writeConfig(t, "")

	_, _, err := run(t, "-c", cfg, "role", "create", "content_editor", "Content editor")
	require.NoError(t, err)

	_, _, err = run(t, "-c", cfg, "role", "create", "content_editor")
	require.Error(t, err)
	require.Contains(t, err.Error(), "already exists")

	stdout, _, err := run(t, "-c", cfg, "role", "list")
	require.NoError(t, err)
	require.Equal(t, "content_editor:\n  label: Content editor\n  perms: []\n", stdout)
}

func TestRoleList_FilterAndOrder(t *testing.T) {
	cfg := writeConfig(t, "[output]\nformat = \"table\"\n")

	for _, id := range []string{"b", "a", "c"} {
		_, _, err := run(t, "-c", cfg, "role", "create", id)
		require.NoError(t, err)
	}
	_, _, err := run(t, "-c", cfg, "role", "perm", "add", "c", "administer nodes")
	require.NoError(t, err)

	stdout, _, err := run(t, "-c", cfg, "role", "list")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	require.Len(t, lines, 5)
	require.True(t, strings.HasPrefix(lines[2], "a "))
	require.True(t, strings.HasPrefix(lines[3], "b "))
	require.True(t, strings.HasPrefix(lines[4], "c "))

	stdout, _, err = run(t, "-c", cfg, "role", "list", "--filter", "administer nodes")
	require.NoError(t, err)
	lines = strings.Split(strings.TrimSpace(stdout), "\n")
	require.Len(t, lines, 3)
	require.True(t, strings.HasPrefix(lines[2], "c "))

	_, _, err = run(t, "-c", cfg, "role", "list", "--filter", "weight=1")
	require.Error(t, err)
	require.Contains(t, err.Error(), "invalid filter")
}

func TestRoleErrors(t *testing.T) {
	cfg := writeConfig(t, "")

	_, _, err := run(t, "-c", cfg, "role", "delete", "missing")
	require.Error(t, err)
	require.Contains(t, err.Error(), "not found")

	_, _, err = run(t, "-c", cfg, "role", "perm", "add", "missing", "access content")
	require.Error(t, err)
	require.Contains(t, err.Error(), "not found")

	_, _, err = run(t, "-c", cfg, "role", "create", "bad/id")
	require.Error(t, err)
	require.Contains(t, err.Error(), "invalid role ID")

	_, _, err = run(t, "-c", cfg, "role", "perm", "add", "x", " , ")
	require.Error(t, err)
	require.Contains(t, err.Error(), "no permissions given")

	_, _, err = run(t, "-c", cfg, "role", "list", "--format", "csv")
	require.Error(t, err)
}

func TestRolePermAdd_RegistryRejectsUnknown(t *testing.T) {
	cfg := writeConfig(t, "[permissions]\nnames = [\"access content\", \"post comments\"]\n")

	_, _, err := run(t, "-c", cfg, "role", "create", "editor")
	require.NoError(t, err)

	_, _, err = run(t, "-c", cfg, "role", "perm", "add", "editor", "access content,launch rockets")
	require.Error(t, err)
	require.Contains(t, err.Error(), `"launch rockets"`)

	stdout, _, err := run(t, "-c", cfg, "role", "get", "editor", "--format", "json")
	require.NoError(t, err)
	require.Contains(t, stdout, `"perms": []`)
}

func TestRolePermAdd_RunsRebuildCommand(t *testing.T) {
	marker := filepath.Join(t.TempDir(), "rebuilt")
	cfg := writeConfig(t, fmt.Sprintf("[cache]\nrebuild_command = %q\n",
		`printf '%s\n' "$ROLECTL_ROLE_ID" >> `+marker))

	_, _, err := run(t, "-c", cfg, "role", "create", "editor")
	require.NoError(t, err)
	_, _, err = run(t, "-c", cfg, "role", "perm", "add", "editor", "access content")
	require.NoError(t, err)
	_, _, err = run(t, "-c", cfg, "role", "perm", "remove", "editor", "access content")
	require.NoError(t, err)

	data, err := os.ReadFile(marker)
	require.NoError(t, err)
	require.Equal(t, "editor\neditor\n", string(data))
}

func TestStoreFlagsOverrideConfig(t *testing.T) {
	cfg := writeConfig(t, "")
	rolesFile := filepath.Join(t.TempDir(), "roles.toml")

	_, _, err := run(t, "-c", cfg, "--store", "file", "--store-path", rolesFile, "role", "create", "editor")
	require.NoError(t, err)

	data, err := os.ReadFile(rolesFile)
	require.NoError(t, err)
	require.Contains(t, string(data), "editor")

	stdout, _, err := run(t, "-c", cfg, "role", "list", "--format", "table")
	require.NoError(t, err)
	require.Equal(t, "No roles found.\n", stdout)
}

func TestStorePathFlagCompletesConfig(t *testing.T) {
	dir := t.TempDir()
	cfg := filepath.Join(dir, "rolectl.toml")
	require.NoError(t, os.WriteFile(cfg, []byte("[store]\ndriver = \"file\"\npath = \"\"\n"), 0o644))
	rolesFile := filepath.Join(dir, "roles.toml")

	_, _, err := run(t, "-c", cfg, "--store-path", rolesFile, "role", "create", "editor")
	require.NoError(t, err)

	data, err := os.ReadFile(rolesFile)
	require.NoError(t, err)
	require.Contains(t, string(data), "editor")
}

func TestStoreFlagCorrectsInvalidDriver(t *testing.T) {
	dir := t.TempDir()
	cfg := filepath.Join(dir, "rolectl.toml")
	require.NoError(t, os.WriteFile(cfg, []byte("[store]\ndriver = \"mysql\"\n"), 0o644))

	_, _, err := run(t, "-c", cfg, "role", "list")
	require.Error(t, err)
	require.Contains(t, err.Error(), `invalid store driver "mysql"`)

	_, _, err = run(t, "-c", cfg, "--store", "sqlite", "--store-path", filepath.Join(dir, "r.db"), "role", "list")
	require.NoError(t, err)
}

func TestStoreFlagUsesDriverDefaultPath(t *testing.T) {
	cfg := writeConfig(t, "")
	dir := t.TempDir()
	t.Chdir(dir)

	_, _, err := run(t, "-c", cfg, "--store", "file", "role", "create", "editor")
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "roles.toml"))
	require.NoError(t, err)
	require.Contains(t, string(data), "[[roles]]")
	require.Contains(t, string(data), "editor")

	_, err = os.Stat(filepath.Join(dir, "rolectl.db"))
	require.True(t, os.IsNotExist(err))
}

func TestMemoryStoreWarnsItDoesNotPersist(t *testing.T) {
	cfg := writeConfig(t, "")

	_, stderr, err := run(t, "-c", cfg, "--store", "memory", "role", "create", "editor")
	require.NoError(t, err)
	require.Contains(t, stderr, "memory store is discarded when the command exits")
	require.Contains(t, stderr, `[success] Created "editor"`)
}

func TestVersionCmd(t *testing.T) {
	stdout, _, err := run(t, "version")
	require.NoError(t, err)
	require.Contains(t, stdout, "rolectl dev")
}
