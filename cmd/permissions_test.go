package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPermissionsCmd_HasSubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range permissionsCmd.Commands() {
		names[c.Name()] = true
	}

	for _, name := range []string{"list", "validate"} {
		if !names[name] {
			t.Errorf("permissionsCmd missing subcommand %q", name)
		}
	}
}

func writePermissionsFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "node.permissions.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestPermissionsList(t *testing.T) {
	permsFile := writePermissionsFile(t, `
administer nodes:
  title: 'Administer content'
  restrict access: true
`)
	cfg := writeConfig(t, fmt.Sprintf("[permissions]\nnames = [\"access content\"]\nfiles = [%q]\n", permsFile))

	stdout, _, err := run(t, "-c", cfg, "permissions", "list")
	require.NoError(t, err)
	require.Equal(t,
		"NAME              TITLE               RESTRICTED\n"+
			"----              -----               ----------\n"+
			"access content    access content      no\n"+
			"administer nodes  Administer content  yes\n",
		stdout)

	stdout, _, err = run(t, "-c", cfg, "perms", "list", "--format", "json")
	require.NoError(t, err)
	require.Contains(t, stdout, `"name": "administer nodes"`)
	require.Contains(t, stdout, `"restrictAccess": true`)
}

func TestPermissionsList_NoneConfigured(t *testing.T) {
	cfg := writeConfig(t, "")

	stdout, _, err := run(t, "-c", cfg, "permissions", "list")
	require.NoError(t, err)
	require.Contains(t, stdout, "No permissions configured")
}

func TestPermissionsValidate(t *testing.T) {
	good := writePermissionsFile(t, "access content:\n  title: 'View published content'\n")
	bad := writePermissionsFile(t, "post, comments:\n  title: 'Post comments'\n")

	stdout, _, err := run(t, "permissions", "validate", good)
	require.NoError(t, err)
	require.Equal(t, good+": valid\n", stdout)

	stdout, _, err = run(t, "permissions", "validate", good, bad)
	require.Error(t, err)
	require.Equal(t, "validation failed for 1 of 2 file(s)", err.Error())
	require.Contains(t, stdout, "must not contain a comma")

	_, _, err = run(t, "permissions", "validate", filepath.Join(t.TempDir(), "missing.yml"))
	require.Error(t, err)
}
