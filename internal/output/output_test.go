package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/aussie/rolectl/internal/role"
)

func testRoles() []role.Role {
	return []role.Role{
		{ID: "anonymous", Label: "Anonymous user", Permissions: role.NewPermissionSet("access content")},
		{ID: "editor", Label: "Editor", Permissions: role.NewPermissionSet("post comments", "access content", "administer nodes")},
		{ID: "empty", Label: "Empty", Permissions: role.PermissionSet{}},
	}
}

func TestParseFormat(t *testing.T) {
	for _, in := range []string{"table", "YAML", " json "} {
		_, err := ParseFormat(in)
		require.NoError(t, err, in)
	}
	_, err := ParseFormat("csv")
	require.EqualError(t, err, `unknown format "csv": must be one of table, yaml, json`)
}

func TestWriteRoles_Table(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteRoles(&buf, testRoles(), FormatTable))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 5)
	require.True(t, strings.HasPrefix(lines[0], "ID"))
	require.Contains(t, lines[0], "PERMISSIONS")
	require.Contains(t, lines[3], "access content, administer nodes, post comments")
	require.True(t, strings.HasSuffix(lines[4], "-"))
}

func TestWriteRoles_TableEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteRoles(&buf, nil, FormatTable))
	require.Equal(t, "No roles found.\n", buf.String())
}

func TestWriteRoles_JSONKeepsOrder(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteRoles(&buf, testRoles(), FormatJSON))

	out := buf.String()
	require.Less(t, strings.Index(out, `"anonymous"`), strings.Index(out, `"editor"`))
	require.Less(t, strings.Index(out, `"editor"`), strings.Index(out, `"empty"`))

	var decoded map[string]roleView
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Equal(t, "Editor", decoded["editor"].Label)
	require.Equal(t, []string{"access content", "administer nodes", "post comments"}, decoded["editor"].Permissions)
	require.Equal(t, []string{}, decoded["empty"].Permissions)
}

func TestWriteRoles_YAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteRoles(&buf, testRoles(), FormatYAML))

	out := buf.String()
	require.True(t, strings.HasPrefix(out, "anonymous:\n"), out)
	require.Contains(t, out, "  label: Editor\n")
	require.Contains(t, out, "    - post comments\n")

	var decoded map[string]roleView
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 3)
	require.Equal(t, []string{"access content"}, decoded["anonymous"].Permissions)
}

func TestWriteRoles_YAMLQuotesAmbiguousIDs(t *testing.T) {
	roles := []role.Role{
		{ID: "123", Label: "Numbers", Permissions: role.PermissionSet{}},
		{ID: "null", Label: "Nobody", Permissions: role.PermissionSet{}},
		{ID: "true", Label: "Truthy", Permissions: role.NewPermissionSet("access content")},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteRoles(&buf, roles, FormatYAML))

	var decoded map[string]roleView
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 3)
	require.Equal(t, "Numbers", decoded["123"].Label)
	require.Equal(t, "Nobody", decoded["null"].Label)
	require.Equal(t, []string{"access content"}, decoded["true"].Permissions)

	var generic map[interface{}]interface{}
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &generic))
	for key := range generic {
		require.IsType(t, "", key)
	}
}

func TestWriteRoles_EmptyStructured(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteRoles(&buf, nil, FormatJSON))
	require.Equal(t, "{}\n", buf.String())

	buf.Reset()
	require.NoError(t, WriteRoles(&buf, nil, FormatYAML))
	require.Equal(t, "{}\n", buf.String())
}

func TestWriteRole_Detail(t *testing.T) {
	r := testRoles()[1]
	r.CreatedAt = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	var buf bytes.Buffer
	require.NoError(t, WriteRole(&buf, r, FormatTable))
	out := buf.String()
	require.Contains(t, out, "ID:           editor\n")
	require.Contains(t, out, "Permissions:  access content, administer nodes, post comments\n")
	require.Contains(t, out, "Created:      2024-03-01T12:00:00Z\n")
	require.NotContains(t, out, "Updated:")

	buf.Reset()
	require.NoError(t, WriteRole(&buf, testRoles()[2], FormatTable))
	require.Contains(t, buf.String(), "Permissions:  (none)\n")
}

func TestNotifier(t *testing.T) {
	var buf bytes.Buffer
	n := &Notifier{W: &buf}
	n.Success(`Created "editor"`)
	require.Equal(t, "[success] Created \"editor\"\n", buf.String())
}
