package cmd

import (
	"testing"
)

func TestRoleCmd_Initialized(t *testing.T) {
	if roleCmd == nil {
		t.Fatal("roleCmd is nil")
	}

	if roleCmd.Use != "role" {
		t.Errorf("roleCmd.Use = %q, want %q", roleCmd.Use, "role")
	}

	if roleCmd.Short == "" {
		t.Error("roleCmd.Short should not be empty")
	}

	if roleCmd.Long == "" {
		t.Error("roleCmd.Long should not be empty")
	}
}

func TestRoleCmd_HasSubcommands(t *testing.T) {
	subcommands := roleCmd.Commands()

	if len(subcommands) != 5 {
		t.Errorf("roleCmd has %d subcommands, want 5", len(subcommands))
	}

	subcommandNames := make(map[string]bool)
	for _, cmd := range subcommands {
		subcommandNames[cmd.Name()] = true
	}

	expectedSubcommands := []string{"create", "delete", "get", "list", "perm"}
	for _, name := range expectedSubcommands {
		if !subcommandNames[name] {
			t.Errorf("roleCmd missing subcommand %q", name)
		}
	}
}

func TestRolePermCmd_HasSubcommands(t *testing.T) {
	subcommandNames := make(map[string]bool)
	for _, cmd := range rolePermCmd.Commands() {
		subcommandNames[cmd.Name()] = true
	}

	for _, name := range []string{"add", "remove"} {
		if !subcommandNames[name] {
			t.Errorf("rolePermCmd missing subcommand %q", name)
		}
	}
}

func TestRoleCreateCmd_Initialized(t *testing.T) {
	if roleCreateCmd.Use != "create <machine-name> [<label>]" {
		t.Errorf("roleCreateCmd.Use = %q", roleCreateCmd.Use)
	}

	if roleCreateCmd.Args == nil {
		t.Error("roleCreateCmd should have Args validator")
	}

	if err := roleCreateCmd.Args(roleCreateCmd, []string{}); err == nil {
		t.Error("roleCreateCmd should require a machine name")
	}
	if err := roleCreateCmd.Args(roleCreateCmd, []string{"a", "A", "extra"}); err == nil {
		t.Error("roleCreateCmd should reject more than two arguments")
	}
}

func TestRoleListCmd_Initialized(t *testing.T) {
	if roleListCmd.Use != "list" {
		t.Errorf("roleListCmd.Use = %q, want %q", roleListCmd.Use, "list")
	}

	if roleListCmd.Flags().Lookup("filter") == nil {
		t.Error("roleListCmd should have 'filter' flag")
	}

	formatFlag := roleListCmd.Flags().Lookup("format")
	if formatFlag == nil {
		t.Fatal("roleListCmd should have 'format' flag")
	}
	if formatFlag.Shorthand != "f" {
		t.Errorf("format flag shorthand = %q, want %q", formatFlag.Shorthand, "f")
	}
}

func TestRolePermCmds_RequireTwoArgs(t *testing.T) {
	if err := rolePermAddCmd.Args(rolePermAddCmd, []string{"editor"}); err == nil {
		t.Error("rolePermAddCmd should require two arguments")
	}
	if err := rolePermRemoveCmd.Args(rolePermRemoveCmd, []string{"editor"}); err == nil {
		t.Error("rolePermRemoveCmd should require two arguments")
	}
}

func TestValidRoleIDPattern(t *testing.T) {
	validIDs := []string{
		"test_role",
		"content_editor",
		"administrator",
		"team123",
		"my-role-1",
		"ROLE_NAME",
		"demo-service.admin",
	}

	for _, id := range validIDs {
		if !validRoleIDPattern.MatchString(id) {
			t.Errorf("validRoleIDPattern should match %q", id)
		}
	}

	invalidIDs := []string{
		"../path-traversal",
		"role/name",
		"role name",
		"role@name",
		"",
	}

	for _, id := range invalidIDs {
		if validRoleIDPattern.MatchString(id) {
			t.Errorf("validRoleIDPattern should not match %q", id)
		}
	}
}
