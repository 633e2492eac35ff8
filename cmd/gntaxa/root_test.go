package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func findCmd(t *testing.T, root *cobra.Command, name string) *cobra.Command {
	t.Helper()
	for _, c := range root.Commands() {
		if c.Name() == name {
			return c
		}
	}
	return nil
}

// TestRootCommand_HasSubcommands verifies root command structure
func TestRootCommand_HasSubcommands(t *testing.T) {
	cmd := getRootCmd()
	require.NotNil(t, cmd, "Root command should exist")

	for _, name := range []string{
		"taxon", "children", "ancestors", "lca", "distance",
		"subtree", "search", "summary", "schema", "load",
		"optimize", "fetch",
	} {
		assert.NotNil(t, findCmd(t, cmd, name),
			"%s subcommand should exist", name)
	}
}

// TestRootCommand_PersistentFlags verifies persistent flags are inherited
func TestRootCommand_PersistentFlags(t *testing.T) {
	cmd := getRootCmd()

	configFlag := cmd.PersistentFlags().Lookup("config")
	require.NotNil(t, configFlag, "--config flag should exist")
	assert.Equal(t, "string", configFlag.Value.Type())

	backendFlag := cmd.PersistentFlags().Lookup("backend")
	require.NotNil(t, backendFlag, "--backend flag should exist")
	assert.Equal(t, "sqlite", backendFlag.DefValue,
		"sqlite should be the default backend")

	taxonCmd := findCmd(t, cmd, "taxon")
	require.NotNil(t, taxonCmd)
	assert.NotNil(t, taxonCmd.InheritedFlags().Lookup("backend"),
		"taxon should inherit --backend flag")
}

// TestRootCommand_Help verifies help text includes usage
func TestRootCommand_Help(t *testing.T) {
	cmd := getRootCmd()

	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--help"})
	err := cmd.Execute()
	require.NoError(t, err)

	helpText := buf.String()
	assert.Contains(t, helpText, "gntaxa")
	assert.Contains(t, helpText, "expanded_taxa")
	assert.Contains(t, helpText, "Available Commands")
}

// TestRootCommand_VersionFlag verifies --version flag
func TestRootCommand_VersionFlag(t *testing.T) {
	cmd := getRootCmd()
	cmd.Version = "test-version"

	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--version"})
	err := cmd.Execute()
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "test-version")
}

// TestRootCommand_ValidArgs verifies unknown subcommands are rejected
func TestRootCommand_ValidArgs(t *testing.T) {
	cmd := getRootCmd()

	buf := new(bytes.Buffer)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"invalid-arg"})
	err := cmd.Execute()

	assert.Error(t, err, "Root command should reject invalid arguments")
	errOutput := buf.String()
	assert.True(t,
		strings.Contains(errOutput, "unknown") ||
			strings.Contains(errOutput, "invalid"),
		"Error should mention unknown or invalid command")
}

// TestSchemaCreateCommand_HasForceFlag verifies schema create --force
func TestSchemaCreateCommand_HasForceFlag(t *testing.T) {
	cmd := getRootCmd()

	schemaCmd := findCmd(t, cmd, "schema")
	require.NotNil(t, schemaCmd)
	createCmd := findCmd(t, schemaCmd, "create")
	require.NotNil(t, createCmd, "schema create subcommand should exist")

	forceFlag := createCmd.Flags().Lookup("force")
	require.NotNil(t, forceFlag, "--force flag should exist")
	assert.Equal(t, "bool", forceFlag.Value.Type())
}

// TestSearchCommand_Flags verifies search flag surface
func TestSearchCommand_Flags(t *testing.T) {
	cmd := getRootCmd()
	searchCmd := findCmd(t, cmd, "search")
	require.NotNil(t, searchCmd)

	for _, name := range []string{
		"limit", "threshold", "fuzzy", "match", "scope", "rank",
	} {
		assert.NotNil(t, searchCmd.Flags().Lookup(name),
			"search should have --%s flag", name)
	}
}

func TestParseIDs(t *testing.T) {
	ids, err := parseIDs([]string{"47219", "54327"})
	require.NoError(t, err)
	assert.Equal(t, []int{47219, 54327}, ids)

	_, err = parseIDs([]string{"not-a-number"})
	assert.Error(t, err)
}
