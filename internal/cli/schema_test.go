package cli

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSchema(t *testing.T) {
	root := &cobra.Command{Use: "hackscoutd", Short: "root"}
	AddHelpJSONFlag(root)

	analyze := &cobra.Command{Use: "analyze", Short: "Analyze a participant list", Run: func(*cobra.Command, []string) {}}
	analyze.Flags().StringP("input", "i", "", "Participant list JSON file")
	analyze.Flags().Int("team-size", 0, "Target team size")
	require.NoError(t, analyze.MarkFlagRequired("input"))
	root.AddCommand(analyze)

	schema := GenerateSchema(root)

	assert.Equal(t, "hackscoutd", schema.Name)
	require.Len(t, schema.Subcommands, 1)
	sub := schema.Subcommands[0]
	assert.Equal(t, "analyze", sub.Name)
	require.Len(t, sub.Flags, 2)

	byName := map[string]FlagSchema{}
	for _, f := range sub.Flags {
		byName[f.Name] = f
	}
	assert.Equal(t, "i", byName["input"].Shorthand)
	assert.Equal(t, "string", byName["input"].Type)
	assert.True(t, byName["input"].Required)
	assert.False(t, byName["team-size"].Required)
	assert.Equal(t, "int", byName["team-size"].Type)
	assert.Equal(t, "0", byName["team-size"].Default)
}

func TestFindTargetCommand(t *testing.T) {
	root := &cobra.Command{Use: "hackscoutd"}
	post := &cobra.Command{Use: "post", Aliases: []string{"p"}}
	root.AddCommand(post)

	assert.Equal(t, post, findTargetCommand(root, []string{"post"}))
	assert.Equal(t, post, findTargetCommand(root, []string{"p"}))
	assert.Equal(t, root, findTargetCommand(root, []string{"unknown"}))
}

func TestFlagEnum(t *testing.T) {
	cmd := &cobra.Command{Use: "post", Run: func(*cobra.Command, []string) {}}
	cmd.Flags().StringP("output", "o", "text", "Output format")
	require.NoError(t, SetFlagEnum(cmd, "output", "text", "json"))

	schema := GenerateSchema(cmd)
	require.Len(t, schema.Flags, 1)
	assert.Equal(t, []string{"text", "json"}, schema.Flags[0].Enum)

	assert.NoError(t, ValidateFlagEnums(cmd))

	require.NoError(t, cmd.Flags().Set("output", "json"))
	assert.NoError(t, ValidateFlagEnums(cmd))

	require.NoError(t, cmd.Flags().Set("output", "yaml"))
	err := ValidateFlagEnums(cmd)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--output")
}

func TestHelpJSONTarget(t *testing.T) {
	root := &cobra.Command{Use: "hackscoutd"}
	analyze := &cobra.Command{Use: "analyze"}
	root.AddCommand(analyze)

	_, ok := helpJSONTarget(root, []string{"analyze", "--input", "x.json"})
	assert.False(t, ok)

	target, ok := helpJSONTarget(root, []string{"analyze", "--help-json"})
	require.True(t, ok)
	assert.Equal(t, analyze, target)

	target, ok = helpJSONTarget(root, []string{"--help-json"})
	require.True(t, ok)
	assert.Equal(t, root, target)
}
