package admin

import (
	"fmt"

	"github.com/cloo-solutions/hackscout/internal/cli"
	"github.com/cloo-solutions/hackscout/internal/config"
	"github.com/cloo-solutions/hackscout/internal/domain"
	"github.com/spf13/cobra"
)

func PostCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "post",
		Short:   "Draft an event post",
		Long:    "Draft a social post about an event from the result of a previous analyze run",
		Example: "hackscoutd post --event \"Spring Hack 2026\" --input result.json",
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return cli.ValidateFlagEnums(cmd)
		},
		RunE: runPost,
	}

	cmd.Flags().StringP("event", "e", "", "Event name")
	cmd.Flags().StringP("input", "i", "", "Analysis result JSON file")
	cmd.Flags().String("experience", "", "A few words about your own experience at the event")
	cmd.Flags().StringP("output", "o", "text", "Output format (text or json)")
	_ = cli.SetFlagEnum(cmd, "output", "text", "json")
	_ = cmd.MarkFlagRequired("event")
	_ = cmd.MarkFlagRequired("input")

	return cmd
}

func runPost(cmd *cobra.Command, args []string) error {
	eventName, _ := cmd.Flags().GetString("event")
	inputPath, _ := cmd.Flags().GetString("input")
	experience, _ := cmd.Flags().GetString("experience")
	outputFormat, _ := cmd.Flags().GetString("output")

	var result domain.AnalysisResult
	if err := readJSONFile(inputPath, &result); err != nil {
		return err
	}

	top := result.HeavyHitters
	if len(top) == 0 {
		top = result.Participants
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	post, err := newPipeline(cfg).GeneratePost(cmd.Context(), eventName, top, experience)
	if err != nil {
		return fmt.Errorf("failed to generate post: %w", err)
	}

	if outputFormat == "json" {
		return printJSON(cmd, map[string]string{"post": post})
	}
	fmt.Fprintln(cmd.OutOrStdout(), post)
	return nil
}
