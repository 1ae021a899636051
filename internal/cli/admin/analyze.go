package admin

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/cloo-solutions/hackscout/internal/config"
	"github.com/cloo-solutions/hackscout/internal/domain"
	"github.com/cloo-solutions/hackscout/internal/service"
	"github.com/cloo-solutions/hackscout/internal/telemetry"
	"github.com/spf13/cobra"
)

func AnalyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze a participant list",
		Long: `Enrich, rank and match the participants in a JSON file.

The input is either an array of participants or an object with a
"participants" array. Each participant needs a "name" and may carry
"company", "linkedin_url" and inline "profile_data". The aggregate result
is printed to stdout as JSON; progress goes to stderr.`,
		RunE: runAnalyze,
	}

	cmd.Flags().StringP("input", "i", "", "Participant list JSON file")
	cmd.Flags().StringP("user", "u", "", "Your own participant JSON file, for similarity matching")
	cmd.Flags().Int("team-size", 0, "Target team size (default from config)")
	cmd.Flags().BoolP("quiet", "q", false, "Suppress progress output")
	_ = cmd.MarkFlagRequired("input")

	return cmd
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	inputPath, _ := cmd.Flags().GetString("input")
	userPath, _ := cmd.Flags().GetString("user")
	teamSize, _ := cmd.Flags().GetInt("team-size")
	quiet, _ := cmd.Flags().GetBool("quiet")

	if teamSize < 0 {
		return domain.ErrInvalidTeamSize
	}

	participants, err := readParticipants(inputPath)
	if err != nil {
		return err
	}

	var user *domain.Participant
	if userPath != "" {
		user = &domain.Participant{}
		if err := readJSONFile(userPath, user); err != nil {
			return err
		}
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	var onProgress service.ProgressFunc
	if !quiet {
		stderr := cmd.ErrOrStderr()
		onProgress = func(p domain.AnalysisProgress) {
			fmt.Fprintf(stderr, "[%3.0f%%] %s: %s\n", p.Progress*100, p.Stage, p.Message)
		}
	}

	ctx, span := telemetry.StartTransaction(cmd.Context(), "hackscoutd analyze", "cli")
	defer span.End()

	result, err := newPipeline(cfg).Run(ctx, service.RunInput{
		Participants: participants,
		UserProfile:  user,
		TeamSize:     teamSize,
		OnProgress:   onProgress,
	})
	if err != nil {
		span.SetError(err)
		return fmt.Errorf("analysis failed: %w", err)
	}

	return printJSON(cmd, result)
}

// readParticipants accepts a bare array or an object with a participants key.
func readParticipants(path string) ([]domain.RawParticipant, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var list []domain.RawParticipant
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
		return list, nil
	}

	var wrapped struct {
		Participants []domain.RawParticipant `json:"participants"`
	}
	if err := json.Unmarshal(trimmed, &wrapped); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return wrapped.Participants, nil
}

func readJSONFile(path string, out interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

func printJSON(cmd *cobra.Command, v interface{}) error {
	output, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(output))
	return nil
}
