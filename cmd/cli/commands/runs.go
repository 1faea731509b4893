package commands

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/vocalis-ai/vocalis/internal/types"
)

// GetRunsCmd returns the runs command group
func GetRunsCmd() *cobra.Command {
	runsCmd := &cobra.Command{
		Use:   "runs",
		Short: "Manage ad-hoc benchmark runs",
	}

	runsCmd.AddCommand(createRunCmd())
	runsCmd.AddCommand(watchRunCmd())

	return runsCmd
}

func createRunCmd() *cobra.Command {
	var (
		text       string
		providers  []string
		batchCount int
		retryCount int
		speed      float64
		language   string
		watch      bool
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an ad-hoc run fanning one text out to providers",
		RunE: func(cmd *cobra.Command, _ []string) error {
			selections := make(map[string]types.ProviderSelection, len(providers))
			for _, id := range providers {
				selections[id] = types.ProviderSelection{Enabled: true}
			}

			resp, err := apiClient.CreateRun(cmd.Context(), types.RunRequest{
				Text:       text,
				Providers:  selections,
				BatchCount: batchCount,
				RetryCount: retryCount,
				Speed:      speed,
				Language:   language,
			})
			if err != nil {
				return fmt.Errorf("failed to create run: %w", err)
			}

			fmt.Printf("Created job %s (total %d)\n", resp.JobID, resp.Total)
			if watch {
				return pollRun(cmd, resp.JobID)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&text, "text", "t", "", "Text to synthesize (required)")
	cmd.Flags().StringSliceVarP(&providers, "providers", "p", nil, "Provider IDs to enable (required)")
	cmd.Flags().IntVarP(&batchCount, "batch-count", "b", 1, "Repeat runs per provider (1-10)")
	cmd.Flags().IntVarP(&retryCount, "retry-count", "r", 1, "Attempts per provider call")
	cmd.Flags().Float64Var(&speed, "speed", 1.0, "Synthesis speed")
	cmd.Flags().StringVarP(&language, "language", "l", "en", "Synthesis language")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Poll progress until the job finishes")
	_ = cmd.MarkFlagRequired("text")
	_ = cmd.MarkFlagRequired("providers")

	return cmd
}

func watchRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch <job-id>",
		Short: "Poll a job's progress until it finishes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return pollRun(cmd, args[0])
		},
	}
}

// pollRun advances a cursor over the job's results until a terminal status
// is observed, printing each new result as it arrives.
func pollRun(cmd *cobra.Command, jobID string) error {
	cursor := 0
	for {
		progress, err := apiClient.GetRunProgress(cmd.Context(), jobID, cursor, false)
		if err != nil {
			return fmt.Errorf("failed to poll job %s: %w", jobID, err)
		}

		newResults := progress.ResultsDelta
		if progress.Status.IsTerminal() {
			// Terminal polls return the full sequence; print only what we
			// have not seen yet.
			if cursor < len(progress.Results) {
				newResults = progress.Results[cursor:]
			} else {
				newResults = nil
			}
		}

		for _, result := range newResults {
			out, err := json.MarshalIndent(result, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(out))
		}
		cursor += len(newResults)

		fmt.Printf("status=%s completed=%d failed=%d percentage=%d%%\n",
			progress.Status, progress.Completed, progress.Failed, progress.Percentage)

		if progress.Status.IsTerminal() {
			if progress.Error != "" {
				return fmt.Errorf("job failed: %s", progress.Error)
			}
			return nil
		}

		time.Sleep(time.Second)
	}
}
