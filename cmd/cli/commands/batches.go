package commands

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/vocalis-ai/vocalis/internal/types"
)

// GetBatchesCmd returns the batches command group
func GetBatchesCmd() *cobra.Command {
	batchesCmd := &cobra.Command{
		Use:   "batches",
		Short: "Manage persisted benchmark batches",
	}

	batchesCmd.AddCommand(createBatchCmd())
	batchesCmd.AddCommand(listBatchesCmd())
	batchesCmd.AddCommand(getBatchCmd())
	batchesCmd.AddCommand(startBatchCmd())
	batchesCmd.AddCommand(pauseBatchCmd())
	batchesCmd.AddCommand(batchResultsCmd())

	return batchesCmd
}

func createBatchCmd() *cobra.Command {
	var (
		name       string
		casesFile  string
		providers  []string
		batchCount int
		retryCount int
		speed      float64
		language   string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a draft batch from a file of test case texts (one per line)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cases, err := readCases(casesFile)
			if err != nil {
				return err
			}

			selections := make(map[string]types.ProviderSelection, len(providers))
			for _, id := range providers {
				selections[id] = types.ProviderSelection{Enabled: true}
			}

			batch, err := apiClient.CreateBatch(cmd.Context(), types.CreateBatchRequest{
				Name:       name,
				Cases:      cases,
				Providers:  selections,
				BatchCount: batchCount,
				RetryCount: retryCount,
				Speed:      speed,
				Language:   language,
			})
			if err != nil {
				return fmt.Errorf("failed to create batch: %w", err)
			}

			fmt.Printf("Created batch %d (%d test cases, %d planned attempts)\n",
				batch.ID, batch.TotalCases, batch.TotalPlanned)
			return nil
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "Batch name (required)")
	cmd.Flags().StringVarP(&casesFile, "cases", "c", "", "Path to a file with one test case text per line (required)")
	cmd.Flags().StringSliceVarP(&providers, "providers", "p", nil, "Provider IDs to enable (required)")
	cmd.Flags().IntVarP(&batchCount, "batch-count", "b", 1, "Repeat runs per provider (1-10)")
	cmd.Flags().IntVarP(&retryCount, "retry-count", "r", 1, "Attempts per provider call")
	cmd.Flags().Float64Var(&speed, "speed", 1.0, "Synthesis speed")
	cmd.Flags().StringVarP(&language, "language", "l", "en", "Synthesis language")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("cases")
	_ = cmd.MarkFlagRequired("providers")

	return cmd
}

func listBatchesCmd() *cobra.Command {
	var (
		limit  int
		offset int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List batches",
		RunE: func(cmd *cobra.Command, _ []string) error {
			batches, err := apiClient.ListBatches(cmd.Context(), limit, offset)
			if err != nil {
				return fmt.Errorf("failed to list batches: %w", err)
			}
			return printJSON(batches)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 10, "Number of batches to return")
	cmd.Flags().IntVar(&offset, "offset", 0, "Number of batches to skip")

	return cmd
}

func getBatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <batch-id>",
		Short: "Show a batch and its rollup counters",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseBatchID(args[0])
			if err != nil {
				return err
			}
			batch, err := apiClient.GetBatch(cmd.Context(), id)
			if err != nil {
				return fmt.Errorf("failed to get batch: %w", err)
			}
			return printJSON(batch)
		},
	}
}

func startBatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "start <batch-id>",
		Short: "Start or resume a batch execution",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseBatchID(args[0])
			if err != nil {
				return err
			}
			batch, err := apiClient.StartBatch(cmd.Context(), id)
			if err != nil {
				return fmt.Errorf("failed to start batch: %w", err)
			}
			fmt.Printf("Batch %d is %s\n", batch.ID, batch.Status)
			return nil
		},
	}
}

func pauseBatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pause <batch-id>",
		Short: "Request a running batch to pause at the next test case",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseBatchID(args[0])
			if err != nil {
				return err
			}
			if err := apiClient.PauseBatch(cmd.Context(), id); err != nil {
				return fmt.Errorf("failed to pause batch: %w", err)
			}
			fmt.Printf("Pause requested for batch %d\n", id)
			return nil
		},
	}
}

func batchResultsCmd() *cobra.Command {
	var (
		limit  int
		offset int
		purge  bool
	)

	cmd := &cobra.Command{
		Use:   "results <batch-id>",
		Short: "List (or delete with --purge) the results of a batch",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseBatchID(args[0])
			if err != nil {
				return err
			}

			if purge {
				if err := apiClient.DeleteBatchResults(cmd.Context(), id); err != nil {
					return fmt.Errorf("failed to delete results: %w", err)
				}
				fmt.Printf("Deleted results for batch %d\n", id)
				return nil
			}

			results, err := apiClient.GetBatchResults(cmd.Context(), id, limit, offset)
			if err != nil {
				return fmt.Errorf("failed to get results: %w", err)
			}
			return printJSON(results)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 50, "Number of results to return")
	cmd.Flags().IntVar(&offset, "offset", 0, "Number of results to skip")
	cmd.Flags().BoolVar(&purge, "purge", false, "Delete all stored results instead of listing them")

	return cmd
}

func readCases(path string) ([]types.TestCaseInput, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open cases file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var cases []types.TestCaseInput
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		cases = append(cases, types.TestCaseInput{Text: line})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read cases file: %w", err)
	}
	return cases, nil
}

func parseBatchID(arg string) (uint, error) {
	id, err := strconv.ParseUint(arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid batch id %q", arg)
	}
	return uint(id), nil
}

func printJSON(v interface{}) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
