package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/crisislab/revq/internal/domain/review"
)

var ingestJSON bool

var ingestCmd = &cobra.Command{
	Use:   "ingest <annotated.json>",
	Short: "Build the review queue from a model-annotated dataset",
	Long: `Build the review queue from a model-annotated dataset.

The input is a JSON array of records carrying the model's label and
confidence. Records are flagged for review when the model errored, when
confidence falls below the configured threshold, or as a seeded spot
check of crisis-label predictions. Already-reviewed records are left
out; the rest replace the current queue.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := loadServicesForCurrentDir()
		if err != nil {
			return err
		}
		defer services.Close()

		report, err := services.Ingest.Ingest(args[0])
		if err != nil {
			return MapError(fmt.Errorf("failed to ingest %s: %w", args[0], err))
		}

		if ingestJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(report)
		}

		fmt.Printf("Ingested %s: %d of %d records queued for review\n", args[0], report.Queued, report.Input)
		for _, reason := range []string{review.ReasonModelError, review.ReasonLowConfidence, review.ReasonCrisisSample} {
			if n := report.ByReason[reason]; n > 0 {
				fmt.Printf("  %-16s %d\n", reason+":", n)
			}
		}
		if report.Excluded > 0 {
			fmt.Printf("  already reviewed, excluded: %d\n", report.Excluded)
		}
		if report.IDsAssigned > 0 {
			fmt.Printf("  ids assigned: %d (freeze needs ids in the source file)\n", report.IDsAssigned)
		}
		fmt.Println("\nNext: revq review")
		return nil
	},
}

func init() {
	ingestCmd.Flags().BoolVar(&ingestJSON, "json", false, "Output in JSON format")
	RootCmd.AddCommand(ingestCmd)
}
