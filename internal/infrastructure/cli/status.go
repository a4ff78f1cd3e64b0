package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/crisislab/revq/internal/application"
)

var statusJSON bool

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show a high-level summary of the workspace state",
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := loadServicesForCurrentDir()
		if err != nil {
			return err
		}
		defer services.Close()

		status, err := services.Review.Status()
		if err != nil {
			return MapError(fmt.Errorf("failed to load status: %w", err))
		}

		if statusJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(status)
		}

		return outputStatusText(status)
	},
}

func outputStatusText(status application.Status) error {
	if !status.Initialized {
		fmt.Println("No revq workspace here. Run 'revq init' to create one.")
		return nil
	}

	fmt.Printf("Labels:      %s\n", strings.Join(status.Labels, ", "))
	fmt.Printf("Skip policy: %s\n", status.SkipPolicy)

	if !status.HasQueue {
		fmt.Println("Queue:       none yet. Run 'revq ingest <annotated.json>'.")
		return nil
	}

	p := status.Progress
	fmt.Printf("Queue:       %d pending (revision %d)\n", p.Pending, status.QueueRevision)
	fmt.Printf("Results:     %d reviewed, %d skipped (revision %d)\n", p.Reviewed, p.Skipped, status.ResultsRevision)
	if p.Total > 0 {
		fmt.Printf("\nProgress: %.1f%% (%d/%d records handled)  %s\n",
			p.Fraction*100, p.Reviewed+p.Skipped, p.Total, renderBar(p.Fraction, 24))
	}

	if status.LastAction != "" {
		fmt.Printf("\nLast action: %s at %s\n", status.LastAction, status.LastActionAt.Format(time.RFC822))
	}
	fmt.Println("\nAudit trail: .revq/events.jsonl")
	return nil
}

func init() {
	statusCmd.Flags().BoolVar(&statusJSON, "json", false, "Output in JSON format")
	RootCmd.AddCommand(statusCmd)
}
