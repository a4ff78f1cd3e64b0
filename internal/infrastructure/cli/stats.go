package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/crisislab/revq/internal/domain/analytics"
	"github.com/crisislab/revq/internal/infrastructure/storage"
	"github.com/crisislab/revq/internal/infrastructure/watch"
	"github.com/crisislab/revq/internal/infrastructure/wiring"
)

var (
	statsJSON  bool
	statsWatch bool
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show label distribution, agreement and confusion for the session",
	Long: `Show label distribution, agreement and confusion for the session.

With --watch the report re-renders whenever another session changes the
workspace, so a second terminal can track review progress live.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := getWorkspaceRoot()
		if err != nil {
			return err
		}
		services, err := loadServices(root)
		if err != nil {
			return err
		}
		defer services.Close()

		report, err := services.Analytics.Report()
		if err != nil {
			return MapError(fmt.Errorf("failed to compute stats: %w", err))
		}

		if statsJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(report)
		}

		fmt.Print(renderReport(report))

		if !statsWatch || os.Getenv("REVQ_WATCH_ONCE") == "true" {
			return nil
		}

		fmt.Println("\nWatching for changes... (ctrl+c to stop)")
		watcher := watch.New(
			filepath.Join(root, storage.RevqDir),
			[]string{storage.ResultsFile, storage.QueueFile},
			0,
			func(string) { rerenderStats(services) },
		)
		return watcher.Run(cmd.Context())
	},
}

func init() {
	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "Output in JSON format")
	statsCmd.Flags().BoolVar(&statsWatch, "watch", false, "Re-render when the workspace changes")
	RootCmd.AddCommand(statsCmd)
}

func rerenderStats(services *wiring.AppServices) {
	report, err := services.Analytics.Report()
	if err != nil {
		fmt.Printf("Warning: failed to recompute stats: %v\n", err)
		return
	}
	fmt.Print("\033[H\033[2J")
	fmt.Print(renderReport(report))
	fmt.Println("\nWatching for changes... (ctrl+c to stop)")
}

func renderReport(r analytics.Report) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Label distribution (%d verdicts, %d skipped)\n", r.Distribution.Total, r.Distribution.Skipped)
	max := r.Distribution.Max()
	for _, c := range r.Distribution.Counts {
		bar := ""
		if max > 0 {
			bar = renderBar(float64(c.Count)/float64(max), 20)
		}
		fmt.Fprintf(&b, "  %-5s %s %4d  %5.1f%%\n", c.Label, bar, c.Count, r.Distribution.Share(c.Label)*100)
	}

	b.WriteString("\n")
	if rate, ok := r.Agreement.Rate(); ok {
		fmt.Fprintf(&b, "Agreement: %.1f%% (%d of %d comparable)\n",
			rate*100, r.Agreement.Agreements, r.Agreement.Comparable)
	} else {
		b.WriteString("Agreement: no comparable records yet\n")
	}
	if r.FocusLabel != "" {
		if rate, ok := r.FocusAgreement.Rate(); ok {
			fmt.Fprintf(&b, "%s agreement: %.1f%% (%d of %d)\n",
				r.FocusLabel, rate*100, r.FocusAgreement.Agreements, r.FocusAgreement.Comparable)
		} else {
			fmt.Fprintf(&b, "%s agreement: no comparable records yet\n", r.FocusLabel)
		}
	}

	if r.Confusion.Total() > 0 {
		b.WriteString("\nConfusion (rows model, columns human):\n")
		b.WriteString("      ")
		for _, l := range r.Labels {
			fmt.Fprintf(&b, "%6s", l)
		}
		b.WriteString("\n")
		for _, model := range r.Labels {
			fmt.Fprintf(&b, "  %-4s", model)
			for _, human := range r.Labels {
				fmt.Fprintf(&b, "%6d", r.Confusion.Cell(model, human))
			}
			b.WriteString("\n")
		}
	}

	if len(r.Disagreements) > 0 {
		b.WriteString("\nTop disagreements:\n")
		for i, d := range r.Disagreements {
			if i >= 5 {
				break
			}
			fmt.Fprintf(&b, "  model %s, human %s: %d\n", d.ModelLabel, d.HumanLabel, d.Count)
		}
	}

	if r.Text.Records > 0 {
		fmt.Fprintf(&b, "\nText length: mean %.1f tokens, median %.1f\n", r.Text.MeanTokens, r.Text.MedianTokens)
	}

	return b.String()
}
