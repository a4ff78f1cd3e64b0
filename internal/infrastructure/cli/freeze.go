package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var freezeOutput string

var freezeCmd = &cobra.Command{
	Use:   "freeze <annotated.json>",
	Short: "Merge human verdicts into a final labeled dataset",
	Long: `Merge human verdicts into a final labeled dataset.

Each record's final label is the human verdict when one exists and the
model's prediction otherwise. A record left with a label outside the
configured set, an unreviewed ERROR prediction for instance, fails the
whole run.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := loadServicesForCurrentDir()
		if err != nil {
			return err
		}
		defer services.Close()

		report, err := services.Dataset.Freeze(args[0], freezeOutput)
		if err != nil {
			return MapError(fmt.Errorf("failed to freeze dataset: %w", err))
		}

		fmt.Printf("Froze %d records to %s (%d human corrections, %.1f%% coverage)\n",
			report.Records, freezeOutput, report.Corrections, report.Coverage*100)
		for _, c := range report.Distribution.Counts {
			fmt.Printf("  %-5s %d\n", c.Label, c.Count)
		}
		return nil
	},
}

func init() {
	freezeCmd.Flags().StringVarP(&freezeOutput, "output", "o", "frozen.json",
		"Where to write the frozen dataset")
	RootCmd.AddCommand(freezeCmd)
}
