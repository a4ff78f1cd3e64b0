package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/crisislab/revq/internal/application"
)

var (
	exportFilters filterFlags
	exportFormat  string
	exportOutput  string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export reviewed records as CSV or JSON",
	Long: `Export reviewed records as CSV or JSON.

The column order is fixed, so re-parsing an export reconstructs the
records. Filter flags narrow what is written; by default everything in
the results goes out.`,
	Example: `  revq export --format csv -o verdicts.csv
  revq export --status reviewed --human-label A3 --format json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := loadServicesForCurrentDir()
		if err != nil {
			return err
		}
		defer services.Close()

		filter, err := exportFilters.build()
		if err != nil {
			return MapError(err)
		}

		records, err := services.Results.List(filter)
		if err != nil {
			return MapError(fmt.Errorf("failed to list results: %w", err))
		}

		var w io.Writer = os.Stdout
		if exportOutput != "" {
			f, err := os.Create(exportOutput)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", exportOutput, err)
			}
			defer f.Close()
			w = f
		}

		if err := services.Results.Export(w, records, exportFormat); err != nil {
			return MapError(fmt.Errorf("failed to export results: %w", err))
		}

		if exportOutput != "" {
			fmt.Printf("Exported %d records to %s.\n", len(records), exportOutput)
		}
		return nil
	},
}

func init() {
	exportFilters.register(exportCmd)
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", application.FormatCSV,
		"Output format (csv or json)")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "",
		"Write to this file instead of stdout")
	RootCmd.AddCommand(exportCmd)
}
