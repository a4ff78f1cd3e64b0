package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var editCmd = &cobra.Command{
	Use:   "edit <id> <field> <value>",
	Short: "Correct a field of a reviewed record",
	Long: `Correct a field of a reviewed record.

Editable fields: human_label, notes, reason, and confidence when
allow_confidence_edit is set in config.yaml. Editing the human label of
a skipped record resolves the skip.`,
	Args: cobra.MinimumNArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := loadServicesForCurrentDir()
		if err != nil {
			return err
		}
		defer services.Close()

		id, field := args[0], args[1]
		value := strings.Join(args[2:], " ")

		rec, err := services.Results.Edit(id, field, value)
		if err != nil {
			return MapError(fmt.Errorf("failed to edit record: %w", err))
		}

		fmt.Printf("Updated %s of %s.\n", field, id)
		if !rec.Skipped && rec.HumanLabel != "" {
			fmt.Printf("  human_label=%s notes=%q\n", rec.HumanLabel, rec.Notes)
		}
		return nil
	},
}

func init() {
	RootCmd.AddCommand(editCmd)
}
