package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/crisislab/revq/internal/domain"
)

var skipCmd = &cobra.Command{
	Use:   "skip <id>",
	Short: "Set a pending record aside per the configured skip policy",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := loadServicesForCurrentDir()
		if err != nil {
			return err
		}
		defer services.Close()

		id := args[0]
		policy, err := services.Review.Skip(id)
		if err != nil {
			return MapError(fmt.Errorf("failed to skip record: %w", err))
		}

		switch policy {
		case domain.SkipRecord:
			fmt.Printf("Skipped %s, kept as a skipped entry in the results.\n", id)
		case domain.SkipRequeue:
			fmt.Printf("Skipped %s, moved to the back of the queue.\n", id)
		default:
			fmt.Printf("Skipped %s, dropped from the queue.\n", id)
		}
		return nil
	},
}

func init() {
	RootCmd.AddCommand(skipCmd)
}
