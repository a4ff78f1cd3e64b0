package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var requeueCmd = &cobra.Command{
	Use:   "requeue <id>",
	Short: "Move a skipped record back into the pending queue",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := loadServicesForCurrentDir()
		if err != nil {
			return err
		}
		defer services.Close()

		id := args[0]
		if err := services.Review.Requeue(id); err != nil {
			return MapError(fmt.Errorf("failed to requeue record: %w", err))
		}

		fmt.Printf("Requeued %s for review.\n", id)
		return nil
	},
}

func init() {
	RootCmd.AddCommand(requeueCmd)
}
