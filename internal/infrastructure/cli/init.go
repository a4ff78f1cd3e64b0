package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a revq workspace in the current directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := loadServicesForCurrentDir()
		if err != nil {
			return err
		}
		defer services.Close()

		if err := services.Init.Initialize(); err != nil {
			return fmt.Errorf("failed to initialize workspace: %w", err)
		}

		fmt.Println("Initialized empty revq workspace in .revq/")
		fmt.Println("Next: revq ingest <annotated.json>")
		return nil
	},
}

func init() {
	RootCmd.AddCommand(initCmd)
}
