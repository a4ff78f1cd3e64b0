package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var submitNotes string

var submitCmd = &cobra.Command{
	Use:   "submit <id> <label>",
	Short: "Record a human label for a pending record",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := loadServicesForCurrentDir()
		if err != nil {
			return err
		}
		defer services.Close()

		id, label := args[0], args[1]
		rec, err := services.Review.Submit(id, label, submitNotes)
		if err != nil {
			return MapError(fmt.Errorf("failed to submit verdict: %w", err))
		}

		switch {
		case rec.Agrees():
			fmt.Printf("Recorded %s as %s (agrees with the model).\n", id, label)
		case rec.ModelLabel != "":
			fmt.Printf("Recorded %s as %s (model said %s).\n", id, label, rec.ModelLabel)
		default:
			fmt.Printf("Recorded %s as %s.\n", id, label)
		}
		return nil
	},
}

func init() {
	submitCmd.Flags().StringVarP(&submitNotes, "notes", "n", "", "Annotator notes for this verdict")
	RootCmd.AddCommand(submitCmd)
}
