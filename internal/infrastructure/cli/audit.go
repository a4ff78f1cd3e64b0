package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var auditVerify bool

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Show the workspace event timeline and verify its integrity",
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := loadServicesForCurrentDir()
		if err != nil {
			return err
		}
		defer services.Close()

		if auditVerify {
			fmt.Println("Verifying audit trail integrity...")
			violations, err := services.Audit.VerifyIntegrity()
			if err != nil {
				return fmt.Errorf("verification failed: %w", err)
			}

			if len(violations) == 0 {
				fmt.Println("Audit trail is intact and verified.")
				return nil
			}

			fmt.Printf("Found %d integrity violations:\n", len(violations))
			for _, v := range violations {
				fmt.Printf("  - %s\n", v)
			}
			os.Exit(1)
			return nil
		}

		events, err := services.Audit.Timeline()
		if err != nil {
			return fmt.Errorf("failed to load timeline: %w", err)
		}

		fmt.Println("Workspace Timeline")
		fmt.Println("------------------")
		for i := len(events) - 1; i >= 0; i-- {
			e := events[i]
			ts := e.Timestamp.Format(time.RFC822)
			fmt.Printf("[%s] %-12s | %-15s", ts, e.Actor, e.Action)
			if len(e.Metadata) > 0 {
				fmt.Printf(" (%v)", e.Metadata)
			}
			fmt.Println()
		}
		return nil
	},
}

func init() {
	auditCmd.Flags().BoolVar(&auditVerify, "verify", false, "Verify the hash chain instead of listing events")
	RootCmd.AddCommand(auditCmd)
}
