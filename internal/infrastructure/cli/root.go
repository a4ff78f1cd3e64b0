package cli

import (
	"github.com/spf13/cobra"
)

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

var workspacePath string

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:     "revq",
	Version: Version,
	Short:   "A human review queue for model-labeled crisis text",
	Long: `Revq is a human review queue for model-labeled crisis text.
It queues the records a classifier is least trustworthy on, walks a
reviewer through them, and folds the verdicts back into the dataset:
1. ingest: pick the records worth a human look
2. review: assign the actionability label a human would
3. freeze:  merge the verdicts into a final labeled dataset`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() error {
	return RootCmd.Execute()
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&workspacePath, "workspace", "C", "",
		"Workspace directory (default: current directory)")
}
