package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/crisislab/revq/internal/infrastructure/config"
	"github.com/crisislab/revq/internal/infrastructure/wiring"
)

var annotatorCmd = &cobra.Command{
	Use:   "annotator [name]",
	Short: "Show or set the annotator name recorded in the audit trail",
	Long: `Show or set the annotator name recorded in the audit trail.

Without arguments the resolved name is printed. The name comes from, in
order: the REVQ_ANNOTATOR environment variable, .revq/annotator.yaml,
the login name.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := getWorkspaceRoot()
		if err != nil {
			return err
		}
		workspace := wiring.NewWorkspace(root)

		if len(args) == 0 {
			fmt.Println(config.ResolveAnnotator(workspace.Fs, root))
			return nil
		}

		if !workspace.Repo.IsInitialized() {
			return fmt.Errorf("workspace not initialized, run 'revq init' first")
		}

		name := args[0]
		if err := config.SaveAnnotatorConfig(workspace.Fs, root, &config.AnnotatorConfig{Name: name}); err != nil {
			return fmt.Errorf("failed to save annotator name: %w", err)
		}
		fmt.Printf("Annotator set to '%s'. Future audit events carry this name.\n", name)
		return nil
	},
}

func init() {
	RootCmd.AddCommand(annotatorCmd)
}
