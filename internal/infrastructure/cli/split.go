package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/crisislab/revq/internal/application"
	"github.com/crisislab/revq/internal/domain/dataset"
)

var (
	splitTrain     string
	splitDev       string
	splitTest      string
	splitFractions string
)

var splitCmd = &cobra.Command{
	Use:   "split <frozen.json>",
	Short: "Cut a frozen dataset into stratified train/dev/test portions",
	Long: `Cut a frozen dataset into stratified train/dev/test portions.

The split is stratified by final label and shuffled with the workspace
sample seed, so the same input always cuts the same way.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := loadServicesForCurrentDir()
		if err != nil {
			return err
		}
		defer services.Close()

		fractions, err := parseFractions(splitFractions)
		if err != nil {
			return err
		}

		files := application.SplitFiles{Train: splitTrain, Dev: splitDev, Test: splitTest}
		result, err := services.Dataset.Split(args[0], fractions, files)
		if err != nil {
			return MapError(fmt.Errorf("failed to split dataset: %w", err))
		}

		fmt.Printf("Split %d records:\n", result.Len())
		fmt.Printf("  train: %4d -> %s\n", len(result.Train), splitTrain)
		fmt.Printf("  dev:   %4d -> %s\n", len(result.Dev), splitDev)
		fmt.Printf("  test:  %4d -> %s\n", len(result.Test), splitTest)
		return nil
	},
}

func parseFractions(s string) (dataset.Fractions, error) {
	if strings.TrimSpace(s) == "" {
		return dataset.DefaultFractions(), nil
	}

	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return dataset.Fractions{}, fmt.Errorf("fractions must be three comma-separated numbers, got %q", s)
	}

	values := make([]float64, 3)
	for i, part := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return dataset.Fractions{}, fmt.Errorf("invalid fraction %q: %w", part, err)
		}
		values[i] = v
	}
	return dataset.Fractions{Train: values[0], Dev: values[1], Test: values[2]}, nil
}

func init() {
	splitCmd.Flags().StringVar(&splitTrain, "train", "train.json", "Where to write the train portion")
	splitCmd.Flags().StringVar(&splitDev, "dev", "dev.json", "Where to write the dev portion")
	splitCmd.Flags().StringVar(&splitTest, "test", "test.json", "Where to write the test portion")
	splitCmd.Flags().StringVar(&splitFractions, "fractions", "",
		"Train,dev,test fractions summing to one (default 0.70,0.15,0.15)")
	RootCmd.AddCommand(splitCmd)
}
