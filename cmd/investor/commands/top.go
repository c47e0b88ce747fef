package commands

import (
	"github.com/spf13/cobra"

	"github.com/wonny/investor/internal/contracts"
	"github.com/wonny/investor/internal/menu"
)

// topCmd represents the top command
var topCmd = &cobra.Command{
	Use:   "top",
	Short: "Rank companies by ND/EBITDA, ROE or ROA",
	Long: `Prints the top companies by one metric, highest first.

Companies whose metric is undefined (unknown figure or zero denominator)
are left out. Ties are broken by ticker.

Example:
  go run ./cmd/investor top --metric ROE
  go run ./cmd/investor top --metric nd-ebitda --limit 5`,
	RunE: runTop,
}

var (
	topMetric string
	topLimit  int
)

func init() {
	rootCmd.AddCommand(topCmd)

	topCmd.Flags().StringVarP(&topMetric, "metric", "m", string(contracts.MetricNDEBITDA), "ND/EBITDA, ROE or ROA")
	topCmd.Flags().IntVarP(&topLimit, "limit", "n", 0, "number of companies (default: RANK_LIMIT)")
}

func runTop(cmd *cobra.Command, args []string) error {
	metric, err := contracts.ParseMetric(topMetric)
	if err != nil {
		return err
	}

	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.close()

	ranking, err := a.session.Rank(cmd.Context(), metric, topLimit)
	if err != nil {
		return err
	}

	menu.WriteRanking(cmd.OutOrStdout(), ranking)
	return nil
}
