package commands

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/wonny/investor/internal/contracts"
)

var (
	// Global flags
	driver  string
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "investor",
	Short: "Investor calculator - company financials, ratios and rankings",
	Long: `Investor Calculator CLI

Stores companies with one financial snapshot each, derives valuation
ratios (P/E, P/S, P/B, ND/EBITDA, ROE, ROA, L/A) and ranks companies
by ND/EBITDA, ROE or ROA.

Usage:
  go run ./cmd/investor [command]

Examples:
  go run ./cmd/investor bootstrap
  go run ./cmd/investor company read --name Apple
  go run ./cmd/investor top --metric ROE
  go run ./cmd/investor menu
  go run ./cmd/investor serve`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		PrintError(os.Stderr, describe(err))
	}
	return err
}

// describe prefixes known outcomes with the message the menu prints for them
func describe(err error) string {
	switch contracts.Classify(err) {
	case contracts.OutcomeNotFound:
		return "Company not found! (" + err.Error() + ")"
	case contracts.OutcomeInvalidSelection:
		return "Invalid company number! (" + err.Error() + ")"
	case contracts.OutcomeIntegrity:
		return "Company already exists! (" + err.Error() + ")"
	case contracts.OutcomeParse:
		return "Invalid input: " + err.Error()
	}
	return err.Error()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&driver, "driver", "", "store driver override (sqlite|postgres)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output (debug logging)")
}
