package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wonny/investor/internal/loader"
)

// bootstrapCmd represents the bootstrap command
var bootstrapCmd = &cobra.Command{
	Use:   "bootstrap",
	Short: "Load companies.csv and financial.csv into an empty store",
	Long: `Loads the initial data set in one transaction.

The directory must contain companies.csv and financial.csv with a header row.
Any duplicate ticker or orphan snapshot rolls the whole load back.

Example:
  go run ./cmd/investor bootstrap
  go run ./cmd/investor bootstrap --data-dir ./data`,
	RunE: runBootstrap,
}

var (
	bootstrapDataDir string
)

func init() {
	rootCmd.AddCommand(bootstrapCmd)

	bootstrapCmd.Flags().StringVar(&bootstrapDataDir, "data-dir", "", "directory holding the CSV files (default: DATA_DIR)")
}

func runBootstrap(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.close()

	dir := bootstrapDataDir
	if dir == "" {
		dir = a.cfg.DataDir
	}

	n, err := bootstrapDir(cmd, a, dir)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Database created successfully!")
	PrintKeyValue(out, "Rows", fmt.Sprintf("%d", n), 4)
	return nil
}

// bootstrapDir loads dir into the store and returns the rows inserted
func bootstrapDir(cmd *cobra.Command, a *app, dir string) (int, error) {
	batch, err := loader.LoadDir(dir)
	if err != nil {
		return 0, err
	}

	a.log.WithFields(map[string]interface{}{
		"dir":        dir,
		"companies":  len(batch.Companies),
		"financials": len(batch.Financials),
	}).Debug("Loaded bootstrap files")

	return a.session.Bootstrap(cmd.Context(), batch)
}
