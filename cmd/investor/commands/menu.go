package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/wonny/investor/internal/menu"
)

// menuCmd represents the menu command
var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Interactive investor menu",
	Long: `Starts the interactive MAIN / CRUD / TOP TEN menu on stdin/stdout.

An empty store is bootstrapped from DATA_DIR first.

Example:
  go run ./cmd/investor menu`,
	RunE: runMenu,
}

func init() {
	rootCmd.AddCommand(menuCmd)
}

func runMenu(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	empty, err := a.session.IsEmpty(ctx)
	if err != nil {
		return err
	}
	if empty {
		if _, err := os.Stat(a.cfg.DataDir); err == nil {
			if _, err := bootstrapDir(cmd, a, a.cfg.DataDir); err != nil {
				return fmt.Errorf("bootstrap %s: %w", a.cfg.DataDir, err)
			}
			a.log.WithField("dir", a.cfg.DataDir).Info("Store bootstrapped")
		}
	}

	return menu.New(a.session, cmd.InOrStdin(), cmd.OutOrStdout(), a.cfg.Ranking.DefaultLimit).Run(ctx)
}
