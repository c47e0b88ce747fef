package commands

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/investor/pkg/config"
)

// dbCheckCmd represents the db-check command
var dbCheckCmd = &cobra.Command{
	Use:   "db-check",
	Short: "Check the store connection",
	Long: `Connects to the configured store, applies migrations and shows
health and pool statistics.

Example:
  go run ./cmd/investor db-check
  go run ./cmd/investor db-check --driver postgres`,
	RunE: runDBCheck,
}

func init() {
	rootCmd.AddCommand(dbCheckCmd)
}

func runDBCheck(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	PrintHeader(out, "Investor Database Check")

	ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
	defer cancel()

	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	PrintSuccess(out, fmt.Sprintf("Config loaded (ENV: %s)", a.cfg.Env))
	PrintKeyValue(out, "Driver", a.cfg.Database.Driver, 8)
	if a.cfg.Database.Driver == config.DriverPostgres {
		PrintKeyValue(out, "URL", maskPassword(a.cfg.Database.URL), 8)
	} else {
		PrintKeyValue(out, "Path", a.cfg.Database.SQLitePath, 8)
	}

	status, err := a.health.HealthCheck(ctx)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}

	PrintSuccess(out, "Health Check Results:")
	PrintKeyValue(out, "Healthy", fmt.Sprintf("%v", status.Healthy), 13)
	PrintKeyValue(out, "Response Time", status.ResponseTime.String(), 13)
	PrintKeyValue(out, "Open Conns", fmt.Sprintf("%d", status.Stats.TotalConns), 13)
	PrintKeyValue(out, "Idle Conns", fmt.Sprintf("%d", status.Stats.IdleConns), 13)

	n, err := a.repo.CountCompanies(ctx)
	if err != nil {
		return err
	}
	PrintKeyValue(out, "Companies", fmt.Sprintf("%d", n), 13)

	if a.redis.Enabled() {
		PrintInfo(out, "Redis ranking cache enabled")
	}

	PrintSuccess(out, "All checks passed!")
	return nil
}

// maskPassword hides the password of a database URL for display
func maskPassword(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.User == nil {
		return raw
	}
	if _, ok := u.User.Password(); !ok {
		return raw
	}
	u.User = url.UserPassword(u.User.Username(), "xxxxx")
	return u.String()
}
