package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/wonny/investor/internal/api"
	"github.com/wonny/investor/internal/api/handlers"
	"github.com/wonny/investor/internal/scheduler"
	"github.com/wonny/investor/internal/scheduler/jobs"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Starts the REST API over the configured store.

With Redis enabled the ranking cache is refreshed on RANK_REFRESH_SCHEDULE.

Endpoints:
  GET    /health
  GET    /api/companies
  POST   /api/companies
  GET    /api/companies/search?name=...
  GET    /api/companies/{ticker}
  DELETE /api/companies/{ticker}
  PUT    /api/companies/{ticker}/financial
  GET    /api/rankings
  GET    /api/rankings/{metric}?n=10

Example:
  go run ./cmd/investor serve
  go run ./cmd/investor serve --port 8080`,
	RunE: runServe,
}

var (
	servePort string
)

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&servePort, "port", "", "API server port (default: PORT)")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	if servePort != "" {
		a.cfg.Port = servePort
	}

	a.log.WithFields(map[string]interface{}{
		"port":   a.cfg.Port,
		"env":    a.cfg.Env,
		"driver": a.cfg.Database.Driver,
	}).Info("Initializing API server")

	apiLog := a.log.WithComponent("api")
	health := handlers.NewHealthHandler(a.health, apiLog)

	if a.redis.Enabled() {
		sched, err := startRankRefresh(ctx, a)
		if err != nil {
			return err
		}
		defer sched.Stop()
		health.WithJobs(sched)
	}

	router := api.NewRouter(api.Handlers{
		Health:  health,
		Company: handlers.NewCompanyHandler(a.session, apiLog),
		Ranking: handlers.NewRankingHandler(a.session, apiLog),
	}, a.cfg.API, apiLog)

	server := api.New(a.cfg.Port, apiLog, router)

	fmt.Fprintf(cmd.OutOrStdout(), "✅ Server running on http://localhost:%s\n", a.cfg.Port)
	fmt.Fprintln(cmd.OutOrStdout(), "Press Ctrl+C to stop")

	if err := server.Run(ctx); err != nil {
		return err
	}

	a.log.Info("Server stopped")
	return nil
}

// startRankRefresh warms the ranking cache and schedules its refresh
func startRankRefresh(ctx context.Context, a *app) (*scheduler.Scheduler, error) {
	schedLog := a.log.WithComponent("scheduler")
	sched := scheduler.New(schedLog, scheduler.DefaultOptions())

	job := jobs.NewRankRefreshJob(a.ranker, a.cfg.Ranking.RefreshSchedule, schedLog)
	if err := sched.AddJob(job); err != nil {
		return nil, fmt.Errorf("schedule %s: %w", job.Name(), err)
	}

	if _, err := a.ranker.Refresh(ctx); err != nil {
		a.log.WithError(err).Warn("Initial ranking refresh failed")
	}

	sched.Start()
	schedLog.WithFields(map[string]interface{}{
		"jobs": sched.GetAllJobs(),
	}).Info("Scheduler started")
	return sched, nil
}
