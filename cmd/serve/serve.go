package serve

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/denysvitali/chargeprice-map/api"
	"github.com/denysvitali/chargeprice-map/cmd/root"
)

var addr string

var ServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the station and price API over HTTP",
	Long: `Serve a JSON API for listing stations, resolving a station and comparing
the prices of its tariffs. Prometheus metrics are exposed on /metrics.

Routes:
  GET /stations?ne=lat,lng&sw=lat,lng
  GET /stations/{source}/{id}
  GET /stations/{source}/{id}/prices?power=50&plug=CCS
  GET /healthz
  GET /metrics`,
	Example: `  # Listen on port 9000
  chargeprice-map serve --addr :9000`,
	RunE: func(cmd *cobra.Command, args []string) error {
		aggregator, pricer, prom := root.GetAggregator(), root.GetPricer(), root.GetMetrics()
		if aggregator == nil || pricer == nil || prom == nil {
			return fmt.Errorf("clients not initialized")
		}
		cfg := root.GetConfig()
		if !cmd.Flags().Changed("addr") {
			addr = cfg.Server.Addr
		}

		srv := api.New(aggregator, pricer,
			api.WithSettings(cfg.Defaults, cfg.ShowUnbalancedLoad),
			api.WithMetrics(prom.Handler()),
			api.WithRequestObserver(prom),
		)

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return api.Run(ctx, addr, srv.Router())
	},
}

func init() {
	ServeCmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	root.RootCmd.AddCommand(ServeCmd)
}
