package watch

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/spf13/cobra"

	"github.com/denysvitali/chargeprice-map/cmd/list"
	"github.com/denysvitali/chargeprice-map/cmd/root"
	"github.com/denysvitali/chargeprice-map/stations"
)

var (
	interval    time.Duration
	clearScreen bool
)

var WatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Periodically refresh the stations of an area",
	Long: `Re-list the stations of an area on an interval and print the merged result.
A refresh that is still running when the next one starts is cancelled and its
result discarded.

Without area flags the watch area of the config is used.`,
	Example: `  # Refresh every minute
  chargeprice-map watch --near 48.137,11.575 --radius 3 --interval 1m`,
	RunE: runWatch,
}

func init() {
	WatchCmd.Flags().DurationVar(&interval, "interval", 0, "refresh interval (default from config, 5m)")
	WatchCmd.Flags().BoolVar(&clearScreen, "clear", true, "clear the screen before every refresh")
	list.AddBoundsFlags(WatchCmd)
	root.AddSettingsFlags(WatchCmd)
	root.RootCmd.AddCommand(WatchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	aggregator := root.GetAggregator()
	if aggregator == nil {
		return fmt.Errorf("clients not initialized")
	}
	if !cmd.Flags().Changed("interval") {
		interval = root.GetConfig().Watch.Interval
	}

	bounds, center, err := list.Bounds()
	if err != nil {
		return err
	}
	settings, err := root.Settings(cmd)
	if err != nil {
		return err
	}
	options := settings.Options(root.ShowUnbalancedLoad())
	if hint := list.AreaHint(bounds, options.MinPower); hint != "" {
		return fmt.Errorf("%w: %s", stations.ErrAreaTooLarge, hint)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var generations stations.Generations
	defer generations.Stop()

	refresh := func() {
		ticket := generations.Begin(ctx)
		res, err := aggregator.List(ticket.Context(), bounds, options)
		if !ticket.Current() {
			root.GetLogger().Debugf("discarding stale refresh %d", ticket.Generation())
			return
		}
		if err != nil {
			root.GetLogger().Errorf("refresh failed: %v", err)
			return
		}
		render(res, center)
	}

	s, err := gocron.NewScheduler()
	if err != nil {
		return fmt.Errorf("failed to create scheduler: %w", err)
	}
	defer func() { _ = s.Shutdown() }()

	_, err = s.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(refresh),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		return fmt.Errorf("failed to create job: %w", err)
	}

	root.GetLogger().Infof("refreshing every %s", interval)
	s.Start()

	<-ctx.Done()
	return nil
}

func render(res []stations.Station, center stations.Coordinate) {
	if clearScreen {
		fmt.Print("\033[H\033[2J")
	}
	fmt.Printf("%d stations, updated %s\n", len(res), time.Now().Format("15:04:05"))
	if len(res) > 0 {
		fmt.Println(list.Table(res, center))
	}
}
