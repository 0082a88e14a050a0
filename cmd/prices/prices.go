package prices

import (
	"fmt"
	"sort"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/denysvitali/chargeprice-map/cmd/root"
	"github.com/denysvitali/chargeprice-map/stations"
)

var (
	power float64
	plug  string
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("62")).
			Padding(0, 1).
			MarginBottom(1)

	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true).
			MarginTop(1)
)

var PricesCmd = &cobra.Command{
	Use:   "prices <source> <station-id>",
	Short: "Compare the tariffs of a charge point",
	Long: `Resolve a station and list the price of every applicable tariff for the
charge point selected with --power and --plug. Without a selection the charge
points of the station are listed instead.

The source is going_electric or chargeprice, as printed by the stations command.`,
	Example: `  # Charge 30 kWh at the 150 kW CCS charge point
  chargeprice-map prices going_electric 12345 --power 150 --plug CCS --battery-range 30

  # Show the charge points of a station
  chargeprice-map prices chargeprice cp-1`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		aggregator, pricer := root.GetAggregator(), root.GetPricer()
		if aggregator == nil || pricer == nil {
			return fmt.Errorf("clients not initialized")
		}

		adapter, err := stations.ParseAdapter(args[0])
		if err != nil {
			return err
		}
		settings, err := root.Settings(cmd)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("power") != cmd.Flags().Changed("plug") {
			return fmt.Errorf("--power and --plug must be given together")
		}
		if cmd.Flags().Changed("plug") {
			settings.ChargePoint = &stations.ChargePointDescriptor{Power: power, Plug: plug}
		}
		options := settings.Options(root.ShowUnbalancedLoad())

		station, err := aggregator.Detail(cmd.Context(), stations.NewLiteStation(args[1], adapter), options)
		if err != nil {
			return fmt.Errorf("failed to resolve station: %w", err)
		}
		quote, err := pricer.Quote(cmd.Context(), station, options)
		if err != nil {
			return fmt.Errorf("failed to get prices: %w", err)
		}

		printQuote(quote)
		return nil
	},
}

func init() {
	PricesCmd.Flags().Float64Var(&power, "power", 0, "power of the selected charge point in kW")
	PricesCmd.Flags().StringVar(&plug, "plug", "", "plug of the selected charge point, e.g. CCS")
	root.AddSettingsFlags(PricesCmd)
	root.RootCmd.AddCommand(PricesCmd)
}

func printQuote(q *stations.Quote) {
	title := q.Station.Name
	if title == "" {
		title = q.Station.ID
	}
	fmt.Println(titleStyle.Render(title))

	if !q.Selected {
		fmt.Println(chargePointsTable(q))
		fmt.Println(hintStyle.Render("Select a charge point with --power and --plug to compare prices."))
		return
	}
	if len(q.Entries) == 0 {
		fmt.Printf("No tariff covers %s.\n", q.ChargePoint.Descriptor())
		return
	}
	fmt.Println(pricesTable(q))
	if q.ChargePoint.Energy > 0 {
		fmt.Println(hintStyle.Render(fmt.Sprintf("%s, %.1f kWh in %.0f min", q.ChargePoint.Descriptor(), q.ChargePoint.Energy, q.ChargePoint.Duration)))
	}
}

func chargePointsTable(q *stations.Quote) *table.Table {
	chargePoints := q.Tariffs.Meta.ChargePoints
	if len(chargePoints) == 0 {
		chargePoints = q.Station.ChargePoints
	}
	rows := make([][]string, 0, len(chargePoints))
	for _, cp := range chargePoints {
		rows = append(rows, []string{
			cp.Plug,
			fmt.Sprintf("%g kW", cp.Power),
			orDash(cp.Energy, "%.1f kWh"),
			orDash(cp.Duration, "%.0f min"),
		})
	}
	return newTable("PLUG", "POWER", "ENERGY", "DURATION").Rows(rows...)
}

func pricesTable(q *stations.Quote) *table.Table {
	entries := make([]stations.PriceEntry, len(q.Entries))
	copy(entries, q.Entries)
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].Price < entries[j].Price })

	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		perKWh := "-"
		if e.PricePerKWh != nil {
			perKWh = fmt.Sprintf("%.2f", *e.PricePerKWh)
		}
		rows = append(rows, []string{
			e.Tariff.Provider,
			e.Tariff.Name,
			fmt.Sprintf("%.2f %s", e.Price, e.Tariff.Currency),
			perKWh,
			orDash(e.Tariff.TotalMonthlyFee, "%.2f"),
		})
	}
	return newTable("PROVIDER", "TARIFF", "PRICE", "PER KWH", "MONTHLY FEE").Rows(rows...)
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("99"))).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return lipgloss.NewStyle().Bold(true).PaddingLeft(1).PaddingRight(1)
			}
			baseStyle := lipgloss.NewStyle().PaddingLeft(1).PaddingRight(1)
			if col >= 2 {
				return baseStyle.AlignHorizontal(lipgloss.Right)
			}
			return baseStyle
		})
}

func orDash(v float64, format string) string {
	if v <= 0 {
		return "-"
	}
	return fmt.Sprintf(format, v)
}
