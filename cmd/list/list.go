package list

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/denysvitali/chargeprice-map/cmd/root"
	"github.com/denysvitali/chargeprice-map/stations"
)

var (
	northEast string
	southWest string
	near      string
	radius    float64
)

var hintStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("214")).
	Italic(true)

var ListCmd = &cobra.Command{
	Use:     "stations",
	Aliases: []string{"list"},
	Short:   "List the charging stations of an area",
	Long: `List the charging stations inside a bounding box, merging the GoingElectric
and Chargeprice listings. Community stations closer than 20 m to a GoingElectric
station are dropped as duplicates.

The area is given either as --ne/--sw corners or as --near with a --radius.`,
	Example: `  # Stations around Munich with at least 50 kW
  chargeprice-map stations --near 48.137,11.575 --radius 5 --min-power 50

  # Stations inside a box
  chargeprice-map stations --ne 48.2,11.7 --sw 48.0,11.4`,
	RunE: func(cmd *cobra.Command, args []string) error {
		aggregator := root.GetAggregator()
		if aggregator == nil {
			return fmt.Errorf("clients not initialized")
		}

		bounds, center, err := Bounds()
		if err != nil {
			return err
		}
		settings, err := root.Settings(cmd)
		if err != nil {
			return err
		}

		options := settings.Options(root.ShowUnbalancedLoad())
		if hint := AreaHint(bounds, options.MinPower); hint != "" {
			fmt.Println(hintStyle.Render(hint))
			return nil
		}

		res, err := aggregator.List(cmd.Context(), bounds, options)
		if err != nil {
			return fmt.Errorf("failed to list stations: %w", err)
		}

		if len(res) == 0 {
			fmt.Println("No charging stations found.")
			return nil
		}
		fmt.Println(Table(res, center))
		return nil
	},
}

func init() {
	AddBoundsFlags(ListCmd)
	root.AddSettingsFlags(ListCmd)
	root.RootCmd.AddCommand(ListCmd)
}

// AddBoundsFlags registers the area flags read by Bounds.
func AddBoundsFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&northEast, "ne", "", "north-east corner as lat,lng")
	cmd.Flags().StringVar(&southWest, "sw", "", "south-west corner as lat,lng")
	cmd.Flags().StringVar(&near, "near", "", "center of the area as lat,lng")
	cmd.Flags().Float64Var(&radius, "radius", 5, "radius around --near in km")
	cmd.MarkFlagsRequiredTogether("ne", "sw")
	cmd.MarkFlagsMutuallyExclusive("near", "ne")
}

// Bounds returns the area given on the command line, falling back to the
// area of the watch config, and the point distances are measured from.
func Bounds() (stations.BoundingBox, stations.Coordinate, error) {
	if near != "" {
		center, err := stations.ParseCoordinate(near)
		if err != nil {
			return stations.BoundingBox{}, stations.Coordinate{}, err
		}
		return stations.BoundingBoxAround(center, radius*1000), center, nil
	}

	var box stations.BoundingBox
	switch {
	case northEast != "":
		var err error
		if box.NorthEast, err = stations.ParseCoordinate(northEast); err != nil {
			return box, stations.Coordinate{}, err
		}
		if box.SouthWest, err = stations.ParseCoordinate(southWest); err != nil {
			return box, stations.Coordinate{}, err
		}
	case root.GetConfig() != nil && root.GetConfig().Watch.NorthEast != (stations.Coordinate{}):
		box.NorthEast = root.GetConfig().Watch.NorthEast
		box.SouthWest = root.GetConfig().Watch.SouthWest
	default:
		return box, stations.Coordinate{}, fmt.Errorf("an area is required (use --near or --ne/--sw)")
	}
	if err := box.Validate(); err != nil {
		return box, stations.Coordinate{}, err
	}
	return box, center(box), nil
}

// AreaHint returns what to tell the user when bounds is too large to list
// stations of at least minPower kW, or "" when it can be listed.
func AreaHint(bounds stations.BoundingBox, minPower float64) string {
	if stations.CheckArea(bounds, minPower) == nil {
		return ""
	}
	limit := stations.MaxAreaKm2(minPower)
	return fmt.Sprintf("The area is %.0f km², at most %.0f km² can be listed at %g kW. "+
		"Please zoom in with a smaller --radius, or raise --min-power.",
		bounds.AreaKm2(), limit, minPower)
}

func center(box stations.BoundingBox) stations.Coordinate {
	lng := (box.NorthEast.Longitude + box.SouthWest.Longitude) / 2
	if box.CrossesAntimeridian() {
		lng += 180
		if lng > 180 {
			lng -= 360
		}
	}
	return stations.Coordinate{
		Latitude:  (box.NorthEast.Latitude + box.SouthWest.Latitude) / 2,
		Longitude: lng,
	}
}

// Table renders res along with the distance of each station from from.
func Table(res []stations.Station, from stations.Coordinate) *table.Table {
	rows := make([][]string, 0, len(res))
	for _, s := range res {
		name := s.Name
		if name == "" {
			name = "-"
		}
		network := s.Network
		if network == "" {
			network = "-"
		}
		rows = append(rows, []string{
			s.ID,
			string(s.Adapter),
			name,
			network,
			chargePoints(s.ChargePoints),
			fmt.Sprintf("%.1f km", stations.DistanceMeters(from, s.Coordinate())/1000),
		})
	}

	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("99"))).
		Headers("ID", "SOURCE", "NAME", "NETWORK", "CHARGE POINTS", "DISTANCE").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return lipgloss.NewStyle().Bold(true).PaddingLeft(1).PaddingRight(1)
			}
			baseStyle := lipgloss.NewStyle().PaddingLeft(1).PaddingRight(1)
			if col == 5 {
				return baseStyle.AlignHorizontal(lipgloss.Right)
			}
			return baseStyle
		}).
		Rows(rows...)
}

func chargePoints(cps []stations.ChargePoint) string {
	if len(cps) == 0 {
		return "-"
	}
	parts := make([]string, 0, len(cps))
	for _, cp := range cps {
		s := cp.Descriptor().String()
		if cp.Count > 1 {
			s = fmt.Sprintf("%dx %s", cp.Count, s)
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, ", ")
}
