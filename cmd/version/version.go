package version

import (
	"fmt"
	"runtime"
	"runtime/debug"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/denysvitali/chargeprice-map/chargeprice"
	"github.com/denysvitali/chargeprice-map/cmd/root"
	"github.com/denysvitali/chargeprice-map/goingelectric"
)

// Set via ldflags, e.g. -X github.com/denysvitali/chargeprice-map/cmd/version.Version=v1.2.0
var (
	Version = "dev"
	Commit  = ""
	Date    = ""
)

var short bool

// Info describes the running binary and the backends it talks to by default.
type Info struct {
	Version       string
	Commit        string
	Date          string
	GoVersion     string
	Platform      string
	GoingElectric string
	Chargeprice   string
}

// Get returns the build info, falling back to the VCS stamp embedded by the
// Go toolchain when no ldflags were given.
func Get() Info {
	info := Info{
		Version:       Version,
		Commit:        Commit,
		Date:          Date,
		GoVersion:     runtime.Version(),
		Platform:      runtime.GOOS + "/" + runtime.GOARCH,
		GoingElectric: goingelectric.Backend,
		Chargeprice:   chargeprice.Backend,
	}
	if bi, ok := debug.ReadBuildInfo(); ok {
		for _, s := range bi.Settings {
			switch s.Key {
			case "vcs.revision":
				if info.Commit == "" {
					info.Commit = s.Value
				}
			case "vcs.time":
				if info.Date == "" {
					info.Date = s.Value
				}
			}
		}
	}
	if len(info.Commit) > 12 {
		info.Commit = info.Commit[:12]
	}
	if info.Commit == "" {
		info.Commit = "unknown"
	}
	if info.Date == "" {
		info.Date = "unknown"
	}
	return info
}

func (i Info) String() string {
	return fmt.Sprintf("chargeprice-map %s (%s)", i.Version, i.Commit)
}

func (i Info) Table() *table.Table {
	return table.New().
		Border(lipgloss.HiddenBorder()).
		StyleFunc(func(row, col int) lipgloss.Style {
			if col == 0 {
				return lipgloss.NewStyle().Bold(true).PaddingRight(2)
			}
			return lipgloss.NewStyle()
		}).
		Rows(
			[]string{"Version", i.Version},
			[]string{"Commit", i.Commit},
			[]string{"Built", i.Date},
			[]string{"Go version", i.GoVersion},
			[]string{"OS/Arch", i.Platform},
			[]string{"GoingElectric", i.GoingElectric},
			[]string{"Chargeprice", i.Chargeprice},
		)
}

var VersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Print the version and build details, and the API backends used when the config sets none.`,
	Run: func(cmd *cobra.Command, args []string) {
		info := Get()
		if short {
			fmt.Println(info.String())
			return
		}
		fmt.Println(info.Table())
	},
}

func init() {
	VersionCmd.Flags().BoolVar(&short, "short", false, "print a single line")
	root.RootCmd.AddCommand(VersionCmd)
}
