package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"

	"github.com/denysvitali/chargeprice-map/chargeprice"
	"github.com/denysvitali/chargeprice-map/goingelectric"
	"github.com/denysvitali/chargeprice-map/stations"
)

const (
	DefaultServerAddr    = ":8080"
	DefaultWatchInterval = 5 * time.Minute
)

type ServerConfig struct {
	Addr string `yaml:"addr"`
}

type WatchConfig struct {
	Interval time.Duration `yaml:"interval"`
	// NorthEast and SouthWest span the watched area.
	NorthEast stations.Coordinate `yaml:"north_east"`
	SouthWest stations.Coordinate `yaml:"south_west"`
}

type Config struct {
	GoingElectric goingelectric.Config `yaml:"going_electric"`
	Chargeprice   chargeprice.Config   `yaml:"chargeprice"`

	// Defaults are the charging settings used when no flag overrides them.
	Defaults           stations.Settings `yaml:"defaults"`
	ShowUnbalancedLoad bool              `yaml:"show_unbalanced_load"`

	Server ServerConfig `yaml:"server"`
	Watch  WatchConfig  `yaml:"watch"`
}

// DefaultConfigFilePath is where the config is read from when no path is
// given.
var DefaultConfigFilePath = filepath.Join(xdg.ConfigHome, "chargeprice-map", "config.yaml")

func Default() *Config {
	return &Config{
		Defaults: stations.Settings{
			CarACPhases:       stations.DefaultCarACPhases,
			DisplayedCurrency: chargeprice.DefaultCurrency,
		},
		Server: ServerConfig{Addr: DefaultServerAddr},
		Watch:  WatchConfig{Interval: DefaultWatchInterval},
	}
}

// GetConfigFromFile reads the config at inputConfigFile, or at
// DefaultConfigFilePath when empty. Values missing from the file keep their
// defaults.
func GetConfigFromFile(inputConfigFile string) (*Config, error) {
	if inputConfigFile == "" {
		inputConfigFile = DefaultConfigFilePath
	}
	f, err := os.Open(inputConfigFile)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	cfg := Default()
	if err := yaml.NewDecoder(f).Decode(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func SaveConfig(cfg *Config, configFile string) error {
	if configFile == "" {
		configFile = DefaultConfigFilePath
	}
	if err := os.MkdirAll(filepath.Dir(configFile), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(configFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return err
	}
	defer f.Close()
	return yaml.NewEncoder(f).Encode(cfg)
}
