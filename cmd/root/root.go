package root

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/denysvitali/chargeprice-map/chargeprice"
	"github.com/denysvitali/chargeprice-map/config"
	"github.com/denysvitali/chargeprice-map/goingelectric"
	"github.com/denysvitali/chargeprice-map/metrics"
	"github.com/denysvitali/chargeprice-map/stations"
)

var (
	cfgFile    string
	logLevel   string
	cfg        *config.Config
	aggregator *stations.Aggregator
	pricer     *stations.Pricer
	prom       *metrics.Prom
	log        = logrus.StandardLogger()
)

var RootCmd = &cobra.Command{
	Use:   "chargeprice-map",
	Short: "Find EV charging stations and compare their prices",
	Long: `chargeprice-map lists the charging stations of an area, merging GoingElectric
and Chargeprice listings, and compares the price of every tariff for a charge point.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := setLogLevel(); err != nil {
			return err
		}

		if cmd.Name() == "version" || cmd.Name() == "help" || cmd.Name() == "init" {
			return nil
		}

		if err := initConfig(); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}

		needsClients := []string{"stations", "prices", "serve", "watch"}
		for _, cmdName := range needsClients {
			if cmd.Name() == cmdName {
				if err := initClients(); err != nil {
					return fmt.Errorf("unable to initialize clients: %w", err)
				}
				break
			}
		}
		return nil
	},
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default is $XDG_CONFIG_HOME/chargeprice-map/config.yaml)")
	RootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	_ = viper.BindPFlag("config", RootCmd.PersistentFlags().Lookup("config"))
	_ = viper.BindPFlag("log-level", RootCmd.PersistentFlags().Lookup("log-level"))

	// CHARGEPRICE_GOING_ELECTRIC_API_KEY overrides going_electric.api_key
	viper.SetEnvPrefix("CHARGEPRICE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
}

func initConfig() error {
	configPath := GetConfigPath()

	var err error
	cfg, err = config.GetConfigFromFile(configPath)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to load config: %w", err)
		}
		log.Debugf("no config file at %s, using defaults and environment variables", configPath)
		cfg = config.Default()
	} else {
		log.Debugf("using config file: %s", configPath)
	}

	applyEnv(cfg)
	return nil
}

// applyEnv overrides the file values with the environment.
func applyEnv(c *config.Config) {
	strs := map[string]*string{
		"going_electric.api_key": &c.GoingElectric.APIKey,
		"going_electric.backend": &c.GoingElectric.Backend,
		"chargeprice.api_key":    &c.Chargeprice.APIKey,
		"chargeprice.backend":    &c.Chargeprice.Backend,
		"server.addr":            &c.Server.Addr,
	}
	for key, dst := range strs {
		if v := viper.GetString(key); v != "" {
			*dst = v
		}
	}
	if viper.IsSet("show_unbalanced_load") {
		c.ShowUnbalancedLoad = viper.GetBool("show_unbalanced_load")
	}
	if v := viper.GetDuration("watch.interval"); v > 0 {
		c.Watch.Interval = v
	}
}

func initClients() error {
	if cfg == nil {
		return fmt.Errorf("configuration not loaded")
	}

	ge, err := goingelectric.New(cfg.GoingElectric)
	if err != nil {
		return fmt.Errorf("failed to create GoingElectric client: %w", err)
	}
	cp, err := chargeprice.New(cfg.Chargeprice)
	if err != nil {
		return fmt.Errorf("failed to create Chargeprice client: %w", err)
	}
	prom, err = metrics.New()
	if err != nil {
		return fmt.Errorf("failed to register metrics: %w", err)
	}

	aggregator = stations.NewAggregator(ge, cp, stations.WithRecorder(prom))
	pricer = stations.NewPricer(cp, stations.WithPricerRecorder(prom))
	return nil
}

func setLogLevel() error {
	lvl, err := logrus.ParseLevel(viper.GetString("log-level"))
	if err != nil {
		return fmt.Errorf("invalid log level: %s", logLevel)
	}
	log.SetLevel(lvl)
	return nil
}

func GetConfig() *config.Config {
	return cfg
}

func GetAggregator() *stations.Aggregator {
	return aggregator
}

func GetPricer() *stations.Pricer {
	return pricer
}

func GetMetrics() *metrics.Prom {
	return prom
}

func GetLogger() *logrus.Logger {
	return log
}

func GetConfigPath() string {
	if cfgFile != "" {
		return cfgFile
	}
	if p := viper.GetString("config"); p != "" {
		return p
	}
	return config.DefaultConfigFilePath
}
