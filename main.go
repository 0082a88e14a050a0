package main

import (
	"os"

	"github.com/sirupsen/logrus"

	_ "github.com/denysvitali/chargeprice-map/cmd/config"
	_ "github.com/denysvitali/chargeprice-map/cmd/list"
	_ "github.com/denysvitali/chargeprice-map/cmd/prices"
	"github.com/denysvitali/chargeprice-map/cmd/root"
	_ "github.com/denysvitali/chargeprice-map/cmd/serve"
	_ "github.com/denysvitali/chargeprice-map/cmd/version"
	_ "github.com/denysvitali/chargeprice-map/cmd/watch"
)

func main() {
	if err := root.RootCmd.Execute(); err != nil {
		logrus.Error(err)
		os.Exit(1)
	}
}
