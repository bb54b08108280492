package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fulldump/goconfig"

	"github.com/nilsmartel/hotel/bootstrap"
	"github.com/nilsmartel/hotel/configuration"
	"github.com/nilsmartel/hotel/logger"
)

var banner = `
 _   _       _       _ 
| | | | ___ | |_ ___| |
| |_| |/ _ \| __/ _ \ |
|  _  | (_) | ||  __/ |
|_| |_|\___/ \__\___|_|
          version ` + bootstrap.VERSION + `
`

func main() {

	c := configuration.Default()
	goconfig.Read(c)

	if c.Version {
		fmt.Println("Version:", bootstrap.VERSION)
		return
	}

	err := logger.Configure(c.LogLevel, c.LogFormat)
	if err != nil {
		fmt.Fprintln(os.Stderr, "ERROR:", err.Error())
		os.Exit(1)
	}

	if c.ShowBanner {
		fmt.Println(banner)
	}

	if c.ShowConfig {
		e := json.NewEncoder(os.Stdout)
		e.SetIndent("", "    ")
		e.Encode(c)
	}

	start, _, err := bootstrap.Bootstrap(c)
	if err != nil {
		logger.WithPrefix("main").WithError(err).Fatal("bootstrap")
	}

	start()
}
