/*
Sonnxd starts an S-ONNX compile service.

It listens for HTTP requests and compiles each submitted model source
independently; nothing is shared between requests.

Usage:

	sonnxd [flags]

The flags are:

	-v, --version
		Give the current version of sonnxd and then exit.

	-l, --listen ADDR
		The address to listen on. Defaults to "localhost".

	-p, --port PORT
		The port to listen on. Defaults to 8080.

	-C, --config FILE
		Read listen address and port from the given TOML file. Explicit
		flags win over the file.
*/
package main

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/spf13/pflag"

	"github.com/Trichiurus-lepturus/sonnx/internal/version"
	"github.com/Trichiurus-lepturus/sonnx/server"
)

const (

	// ExitSuccess indicates a successful program execution.
	ExitSuccess = iota

	// ExitServerError indicates an unsuccessful program execution due
	// to a problem while running the server.
	ExitServerError

	// ExitInitError indicates an unsuccessful program execution due to
	// an issue initializing the server.
	ExitInitError
)

var (
	returnCode  int     = ExitSuccess
	flagVersion *bool   = pflag.BoolP("version", "v", false, "Gives the version info")
	flagListen  *string = pflag.StringP("listen", "l", "", "The address to listen on")
	flagPort    *int    = pflag.IntP("port", "p", 0, "The port to listen on")
	flagConfig  *string = pflag.StringP("config", "C", "", "Read defaults from the given TOML config file")
)

// config is the TOML file format accepted by --config.
type config struct {
	Listen struct {
		Address string `toml:"address"`
		Port    int    `toml:"port"`
	} `toml:"listen"`
}

func main() {
	defer func() {
		if panicErr := recover(); panicErr != nil {
			// we are panicking, make sure we dont lose the panic just
			// because we checked
			panic(fmt.Sprintf("unrecoverable panic occured: %v", panicErr))
		} else {
			os.Exit(returnCode)
		}
	}()

	pflag.Parse()

	if *flagVersion {
		fmt.Printf("%s\n", version.Current)
		return
	}

	if *flagConfig != "" {
		var cfg config
		if _, err := toml.DecodeFile(*flagConfig, &cfg); err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: reading config: %s\n", err.Error())
			returnCode = ExitInitError
			return
		}
		if cfg.Listen.Address != "" && *flagListen == "" {
			*flagListen = cfg.Listen.Address
		}
		if cfg.Listen.Port > 0 && *flagPort == 0 {
			*flagPort = cfg.Listen.Port
		}
	}

	cs := server.New()
	if err := cs.ServeForever(*flagListen, *flagPort); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitServerError
	}
}
