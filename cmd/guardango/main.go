package main

import (
	"context"
	"errors"
	"net/http"
	"os"

	"github.com/n0h4rt/guardango"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	cli "github.com/urfave/cli/v2"
)

func main() {
	if err := run(os.Args); err != nil {
		log.Error().Err(err).Msg("exiting")
		os.Exit(-1)
	}
}

func run(args []string) error {
	app := cli.App{
		Name:  "guardango",
		Usage: "group chat moderation engine",
	}

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Usage:   "path to the JSON configuration file",
			Value:   "guardango.json",
			EnvVars: []string{"GUARD_CONFIG"},
		},
		&cli.BoolFlag{
			Name:    "debug",
			Usage:   "enable debug logging",
			EnvVars: []string{"GUARD_DEBUG"},
		},
	}

	app.Commands = []*cli.Command{
		runCmd,
		initCmd,
	}

	return app.Run(args)
}

var runCmd = &cli.Command{
	Name:  "run",
	Usage: "run the engine against a relay bridge",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "relay",
			Usage: "websocket URL of the platform bridge; overrides relay_url",
		},
		&cli.StringFlag{
			Name:    "metrics-listen",
			Usage:   "address to serve prometheus metrics on; empty disables",
			Value:   ":3989",
			EnvVars: []string{"GUARD_METRICS_LISTEN"},
		},
	},
	Action: func(cctx *cli.Context) error {
		config, err := guardango.LoadConfig(cctx.String("config"))
		if err != nil {
			return err
		}
		if cctx.IsSet("relay") {
			config.RelayURL = cctx.String("relay")
		}
		config.Debug = config.Debug || cctx.Bool("debug")

		guardango.InitLogger("guardango", config.Debug)

		var options []guardango.Option
		if config.RelayURL != "" {
			options = append(options, guardango.WithRelay(guardango.NewRelay(config.RelayURL)))
		} else {
			log.Warn().Msg("No relay configured, actions are only logged")
		}

		if addr := cctx.String("metrics-listen"); addr != "" {
			go func() {
				mux := http.NewServeMux()
				mux.Handle("/metrics", promhttp.Handler())
				if err := http.ListenAndServe(addr, mux); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Error().Str("Addr", addr).Err(err).Msg("Metrics server failed")
				}
			}()
		}

		app := guardango.New(config, options...).Initialize()
		app.Start(context.Background())
		app.Park()

		return nil
	},
}

var initCmd = &cli.Command{
	Name:  "init",
	Usage: "write a configuration file with the default settings",
	Action: func(cctx *cli.Context) error {
		config := &guardango.Config{}
		config.Normalize()

		filename := cctx.String("config")
		if err := guardango.SaveConfig(filename, config); err != nil {
			return err
		}

		log.Info().Str("Name", filename).Msg("Configuration written")

		return nil
	},
}
