package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/mklimuk/climate/cmd/climate/console"
	"github.com/mklimuk/climate/environment"
)

var watchCmd = cli.Command{
	Name:  "watch",
	Usage: "poll the sensor periodically and print readings to the console",
	Flags: append(busFlags(),
		&cli.DurationFlag{
			Name:    "interval",
			Aliases: []string{"i"},
			Value:   time.Second,
			Usage:   "polling interval",
		},
		&cli.BoolFlag{
			Name:  "crc",
			Usage: "enable frame integrity checking",
		},
	),
	Action: func(c *cli.Context) error {
		ctx := console.SetVerbose(context.Background(), c.Bool("verbose"))
		ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		bus, closeBus, err := newBus(c)
		if err != nil {
			return console.Exit(1, "adapter initialization error: %s", console.Red(err))
		}
		defer closeBus()
		var opts []environment.AHT20Opt
		if c.Bool("crc") {
			opts = append(opts, environment.WithIntegrityCheck())
		}
		s := environment.NewAHT20(bus, opts...)
		if err := s.Initialize(ctx); err != nil {
			return console.Exit(1, "sensor initialization error: %s", console.Red(err))
		}

		ticker := time.NewTicker(c.Duration("interval"))
		defer ticker.Stop()
		for {
			if err := s.Measure(ctx); err != nil {
				// keep the loop alive, the previous reading stays valid
				console.Errorf("error getting temperature read: %s", console.Red(err))
			} else {
				console.Printf("%s  %s\n%s %s\n", console.PictoThermometer, console.White(s.Temperature()), console.PictoHumidity, console.White(s.Humidity()))
			}
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
			}
		}
	},
}
