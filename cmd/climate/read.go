package main

import (
	"context"

	"github.com/urfave/cli/v2"

	"github.com/mklimuk/climate/cmd/climate/console"
	"github.com/mklimuk/climate/environment"
)

var readCmd = cli.Command{
	Name:    "read",
	Aliases: []string{"rd"},
	Usage:   "perform a single measurement and print it",
	Flags: append(busFlags(),
		&cli.BoolFlag{
			Name:  "crc",
			Usage: "enable frame integrity checking",
		},
		&cli.BoolFlag{
			Name:  "fahrenheit",
			Usage: "print temperature in Fahrenheit",
		},
	),
	Action: func(c *cli.Context) error {
		ctx := console.SetVerbose(context.Background(), c.Bool("verbose"))
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
		if err := s.Measure(ctx); err != nil {
			return console.Exit(1, "error getting temperature read: %s", console.Red(err))
		}
		temp := s.Temperature()
		if c.Bool("fahrenheit") {
			temp = s.TemperatureF()
		}
		console.Printf("%s  %s\n%s %s\n", console.PictoThermometer, console.White(temp), console.PictoHumidity, console.White(s.Humidity()))
		return nil
	},
}
