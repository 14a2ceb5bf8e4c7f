package main

import (
	"context"

	"github.com/urfave/cli/v2"

	"github.com/mklimuk/climate/cmd/climate/console"
	"github.com/mklimuk/climate/environment"
)

var resetCmd = cli.Command{
	Name:  "reset",
	Usage: "soft-reset the sensor back to its power-on state",
	Flags: append(busFlags(),
		&cli.BoolFlag{
			Name:  "yes",
			Usage: "do not ask for confirmation",
		},
	),
	Action: func(c *cli.Context) error {
		ctx := console.SetVerbose(context.Background(), c.Bool("verbose"))
		if !c.Bool("yes") {
			answer, err := console.YesOrNo("soft-reset the sensor? the device re-calibrates afterwards")
			if err != nil {
				return console.Exit(1, "prompt error: %s", console.Red(err))
			}
			if answer != console.Yes {
				console.Print("aborted")
				return nil
			}
		}
		bus, closeBus, err := newBus(c)
		if err != nil {
			return console.Exit(1, "adapter initialization error: %s", console.Red(err))
		}
		defer closeBus()
		s := environment.NewAHT20(bus)
		if err := s.Reset(ctx); err != nil {
			return console.Exit(1, "error resetting sensor: %s", console.Red(err))
		}
		console.Infof("sensor reset, run %s to re-calibrate", console.Bold("climate read"))
		return nil
	},
}
