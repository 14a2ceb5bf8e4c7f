package main

import (
	"context"

	"github.com/urfave/cli/v2"

	"github.com/mklimuk/climate/cmd/climate/console"
	"github.com/mklimuk/climate/environment"
)

var statusCmd = cli.Command{
	Name:  "status",
	Usage: "print the raw sensor status byte",
	Flags: busFlags(),
	Action: func(c *cli.Context) error {
		ctx := console.SetVerbose(context.Background(), c.Bool("verbose"))
		bus, closeBus, err := newBus(c)
		if err != nil {
			return console.Exit(1, "adapter initialization error: %s", console.Red(err))
		}
		defer closeBus()
		s := environment.NewAHT20(bus)
		status, err := s.Status(ctx)
		if err != nil {
			return console.Exit(1, "error reading sensor status: %s", console.Red(err))
		}
		console.Printf("status: %#x\n", status)
		if status&0x08 != 0 {
			console.PInfof(console.PictoPin, "calibrated: %s", console.Green("yes"))
		} else {
			console.PInfof(console.PictoPin, "calibrated: %s", console.Red("no"))
		}
		if status&0x80 != 0 {
			console.PInfof(console.PictoStop, "busy: %s", console.Yellow("conversion in progress"))
		}
		return nil
	},
}
