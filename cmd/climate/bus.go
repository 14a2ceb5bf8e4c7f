package main

import (
	"github.com/urfave/cli/v2"
	"periph.io/x/conn/v3/physic"

	"github.com/mklimuk/climate"
	"github.com/mklimuk/climate/adapter"
	"github.com/mklimuk/climate/cmd/climate/console"
	"github.com/mklimuk/climate/i2c"
)

// common bus selection flags shared by the sensor commands
func busFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "adapter",
			Aliases: []string{"a"},
			Value:   "mcp2221",
			Usage:   "bus adapter: mcp2221 or generic",
		},
		&cli.StringFlag{
			Name:    "device",
			Aliases: []string{"d"},
			Value:   "/dev/i2c-1",
			Usage:   "i2c character device (generic adapter only)",
		},
		&cli.IntFlag{
			Name:  "bus-speed",
			Usage: "bus clock in kHz (generic adapter only)",
		},
		&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}},
	}
}

// newBus opens the bus selected on the command line. The returned closer is
// never nil.
func newBus(c *cli.Context) (climate.I2CBus, func(), error) {
	switch c.String("adapter") {
	case "generic", "nanopi":
		bus, err := i2c.NewGenericBus(c.String("device"))
		if err != nil {
			return nil, func() {}, err
		}
		if c.IsSet("bus-speed") {
			if err := bus.SetSpeed(physic.Frequency(c.Int("bus-speed")) * physic.KiloHertz); err != nil {
				_ = bus.Close()
				return nil, func() {}, err
			}
		}
		return bus, func() {
			if err := bus.Close(); err != nil {
				console.Errorf("error closing bus: %s", console.Red(err))
			}
		}, nil
	default:
		mcp2221 := adapter.NewMCP2221()
		if err := mcp2221.Init(); err != nil {
			return nil, func() {}, err
		}
		return mcp2221, func() {}, nil
	}
}
