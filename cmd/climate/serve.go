package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"
	"periph.io/x/conn/v3/physic"

	"github.com/mklimuk/climate/adapter"
	"github.com/mklimuk/climate/cmd/climate/console"
	"github.com/mklimuk/climate/environment"
	"github.com/mklimuk/climate/i2c"
	"github.com/mklimuk/climate/station"
)

type serveConfig struct {
	Addr     string        `yaml:"addr"`
	Interval time.Duration `yaml:"interval"`
	CRC      bool          `yaml:"crc"`
	Adapter  string        `yaml:"adapter"`
	Device   string        `yaml:"device"`
	// LedPin is the adapter GPIO pin signaling served requests; -1 disables
	// the LED. The generic adapter uses a gobot pin label instead.
	LedPin      int    `yaml:"led_pin"`
	GobotLedPin string `yaml:"gobot_led_pin"`
}

func loadServeConfig(c *cli.Context) (serveConfig, error) {
	cfg := serveConfig{
		Addr:     ":8080",
		Interval: time.Second,
		Adapter:  "mcp2221",
		Device:   "/dev/i2c-1",
		LedPin:   -1,
	}
	if path := c.String("config"); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return cfg, err
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return cfg, err
		}
	}
	if c.IsSet("addr") {
		cfg.Addr = c.String("addr")
	}
	if c.IsSet("interval") {
		cfg.Interval = c.Duration("interval")
	}
	if c.IsSet("crc") {
		cfg.CRC = c.Bool("crc")
	}
	if c.IsSet("adapter") {
		cfg.Adapter = c.String("adapter")
	}
	if c.IsSet("device") {
		cfg.Device = c.String("device")
	}
	if c.IsSet("led") {
		cfg.LedPin = c.Int("led")
	}
	return cfg, nil
}

var serveCmd = cli.Command{
	Name:  "serve",
	Usage: "poll the sensor and serve the latest reading as JSON over HTTP",
	Flags: append(busFlags(),
		&cli.StringFlag{
			Name:  "config",
			Usage: "YAML configuration file",
		},
		&cli.StringFlag{
			Name:  "addr",
			Value: ":8080",
			Usage: "listen address",
		},
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
		&cli.IntFlag{
			Name:  "led",
			Value: -1,
			Usage: "adapter GPIO pin of the request LED (mcp2221 only)",
		},
	),
	Action: func(c *cli.Context) error {
		ctx := console.SetVerbose(context.Background(), c.Bool("verbose"))
		ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		cfg, err := loadServeConfig(c)
		if err != nil {
			return console.Exit(1, "configuration error: %s", console.Red(err))
		}

		var opts []environment.AHT20Opt
		if cfg.CRC {
			opts = append(opts, environment.WithIntegrityCheck())
		}
		stOpts := []station.Opt{station.WithInterval(cfg.Interval)}

		var sensor *environment.AHT20
		switch cfg.Adapter {
		case "generic", "nanopi":
			bus, err := i2c.NewGenericBus(cfg.Device)
			if err != nil {
				return console.Exit(1, "adapter initialization error: %s", console.Red(err))
			}
			if c.IsSet("bus-speed") {
				if err := bus.SetSpeed(physic.Frequency(c.Int("bus-speed")) * physic.KiloHertz); err != nil {
					_ = bus.Close()
					return console.Exit(1, "bus speed error: %s", console.Red(err))
				}
			}
			defer func() {
				if err := bus.Close(); err != nil {
					console.Errorf("error closing bus: %s", console.Red(err))
				}
			}()
			sensor = environment.NewAHT20(bus, opts...)
			if cfg.GobotLedPin != "" {
				blinker, stopLed, err := newGobotBlinker(cfg.GobotLedPin)
				if err != nil {
					return console.Exit(1, "led initialization error: %s", console.Red(err))
				}
				defer stopLed()
				stOpts = append(stOpts, station.WithBlinker(blinker))
			}
		default:
			mcp2221 := adapter.NewMCP2221()
			if err := mcp2221.Init(); err != nil {
				return console.Exit(1, "adapter initialization error: %s", console.Red(err))
			}
			sensor = environment.NewAHT20(mcp2221, opts...)
			if cfg.LedPin >= 0 {
				blinker := adapter.NewGPIOBlinker(mcp2221, cfg.LedPin)
				if err := blinker.Configure(ctx); err != nil {
					return console.Exit(1, "led initialization error: %s", console.Red(err))
				}
				stOpts = append(stOpts, station.WithBlinker(blinker))
			}
		}

		st := station.NewStation(sensor, stOpts...)

		mux := http.NewServeMux()
		mux.Handle("/", st)
		server := &http.Server{Addr: cfg.Addr, Handler: mux}

		errs := make(chan error, 2)
		go func() {
			errs <- st.Run(ctx)
		}()
		go func() {
			console.PInfof(console.PictoAntenna, "serving readings on %s, polling every %s", cfg.Addr, cfg.Interval)
			errs <- server.ListenAndServe()
		}()

		select {
		case <-ctx.Done():
		case err := <-errs:
			if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, http.ErrServerClosed) {
				return console.Exit(1, "station error: %s", console.Red(err))
			}
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Warn("server shutdown failed", "error", err)
		}
		return nil
	},
}
