package main

import (
	"context"
	"fmt"
	"time"

	"gobot.io/x/gobot/v2/drivers/gpio"
	"gobot.io/x/gobot/v2/platforms/friendlyelec/nanopi"
)

// gobotBlinker drives a LED wired to a nanopi GPIO pin through gobot. It is
// the request-signaling counterpart of adapter.GPIOBlinker for the generic
// bus path.
type gobotBlinker struct {
	led   *gpio.LedDriver
	pulse time.Duration
}

func newGobotBlinker(pin string) (*gobotBlinker, func(), error) {
	npi := nanopi.NewNeoAdaptor()
	if err := npi.Connect(); err != nil {
		return nil, func() {}, fmt.Errorf("adaptor connect error: %w", err)
	}
	led := gpio.NewLedDriver(npi, pin)
	if err := led.Start(); err != nil {
		_ = npi.Finalize()
		return nil, func() {}, fmt.Errorf("led driver start error: %w", err)
	}
	stop := func() {
		_ = led.Halt()
		_ = npi.Finalize()
	}
	return &gobotBlinker{led: led, pulse: 150 * time.Millisecond}, stop, nil
}

func (b *gobotBlinker) Blink(ctx context.Context, times int) error {
	for range times {
		if err := b.led.On(); err != nil {
			return err
		}
		time.Sleep(b.pulse)
		if err := b.led.Off(); err != nil {
			return err
		}
		time.Sleep(b.pulse)
	}
	return nil
}
