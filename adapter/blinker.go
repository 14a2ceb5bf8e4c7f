package adapter

import (
	"context"
	"fmt"
	"time"
)

// GPIOBlinker pulses a LED wired to one of the adapter's GPIO pins. The pin
// must be configured for GPIO output operation (see SetGPIOParameters)
// before blinking.
type GPIOBlinker struct {
	dev   *MCP2221
	pin   int
	pulse time.Duration
}

func NewGPIOBlinker(dev *MCP2221, pin int) *GPIOBlinker {
	return &GPIOBlinker{
		dev:   dev,
		pin:   pin,
		pulse: 150 * time.Millisecond,
	}
}

// Configure switches the blinker pin to GPIO output operation, leaving the
// remaining pins untouched.
func (b *GPIOBlinker) Configure(ctx context.Context) error {
	params, err := b.dev.GetGPIOParameters(ctx)
	if err != nil {
		return fmt.Errorf("could not read GP parameters: %w", err)
	}
	switch b.pin {
	case 0:
		params.GPIO0Mode, params.GPIO0Designation = GPIOModeOut, GPIOOperation
	case 1:
		params.GPIO1Mode, params.GPIO1Designation = GPIOModeOut, GPIOOperation
	case 2:
		params.GPIO2Mode, params.GPIO2Designation = GPIOModeOut, GPIOOperation
	case 3:
		params.GPIO3Mode, params.GPIO3Designation = GPIOModeOut, GPIOOperation
	default:
		return fmt.Errorf("invalid GPIO pin %d", b.pin)
	}
	return b.dev.SetGPIOParameters(ctx, params)
}

// Blink pulses the LED the given number of times. Errors from individual
// toggles abort the sequence; signaling is best effort and the caller
// usually ignores the result.
func (b *GPIOBlinker) Blink(ctx context.Context, times int) error {
	for range times {
		if err := b.dev.SetGPIOValue(ctx, b.pin, 1); err != nil {
			return err
		}
		time.Sleep(b.pulse)
		if err := b.dev.SetGPIOValue(ctx, b.pin, 0); err != nil {
			return err
		}
		time.Sleep(b.pulse)
	}
	return nil
}
