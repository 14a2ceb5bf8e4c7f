// Package station is the serving front-end for a temperature/humidity
// sensor: one polling task owns the device, keeps the latest successful
// reading and renders it to HTTP clients as JSON. A failed poll never
// clears the previous reading, the next cycle simply tries again.
package station

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"
)

// TempHumSensor is the narrow driver contract the station relies on. The
// *environment.AHT20 driver and the environment mock both satisfy it.
type TempHumSensor interface {
	Initialize(ctx context.Context) error
	Measure(ctx context.Context) error
	Temperature() float32
	Humidity() float32
}

// Blinker signals request activity, typically on a LED.
type Blinker interface {
	Blink(ctx context.Context, times int) error
}

// Reading is a decoded measurement snapshot.
type Reading struct {
	Temperature float32
	Humidity    float32
	Taken       time.Time
}

// JSON renders the reading with one decimal per field, CRLF-terminated.
func (r Reading) JSON() []byte {
	return fmt.Appendf(nil, "{\"temperature\": %.1f, \"humidity\": %.1f}\r\n", r.Temperature, r.Humidity)
}

type Opt func(*Station)

func WithInterval(interval time.Duration) Opt {
	return func(s *Station) {
		s.interval = interval
	}
}

func WithBlinker(b Blinker) Opt {
	return func(s *Station) {
		s.blinker = b
	}
}

// Station owns the sensor exclusively; all device traffic goes through its
// polling loop so a measurement read always directly follows its trigger.
type Station struct {
	sensor   TempHumSensor
	blinker  Blinker
	interval time.Duration

	mx   sync.RWMutex
	last Reading
}

func NewStation(sensor TempHumSensor, opts ...Opt) *Station {
	s := &Station{
		sensor:   sensor,
		interval: time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run initializes the sensor and polls it until the context is cancelled.
// Poll failures are logged and the previous reading stays in place.
func (s *Station) Run(ctx context.Context) error {
	if err := s.sensor.Initialize(ctx); err != nil {
		return fmt.Errorf("sensor initialization failed: %w", err)
	}
	s.Poll(ctx)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.Poll(ctx)
		}
	}
}

// Poll performs a single measurement cycle and caches the result.
func (s *Station) Poll(ctx context.Context) {
	if err := s.sensor.Measure(ctx); err != nil {
		slog.Warn("measurement failed, keeping previous reading", "error", err)
		return
	}
	s.mx.Lock()
	s.last = Reading{
		Temperature: s.sensor.Temperature(),
		Humidity:    s.sensor.Humidity(),
		Taken:       time.Now(),
	}
	s.mx.Unlock()
}

// Last returns the most recent successful reading, or the zero reading if
// no measurement has succeeded yet.
func (s *Station) Last() Reading {
	s.mx.RLock()
	defer s.mx.RUnlock()
	return s.last
}

// ServeHTTP renders the latest reading. The body is the same JSON document
// the console front-end prints, so failed polls are invisible to clients
// beyond a stale timestamp.
func (s *Station) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body := s.Last().JSON()
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Length", fmt.Sprintf("%d", len(body)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
	if s.blinker != nil {
		go func() {
			if err := s.blinker.Blink(context.WithoutCancel(r.Context()), 2); err != nil {
				slog.Debug("request signaling failed", "error", err)
			}
		}()
	}
}
