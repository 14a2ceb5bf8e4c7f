package environment

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/mklimuk/climate"
)

// AHT20 I2C address (7-bit)
const aht20Address = 0x38

// Commands (per datasheet)
var (
	aht20CmdInit      = []byte{0xBE, 0x08, 0x00}
	aht20CmdMeasure   = []byte{0xAC, 0x33, 0x00}
	aht20CmdSoftReset = []byte{0xBA}
	aht20CmdStatus    = []byte{0x71}
)

// Hardware-mandated minimum settle times between a command and the device
// being ready to respond.
const (
	aht20InitSettle    = 10 * time.Millisecond
	aht20MeasureSettle = 80 * time.Millisecond
	aht20ResetSettle   = 20 * time.Millisecond
)

// Status byte bit definitions:
// Bit7: busy (1 = conversion in progress)
// Bit3: calibrated (1 = calibration done, measurements valid)
const (
	aht20StatusBusy       byte = 0x80
	aht20StatusCalibrated byte = 0x08
)

// Measurement frame length; one extra byte when the CRC is transmitted.
const (
	aht20FrameLen    = 6
	aht20FrameLenCRC = 7
)

var ErrNotCalibrated = fmt.Errorf("aht20: sensor is not calibrated")
var ErrDeviceBusy = fmt.Errorf("aht20: conversion not finished (busy bit set)")
var ErrIntegrityCheck = fmt.Errorf("aht20: frame crc mismatch")

type AHT20Opts struct {
	IntegrityCheck bool
}

type AHT20Opt func(*AHT20Opts)

// WithIntegrityCheck makes the driver request the 7-byte measurement frame
// and validate the trailing CRC-8 on every read.
func WithIntegrityCheck() AHT20Opt {
	return func(o *AHT20Opts) {
		o.IntegrityCheck = true
	}
}

// AHT20 represents the Aosong AHT20 temperature/humidity sensor.
// Typical usage:
//
//	s := NewAHT20(bus)
//	if err := s.Initialize(ctx); err != nil { ... }
//	t, h, err := s.GetTempAndHum(ctx)
//
// The decoded reading is only updated by a successful measurement cycle;
// accessors return the previous reading (or the zero default) until one
// completes. The driver issues one best-effort attempt per operation, the
// caller owns the retry policy. Concurrent use from multiple goroutines is
// serialized internally so a measurement read always immediately follows
// its trigger with no interleaved traffic to the device.
type AHT20 struct {
	mx         sync.Mutex
	config     AHT20Opts
	transport  climate.I2CBus
	addr       byte
	calibrated bool
	lastTemp   float32
	lastHum    float32
}

func NewAHT20(transport climate.I2CBus, opts ...AHT20Opt) *AHT20 {
	var config AHT20Opts
	for _, opt := range opts {
		opt(&config)
	}
	return &AHT20{
		config:    config,
		transport: transport,
		addr:      aht20Address,
	}
}

// Initialize checks the calibration state of the sensor and calibrates it if
// needed. When the calibrated bit is already set the init command is not
// resent, so calling Initialize on a calibrated device is a no-op success.
func (s *AHT20) Initialize(ctx context.Context) error {
	s.mx.Lock()
	defer s.mx.Unlock()
	if s.calibrated {
		return nil
	}
	status, err := s.readStatus(ctx)
	if err != nil {
		return fmt.Errorf("aht20: status read failed: %w", err)
	}
	if status&aht20StatusCalibrated != 0 {
		s.calibrated = true
		return nil
	}
	if err := s.transport.WriteToAddr(ctx, s.addr, aht20CmdInit); err != nil {
		return fmt.Errorf("aht20: init command failed: %w", err)
	}
	if err := settle(ctx, aht20InitSettle); err != nil {
		return err
	}
	status, err = s.readStatus(ctx)
	if err != nil {
		return fmt.Errorf("aht20: status read failed: %w", err)
	}
	if status&aht20StatusCalibrated == 0 {
		return ErrNotCalibrated
	}
	s.calibrated = true
	return nil
}

// Reset soft-resets the sensor back to its power-on state. Initialize must
// be called again before measuring.
func (s *AHT20) Reset(ctx context.Context) error {
	s.mx.Lock()
	defer s.mx.Unlock()
	if err := s.transport.WriteToAddr(ctx, s.addr, aht20CmdSoftReset); err != nil {
		return fmt.Errorf("aht20: soft reset failed: %w", err)
	}
	s.calibrated = false
	return settle(ctx, aht20ResetSettle)
}

// Status returns the raw status byte of the sensor.
func (s *AHT20) Status(ctx context.Context) (byte, error) {
	s.mx.Lock()
	defer s.mx.Unlock()
	return s.readStatus(ctx)
}

// Measure triggers a measurement cycle, waits out the conversion time and
// decodes the returned frame. On any failure the previous decoded reading is
// left untouched.
func (s *AHT20) Measure(ctx context.Context) error {
	s.mx.Lock()
	defer s.mx.Unlock()
	if !s.calibrated {
		return ErrNotCalibrated
	}
	if err := s.transport.WriteToAddr(ctx, s.addr, aht20CmdMeasure); err != nil {
		return fmt.Errorf("aht20: measure command failed: %w", err)
	}
	if err := settle(ctx, aht20MeasureSettle); err != nil {
		return err
	}
	frame := make([]byte, aht20FrameLen)
	if s.config.IntegrityCheck {
		frame = make([]byte, aht20FrameLenCRC)
	}
	if err := s.transport.ReadFromAddr(ctx, s.addr, frame); err != nil {
		return fmt.Errorf("aht20: frame read failed: %w", err)
	}
	if frame[0]&aht20StatusBusy != 0 {
		return ErrDeviceBusy
	}
	if s.config.IntegrityCheck {
		if crc := checkCRC(frame[:aht20FrameLen]); crc != frame[aht20FrameLen] {
			return fmt.Errorf("%w: expected %#x, got %#x", ErrIntegrityCheck, frame[aht20FrameLen], crc)
		}
	}
	s.lastHum = convertHumidity(rawHumidity(frame))
	s.lastTemp = convertTemperature(rawTemperature(frame))
	return nil
}

// Temperature returns the last decoded temperature in Celsius without any
// bus traffic. The value is stale until a measurement succeeds.
func (s *AHT20) Temperature() float32 {
	s.mx.Lock()
	defer s.mx.Unlock()
	return s.lastTemp
}

// TemperatureF returns the last decoded temperature in Fahrenheit.
func (s *AHT20) TemperatureF() float32 {
	s.mx.Lock()
	defer s.mx.Unlock()
	return s.lastTemp*1.8 + 32
}

// Humidity returns the last decoded relative humidity in %RH without any
// bus traffic. The value is stale until a measurement succeeds.
func (s *AHT20) Humidity() float32 {
	s.mx.Lock()
	defer s.mx.Unlock()
	return s.lastHum
}

// GetTemperature performs a single measurement and returns temperature in Celsius.
func (s *AHT20) GetTemperature(ctx context.Context) (float32, error) {
	err := s.Measure(ctx)
	return s.Temperature(), err
}

// GetHumidity performs a single measurement and returns relative humidity in %RH.
func (s *AHT20) GetHumidity(ctx context.Context) (float32, error) {
	err := s.Measure(ctx)
	return s.Humidity(), err
}

// GetTempAndHum performs a single measurement and returns temperature and humidity.
func (s *AHT20) GetTempAndHum(ctx context.Context) (float32, float32, error) {
	err := s.Measure(ctx)
	return s.Temperature(), s.Humidity(), err
}

func (s *AHT20) readStatus(ctx context.Context) (byte, error) {
	if err := s.transport.WriteToAddr(ctx, s.addr, aht20CmdStatus); err != nil {
		return 0, err
	}
	status := make([]byte, 1)
	if err := s.transport.ReadFromAddr(ctx, s.addr, status); err != nil {
		return 0, err
	}
	return status[0], nil
}

// settle blocks for a hardware-mandated delay, honoring context cancellation.
func settle(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// rawHumidity extracts the 20-bit humidity field: bytes 1-2 plus the high
// nibble of byte 3.
func rawHumidity(frame []byte) uint32 {
	return uint32(frame[1])<<12 | uint32(frame[2])<<4 | uint32(frame[3])>>4
}

// rawTemperature extracts the 20-bit temperature field: the low nibble of
// byte 3 plus bytes 4-5.
func rawTemperature(frame []byte) uint32 {
	return uint32(frame[3]&0x0F)<<16 | uint32(frame[4])<<8 | uint32(frame[5])
}

// Conversion formulas from datasheet
// RH(%) = raw / 2^20 * 100
// T(C)  = raw / 2^20 * 200 - 50
func convertHumidity(raw uint32) float32 {
	return float32(float64(raw) * 100.0 / 0x100000)
}

func convertTemperature(raw uint32) float32 {
	return float32(float64(raw)*200.0/0x100000 - 50.0)
}

// checkCRC calculates CRC8 checksum with initial value 0xFF and polynomial
// 0x31 (x8 + x5 + x4 + 1) over the first six frame bytes.
func checkCRC(data []byte) byte {
	crc := byte(0xFF)
	for _, b := range data {
		crc ^= b
		for range 8 {
			if crc&0x80 != 0 {
				crc = (crc << 1) ^ 0x31
			} else {
				crc = crc << 1
			}
		}
	}
	return crc
}
