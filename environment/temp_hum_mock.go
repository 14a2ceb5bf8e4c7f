package environment

import (
	"context"
)

// TemperatureBehaviorFunc defines the function signature for temperature behavior.
// It returns the temperature in Celsius or an error.
type TemperatureBehaviorFunc func(ctx context.Context) (float32, error)

// HumidityBehaviorFunc defines the function signature for humidity behavior.
// It returns the relative humidity in %RH or an error.
type HumidityBehaviorFunc func(ctx context.Context) (float32, error)

// MockTemperatureAndHumiditySensor is a mock implementation of a temperature
// and humidity sensor that uses behavior functions to produce results without
// requiring any hardware. It exposes the same surface as the AHT20 driver so
// front-ends can be exercised against it.
type MockTemperatureAndHumiditySensor struct {
	tempBehavior TemperatureBehaviorFunc
	humBehavior  HumidityBehaviorFunc
	lastTemp     float32
	lastHum      float32
}

// NewMockTemperatureAndHumiditySensor creates a new mock temperature/humidity
// sensor with the given behavior functions.
//
// Example usage:
//
//	// Simple static values
//	sensor := NewMockTemperatureAndHumiditySensor(
//		func(ctx context.Context) (float32, error) { return 22.5, nil },
//		func(ctx context.Context) (float32, error) { return 45.0, nil },
//	)
func NewMockTemperatureAndHumiditySensor(tempBehavior TemperatureBehaviorFunc, humBehavior HumidityBehaviorFunc) *MockTemperatureAndHumiditySensor {
	return &MockTemperatureAndHumiditySensor{
		tempBehavior: tempBehavior,
		humBehavior:  humBehavior,
	}
}

// Initialize is a no-op; the mock is always calibrated.
func (m *MockTemperatureAndHumiditySensor) Initialize(ctx context.Context) error {
	return nil
}

// Measure invokes both behavior functions and caches the results. On error
// the previously cached values are left untouched, matching driver semantics.
func (m *MockTemperatureAndHumiditySensor) Measure(ctx context.Context) error {
	temp, err := m.tempBehavior(ctx)
	if err != nil {
		return err
	}
	hum, err := m.humBehavior(ctx)
	if err != nil {
		return err
	}
	m.lastTemp = temp
	m.lastHum = hum
	return nil
}

// Temperature returns the last value produced by Measure.
func (m *MockTemperatureAndHumiditySensor) Temperature() float32 {
	return m.lastTemp
}

// Humidity returns the last value produced by Measure.
func (m *MockTemperatureAndHumiditySensor) Humidity() float32 {
	return m.lastHum
}

// GetTemperature returns the temperature by calling the temperature behavior function.
func (m *MockTemperatureAndHumiditySensor) GetTemperature(ctx context.Context) (float32, error) {
	return m.tempBehavior(ctx)
}

// GetHumidity returns the humidity by calling the humidity behavior function.
func (m *MockTemperatureAndHumiditySensor) GetHumidity(ctx context.Context) (float32, error) {
	return m.humBehavior(ctx)
}

// GetTempAndHum returns both temperature and humidity by calling both behavior functions.
func (m *MockTemperatureAndHumiditySensor) GetTempAndHum(ctx context.Context) (float32, float32, error) {
	temp, err := m.tempBehavior(ctx)
	if err != nil {
		return 0, 0, err
	}
	hum, err := m.humBehavior(ctx)
	if err != nil {
		return 0, 0, err
	}
	return temp, hum, nil
}

// NewMockAHT20 creates a new mock AHT20 sensor (alias for NewMockTemperatureAndHumiditySensor).
func NewMockAHT20(tempBehavior TemperatureBehaviorFunc, humBehavior HumidityBehaviorFunc) *MockTemperatureAndHumiditySensor {
	return NewMockTemperatureAndHumiditySensor(tempBehavior, humBehavior)
}
