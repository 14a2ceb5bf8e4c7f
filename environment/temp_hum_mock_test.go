package environment

import (
	"context"
	"fmt"
	"testing"
)

func TestMockTemperatureAndHumiditySensor_StaticValues(t *testing.T) {
	sensor := NewMockTemperatureAndHumiditySensor(
		func(ctx context.Context) (float32, error) { return 22.5, nil },
		func(ctx context.Context) (float32, error) { return 45.0, nil },
	)

	ctx := context.Background()

	temp, err := sensor.GetTemperature(ctx)
	if err != nil {
		t.Fatalf("GetTemperature: unexpected error: %v", err)
	}
	if temp != 22.5 {
		t.Errorf("expected temperature 22.5, got %f", temp)
	}

	hum, err := sensor.GetHumidity(ctx)
	if err != nil {
		t.Fatalf("GetHumidity: unexpected error: %v", err)
	}
	if hum != 45.0 {
		t.Errorf("expected humidity 45.0, got %f", hum)
	}

	temp2, hum2, err := sensor.GetTempAndHum(ctx)
	if err != nil {
		t.Fatalf("GetTempAndHum: unexpected error: %v", err)
	}
	if temp2 != 22.5 || hum2 != 45.0 {
		t.Errorf("expected 22.5/45.0, got %f/%f", temp2, hum2)
	}
}

func TestMockTemperatureAndHumiditySensor_MeasureCaches(t *testing.T) {
	currentTemp := float32(20.0)
	currentHum := float32(50.0)

	sensor := NewMockTemperatureAndHumiditySensor(
		func(ctx context.Context) (float32, error) { return currentTemp, nil },
		func(ctx context.Context) (float32, error) { return currentHum, nil },
	)

	ctx := context.Background()

	if sensor.Temperature() != 0.0 || sensor.Humidity() != 0.0 {
		t.Errorf("expected zero defaults before first measurement, got %f/%f", sensor.Temperature(), sensor.Humidity())
	}

	if err := sensor.Measure(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sensor.Temperature() != 20.0 || sensor.Humidity() != 50.0 {
		t.Errorf("expected 20.0/50.0, got %f/%f", sensor.Temperature(), sensor.Humidity())
	}

	currentTemp = 25.0
	currentHum = 60.0

	if err := sensor.Measure(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sensor.Temperature() != 25.0 || sensor.Humidity() != 60.0 {
		t.Errorf("expected 25.0/60.0, got %f/%f", sensor.Temperature(), sensor.Humidity())
	}
}

func TestMockTemperatureAndHumiditySensor_MeasureErrorPreservesReading(t *testing.T) {
	fail := false
	sensor := NewMockTemperatureAndHumiditySensor(
		func(ctx context.Context) (float32, error) {
			if fail {
				return 0, fmt.Errorf("temperature sensor error")
			}
			return 21.0, nil
		},
		func(ctx context.Context) (float32, error) { return 55.0, nil },
	)

	ctx := context.Background()

	if err := sensor.Measure(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	fail = true
	if err := sensor.Measure(ctx); err == nil {
		t.Fatal("expected a measurement error")
	}
	if sensor.Temperature() != 21.0 || sensor.Humidity() != 55.0 {
		t.Errorf("failed measurement must preserve the previous reading, got %f/%f", sensor.Temperature(), sensor.Humidity())
	}
}

func TestMockTemperatureAndHumiditySensor_ContextUsage(t *testing.T) {
	var receivedTempCtx context.Context
	var receivedHumCtx context.Context

	sensor := NewMockTemperatureAndHumiditySensor(
		func(ctx context.Context) (float32, error) {
			receivedTempCtx = ctx
			return 20.0, nil
		},
		func(ctx context.Context) (float32, error) {
			receivedHumCtx = ctx
			return 50.0, nil
		},
	)

	type contextKey string
	key := contextKey("test")
	ctx := context.WithValue(context.Background(), key, "test-value")

	_, _, err := sensor.GetTempAndHum(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if receivedTempCtx.Value(key) != "test-value" {
		t.Error("context was not passed through to temperature behavior")
	}
	if receivedHumCtx.Value(key) != "test-value" {
		t.Error("context was not passed through to humidity behavior")
	}
}
