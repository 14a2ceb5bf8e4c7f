package station

import (
	"context"
	"fmt"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/mklimuk/climate/environment"
)

type countingBlinker struct {
	mx    sync.Mutex
	calls int
	times int
}

func (b *countingBlinker) Blink(ctx context.Context, times int) error {
	b.mx.Lock()
	defer b.mx.Unlock()
	b.calls++
	b.times = times
	return nil
}

func TestReading_JSON(t *testing.T) {
	tests := []struct {
		given    Reading
		expected string
	}{
		{Reading{}, "{\"temperature\": 0.0, \"humidity\": 0.0}\r\n"},
		{Reading{Temperature: 19.445801, Humidity: 45.828247}, "{\"temperature\": 19.4, \"humidity\": 45.8}\r\n"},
		{Reading{Temperature: -7.25, Humidity: 100.0}, "{\"temperature\": -7.2, \"humidity\": 100.0}\r\n"},
	}
	for _, test := range tests {
		t.Run(test.expected, func(t *testing.T) {
			assert.Equal(t, test.expected, string(test.given.JSON()))
		})
	}
}

func TestStation_PollCachesReading(t *testing.T) {
	sensor := environment.NewMockAHT20(
		func(ctx context.Context) (float32, error) { return 22.5, nil },
		func(ctx context.Context) (float32, error) { return 45.0, nil },
	)
	st := NewStation(sensor)
	assert.NoError(t, sensor.Initialize(context.Background()))

	st.Poll(context.Background())

	last := st.Last()
	assert.Equal(t, float32(22.5), last.Temperature)
	assert.Equal(t, float32(45.0), last.Humidity)
	assert.WithinDuration(t, time.Now(), last.Taken, time.Second)
}

func TestStation_FailedPollKeepsPreviousReading(t *testing.T) {
	fail := false
	sensor := environment.NewMockAHT20(
		func(ctx context.Context) (float32, error) {
			if fail {
				return 0, fmt.Errorf("bus timeout")
			}
			return 21.0, nil
		},
		func(ctx context.Context) (float32, error) { return 55.0, nil },
	)
	st := NewStation(sensor)

	st.Poll(context.Background())
	first := st.Last()

	fail = true
	st.Poll(context.Background())

	assert.Equal(t, first, st.Last())
}

func TestStation_ServeHTTP(t *testing.T) {
	sensor := environment.NewMockAHT20(
		func(ctx context.Context) (float32, error) { return 19.445801, nil },
		func(ctx context.Context) (float32, error) { return 45.828247, nil },
	)
	blinker := &countingBlinker{}
	st := NewStation(sensor, WithBlinker(blinker))
	st.Poll(context.Background())

	rec := httptest.NewRecorder()
	st.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))

	expected := "{\"temperature\": 19.4, \"humidity\": 45.8}\r\n"
	assert.Equal(t, 200, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, fmt.Sprintf("%d", len(expected)), rec.Header().Get("Content-Length"))
	assert.Equal(t, expected, rec.Body.String())

	// request signaling is asynchronous
	assert.Eventually(t, func() bool {
		blinker.mx.Lock()
		defer blinker.mx.Unlock()
		return blinker.calls == 1 && blinker.times == 2
	}, time.Second, 10*time.Millisecond)
}

func TestStation_ServeHTTPBeforeFirstMeasurement(t *testing.T) {
	sensor := environment.NewMockAHT20(
		func(ctx context.Context) (float32, error) { return 0, fmt.Errorf("device absent") },
		func(ctx context.Context) (float32, error) { return 0, fmt.Errorf("device absent") },
	)
	st := NewStation(sensor)

	rec := httptest.NewRecorder()
	st.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))

	// zero default reading until a measurement succeeds
	assert.Equal(t, "{\"temperature\": 0.0, \"humidity\": 0.0}\r\n", rec.Body.String())
}

func TestStation_RunPollsUntilCancelled(t *testing.T) {
	polls := 0
	sensor := environment.NewMockAHT20(
		func(ctx context.Context) (float32, error) {
			polls++
			return 20.0, nil
		},
		func(ctx context.Context) (float32, error) { return 50.0, nil },
	)
	st := NewStation(sensor, WithInterval(10*time.Millisecond))

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	err := st.Run(ctx)

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.GreaterOrEqual(t, polls, 2)
	assert.Equal(t, float32(20.0), st.Last().Temperature)
}
