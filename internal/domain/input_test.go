package domain

import (
	"math"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRawInput_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*RawInput)
		field  string
	}{
		{"valid", func(*RawInput) {}, ""},
		{"hour at bounds", func(in *RawInput) { in.Hour = 23 }, ""},
		{"extremes", func(in *RawInput) {
			in.Temperature = -10
			in.Humidity = 100
			in.Windspeed = 70
		}, ""},
		{"negative hour", func(in *RawInput) { in.Hour = -1 }, "hour"},
		{"hour 24", func(in *RawInput) { in.Hour = 24 }, "hour"},
		{"too cold", func(in *RawInput) { in.Temperature = -10.5 }, "temperature"},
		{"too hot", func(in *RawInput) { in.Temperature = 41 }, "temperature"},
		{"humidity over 100", func(in *RawInput) { in.Humidity = 100.1 }, "humidity"},
		{"negative wind", func(in *RawInput) { in.Windspeed = -1 }, "windspeed"},
		{"gale", func(in *RawInput) { in.Windspeed = 70.5 }, "windspeed"},
		{"nan temperature", func(in *RawInput) { in.Temperature = math.NaN() }, "temperature"},
		{"nan humidity", func(in *RawInput) { in.Humidity = math.NaN() }, "humidity"},
		{"nan wind", func(in *RawInput) { in.Windspeed = math.NaN() }, "windspeed"},
		{"infinite temperature", func(in *RawInput) { in.Temperature = math.Inf(1) }, "temperature"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := scenarioA()
			tt.mutate(&in)

			err := in.Validate()
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, ErrOutOfRange)
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}

func TestRawInput_WithCurrentDate(t *testing.T) {
	fixedTime := time.Date(2025, time.July, 4, 8, 0, 0, 0, time.UTC)
	SetClock(clockwork.NewFakeClockAt(fixedTime))
	t.Cleanup(func() { SetClock(nil) })

	t.Run("zero date is stamped", func(t *testing.T) {
		in := scenarioA()
		in.Date = time.Time{}
		assert.Equal(t, fixedTime, in.WithCurrentDate().Date)
	})

	t.Run("explicit date is kept", func(t *testing.T) {
		in := scenarioA()
		assert.Equal(t, testDate, in.WithCurrentDate().Date)
	})
}

func TestDefaultInput(t *testing.T) {
	// 2024-04-24 is a Wednesday.
	fixedTime := time.Date(2024, time.April, 24, 10, 0, 0, 0, time.UTC)
	SetClock(clockwork.NewFakeClockAt(fixedTime))
	t.Cleanup(func() { SetClock(nil) })

	in := DefaultInput()

	assert.Equal(t, 17, in.Hour)
	assert.Equal(t, 28.0, in.Temperature)
	assert.Equal(t, 60.0, in.Humidity)
	assert.Equal(t, 15.0, in.Windspeed)
	assert.Equal(t, "Spring", in.Season)
	assert.Equal(t, "Clear", in.Weather)
	assert.Equal(t, "Wednesday", in.Weekday)
	assert.Equal(t, fixedTime, in.Date)
	assert.NoError(t, in.Validate())
}

func TestSetClock(t *testing.T) {
	t.Run("set custom clock", func(t *testing.T) {
		fixedTime := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		SetClock(clockwork.NewFakeClockAt(fixedTime))
		assert.Equal(t, fixedTime, clock.Now())

		SetClock(nil)
	})

	t.Run("reset to real clock", func(t *testing.T) {
		SetClock(clockwork.NewFakeClockAt(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)))
		SetClock(nil)

		got := now()
		assert.True(t, time.Since(got) < time.Second)
	})

	t.Run("restore previous clock", func(t *testing.T) {
		outer := time.Date(2023, 6, 1, 12, 0, 0, 0, time.UTC)
		restoreOuter := SetClock(clockwork.NewFakeClockAt(outer))
		t.Cleanup(restoreOuter)

		restore := SetClock(clockwork.NewFakeClockAt(time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)))
		assert.Equal(t, 2030, now().Year())

		restore()
		assert.Equal(t, outer, now())
		assert.Equal(t, outer, RawInput{}.WithCurrentDate().Date)
	})
}
