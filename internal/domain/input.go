package domain

import (
	"fmt"
	"time"
)

// Form ranges for the numeric inputs.
const (
	MinHour        = 0
	MaxHour        = 23
	MinTemperature = -10.0
	MaxTemperature = 40.0
	MinHumidity    = 0.0
	MaxHumidity    = 100.0
	MinWindspeed   = 0.0
	MaxWindspeed   = 70.0
)

// RawInput holds the readings a user supplies for one prediction.
type RawInput struct {
	Hour        int     `json:"hour"`
	Temperature float64 `json:"temperature"` // °C
	Humidity    float64 `json:"humidity"`    // %
	Windspeed   float64 `json:"windspeed"`   // km/h
	Season      string  `json:"season"`
	Weather     string  `json:"weather"`
	Weekday     string  `json:"weekday"`

	// Date supplies month and year. A zero Date is stamped with the clock's
	// current time by WithCurrentDate.
	Date time.Time `json:"date,omitzero"`
}

// DefaultInput returns the form's initial values. The weekday defaults to today.
func DefaultInput() RawInput {
	today := now()
	return RawInput{
		Hour:        17,
		Temperature: 28.0,
		Humidity:    60.0,
		Windspeed:   15.0,
		Season:      SeasonSpring.String(),
		Weather:     WeatherClear.String(),
		Weekday:     WeekdayOf(today).String(),
		Date:        today,
	}
}

// WithCurrentDate returns in with Date set to the clock's current time if unset.
func (in RawInput) WithCurrentDate() RawInput {
	if in.Date.IsZero() {
		in.Date = now()
	}
	return in
}

// Validate checks the numeric inputs against the form ranges. Labels are not
// checked here; Derive reports unknown labels as a *LookupError.
func (in RawInput) Validate() error {
	if in.Hour < MinHour || in.Hour > MaxHour {
		return fmt.Errorf("hour %d: %w [%d, %d]", in.Hour, ErrOutOfRange, MinHour, MaxHour)
	}
	if !inRange(in.Temperature, MinTemperature, MaxTemperature) {
		return fmt.Errorf("temperature %g: %w [%g, %g]", in.Temperature, ErrOutOfRange, MinTemperature, MaxTemperature)
	}
	if !inRange(in.Humidity, MinHumidity, MaxHumidity) {
		return fmt.Errorf("humidity %g: %w [%g, %g]", in.Humidity, ErrOutOfRange, MinHumidity, MaxHumidity)
	}
	if !inRange(in.Windspeed, MinWindspeed, MaxWindspeed) {
		return fmt.Errorf("windspeed %g: %w [%g, %g]", in.Windspeed, ErrOutOfRange, MinWindspeed, MaxWindspeed)
	}
	return nil
}

// inRange is false for NaN.
func inRange(x, lo, hi float64) bool {
	return x >= lo && x <= hi
}
