package domain

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testDate = time.Date(2024, time.April, 26, 12, 30, 0, 0, time.UTC)

func scenarioA() RawInput {
	return RawInput{
		Hour:        17,
		Temperature: 28.0,
		Humidity:    60.0,
		Windspeed:   15.0,
		Season:      "Fall",
		Weather:     "Clear",
		Weekday:     "Friday",
		Date:        testDate,
	}
}

func TestDerive_ScenarioA(t *testing.T) {
	got, err := Derive(scenarioA())
	require.NoError(t, err)

	want := FeatureVector{
		Season:         3,
		Hour:           17,
		Holiday:        0,
		WorkingDay:     1,
		WeatherSit:     1,
		TempNorm:       28.0 / 41.0,
		HumNorm:        0.6,
		WindNorm:       15.0 / 67.0,
		Month:          4,
		DayOfWeek:      4,
		YearOffset:     13,
		RushHours:      1,
		PartOfDay:      3,
		DayInteraction: 31,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("feature vector mismatch (-want +got):\n%s", diff)
	}
}

func TestDerive_WeekendIgnoresHour(t *testing.T) {
	for _, weekday := range []string{"Saturday", "Sunday"} {
		for hour := MinHour; hour <= MaxHour; hour++ {
			in := scenarioA()
			in.Weekday = weekday
			in.Hour = hour

			f, err := Derive(in)
			require.NoError(t, err)

			assert.Equal(t, 0, f.WorkingDay, "%s %02d:00", weekday, hour)
			assert.Equal(t, 1, f.Holiday, "%s %02d:00", weekday, hour)
			assert.Equal(t, 0, f.RushHours, "%s %02d:00", weekday, hour)
		}
	}
}

func TestDerive_SaturdayCode(t *testing.T) {
	in := scenarioA()
	in.Weekday = "Saturday"

	f, err := Derive(in)
	require.NoError(t, err)

	assert.Equal(t, 5, f.DayOfWeek)
	assert.Equal(t, 0, f.WorkingDay)
	assert.Equal(t, 1, f.Holiday)
	assert.Equal(t, 30, f.DayInteraction)
}

func TestDerive_NightOutsideRushSet(t *testing.T) {
	in := scenarioA()
	in.Hour = 2

	f, err := Derive(in)
	require.NoError(t, err)

	assert.Equal(t, 1, f.WorkingDay)
	assert.Equal(t, PartNight, f.PartOfDay)
	assert.Equal(t, 0, f.RushHours)
	assert.Equal(t, 41, f.DayInteraction)
}

func TestDerive_MonthAndYearFromDate(t *testing.T) {
	in := scenarioA()
	in.Date = time.Date(2011, time.December, 31, 23, 0, 0, 0, time.UTC)

	f, err := Derive(in)
	require.NoError(t, err)

	assert.Equal(t, 12, f.Month)
	assert.Equal(t, 0, f.YearOffset)
}

func TestDerive_UnknownLabels(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*RawInput)
		category string
	}{
		{"season", func(in *RawInput) { in.Season = "Monsoon" }, "season"},
		{"weather", func(in *RawInput) { in.Weather = "Snow" }, "weather"},
		{"weekday", func(in *RawInput) { in.Weekday = "Funday" }, "weekday"},
		{"case sensitive", func(in *RawInput) { in.Weekday = "friday" }, "weekday"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := scenarioA()
			tt.mutate(&in)

			_, err := Derive(in)
			require.ErrorIs(t, err, ErrLabelNotFound)

			var lookupErr *LookupError
			require.ErrorAs(t, err, &lookupErr)
			assert.Equal(t, tt.category, lookupErr.Category)
		})
	}
}

func TestDerivePartOfDay(t *testing.T) {
	tests := []struct {
		hour     int
		expected int
	}{
		{0, PartNight}, {1, PartNight}, {2, PartNight}, {3, PartNight}, {4, PartNight},
		{5, PartMorning}, {6, PartMorning}, {7, PartMorning}, {8, PartMorning},
		{9, PartMorning}, {10, PartMorning}, {11, PartMorning},
		{12, PartAfternoon}, {13, PartAfternoon}, {14, PartAfternoon},
		{15, PartAfternoon}, {16, PartAfternoon},
		{17, PartEvening}, {18, PartEvening}, {19, PartEvening},
		{20, PartEvening}, {21, PartEvening},
		{22, PartNight}, {23, PartNight},
	}

	require.Len(t, tests, 24)
	for _, tt := range tests {
		assert.Equal(t, tt.expected, derivePartOfDay(tt.hour), "hour %d", tt.hour)
	}
}

func TestDeriveRushHours(t *testing.T) {
	rush := map[int]bool{7: true, 8: true, 9: true, 16: true, 17: true, 18: true, 19: true}

	for hour := MinHour; hour <= MaxHour; hour++ {
		want := 0
		if rush[hour] {
			want = 1
		}
		assert.Equal(t, want, deriveRushHours(hour, 1), "working day hour %d", hour)
		assert.Equal(t, 0, deriveRushHours(hour, 0), "non-working day hour %d", hour)
	}
}

func TestDayInteraction_AllPairs(t *testing.T) {
	for _, weekday := range Weekdays() {
		for hour := MinHour; hour <= MaxHour; hour++ {
			in := scenarioA()
			in.Weekday = weekday.String()
			in.Hour = hour

			f, err := Derive(in)
			require.NoError(t, err)

			assert.Equal(t, f.PartOfDay*10+f.WorkingDay, f.DayInteraction)
			assert.Contains(t, []int{10, 11, 20, 21, 30, 31, 40, 41}, f.DayInteraction)
		}
	}
}

func TestDerive_NormalizationRanges(t *testing.T) {
	tests := []struct {
		name     string
		temp     float64
		hum      float64
		wind     float64
		wantTemp float64
		wantHum  float64
		wantWind float64
	}{
		{"minimums", MinTemperature, MinHumidity, MinWindspeed, -0.2439, 0, 0},
		{"maximums", MaxTemperature, MaxHumidity, MaxWindspeed, 0.9756, 1, 1.0448},
		{"midpoints", 15, 50, 33.5, 0.3659, 0.5, 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := scenarioA()
			in.Temperature = tt.temp
			in.Humidity = tt.hum
			in.Windspeed = tt.wind

			f, err := Derive(in)
			require.NoError(t, err)

			assert.InDelta(t, tt.wantTemp, f.TempNorm, 0.0001)
			assert.InDelta(t, tt.wantHum, f.HumNorm, 0.0001)
			assert.InDelta(t, tt.wantWind, f.WindNorm, 0.0001)
		})
	}
}

func TestFeatureVector_ValuesOrder(t *testing.T) {
	f, err := Derive(scenarioA())
	require.NoError(t, err)

	values := f.Values()
	require.Len(t, values, len(FeatureNames))
	assert.Equal(t, []float64{
		3, 17, 0, 1, 1,
		28.0 / 41.0, 0.6, 15.0 / 67.0,
		4, 4, 13,
		1, 3, 31,
	}, values)

	named := f.Named()
	assert.Len(t, named, 14)
	assert.Equal(t, 17.0, named["hr"])
	assert.Equal(t, 13.0, named["year"])
	assert.Equal(t, 31.0, named["day_interaction"])
}
