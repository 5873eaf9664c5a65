package domain

import "time"

// Season is the model's season code.
type Season int

const (
	SeasonSpring Season = iota + 1
	SeasonSummer
	SeasonFall
	SeasonWinter
)

// Weather is the model's weathersit code.
type Weather int

const (
	WeatherClear Weather = iota + 1
	WeatherMist
	WeatherLightRain
	WeatherHeavyRain
)

// Weekday is the model's day_of_week code. Unlike time.Weekday, weeks start on Monday.
type Weekday int

const (
	Monday Weekday = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

var (
	seasonLabels = map[Season]string{
		SeasonSpring: "Spring",
		SeasonSummer: "Summer",
		SeasonFall:   "Fall",
		SeasonWinter: "Winter",
	}
	weatherLabels = map[Weather]string{
		WeatherClear:     "Clear",
		WeatherMist:      "Mist/Cloudy",
		WeatherLightRain: "Light Rain",
		WeatherHeavyRain: "Heavy Rain",
	}
	weekdayLabels = map[Weekday]string{
		Monday:    "Monday",
		Tuesday:   "Tuesday",
		Wednesday: "Wednesday",
		Thursday:  "Thursday",
		Friday:    "Friday",
		Saturday:  "Saturday",
		Sunday:    "Sunday",
	}

	seasonsByLabel  = indexLabels(seasonLabels)
	weathersByLabel = indexLabels(weatherLabels)
	weekdaysByLabel = indexLabels(weekdayLabels)
)

// indexLabels builds the label → code index. It panics on a duplicate label
// because reverse lookups would be ambiguous.
func indexLabels[T ~int](labels map[T]string) map[string]T {
	idx := make(map[string]T, len(labels))
	for code, label := range labels {
		if _, dup := idx[label]; dup {
			panic("duplicate category label: " + label)
		}
		idx[label] = code
	}
	return idx
}

func lookup[T ~int](category string, idx map[string]T, label string) (T, error) {
	code, ok := idx[label]
	if !ok {
		return 0, &LookupError{Category: category, Label: label}
	}
	return code, nil
}

// ParseSeason returns the season whose label equals label.
func ParseSeason(label string) (Season, error) { return lookup("season", seasonsByLabel, label) }

// ParseWeather returns the weather situation whose label equals label.
func ParseWeather(label string) (Weather, error) { return lookup("weather", weathersByLabel, label) }

// ParseWeekday returns the weekday whose label equals label.
func ParseWeekday(label string) (Weekday, error) { return lookup("weekday", weekdaysByLabel, label) }

func (s Season) String() string  { return seasonLabels[s] }
func (w Weather) String() string { return weatherLabels[w] }
func (d Weekday) String() string { return weekdayLabels[d] }

// IsWeekend reports whether d is Saturday or Sunday.
func (d Weekday) IsWeekend() bool { return d == Saturday || d == Sunday }

// Seasons returns all seasons in code order.
func Seasons() []Season {
	return []Season{SeasonSpring, SeasonSummer, SeasonFall, SeasonWinter}
}

// Weathers returns all weather situations in code order.
func Weathers() []Weather {
	return []Weather{WeatherClear, WeatherMist, WeatherLightRain, WeatherHeavyRain}
}

// Weekdays returns Monday through Sunday.
func Weekdays() []Weekday {
	return []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}
}

// WeekdayOf converts t's weekday to the Monday-first encoding.
func WeekdayOf(t time.Time) Weekday {
	return Weekday((int(t.Weekday()) + 6) % 7)
}

// Option is a code/label pair offered to the form layer.
type Option struct {
	Code  int    `json:"code"`
	Label string `json:"label"`
}

// Options lists every category in code order for populating form selections.
type Options struct {
	Seasons  []Option `json:"seasons"`
	Weathers []Option `json:"weathers"`
	Weekdays []Option `json:"weekdays"`
}

// CategoryOptions returns the selectable values of every enumeration.
func CategoryOptions() Options {
	opts := Options{}
	for _, s := range Seasons() {
		opts.Seasons = append(opts.Seasons, Option{Code: int(s), Label: s.String()})
	}
	for _, w := range Weathers() {
		opts.Weathers = append(opts.Weathers, Option{Code: int(w), Label: w.String()})
	}
	for _, d := range Weekdays() {
		opts.Weekdays = append(opts.Weekdays, Option{Code: int(d), Label: d.String()})
	}
	return opts
}
