package domain

// Normalization divisors and the year offset used when the model was trained.
const (
	tempScale = 41.0
	humScale  = 100.0
	windScale = 67.0
	baseYear  = 2011
)

// Part of day buckets.
const (
	PartMorning   = 1 // 05:00–11:59
	PartAfternoon = 2 // 12:00–16:59
	PartEvening   = 3 // 17:00–21:59
	PartNight     = 4
)

// FeatureNames lists the model's training columns in FeatureVector order.
var FeatureNames = []string{
	"season", "hr", "holiday", "workingday", "weathersit",
	"temp", "hum", "windspeed",
	"month", "day_of_week", "year",
	"rush_hours", "part_of_day", "day_interaction",
}

// FeatureVector is the ordered record passed to the model. Field order and JSON
// names are the contract with the trained artifact.
type FeatureVector struct {
	Season         int     `json:"season"`
	Hour           int     `json:"hr"`
	Holiday        int     `json:"holiday"`
	WorkingDay     int     `json:"workingday"`
	WeatherSit     int     `json:"weathersit"`
	TempNorm       float64 `json:"temp"`
	HumNorm        float64 `json:"hum"`
	WindNorm       float64 `json:"windspeed"`
	Month          int     `json:"month"`
	DayOfWeek      int     `json:"day_of_week"`
	YearOffset     int     `json:"year"`
	RushHours      int     `json:"rush_hours"`
	PartOfDay      int     `json:"part_of_day"`
	DayInteraction int     `json:"day_interaction"`
}

// Values returns the features as float64s in FeatureNames order.
func (f FeatureVector) Values() []float64 {
	return []float64{
		float64(f.Season),
		float64(f.Hour),
		float64(f.Holiday),
		float64(f.WorkingDay),
		float64(f.WeatherSit),
		f.TempNorm,
		f.HumNorm,
		f.WindNorm,
		float64(f.Month),
		float64(f.DayOfWeek),
		float64(f.YearOffset),
		float64(f.RushHours),
		float64(f.PartOfDay),
		float64(f.DayInteraction),
	}
}

// Named returns the features keyed by training column name.
func (f FeatureVector) Named() map[string]float64 {
	values := f.Values()
	named := make(map[string]float64, len(values))
	for i, name := range FeatureNames {
		named[name] = values[i]
	}
	return named
}

// Derive maps a raw input onto the model's feature vector. It is a pure function
// of in, including in.Date; the only failure is a *LookupError for a label that
// is not in its enumeration.
func Derive(in RawInput) (FeatureVector, error) {
	season, err := ParseSeason(in.Season)
	if err != nil {
		return FeatureVector{}, err
	}
	weather, err := ParseWeather(in.Weather)
	if err != nil {
		return FeatureVector{}, err
	}
	weekday, err := ParseWeekday(in.Weekday)
	if err != nil {
		return FeatureVector{}, err
	}

	workingDay, holiday := dayStatus(weekday)
	partOfDay := derivePartOfDay(in.Hour)

	return FeatureVector{
		Season:         int(season),
		Hour:           in.Hour,
		Holiday:        holiday,
		WorkingDay:     workingDay,
		WeatherSit:     int(weather),
		TempNorm:       in.Temperature / tempScale,
		HumNorm:        in.Humidity / humScale,
		WindNorm:       in.Windspeed / windScale,
		Month:          int(in.Date.Month()),
		DayOfWeek:      int(weekday),
		YearOffset:     in.Date.Year() - baseYear,
		RushHours:      deriveRushHours(in.Hour, workingDay),
		PartOfDay:      partOfDay,
		DayInteraction: partOfDay*10 + workingDay,
	}, nil
}

// dayStatus returns (workingday, holiday). Holiday mirrors weekend status; a real
// holiday calendar was never part of the training data.
func dayStatus(d Weekday) (workingDay, holiday int) {
	if d.IsWeekend() {
		return 0, 1
	}
	return 1, 0
}

// deriveRushHours flags commute hours on working days.
func deriveRushHours(hour, workingDay int) int {
	if workingDay != 1 {
		return 0
	}
	switch hour {
	case 7, 8, 9, 16, 17, 18, 19:
		return 1
	default:
		return 0
	}
}

func derivePartOfDay(hour int) int {
	switch {
	case hour >= 5 && hour < 12:
		return PartMorning
	case hour >= 12 && hour < 17:
		return PartAfternoon
	case hour >= 17 && hour < 22:
		return PartEvening
	default:
		return PartNight
	}
}
