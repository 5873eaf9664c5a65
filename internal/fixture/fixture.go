// Package fixture reads and writes derived feature fixtures: form inputs
// paired with the feature vector the deriver produced for them.
package fixture

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/couchcryptid/bike-demand-service/internal/domain"
)

// Case is one fixture entry.
type Case struct {
	Input    domain.RawInput      `json:"input"`
	Features domain.FeatureVector `json:"features"`
}

// File is the on-disk fixture document.
type File struct {
	Date  time.Time `json:"date"`
	Cases []Case    `json:"cases"`
}

// Grid returns the default input grid: every weekday and hour at the form's
// default readings, then every season and weather pairing at Friday 17:00.
func Grid(date time.Time) []domain.RawInput {
	base := domain.DefaultInput()
	base.Date = date

	var inputs []domain.RawInput
	for _, d := range domain.Weekdays() {
		for h := domain.MinHour; h <= domain.MaxHour; h++ {
			in := base
			in.Weekday = d.String()
			in.Hour = h
			inputs = append(inputs, in)
		}
	}
	for _, s := range domain.Seasons() {
		for _, w := range domain.Weathers() {
			in := base
			in.Weekday = domain.Friday.String()
			in.Season = s.String()
			in.Weather = w.String()
			inputs = append(inputs, in)
		}
	}
	return inputs
}

// Build derives the feature vector of every input. Any invalid input fails the build.
func Build(date time.Time, inputs []domain.RawInput) (File, error) {
	f := File{Date: date, Cases: make([]Case, 0, len(inputs))}
	for i, in := range inputs {
		if in.Date.IsZero() {
			in.Date = date
		}
		if err := in.Validate(); err != nil {
			return File{}, fmt.Errorf("input %d: %w", i, err)
		}
		features, err := domain.Derive(in)
		if err != nil {
			return File{}, fmt.Errorf("input %d: %w", i, err)
		}
		f.Cases = append(f.Cases, Case{Input: in, Features: features})
	}
	return f, nil
}

// Read loads a fixture document.
func Read(path string) (File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf("read fixture: %w", err)
	}
	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return File{}, fmt.Errorf("decode fixture %s: %w", path, err)
	}
	return f, nil
}

// Write stores a fixture document as indented JSON, creating parent directories.
func Write(path string, f File) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o600)
}

var csvColumns = []string{"hour", "temperature", "humidity", "windspeed", "season", "weather", "weekday"}

// ReadCSV parses form inputs from CSV with a header row naming the columns
// hour, temperature, humidity, windspeed, season, weather and weekday in any order.
func ReadCSV(r io.Reader) ([]domain.RawInput, error) {
	rows, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("no data rows")
	}

	colIdx := map[string]int{}
	for i, h := range rows[0] {
		colIdx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, c := range csvColumns {
		if _, ok := colIdx[c]; !ok {
			return nil, fmt.Errorf("missing column %q", c)
		}
	}

	inputs := make([]domain.RawInput, 0, len(rows)-1)
	for n, row := range rows[1:] {
		in, err := parseRow(row, colIdx)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", n+2, err)
		}
		inputs = append(inputs, in)
	}
	return inputs, nil
}

func parseRow(row []string, idx map[string]int) (domain.RawInput, error) {
	get := func(col string) string {
		return strings.TrimSpace(row[idx[col]])
	}

	hour, err := strconv.Atoi(get("hour"))
	if err != nil {
		return domain.RawInput{}, fmt.Errorf("hour: %w", err)
	}
	var readings [3]float64
	for i, col := range []string{"temperature", "humidity", "windspeed"} {
		readings[i], err = strconv.ParseFloat(get(col), 64)
		if err != nil {
			return domain.RawInput{}, fmt.Errorf("%s: %w", col, err)
		}
	}

	return domain.RawInput{
		Hour:        hour,
		Temperature: readings[0],
		Humidity:    readings[1],
		Windspeed:   readings[2],
		Season:      get("season"),
		Weather:     get("weather"),
		Weekday:     get("weekday"),
	}, nil
}
