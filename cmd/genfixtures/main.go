// Command genfixtures derives feature vectors for a set of form inputs and
// writes them as a JSON fixture. It uses the real domain package so the
// fixture matches what the service sends to the model.
//
// Usage:
//
//	go run ./cmd/genfixtures \
//	  -out testdata/fixtures/features.json \
//	  [-csv inputs.csv] [-date 2024-04-26]
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"sort"
	"time"

	"github.com/couchcryptid/bike-demand-service/internal/domain"
	"github.com/couchcryptid/bike-demand-service/internal/fixture"
	"github.com/jonboulle/clockwork"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	out := flag.String("out", "", "output path for the feature fixture")
	csvPath := flag.String("csv", "", "optional CSV of form inputs (defaults to the built-in grid)")
	dateStr := flag.String("date", "2024-04-26", "request date stamped on every input (YYYY-MM-DD)")
	flag.Parse()

	if *out == "" {
		flag.Usage()
		return fmt.Errorf("missing required flag: -out")
	}

	date, err := time.Parse(time.DateOnly, *dateStr)
	if err != nil {
		return fmt.Errorf("parse -date: %w", err)
	}

	// Freeze the clock so defaulted fields are reproducible.
	domain.SetClock(clockwork.NewFakeClockAt(date))
	defer domain.SetClock(nil)

	inputs, err := loadInputs(*csvPath, date)
	if err != nil {
		return err
	}

	f, err := fixture.Build(date, inputs)
	if err != nil {
		return fmt.Errorf("build fixture: %w", err)
	}

	if err := fixture.Write(*out, f); err != nil {
		return fmt.Errorf("writing fixture: %w", err)
	}
	log.Printf("wrote fixture: %s (%d cases)", *out, len(f.Cases))

	printStats(f.Cases)
	return nil
}

func loadInputs(csvPath string, date time.Time) ([]domain.RawInput, error) {
	if csvPath == "" {
		return fixture.Grid(date), nil
	}
	file, err := os.Open(csvPath)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	defer file.Close()

	inputs, err := fixture.ReadCSV(file)
	if err != nil {
		return nil, fmt.Errorf("processing %s: %w", csvPath, err)
	}
	return inputs, nil
}

var partNames = map[int]string{
	domain.PartMorning:   "morning",
	domain.PartAfternoon: "afternoon",
	domain.PartEvening:   "evening",
	domain.PartNight:     "night",
}

func printStats(cases []fixture.Case) {
	var rush, working int
	parts := map[string]int{}
	interactions := map[int]int{}
	for i := range cases {
		f := &cases[i].Features
		rush += f.RushHours
		working += f.WorkingDay
		parts[partNames[f.PartOfDay]]++
		interactions[f.DayInteraction]++
	}

	fmt.Println("\n=== Stats for updating test assertions ===")
	fmt.Printf("Total: %d\n", len(cases))
	fmt.Printf("Working day: %d, weekend: %d\n", working, len(cases)-working)
	fmt.Printf("Rush hours: %d\n", rush)
	fmt.Printf("By part of day: morning=%d, afternoon=%d, evening=%d, night=%d\n",
		parts["morning"], parts["afternoon"], parts["evening"], parts["night"])

	keys := make([]int, 0, len(interactions))
	for k := range interactions {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	fmt.Print("Day interaction:")
	for _, k := range keys {
		fmt.Printf(" %d=%d", k, interactions[k])
	}
	fmt.Println()
}
