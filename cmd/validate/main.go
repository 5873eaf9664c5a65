// Command validate checks a model artifact and a feature fixture against the
// current deriver: the artifact's feature contract, fixture parity, the
// reference scenarios, and prediction sanity over every fixture case.
//
// Usage:
//
//	go run ./cmd/validate \
//	  -model bike_demand.json \
//	  [-fixtures testdata/fixtures/features.json]
package main

import (
	"context"
	"flag"
	"fmt"
	"math"
	"os"
	"slices"
	"time"

	"github.com/couchcryptid/bike-demand-service/internal/adapter/artifact"
	"github.com/couchcryptid/bike-demand-service/internal/domain"
	"github.com/couchcryptid/bike-demand-service/internal/fixture"
	"github.com/jonboulle/clockwork"
)

var baseDate = time.Date(2024, time.April, 26, 0, 0, 0, 0, time.UTC)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	modelPath := flag.String("model", "", "path to the model artifact")
	fixturesPath := flag.String("fixtures", "", "path to a feature fixture (defaults to the built-in grid)")
	flag.Parse()

	if *modelPath == "" {
		flag.Usage()
		os.Exit(1)
	}

	if code := run(*modelPath, *fixturesPath); code != 0 {
		os.Exit(code)
	}
}

func run(modelPath, fixturesPath string) int {
	// Match genfixtures so defaulted fields line up.
	domain.SetClock(clockwork.NewFakeClockAt(baseDate))
	defer domain.SetClock(nil)

	fmt.Println("=== Bike Demand Model Validation ===")
	fmt.Println()

	model, err := artifact.Load(modelPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load model artifact: %v\n", err)
		return 1
	}

	fx, err := loadFixture(fixturesPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load fixture: %v\n", err)
		return 1
	}

	phases := []*phase{
		validateArtifactContract(model),
		validateFixtureParity(fx),
		validateScenarios(),
		validatePredictions(model, fx),
	}

	fmt.Println()
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-42s %s\n", p.name, status)
	}

	fmt.Println()
	fmt.Printf("Model: %s (%s), fixture cases: %d\n", model.Name(), model.Kind(), len(fx.Cases))

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

func loadFixture(path string) (fixture.File, error) {
	if path == "" {
		return fixture.Build(baseDate, fixture.Grid(baseDate))
	}
	return fixture.Read(path)
}

// ── Phase 1: artifact contract ──

func validateArtifactContract(m *artifact.Model) *phase {
	p := &phase{name: "Phase 1: Artifact contract"}
	fmt.Println("Phase 1: Checking artifact feature contract...")

	if !slices.Equal(m.Features(), domain.FeatureNames) {
		p.errorf("feature columns %v, want %v", m.Features(), domain.FeatureNames)
	}
	if m.Name() == "" {
		p.errorf("artifact has no name")
	}
	return p
}

// ── Phase 2: fixture parity ──

func validateFixtureParity(fx fixture.File) *phase {
	p := &phase{name: "Phase 2: Fixture parity"}
	fmt.Println("Phase 2: Re-deriving fixture features...")

	if len(fx.Cases) == 0 {
		p.errorf("fixture has no cases")
	}
	for i, c := range fx.Cases {
		got, err := domain.Derive(c.Input)
		if err != nil {
			p.errorf("case %d: derive: %v", i, err)
			continue
		}
		if got != c.Features {
			p.errorf("case %d (%s %02d:00): derived %+v, fixture has %+v", i, c.Input.Weekday, c.Input.Hour, got, c.Features)
		}
		checkFeatureRanges(p, i, got)
	}
	return p
}

func checkFeatureRanges(p *phase, i int, f domain.FeatureVector) {
	if f.Season < 1 || f.Season > 4 {
		p.errorf("case %d: season %d outside 1-4", i, f.Season)
	}
	if f.WeatherSit < 1 || f.WeatherSit > 4 {
		p.errorf("case %d: weathersit %d outside 1-4", i, f.WeatherSit)
	}
	if f.DayOfWeek < 0 || f.DayOfWeek > 6 {
		p.errorf("case %d: day_of_week %d outside 0-6", i, f.DayOfWeek)
	}
	if f.WorkingDay+f.Holiday != 1 {
		p.errorf("case %d: workingday %d and holiday %d are not complementary", i, f.WorkingDay, f.Holiday)
	}
	if f.RushHours == 1 && f.WorkingDay != 1 {
		p.errorf("case %d: rush hour on a non-working day", i)
	}
	if f.PartOfDay < domain.PartMorning || f.PartOfDay > domain.PartNight {
		p.errorf("case %d: part_of_day %d outside 1-4", i, f.PartOfDay)
	}
	if f.DayInteraction != f.PartOfDay*10+f.WorkingDay {
		p.errorf("case %d: day_interaction %d != part_of_day*10+workingday", i, f.DayInteraction)
	}
	if f.HumNorm < 0 || f.HumNorm > 1 {
		p.errorf("case %d: hum %.4f outside [0, 1]", i, f.HumNorm)
	}
}

// ── Phase 3: reference scenarios ──

func validateScenarios() *phase {
	p := &phase{name: "Phase 3: Reference scenarios"}
	fmt.Println("Phase 3: Checking reference scenarios...")

	base := domain.RawInput{
		Hour: 17, Temperature: 28, Humidity: 60, Windspeed: 15,
		Season: "Fall", Weather: "Clear", Weekday: "Friday", Date: baseDate,
	}

	// A: Friday evening rush.
	if f, ok := derive(p, "A", base); ok {
		expectFeature(p, "A", "workingday", f.WorkingDay, 1)
		expectFeature(p, "A", "holiday", f.Holiday, 0)
		expectFeature(p, "A", "rush_hours", f.RushHours, 1)
		expectFeature(p, "A", "part_of_day", f.PartOfDay, domain.PartEvening)
		expectFeature(p, "A", "day_interaction", f.DayInteraction, 31)
	}

	// B: Saturday is a weekend at every hour.
	for h := domain.MinHour; h <= domain.MaxHour; h++ {
		in := base
		in.Weekday = "Saturday"
		in.Hour = h
		f, ok := derive(p, "B", in)
		if !ok {
			break
		}
		expectFeature(p, fmt.Sprintf("B@%02d", h), "day_of_week", f.DayOfWeek, 5)
		expectFeature(p, fmt.Sprintf("B@%02d", h), "workingday", f.WorkingDay, 0)
		expectFeature(p, fmt.Sprintf("B@%02d", h), "holiday", f.Holiday, 1)
	}

	// C: 02:00 on a working day is night and outside the rush set.
	in := base
	in.Hour = 2
	if f, ok := derive(p, "C", in); ok {
		expectFeature(p, "C", "workingday", f.WorkingDay, 1)
		expectFeature(p, "C", "part_of_day", f.PartOfDay, domain.PartNight)
		expectFeature(p, "C", "rush_hours", f.RushHours, 0)
	}
	return p
}

func derive(p *phase, scenario string, in domain.RawInput) (domain.FeatureVector, bool) {
	f, err := domain.Derive(in)
	if err != nil {
		p.errorf("scenario %s: derive: %v", scenario, err)
		return domain.FeatureVector{}, false
	}
	return f, true
}

func expectFeature(p *phase, scenario, name string, got, want int) {
	if got != want {
		p.errorf("scenario %s: %s = %d, want %d", scenario, name, got, want)
	}
}

// ── Phase 4: prediction sanity ──

func validatePredictions(m *artifact.Model, fx fixture.File) *phase {
	p := &phase{name: "Phase 4: Prediction sanity"}
	fmt.Println("Phase 4: Predicting every fixture case...")

	ctx := context.Background()
	var negative int
	lo, hi := math.Inf(1), math.Inf(-1)
	for i, c := range fx.Cases {
		v, err := m.Predict(ctx, c.Features)
		if err != nil {
			p.errorf("case %d: predict: %v", i, err)
			continue
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			p.errorf("case %d: non-finite prediction %v", i, v)
			continue
		}
		if v < 0 {
			negative++
		}
		lo, hi = min(lo, v), max(hi, v)

		again, err := m.Predict(ctx, c.Features)
		if err == nil && again != v {
			p.errorf("case %d: prediction not deterministic (%v then %v)", i, v, again)
		}
	}

	if negative > 0 {
		fmt.Printf("  note: %d cases predicted below zero\n", negative)
	}
	if len(fx.Cases) > 0 && !math.IsInf(lo, 1) {
		fmt.Printf("  prediction range: %.2f to %.2f\n", lo, hi)
	}
	return p
}
