package domain

import (
	"context"
	"fmt"
	"math"
)

// Model is a trained regression model. Predict is deterministic for a fixed
// artifact; its internals are opaque.
type Model interface {
	Predict(ctx context.Context, features FeatureVector) (float64, error)
}

// Prediction is the result returned to the form layer.
type Prediction struct {
	Value    float64       `json:"value"`   // raw model output
	Count    int           `json:"count"`   // Value truncated toward zero
	Label    string        `json:"label"`   // e.g. "Prediction for Friday"
	Display  string        `json:"display"` // e.g. "~ 245 bikes"
	Features FeatureVector `json:"features"`
}

// NewPrediction truncates the model output to a whole bike count and formats
// the label for the requested weekday.
func NewPrediction(value float64, weekday string, features FeatureVector) Prediction {
	count := int(math.Trunc(value))
	return Prediction{
		Value:    value,
		Count:    count,
		Label:    fmt.Sprintf("Prediction for %s", weekday),
		Display:  fmt.Sprintf("~ %d bikes", count),
		Features: features,
	}
}
