package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"
)

// PredictionEvent records one served prediction for downstream consumers.
type PredictionEvent struct {
	ID          string     `json:"id"`
	Input       RawInput   `json:"input"`
	Prediction  Prediction `json:"prediction"`
	PredictedAt time.Time  `json:"predicted_at"`
}

// OutputEvent is the serialized form destined for the predictions topic.
type OutputEvent struct {
	Key     []byte
	Value   []byte
	Headers map[string]string
}

// NewPredictionEvent stamps a prediction with the clock's current time and a
// deterministic ID.
func NewPredictionEvent(in RawInput, p Prediction) PredictionEvent {
	at := now().UTC()
	return PredictionEvent{
		ID:          generateID(p.Features, at),
		Input:       in,
		Prediction:  p,
		PredictedAt: at,
	}
}

// SerializePredictionEvent marshals an event into an OutputEvent keyed by its ID.
func SerializePredictionEvent(event PredictionEvent) (OutputEvent, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return OutputEvent{}, fmt.Errorf("serialize prediction event: %w", err)
	}
	return OutputEvent{
		Key:   []byte(event.ID),
		Value: data,
		Headers: map[string]string{
			"event_type":   "prediction",
			"predicted_at": event.PredictedAt.Format(time.RFC3339),
		},
	}, nil
}

// generateID hashes the feature vector and timestamp so replays of the same
// event produce the same key.
func generateID(f FeatureVector, at time.Time) string {
	input := fmt.Sprintf("%v|%s", f.Values(), at.Format(time.RFC3339Nano))
	hash := sha256.Sum256([]byte(input))
	return "prediction-" + hex.EncodeToString(hash[:8])
}
