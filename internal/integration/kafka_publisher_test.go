//go:build integration

package integration_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"strconv"
	"testing"
	"time"

	"github.com/couchcryptid/bike-demand-service/internal/adapter/artifact"
	"github.com/couchcryptid/bike-demand-service/internal/adapter/kafka"
	"github.com/couchcryptid/bike-demand-service/internal/config"
	"github.com/couchcryptid/bike-demand-service/internal/domain"
	"github.com/couchcryptid/bike-demand-service/internal/observability"
	"github.com/couchcryptid/bike-demand-service/internal/predict"
	"github.com/jonboulle/clockwork"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tckafka "github.com/testcontainers/testcontainers-go/modules/kafka"
)

const (
	testPredictionTopic = "test-predictions"
	testArtifactPath    = "../adapter/artifact/testdata/bike_demand.json"
)

func startKafka(ctx context.Context, t *testing.T) string {
	t.Helper()

	c, err := tckafka.Run(ctx, "confluentinc/confluent-local:7.5.0", tckafka.WithClusterID("test-cluster"))
	require.NoError(t, err, "start kafka container")
	t.Cleanup(func() {
		if err := testcontainers.TerminateContainer(c); err != nil {
			t.Logf("terminate kafka container: %v", err)
		}
	})

	brokers, err := c.Brokers(ctx)
	require.NoError(t, err, "kafka brokers")
	require.NotEmpty(t, brokers)
	return brokers[0]
}

func createTopic(t *testing.T, broker, topic string) {
	t.Helper()

	conn, err := kafkago.Dial("tcp", broker)
	require.NoError(t, err, "dial broker")
	defer conn.Close()

	controller, err := conn.Controller()
	require.NoError(t, err, "find controller")

	ctrl, err := kafkago.Dial("tcp", net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	require.NoError(t, err, "dial controller")
	defer ctrl.Close()

	require.NoError(t, ctrl.CreateTopics(kafkago.TopicConfig{
		Topic:             topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	}), "create topic %s", topic)
}

// publishedMessage holds a deserialized message read from the predictions topic.
type publishedMessage struct {
	Event   domain.PredictionEvent
	Key     string
	Headers map[string]string
}

func readPublished(ctx context.Context, t *testing.T, consumer *kafkago.Reader) publishedMessage {
	t.Helper()
	readCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	msg, err := consumer.ReadMessage(readCtx)
	require.NoError(t, err, "read from predictions topic")

	headers := make(map[string]string, len(msg.Headers))
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	var event domain.PredictionEvent
	require.NoError(t, json.Unmarshal(msg.Value, &event), "unmarshal prediction event")

	return publishedMessage{
		Event:   event,
		Key:     string(msg.Key),
		Headers: headers,
	}
}

// TestPredictionPublishedToKafka runs a prediction against the test artifact
// and reads the published event back from a real broker.
func TestPredictionPublishedToKafka(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	now := time.Date(2024, time.April, 26, 15, 10, 0, 0, time.UTC)
	domain.SetClock(clockwork.NewFakeClockAt(now))
	t.Cleanup(func() { domain.SetClock(nil) })

	broker := startKafka(ctx, t)
	createTopic(t, broker, testPredictionTopic)

	cfg := &config.Config{
		KafkaBrokers:         []string{broker},
		KafkaPredictionTopic: testPredictionTopic,
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	writer := kafka.NewWriter(cfg, logger)
	t.Cleanup(func() { _ = writer.Close() })

	handle := artifact.NewHandle(testArtifactPath, logger)
	_, err := handle.Load()
	require.NoError(t, err)

	svc := predict.New(handle, writer, logger, observability.NewMetricsForTesting())

	in := domain.RawInput{
		Hour:        17,
		Temperature: 28,
		Humidity:    60,
		Windspeed:   15,
		Season:      "Fall",
		Weather:     "Clear",
		Weekday:     "Friday",
	}
	// Warm up metadata and topic lookup before timing a publish.
	_, err = svc.Predict(ctx, in)
	require.NoError(t, err)

	start := time.Now()
	p, err := svc.Predict(ctx, in)
	require.NoError(t, err)
	assert.Less(t, time.Since(start), 500*time.Millisecond, "publish must not wait on batch timeout")
	assert.InDelta(t, 435.25, p.Value, 1e-9)
	assert.Equal(t, 435, p.Count)

	consumer := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:   []string{broker},
		Topic:     testPredictionTopic,
		Partition: 0,
		MinBytes:  1,
		MaxBytes:  10e6,
	})
	t.Cleanup(func() { _ = consumer.Close() })

	_ = readPublished(ctx, t, consumer)
	got := readPublished(ctx, t, consumer)

	assert.Equal(t, got.Event.ID, got.Key)
	assert.Equal(t, "prediction", got.Headers["event_type"])
	assert.Equal(t, now.Format(time.RFC3339), got.Headers["predicted_at"])
	assert.Equal(t, "Friday", got.Event.Input.Weekday)
	assert.Equal(t, p.Count, got.Event.Prediction.Count)
	assert.Equal(t, p.Features, got.Event.Prediction.Features)
	assert.True(t, now.Equal(got.Event.PredictedAt))
}
