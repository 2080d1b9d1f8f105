package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/smallbiznis/badgescan/pkg/telemetry/correlation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeWriter struct {
	messages []kafka.Message
	closed   bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func newTestPublisher(prefix string) (*KafkaPublisher, map[string]*fakeWriter) {
	p := NewKafkaPublisher([]string{"localhost:9092"}, prefix, zap.NewNop())
	writers := map[string]*fakeWriter{}
	p.newWriter = func(topic string) messageWriter {
		w := &fakeWriter{}
		writers[topic] = w
		return w
	}
	return p, writers
}

func TestKafkaPublisherRoutesByType(t *testing.T) {
	p, writers := newTestPublisher("badgescan")
	at := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

	err := p.Publish(context.Background(), Event{
		Type:       TypeScanRecorded,
		Key:        "B-001",
		OccurredAt: at,
		Payload:    map[string]any{"activity_name": "keynote"},
	})
	require.NoError(t, err)
	require.NoError(t, p.Publish(context.Background(), Event{Type: TypeFriendshipCreated, Key: "A:B"}))
	require.NoError(t, p.Publish(context.Background(), Event{Type: TypeScanRecorded, Key: "B-002"}))

	require.Contains(t, writers, "badgescan.scan.recorded")
	require.Contains(t, writers, "badgescan.friendship.created")
	scans := writers["badgescan.scan.recorded"].messages
	require.Len(t, scans, 2)
	assert.Equal(t, "B-001", string(scans[0].Key))
	assert.Equal(t, at, scans[0].Time)

	var decoded Event
	require.NoError(t, json.Unmarshal(scans[0].Value, &decoded))
	assert.Equal(t, TypeScanRecorded, decoded.Type)
	assert.Equal(t, "keynote", decoded.Payload["activity_name"])
}

func TestKafkaPublisherTopicWithoutPrefix(t *testing.T) {
	p, _ := newTestPublisher("  ")
	assert.Equal(t, "friendship.removed", p.Topic(TypeFriendshipRemoved))
}

func TestKafkaPublisherRejectsUntypedEvent(t *testing.T) {
	p, writers := newTestPublisher("")
	assert.Error(t, p.Publish(context.Background(), Event{Key: "x"}))
	assert.Empty(t, writers)
}

func TestKafkaPublisherCloseReleasesWriters(t *testing.T) {
	p, writers := newTestPublisher("")
	require.NoError(t, p.Publish(context.Background(), Event{Type: TypeScanRecorded}))

	require.NoError(t, p.Close())
	assert.True(t, writers["scan.recorded"].closed)
}

func TestKafkaPublisherForwardsCorrelationID(t *testing.T) {
	p, writers := newTestPublisher("")
	ctx := correlation.WithID(context.Background(), "01HZX")

	require.NoError(t, p.Publish(ctx, Event{Type: TypeFriendshipCreated, Key: "A:B"}))
	require.NoError(t, p.Publish(context.Background(), Event{Type: TypeFriendshipCreated, Key: "A:C"}))

	msgs := writers["friendship.created"].messages
	require.Len(t, msgs, 2)
	require.Len(t, msgs[0].Headers, 1)
	assert.Equal(t, correlation.Header, msgs[0].Headers[0].Key)
	assert.Equal(t, "01HZX", string(msgs[0].Headers[0].Value))
	assert.Empty(t, msgs[1].Headers)
}

func TestKafkaWriterDoesNotWaitForFullBatch(t *testing.T) {
	p := NewKafkaPublisher([]string{"localhost:9092"}, "badgescan", zap.NewNop())

	w, ok := p.kafkaWriter(p.Topic(TypeScanRecorded)).(*kafka.Writer)
	require.True(t, ok)
	assert.Equal(t, "badgescan.scan.recorded", w.Topic)
	assert.Equal(t, publishBatchTimeout, w.BatchTimeout)
	assert.LessOrEqual(t, w.BatchTimeout, 50*time.Millisecond)
	assert.False(t, w.Async)
}
