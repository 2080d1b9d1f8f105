package events

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/smallbiznis/badgescan/pkg/telemetry/correlation"
	"go.uber.org/zap"
)

// Publish runs on the request path after commit; kafka-go's default 1s
// batch wait would be added to every scan and friendship response.
const publishBatchTimeout = 10 * time.Millisecond

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes each event type to its own topic, keyed by the
// entity the event is about so per-key ordering survives partitioning.
type KafkaPublisher struct {
	brokers     []string
	topicPrefix string
	log         *zap.Logger

	mu        sync.Mutex
	writers   map[string]messageWriter
	newWriter func(topic string) messageWriter
}

func NewKafkaPublisher(brokers []string, topicPrefix string, log *zap.Logger) *KafkaPublisher {
	p := &KafkaPublisher{
		brokers:     brokers,
		topicPrefix: strings.TrimSpace(topicPrefix),
		log:         log.Named("events.kafka"),
		writers:     make(map[string]messageWriter),
	}
	p.newWriter = p.kafkaWriter
	return p
}

func (p *KafkaPublisher) Publish(ctx context.Context, event Event) error {
	if event.Type == "" {
		return errors.New("event type is required")
	}
	body, err := json.Marshal(event)
	if err != nil {
		return err
	}

	msg := kafka.Message{
		Key:   []byte(event.Key),
		Value: body,
		Time:  event.OccurredAt,
	}
	if cid := correlation.ID(ctx); cid != "" {
		msg.Headers = append(msg.Headers, kafka.Header{Key: correlation.Header, Value: []byte(cid)})
	}
	return p.writerForTopic(p.Topic(event.Type)).WriteMessages(ctx, msg)
}

// Topic maps an event type to its topic name.
func (p *KafkaPublisher) Topic(eventType string) string {
	if p.topicPrefix == "" {
		return eventType
	}
	return p.topicPrefix + "." + eventType
}

func (p *KafkaPublisher) writerForTopic(topic string) messageWriter {
	p.mu.Lock()
	defer p.mu.Unlock()

	if writer, ok := p.writers[topic]; ok {
		return writer
	}
	writer := p.newWriter(topic)
	p.writers[topic] = writer
	return writer
}

func (p *KafkaPublisher) kafkaWriter(topic string) messageWriter {
	return &kafka.Writer{
		Addr:                   kafka.TCP(p.brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		BatchTimeout:           publishBatchTimeout,
		RequiredAcks:           kafka.RequireAll,
		AllowAutoTopicCreation: true,
	}
}

func (p *KafkaPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var firstErr error
	for topic, writer := range p.writers {
		if err := writer.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		delete(p.writers, topic)
	}
	return firstErr
}
