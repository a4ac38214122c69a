// Package events publishes onboarding lifecycle events to Kafka.
package events

import (
	"context"
	"encoding/json"

	"github.com/gartstein/onboarding/internal/onboarding/models"
	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

var jsonMarshal = json.Marshal

type EventType string

const (
	RequestSubmitted EventType = "onboarding_request_submitted"
	CompanyEnrolled  EventType = "company_enrolled"
)

// Event is the message body. CompanyID and UserID are set for enrolments.
type Event struct {
	Type      EventType                 `json:"type"`
	Request   *models.OnboardingRequest `json:"request"`
	CompanyID *uuid.UUID                `json:"companyId,omitempty"`
	UserID    *uuid.UUID                `json:"userId,omitempty"`
}

type KafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type Producer struct {
	writer    KafkaWriter
	events    chan Event
	logger    *zap.Logger
	closeChan chan struct{}
}

func NewProducer(brokers []string, logger *zap.Logger, topic string) (*Producer, error) {
	// Create topic if it doesn't exist
	conn, err := kafka.Dial("tcp", brokers[0])
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	err = conn.CreateTopics(kafka.TopicConfig{
		Topic:             topic,
		NumPartitions:     3,
		ReplicationFactor: 1,
	})
	if err != nil {
		logger.Warn("failed to create topic (may already exist)", zap.Error(err))
	}

	p := newProducer(&kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Balancer: &kafka.Hash{},
		Topic:    topic,
	}, logger)
	go p.eventLoop()
	return p, nil
}

func newProducer(writer KafkaWriter, logger *zap.Logger) *Producer {
	return &Producer{
		writer:    writer,
		events:    make(chan Event, 1000),
		logger:    logger.Named("kafka_producer"),
		closeChan: make(chan struct{}),
	}
}

// Produce enqueues an event without blocking; a full queue drops it.
func (p *Producer) Produce(event Event) {
	select {
	case p.events <- event:
	default:
		p.logger.Warn("Kafka producer queue full, dropping event",
			zap.String("event_type", string(event.Type)),
			zap.String("request_id", event.Request.ID.String()),
		)
	}
}

func (p *Producer) eventLoop() {
	for {
		select {
		case event := <-p.events:
			p.sendEvent(context.Background(), event)
		case <-p.closeChan:
			return
		}
	}
}

func (p *Producer) sendEvent(ctx context.Context, event Event) {
	value, err := jsonMarshal(event)
	if err != nil {
		p.logger.Error("Failed to serialize event",
			zap.Error(err),
			zap.String("request_id", event.Request.ID.String()),
		)
		return
	}
	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.Request.ID.String()),
		Value: value,
	})
	if err != nil {
		p.logger.Error("Failed to produce event",
			zap.Error(err),
			zap.String("event_type", string(event.Type)),
			zap.String("request_id", event.Request.ID.String()),
		)
	}
}

func (p *Producer) Close() {
	close(p.closeChan)
	if err := p.writer.Close(); err != nil {
		p.logger.Error("Failed to close Kafka writer", zap.Error(err))
	}
}

// NopProducer logs events instead of publishing them. It is used when no
// brokers are configured.
type NopProducer struct {
	logger *zap.Logger
}

func NewNopProducer(logger *zap.Logger) *NopProducer {
	return &NopProducer{logger: logger.Named("nop_producer")}
}

func (p *NopProducer) Produce(event Event) {
	p.logger.Debug("Event not published, no brokers configured",
		zap.String("event_type", string(event.Type)),
		zap.String("request_id", event.Request.ID.String()),
	)
}

func (p *NopProducer) Close() {}
