package gateway

import (
	"context"
	"encoding/json"
	"fmt"

	"journeycompass/internal/domain/models"

	"github.com/IBM/sarama"
	"go.uber.org/zap"
)

const (
	EventBookingConfirmed = "booking.confirmed"
	EventBookingCancelled = "booking.cancelled"
)

// BookingEvent is the message published for every ledger change.
type BookingEvent struct {
	Type   string               `json:"type"`
	Notice models.BookingNotice `json:"booking"`
}

// KafkaNotifier publishes booking events keyed by booking id, so all events
// of one booking land on the same partition.
type KafkaNotifier struct {
	producer sarama.SyncProducer
	topic    string
	log      *zap.Logger
}

func NewKafkaNotifier(brokers []string, topic string, log *zap.Logger) (*KafkaNotifier, error) {
	config := sarama.NewConfig()
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Retry.Max = 5
	config.Producer.Return.Successes = true

	producer, err := sarama.NewSyncProducer(brokers, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create producer: %w", err)
	}
	log.Info("kafka producer connected", zap.Strings("brokers", brokers), zap.String("topic", topic))
	return NewKafkaNotifierWithProducer(producer, topic, log), nil
}

func NewKafkaNotifierWithProducer(producer sarama.SyncProducer, topic string, log *zap.Logger) *KafkaNotifier {
	if log == nil {
		log = zap.NewNop()
	}
	return &KafkaNotifier{producer: producer, topic: topic, log: log}
}

func (k *KafkaNotifier) NotifyBookingConfirmed(ctx context.Context, notice models.BookingNotice) error {
	return k.publish(BookingEvent{Type: EventBookingConfirmed, Notice: notice})
}

func (k *KafkaNotifier) NotifyBookingCancelled(ctx context.Context, notice models.BookingNotice) error {
	return k.publish(BookingEvent{Type: EventBookingCancelled, Notice: notice})
}

func (k *KafkaNotifier) publish(event BookingEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := &sarama.ProducerMessage{
		Topic: k.topic,
		Key:   sarama.StringEncoder(event.Notice.BookingID),
		Value: sarama.ByteEncoder(data),
		Headers: []sarama.RecordHeader{
			{Key: []byte("event_type"), Value: []byte(event.Type)},
		},
	}

	partition, offset, err := k.producer.SendMessage(msg)
	if err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	k.log.Debug("booking event published",
		zap.String("type", event.Type),
		zap.String("booking_id", event.Notice.BookingID),
		zap.Int32("partition", partition),
		zap.Int64("offset", offset),
	)
	return nil
}

func (k *KafkaNotifier) Close() error {
	if k.producer == nil {
		return nil
	}
	return k.producer.Close()
}
