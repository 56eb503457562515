package events

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/IBM/sarama"
	"github.com/sirupsen/logrus"

	"github.com/dishly/restaurant-api/internal/circuitbreaker"
)

type KafkaPublisher struct {
	producer sarama.SyncProducer
	breaker  *circuitbreaker.Breaker
	logger   *logrus.Logger
}

func NewKafkaPublisher(brokers string, logger *logrus.Logger) (*KafkaPublisher, error) {
	config := sarama.NewConfig()
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Retry.Max = 5
	config.Producer.Return.Successes = true
	config.Version = sarama.V2_6_0_0

	producer, err := sarama.NewSyncProducer(strings.Split(brokers, ","), config)
	if err != nil {
		return nil, err
	}

	breaker := circuitbreaker.New(circuitbreaker.Config{
		Name:        "kafka-publisher",
		MaxFailures: 5,
		Cooldown:    30 * time.Second,
	}, logger)

	return &KafkaPublisher{
		producer: producer,
		breaker:  breaker,
		logger:   logger,
	}, nil
}

func (p *KafkaPublisher) PublishOrderCreated(event OrderEvent) error {
	return p.publish(OrderCreatedTopic, event)
}

func (p *KafkaPublisher) PublishOrderCompleted(event OrderEvent) error {
	return p.publish(OrderCompletedTopic, event)
}

func (p *KafkaPublisher) publish(topic string, event OrderEvent) error {
	event.EventTime = time.Now()

	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	msg := &sarama.ProducerMessage{
		Topic: topic,
		Key:   sarama.StringEncoder(event.OrderID),
		Value: sarama.ByteEncoder(data),
	}

	err = p.breaker.Execute(func() error {
		partition, offset, sendErr := p.producer.SendMessage(msg)
		if sendErr != nil {
			return sendErr
		}
		p.logger.WithFields(logrus.Fields{
			"topic":     topic,
			"partition": partition,
			"offset":    offset,
			"order_id":  event.OrderID,
		}).Info("Event published to Kafka")
		return nil
	})
	if err != nil {
		p.logger.WithError(err).WithField("topic", topic).Error("Failed to publish event")
	}
	return err
}

func (p *KafkaPublisher) Close() error {
	return p.producer.Close()
}
