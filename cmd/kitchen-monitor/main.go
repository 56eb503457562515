// kitchen-monitor tails the order event topics and prints kitchen tickets.
// It is the terminal-side companion to the WebSocket display feed.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/dishly/restaurant-api/internal/config"
	"github.com/dishly/restaurant-api/internal/events"
)

func main() {
	cfg := config.Load()

	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	if cfg.KafkaBrokers == "" {
		logger.Fatal("KAFKA_BROKERS must be set for the kitchen monitor")
	}

	consumer, err := events.NewKafkaConsumer(cfg.KafkaBrokers, "kitchen-monitor-group", &ticketPrinter{logger: logger}, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to create Kafka consumer")
	}
	defer consumer.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		if err := consumer.Start(ctx); err != nil {
			logger.WithError(err).Error("Consumer stopped")
		}
	}()

	logger.Info("Kitchen monitor started - watching order topics")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down kitchen monitor...")
}

type ticketPrinter struct {
	logger *logrus.Logger
}

func (p *ticketPrinter) HandleOrderEvent(topic string, event events.OrderEvent) error {
	p.logger.WithFields(logrus.Fields{
		"topic":        topic,
		"order_id":     event.OrderID,
		"status":       event.Status,
		"total_amount": event.TotalAmount,
		"items":        event.ItemCount,
	}).Info("Order event received")

	label := "NEW ORDER"
	if topic == events.OrderCompletedTopic {
		label = "ORDER COMPLETED"
	}

	fmt.Printf("\n=== %s ===\n", label)
	fmt.Printf("Time: %s\n", time.Now().Format(time.RFC3339))
	fmt.Printf("Order: %s\n", event.OrderID)
	fmt.Printf("Items: %d  Total: %.2f\n", event.ItemCount, event.TotalAmount)
	fmt.Printf("====================\n\n")
	return nil
}
