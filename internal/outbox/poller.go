// Package outbox drains checkout events written transactionally by
// the cart engine and publishes them to Kafka.
package outbox

import (
	"context"
	"log"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/rolurq/shopify-backend-challenge/internal/repository"
)

const topic = "checkout-completed"

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type Poller struct {
	timeout time.Duration
	tick    time.Duration
	repo    repository.OrderRepository
	writer  messageWriter
}

func NewPoller(repo repository.OrderRepository, brokers ...string) *Poller {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}
	return &Poller{
		timeout: 5 * time.Second,
		tick:    time.Second,
		repo:    repo,
		writer:  w,
	}
}

func (p *Poller) Run(ctx context.Context) {
	ticker := time.NewTicker(p.tick)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			p.processUnpublishedEvents(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (p *Poller) Close() {
	if err := p.writer.Close(); err != nil {
		log.Printf("error closing kafka writer: %v", err)
	}
}

func (p *Poller) processUnpublishedEvents(ctx context.Context) {
	events, err := p.repo.UnpublishedEvents(ctx, 100)
	if err != nil {
		log.Printf("failed to fetch outbox events: %v", err)
		return
	}

	for _, event := range events {
		writeCtx, cancel := context.WithTimeout(ctx, p.timeout)
		errPublish := p.writer.WriteMessages(writeCtx, kafka.Message{
			Key:   []byte(event.ID),
			Value: event.Payload,
		})
		cancel()
		if errPublish != nil {
			log.Printf("failed to publish event id = %v with error %v", event.ID, errPublish)
			continue
		}

		if errMark := p.repo.MarkPublished(ctx, event.ID); errMark != nil {
			log.Printf("failed to mark event as published id = %v with error %v", event.ID, errMark)
			continue
		}
	}
}
