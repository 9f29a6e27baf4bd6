package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/sweet-shop/internal/models"
)

// Channel часть *amqp.Channel, которой пользуется Publisher.
type Channel interface {
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// Publisher публикует JSON-сообщения в одну durable-очередь через default exchange.
// amqp.Channel не потокобезопасен, поэтому публикация идёт под мьютексом.
type Publisher struct {
	mu    sync.Mutex
	ch    Channel
	queue string
}

// NewPublisher объявляет очередь и возвращает издателя.
func NewPublisher(ch Channel, queue string) (*Publisher, error) {
	const op = "rabbitmq.NewPublisher"
	_, err := ch.QueueDeclare(
		queue,
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to declare queue %s: %w", op, queue, err)
	}
	return &Publisher{ch: ch, queue: queue}, nil
}

// PublishMessage сериализует message в JSON и отправляет в очередь.
func (p *Publisher) PublishMessage(ctx context.Context, message any) error {
	const op = "rabbitmq.PublishMessage"
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	body, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	err = p.ch.Publish(
		"",
		p.queue,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
		},
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// NotifyLowStock публикует событие о малом остатке.
func (p *Publisher) NotifyLowStock(ctx context.Context, event models.LowStockEvent) error {
	return p.PublishMessage(ctx, event)
}

func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.ch.Close()
}

// NoopNotifier используется, когда RabbitMQ не настроен.
type NoopNotifier struct{}

func (NoopNotifier) NotifyLowStock(context.Context, models.LowStockEvent) error { return nil }
