// Package events publishes order lifecycle events to RabbitMQ so downstream
// consumers (kitchen display, fulfillment, analytics) can react without the
// conversation flow knowing they exist.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/shopspring/decimal"

	"github.com/Rajath2005/whatsapp-food-agent/internal/core/domain/entity"
	"github.com/Rajath2005/whatsapp-food-agent/internal/core/ports"
)

const (
	ExchangeName = "orders"
	ExchangeType = "topic"

	routingKeyOrderCreated = "order.created"
)

// Connect dials RabbitMQ and declares the orders exchange. Retries cover
// the window where the broker container is still starting.
func Connect(url string) (*amqp.Connection, *amqp.Channel, error) {
	var conn *amqp.Connection
	var err error

	for i := 0; i < 5; i++ {
		conn, err = amqp.Dial(url)
		if err == nil {
			break
		}
		log.Printf("rabbitmq not ready (attempt %d): %v", i+1, err)
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("events: connect: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, nil, fmt.Errorf("events: open channel: %w", err)
	}

	if err := ch.ExchangeDeclare(
		ExchangeName,
		ExchangeType,
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,
	); err != nil {
		ch.Close()
		conn.Close()
		return nil, nil, fmt.Errorf("events: declare exchange: %w", err)
	}
	return conn, ch, nil
}

// orderCreatedEvent is the wire shape consumers bind to. EventID makes
// redeliveries detectable on the consumer side.
type orderCreatedEvent struct {
	EventID       string             `json:"event_id"`
	OrderID       string             `json:"order_id"`
	CustomerPhone string             `json:"customer_phone"`
	CustomerName  string             `json:"customer_name,omitempty"`
	Items         []entity.OrderItem `json:"items"`
	TotalAmount   decimal.Decimal    `json:"total_amount"`
	Status        string             `json:"status"`
	CreatedAt     time.Time          `json:"created_at"`
}

// Publisher implements ports.OrderEvents over an AMQP channel.
type Publisher struct {
	ch *amqp.Channel
}

var _ ports.OrderEvents = (*Publisher)(nil)

func NewPublisher(ch *amqp.Channel) *Publisher {
	return &Publisher{ch: ch}
}

func (p *Publisher) OrderCreated(ctx context.Context, order entity.Order) error {
	body, err := json.Marshal(orderCreatedEvent{
		EventID:       uuid.NewString(),
		OrderID:       order.ID,
		CustomerPhone: order.CustomerPhone,
		CustomerName:  order.CustomerName,
		Items:         order.Items,
		TotalAmount:   order.TotalAmount,
		Status:        string(order.Status),
		CreatedAt:     order.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("events: marshal order %s: %w", order.ID, err)
	}

	if err := p.ch.PublishWithContext(ctx,
		ExchangeName,
		routingKeyOrderCreated,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType: "application/json",
			MessageId:   order.ID,
			Timestamp:   order.CreatedAt,
			Body:        body,
		},
	); err != nil {
		return fmt.Errorf("events: publish order %s: %w", order.ID, err)
	}
	return nil
}
