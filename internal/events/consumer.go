package events

import (
	"context"
	"fmt"
	"log"

	amqp "github.com/rabbitmq/amqp091-go"
)

// HandlerFunc processes one delivery body. A nil return acks the message.
type HandlerFunc func(ctx context.Context, body []byte) error

// StartConsumer consumes queue with handler until ctx is cancelled.
func StartConsumer(ctx context.Context, conn *amqp.Connection, queue string, handler HandlerFunc, logger *log.Logger) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("open channel: %w", err)
	}

	_, err = ch.QueueDeclare(
		queue,
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		nil,
	)
	if err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}

	msgs, err := ch.Consume(
		queue,
		consumerName, // consumer tag
		false,        // autoAck
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("consume: %w", err)
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				logger.Printf("stopping %s consumer", queue)
				return
			case msg, ok := <-msgs:
				if !ok {
					logger.Println("messages channel closed")
					return
				}

				if err := handler(ctx, msg.Body); err != nil {
					logger.Printf("handle %s message: %v", queue, err)
					_ = msg.Nack(false, false) // drop for now
					continue
				}
				_ = msg.Ack(false)
			}
		}
	}()

	return nil
}
