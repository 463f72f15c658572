package queue

import (
	"context"
	"encoding/json"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const purchaseQueueName = "purchase.confirmed"

// Publisher publishes domain events to RabbitMQ.  Every publish opens a
// fresh connection; the volume is one message per paid purchase, so
// connection reuse buys nothing here.  Errors are logged and returned so
// callers can ignore failures without interrupting the request flow.
type Publisher struct {
	URL string
}

// PurchaseConfirmed publishes the event to the purchase.confirmed
// queue.  The queue is declared durable and messages are marked
// persistent so confirmations survive broker restarts.
func (p Publisher) PurchaseConfirmed(ctx context.Context, event PurchaseConfirmedEvent) error {
	conn, err := amqp.Dial(p.URL)
	if err != nil {
		log.Printf("rabbitmq: dial failed: %v", err)
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		log.Printf("rabbitmq: channel open failed: %v", err)
		return err
	}
	defer func() { _ = ch.Close() }()

	// Idempotent declare so publisher and consumer can start in any order.
	if _, err := ch.QueueDeclare(purchaseQueueName, true, false, false, false, nil); err != nil {
		log.Printf("rabbitmq: queue declare failed: %v", err)
		return err
	}

	body, err := json.Marshal(event)
	if err != nil {
		log.Printf("rabbitmq: marshal event failed: %v", err)
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", purchaseQueueName, false, false, pub); err != nil {
		log.Printf("rabbitmq: publish failed: %v", err)
		return err
	}
	return nil
}
