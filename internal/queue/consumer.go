package queue

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// StartPurchaseConsumer connects to RabbitMQ, declares the durable
// purchase.confirmed queue and consumes it forever.  Each event becomes
// a confirmation mail appended to logs/email.log (delivery stub; a real
// SMTP sender would slot in at writeMail).  The function runs a
// reconnect loop with exponential backoff and never returns under
// normal operation; processing errors reject the offending message
// without requeueing so a poison message cannot wedge the queue.
func StartPurchaseConsumer(url string) error {
	backoff := time.Second
	for {
		conn, err := amqp.Dial(url)
		if err != nil {
			log.Printf("purchase-consumer: failed to dial broker: %v; retrying in %s", err, backoff)
			time.Sleep(backoff)
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second // reset after successful connect

		if err := consumeLoop(conn); err != nil {
			log.Printf("purchase-consumer: consume loop ended: %v; reconnecting", err)
			time.Sleep(2 * time.Second)
		}
	}
}

func consumeLoop(conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		log.Printf("purchase-consumer: set QoS failed: %v", err)
	}

	if _, err := ch.QueueDeclare(purchaseQueueName, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}

	msgs, err := ch.Consume(purchaseQueueName, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for d := range msgs {
		if err := handleMessage(d.Body); err != nil {
			log.Printf("purchase-consumer: handle message failed: %v", err)
			_ = d.Nack(false, false)
			continue
		}
		_ = d.Ack(false)
	}
	return errors.New("deliveries channel closed")
}

func handleMessage(body []byte) error {
	var ev PurchaseConfirmedEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	if ev.Email == "" {
		// User never set an email; nothing to deliver.
		log.Printf("purchase-consumer: purchase %d confirmed, user %d has no email on file", ev.PurchaseID, ev.UserID)
		return nil
	}
	return writeMail(ev)
}

// writeMail appends the confirmation mail to logs/email.log.
func writeMail(ev PurchaseConfirmedEvent) error {
	if err := os.MkdirAll("logs", 0o755); err != nil {
		return fmt.Errorf("mkdir logs: %w", err)
	}
	f, err := os.OpenFile(filepath.Join("logs", "email.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(formatMail(ev)); err != nil {
		return fmt.Errorf("write log: %w", err)
	}
	return nil
}

func formatMail(ev PurchaseConfirmedEvent) string {
	ids := make([]string, len(ev.TicketIDs))
	for i, id := range ev.TicketIDs {
		ids[i] = fmt.Sprintf("%d", id)
	}
	return fmt.Sprintf(
		"[%s] To: %s | Subject: Purchase %d confirmed | Your payment %s was accepted. Tickets: [%s]. Total: %d.%02d\n",
		ev.PaidAt, ev.Email, ev.PurchaseID, ev.Reference,
		strings.Join(ids, ","), ev.TotalCents/100, ev.TotalCents%100)
}
