package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/srgjo27/movie_cashier/internal/core/domain"
)

type BillLine struct {
	MovieName string  `json:"movie_name"`
	Date      string  `json:"date"`
	Showtime  string  `json:"showtime"`
	Quantity  int     `json:"quantity"`
	LineTotal float64 `json:"line_total"`
}

type BillFinalizedEvent struct {
	SessionID   string     `json:"session_id"`
	Recipient   string     `json:"recipient"`
	Total       float64    `json:"total"`
	Lines       []BillLine `json:"lines"`
	FinalizedAt time.Time  `json:"finalized_at"`
}

func NewBillFinalizedEvent(recipient string, bill domain.SessionBill) BillFinalizedEvent {
	lines := make([]BillLine, 0, len(bill.Entries))
	for _, e := range bill.Entries {
		lines = append(lines, BillLine{
			MovieName: e.MovieName,
			Date:      e.Date,
			Showtime:  string(e.Showtime),
			Quantity:  e.Quantity,
			LineTotal: e.LineTotal,
		})
	}

	return BillFinalizedEvent{
		SessionID:   bill.SessionID.String(),
		Recipient:   recipient,
		Total:       bill.Total,
		Lines:       lines,
		FinalizedAt: bill.FinalizedAt.UTC(),
	}
}

type Publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// QueueSender publishes finalized bills to a durable AMQP queue.
type QueueSender struct {
	pub   Publisher
	queue string
}

func NewQueueSender(pub Publisher, queue string) *QueueSender {
	return &QueueSender{pub: pub, queue: queue}
}

// DialQueue opens a channel and declares the queue. Close the returned
// connection when the session ends.
func DialQueue(url, queue string) (*amqp.Connection, *amqp.Channel, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, nil, fmt.Errorf("rabbitmq: dial failed: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, nil, fmt.Errorf("rabbitmq: channel open failed: %w", err)
	}

	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, nil, fmt.Errorf("rabbitmq: queue declare failed: %w", err)
	}

	return conn, ch, nil
}

func (s *QueueSender) SendBill(ctx context.Context, recipient string, bill domain.SessionBill) error {
	body, err := json.Marshal(NewBillFinalizedEvent(recipient, bill))
	if err != nil {
		return fmt.Errorf("rabbitmq: marshal event failed: %w", err)
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    bill.SessionID.String(),
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}

	if err := s.pub.PublishWithContext(ctx, "", s.queue, false, false, msg); err != nil {
		return fmt.Errorf("rabbitmq: publish failed: %w", err)
	}

	return nil
}
