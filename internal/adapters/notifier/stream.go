// Package notifier delivers due reminders produced by the notification scanners.
package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/SscSPs/finance_ledger/internal/core/domain"
	"github.com/SscSPs/finance_ledger/internal/core/ports/providers"
	goredis "github.com/redis/go-redis/v9"
)

const (
	// DefaultStream is the Redis stream reminders are appended to.
	DefaultStream = "finance_ledger:notifications"

	EventInvoiceDue      = "invoice.due"
	EventSubscriptionDue = "subscription.due"
)

// Event is the envelope appended to the stream under the "event" field.
type Event struct {
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
}

// InvoiceDue is the payload of an invoice.due event.
type InvoiceDue struct {
	InvoiceID      string `json:"invoiceID"`
	CardID         string `json:"cardID"`
	MonthReference string `json:"monthReference"`
	Amount         string `json:"amount"`
	CurrencyCode   string `json:"currencyCode"`
	DueDate        string `json:"dueDate"`
}

// SubscriptionDue is the payload of a subscription.due event.
type SubscriptionDue struct {
	SubscriptionID  string `json:"subscriptionID"`
	UserID          string `json:"userID"`
	CardID          string `json:"cardID"`
	Name            string `json:"name"`
	Amount          string `json:"amount"`
	NextBillingDate string `json:"nextBillingDate"`
}

// NewInvoiceDue builds the invoice.due payload.
func NewInvoiceDue(invoice domain.Invoice) InvoiceDue {
	return InvoiceDue{
		InvoiceID:      invoice.InvoiceID,
		CardID:         invoice.CardID,
		MonthReference: invoice.MonthReference,
		Amount:         invoice.Amount.StringFixed(2),
		CurrencyCode:   invoice.CurrencyCode,
		DueDate:        invoice.DueDate.Format(time.DateOnly),
	}
}

// NewSubscriptionDue builds the subscription.due payload.
func NewSubscriptionDue(sub domain.Subscription) SubscriptionDue {
	return SubscriptionDue{
		SubscriptionID:  sub.SubscriptionID,
		UserID:          sub.UserID,
		CardID:          sub.CardID,
		Name:            sub.Name,
		Amount:          sub.Amount.StringFixed(2),
		NextBillingDate: sub.NextBillingDate.Format(time.DateOnly),
	}
}

// StreamNotifier appends reminders to a Redis stream for downstream delivery workers.
type StreamNotifier struct {
	client *goredis.Client
	stream string
	now    func() time.Time
}

var _ providers.Notifier = (*StreamNotifier)(nil)

// NewStreamNotifier creates a notifier publishing to stream (DefaultStream when empty).
func NewStreamNotifier(client *goredis.Client, stream string) *StreamNotifier {
	if stream == "" {
		stream = DefaultStream
	}
	return &StreamNotifier{client: client, stream: stream, now: time.Now}
}

// EncodeEvent marshals an event envelope.
func EncodeEvent(eventType string, data any, at time.Time) ([]byte, error) {
	eventJSON, err := json.Marshal(Event{Type: eventType, Timestamp: at.UTC(), Data: data})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event: %w", err)
	}
	return eventJSON, nil
}

func (n *StreamNotifier) publish(ctx context.Context, eventType string, data any) error {
	eventJSON, err := EncodeEvent(eventType, data, n.now())
	if err != nil {
		return err
	}
	args := &goredis.XAddArgs{
		Stream: n.stream,
		Values: map[string]any{
			"event": eventJSON,
		},
	}
	if _, err := n.client.XAdd(ctx, args).Result(); err != nil {
		return fmt.Errorf("failed to publish %s event: %w", eventType, err)
	}
	return nil
}

func (n *StreamNotifier) NotifyInvoiceDue(ctx context.Context, invoice domain.Invoice) error {
	return n.publish(ctx, EventInvoiceDue, NewInvoiceDue(invoice))
}

func (n *StreamNotifier) NotifySubscriptionDue(ctx context.Context, sub domain.Subscription) error {
	return n.publish(ctx, EventSubscriptionDue, NewSubscriptionDue(sub))
}
