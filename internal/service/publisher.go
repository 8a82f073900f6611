// Package service holds the side-effecting collaborators used by handlers
// beyond the store, currently the audit event publisher.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/iliyamo/casting-agency/internal/queue"
)

// Publisher delivers resource events to downstream consumers.
type Publisher interface {
	Publish(ctx context.Context, ev queue.ResourceEvent) error
}

// NoopPublisher drops every event. It is used when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, queue.ResourceEvent) error { return nil }

// AMQPPublisher publishes events to a durable RabbitMQ queue. Each call
// dials its own connection so a broker restart never leaves the publisher
// holding a dead channel.
type AMQPPublisher struct {
	URL   string
	Queue string

	// DialTimeout bounds the TCP and TLS handshake. A shorter ctx deadline wins.
	DialTimeout time.Duration
}

// NewAMQPPublisher returns a publisher for url and queueName.
func NewAMQPPublisher(url, queueName string) *AMQPPublisher {
	return &AMQPPublisher{URL: url, Queue: queueName, DialTimeout: 5 * time.Second}
}

// dialTimeout is the configured timeout clipped to the ctx deadline.
func (p *AMQPPublisher) dialTimeout(ctx context.Context) time.Duration {
	timeout := p.DialTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	if deadline, ok := ctx.Deadline(); ok {
		timeout = min(timeout, max(time.Until(deadline), time.Millisecond))
	}
	return timeout
}

// Publish marshals ev and sends it as a persistent message routed to the
// queue through the default exchange.
func (p *AMQPPublisher) Publish(ctx context.Context, ev queue.ResourceEvent) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	conn, err := amqp.DialConfig(p.URL, amqp.Config{
		Heartbeat: 10 * time.Second,
		Locale:    "en_US",
		Dial:      amqp.DefaultDial(p.dialTimeout(ctx)),
	})
	if err != nil {
		return fmt.Errorf("dial broker: %w", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("open channel: %w", err)
	}
	defer func() { _ = ch.Close() }()

	// idempotent; durable so messages survive broker restarts
	if _, err := ch.QueueDeclare(p.Queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    ev.ID,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", p.Queue, false, false, pub); err != nil {
		return fmt.Errorf("publish: %w", err)
	}
	return nil
}

// AsyncPublisher hands events to next in background goroutines so a slow
// broker never delays a response. Failures are logged and never reach the
// caller. Drain waits for in-flight events during shutdown.
type AsyncPublisher struct {
	next    Publisher
	timeout time.Duration
	wg      sync.WaitGroup
}

// NewAsyncPublisher wraps next; each event gets at most timeout to publish.
func NewAsyncPublisher(next Publisher, timeout time.Duration) *AsyncPublisher {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &AsyncPublisher{next: next, timeout: timeout}
}

// Publish schedules ev and returns immediately. Cancelling ctx does not
// cancel the publish.
func (a *AsyncPublisher) Publish(ctx context.Context, ev queue.ResourceEvent) error {
	ctx = context.WithoutCancel(ctx)
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		ctx, cancel := context.WithTimeout(ctx, a.timeout)
		defer cancel()
		if err := a.next.Publish(ctx, ev); err != nil {
			slog.Warn("audit event not published",
				"resource", ev.Resource, "action", ev.Action, "resource_id", ev.ResourceID, "error", err)
		}
	}()
	return nil
}

// Drain blocks until every scheduled event has been handled or ctx is done.
func (a *AsyncPublisher) Drain(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		a.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("audit events still in flight: %w", ctx.Err())
	}
}
