package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/iliyamo/casting-agency/internal/config"
)

const maxBackoff = 30 * time.Second

// StartAuditConsumer connects to RabbitMQ, declares the audit queue (durable)
// and appends every delivered event to the audit log. It runs a reconnect
// loop with exponential backoff and only returns once ctx is cancelled.
// Messages that cannot be handled are rejected without requeue so a bad
// payload cannot spin the loop.
func StartAuditConsumer(ctx context.Context, cfg config.AMQPConfig) error {
	if cfg.URL == "" {
		return errors.New("audit consumer: AMQP_URL is not set")
	}
	sink := &AuditLog{Path: cfg.AuditLog}

	backoff := time.Second
	for {
		conn, err := amqp.Dial(cfg.URL)
		if err != nil {
			slog.Warn("audit consumer: dial failed", "error", err, "retry_in", backoff)
			if !sleep(ctx, backoff) {
				return ctx.Err()
			}
			backoff = min(backoff*2, maxBackoff)
			continue
		}
		backoff = time.Second // reset after successful connect

		err = consumeLoop(ctx, conn, cfg.Queue, sink)
		_ = conn.Close()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		slog.Warn("audit consumer: consume loop ended, reconnecting", "error", err)
		if !sleep(ctx, 2*time.Second) {
			return ctx.Err()
		}
	}
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

func consumeLoop(ctx context.Context, conn *amqp.Connection, queueName string, sink *AuditLog) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		slog.Warn("audit consumer: set QoS failed", "error", err)
	}
	if _, err := ch.QueueDeclare(queueName, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}
	msgs, err := ch.ConsumeWithContext(ctx, queueName, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}
	slog.Info("audit consumer: waiting for events", "queue", queueName, "log", sink.Path)

	for d := range msgs {
		if err := sink.Handle(d.Body); err != nil {
			slog.Error("audit consumer: handle message failed", "error", err)
			_ = d.Nack(false, false)
			continue
		}
		_ = d.Ack(false)
	}
	return errors.New("deliveries channel closed")
}

// AuditLog appends ResourceEvents to a file, one line per event.
type AuditLog struct {
	Path string
}

// Handle decodes body as a ResourceEvent and appends it to the log file,
// creating the parent directory when needed.
func (a *AuditLog) Handle(body []byte) error {
	var ev ResourceEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	if ev.Resource == "" || ev.Action == "" {
		return errors.New("event is missing resource or action")
	}
	if err := os.MkdirAll(filepath.Dir(a.Path), 0o755); err != nil {
		return fmt.Errorf("mkdir logs: %w", err)
	}
	f, err := os.OpenFile(a.Path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(FormatEvent(ev)); err != nil {
		return fmt.Errorf("write log: %w", err)
	}
	return nil
}

// FormatEvent renders ev as a single human-friendly log line.
func FormatEvent(ev ResourceEvent) string {
	return fmt.Sprintf("[%s] %s %s | id=%d | subject=%q | event_id=%s\n",
		ev.OccurredAt.UTC().Format(time.RFC3339), ev.Resource, ev.Action, ev.ResourceID, ev.Subject, ev.ID)
}
