package notification

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"venue-reservation/internal/pkg/errs"

	amqp "github.com/rabbitmq/amqp091-go"
)

const maxReconnectBackoff = 30 * time.Second

type Mailer interface {
	Send(ctx context.Context, to, subject, html string) error
}

// Consumer drains the notice queue into a Mailer. Undeliverable messages are dropped
// after one attempt so a bad address cannot block the queue.
type Consumer struct {
	url         string
	queue       string
	mailer      Mailer
	sendTimeout time.Duration

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewConsumer(url, queue string, mailer Mailer, sendTimeout time.Duration) *Consumer {
	return &Consumer{url: url, queue: queue, mailer: mailer, sendTimeout: sendTimeout}
}

func (c *Consumer) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		c.run(ctx)
	}()
	slog.Info("notification consumer started", "queue", c.queue)
}

func (c *Consumer) Stop() {
	if c.cancel != nil {
		c.cancel()
	}
	c.wg.Wait()
	slog.Info("notification consumer stopped")
}

func (c *Consumer) run(ctx context.Context) {
	backoff := time.Second
	for ctx.Err() == nil {
		conn, err := amqp.Dial(c.url)
		if err != nil {
			slog.Warn("notification consumer failed to dial broker",
				"error", err.Error(),
				"retry_in", backoff.String())
			if !sleepCtx(ctx, backoff) {
				return
			}
			backoff = min(backoff*2, maxReconnectBackoff)
			continue
		}
		backoff = time.Second

		if err := c.consume(ctx, conn); err != nil && ctx.Err() == nil {
			slog.Warn("notification consume loop ended; reconnecting", "error", err.Error())
			sleepCtx(ctx, 2*time.Second)
		}
		_ = conn.Close()
	}
}

func (c *Consumer) consume(ctx context.Context, conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return errs.Wrap(err, "open channel")
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(10, 0, false); err != nil {
		slog.Warn("notification consumer failed to set QoS", "error", err.Error())
	}
	if _, err := ch.QueueDeclare(c.queue, true, false, false, false, nil); err != nil {
		return errs.Wrap(err, "declare queue")
	}
	deliveries, err := ch.Consume(c.queue, "", false, false, false, false, nil)
	if err != nil {
		return errs.Wrap(err, "consume queue")
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-deliveries:
			if !ok {
				return errs.New("deliveries channel closed")
			}
			if err := c.Handle(ctx, d.Body); err != nil {
				slog.Error("failed to deliver notice", "error", err.Error())
				_ = d.Nack(false, false)
				continue
			}
			_ = d.Ack(false)
		}
	}
}

// Handle delivers one queued envelope.
func (c *Consumer) Handle(ctx context.Context, body []byte) error {
	var env Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return errs.Wrap(err, "decode notice")
	}
	if env.To == "" {
		return errs.New("notice has no recipient")
	}
	if c.sendTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.sendTimeout)
		defer cancel()
	}
	return c.mailer.Send(ctx, env.To, env.Subject, env.HTML)
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
