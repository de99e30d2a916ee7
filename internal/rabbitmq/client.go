// Package rabbitmq publishes domain events to a topic exchange with publisher
// confirms.
package rabbitmq

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// ErrClosed is returned when publishing on a closed client.
var ErrClosed = errors.New("rabbitmq: client closed")

const confirmTimeout = 5 * time.Second

// Client owns one connection and one confirm-mode publishing channel.
// A broken connection is re-dialled on the next publish.
type Client struct {
	url      string
	exchange string
	logger   *zap.Logger

	mu       sync.Mutex
	conn     *amqp.Connection
	ch       *amqp.Channel
	confirms chan amqp.Confirmation
	closed   bool
}

// Connect dials the broker and declares the durable topic exchange.
func Connect(url, exchange string, logger *zap.Logger) (*Client, error) {
	c := &Client{url: url, exchange: exchange, logger: logger}

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.connectLocked(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Client) connectLocked() error {
	conn, err := amqp.DialConfig(c.url, amqp.Config{
		Heartbeat: 10 * time.Second,
		Locale:    "en_US",
		Dial:      amqp.DefaultDial(30 * time.Second),
	})
	if err != nil {
		return fmt.Errorf("rabbitmq dial failed: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("rabbitmq: failed to open channel: %w", err)
	}

	if err := ch.ExchangeDeclare(c.exchange, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		_ = conn.Close()
		return fmt.Errorf("rabbitmq: failed to declare exchange %q: %w", c.exchange, err)
	}

	if err := ch.Confirm(false); err != nil {
		_ = conn.Close()
		return fmt.Errorf("rabbitmq: failed to enable confirms: %w", err)
	}

	c.conn = conn
	c.ch = ch
	c.confirms = ch.NotifyPublish(make(chan amqp.Confirmation, 1))

	c.logger.Info("rabbitmq connected", zap.String("exchange", c.exchange))
	return nil
}

// Publish sends a persistent JSON message and waits for the broker confirm.
func (c *Client) Publish(ctx context.Context, routingKey string, body []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrClosed
	}
	if c.conn == nil || c.conn.IsClosed() || c.ch == nil || c.ch.IsClosed() {
		c.logger.Warn("rabbitmq connection lost, reconnecting")
		c.resetLocked()
		if err := c.connectLocked(); err != nil {
			return err
		}
	}

	ctx, cancel := context.WithTimeout(ctx, confirmTimeout)
	defer cancel()

	err := c.ch.PublishWithContext(ctx, c.exchange, routingKey, false, false, amqp.Publishing{
		DeliveryMode: amqp.Persistent,
		ContentType:  "application/json",
		Timestamp:    time.Now(),
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("rabbitmq: publish %s: %w", routingKey, err)
	}

	select {
	case confirm, ok := <-c.confirms:
		if !ok {
			return errors.New("rabbitmq: confirm stream closed")
		}
		if !confirm.Ack {
			return fmt.Errorf("rabbitmq: publish %s not acknowledged", routingKey)
		}
		return nil
	case <-ctx.Done():
		// A late confirm would be read by the next publish; start over on a fresh channel.
		c.resetLocked()
		return ctx.Err()
	}
}

func (c *Client) resetLocked() {
	if c.ch != nil {
		_ = c.ch.Close()
		c.ch = nil
	}
	if c.conn != nil {
		_ = c.conn.Close()
		c.conn = nil
	}
}

// Close shuts the channel and connection.
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.closed = true
	c.resetLocked()
}
