package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/rabbitmq/amqp091-go"

	"github.com/api-sage/accounts-ledger/src/internal/logger"
)

// Publisher sends a JSON body to an exchange with a routing key.
type Publisher interface {
	Publish(ctx context.Context, exchange, routingKey string, body any) error
	Close()
}

// Producer publishes to RabbitMQ. Exchanges are declared once, as durable
// topic exchanges.
type Producer struct {
	mu       sync.Mutex
	conn     *amqp091.Connection
	channel  *amqp091.Channel
	declared map[string]struct{}
}

func NewProducer(amqpURL string) (*Producer, error) {
	cleanURL, err := sanitizeAMQPURL(amqpURL)
	if err != nil {
		return nil, err
	}

	conn, err := amqp091.DialConfig(cleanURL, amqp091.Config{Dial: amqp091.DefaultDial(10 * time.Second)})
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open rabbitmq channel: %w", err)
	}

	return &Producer{conn: conn, channel: ch, declared: make(map[string]struct{})}, nil
}

func (p *Producer) Publish(ctx context.Context, exchange, routingKey string, body any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	err = p.publishLocked(ctx, exchange, routingKey, payload)
	if err == nil || !errors.Is(err, amqp091.ErrClosed) {
		return err
	}

	// The channel dies on any channel-level error; reopen once and retry.
	if reopenErr := p.reopenLocked(); reopenErr != nil {
		return fmt.Errorf("reopen rabbitmq channel: %w", reopenErr)
	}
	return p.publishLocked(ctx, exchange, routingKey, payload)
}

func (p *Producer) publishLocked(ctx context.Context, exchange, routingKey string, payload []byte) error {
	if p.channel == nil {
		return amqp091.ErrClosed
	}

	if _, ok := p.declared[exchange]; !ok {
		if err := p.channel.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
			return err
		}
		p.declared[exchange] = struct{}{}
	}

	return p.channel.PublishWithContext(ctx, exchange, routingKey, false, false, amqp091.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp091.Persistent,
		Body:         payload,
		Timestamp:    time.Now(),
	})
}

func (p *Producer) reopenLocked() error {
	if p.conn == nil || p.conn.IsClosed() {
		return amqp091.ErrClosed
	}
	ch, err := p.conn.Channel()
	if err != nil {
		return err
	}
	p.channel = ch
	p.declared = make(map[string]struct{})
	return nil
}

func (p *Producer) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.channel != nil {
		_ = p.channel.Close()
	}
	if p.conn != nil {
		_ = p.conn.Close()
	}
}

// FallbackPublisher logs events instead of sending them. It is used when
// RabbitMQ is not configured or unreachable.
type FallbackPublisher struct{}

func (FallbackPublisher) Publish(_ context.Context, exchange, routingKey string, body any) error {
	logger.Info("event publisher fallback", logger.Fields{
		"exchange":   exchange,
		"routingKey": routingKey,
		"body":       body,
	})
	return nil
}

func (FallbackPublisher) Close() {}

func sanitizeAMQPURL(raw string) (string, error) {
	clean := strings.Trim(strings.TrimSpace(raw), "\"'")
	if idx := strings.Index(strings.ToLower(clean), "amqp"); idx > 0 {
		clean = clean[idx:]
	}
	u, err := url.Parse(clean)
	if err != nil {
		return "", fmt.Errorf("parse amqp url: %w", err)
	}
	if u.Scheme != "amqp" && u.Scheme != "amqps" {
		return "", errors.New("AMQP scheme must be either 'amqp://' or 'amqps://'")
	}
	return clean, nil
}
