package events

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"ecofinds/internal/logger"

	amqp "github.com/rabbitmq/amqp091-go"
)

// ChannelPool shares one AMQP connection across a fixed set of channels, each
// with the event queue declared.
type ChannelPool struct {
	conn      *amqp.Connection
	channels  chan *amqp.Channel
	mu        sync.Mutex
	closed    bool
	queueName string
}

func NewChannelPool(url, queueName string, size int) (*ChannelPool, error) {
	if size <= 0 {
		size = 1
	}
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	pool := &ChannelPool{
		conn:      conn,
		channels:  make(chan *amqp.Channel, size),
		queueName: queueName,
	}

	for i := 0; i < size; i++ {
		ch, err := pool.createChannel()
		if err != nil {
			pool.Close()
			return nil, fmt.Errorf("failed to create channel %d: %w", i, err)
		}
		pool.channels <- ch
	}

	return pool, nil
}

func (p *ChannelPool) createChannel() (*amqp.Channel, error) {
	ch, err := p.conn.Channel()
	if err != nil {
		return nil, err
	}

	_, err = ch.QueueDeclare(
		p.queueName, // name
		true,        // durable
		false,       // delete when unused
		false,       // exclusive
		false,       // no-wait
		nil,         // arguments
	)
	if err != nil {
		ch.Close()
		return nil, fmt.Errorf("failed to declare queue: %w", err)
	}

	return ch, nil
}

// Get waits for a free channel, replacing it if the broker closed it.
func (p *ChannelPool) Get(ctx context.Context) (*amqp.Channel, error) {
	select {
	case ch, ok := <-p.channels:
		if !ok {
			return nil, errors.New("channel pool closed")
		}
		if ch.IsClosed() {
			return p.createChannel()
		}
		return ch, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (p *ChannelPool) Put(ch *amqp.Channel) {
	if ch == nil || ch.IsClosed() {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		ch.Close()
		return
	}
	select {
	case p.channels <- ch:
	default:
		ch.Close()
	}
}

func (p *ChannelPool) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.closed = true

	close(p.channels)
	for ch := range p.channels {
		ch.Close()
	}
	if p.conn != nil {
		p.conn.Close()
	}
}

type RabbitPublisher struct {
	pool *ChannelPool
}

func NewRabbitPublisher(pool *ChannelPool) *RabbitPublisher {
	return &RabbitPublisher{pool: pool}
}

func (p *RabbitPublisher) Publish(ctx context.Context, e Event) error {
	body, err := encode(e)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	ch, err := p.pool.Get(ctx)
	if err != nil {
		return fmt.Errorf("failed to get channel from pool: %w", err)
	}
	defer p.pool.Put(ch)

	err = ch.PublishWithContext(ctx,
		"",               // exchange
		p.pool.queueName, // routing key
		false,            // mandatory
		false,            // immediate
		amqp.Publishing{
			DeliveryMode: amqp.Persistent,
			ContentType:  "application/json",
			Type:         string(e.Type),
			MessageId:    e.AggregateID,
			Timestamp:    e.Timestamp,
			Body:         body,
		})
	if err != nil {
		return fmt.Errorf("failed to publish %s: %w", e.Type, err)
	}
	return nil
}

func (p *RabbitPublisher) Close() error {
	p.pool.Close()
	return nil
}

type RabbitConsumer struct {
	conn      *amqp.Connection
	queueName string
	logger    *logger.Logger
}

func NewRabbitConsumer(url, queueName string, logger *logger.Logger) (*RabbitConsumer, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	return &RabbitConsumer{conn: conn, queueName: queueName, logger: logger}, nil
}

func (c *RabbitConsumer) Consume(ctx context.Context, h Handler) error {
	ch, err := c.conn.Channel()
	if err != nil {
		return fmt.Errorf("failed to open channel: %w", err)
	}
	defer ch.Close()

	if _, err := ch.QueueDeclare(c.queueName, true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare queue: %w", err)
	}
	// one unacknowledged message at a time
	if err := ch.Qos(1, 0, false); err != nil {
		return fmt.Errorf("failed to set QoS: %w", err)
	}

	msgs, err := ch.Consume(
		c.queueName,
		"ecofinds-worker", // consumer tag
		false,             // manual ack
		false,             // exclusive
		false,             // no-local
		false,             // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-msgs:
			if !ok {
				return errors.New("delivery channel closed")
			}
			c.handle(ctx, msg, h)
		}
	}
}

func (c *RabbitConsumer) handle(ctx context.Context, msg amqp.Delivery, h Handler) {
	event, err := decode(msg.Body)
	if err != nil {
		c.logger.Error("%v", err)
		msg.Nack(false, false)
		return
	}
	if err := h(ctx, event); err != nil {
		c.logger.Error("Failed to process %s event: %v", event.Type, err)
		msg.Nack(false, false)
		return
	}
	if err := msg.Ack(false); err != nil {
		c.logger.Error("Failed to acknowledge message: %v", err)
	}
}

func (c *RabbitConsumer) Close() error {
	return c.conn.Close()
}
