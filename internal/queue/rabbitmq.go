package queue

import (
	"context"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Client представляет подключение к RabbitMQ с одним открытым каналом
type Client struct {
	conn *amqp.Connection
	ch   *amqp.Channel
}

// NewClient подключается к RabbitMQ и открывает канал
func NewClient(url string) (*Client, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	return &Client{conn: conn, ch: ch}, nil
}

// Close закрывает канал и соединение
func (c *Client) Close() error {
	if err := c.ch.Close(); err != nil {
		return err
	}
	return c.conn.Close()
}

// DeclareQueue объявляет durable очередь
func (c *Client) DeclareQueue(name string) error {
	_, err := c.ch.QueueDeclare(
		name,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	)
	return err
}

// Publish публикует persistent JSON сообщение в очередь
func (c *Client) Publish(ctx context.Context, queueName string, body []byte) error {
	return c.ch.PublishWithContext(
		ctx,
		"",        // exchange
		queueName, // routing key
		false,     // mandatory
		false,     // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
		},
	)
}

// Consume начинает чтение сообщений из очереди с ручным подтверждением
func (c *Client) Consume(queueName string) (<-chan amqp.Delivery, error) {
	return c.ch.Consume(
		queueName,
		"",    // consumer
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,   // args
	)
}
