package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aidar/crm-notify/internal/domain"
)

// Publisher публикует события уведомлений в очередь задач
type Publisher struct {
	client    *Client
	queueName string
}

// NewPublisher создает новый Publisher
func NewPublisher(client *Client, queueName string) *Publisher {
	return &Publisher{client: client, queueName: queueName}
}

// Publish сериализует событие и кладет его в очередь
func (p *Publisher) Publish(ctx context.Context, event domain.NotificationEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	return p.client.Publish(ctx, p.queueName, body)
}
