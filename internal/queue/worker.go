package queue

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/aidar/crm-notify/internal/domain"
)

// EventHandler обрабатывает одно событие уведомления
type EventHandler interface {
	Dispatch(ctx context.Context, event domain.NotificationEvent) error
}

// Worker читает события из очереди и передает их диспетчеру.
// Каждое событие обрабатывается независимо: упавшая отправка не
// останавливает воркер, решение о повторе принимает очередь.
type Worker struct {
	client     *Client
	queueName  string
	dispatcher EventHandler
	logger     *slog.Logger
}

// NewWorker создает новый Worker
func NewWorker(client *Client, queueName string, dispatcher EventHandler, logger *slog.Logger) *Worker {
	return &Worker{
		client:     client,
		queueName:  queueName,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// Run обрабатывает сообщения до отмены контекста
func (w *Worker) Run(ctx context.Context) error {
	deliveries, err := w.client.Consume(w.queueName)
	if err != nil {
		return err
	}

	w.logger.Info("worker started", "queue", w.queueName)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("worker stopped", "queue", w.queueName)
			return nil
		case d, ok := <-deliveries:
			if !ok {
				return errors.New("delivery channel closed")
			}
			w.handle(ctx, d)
		}
	}
}

// handle обрабатывает одну доставку. Подтверждение:
// ack при успехе и при неразборчивом сообщении (повтор бессмыслен),
// nack с requeue при первой ошибке отправки, без requeue при повторной.
func (w *Worker) handle(ctx context.Context, d amqp.Delivery) {
	var event domain.NotificationEvent
	if err := json.Unmarshal(d.Body, &event); err != nil {
		w.logger.Error("failed to unmarshal event, dropping", "error", err)
		w.ack(d)
		return
	}

	err := w.dispatcher.Dispatch(ctx, event)
	if err == nil {
		w.ack(d)
		return
	}

	if errors.Is(err, domain.ErrUnknownEvent) {
		w.logger.Error("unknown event kind, dropping", "event_id", event.EventID, "kind", event.Kind)
		w.ack(d)
		return
	}

	requeue := !d.Redelivered
	w.logger.Error("failed to dispatch event",
		"event_id", event.EventID,
		"kind", event.Kind,
		"requeue", requeue,
		"error", err,
	)
	if err := d.Nack(false, requeue); err != nil {
		w.logger.Error("failed to nack delivery", "event_id", event.EventID, "error", err)
	}
}

func (w *Worker) ack(d amqp.Delivery) {
	if err := d.Ack(false); err != nil {
		w.logger.Error("failed to ack delivery", "error", err)
	}
}
