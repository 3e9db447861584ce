package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/wb-go/wbf/rabbitmq"
	"github.com/wb-go/wbf/retry"
	"github.com/wb-go/wbf/zlog"
)

const (
	ExchangeName   = "delivery-exchange"
	MainQueueName  = "delivery-queue"
	RetryQueueName = "delivery-retry"
	DLQName        = "delivery-dlq"
	RoutingKey     = "delivery"

	// Delay before a retried job dead-letters back to the main queue.
	retryDelayMillis = int32(5000)
)

// DeliveryJob is the queue envelope for one delivery attempt. It carries
// only the notification id; the worker re-reads everything else from the
// state store so a stale payload can never be delivered. Attempt counts
// the transient failures seen so far for this job.
type DeliveryJob struct {
	NotificationID uuid.UUID `json:"notification_id"`
	Attempt        int       `json:"attempt,omitempty"`
}

// DeliveryQueue wires the delivery exchange and its three queues: the
// main work queue, a TTL retry queue that dead-letters back to the main
// queue, and a DLQ for jobs that exhausted their retry budget.
type DeliveryQueue struct {
	publisher      *rabbitmq.Publisher
	queuePublisher *rabbitmq.Publisher // default exchange, for retry/DLQ routing by queue name
	consumer       *rabbitmq.Consumer
	dlqConsumer    *rabbitmq.Consumer
}

func NewDeliveryQueue(ch *rabbitmq.Channel) (*DeliveryQueue, error) {
	exchange := rabbitmq.NewExchange(ExchangeName, "direct")
	if err := exchange.BindToChannel(ch); err != nil {
		return nil, fmt.Errorf("failed to bind to exchange: %w", err)
	}

	qm := rabbitmq.NewQueueManager(ch)

	dlq, err := qm.DeclareQueue(DLQName, rabbitmq.QueueConfig{Durable: true})
	if err != nil {
		return nil, fmt.Errorf("failed to declare DLQ queue: %w", err)
	}

	retryArgs := map[string]interface{}{
		"x-dead-letter-exchange":    "",
		"x-dead-letter-routing-key": MainQueueName,
		"x-message-ttl":             retryDelayMillis,
	}

	_, err = qm.DeclareQueue(RetryQueueName, rabbitmq.QueueConfig{
		Durable: true,
		Args:    retryArgs,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to declare retry queue: %w", err)
	}

	mainArgs := map[string]interface{}{
		"x-dead-letter-exchange":    "",
		"x-dead-letter-routing-key": DLQName,
	}

	mainQ, err := qm.DeclareQueue(MainQueueName, rabbitmq.QueueConfig{
		Durable: true,
		Args:    mainArgs,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to declare main queue: %w", err)
	}

	if err := ch.QueueBind(mainQ.Name, RoutingKey, exchange.Name(), false, nil); err != nil {
		return nil, fmt.Errorf("failed to bind the exchange to the main queue: %w", err)
	}

	return &DeliveryQueue{
		publisher:      rabbitmq.NewPublisher(ch, exchange.Name()),
		queuePublisher: rabbitmq.NewPublisher(ch, ""),
		consumer:       rabbitmq.NewConsumer(ch, rabbitmq.NewConsumerConfig(mainQ.Name)),
		dlqConsumer:    rabbitmq.NewConsumer(ch, rabbitmq.NewConsumerConfig(dlq.Name)),
	}, nil
}

// PublishJob enqueues a job on the main delivery queue. The producer
// must have persisted the pending notification row first.
func (q *DeliveryQueue) PublishJob(job DeliveryJob, strategy retry.Strategy) error {
	body, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to marshal job: %w", err)
	}

	return q.publisher.PublishWithRetry(body, RoutingKey, "application/json", strategy)
}

// PublishRetry parks a job on the retry queue; the queue's TTL
// dead-letters it back to the main queue after the backoff delay.
func (q *DeliveryQueue) PublishRetry(job DeliveryJob, strategy retry.Strategy) error {
	body, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to marshal job: %w", err)
	}

	return q.queuePublisher.PublishWithRetry(body, RetryQueueName, "application/json", strategy)
}

// PublishDead moves a job that exhausted its retry budget to the DLQ.
func (q *DeliveryQueue) PublishDead(job DeliveryJob, strategy retry.Strategy) error {
	body, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to marshal job: %w", err)
	}

	return q.queuePublisher.PublishWithRetry(body, DLQName, "application/json", strategy)
}

// Consume forwards jobs from the main queue to out until ctx is done.
func (q *DeliveryQueue) Consume(ctx context.Context, out chan<- DeliveryJob, strategy retry.Strategy) error {
	return consume(ctx, q.consumer, out, strategy)
}

// ConsumeDLQ forwards dead-lettered jobs to out until ctx is done.
func (q *DeliveryQueue) ConsumeDLQ(ctx context.Context, out chan<- DeliveryJob, strategy retry.Strategy) error {
	return consume(ctx, q.dlqConsumer, out, strategy)
}

func consume(ctx context.Context, c *rabbitmq.Consumer, out chan<- DeliveryJob, strategy retry.Strategy) error {
	msgChan := make(chan []byte)

	go func() {
		for m := range msgChan {
			var job DeliveryJob
			if err := json.Unmarshal(m, &job); err != nil {
				zlog.Logger.Error().Err(err).Msg("failed to unmarshal job")
				continue
			}

			select {
			case <-ctx.Done():
				return
			case out <- job:
			}
		}
	}()

	return c.ConsumeWithRetry(msgChan, strategy)
}
