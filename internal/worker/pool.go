// Package worker runs the delivery consumer pool: a bounded number of
// goroutines pull jobs off the queue under a global send-rate cap that
// protects the push gateway from bursts.
package worker

import (
	"context"
	"sync"

	"github.com/wb-go/wbf/retry"
	"github.com/wb-go/wbf/zlog"
	"golang.org/x/time/rate"

	"github.com/stagewave/notifier/internal/rabbitmq/queue"
)

//go:generate mockgen -source=pool.go -destination=../mocks/worker/mock.go -package=mocks

type jobQueue interface {
	Consume(ctx context.Context, out chan<- queue.DeliveryJob, strategy retry.Strategy) error
	ConsumeDLQ(ctx context.Context, out chan<- queue.DeliveryJob, strategy retry.Strategy) error
}

type jobHandler interface {
	HandleJob(ctx context.Context, job queue.DeliveryJob, strategy retry.Strategy)
}

type deadLetterHandler interface {
	HandleDead(ctx context.Context, job queue.DeliveryJob)
}

type Pool struct {
	queue   jobQueue
	handler jobHandler
	dead    deadLetterHandler
	limiter *rate.Limiter
}

// NewPool creates a delivery worker pool capped at ratePerSecond jobs
// across all workers.
func NewPool(q jobQueue, h jobHandler, d deadLetterHandler, ratePerSecond float64) *Pool {
	return &Pool{
		queue:   q,
		handler: h,
		dead:    d,
		limiter: rate.NewLimiter(rate.Limit(ratePerSecond), 1),
	}
}

// Run consumes jobs with workerCount concurrent workers plus one
// dead-letter worker, until ctx is cancelled.
func (p *Pool) Run(ctx context.Context, strategy retry.Strategy, workerCount int) {
	var wg sync.WaitGroup
	jobChan := make(chan queue.DeliveryJob, workerCount*10)
	deadChan := make(chan queue.DeliveryJob)

	go func() {
		if err := p.queue.Consume(ctx, jobChan, strategy); err != nil {
			zlog.Logger.Error().Err(err).Msg("failed to consume delivery jobs")
		}
	}()

	go func() {
		if err := p.queue.ConsumeDLQ(ctx, deadChan, strategy); err != nil {
			zlog.Logger.Error().Err(err).Msg("failed to consume dead-lettered jobs")
		}
	}()

	wg.Add(workerCount)
	for i := 0; i < workerCount; i++ {
		go func(id int) {
			defer wg.Done()

			zlog.Logger.Printf("worker-%d started", id)

			for {
				select {
				case <-ctx.Done():
					zlog.Logger.Printf("worker-%d shutting down", id)
					return
				case job, ok := <-jobChan:
					if !ok {
						zlog.Logger.Printf("worker-%d channel closed, shutting down", id)
						return
					}

					if err := p.limiter.Wait(ctx); err != nil {
						return
					}

					p.handler.HandleJob(ctx, job, strategy)
				}
			}
		}(i)
	}

	wg.Add(1)
	go func() {
		defer wg.Done()

		for {
			select {
			case <-ctx.Done():
				return
			case job, ok := <-deadChan:
				if !ok {
					return
				}

				p.dead.HandleDead(ctx, job)
			}
		}
	}()

	<-ctx.Done()
	wg.Wait()
	zlog.Logger.Print("delivery pool stopped")
}
