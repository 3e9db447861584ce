package delivery

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/wb-go/wbf/retry"

	mocks "github.com/stagewave/notifier/internal/mocks/rabbitmq/handlers/delivery"
	"github.com/stagewave/notifier/internal/model"
	"github.com/stagewave/notifier/internal/rabbitmq/queue"
	notifrepo "github.com/stagewave/notifier/internal/repository/notification"
	deliverysvc "github.com/stagewave/notifier/internal/service/delivery"
)

func setupHandler(t *testing.T) (*Handler, *mocks.MockdeliveryService, *mocks.MockretryQueue) {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	svc := mocks.NewMockdeliveryService(ctrl)
	q := mocks.NewMockretryQueue(ctrl)

	return NewHandler(svc, q), svc, q
}

func dueNotification(id uuid.UUID) model.ScheduledNotification {
	return model.ScheduledNotification{
		ID:          id,
		Status:      model.StatusPending,
		ScheduledAt: time.Now().Add(-time.Second),
	}
}

func TestHandleJob_Delivered(t *testing.T) {
	h, svc, _ := setupHandler(t)

	job := queue.DeliveryJob{NotificationID: uuid.New()}
	strategy := retry.Strategy{Attempts: 3}

	svc.EXPECT().Get(gomock.Any(), job.NotificationID).Return(dueNotification(job.NotificationID), nil)
	svc.EXPECT().Deliver(gomock.Any(), job.NotificationID).Return(nil)

	h.HandleJob(context.Background(), job, strategy)
}

func TestHandleJob_WaitsUntilDue(t *testing.T) {
	h, svc, _ := setupHandler(t)

	job := queue.DeliveryJob{NotificationID: uuid.New()}
	strategy := retry.Strategy{Attempts: 3}

	n := dueNotification(job.NotificationID)
	n.ScheduledAt = time.Now().Add(30 * time.Millisecond)

	svc.EXPECT().Get(gomock.Any(), job.NotificationID).Return(n, nil)

	var deliveredAt time.Time
	svc.EXPECT().Deliver(gomock.Any(), job.NotificationID).DoAndReturn(
		func(context.Context, uuid.UUID) error {
			deliveredAt = time.Now()
			return nil
		},
	)

	h.HandleJob(context.Background(), job, strategy)

	if deliveredAt.Before(n.ScheduledAt) {
		t.Fatalf("delivered at %v, before scheduled time %v", deliveredAt, n.ScheduledAt)
	}
}

func TestHandleJob_TransientError_Retries(t *testing.T) {
	h, svc, q := setupHandler(t)

	job := queue.DeliveryJob{NotificationID: uuid.New()}
	strategy := retry.Strategy{Attempts: 3}

	svc.EXPECT().Get(gomock.Any(), job.NotificationID).Return(dueNotification(job.NotificationID), nil)
	svc.EXPECT().Deliver(gomock.Any(), job.NotificationID).
		Return(&deliverysvc.TransientError{Err: errors.New("gateway timeout")})

	retried := job
	retried.Attempt = 1
	q.EXPECT().PublishRetry(retried, strategy).Return(nil)

	h.HandleJob(context.Background(), job, strategy)
}

func TestHandleJob_RetryBudgetExhausted_MovesToDLQ(t *testing.T) {
	h, svc, q := setupHandler(t)

	job := queue.DeliveryJob{NotificationID: uuid.New(), Attempt: 2}
	strategy := retry.Strategy{Attempts: 3}

	svc.EXPECT().Get(gomock.Any(), job.NotificationID).Return(dueNotification(job.NotificationID), nil)
	svc.EXPECT().Deliver(gomock.Any(), job.NotificationID).
		Return(&deliverysvc.TransientError{Err: errors.New("gateway timeout")})

	dead := job
	dead.Attempt = 3
	q.EXPECT().PublishDead(dead, strategy).Return(nil)

	h.HandleJob(context.Background(), job, strategy)
}

func TestHandleJob_UnknownNotification_Drops(t *testing.T) {
	h, svc, _ := setupHandler(t)

	job := queue.DeliveryJob{NotificationID: uuid.New()}
	strategy := retry.Strategy{Attempts: 3}

	svc.EXPECT().Get(gomock.Any(), job.NotificationID).
		Return(model.ScheduledNotification{}, notifrepo.ErrNotificationNotFound)

	// neither Deliver nor any publish expected
	h.HandleJob(context.Background(), job, strategy)
}

func TestHandleJob_StateStoreDown_Retries(t *testing.T) {
	h, svc, q := setupHandler(t)

	job := queue.DeliveryJob{NotificationID: uuid.New()}
	strategy := retry.Strategy{Attempts: 3}

	svc.EXPECT().Get(gomock.Any(), job.NotificationID).
		Return(model.ScheduledNotification{}, errors.New("connection refused"))

	retried := job
	retried.Attempt = 1
	q.EXPECT().PublishRetry(retried, strategy).Return(nil)

	h.HandleJob(context.Background(), job, strategy)
}
