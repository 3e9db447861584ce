package schedule

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wb-go/wbf/retry"

	mocks "github.com/stagewave/notifier/internal/mocks/service/schedule"
	"github.com/stagewave/notifier/internal/model"
	"github.com/stagewave/notifier/internal/rabbitmq/queue"
)

func setupService(t *testing.T) (*Service, *mocks.MocknotificationRepository, *mocks.MockjobPublisher, *mocks.Mockcache) {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	repo := mocks.NewMocknotificationRepository(ctrl)
	publisher := mocks.NewMockjobPublisher(ctrl)
	cache := mocks.NewMockcache(ctrl)

	return NewService(repo, publisher, cache), repo, publisher, cache
}

func TestSchedule(t *testing.T) {
	svc, repo, publisher, cache := setupService(t)

	strategy := retry.Strategy{Attempts: 3}
	n := model.ScheduledNotification{
		UserID:      uuid.New(),
		Type:        "event_reminder",
		Title:       "Doors open soon",
		Message:     "The show starts in one hour.",
		ScheduledAt: time.Now().Add(time.Hour),
	}

	id := uuid.New()
	repo.EXPECT().CreateNotification(gomock.Any(), n).Return(id, nil)
	cache.EXPECT().SetWithRetry(gomock.Any(), strategy, id.String(), model.StatusPending).Return(nil)
	publisher.EXPECT().PublishJob(queue.DeliveryJob{NotificationID: id}, strategy).Return(nil)

	got, err := svc.Schedule(context.Background(), strategy, n)
	require.NoError(t, err)
	assert.Equal(t, id, got)
}

func TestSchedule_PublishFails(t *testing.T) {
	svc, repo, publisher, cache := setupService(t)

	strategy := retry.Strategy{Attempts: 3}
	n := model.ScheduledNotification{UserID: uuid.New(), Title: "T"}

	id := uuid.New()
	repo.EXPECT().CreateNotification(gomock.Any(), n).Return(id, nil)
	cache.EXPECT().SetWithRetry(gomock.Any(), strategy, id.String(), model.StatusPending).Return(nil)
	publisher.EXPECT().PublishJob(queue.DeliveryJob{NotificationID: id}, strategy).
		Return(errors.New("channel closed"))

	_, err := svc.Schedule(context.Background(), strategy, n)
	assert.Error(t, err)
}

func TestSchedule_CacheFailureIsNotFatal(t *testing.T) {
	svc, repo, publisher, cache := setupService(t)

	strategy := retry.Strategy{Attempts: 3}
	n := model.ScheduledNotification{UserID: uuid.New(), Title: "T"}

	id := uuid.New()
	repo.EXPECT().CreateNotification(gomock.Any(), n).Return(id, nil)
	cache.EXPECT().SetWithRetry(gomock.Any(), strategy, id.String(), model.StatusPending).
		Return(errors.New("connection refused"))
	publisher.EXPECT().PublishJob(queue.DeliveryJob{NotificationID: id}, strategy).Return(nil)

	got, err := svc.Schedule(context.Background(), strategy, n)
	require.NoError(t, err)
	assert.Equal(t, id, got)
}

func TestGetStatus_CacheHit(t *testing.T) {
	svc, _, _, cache := setupService(t)

	strategy := retry.Strategy{Attempts: 3}
	id := uuid.New()

	cache.EXPECT().GetWithRetry(gomock.Any(), strategy, id.String()).Return(model.StatusSent, nil)

	status, err := svc.GetStatus(context.Background(), strategy, id)
	require.NoError(t, err)
	assert.Equal(t, model.StatusSent, status)
}

func TestGetStatus_CacheMiss_FallsBackToStore(t *testing.T) {
	svc, repo, _, cache := setupService(t)

	strategy := retry.Strategy{Attempts: 3}
	id := uuid.New()

	cache.EXPECT().GetWithRetry(gomock.Any(), strategy, id.String()).Return("", redis.Nil)
	repo.EXPECT().GetStatusByID(gomock.Any(), id).Return(model.StatusPending, nil)
	cache.EXPECT().SetWithRetry(gomock.Any(), strategy, id.String(), model.StatusPending).Return(nil)

	status, err := svc.GetStatus(context.Background(), strategy, id)
	require.NoError(t, err)
	assert.Equal(t, model.StatusPending, status)
}

func TestCancel(t *testing.T) {
	svc, repo, _, cache := setupService(t)

	strategy := retry.Strategy{Attempts: 3}
	id := uuid.New()

	repo.EXPECT().Cancel(gomock.Any(), id).Return(true, nil)
	cache.EXPECT().SetWithRetry(gomock.Any(), strategy, id.String(), model.StatusCancelled).Return(nil)

	err := svc.Cancel(context.Background(), strategy, id)
	assert.NoError(t, err)
}

func TestCancel_AlreadySettled(t *testing.T) {
	svc, repo, _, _ := setupService(t)

	strategy := retry.Strategy{Attempts: 3}
	id := uuid.New()

	repo.EXPECT().Cancel(gomock.Any(), id).Return(false, nil)

	err := svc.Cancel(context.Background(), strategy, id)
	assert.ErrorIs(t, err, ErrAlreadySettled)
}
