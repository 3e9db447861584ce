package delivery

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mocks "github.com/stagewave/notifier/internal/mocks/service/delivery"
	"github.com/stagewave/notifier/internal/model"
	notifrepo "github.com/stagewave/notifier/internal/repository/notification"
	userrepo "github.com/stagewave/notifier/internal/repository/user"
	"github.com/stagewave/notifier/pkg/push"
)

const retention = 90 * 24 * time.Hour

type serviceMocks struct {
	notifications *mocks.MocknotificationRepository
	history       *mocks.MockhistoryRepository
	users         *mocks.MockuserRepository
	gateway       *mocks.MockpushGateway
}

func setupService(t *testing.T) (*Service, serviceMocks) {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	m := serviceMocks{
		notifications: mocks.NewMocknotificationRepository(ctrl),
		history:       mocks.NewMockhistoryRepository(ctrl),
		users:         mocks.NewMockuserRepository(ctrl),
		gateway:       mocks.NewMockpushGateway(ctrl),
	}

	svc := NewService(m.notifications, m.history, m.users, m.gateway, retention)

	return svc, m
}

func pendingNotification() model.ScheduledNotification {
	return model.ScheduledNotification{
		ID:          uuid.New(),
		UserID:      uuid.New(),
		Type:        "concert_reminder",
		Title:       "T",
		Message:     "M",
		Payload:     map[string]string{"concert_id": uuid.New().String()},
		ScheduledAt: time.Now().Add(-time.Minute),
		Status:      model.StatusPending,
	}
}

func TestDeliver_HappyPath(t *testing.T) {
	svc, m := setupService(t)
	n := pendingNotification()

	var sentPayload push.Payload
	var inserted []model.HistoryEntry

	m.notifications.EXPECT().GetByID(gomock.Any(), n.ID).Return(n, nil)
	m.users.EXPECT().GetByID(gomock.Any(), n.UserID).Return(model.User{ID: n.UserID, DeviceToken: "tok1"}, nil)
	m.history.EXPECT().CountUnread(gomock.Any(), n.UserID).Return(2, nil)
	m.gateway.EXPECT().Send(gomock.Any(), "tok1", gomock.Any()).DoAndReturn(
		func(_ context.Context, _ string, p push.Payload) (bool, error) {
			sentPayload = p
			return true, nil
		},
	)
	m.notifications.EXPECT().MarkSent(gomock.Any(), n.ID).Return(true, nil)
	m.history.EXPECT().InsertMany(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, entries []model.HistoryEntry) error {
			inserted = entries
			return nil
		},
	)

	err := svc.Deliver(context.Background(), n.ID)
	require.NoError(t, err)

	// badge is the unread count plus the entry being delivered
	assert.Equal(t, 3, sentPayload.Badge)
	assert.Equal(t, "T", sentPayload.Title)
	assert.Equal(t, "M", sentPayload.Body)
	assert.Equal(t, n.ID.String(), sentPayload.Data[DataKeyNotificationID])
	assert.Equal(t, n.Payload["concert_id"], sentPayload.Data["concert_id"])
	assert.NotEmpty(t, sentPayload.Data[DataKeyScheduledAt])

	require.Len(t, inserted, 1)
	entry := inserted[0]

	// the persisted id must equal the id embedded in the payload the
	// device actually received
	assert.Equal(t, sentPayload.Data[DataKeyHistoryID], entry.ID.String())
	assert.Equal(t, n.UserID, entry.UserID)
	assert.Equal(t, "T", entry.Title)
	assert.False(t, entry.Read)
	assert.WithinDuration(t, entry.SentAt.Add(retention), entry.ExpiresAt, time.Second)
}

func TestDeliver_InvalidToken(t *testing.T) {
	svc, m := setupService(t)
	n := pendingNotification()

	m.notifications.EXPECT().GetByID(gomock.Any(), n.ID).Return(n, nil)
	m.users.EXPECT().GetByID(gomock.Any(), n.UserID).Return(model.User{ID: n.UserID, DeviceToken: "dead"}, nil)
	m.history.EXPECT().CountUnread(gomock.Any(), n.UserID).Return(0, nil)
	m.gateway.EXPECT().Send(gomock.Any(), "dead", gomock.Any()).Return(false, nil)
	m.notifications.EXPECT().MarkFailed(gomock.Any(), n.ID, ReasonInvalidToken).Return(true, nil)
	m.users.EXPECT().ClearDeviceToken(gomock.Any(), n.UserID).Return(nil)

	// no history insert expected; gomock fails the test on any
	// unexpected InsertMany call
	err := svc.Deliver(context.Background(), n.ID)
	assert.NoError(t, err)
}

func TestDeliver_UserNotFound(t *testing.T) {
	svc, m := setupService(t)
	n := pendingNotification()

	m.notifications.EXPECT().GetByID(gomock.Any(), n.ID).Return(n, nil)
	m.users.EXPECT().GetByID(gomock.Any(), n.UserID).Return(model.User{}, userrepo.ErrUserNotFound)
	m.notifications.EXPECT().MarkFailed(gomock.Any(), n.ID, ReasonUserNotFound).Return(true, nil)

	// no gateway call expected
	err := svc.Deliver(context.Background(), n.ID)
	assert.NoError(t, err)
}

func TestDeliver_NoDeviceToken(t *testing.T) {
	svc, m := setupService(t)
	n := pendingNotification()

	m.notifications.EXPECT().GetByID(gomock.Any(), n.ID).Return(n, nil)
	m.users.EXPECT().GetByID(gomock.Any(), n.UserID).Return(model.User{ID: n.UserID}, nil)
	m.notifications.EXPECT().MarkFailed(gomock.Any(), n.ID, ReasonNoToken).Return(true, nil)

	err := svc.Deliver(context.Background(), n.ID)
	assert.NoError(t, err)
}

func TestDeliver_AlreadySettled(t *testing.T) {
	svc, m := setupService(t)
	n := pendingNotification()
	n.Status = model.StatusSent

	m.notifications.EXPECT().GetByID(gomock.Any(), n.ID).Return(n, nil)

	// duplicate job delivery: no gateway call, no state change, no history row
	err := svc.Deliver(context.Background(), n.ID)
	assert.NoError(t, err)
}

func TestDeliver_DuplicateJob_SingleSend(t *testing.T) {
	svc, m := setupService(t)
	n := pendingNotification()
	settled := n
	settled.Status = model.StatusSent

	gomock.InOrder(
		m.notifications.EXPECT().GetByID(gomock.Any(), n.ID).Return(n, nil),
		m.notifications.EXPECT().GetByID(gomock.Any(), n.ID).Return(settled, nil),
	)
	m.users.EXPECT().GetByID(gomock.Any(), n.UserID).Return(model.User{ID: n.UserID, DeviceToken: "tok1"}, nil).Times(1)
	m.history.EXPECT().CountUnread(gomock.Any(), n.UserID).Return(0, nil).Times(1)
	m.gateway.EXPECT().Send(gomock.Any(), "tok1", gomock.Any()).Return(true, nil).Times(1)
	m.notifications.EXPECT().MarkSent(gomock.Any(), n.ID).Return(true, nil).Times(1)
	m.history.EXPECT().InsertMany(gomock.Any(), gomock.Any()).Return(nil).Times(1)

	require.NoError(t, svc.Deliver(context.Background(), n.ID))
	require.NoError(t, svc.Deliver(context.Background(), n.ID))
}

func TestDeliver_TransientGatewayError(t *testing.T) {
	svc, m := setupService(t)
	n := pendingNotification()

	m.notifications.EXPECT().GetByID(gomock.Any(), n.ID).Return(n, nil)
	m.users.EXPECT().GetByID(gomock.Any(), n.UserID).Return(model.User{ID: n.UserID, DeviceToken: "tok1"}, nil)
	m.history.EXPECT().CountUnread(gomock.Any(), n.UserID).Return(0, nil)
	m.gateway.EXPECT().Send(gomock.Any(), "tok1", gomock.Any()).Return(false, errors.New("gateway timeout"))

	// the status stays pending: no MarkFailed, no MarkSent expected
	err := svc.Deliver(context.Background(), n.ID)
	require.Error(t, err)

	var transient *TransientError
	assert.ErrorAs(t, err, &transient)
}

func TestDeliver_SentRaceLost_NoHistoryRow(t *testing.T) {
	svc, m := setupService(t)
	n := pendingNotification()

	m.notifications.EXPECT().GetByID(gomock.Any(), n.ID).Return(n, nil)
	m.users.EXPECT().GetByID(gomock.Any(), n.UserID).Return(model.User{ID: n.UserID, DeviceToken: "tok1"}, nil)
	m.history.EXPECT().CountUnread(gomock.Any(), n.UserID).Return(0, nil)
	m.gateway.EXPECT().Send(gomock.Any(), "tok1", gomock.Any()).Return(true, nil)
	m.notifications.EXPECT().MarkSent(gomock.Any(), n.ID).Return(false, nil)

	// another worker won the conditional update; this attempt must not
	// write a history row
	err := svc.Deliver(context.Background(), n.ID)
	assert.NoError(t, err)
}

func TestDeliver_UnknownNotification(t *testing.T) {
	svc, m := setupService(t)
	id := uuid.New()

	m.notifications.EXPECT().GetByID(gomock.Any(), id).Return(model.ScheduledNotification{}, notifrepo.ErrNotificationNotFound)

	err := svc.Deliver(context.Background(), id)
	assert.NoError(t, err)
}

func TestDeliver_StateStoreDown(t *testing.T) {
	svc, m := setupService(t)
	id := uuid.New()

	m.notifications.EXPECT().GetByID(gomock.Any(), id).Return(model.ScheduledNotification{}, errors.New("connection refused"))

	err := svc.Deliver(context.Background(), id)

	var transient *TransientError
	assert.ErrorAs(t, err, &transient)
}
