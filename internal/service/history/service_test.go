package history

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mocks "github.com/stagewave/notifier/internal/mocks/service/history"
	"github.com/stagewave/notifier/internal/model"
)

func setupService(t *testing.T) (*Service, *mocks.MockhistoryRepository) {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	repo := mocks.NewMockhistoryRepository(ctrl)
	return NewService(repo), repo
}

func TestList_DefaultsLimit(t *testing.T) {
	svc, repo := setupService(t)

	userID := uuid.New()
	entries := []model.HistoryEntry{{ID: uuid.New(), UserID: userID, SentAt: time.Now()}}

	repo.EXPECT().ListByUser(gomock.Any(), userID, defaultListLimit).Return(entries, nil)

	got, err := svc.List(context.Background(), userID, 0)
	require.NoError(t, err)
	assert.Equal(t, entries, got)
}

func TestList_ExplicitLimit(t *testing.T) {
	svc, repo := setupService(t)

	userID := uuid.New()

	repo.EXPECT().ListByUser(gomock.Any(), userID, 10).Return(nil, nil)

	_, err := svc.List(context.Background(), userID, 10)
	assert.NoError(t, err)
}

func TestCountUnread(t *testing.T) {
	svc, repo := setupService(t)

	userID := uuid.New()

	repo.EXPECT().CountUnread(gomock.Any(), userID).Return(7, nil)

	count, err := svc.CountUnread(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, 7, count)
}

func TestMarkRead_Error(t *testing.T) {
	svc, repo := setupService(t)

	userID := uuid.New()
	id := uuid.New()

	repo.EXPECT().MarkRead(gomock.Any(), userID, id).Return(errors.New("connection refused"))

	err := svc.MarkRead(context.Background(), userID, id)
	assert.Error(t, err)
}
