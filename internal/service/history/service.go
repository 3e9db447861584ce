// Package history exposes read operations over delivered notifications
// for the client-facing API.
package history

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/stagewave/notifier/internal/model"
)

//go:generate mockgen -source=service.go -destination=../../mocks/service/history/mock.go -package=mocks

type historyRepository interface {
	ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]model.HistoryEntry, error)
	CountUnread(ctx context.Context, userID uuid.UUID) (int, error)
	MarkRead(ctx context.Context, userID, id uuid.UUID) error
}

const defaultListLimit = 50

type Service struct {
	repo historyRepository
}

func NewService(repo historyRepository) *Service {
	return &Service{repo: repo}
}

// List returns a user's delivered notifications, newest first.
func (s *Service) List(ctx context.Context, userID uuid.UUID, limit int) ([]model.HistoryEntry, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}

	entries, err := s.repo.ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}

	return entries, nil
}

// CountUnread returns the user's unread badge count.
func (s *Service) CountUnread(ctx context.Context, userID uuid.UUID) (int, error) {
	count, err := s.repo.CountUnread(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("count unread: %w", err)
	}

	return count, nil
}

// MarkRead flips one entry's read flag.
func (s *Service) MarkRead(ctx context.Context, userID, id uuid.UUID) error {
	if err := s.repo.MarkRead(ctx, userID, id); err != nil {
		return fmt.Errorf("mark read: %w", err)
	}

	return nil
}
