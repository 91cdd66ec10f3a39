package repository

import (
	"context"

	"bakery/internal/domain/model"
)

// StatusHistoryRepository is append-only: entries are never edited or removed.
type StatusHistoryRepository interface {
	Append(ctx context.Context, entry model.StatusHistory) error
	ListByOrderID(ctx context.Context, orderID int64) ([]model.StatusHistory, error)
}
