package store

import (
	"context"

	"bistro-boss/models"
)

// SaveFailedNotification records an email that exhausted its retries
func (s *Store) SaveFailedNotification(ctx context.Context, n models.FailedNotification) error {
	_, err := insertOne(ctx, s.notifications, n)
	return err
}
