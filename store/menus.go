package store

import (
	"context"

	"bistro-boss/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func (s *Store) ListMenuItems(ctx context.Context) ([]models.MenuItem, error) {
	return findAll[models.MenuItem](ctx, s.menus, bson.M{})
}

func (s *Store) FindMenuItem(ctx context.Context, id primitive.ObjectID) (*models.MenuItem, error) {
	return findOne[models.MenuItem](ctx, s.menus, bson.M{"_id": id})
}

func (s *Store) FindMenuItemByName(ctx context.Context, name string) (*models.MenuItem, error) {
	return findOne[models.MenuItem](ctx, s.menus, bson.M{"name": name})
}

// InsertMenuItem stores exactly the five menu fields. The ID of item is ignored.
func (s *Store) InsertMenuItem(ctx context.Context, item models.MenuItem) (models.InsertResult, error) {
	item.ID = primitive.NilObjectID
	return insertOne(ctx, s.menus, item)
}

func (s *Store) UpdateMenuItem(ctx context.Context, id primitive.ObjectID, fields bson.M) (models.UpdateResult, error) {
	return updateByID(ctx, s.menus, id, fields)
}

func (s *Store) DeleteMenuItem(ctx context.Context, id primitive.ObjectID) (models.DeleteResult, error) {
	return deleteByID(ctx, s.menus, id)
}

func (s *Store) ListReviews(ctx context.Context) ([]models.Review, error) {
	return findAll[models.Review](ctx, s.reviews, bson.M{})
}
