package store

import (
	"context"

	"bistro-boss/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func (s *Store) ListCartItems(ctx context.Context, email string) ([]models.CartItem, error) {
	return findAll[models.CartItem](ctx, s.cart, bson.M{"email": email})
}

func (s *Store) InsertCartItem(ctx context.Context, item models.CartItem) (models.InsertResult, error) {
	item.ID = primitive.NilObjectID
	return insertOne(ctx, s.cart, item)
}

func (s *Store) DeleteCartItem(ctx context.Context, id primitive.ObjectID) (models.DeleteResult, error) {
	return deleteByID(ctx, s.cart, id)
}
