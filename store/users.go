package store

import (
	"context"

	"bistro-boss/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func (s *Store) ListUsers(ctx context.Context) ([]models.User, error) {
	return findAll[models.User](ctx, s.users, bson.M{})
}

// FindUserByEmail returns ErrNotFound when no user has that email
func (s *Store) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return findOne[models.User](ctx, s.users, bson.M{"email": email})
}

// InsertUser returns ErrDuplicate if the email is taken
func (s *Store) InsertUser(ctx context.Context, user models.User) (models.InsertResult, error) {
	return insertOne(ctx, s.users, user)
}

func (s *Store) UpdateUser(ctx context.Context, id primitive.ObjectID, fields bson.M) (models.UpdateResult, error) {
	return updateByID(ctx, s.users, id, fields)
}

func (s *Store) DeleteUser(ctx context.Context, id primitive.ObjectID) (models.DeleteResult, error) {
	return deleteByID(ctx, s.users, id)
}
