package store

import (
	"context"
	"errors"
	"fmt"

	"bistro-boss/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// CartCleanupError reports an order that was inserted while its cart items
// could not be removed. Only possible when transactions are disabled.
type CartCleanupError struct {
	OrderID interface{}
	Err     error
}

func (e *CartCleanupError) Error() string {
	return fmt.Sprintf("order %v placed but cart cleanup failed: %v", e.OrderID, e.Err)
}

func (e *CartCleanupError) Unwrap() error { return e.Err }

func (s *Store) ListOrders(ctx context.Context) ([]models.Order, error) {
	return findAll[models.Order](ctx, s.orders, bson.M{})
}

func (s *Store) ListOrdersByEmail(ctx context.Context, email string) ([]models.Order, error) {
	return findAll[models.Order](ctx, s.orders, bson.M{"email": email})
}

// PlaceOrder inserts the order and deletes the given cart items. With
// transactions enabled both writes commit together.
func (s *Store) PlaceOrder(ctx context.Context, order models.Order, cartIDs []primitive.ObjectID) (models.InsertResult, models.DeleteResult, error) {
	order.ID = primitive.NilObjectID
	if !s.transactions {
		return s.placeOrder(ctx, order, cartIDs)
	}

	sess, err := s.client.StartSession()
	if err != nil {
		return models.InsertResult{}, models.DeleteResult{}, fmt.Errorf("start session: %w", err)
	}
	defer sess.EndSession(context.Background())

	var (
		inserted models.InsertResult
		deleted  models.DeleteResult
	)
	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		var txErr error
		inserted, deleted, txErr = s.placeOrder(sc, order, cartIDs)
		// The insert is rolled back with the delete, so no order exists.
		var cleanupErr *CartCleanupError
		if errors.As(txErr, &cleanupErr) {
			txErr = cleanupErr.Err
		}
		return nil, txErr
	})
	if err != nil {
		return models.InsertResult{}, models.DeleteResult{}, fmt.Errorf("checkout transaction: %w", err)
	}
	return inserted, deleted, nil
}

func (s *Store) placeOrder(ctx context.Context, order models.Order, cartIDs []primitive.ObjectID) (models.InsertResult, models.DeleteResult, error) {
	inserted, err := insertOne(ctx, s.orders, order)
	if err != nil {
		return models.InsertResult{}, models.DeleteResult{}, err
	}

	deleted := models.DeleteResult{Acknowledged: true}
	if len(cartIDs) == 0 {
		return inserted, deleted, nil
	}

	opCtx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()
	res, err := s.cart.DeleteMany(opCtx, bson.M{"_id": bson.M{"$in": cartIDs}})
	if err != nil {
		return inserted, models.DeleteResult{}, &CartCleanupError{OrderID: inserted.InsertedID, Err: err}
	}
	return inserted, deleteResult(res), nil
}
