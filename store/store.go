// Package store is the MongoDB data-access layer. A Store is created once at
// startup and handed to the controllers; it owns the client lifecycle.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bistro-boss/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	UsersCollection         = "users"
	MenusCollection         = "menus"
	ReviewsCollection       = "reviews"
	CartCollection          = "cart"
	OrdersCollection        = "orders"
	NotificationsCollection = "notification_failures"
)

// opTimeout bounds every single database call
const opTimeout = 10 * time.Second

var (
	ErrNotFound  = errors.New("document not found")
	ErrDuplicate = errors.New("duplicate key")
)

// Options tunes a Store
type Options struct {
	// Transactions runs checkout as a multi-document transaction. Requires a
	// replica set or sharded cluster.
	Transactions bool
}

// Store gives typed access to the five application collections
type Store struct {
	client *mongo.Client
	db     *mongo.Database

	users         *mongo.Collection
	menus         *mongo.Collection
	reviews       *mongo.Collection
	cart          *mongo.Collection
	orders        *mongo.Collection
	notifications *mongo.Collection

	transactions bool
}

// Connect dials MongoDB and verifies the deployment answers a ping
func Connect(ctx context.Context, uri, database string, opts Options) (*Store, error) {
	serverAPI := options.ServerAPI(options.ServerAPIVersion1)
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri).SetServerAPIOptions(serverAPI))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	s := New(client, database, opts)
	if err := s.Ping(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return s, nil
}

// New wraps an already connected client
func New(client *mongo.Client, database string, opts Options) *Store {
	db := client.Database(database)
	return &Store{
		client:        client,
		db:            db,
		users:         db.Collection(UsersCollection),
		menus:         db.Collection(MenusCollection),
		reviews:       db.Collection(ReviewsCollection),
		cart:          db.Collection(CartCollection),
		orders:        db.Collection(OrdersCollection),
		notifications: db.Collection(NotificationsCollection),
		transactions:  opts.Transactions,
	}
}

// Ping checks the primary is reachable
func (s *Store) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()
	if err := s.client.Ping(ctx, readpref.Primary()); err != nil {
		return fmt.Errorf("ping mongo: %w", err)
	}
	return nil
}

// EnsureIndexes creates the unique indexes backing the email and menu name
// invariants
func (s *Store) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	_, err := s.users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("email_unique"),
	})
	if err != nil {
		return fmt.Errorf("create users index: %w", err)
	}
	_, err = s.menus.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("name_unique"),
	})
	if err != nil {
		return fmt.Errorf("create menus index: %w", err)
	}
	_, err = s.cart.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "email", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("create cart index: %w", err)
	}
	return nil
}

// Close disconnects the client
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// ParseID converts a hex string to an ObjectID
func ParseID(hex string) (primitive.ObjectID, error) {
	return primitive.ObjectIDFromHex(hex)
}

// ParseIDs converts every hex string, failing on the first malformed one
func ParseIDs(hexes []string) ([]primitive.ObjectID, error) {
	ids := make([]primitive.ObjectID, 0, len(hexes))
	for _, h := range hexes {
		id, err := primitive.ObjectIDFromHex(h)
		if err != nil {
			return nil, fmt.Errorf("invalid id %q: %w", h, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// MergeFields turns a PATCH body into a $set document. _id can't be changed.
func MergeFields(body map[string]interface{}) bson.M {
	set := bson.M{}
	for k, v := range body {
		if k == "_id" {
			continue
		}
		set[k] = v
	}
	return set
}

func insertResult(res *mongo.InsertOneResult) models.InsertResult {
	return models.InsertResult{Acknowledged: true, InsertedID: res.InsertedID}
}

func updateResult(res *mongo.UpdateResult) models.UpdateResult {
	return models.UpdateResult{
		Acknowledged:  true,
		MatchedCount:  res.MatchedCount,
		ModifiedCount: res.ModifiedCount,
		UpsertedCount: res.UpsertedCount,
		UpsertedID:    res.UpsertedID,
	}
}

func deleteResult(res *mongo.DeleteResult) models.DeleteResult {
	return models.DeleteResult{Acknowledged: true, DeletedCount: res.DeletedCount}
}

func findAll[T any](ctx context.Context, coll *mongo.Collection, filter interface{}) ([]T, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	cursor, err := coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", coll.Name(), err)
	}
	defer cursor.Close(ctx)

	out := []T{}
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("read %s: %w", coll.Name(), err)
	}
	return out, nil
}

func findOne[T any](ctx context.Context, coll *mongo.Collection, filter interface{}) (*T, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var doc T
	err := coll.FindOne(ctx, filter).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find one %s: %w", coll.Name(), err)
	}
	return &doc, nil
}

func insertOne(ctx context.Context, coll *mongo.Collection, doc interface{}) (models.InsertResult, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	res, err := coll.InsertOne(ctx, doc)
	if mongo.IsDuplicateKeyError(err) {
		return models.InsertResult{}, ErrDuplicate
	}
	if err != nil {
		return models.InsertResult{}, fmt.Errorf("insert %s: %w", coll.Name(), err)
	}
	return insertResult(res), nil
}

func updateByID(ctx context.Context, coll *mongo.Collection, id primitive.ObjectID, set bson.M) (models.UpdateResult, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	res, err := coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set}, options.Update().SetUpsert(false))
	if mongo.IsDuplicateKeyError(err) {
		return models.UpdateResult{}, ErrDuplicate
	}
	if err != nil {
		return models.UpdateResult{}, fmt.Errorf("update %s: %w", coll.Name(), err)
	}
	return updateResult(res), nil
}

func deleteByID(ctx context.Context, coll *mongo.Collection, id primitive.ObjectID) (models.DeleteResult, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	res, err := coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return models.DeleteResult{}, fmt.Errorf("delete %s: %w", coll.Name(), err)
	}
	return deleteResult(res), nil
}
