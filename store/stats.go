package store

import (
	"context"
	"fmt"

	"bistro-boss/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// revenuePipeline sums the total of every order into a single group
func revenuePipeline() mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "totalRevenue", Value: bson.D{{Key: "$sum", Value: "$total"}}},
		}}},
	}
}

// orderMenuPipeline expands each order per menu item and joins the menu
// document. Unparseable item ids join nothing and are dropped.
func orderMenuPipeline() mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$unwind", Value: "$menuItemIds"}},
		{{Key: "$addFields", Value: bson.D{
			{Key: "menuItemObjectId", Value: bson.D{{Key: "$convert", Value: bson.D{
				{Key: "input", Value: "$menuItemIds"},
				{Key: "to", Value: "objectId"},
				{Key: "onError", Value: nil},
				{Key: "onNull", Value: nil},
			}}}},
		}}},
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: MenusCollection},
			{Key: "localField", Value: "menuItemObjectId"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "menuItems"},
		}}},
		{{Key: "$unwind", Value: "$menuItems"}},
	}
}

// AdminStats counts users, menu items and orders and sums order revenue.
// Counts come from collection metadata and may be approximate.
func (s *Store) AdminStats(ctx context.Context) (models.AdminStats, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var stats models.AdminStats
	var err error
	if stats.Users, err = s.users.EstimatedDocumentCount(ctx); err != nil {
		return models.AdminStats{}, fmt.Errorf("count users: %w", err)
	}
	if stats.MenuItems, err = s.menus.EstimatedDocumentCount(ctx); err != nil {
		return models.AdminStats{}, fmt.Errorf("count menus: %w", err)
	}
	if stats.Orders, err = s.orders.EstimatedDocumentCount(ctx); err != nil {
		return models.AdminStats{}, fmt.Errorf("count orders: %w", err)
	}

	cursor, err := s.orders.Aggregate(ctx, revenuePipeline())
	if err != nil {
		return models.AdminStats{}, fmt.Errorf("aggregate revenue: %w", err)
	}
	defer cursor.Close(ctx)

	var groups []struct {
		TotalRevenue float64 `bson:"totalRevenue"`
	}
	if err := cursor.All(ctx, &groups); err != nil {
		return models.AdminStats{}, fmt.Errorf("read revenue: %w", err)
	}
	if len(groups) > 0 {
		stats.Revenue = groups[0].TotalRevenue
	}
	return stats, nil
}

// OrderStats returns the raw order/menu join
func (s *Store) OrderStats(ctx context.Context) ([]bson.M, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	cursor, err := s.orders.Aggregate(ctx, orderMenuPipeline())
	if err != nil {
		return nil, fmt.Errorf("aggregate order stats: %w", err)
	}
	defer cursor.Close(ctx)

	out := []bson.M{}
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("read order stats: %w", err)
	}
	return out, nil
}
