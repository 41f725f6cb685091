package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const OrderStatusPending = "pending"

// Order represents a placed and paid checkout
type Order struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Email         string             `bson:"email" json:"email"`
	Total         float64            `bson:"total" json:"total"`
	TransactionID string             `bson:"transactionId" json:"transactionId"`
	Date          time.Time          `bson:"date" json:"date"`
	CartIDs       []string           `bson:"cartIds" json:"cartIds"`
	MenuItemIDs   []string           `bson:"menuItemIds" json:"menuItemIds"`
	Status        string             `bson:"status" json:"status"` // e.g., "pending", "delivered"
}

// PlaceOrderResult is returned to the client after checkout
type PlaceOrderResult struct {
	InsertResult InsertResult `json:"insertResult"`
	DeleteResult DeleteResult `json:"deleteResult"`
}
