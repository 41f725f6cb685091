package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CartItem represents a menu item a user has put in their cart
type CartItem struct {
	ID     primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	MenuID string             `bson:"menuId" json:"menuId"`
	Email  string             `bson:"email" json:"email"`
	Name   string             `bson:"name,omitempty" json:"name,omitempty"`
	Image  string             `bson:"image,omitempty" json:"image,omitempty"`
	Price  float64            `bson:"price" json:"price"`
}
