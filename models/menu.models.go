package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MenuItem represents a dish on the restaurant menu
type MenuItem struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Name     string             `bson:"name" json:"name"`
	Price    float64            `bson:"price" json:"price"`
	Image    string             `bson:"image" json:"image"`
	Category string             `bson:"category" json:"category"` // e.g., "salad", "pizza", "dessert"
	Recipe   string             `bson:"recipe" json:"recipe"`
}

// Complete reports whether every field required on creation is filled
func (m MenuItem) Complete() bool {
	return m.Name != "" && m.Price != 0 && m.Image != "" && m.Category != "" && m.Recipe != ""
}

// Review is a customer testimonial
type Review struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Name    string             `bson:"name" json:"name"`
	Details string             `bson:"details" json:"details"`
	Rating  float64            `bson:"rating" json:"rating"`
}
