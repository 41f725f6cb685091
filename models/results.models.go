package models

import "time"

// InsertResult mirrors the insertOne acknowledgement the web client expects
type InsertResult struct {
	Acknowledged bool        `json:"acknowledged"`
	InsertedID   interface{} `json:"insertedId"`
}

// UpdateResult mirrors the updateOne acknowledgement
type UpdateResult struct {
	Acknowledged  bool        `json:"acknowledged"`
	MatchedCount  int64       `json:"matchedCount"`
	ModifiedCount int64       `json:"modifiedCount"`
	UpsertedCount int64       `json:"upsertedCount"`
	UpsertedID    interface{} `json:"upsertedId"`
}

// DeleteResult mirrors the deleteOne/deleteMany acknowledgement
type DeleteResult struct {
	Acknowledged bool  `json:"acknowledged"`
	DeletedCount int64 `json:"deletedCount"`
}

// AdminStats summarizes the restaurant for the dashboard
type AdminStats struct {
	Users     int64   `json:"users"`
	MenuItems int64   `json:"menuItems"`
	Orders    int64   `json:"orders"`
	Revenue   float64 `json:"revenue"`
}

// FailedNotification is a dead-lettered email
type FailedNotification struct {
	To       string    `bson:"to" json:"to"`
	Subject  string    `bson:"subject" json:"subject"`
	Attempts int       `bson:"attempts" json:"attempts"`
	Error    string    `bson:"error" json:"error"`
	FailedAt time.Time `bson:"failedAt" json:"failedAt"`
}
