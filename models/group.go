package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Group is a named container of requests. Members are an unordered set;
// the group itself is ordered in the top-level list by Position.
type Group struct {
	Id           bson.ObjectID `bson:"_id" json:"id"`
	UserID       bson.ObjectID `bson:"userId" json:"userId"`
	Name         string        `bson:"name" json:"name"`
	Position     *int          `bson:"position" json:"position"`
	LastModified time.Time     `bson:"lastModified" json:"lastModified"`
	CreatedAt    time.Time     `bson:"createdAt" json:"createdAt"`
}
