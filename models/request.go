package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Request is a client-submitted sourcing item. Position is only meaningful
// for ungrouped requests: a request inside a group carries GroupID and a nil
// Position, and the shared top-level key space orders ungrouped requests and
// groups together.
type Request struct {
	Id            bson.ObjectID  `bson:"_id" json:"id"`
	UserID        bson.ObjectID  `bson:"userId" json:"userId"`
	Name          string         `bson:"name" json:"name"`
	Quantity      int            `bson:"quantity" json:"quantity"`
	ImageURL      string         `bson:"imageUrl" json:"imageUrl"`
	Specification string         `bson:"specification,omitempty" json:"specification,omitempty"`
	Position      *int           `bson:"position" json:"position"`
	GroupID       *bson.ObjectID `bson:"groupId" json:"groupId"`
	LastModified  time.Time      `bson:"lastModified" json:"lastModified"`
	CreatedAt     time.Time      `bson:"createdAt" json:"createdAt"`
}
