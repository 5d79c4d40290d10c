package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type OrderStatus string

const (
	OrderStatusProduction OrderStatus = "Production"
	OrderStatusShipping   OrderStatus = "Expédition"
	OrderStatusTransit    OrderStatus = "Transit"
	OrderStatusDelivered  OrderStatus = "Livrée"
	OrderStatusArchived   OrderStatus = "Archivée"
)

type OrderEvent struct {
	ID                    bson.ObjectID `bson:"id" json:"id"`
	Status                OrderStatus   `bson:"status" json:"status"`
	Description           string        `bson:"description,omitempty" json:"description,omitempty"`
	EstimatedDurationDays int           `bson:"estimatedDurationDays" json:"estimatedDurationDays"`
	CreatedAt             time.Time     `bson:"createdAt" json:"createdAt"`
}

// Order tracks a confirmed purchase through production and shipping.
// Events are embedded; the order's Status always matches the latest event.
type Order struct {
	ID                    bson.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID                bson.ObjectID `bson:"userId" json:"userId"`
	OrderNumber           string        `bson:"orderNumber" json:"orderNumber"`
	Status                OrderStatus   `bson:"status" json:"status"`
	EstimatedDeliveryDate time.Time     `bson:"estimatedDeliveryDate" json:"estimatedDeliveryDate"`
	Events                []OrderEvent  `bson:"events" json:"events"`
	CreatedAt             time.Time     `bson:"createdAt" json:"createdAt"`
}
