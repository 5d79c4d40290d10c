package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/scopteam/scopbackend/database"
	"github.com/scopteam/scopbackend/dto"
	"github.com/scopteam/scopbackend/models"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

func validOrderStatus(s models.OrderStatus) bool {
	switch s {
	case models.OrderStatusProduction, models.OrderStatusShipping, models.OrderStatusTransit,
		models.OrderStatusDelivered, models.OrderStatusArchived:
		return true
	}
	return false
}

// remainingDays counts whole days until the estimated delivery, never
// negative.
func remainingDays(estimated time.Time, now time.Time) int {
	d := estimated.Sub(now)
	if d <= 0 {
		return 0
	}
	days := int(d.Hours() / 24)
	if d.Hours() > float64(days)*24 {
		days++
	}
	return days
}

// GET /client/orders
func ListMyOrders() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		ctx := c.Request.Context()

		ordersCol := database.OpenCollection("orders")
		opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
		cursor, err := ordersCol.Find(ctx, bson.M{"userId": userID, "status": bson.M{"$ne": models.OrderStatusArchived}}, opts)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		var orders []models.Order
		if err := cursor.All(ctx, &orders); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		now := time.Now().UTC()
		out := make([]gin.H, 0, len(orders))
		for _, o := range orders {
			out = append(out, gin.H{
				"order":         o,
				"remainingDays": remainingDays(o.EstimatedDeliveryDate, now),
			})
		}

		c.JSON(http.StatusOK, gin.H{"orders": out})
	}
}

// POST /agent/orders
func CreateOrder() gin.HandlerFunc {
	return func(c *gin.Context) {
		var body dto.CreateOrderDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		clientID, err := bson.ObjectIDFromHex(body.ClientID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid client id"})
			return
		}
		estimated, err := time.Parse(time.RFC3339, body.EstimatedDeliveryDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid estimated delivery date"})
			return
		}

		ctx := c.Request.Context()
		profilesCol := database.OpenCollection("profiles")
		ordersCol := database.OpenCollection("orders")

		count, err := profilesCol.CountDocuments(ctx, bson.M{"_id": clientID, "role": models.RoleClient})
		if err != nil || count == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "client not found"})
			return
		}

		now := time.Now().UTC()
		order := models.Order{
			ID:                    bson.NewObjectID(),
			UserID:                clientID,
			OrderNumber:           body.OrderNumber,
			Status:                models.OrderStatusProduction,
			EstimatedDeliveryDate: estimated,
			Events: []models.OrderEvent{{
				ID:        bson.NewObjectID(),
				Status:    models.OrderStatusProduction,
				CreatedAt: now,
			}},
			CreatedAt: now,
		}

		if _, err := ordersCol.InsertOne(ctx, order); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusCreated, order)
	}
}

// POST /agent/orders/:id/events
//
// Appends a tracking event; the order's status always follows the latest
// event.
func AddOrderEvent() gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID, err := bson.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
			return
		}

		var body dto.AddOrderEventDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		status := models.OrderStatus(body.Status)
		if !validOrderStatus(status) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown order status"})
			return
		}

		event := models.OrderEvent{
			ID:                    bson.NewObjectID(),
			Status:                status,
			Description:           body.Description,
			EstimatedDurationDays: body.EstimatedDurationDays,
			CreatedAt:             time.Now().UTC(),
		}

		ordersCol := database.OpenCollection("orders")
		res, err := ordersCol.UpdateByID(c.Request.Context(), orderID, bson.M{
			"$push": bson.M{"events": event},
			"$set":  bson.M{"status": status},
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if res.MatchedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
			return
		}

		c.JSON(http.StatusCreated, event)
	}
}

// PATCH /agent/orders/:id/status
//
// Direct status change without a tracking event, mainly for archiving.
func UpdateOrderStatus() gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID, err := bson.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
			return
		}

		var body dto.UpdateOrderStatusDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		status := models.OrderStatus(body.Status)
		if !validOrderStatus(status) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown order status"})
			return
		}

		ordersCol := database.OpenCollection("orders")
		res, err := ordersCol.UpdateByID(c.Request.Context(), orderID, bson.M{"$set": bson.M{"status": status}})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if res.MatchedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"ok": true, "status": status})
	}
}

// GET /agent/orders?status=
func ListOrders() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		filter := bson.M{}
		if status := c.Query("status"); status != "" {
			filter["status"] = status
		}

		ordersCol := database.OpenCollection("orders")
		opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
		cursor, err := ordersCol.Find(ctx, filter, opts)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		orders := make([]models.Order, 0)
		if err := cursor.All(ctx, &orders); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"orders": orders})
	}
}
