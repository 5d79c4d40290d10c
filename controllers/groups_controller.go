package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/scopteam/scopbackend/database"
	"github.com/scopteam/scopbackend/dto"
	"github.com/scopteam/scopbackend/models"
	"github.com/scopteam/scopbackend/ordering"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// POST /client/groups
func CreateGroup() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}

		var body dto.CreateGroupDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		items, err := loadOrderingItems(c, userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		pos := ordering.TopPosition(items)

		now := time.Now().UTC()
		group := models.Group{
			Id:           bson.NewObjectID(),
			UserID:       userID,
			Name:         body.Name,
			Position:     &pos,
			LastModified: now,
			CreatedAt:    now,
		}

		groupsCol := database.OpenCollection("groups")
		if _, err := groupsCol.InsertOne(c.Request.Context(), group); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusCreated, group)
	}
}

// PATCH /client/groups/:id
func UpdateGroup() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		groupID, err := bson.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid group id"})
			return
		}

		var body dto.UpdateGroupDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		groupsCol := database.OpenCollection("groups")
		res, err := groupsCol.UpdateOne(c.Request.Context(),
			bson.M{"_id": groupID, "userId": userID},
			bson.M{"$set": bson.M{"name": body.Name, "lastModified": time.Now().UTC()}})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if res.MatchedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "group not found"})
			return
		}

		var updated models.Group
		if err := groupsCol.FindOne(c.Request.Context(), bson.M{"_id": groupID}).Decode(&updated); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, updated)
	}
}

// DELETE /client/groups/:id
//
// Group removal is not supported yet: the product has not settled whether
// members are released to the top-level list or deleted along with the
// group.
func DeleteGroup() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "group deletion is not supported"})
	}
}
