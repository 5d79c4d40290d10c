package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/scopteam/scopbackend/database"
	"github.com/scopteam/scopbackend/dto"
	"github.com/scopteam/scopbackend/models"
	"github.com/scopteam/scopbackend/pricing"
	"github.com/scopteam/scopbackend/utils"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// GET /agent/requests?client=<id>
//
// The agent's work queue: every client request, newest activity first, with
// the owning client's email and the number of offers already attached.
func ListAllRequests() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		maxLimit, defaultLimit := utils.GetDefaultQueryLimits()
		limit := utils.ParseIntDefault(c.Query("limit"), defaultLimit)
		if limit > maxLimit {
			limit = maxLimit
		}
		page := utils.ParseIntDefault(c.Query("page"), 1)
		if page < 1 {
			page = 1
		}
		skip := int64((page - 1) * limit)

		filter := bson.M{}
		if client := c.Query("client"); client != "" {
			clientID, err := bson.ObjectIDFromHex(client)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid client id"})
				return
			}
			filter["userId"] = clientID
		}

		requestsCol := database.OpenCollection("requests")
		opts := options.Find().
			SetSkip(skip).
			SetLimit(int64(limit)).
			SetSort(bson.D{{Key: "lastModified", Value: -1}})

		cursor, err := requestsCol.Find(ctx, filter, opts)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		var requests []models.Request
		if err := cursor.All(ctx, &requests); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		requestIDs := make([]bson.ObjectID, 0, len(requests))
		userIDs := make(map[string]bson.ObjectID)
		groupIDs := make(map[string]bson.ObjectID)
		for _, r := range requests {
			requestIDs = append(requestIDs, r.Id)
			userIDs[r.UserID.Hex()] = r.UserID
			if r.GroupID != nil {
				groupIDs[r.GroupID.Hex()] = *r.GroupID
			}
		}

		offersByRequest := make(map[string][]models.Offer)
		if len(requestIDs) > 0 {
			offersCol := database.OpenCollection("offers")
			oCursor, err := offersCol.Find(ctx, bson.M{"requestId": bson.M{"$in": requestIDs}})
			if err == nil {
				var offers []models.Offer
				if err := oCursor.All(ctx, &offers); err == nil {
					for _, o := range offers {
						key := o.RequestID.Hex()
						offersByRequest[key] = append(offersByRequest[key], o)
					}
				}
			}
		}

		emails := make(map[string]string, len(userIDs))
		if len(userIDs) > 0 {
			ids := make([]bson.ObjectID, 0, len(userIDs))
			for _, id := range userIDs {
				ids = append(ids, id)
			}
			profilesCol := database.OpenCollection("profiles")
			pCursor, err := profilesCol.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
			if err == nil {
				var profiles []models.Profile
				if err := pCursor.All(ctx, &profiles); err == nil {
					for _, p := range profiles {
						emails[p.ID.Hex()] = p.Email
					}
				}
			}
		}

		groupNames := make(map[string]string, len(groupIDs))
		if len(groupIDs) > 0 {
			ids := make([]bson.ObjectID, 0, len(groupIDs))
			for _, id := range groupIDs {
				ids = append(ids, id)
			}
			groupsCol := database.OpenCollection("groups")
			gCursor, err := groupsCol.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
			if err == nil {
				var groups []models.Group
				if err := gCursor.All(ctx, &groups); err == nil {
					for _, g := range groups {
						groupNames[g.Id.Hex()] = g.Name
					}
				}
			}
		}

		out := make([]gin.H, 0, len(requests))
		for _, r := range requests {
			offers := offersByRequest[r.Id.Hex()]
			if offers == nil {
				offers = []models.Offer{}
			}
			entry := gin.H{
				"request":     r,
				"clientEmail": emails[r.UserID.Hex()],
				"offers":      offers,
				"offerCount":  len(offers),
			}
			if r.GroupID != nil {
				entry["groupName"] = groupNames[r.GroupID.Hex()]
			}
			out = append(out, entry)
		}

		total, err := requestsCol.CountDocuments(ctx, filter)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"requests": out,
			"page":     page,
			"limit":    limit,
			"total":    total,
		})
	}
}

// POST /agent/invoice-details
//
// Line-by-line pricing for a batch of requests: each request with its
// visible offers, per-line totals and the aggregate, everything the agent
// needs to lay out an invoice document.
func GetInvoiceDetails() gin.HandlerFunc {
	return func(c *gin.Context) {
		var body dto.InvoiceDetailsDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		requestIDs, err := utils.StringsToObjectIDs(body.RequestIDs)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request id"})
			return
		}

		ctx := c.Request.Context()
		requestsCol := database.OpenCollection("requests")
		offersCol := database.OpenCollection("offers")

		rCursor, err := requestsCol.Find(ctx, bson.M{"_id": bson.M{"$in": requestIDs}})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		var requests []models.Request
		if err := rCursor.All(ctx, &requests); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if len(requests) != len(requestIDs) {
			c.JSON(http.StatusNotFound, gin.H{"error": "one or more requests not found"})
			return
		}

		oCursor, err := offersCol.Find(ctx, bson.M{"requestId": bson.M{"$in": requestIDs}, "isVisibleToClient": true})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		var offers []models.Offer
		if err := oCursor.All(ctx, &offers); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		byRequest := make(map[string][]models.Offer)
		for _, o := range offers {
			key := o.RequestID.Hex()
			byRequest[key] = append(byRequest[key], o)
		}

		lines := make([]gin.H, 0, len(requests))
		pricedLines := make([]pricing.Line, 0, len(requests))
		for _, r := range requests {
			requestOffers := byRequest[r.Id.Hex()]
			offerViews := make([]gin.H, 0, len(requestOffers))
			priced := make([]pricing.Offer, 0, len(requestOffers))
			for _, o := range requestOffers {
				po := pricing.Offer{UnitPriceRMB: o.UnitPriceRMB, ExchangeRate: o.ExchangeRate, Visible: true}
				priced = append(priced, po)

				unit, err := pricing.UnitPrice(po)
				if err != nil {
					c.JSON(http.StatusInternalServerError, gin.H{"error": "offer has an invalid exchange rate"})
					return
				}
				lineTotal, _ := pricing.LineTotal(po, r.Quantity)
				offerViews = append(offerViews, gin.H{
					"offer":     o,
					"unitPrice": unit.Round(2).String(),
					"lineTotal": lineTotal.Round(2).String(),
				})
			}
			pricedLines = append(pricedLines, pricing.Line{Quantity: r.Quantity, Offers: priced})
			lines = append(lines, gin.H{"request": r, "offers": offerViews})
		}

		total, err := pricing.AggregateTotal(pricedLines)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"lines": lines,
			"total": total.Round(2).String(),
		})
	}
}
