package controllers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/scopteam/scopbackend/database"
	"github.com/scopteam/scopbackend/dto"
	"github.com/scopteam/scopbackend/models"
	"github.com/scopteam/scopbackend/pricing"
	"github.com/scopteam/scopbackend/utils"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// POST /agent/requests/:id/offers  (multipart: "data" json + optional "photo" file)
func CreateOffer() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID, err := bson.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request id"})
			return
		}

		jsonData := c.PostForm("data")
		if jsonData == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing data"})
			return
		}

		var body dto.CreateOfferDTO
		if err := json.Unmarshal([]byte(jsonData), &body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid data json"})
			return
		}
		if body.SupplierName == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "supplier name is required"})
			return
		}
		if body.UnitPriceRMB <= 0 || body.ExchangeRate <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unit price and exchange rate must be positive"})
			return
		}

		ctx := c.Request.Context()
		requestsCol := database.OpenCollection("requests")
		offersCol := database.OpenCollection("offers")

		var request models.Request
		if err := requestsCol.FindOne(ctx, bson.M{"_id": requestID}).Decode(&request); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "request not found"})
			return
		}

		now := time.Now().UTC()
		offer := models.Offer{
			Id:                bson.NewObjectID(),
			RequestID:         requestID,
			SupplierName:      body.SupplierName,
			ProductSpecs:      body.ProductSpecs,
			PackagingType:     body.PackagingType,
			UnitPriceRMB:      body.UnitPriceRMB,
			ClientCurrency:    body.ClientCurrency,
			ExchangeRate:      body.ExchangeRate,
			UnitWeight:        body.UnitWeight,
			Size:              pricing.NormalizeDimensions(body.Size),
			Remarks:           body.Remarks,
			IsVisibleToClient: body.IsVisibleToClient,
			CreatedAt:         now,
		}

		if fileHeader, err := c.FormFile("photo"); err == nil && fileHeader != nil {
			validator := utils.NewImageValidator()
			if _, err := validator.ValidateFile(fileHeader); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			store, err := utils.NewObjectStore(ctx)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "storage unavailable"})
				return
			}
			url, err := store.UploadImage(ctx, "offers", requestID.Hex(), fileHeader)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "photo upload failed"})
				return
			}
			offer.PhotoURL = url
		}

		if _, err := offersCol.InsertOne(ctx, offer); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		_, _ = requestsCol.UpdateByID(ctx, requestID, bson.M{"$set": bson.M{"lastModified": now}})

		c.JSON(http.StatusCreated, offer)
	}
}

// PATCH /agent/offers/:id
func UpdateOffer() gin.HandlerFunc {
	return func(c *gin.Context) {
		offerID, err := bson.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid offer id"})
			return
		}

		var body dto.UpdateOfferDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		set := bson.M{}
		if body.SupplierName != nil {
			set["supplierName"] = *body.SupplierName
		}
		if body.ProductSpecs != nil {
			set["productSpecs"] = *body.ProductSpecs
		}
		if body.PackagingType != nil {
			set["packagingType"] = *body.PackagingType
		}
		if body.UnitPriceRMB != nil {
			set["unitPriceRmb"] = *body.UnitPriceRMB
		}
		if body.ClientCurrency != nil {
			set["clientCurrency"] = *body.ClientCurrency
		}
		if body.ExchangeRate != nil {
			set["exchangeRate"] = *body.ExchangeRate
		}
		if body.UnitWeight != nil {
			set["unitWeight"] = *body.UnitWeight
		}
		if body.Size != nil {
			set["size"] = pricing.NormalizeDimensions(*body.Size)
		}
		if body.Remarks != nil {
			set["remarks"] = *body.Remarks
		}
		if len(set) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "nothing to update"})
			return
		}

		ctx := c.Request.Context()
		offersCol := database.OpenCollection("offers")

		res, err := offersCol.UpdateByID(ctx, offerID, bson.M{"$set": set})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if res.MatchedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "offer not found"})
			return
		}

		var updated models.Offer
		if err := offersCol.FindOne(ctx, bson.M{"_id": offerID}).Decode(&updated); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		requestsCol := database.OpenCollection("requests")
		_, _ = requestsCol.UpdateByID(ctx, updated.RequestID, bson.M{"$set": bson.M{"lastModified": time.Now().UTC()}})

		c.JSON(http.StatusOK, updated)
	}
}

// PATCH /agent/offers/:id/visibility
func SetOfferVisibility() gin.HandlerFunc {
	return func(c *gin.Context) {
		offerID, err := bson.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid offer id"})
			return
		}

		var body dto.OfferVisibilityDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		offersCol := database.OpenCollection("offers")
		res, err := offersCol.UpdateByID(c.Request.Context(), offerID,
			bson.M{"$set": bson.M{"isVisibleToClient": *body.IsVisibleToClient}})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if res.MatchedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "offer not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"ok": true, "isVisibleToClient": *body.IsVisibleToClient})
	}
}

// DELETE /agent/offers/:id
func DeleteOffer() gin.HandlerFunc {
	return func(c *gin.Context) {
		offerID, err := bson.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid offer id"})
			return
		}
		ctx := c.Request.Context()
		offersCol := database.OpenCollection("offers")

		var offer models.Offer
		if err := offersCol.FindOne(ctx, bson.M{"_id": offerID}).Decode(&offer); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "offer not found"})
			return
		}

		if _, err := offersCol.DeleteOne(ctx, bson.M{"_id": offerID}); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		if offer.PhotoURL != "" {
			if store, err := utils.NewObjectStore(ctx); err == nil {
				if name, err := store.ObjectNameFromURL(offer.PhotoURL); err == nil {
					_ = store.DeleteObjects(ctx, []string{name})
				}
			}
		}

		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}

// GET /agent/requests/:id/offers?visible=true
func ListOffersForRequest() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID, err := bson.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request id"})
			return
		}
		visible, err := utils.ParseBoolQuery(c.Query("visible"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid visible filter"})
			return
		}
		ctx := c.Request.Context()

		filter := bson.M{"requestId": requestID}
		if visible != nil {
			filter["isVisibleToClient"] = *visible
		}

		offersCol := database.OpenCollection("offers")
		opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
		cursor, err := offersCol.Find(ctx, filter, opts)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		offers := make([]models.Offer, 0)
		if err := cursor.All(ctx, &offers); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"offers": offers})
	}
}

// GET /client/requests/:id/offers
//
// Only offers the agent has made visible, with unit price and line total
// converted into the client currency.
func ListVisibleOffers() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		requestID, err := bson.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request id"})
			return
		}
		ctx := c.Request.Context()

		requestsCol := database.OpenCollection("requests")
		var request models.Request
		if err := requestsCol.FindOne(ctx, bson.M{"_id": requestID, "userId": userID}).Decode(&request); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "request not found"})
			return
		}

		offersCol := database.OpenCollection("offers")
		opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
		cursor, err := offersCol.Find(ctx, bson.M{"requestId": requestID, "isVisibleToClient": true}, opts)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		var offers []models.Offer
		if err := cursor.All(ctx, &offers); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		out := make([]gin.H, 0, len(offers))
		for _, o := range offers {
			priced := pricing.Offer{UnitPriceRMB: o.UnitPriceRMB, ExchangeRate: o.ExchangeRate, Visible: o.IsVisibleToClient}
			unit, err := pricing.UnitPrice(priced)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "offer has an invalid exchange rate"})
				return
			}
			lineTotal, _ := pricing.LineTotal(priced, request.Quantity)

			out = append(out, gin.H{
				"offer":     o,
				"unitPrice": unit.Round(2).String(),
				"lineTotal": lineTotal.Round(2).String(),
				"currency":  o.ClientCurrency,
			})
		}

		c.JSON(http.StatusOK, gin.H{"offers": out, "quantity": request.Quantity})
	}
}
