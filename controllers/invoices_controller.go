package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/scopteam/scopbackend/database"
	"github.com/scopteam/scopbackend/dto"
	"github.com/scopteam/scopbackend/models"
	"github.com/scopteam/scopbackend/pricing"
	"github.com/scopteam/scopbackend/utils"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// invoiceTotal prices a set of requests from their client-visible offers.
func invoiceTotal(c *gin.Context, requestIDs []bson.ObjectID) (float64, error) {
	ctx := c.Request.Context()
	requestsCol := database.OpenCollection("requests")
	offersCol := database.OpenCollection("offers")

	rCursor, err := requestsCol.Find(ctx, bson.M{"_id": bson.M{"$in": requestIDs}})
	if err != nil {
		return 0, err
	}
	var requests []models.Request
	if err := rCursor.All(ctx, &requests); err != nil {
		return 0, err
	}

	oCursor, err := offersCol.Find(ctx, bson.M{"requestId": bson.M{"$in": requestIDs}})
	if err != nil {
		return 0, err
	}
	var offers []models.Offer
	if err := oCursor.All(ctx, &offers); err != nil {
		return 0, err
	}

	byRequest := make(map[string][]pricing.Offer)
	for _, o := range offers {
		key := o.RequestID.Hex()
		byRequest[key] = append(byRequest[key], pricing.Offer{
			UnitPriceRMB: o.UnitPriceRMB,
			ExchangeRate: o.ExchangeRate,
			Visible:      o.IsVisibleToClient,
		})
	}

	lines := make([]pricing.Line, 0, len(requests))
	for _, r := range requests {
		lines = append(lines, pricing.Line{Quantity: r.Quantity, Offers: byRequest[r.Id.Hex()]})
	}

	total, err := pricing.AggregateTotal(lines)
	if err != nil {
		return 0, err
	}
	return total.Round(2).InexactFloat64(), nil
}

// POST /client/invoice-requests
func CreateInvoiceRequest() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}

		var body dto.CreateInvoiceRequestDTO
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

		// every request in the batch must belong to the caller
		count, err := requestsCol.CountDocuments(ctx, bson.M{"_id": bson.M{"$in": requestIDs}, "userId": userID})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if count != int64(len(requestIDs)) {
			c.JSON(http.StatusNotFound, gin.H{"error": "one or more requests not found"})
			return
		}

		var companyID *bson.ObjectID
		if body.CompanyID != nil {
			id, err := bson.ObjectIDFromHex(*body.CompanyID)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid company id"})
				return
			}
			companiesCol := database.OpenCollection("companies")
			n, err := companiesCol.CountDocuments(ctx, bson.M{"_id": id, "userId": userID})
			if err != nil || n == 0 {
				c.JSON(http.StatusNotFound, gin.H{"error": "company not found"})
				return
			}
			companyID = &id
		}

		total, err := invoiceTotal(c, requestIDs)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if total <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "no visible offers to invoice"})
			return
		}

		now := time.Now().UTC()
		invoiceRequest := models.InvoiceRequest{
			ID:         bson.NewObjectID(),
			UserID:     userID,
			CompanyID:  companyID,
			Format:     models.InvoiceFormat(body.Format),
			RequestIDs: requestIDs,
			TotalPrice: total,
			Status:     models.InvoiceRequestStatusPending,
			CreatedAt:  now,
			UpdatedAt:  now,
		}

		invoiceRequestsCol := database.OpenCollection("invoice_requests")
		if _, err := invoiceRequestsCol.InsertOne(ctx, invoiceRequest); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusCreated, invoiceRequest)
	}
}

// GET /client/invoice-requests
func ListMyInvoiceRequests() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		ctx := c.Request.Context()

		invoiceRequestsCol := database.OpenCollection("invoice_requests")
		opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
		cursor, err := invoiceRequestsCol.Find(ctx, bson.M{"userId": userID}, opts)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		requests := make([]models.InvoiceRequest, 0)
		if err := cursor.All(ctx, &requests); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"invoiceRequests": requests})
	}
}

// GET /client/invoices
func ListMyInvoices() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		ctx := c.Request.Context()

		invoicesCol := database.OpenCollection("invoices")
		opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
		cursor, err := invoicesCol.Find(ctx, bson.M{"clientId": userID}, opts)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		invoices := make([]models.Invoice, 0)
		if err := cursor.All(ctx, &invoices); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"invoices": invoices})
	}
}

// GET /agent/invoice-requests?status=pending
//
// Joined with the requesting client's email and the billing company name so
// the agent sees who asked and on whose behalf.
func ListInvoiceRequests() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		filter := bson.M{}
		if status := c.Query("status"); status != "" {
			filter["status"] = status
		}

		invoiceRequestsCol := database.OpenCollection("invoice_requests")
		opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
		cursor, err := invoiceRequestsCol.Find(ctx, filter, opts)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		var requests []models.InvoiceRequest
		if err := cursor.All(ctx, &requests); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		profilesCol := database.OpenCollection("profiles")
		companiesCol := database.OpenCollection("companies")

		out := make([]gin.H, 0, len(requests))
		for _, ir := range requests {
			entry := gin.H{"invoiceRequest": ir}

			var profile models.Profile
			if err := profilesCol.FindOne(ctx, bson.M{"_id": ir.UserID}).Decode(&profile); err == nil {
				entry["clientEmail"] = profile.Email
			}
			if ir.CompanyID != nil {
				var company models.Company
				if err := companiesCol.FindOne(ctx, bson.M{"_id": *ir.CompanyID}).Decode(&company); err == nil {
					entry["companyName"] = company.Name
				}
			}
			out = append(out, entry)
		}

		c.JSON(http.StatusOK, gin.H{"invoiceRequests": out})
	}
}

// invoiceNumberAfter computes the yearly sequential number that follows
// last, like INV-2026-0042 -> INV-2026-0043. An empty last starts the
// year's sequence.
func invoiceNumberAfter(year int, last string) (string, error) {
	prefix := fmt.Sprintf("INV-%d-", year)
	if last == "" {
		return prefix + "0001", nil
	}
	seq, err := strconv.Atoi(strings.TrimPrefix(last, prefix))
	if err != nil {
		return "", fmt.Errorf("malformed invoice number %q", last)
	}
	return fmt.Sprintf("%s%04d", prefix, seq+1), nil
}

// nextInvoiceNumber allocates the next number after the year's highest
// issued one. Gaps left by deletions are never reused backwards, and the
// unique index on invoiceNumber catches concurrent allocations; the
// caller retries on a duplicate key.
func nextInvoiceNumber(c *gin.Context) (string, error) {
	ctx := c.Request.Context()
	invoicesCol := database.OpenCollection("invoices")

	year := time.Now().UTC().Year()
	prefix := fmt.Sprintf("INV-%d-", year)

	opts := options.FindOne().SetSort(bson.D{{Key: "invoiceNumber", Value: -1}})
	var last models.Invoice
	err := invoicesCol.FindOne(ctx, bson.M{"invoiceNumber": bson.M{"$regex": "^" + prefix}}, opts).Decode(&last)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return invoiceNumberAfter(year, "")
	}
	if err != nil {
		return "", err
	}
	return invoiceNumberAfter(year, last.InvoiceNumber)
}

// POST /agent/invoice-requests/:id/invoice
func GenerateInvoice() gin.HandlerFunc {
	return func(c *gin.Context) {
		agentID, ok := currentUserID(c)
		if !ok {
			return
		}
		invoiceRequestID, err := bson.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid invoice request id"})
			return
		}

		var body dto.GenerateInvoiceDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		agentCompanyID, err := bson.ObjectIDFromHex(body.AgentCompanyID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid agent company id"})
			return
		}

		ctx := c.Request.Context()
		invoiceRequestsCol := database.OpenCollection("invoice_requests")
		agentCompaniesCol := database.OpenCollection("agent_companies")
		invoicesCol := database.OpenCollection("invoices")

		var invoiceRequest models.InvoiceRequest
		if err := invoiceRequestsCol.FindOne(ctx, bson.M{"_id": invoiceRequestID}).Decode(&invoiceRequest); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "invoice request not found"})
			return
		}
		if invoiceRequest.Status != models.InvoiceRequestStatusPending {
			c.JSON(http.StatusConflict, gin.H{"error": "invoice request already processed"})
			return
		}

		count, err := agentCompaniesCol.CountDocuments(ctx, bson.M{"_id": agentCompanyID, "agentId": agentID})
		if err != nil || count == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "agent company not found"})
			return
		}

		var invoice models.Invoice
		var now time.Time
		for attempt := 0; ; attempt++ {
			invoiceNumber, err := nextInvoiceNumber(c)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}

			now = time.Now().UTC()
			invoice = models.Invoice{
				ID:               bson.NewObjectID(),
				InvoiceRequestID: invoiceRequest.ID,
				AgentID:          agentID,
				ClientID:         invoiceRequest.UserID,
				CompanyID:        invoiceRequest.CompanyID,
				AgentCompanyID:   agentCompanyID,
				InvoiceNumber:    invoiceNumber,
				TotalAmount:      invoiceRequest.TotalPrice,
				DueDate:          now.AddDate(0, 0, 30),
				Status:           models.InvoiceStatusAwaitingPayment,
				CreatedAt:        now,
			}

			_, err = invoicesCol.InsertOne(ctx, invoice)
			if err == nil {
				break
			}
			// a concurrent generation took the number; reallocate
			if utils.IsDuplicateKey(err) && attempt < 3 {
				continue
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		_, err = invoiceRequestsCol.UpdateByID(ctx, invoiceRequest.ID, bson.M{"$set": bson.M{
			"status":    models.InvoiceRequestStatusProcessed,
			"updatedAt": now,
		}})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusCreated, invoice)
	}
}

// GET /agent/invoices
func ListInvoices() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		filter := bson.M{}
		if status := c.Query("status"); status != "" {
			filter["status"] = status
		}

		invoicesCol := database.OpenCollection("invoices")
		opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
		cursor, err := invoicesCol.Find(ctx, filter, opts)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		invoices := make([]models.Invoice, 0)
		if err := cursor.All(ctx, &invoices); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"invoices": invoices})
	}
}

// PATCH /agent/invoices/:id/status
func UpdateInvoiceStatus() gin.HandlerFunc {
	return func(c *gin.Context) {
		invoiceID, err := bson.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid invoice id"})
			return
		}

		var body dto.UpdateInvoiceStatusDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		status := models.InvoiceStatus(body.Status)
		switch status {
		case models.InvoiceStatusAwaitingPayment, models.InvoiceStatusDepositPaid, models.InvoiceStatusPaid:
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown invoice status"})
			return
		}

		invoicesCol := database.OpenCollection("invoices")
		res, err := invoicesCol.UpdateByID(c.Request.Context(), invoiceID, bson.M{"$set": bson.M{"status": status}})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if res.MatchedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "invoice not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"ok": true, "status": status})
	}
}
