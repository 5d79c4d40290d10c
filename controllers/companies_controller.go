package controllers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/scopteam/scopbackend/database"
	"github.com/scopteam/scopbackend/dto"
	"github.com/scopteam/scopbackend/models"
	"github.com/scopteam/scopbackend/utils"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// POST /client/companies
func CreateCompany() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}

		var body dto.CompanyDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		company := models.Company{
			Id:        bson.NewObjectID(),
			UserID:    userID,
			Name:      body.Name,
			Address:   body.Address,
			VATNumber: body.VATNumber,
			Country:   body.Country,
			CreatedAt: time.Now().UTC(),
		}

		companiesCol := database.OpenCollection("companies")
		if _, err := companiesCol.InsertOne(c.Request.Context(), company); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusCreated, company)
	}
}

// GET /client/companies
func ListCompanies() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		ctx := c.Request.Context()

		companiesCol := database.OpenCollection("companies")
		opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
		cursor, err := companiesCol.Find(ctx, bson.M{"userId": userID}, opts)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		companies := make([]models.Company, 0)
		if err := cursor.All(ctx, &companies); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"companies": companies})
	}
}

// PATCH /client/companies/:id
func UpdateCompany() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		companyID, err := bson.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid company id"})
			return
		}

		var body dto.CompanyDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		companiesCol := database.OpenCollection("companies")
		res, err := companiesCol.UpdateOne(c.Request.Context(),
			bson.M{"_id": companyID, "userId": userID},
			bson.M{"$set": bson.M{
				"name":      body.Name,
				"address":   body.Address,
				"vatNumber": body.VATNumber,
				"country":   body.Country,
			}})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if res.MatchedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "company not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}

// DELETE /client/companies/:id
func DeleteCompany() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		companyID, err := bson.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid company id"})
			return
		}

		companiesCol := database.OpenCollection("companies")
		res, err := companiesCol.DeleteOne(c.Request.Context(), bson.M{"_id": companyID, "userId": userID})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if res.DeletedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "company not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}

// POST /agent/companies  (multipart: "data" json + optional "stamp" file)
func CreateAgentCompany() gin.HandlerFunc {
	return func(c *gin.Context) {
		agentID, ok := currentUserID(c)
		if !ok {
			return
		}

		jsonData := c.PostForm("data")
		if jsonData == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing data"})
			return
		}

		var body dto.AgentCompanyDTO
		if err := json.Unmarshal([]byte(jsonData), &body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid data json"})
			return
		}
		if body.CompanyName == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "company name is required"})
			return
		}

		ctx := c.Request.Context()

		company := models.AgentCompany{
			Id:                         bson.NewObjectID(),
			AgentID:                    agentID,
			CompanyName:                body.CompanyName,
			BusinessRegistrationNumber: body.BusinessRegistrationNumber,
			Address:                    body.Address,
			PhoneNumber:                body.PhoneNumber,
			Website:                    body.Website,
			Email:                      body.Email,
			BeneficiaryName:            body.BeneficiaryName,
			AccountNumber:              body.AccountNumber,
			BeneficiaryAddress:         body.BeneficiaryAddress,
			BankName:                   body.BankName,
			BankAddress:                body.BankAddress,
			SwiftCode:                  body.SwiftCode,
			BankCode:                   body.BankCode,
			BranchCode:                 body.BranchCode,
			CountryRegion:              body.CountryRegion,
			CreatedAt:                  time.Now().UTC(),
		}

		if fileHeader, err := c.FormFile("stamp"); err == nil && fileHeader != nil {
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
			url, err := store.UploadImage(ctx, "stamps", agentID.Hex(), fileHeader)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "stamp upload failed"})
				return
			}
			company.StampImageURL = url
		}

		agentCompaniesCol := database.OpenCollection("agent_companies")
		if _, err := agentCompaniesCol.InsertOne(ctx, company); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusCreated, company)
	}
}

// GET /agent/companies
func ListAgentCompanies() gin.HandlerFunc {
	return func(c *gin.Context) {
		agentID, ok := currentUserID(c)
		if !ok {
			return
		}
		ctx := c.Request.Context()

		agentCompaniesCol := database.OpenCollection("agent_companies")
		opts := options.Find().SetSort(bson.D{{Key: "companyName", Value: 1}})
		cursor, err := agentCompaniesCol.Find(ctx, bson.M{"agentId": agentID}, opts)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		companies := make([]models.AgentCompany, 0)
		if err := cursor.All(ctx, &companies); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"companies": companies})
	}
}

// PATCH /agent/companies/:id  (multipart: "data" json + optional "stamp" file)
func UpdateAgentCompany() gin.HandlerFunc {
	return func(c *gin.Context) {
		agentID, ok := currentUserID(c)
		if !ok {
			return
		}
		companyID, err := bson.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid company id"})
			return
		}
		ctx := c.Request.Context()

		agentCompaniesCol := database.OpenCollection("agent_companies")

		var existing models.AgentCompany
		if err := agentCompaniesCol.FindOne(ctx, bson.M{"_id": companyID, "agentId": agentID}).Decode(&existing); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "company not found"})
			return
		}

		jsonData := c.PostForm("data")
		if jsonData == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing data"})
			return
		}

		var body dto.AgentCompanyDTO
		if err := json.Unmarshal([]byte(jsonData), &body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid data json"})
			return
		}
		if body.CompanyName == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "company name is required"})
			return
		}

		set := bson.M{
			"companyName":                body.CompanyName,
			"businessRegistrationNumber": body.BusinessRegistrationNumber,
			"address":                    body.Address,
			"phoneNumber":                body.PhoneNumber,
			"website":                    body.Website,
			"email":                      body.Email,
			"beneficiaryName":            body.BeneficiaryName,
			"accountNumber":              body.AccountNumber,
			"beneficiaryAddress":         body.BeneficiaryAddress,
			"bankName":                   body.BankName,
			"bankAddress":                body.BankAddress,
			"swiftCode":                  body.SwiftCode,
			"bankCode":                   body.BankCode,
			"branchCode":                 body.BranchCode,
			"countryRegion":              body.CountryRegion,
		}

		if fileHeader, err := c.FormFile("stamp"); err == nil && fileHeader != nil {
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
			url, err := store.UploadImage(ctx, "stamps", agentID.Hex(), fileHeader)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "stamp upload failed"})
				return
			}
			set["stampImageUrl"] = url

			if existing.StampImageURL != "" {
				if name, err := store.ObjectNameFromURL(existing.StampImageURL); err == nil {
					_ = store.DeleteObjects(ctx, []string{name})
				}
			}
		}

		if _, err := agentCompaniesCol.UpdateByID(ctx, companyID, bson.M{"$set": set}); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		var updated models.AgentCompany
		if err := agentCompaniesCol.FindOne(ctx, bson.M{"_id": companyID}).Decode(&updated); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, updated)
	}
}

// DELETE /agent/companies/:id
func DeleteAgentCompany() gin.HandlerFunc {
	return func(c *gin.Context) {
		agentID, ok := currentUserID(c)
		if !ok {
			return
		}
		companyID, err := bson.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid company id"})
			return
		}
		ctx := c.Request.Context()

		agentCompaniesCol := database.OpenCollection("agent_companies")

		var existing models.AgentCompany
		if err := agentCompaniesCol.FindOne(ctx, bson.M{"_id": companyID, "agentId": agentID}).Decode(&existing); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "company not found"})
			return
		}

		if _, err := agentCompaniesCol.DeleteOne(ctx, bson.M{"_id": companyID}); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		if existing.StampImageURL != "" {
			if store, err := utils.NewObjectStore(ctx); err == nil {
				if name, err := store.ObjectNameFromURL(existing.StampImageURL); err == nil {
					_ = store.DeleteObjects(ctx, []string{name})
				}
			}
		}

		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}
