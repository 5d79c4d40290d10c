package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Offer is a supplier quotation for a request. Unit prices are denominated
// in RMB; ExchangeRate is RMB per one unit of ClientCurrency. Offers are
// created by the agent and hidden from the client until the visibility
// flag is switched on.
type Offer struct {
	Id                bson.ObjectID `bson:"_id" json:"id"`
	RequestID         bson.ObjectID `bson:"requestId" json:"requestId"`
	SupplierName      string        `bson:"supplierName" json:"supplierName"`
	ProductSpecs      string        `bson:"productSpecs" json:"productSpecs"`
	PackagingType     string        `bson:"packagingType" json:"packagingType"`
	UnitPriceRMB      float64       `bson:"unitPriceRmb" json:"unitPriceRmb"`
	ClientCurrency    string        `bson:"clientCurrency" json:"clientCurrency"`
	ExchangeRate      float64       `bson:"exchangeRate" json:"exchangeRate"`
	UnitWeight        float64       `bson:"unitWeight" json:"unitWeight"`
	Size              string        `bson:"size,omitempty" json:"size,omitempty"`
	Remarks           string        `bson:"remarks,omitempty" json:"remarks,omitempty"`
	PhotoURL          string        `bson:"photoUrl,omitempty" json:"photoUrl,omitempty"`
	IsVisibleToClient bool          `bson:"isVisibleToClient" json:"isVisibleToClient"`
	CreatedAt         time.Time     `bson:"createdAt" json:"createdAt"`
}
