package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type InvoiceRequestStatus string

const (
	InvoiceRequestStatusPending   InvoiceRequestStatus = "pending"
	InvoiceRequestStatusProcessed InvoiceRequestStatus = "processed"
)

type InvoiceFormat string

const (
	InvoiceFormatPDF   InvoiceFormat = "pdf"
	InvoiceFormatExcel InvoiceFormat = "excel"
)

// InvoiceRequest is a client's ask for an invoice covering a set of
// requests. TotalPrice is computed server-side from the client-visible
// offers, never trusted from the client.
type InvoiceRequest struct {
	ID         bson.ObjectID   `bson:"_id,omitempty" json:"id"`
	UserID     bson.ObjectID   `bson:"userId" json:"userId"`
	CompanyID  *bson.ObjectID  `bson:"companyId" json:"companyId"` // nil = invoice in the client's own name
	Format     InvoiceFormat   `bson:"format" json:"format"`
	RequestIDs []bson.ObjectID `bson:"requestIds" json:"requestIds"`
	TotalPrice float64         `bson:"totalPrice" json:"totalPrice"`

	Status    InvoiceRequestStatus `bson:"status" json:"status"`
	CreatedAt time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time            `bson:"updatedAt" json:"updatedAt"`
}

type InvoiceStatus string

const (
	InvoiceStatusAwaitingPayment InvoiceStatus = "En attente de paiement"
	InvoiceStatusDepositPaid     InvoiceStatus = "Acompte versé"
	InvoiceStatusPaid            InvoiceStatus = "Payée"
)

type Invoice struct {
	ID               bson.ObjectID  `bson:"_id,omitempty" json:"id"`
	InvoiceRequestID bson.ObjectID  `bson:"invoiceRequestId" json:"invoiceRequestId"`
	AgentID          bson.ObjectID  `bson:"agentId" json:"agentId"`
	ClientID         bson.ObjectID  `bson:"clientId" json:"clientId"`
	CompanyID        *bson.ObjectID `bson:"companyId" json:"companyId"`
	AgentCompanyID   bson.ObjectID  `bson:"agentCompanyId" json:"agentCompanyId"`
	InvoiceNumber    string         `bson:"invoiceNumber" json:"invoiceNumber"`
	TotalAmount      float64        `bson:"totalAmount" json:"totalAmount"`
	DueDate          time.Time      `bson:"dueDate" json:"dueDate"`
	Status           InvoiceStatus  `bson:"status" json:"status"`
	CreatedAt        time.Time      `bson:"createdAt" json:"createdAt"`
}
