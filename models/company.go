package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Company is a client-owned billing entity an invoice can be addressed to.
type Company struct {
	Id        bson.ObjectID `bson:"_id" json:"id"`
	UserID    bson.ObjectID `bson:"userId" json:"userId"`
	Name      string        `bson:"name" json:"name"`
	Address   string        `bson:"address,omitempty" json:"address,omitempty"`
	VATNumber string        `bson:"vatNumber,omitempty" json:"vatNumber,omitempty"`
	Country   string        `bson:"country,omitempty" json:"country,omitempty"`
	CreatedAt time.Time     `bson:"createdAt" json:"createdAt"`
}

// AgentCompany is one of the agent's own invoicing entities, including the
// banking details printed on invoices and an optional company stamp image.
type AgentCompany struct {
	Id                         bson.ObjectID `bson:"_id" json:"id"`
	AgentID                    bson.ObjectID `bson:"agentId" json:"agentId"`
	CompanyName                string        `bson:"companyName" json:"companyName"`
	BusinessRegistrationNumber string        `bson:"businessRegistrationNumber,omitempty" json:"businessRegistrationNumber,omitempty"`
	Address                    string        `bson:"address,omitempty" json:"address,omitempty"`
	PhoneNumber                string        `bson:"phoneNumber,omitempty" json:"phoneNumber,omitempty"`
	Website                    string        `bson:"website,omitempty" json:"website,omitempty"`
	Email                      string        `bson:"email,omitempty" json:"email,omitempty"`
	BeneficiaryName            string        `bson:"beneficiaryName,omitempty" json:"beneficiaryName,omitempty"`
	AccountNumber              string        `bson:"accountNumber,omitempty" json:"accountNumber,omitempty"`
	BeneficiaryAddress         string        `bson:"beneficiaryAddress,omitempty" json:"beneficiaryAddress,omitempty"`
	BankName                   string        `bson:"bankName,omitempty" json:"bankName,omitempty"`
	BankAddress                string        `bson:"bankAddress,omitempty" json:"bankAddress,omitempty"`
	SwiftCode                  string        `bson:"swiftCode,omitempty" json:"swiftCode,omitempty"`
	BankCode                   string        `bson:"bankCode,omitempty" json:"bankCode,omitempty"`
	BranchCode                 string        `bson:"branchCode,omitempty" json:"branchCode,omitempty"`
	CountryRegion              string        `bson:"countryRegion,omitempty" json:"countryRegion,omitempty"`
	StampImageURL              string        `bson:"stampImageUrl,omitempty" json:"stampImageUrl,omitempty"`
	CreatedAt                  time.Time     `bson:"createdAt" json:"createdAt"`
}
