package dto

type CreateInvoiceRequestDTO struct {
	// CompanyID is optional: when nil the invoice is issued in the
	// client's own name.
	CompanyID  *string  `json:"companyId"`
	Format     string   `json:"format" binding:"required,oneof=pdf excel"`
	RequestIDs []string `json:"requestIds" binding:"required,min=1"`
}

type GenerateInvoiceDTO struct {
	AgentCompanyID string `json:"agentCompanyId" binding:"required"`
}

type InvoiceDetailsDTO struct {
	RequestIDs []string `json:"requestIds" binding:"required,min=1"`
}

type UpdateInvoiceStatusDTO struct {
	Status string `json:"status" binding:"required"`
}
