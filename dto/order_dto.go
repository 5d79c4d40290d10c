package dto

type CreateOrderDTO struct {
	ClientID              string `json:"clientId" binding:"required"`
	OrderNumber           string `json:"orderNumber" binding:"required"`
	EstimatedDeliveryDate string `json:"estimatedDeliveryDate" binding:"required"` // RFC 3339
}

type UpdateOrderStatusDTO struct {
	Status string `json:"status" binding:"required"`
}

type AddOrderEventDTO struct {
	Status                string `json:"status" binding:"required"`
	Description           string `json:"description"`
	EstimatedDurationDays int    `json:"estimatedDurationDays" binding:"omitempty,min=0"`
}
