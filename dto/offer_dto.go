package dto

type CreateOfferDTO struct {
	SupplierName      string  `json:"supplierName" binding:"required"`
	ProductSpecs      string  `json:"productSpecs"`
	PackagingType     string  `json:"packagingType"`
	UnitPriceRMB      float64 `json:"unitPriceRmb" binding:"required,gt=0"`
	ClientCurrency    string  `json:"clientCurrency" binding:"required"`
	ExchangeRate      float64 `json:"exchangeRate" binding:"required,gt=0"`
	UnitWeight        float64 `json:"unitWeight" binding:"omitempty,gt=0"`
	Size              string  `json:"size"`
	Remarks           string  `json:"remarks"`
	IsVisibleToClient bool    `json:"isVisibleToClient"`
}

type UpdateOfferDTO struct {
	SupplierName   *string  `json:"supplierName"`
	ProductSpecs   *string  `json:"productSpecs"`
	PackagingType  *string  `json:"packagingType"`
	UnitPriceRMB   *float64 `json:"unitPriceRmb" binding:"omitempty,gt=0"`
	ClientCurrency *string  `json:"clientCurrency"`
	ExchangeRate   *float64 `json:"exchangeRate" binding:"omitempty,gt=0"`
	UnitWeight     *float64 `json:"unitWeight" binding:"omitempty,gt=0"`
	Size           *string  `json:"size"`
	Remarks        *string  `json:"remarks"`
}

type OfferVisibilityDTO struct {
	IsVisibleToClient *bool `json:"isVisibleToClient" binding:"required"`
}
