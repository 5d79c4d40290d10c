package dto

type CompanyDTO struct {
	Name      string `json:"name" binding:"required"`
	Address   string `json:"address"`
	VATNumber string `json:"vatNumber"`
	Country   string `json:"country"`
}

type AgentCompanyDTO struct {
	CompanyName                string `json:"companyName" binding:"required"`
	BusinessRegistrationNumber string `json:"businessRegistrationNumber"`
	Address                    string `json:"address"`
	PhoneNumber                string `json:"phoneNumber"`
	Website                    string `json:"website"`
	Email                      string `json:"email" binding:"omitempty,email"`
	BeneficiaryName            string `json:"beneficiaryName"`
	AccountNumber              string `json:"accountNumber"`
	BeneficiaryAddress         string `json:"beneficiaryAddress"`
	BankName                   string `json:"bankName"`
	BankAddress                string `json:"bankAddress"`
	SwiftCode                  string `json:"swiftCode"`
	BankCode                   string `json:"bankCode"`
	BranchCode                 string `json:"branchCode"`
	CountryRegion              string `json:"countryRegion"`
}
