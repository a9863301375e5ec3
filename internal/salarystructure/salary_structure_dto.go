package salarystructure

type SetupSalaryStructureRequest struct {
	EmployeeID         string `json:"employee_id" binding:"required,uuid"`
	EmployeeType       string `json:"employee_type" binding:"required,oneof=TEACHER ADMIN OTHER"`
	MonthlyGross       int64  `json:"monthly_gross"`
	TaxRegime          string `json:"tax_regime" binding:"omitempty,oneof=NEW"`
	LimitProvidentFund bool   `json:"limit_provident_fund"`
}

type SalaryStructureResponse struct {
	ID                 string `json:"id"`
	SchoolID           string `json:"school_id"`
	EmployeeID         string `json:"employee_id"`
	EmployeeType       string `json:"employee_type"`
	MonthlyGross       int64  `json:"monthly_gross"`
	TaxRegime          string `json:"tax_regime"`
	LimitProvidentFund bool   `json:"limit_provident_fund"`
	UpdatedAt          string `json:"updated_at"`
}
