package payrun

type GeneratePayRunsRequest struct {
	Month       int      `json:"month" binding:"required,min=1,max=12"`
	Year        int      `json:"year" binding:"required,min=2000,max=2100"`
	EmployeeIDs []string `json:"employee_ids" binding:"required,min=1,dive,uuid"`
}

type GenerateFailure struct {
	EmployeeID string `json:"employee_id"`
	Reason     string `json:"reason"`
}

// GeneratePayRunsResponse is the structured batch report: callers must
// inspect both lists, one bad employee never fails the others.
type GeneratePayRunsResponse struct {
	Succeeded []PayRunResponse  `json:"succeeded"`
	Failed    []GenerateFailure `json:"failed"`
}

type UpdatePayRunRequest struct {
	Notes            *string `json:"notes"`
	PaymentReference *string `json:"payment_reference"`
}

type ListPayRunsFilterRequest struct {
	Month  int    `form:"month" binding:"omitempty,min=1,max=12"`
	Year   int    `form:"year" binding:"omitempty,min=2000,max=2100"`
	Status string `form:"status"`
}

type PendingPeriodRequest struct {
	Month int `form:"month" binding:"required,min=1,max=12"`
	Year  int `form:"year" binding:"required,min=2000,max=2100"`
}

type PendingEmployeeResponse struct {
	EmployeeID       string  `json:"employee_id"`
	EmployeeType     string  `json:"employee_type"`
	PresentDays      int     `json:"present_days"`
	TotalWorkingDays int     `json:"total_working_days"`
	AttendanceFactor float64 `json:"attendance_factor"`
}

type EarningsResponse struct {
	Basic            int64 `json:"basic"`
	DA               int64 `json:"da"`
	HRA              int64 `json:"hra"`
	SpecialAllowance int64 `json:"special_allowance"`
}

type DeductionsResponse struct {
	EPFEmployee     int64 `json:"epf_employee"`
	ProfessionalTax int64 `json:"professional_tax"`
	TDS             int64 `json:"tds"`
}

type EmployerCostResponse struct {
	EPFEmployer       int64 `json:"epf_employer"`
	GratuityProvision int64 `json:"gratuity_provision"`
}

type PayRunResponse struct {
	ID               string               `json:"id"`
	SchoolID         string               `json:"school_id"`
	EmployeeID       string               `json:"employee_id"`
	PeriodMonth      int                  `json:"period_month"`
	PeriodYear       int                  `json:"period_year"`
	SlipNumber       string               `json:"slip_number"`
	Earnings         EarningsResponse     `json:"earnings"`
	GrossSalary      int64                `json:"gross_salary"`
	Deductions       DeductionsResponse   `json:"deductions"`
	EmployerCost     EmployerCostResponse `json:"employer_cost"`
	NetSalary        int64                `json:"net_salary"`
	PresentDays      int                  `json:"present_days"`
	TotalWorkingDays int                  `json:"total_working_days"`
	AttendanceFactor float64              `json:"attendance_factor"`
	Status           string               `json:"status"`
	Notes            *string              `json:"notes,omitempty"`
	PaymentReference *string              `json:"payment_reference,omitempty"`
	GeneratedAt      string               `json:"generated_at"`
	PaidAt           *string              `json:"paid_at,omitempty"`
}

type EmployeeSnapshotResponse struct {
	ID           string `json:"id"`
	FullName     string `json:"full_name"`
	Department   string `json:"department"`
	EmployeeType string `json:"employee_type"`
}

type PayRunDetailResponse struct {
	PayRun   PayRunResponse            `json:"pay_run"`
	Employee *EmployeeSnapshotResponse `json:"employee,omitempty"`
}
