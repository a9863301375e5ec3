package salarystructure

import (
	"time"

	"github.com/google/uuid"
)

// SalaryStructure is the current pay template for one employee, one row
// per (school, employee). It is mutable configuration, not history: pay
// runs snapshot their numbers at generation time, so editing a
// structure never rewrites already-generated pay runs.
type SalaryStructure struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SchoolID     uuid.UUID `gorm:"type:uuid;not null;index:uq_salary_structure_employee,unique"`
	EmployeeID   uuid.UUID `gorm:"type:uuid;not null;index:uq_salary_structure_employee,unique"`
	EmployeeType string    `gorm:"type:varchar(20);not null;default:'OTHER'"`

	// Stored in currency minor units (e.g. paise) to avoid floating error.
	MonthlyGross int64 `gorm:"type:bigint;not null;default:0"`

	TaxRegime          string `gorm:"type:varchar(20);not null;default:'NEW'"`
	LimitProvidentFund bool   `gorm:"not null;default:false"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (SalaryStructure) TableName() string {
	return "salary_structures"
}
