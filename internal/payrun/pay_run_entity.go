package payrun

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Period identifies one payroll cycle. It is a key dimension, never a
// stored row of its own.
type Period struct {
	Month int
	Year  int
}

func (p Period) Valid() bool {
	return p.Month >= 1 && p.Month <= 12 && p.Year >= 2000 && p.Year <= 2100
}

func (p Period) String() string {
	return fmt.Sprintf("%04d-%02d", p.Year, p.Month)
}

// PayRun is the generated, persisted salary slip of one employee for
// one period. It snapshots every number at generation time: later edits
// to the salary structure never touch existing pay runs. At most one
// non-deleted row may exist per (school, employee, period) — enforced
// by uq_pay_run_employee_period so concurrent batches cannot slip a
// duplicate past the application-level check.
type PayRun struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SchoolID   uuid.UUID `gorm:"type:uuid;not null;index:idx_school_status;index:uq_pay_run_employee_period,unique"`
	EmployeeID uuid.UUID `gorm:"type:uuid;not null;index:uq_pay_run_employee_period,unique"`

	PeriodMonth int `gorm:"not null;index:uq_pay_run_employee_period,unique"`
	PeriodYear  int `gorm:"not null;index:uq_pay_run_employee_period,unique"`

	SlipNumber string `gorm:"type:varchar(40);not null"`

	// Monetary snapshot in currency minor units to avoid floating error.
	Basic            int64 `gorm:"type:bigint;not null;default:0"`
	DA               int64 `gorm:"type:bigint;not null;default:0"`
	HRA              int64 `gorm:"type:bigint;not null;default:0"`
	SpecialAllowance int64 `gorm:"type:bigint;not null;default:0"`
	GrossSalary      int64 `gorm:"type:bigint;not null;default:0"`

	EPFEmployee     int64 `gorm:"type:bigint;not null;default:0"`
	ProfessionalTax int64 `gorm:"type:bigint;not null;default:0"`
	TDS             int64 `gorm:"type:bigint;not null;default:0"`

	// Employer-side cost, informational
	EPFEmployer       int64 `gorm:"type:bigint;not null;default:0"`
	GratuityProvision int64 `gorm:"type:bigint;not null;default:0"`

	NetSalary int64 `gorm:"type:bigint;not null;default:0"`

	// Attendance at generation time, stored for audit. The factor is
	// recorded but not multiplied into pay under the current policy.
	PresentDays      int     `gorm:"not null;default:0"`
	TotalWorkingDays int     `gorm:"not null;default:0"`
	AttendanceFactor float64 `gorm:"type:numeric(5,4);not null;default:0"`

	Status           string  `gorm:"type:varchar(20);not null;default:'DRAFT';index:idx_school_status"`
	Notes            *string `gorm:"type:text"`
	PaymentReference *string `gorm:"type:varchar(100)"`

	CreatedBy   uuid.UUID `gorm:"type:uuid;not null"`
	LockVersion int       `gorm:"not null;default:1"`

	GeneratedAt time.Time  `gorm:"not null"`
	PaidAt      *time.Time `gorm:"index"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (PayRun) TableName() string {
	return "pay_runs"
}
