// Package staffdir adapts the school platform's staff directory for the
// payroll engine. The engine only ever needs a compact snapshot of an
// employee; everything else about staff lives outside this codebase.
package staffdir

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// EmployeeSnapshot is the directory data attached to pay-run detail
// reads: enough for a payslip header, nothing more.
type EmployeeSnapshot struct {
	ID           uuid.UUID `gorm:"column:id"`
	FullName     string    `gorm:"column:full_name"`
	Department   string    `gorm:"column:department"`
	EmployeeType string    `gorm:"column:employee_type"`
}

//go:generate mockgen -source=directory.go -destination=mock/directory_mock.go -package=mock
type Directory interface {
	FindSnapshot(ctx context.Context, schoolID, employeeID string) (*EmployeeSnapshot, error)
}

type directory struct {
	db *gorm.DB
}

func NewDirectory(db *gorm.DB) Directory {
	return &directory{db: db}
}

func (d *directory) FindSnapshot(ctx context.Context, schoolID, employeeID string) (*EmployeeSnapshot, error) {
	var snap EmployeeSnapshot
	err := d.db.WithContext(ctx).
		Table("employees").
		Select("id, full_name, department, employee_type").
		Where("school_id = ?", schoolID).
		Where("deleted_at IS NULL").
		First(&snap, "id = ?", employeeID).Error
	if err != nil {
		return nil, err
	}
	return &snap, nil
}
