package salarystructure

import (
	"context"
	"database/sql"
	"school-payroll/internal/tenant"

	"gorm.io/gorm"
)

//go:generate mockgen -source=salary_structure_repo.go -destination=mock/salary_structure_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, s *SalaryStructure) error
	Update(ctx context.Context, s *SalaryStructure) error
	FindByEmployee(ctx context.Context, schoolID string, employeeID string) (*SalaryStructure, error)
	FindAllBySchool(ctx context.Context, schoolID string) ([]SalaryStructure, error)
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{
		db: r.db,
		tx: tx,
	}
}

// conn binds gorm to the sql transaction attached via WithTx, keeping
// the find-then-write upsert atomic within the service's transaction.
func (r *repository) conn(ctx context.Context) *gorm.DB {
	if r.tx == nil {
		return r.db.WithContext(ctx)
	}
	db := r.db.Session(&gorm.Session{
		Context:                ctx,
		NewDB:                  true,
		SkipDefaultTransaction: true,
	})
	db.Statement.ConnPool = r.tx
	return db
}

func (r *repository) Create(ctx context.Context, s *SalaryStructure) error {
	return r.conn(ctx).Create(s).Error
}

func (r *repository) Update(ctx context.Context, s *SalaryStructure) error {
	return r.conn(ctx).Save(s).Error
}

func (r *repository) FindByEmployee(ctx context.Context, schoolID string, employeeID string) (*SalaryStructure, error) {
	var s SalaryStructure
	err := r.conn(ctx).
		Scopes(tenant.Scope(schoolID)).
		First(&s, "employee_id = ?", employeeID).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *repository) FindAllBySchool(ctx context.Context, schoolID string) ([]SalaryStructure, error) {
	var structures []SalaryStructure
	err := r.conn(ctx).
		Scopes(tenant.Scope(schoolID)).
		Order("employee_id ASC").
		Find(&structures).Error
	return structures, err
}
