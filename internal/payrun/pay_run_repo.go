package payrun

import (
	"context"
	"database/sql"
	"school-payroll/internal/tenant"

	"gorm.io/gorm"
)

// PayRunQueryFilter narrows list reads. Zero month/year means "all
// periods"; nil status means "all statuses".
type PayRunQueryFilter struct {
	Month  int
	Year   int
	Status *string
}

//go:generate mockgen -source=pay_run_repo.go -destination=mock/pay_run_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, p *PayRun) error
	FindByIDAndSchool(ctx context.Context, schoolID string, id string) (*PayRun, error)
	FindAllBySchool(ctx context.Context, schoolID string, filter PayRunQueryFilter) ([]PayRun, error)
	FindAllByEmployee(ctx context.Context, schoolID string, employeeID string) ([]PayRun, error)
	FindEmployeeIDsByPeriod(ctx context.Context, schoolID string, period Period) ([]string, error)
	ExistsForPeriod(ctx context.Context, schoolID string, employeeID string, period Period) (bool, error)
	UpdateWithVersion(ctx context.Context, p *PayRun, expectedVersion int) (bool, error)
	Delete(ctx context.Context, schoolID string, id string) error
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

// conn returns a gorm session bound to the surrounding sql transaction
// when one was attached via WithTx, so the pay-run write commits and
// rolls back together with the outbox insert sharing that transaction.
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

func (r *repository) Create(ctx context.Context, p *PayRun) error {
	return r.conn(ctx).Create(p).Error
}

func (r *repository) FindByIDAndSchool(ctx context.Context, schoolID string, id string) (*PayRun, error) {
	var p PayRun
	err := r.conn(ctx).
		Scopes(tenant.Scope(schoolID)).
		First(&p, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repository) FindAllBySchool(ctx context.Context, schoolID string, filter PayRunQueryFilter) ([]PayRun, error) {
	db := r.conn(ctx).
		Scopes(tenant.Scope(schoolID))

	if filter.Month > 0 {
		db = db.Where("period_month = ?", filter.Month)
	}
	if filter.Year > 0 {
		db = db.Where("period_year = ?", filter.Year)
	}
	if filter.Status != nil {
		db = db.Where("status = ?", *filter.Status)
	}

	var payRuns []PayRun
	err := db.
		Order("period_year DESC, period_month DESC, employee_id ASC").
		Find(&payRuns).Error
	return payRuns, err
}

func (r *repository) FindAllByEmployee(ctx context.Context, schoolID string, employeeID string) ([]PayRun, error) {
	var payRuns []PayRun
	err := r.conn(ctx).
		Scopes(tenant.Scope(schoolID)).
		Where("employee_id = ?", employeeID).
		Order("period_year DESC, period_month DESC").
		Find(&payRuns).Error
	return payRuns, err
}

func (r *repository) FindEmployeeIDsByPeriod(ctx context.Context, schoolID string, period Period) ([]string, error) {
	var ids []string
	err := r.conn(ctx).
		Model(&PayRun{}).
		Scopes(tenant.Scope(schoolID)).
		Where("period_month = ? AND period_year = ?", period.Month, period.Year).
		Pluck("employee_id", &ids).Error
	return ids, err
}

func (r *repository) ExistsForPeriod(ctx context.Context, schoolID string, employeeID string, period Period) (bool, error) {
	var count int64
	err := r.conn(ctx).
		Model(&PayRun{}).
		Scopes(tenant.Scope(schoolID)).
		Where("employee_id = ?", employeeID).
		Where("period_month = ? AND period_year = ?", period.Month, period.Year).
		Count(&count).Error
	return count > 0, err
}

// UpdateWithVersion saves p only if nobody else bumped the row's
// lock_version since it was loaded. Returns false when the guard missed,
// so two operators acting on the same slip cannot silently overwrite
// each other.
func (r *repository) UpdateWithVersion(ctx context.Context, p *PayRun, expectedVersion int) (bool, error) {
	p.LockVersion = expectedVersion + 1

	res := r.conn(ctx).
		Model(&PayRun{}).
		Where("id = ? AND lock_version = ?", p.ID, expectedVersion).
		Updates(map[string]any{
			"status":            p.Status,
			"notes":             p.Notes,
			"payment_reference": p.PaymentReference,
			"paid_at":           p.PaidAt,
			"lock_version":      p.LockVersion,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *repository) Delete(ctx context.Context, schoolID string, id string) error {
	return r.conn(ctx).
		Scopes(tenant.Scope(schoolID)).
		Delete(&PayRun{}, "id = ?", id).Error
}
