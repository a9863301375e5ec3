package payrun

import (
	"errors"
	"strings"

	payrunerrors "school-payroll/internal/payrun/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return payrunerrors.ErrPayRunNotFound
	}

	// The unique index is the authoritative idempotency check: two
	// concurrent batches may both pass ExistsForPeriod, only one insert
	// survives.
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "23505" && pgErr.ConstraintName == "uq_pay_run_employee_period" {
			return payrunerrors.ErrDuplicatePayRun
		}
	}

	errMsg := strings.ToLower(err.Error())
	if strings.Contains(errMsg, "duplicate key value") && strings.Contains(errMsg, "uq_pay_run_employee_period") {
		return payrunerrors.ErrDuplicatePayRun
	}

	return err
}
