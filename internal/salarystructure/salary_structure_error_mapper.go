package salarystructure

import (
	"errors"
	"strings"

	salarystructureerrors "school-payroll/internal/salarystructure/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return salarystructureerrors.ErrStructureNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "23505" && pgErr.ConstraintName == "uq_salary_structure_employee" {
			return salarystructureerrors.ErrStructureConflict
		}
	}

	errMsg := strings.ToLower(err.Error())
	if strings.Contains(errMsg, "duplicate key value") && strings.Contains(errMsg, "uq_salary_structure_employee") {
		return salarystructureerrors.ErrStructureConflict
	}

	return err
}
