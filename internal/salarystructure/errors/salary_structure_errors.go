package salarystructureerrors

import (
	"net/http"

	"school-payroll/internal/shared/apperror"
)

var (
	ErrInvalidSchoolID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid school id",
		http.StatusBadRequest,
	)
	ErrInvalidEmployeeID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid employee id",
		http.StatusBadRequest,
	)
	ErrNegativeGross = apperror.New(
		apperror.CodeInvalidInput,
		"monthly gross cannot be negative",
		http.StatusBadRequest,
	)
	ErrInvalidEmployeeType = apperror.New(
		apperror.CodeInvalidInput,
		"employee type must be TEACHER, ADMIN or OTHER",
		http.StatusBadRequest,
	)
	ErrInvalidTaxRegime = apperror.New(
		apperror.CodeInvalidInput,
		"unsupported tax regime",
		http.StatusBadRequest,
	)
	ErrStructureNotFound = apperror.New(
		apperror.CodeNotFound,
		"salary structure not found",
		http.StatusNotFound,
	)
	ErrStructureConflict = apperror.New(
		apperror.CodeConflict,
		"salary structure was created concurrently, retry the setup",
		http.StatusConflict,
	)
)
