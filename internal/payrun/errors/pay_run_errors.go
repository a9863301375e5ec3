package payrunerrors

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
	ErrInvalidActorID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid actor id",
		http.StatusBadRequest,
	)
	ErrInvalidEmployeeID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid employee id",
		http.StatusBadRequest,
	)
	ErrInvalidPeriod = apperror.New(
		apperror.CodeInvalidInput,
		"period must be a month between 1 and 12 and a plausible year",
		http.StatusBadRequest,
	)
	ErrInvalidStatusFilter = apperror.New(
		apperror.CodeInvalidInput,
		"invalid pay run status filter",
		http.StatusBadRequest,
	)
	ErrNoSalaryStructure = apperror.New(
		apperror.CodeInvalidState,
		"no salary structure configured for employee",
		http.StatusBadRequest,
	)
	ErrDuplicatePayRun = apperror.New(
		apperror.CodeConflict,
		"pay run already generated for employee and period",
		http.StatusConflict,
	)
	ErrPayRunNotFound = apperror.New(
		apperror.CodeNotFound,
		"pay run not found",
		http.StatusNotFound,
	)
	ErrMarkPaidOnlyProcessed = apperror.New(
		apperror.CodeInvalidState,
		"pay run can only be marked paid while status is PROCESSED",
		http.StatusBadRequest,
	)
	ErrDeleteOnlyDraft = apperror.New(
		apperror.CodeInvalidState,
		"pay run can only be deleted while status is DRAFT",
		http.StatusBadRequest,
	)
	ErrPayRunModified = apperror.New(
		apperror.CodeConflict,
		"pay run was modified concurrently, reload and retry",
		http.StatusConflict,
	)
)
