package salarystructure

import (
	"context"
	"database/sql"
	"errors"
	"time"

	salarystructureerrors "school-payroll/internal/salarystructure/errors"
	"school-payroll/internal/shared/contextutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	EmployeeTypeTeacher = "TEACHER"
	EmployeeTypeAdmin   = "ADMIN"
	EmployeeTypeOther   = "OTHER"

	TaxRegimeNew = "NEW"
)

//go:generate mockgen -source=salary_structure_service.go -destination=mock/salary_structure_service_mock.go -package=mock
type Service interface {
	Setup(ctx context.Context, schoolID string, req SetupSalaryStructureRequest) (SalaryStructureResponse, error)
	Get(ctx context.Context, schoolID, employeeID string) (SalaryStructureResponse, error)
	GetAll(ctx context.Context, schoolID string) ([]SalaryStructureResponse, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("salarystructure.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("salarystructure.service")
	}
	return &service{db: db, repo: repo, logger: l}
}

// Setup creates or replaces the employee's pay template. It is an
// explicit upsert: administrators re-run it whenever the configured
// gross or policy flags change.
func (s *service) Setup(
	ctx context.Context,
	schoolID string,
	req SetupSalaryStructureRequest,
) (SalaryStructureResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("setup salary structure requested",
		zap.String("request_id", rid),
		zap.String("school_id", schoolID),
		zap.String("employee_id", req.EmployeeID),
		zap.Int64("monthly_gross", req.MonthlyGross),
	)

	schoolUUID, employeeUUID, err := validateSetupRequest(schoolID, req)
	if err != nil {
		return SalaryStructureResponse{}, err
	}

	taxRegime := req.TaxRegime
	if taxRegime == "" {
		taxRegime = TaxRegimeNew
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return SalaryStructureResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	existing, err := qtx.FindByEmployee(ctx, schoolID, req.EmployeeID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return SalaryStructureResponse{}, mapRepositoryError(err)
	}

	var structure *SalaryStructure
	if existing != nil {
		existing.EmployeeType = req.EmployeeType
		existing.MonthlyGross = req.MonthlyGross
		existing.TaxRegime = taxRegime
		existing.LimitProvidentFund = req.LimitProvidentFund
		if err := qtx.Update(ctx, existing); err != nil {
			return SalaryStructureResponse{}, mapRepositoryError(err)
		}
		structure = existing
	} else {
		structure = &SalaryStructure{
			ID:                 uuid.New(),
			SchoolID:           schoolUUID,
			EmployeeID:         employeeUUID,
			EmployeeType:       req.EmployeeType,
			MonthlyGross:       req.MonthlyGross,
			TaxRegime:          taxRegime,
			LimitProvidentFund: req.LimitProvidentFund,
		}
		if err := qtx.Create(ctx, structure); err != nil {
			return SalaryStructureResponse{}, mapRepositoryError(err)
		}
	}

	if err := tx.Commit(); err != nil {
		return SalaryStructureResponse{}, err
	}

	return mapToResponse(*structure), nil
}

func (s *service) Get(
	ctx context.Context,
	schoolID, employeeID string,
) (SalaryStructureResponse, error) {
	if _, err := uuid.Parse(employeeID); err != nil {
		return SalaryStructureResponse{}, salarystructureerrors.ErrInvalidEmployeeID
	}

	structure, err := s.repo.FindByEmployee(ctx, schoolID, employeeID)
	if err != nil {
		return SalaryStructureResponse{}, mapRepositoryError(err)
	}

	return mapToResponse(*structure), nil
}

func (s *service) GetAll(
	ctx context.Context,
	schoolID string,
) ([]SalaryStructureResponse, error) {
	structures, err := s.repo.FindAllBySchool(ctx, schoolID)
	if err != nil {
		return nil, mapRepositoryError(err)
	}

	return mapToListResponse(structures), nil
}

func validateSetupRequest(
	schoolID string,
	req SetupSalaryStructureRequest,
) (uuid.UUID, uuid.UUID, error) {
	schoolUUID, err := uuid.Parse(schoolID)
	if err != nil {
		return uuid.Nil, uuid.Nil, salarystructureerrors.ErrInvalidSchoolID
	}

	employeeUUID, err := uuid.Parse(req.EmployeeID)
	if err != nil {
		return uuid.Nil, uuid.Nil, salarystructureerrors.ErrInvalidEmployeeID
	}

	if req.MonthlyGross < 0 {
		return uuid.Nil, uuid.Nil, salarystructureerrors.ErrNegativeGross
	}

	switch req.EmployeeType {
	case EmployeeTypeTeacher, EmployeeTypeAdmin, EmployeeTypeOther:
	default:
		return uuid.Nil, uuid.Nil, salarystructureerrors.ErrInvalidEmployeeType
	}

	if req.TaxRegime != "" && req.TaxRegime != TaxRegimeNew {
		return uuid.Nil, uuid.Nil, salarystructureerrors.ErrInvalidTaxRegime
	}

	return schoolUUID, employeeUUID, nil
}

func mapToResponse(s SalaryStructure) SalaryStructureResponse {
	return SalaryStructureResponse{
		ID:                 s.ID.String(),
		SchoolID:           s.SchoolID.String(),
		EmployeeID:         s.EmployeeID.String(),
		EmployeeType:       s.EmployeeType,
		MonthlyGross:       s.MonthlyGross,
		TaxRegime:          s.TaxRegime,
		LimitProvidentFund: s.LimitProvidentFund,
		UpdatedAt:          s.UpdatedAt.Format(time.RFC3339),
	}
}

func mapToListResponse(structures []SalaryStructure) []SalaryStructureResponse {
	res := make([]SalaryStructureResponse, len(structures))
	for i, structure := range structures {
		res[i] = mapToResponse(structure)
	}
	return res
}
