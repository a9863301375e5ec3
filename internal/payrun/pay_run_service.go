package payrun

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"school-payroll/internal/attendance"
	"school-payroll/internal/events"
	"school-payroll/internal/messaging/kafka"
	"school-payroll/internal/paycalc"
	payrunerrors "school-payroll/internal/payrun/errors"
	"school-payroll/internal/salarystructure"
	"school-payroll/internal/shared/apperror"
	"school-payroll/internal/shared/contextutil"
	"school-payroll/internal/shared/counter"
	"school-payroll/internal/staffdir"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

const (
	StatusDraft     = "DRAFT"
	StatusProcessed = "PROCESSED"
	StatusPaid      = "PAID"
)

const slipCounterType = "pay_run"

//go:generate mockgen -source=pay_run_service.go -destination=mock/pay_run_service_mock.go -package=mock
type Service interface {
	Generate(ctx context.Context, schoolID, actorID string, req GeneratePayRunsRequest) (GeneratePayRunsResponse, error)
	Pending(ctx context.Context, schoolID string, req PendingPeriodRequest) ([]PendingEmployeeResponse, error)
	GetAll(ctx context.Context, schoolID string, filter ListPayRunsFilterRequest) ([]PayRunResponse, error)
	GetByEmployee(ctx context.Context, schoolID, employeeID string) ([]PayRunResponse, error)
	GetDetail(ctx context.Context, schoolID, payRunID string) (PayRunDetailResponse, error)
	Update(ctx context.Context, schoolID, payRunID string, req UpdatePayRunRequest) (PayRunResponse, error)
	MarkPaid(ctx context.Context, schoolID, actorID, payRunID string) (PayRunResponse, error)
	DeleteDraft(ctx context.Context, schoolID, payRunID string) error
}

type service struct {
	db         *sql.DB
	repo       Repository
	structures salarystructure.Repository
	att        attendance.Reader
	staff      staffdir.Directory
	counters   counter.Repository
	outbox     kafka.OutboxRepository
	logger     *zap.Logger

	// Collapses concurrent directory lookups for the same employee.
	snapshots singleflight.Group
}

func NewService(
	db *sql.DB,
	repo Repository,
	structures salarystructure.Repository,
	att attendance.Reader,
	staff staffdir.Directory,
	counters counter.Repository,
	logger ...*zap.Logger,
) Service {
	return NewServiceWithOutbox(db, repo, structures, att, staff, counters, nil, logger...)
}

// NewServiceWithOutbox wires the transactional outbox so pay-run
// lifecycle events leave the engine exactly when their database change
// commits. A nil outbox disables event emission, nothing else changes.
func NewServiceWithOutbox(
	db *sql.DB,
	repo Repository,
	structures salarystructure.Repository,
	att attendance.Reader,
	staff staffdir.Directory,
	counters counter.Repository,
	outbox kafka.OutboxRepository,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("payrun.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("payrun.service")
	}
	return &service{
		db:         db,
		repo:       repo,
		structures: structures,
		att:        att,
		staff:      staff,
		counters:   counters,
		outbox:     outbox,
		logger:     l,
	}
}

// Generate runs the batch for one period. Each employee is processed in
// its own transaction and failures are collected, not propagated: one
// misconfigured employee never blocks the rest of the school's payroll.
// Re-running the same request is safe, already-generated employees come
// back in the failed list as duplicates.
func (s *service) Generate(
	ctx context.Context,
	schoolID, actorID string,
	req GeneratePayRunsRequest,
) (GeneratePayRunsResponse, error) {
	schoolUUID, err := parseSchoolID(schoolID)
	if err != nil {
		return GeneratePayRunsResponse{}, err
	}
	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return GeneratePayRunsResponse{}, payrunerrors.ErrInvalidActorID
	}
	period := Period{Month: req.Month, Year: req.Year}
	if !period.Valid() {
		return GeneratePayRunsResponse{}, payrunerrors.ErrInvalidPeriod
	}

	rid := contextutil.GetRequestID(ctx)
	s.logger.Info("pay run generation started",
		zap.String("request_id", rid),
		zap.String("school_id", schoolID),
		zap.String("period", period.String()),
		zap.Int("employee_count", len(req.EmployeeIDs)),
	)

	summaries, err := s.att.SummariesForPeriod(ctx, schoolID, period.Month, period.Year)
	if err != nil {
		return GeneratePayRunsResponse{}, err
	}
	byEmployee := make(map[uuid.UUID]attendance.Summary, len(summaries))
	for _, sum := range summaries {
		byEmployee[sum.EmployeeID] = sum
	}

	resp := GeneratePayRunsResponse{
		Succeeded: []PayRunResponse{},
		Failed:    []GenerateFailure{},
	}

	for _, rawID := range req.EmployeeIDs {
		employeeUUID, err := uuid.Parse(rawID)
		if err != nil {
			resp.Failed = append(resp.Failed, GenerateFailure{
				EmployeeID: rawID,
				Reason:     payrunerrors.ErrInvalidEmployeeID.Message,
			})
			continue
		}

		payRun, err := s.generateOne(ctx, schoolUUID, actorUUID, employeeUUID, period, byEmployee)
		if err != nil {
			s.logger.Warn("pay run generation failed for employee",
				zap.String("request_id", rid),
				zap.String("school_id", schoolID),
				zap.String("employee_id", rawID),
				zap.String("period", period.String()),
				zap.Error(err),
			)
			resp.Failed = append(resp.Failed, GenerateFailure{
				EmployeeID: rawID,
				Reason:     failureReason(err),
			})
			continue
		}

		resp.Succeeded = append(resp.Succeeded, mapToResponse(*payRun))
	}

	s.logger.Info("pay run generation finished",
		zap.String("request_id", rid),
		zap.String("school_id", schoolID),
		zap.String("period", period.String()),
		zap.Int("succeeded", len(resp.Succeeded)),
		zap.Int("failed", len(resp.Failed)),
	)

	return resp, nil
}

func (s *service) generateOne(
	ctx context.Context,
	schoolUUID, actorUUID, employeeUUID uuid.UUID,
	period Period,
	summaries map[uuid.UUID]attendance.Summary,
) (*PayRun, error) {
	schoolID := schoolUUID.String()
	employeeID := employeeUUID.String()

	structure, err := s.structures.FindByEmployee(ctx, schoolID, employeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, payrunerrors.ErrNoSalaryStructure
		}
		return nil, err
	}

	exists, err := s.repo.ExistsForPeriod(ctx, schoolID, employeeID, period)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, payrunerrors.ErrDuplicatePayRun
	}

	// Missing attendance is not a generation failure: the factor is
	// stored for audit, not applied to pay, and an absent summary simply
	// records as zero.
	summary := summaries[employeeUUID]

	pol := paycalc.PolicyForYear(period.Year)
	pol.LimitProvidentFund = structure.LimitProvidentFund
	breakdown, err := paycalc.Compute(structure.MonthlyGross, pol)
	if err != nil {
		return nil, err
	}

	seq, err := s.counters.GetNextValue(ctx, schoolID, slipCounterType)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	payRun := &PayRun{
		ID:          uuid.New(),
		SchoolID:    schoolUUID,
		EmployeeID:  employeeUUID,
		PeriodMonth: period.Month,
		PeriodYear:  period.Year,
		SlipNumber:  fmt.Sprintf("PR-%04d%02d-%06d", period.Year, period.Month, seq),

		Basic:            breakdown.Earnings.Basic,
		DA:               breakdown.Earnings.DA,
		HRA:              breakdown.Earnings.HRA,
		SpecialAllowance: breakdown.Earnings.SpecialAllowance,
		GrossSalary:      breakdown.GrossSalary,

		EPFEmployee:     breakdown.Deductions.EPFEmployee,
		ProfessionalTax: breakdown.Deductions.ProfessionalTax,
		TDS:             breakdown.Deductions.TDS,

		EPFEmployer:       breakdown.EmployerCost.EPFEmployer,
		GratuityProvision: breakdown.EmployerCost.GratuityProvision,

		NetSalary: breakdown.NetSalary,

		PresentDays:      summary.PresentDays,
		TotalWorkingDays: summary.TotalWorkingDays,
		AttendanceFactor: summary.Factor(),

		Status:      StatusProcessed,
		CreatedBy:   actorUUID,
		LockVersion: 1,
		GeneratedAt: now,
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	if err := qtx.Create(ctx, payRun); err != nil {
		return nil, mapRepositoryError(err)
	}

	if err := s.enqueueEvent(ctx, tx, events.PayRunGeneratedEventType, payRun, actorUUID.String()); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, mapRepositoryError(err)
	}

	return payRun, nil
}

// Pending lists employees who have attendance recorded for the period
// but no pay run yet. It is the feeder for the generation screen.
func (s *service) Pending(
	ctx context.Context,
	schoolID string,
	req PendingPeriodRequest,
) ([]PendingEmployeeResponse, error) {
	if _, err := parseSchoolID(schoolID); err != nil {
		return nil, err
	}
	period := Period{Month: req.Month, Year: req.Year}
	if !period.Valid() {
		return nil, payrunerrors.ErrInvalidPeriod
	}

	summaries, err := s.att.SummariesForPeriod(ctx, schoolID, period.Month, period.Year)
	if err != nil {
		return nil, err
	}

	existingIDs, err := s.repo.FindEmployeeIDsByPeriod(ctx, schoolID, period)
	if err != nil {
		return nil, err
	}
	existing := make(map[string]struct{}, len(existingIDs))
	for _, id := range existingIDs {
		existing[id] = struct{}{}
	}

	pending := []PendingEmployeeResponse{}
	for _, sum := range summaries {
		if !sum.Eligible() {
			continue
		}
		if _, done := existing[sum.EmployeeID.String()]; done {
			continue
		}
		pending = append(pending, PendingEmployeeResponse{
			EmployeeID:       sum.EmployeeID.String(),
			EmployeeType:     sum.EmployeeType,
			PresentDays:      sum.PresentDays,
			TotalWorkingDays: sum.TotalWorkingDays,
			AttendanceFactor: sum.Factor(),
		})
	}

	return pending, nil
}

func (s *service) GetAll(
	ctx context.Context,
	schoolID string,
	filter ListPayRunsFilterRequest,
) ([]PayRunResponse, error) {
	if _, err := parseSchoolID(schoolID); err != nil {
		return nil, err
	}

	repoFilter := PayRunQueryFilter{
		Month: filter.Month,
		Year:  filter.Year,
	}
	if filter.Status != "" {
		status := strings.ToUpper(filter.Status)
		switch status {
		case StatusDraft, StatusProcessed, StatusPaid:
			repoFilter.Status = &status
		default:
			return nil, payrunerrors.ErrInvalidStatusFilter
		}
	}

	payRuns, err := s.repo.FindAllBySchool(ctx, schoolID, repoFilter)
	if err != nil {
		return nil, err
	}

	return mapToListResponse(payRuns), nil
}

func (s *service) GetByEmployee(
	ctx context.Context,
	schoolID, employeeID string,
) ([]PayRunResponse, error) {
	if _, err := parseSchoolID(schoolID); err != nil {
		return nil, err
	}
	if _, err := uuid.Parse(employeeID); err != nil {
		return nil, payrunerrors.ErrInvalidEmployeeID
	}

	payRuns, err := s.repo.FindAllByEmployee(ctx, schoolID, employeeID)
	if err != nil {
		return nil, err
	}

	return mapToListResponse(payRuns), nil
}

// GetDetail returns one pay run with its employee snapshot attached.
// The snapshot is best effort: a pay run outlives the employee record
// it was generated for, so a missing directory row degrades to a nil
// employee rather than failing the read.
func (s *service) GetDetail(
	ctx context.Context,
	schoolID, payRunID string,
) (PayRunDetailResponse, error) {
	if _, err := parseSchoolID(schoolID); err != nil {
		return PayRunDetailResponse{}, err
	}
	if _, err := uuid.Parse(payRunID); err != nil {
		return PayRunDetailResponse{}, payrunerrors.ErrPayRunNotFound
	}

	payRun, err := s.repo.FindByIDAndSchool(ctx, schoolID, payRunID)
	if err != nil {
		return PayRunDetailResponse{}, mapRepositoryError(err)
	}

	detail := PayRunDetailResponse{PayRun: mapToResponse(*payRun)}

	employeeID := payRun.EmployeeID.String()
	snap, err, _ := s.snapshots.Do(schoolID+"/"+employeeID, func() (any, error) {
		return s.staff.FindSnapshot(ctx, schoolID, employeeID)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return detail, nil
		}
		return PayRunDetailResponse{}, err
	}

	if employee, ok := snap.(*staffdir.EmployeeSnapshot); ok && employee != nil {
		detail.Employee = &EmployeeSnapshotResponse{
			ID:           employee.ID.String(),
			FullName:     employee.FullName,
			Department:   employee.Department,
			EmployeeType: employee.EmployeeType,
		}
	}

	return detail, nil
}

// Update edits operator metadata only. The monetary snapshot and the
// period are immutable once generated; correcting numbers means
// deleting a draft or regenerating, never editing in place.
func (s *service) Update(
	ctx context.Context,
	schoolID, payRunID string,
	req UpdatePayRunRequest,
) (PayRunResponse, error) {
	if _, err := parseSchoolID(schoolID); err != nil {
		return PayRunResponse{}, err
	}
	if _, err := uuid.Parse(payRunID); err != nil {
		return PayRunResponse{}, payrunerrors.ErrPayRunNotFound
	}

	payRun, err := s.repo.FindByIDAndSchool(ctx, schoolID, payRunID)
	if err != nil {
		return PayRunResponse{}, mapRepositoryError(err)
	}

	if req.Notes != nil {
		payRun.Notes = req.Notes
	}
	if req.PaymentReference != nil {
		payRun.PaymentReference = req.PaymentReference
	}

	expected := payRun.LockVersion
	ok, err := s.repo.UpdateWithVersion(ctx, payRun, expected)
	if err != nil {
		return PayRunResponse{}, mapRepositoryError(err)
	}
	if !ok {
		return PayRunResponse{}, payrunerrors.ErrPayRunModified
	}

	return mapToResponse(*payRun), nil
}

// MarkPaid moves PROCESSED to PAID and stamps the payment time. The
// transition is guarded by the lock version so two operators confirming
// payment concurrently produce exactly one PAID transition.
func (s *service) MarkPaid(
	ctx context.Context,
	schoolID, actorID, payRunID string,
) (PayRunResponse, error) {
	if _, err := parseSchoolID(schoolID); err != nil {
		return PayRunResponse{}, err
	}
	if _, err := uuid.Parse(actorID); err != nil {
		return PayRunResponse{}, payrunerrors.ErrInvalidActorID
	}
	if _, err := uuid.Parse(payRunID); err != nil {
		return PayRunResponse{}, payrunerrors.ErrPayRunNotFound
	}

	payRun, err := s.repo.FindByIDAndSchool(ctx, schoolID, payRunID)
	if err != nil {
		return PayRunResponse{}, mapRepositoryError(err)
	}

	if payRun.Status != StatusProcessed {
		return PayRunResponse{}, payrunerrors.ErrMarkPaidOnlyProcessed
	}

	now := time.Now().UTC()
	payRun.Status = StatusPaid
	payRun.PaidAt = &now

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return PayRunResponse{}, err
	}
	defer tx.Rollback()

	expected := payRun.LockVersion
	ok, err := s.repo.WithTx(tx).UpdateWithVersion(ctx, payRun, expected)
	if err != nil {
		return PayRunResponse{}, mapRepositoryError(err)
	}
	if !ok {
		return PayRunResponse{}, payrunerrors.ErrPayRunModified
	}

	if err := s.enqueueEvent(ctx, tx, events.PayRunPaidEventType, payRun, actorID); err != nil {
		return PayRunResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return PayRunResponse{}, err
	}

	s.logger.Info("pay run marked paid",
		zap.String("request_id", contextutil.GetRequestID(ctx)),
		zap.String("school_id", schoolID),
		zap.String("pay_run_id", payRunID),
		zap.String("slip_number", payRun.SlipNumber),
	)

	return mapToResponse(*payRun), nil
}

// DeleteDraft soft-deletes a DRAFT pay run. PROCESSED and PAID rows are
// part of the financial record and can never be deleted.
func (s *service) DeleteDraft(ctx context.Context, schoolID, payRunID string) error {
	if _, err := parseSchoolID(schoolID); err != nil {
		return err
	}
	if _, err := uuid.Parse(payRunID); err != nil {
		return payrunerrors.ErrPayRunNotFound
	}

	payRun, err := s.repo.FindByIDAndSchool(ctx, schoolID, payRunID)
	if err != nil {
		return mapRepositoryError(err)
	}

	if payRun.Status != StatusDraft {
		return payrunerrors.ErrDeleteOnlyDraft
	}

	return s.repo.Delete(ctx, schoolID, payRunID)
}

func (s *service) enqueueEvent(
	ctx context.Context,
	tx *sql.Tx,
	eventType string,
	payRun *PayRun,
	actorID string,
) error {
	if s.outbox == nil {
		return nil
	}

	payload, err := json.Marshal(events.PayRunEvent{
		EventType:   eventType,
		PayRunID:    payRun.ID.String(),
		SchoolID:    payRun.SchoolID.String(),
		EmployeeID:  payRun.EmployeeID.String(),
		PeriodMonth: payRun.PeriodMonth,
		PeriodYear:  payRun.PeriodYear,
		NetSalary:   payRun.NetSalary,
		ActorID:     actorID,
		OccurredAt:  time.Now().UTC(),
	})
	if err != nil {
		return err
	}

	return s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     contextutil.GetRequestID(ctx),
		AggregateType: "pay_run",
		AggregateID:   payRun.ID.String(),
		EventType:     eventType,
		Topic:         events.PayRunTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	})
}

func parseSchoolID(schoolID string) (uuid.UUID, error) {
	id, err := uuid.Parse(schoolID)
	if err != nil {
		return uuid.Nil, payrunerrors.ErrInvalidSchoolID
	}
	return id, nil
}

// failureReason keeps internal error details out of the batch report.
func failureReason(err error) string {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	if errors.Is(err, paycalc.ErrNegativeGross) {
		return paycalc.ErrNegativeGross.Error()
	}
	return "internal error"
}

func mapToResponse(p PayRun) PayRunResponse {
	resp := PayRunResponse{
		ID:          p.ID.String(),
		SchoolID:    p.SchoolID.String(),
		EmployeeID:  p.EmployeeID.String(),
		PeriodMonth: p.PeriodMonth,
		PeriodYear:  p.PeriodYear,
		SlipNumber:  p.SlipNumber,
		Earnings: EarningsResponse{
			Basic:            p.Basic,
			DA:               p.DA,
			HRA:              p.HRA,
			SpecialAllowance: p.SpecialAllowance,
		},
		GrossSalary: p.GrossSalary,
		Deductions: DeductionsResponse{
			EPFEmployee:     p.EPFEmployee,
			ProfessionalTax: p.ProfessionalTax,
			TDS:             p.TDS,
		},
		EmployerCost: EmployerCostResponse{
			EPFEmployer:       p.EPFEmployer,
			GratuityProvision: p.GratuityProvision,
		},
		NetSalary:        p.NetSalary,
		PresentDays:      p.PresentDays,
		TotalWorkingDays: p.TotalWorkingDays,
		AttendanceFactor: p.AttendanceFactor,
		Status:           p.Status,
		Notes:            p.Notes,
		PaymentReference: p.PaymentReference,
		GeneratedAt:      p.GeneratedAt.UTC().Format(time.RFC3339),
	}

	if p.PaidAt != nil {
		paidAt := p.PaidAt.UTC().Format(time.RFC3339)
		resp.PaidAt = &paidAt
	}

	return resp
}

func mapToListResponse(payRuns []PayRun) []PayRunResponse {
	responses := make([]PayRunResponse, 0, len(payRuns))
	for _, p := range payRuns {
		responses = append(responses, mapToResponse(p))
	}
	return responses
}
