package salarystructure_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"school-payroll/internal/salarystructure"
	salarystructureerrors "school-payroll/internal/salarystructure/errors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeStructureRepository struct {
	withTxFn          func(tx *sql.Tx) salarystructure.Repository
	createFn          func(ctx context.Context, s *salarystructure.SalaryStructure) error
	updateFn          func(ctx context.Context, s *salarystructure.SalaryStructure) error
	findByEmployeeFn  func(ctx context.Context, schoolID string, employeeID string) (*salarystructure.SalaryStructure, error)
	findAllBySchoolFn func(ctx context.Context, schoolID string) ([]salarystructure.SalaryStructure, error)
}

func (f *fakeStructureRepository) WithTx(tx *sql.Tx) salarystructure.Repository {
	if f.withTxFn != nil {
		return f.withTxFn(tx)
	}
	return f
}

func (f *fakeStructureRepository) Create(ctx context.Context, s *salarystructure.SalaryStructure) error {
	if f.createFn != nil {
		return f.createFn(ctx, s)
	}
	return nil
}

func (f *fakeStructureRepository) Update(ctx context.Context, s *salarystructure.SalaryStructure) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, s)
	}
	return nil
}

func (f *fakeStructureRepository) FindByEmployee(ctx context.Context, schoolID string, employeeID string) (*salarystructure.SalaryStructure, error) {
	if f.findByEmployeeFn != nil {
		return f.findByEmployeeFn(ctx, schoolID, employeeID)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeStructureRepository) FindAllBySchool(ctx context.Context, schoolID string) ([]salarystructure.SalaryStructure, error) {
	if f.findAllBySchoolFn != nil {
		return f.findAllBySchoolFn(ctx, schoolID)
	}
	return nil, nil
}

type structureServiceDeps struct {
	db      *sql.DB
	sqlMock sqlmock.Sqlmock
	service salarystructure.Service
	repo    *fakeStructureRepository
}

func setupStructureServiceTest(t *testing.T) *structureServiceDeps {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)

	repo := &fakeStructureRepository{}
	svc := salarystructure.NewService(db, repo)

	return &structureServiceDeps{db: db, sqlMock: sqlMock, service: svc, repo: repo}
}

func expectTx(t *testing.T, mock sqlmock.Sqlmock, commit bool) {
	t.Helper()
	mock.ExpectBegin()
	if commit {
		mock.ExpectCommit()
	} else {
		mock.ExpectRollback()
	}
}

func TestSalaryStructureService_Setup_Create(t *testing.T) {
	ctx := context.Background()
	schoolID := uuid.New().String()
	employeeID := uuid.New().String()

	deps := setupStructureServiceTest(t)
	defer deps.db.Close()

	expectTx(t, deps.sqlMock, true)
	deps.repo.findByEmployeeFn = func(ctx context.Context, sid, eid string) (*salarystructure.SalaryStructure, error) {
		return nil, gorm.ErrRecordNotFound
	}
	deps.repo.createFn = func(ctx context.Context, s *salarystructure.SalaryStructure) error {
		assert.Equal(t, schoolID, s.SchoolID.String())
		assert.Equal(t, employeeID, s.EmployeeID.String())
		assert.Equal(t, int64(42000_00), s.MonthlyGross)
		assert.Equal(t, salarystructure.TaxRegimeNew, s.TaxRegime)
		assert.True(t, s.LimitProvidentFund)
		return nil
	}

	resp, err := deps.service.Setup(ctx, schoolID, salarystructure.SetupSalaryStructureRequest{
		EmployeeID:         employeeID,
		EmployeeType:       salarystructure.EmployeeTypeTeacher,
		MonthlyGross:       42000_00,
		LimitProvidentFund: true,
	})

	assert.NoError(t, err)
	assert.Equal(t, int64(42000_00), resp.MonthlyGross)
	assert.Equal(t, salarystructure.EmployeeTypeTeacher, resp.EmployeeType)
	assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
}

func TestSalaryStructureService_Setup_UpdatesExisting(t *testing.T) {
	ctx := context.Background()
	schoolID := uuid.New().String()
	employeeID := uuid.New().String()

	deps := setupStructureServiceTest(t)
	defer deps.db.Close()

	expectTx(t, deps.sqlMock, true)
	deps.repo.findByEmployeeFn = func(ctx context.Context, sid, eid string) (*salarystructure.SalaryStructure, error) {
		return &salarystructure.SalaryStructure{
			ID:           uuid.New(),
			SchoolID:     uuid.MustParse(sid),
			EmployeeID:   uuid.MustParse(eid),
			EmployeeType: salarystructure.EmployeeTypeOther,
			MonthlyGross: 0,
			TaxRegime:    salarystructure.TaxRegimeNew,
			UpdatedAt:    time.Now().UTC(),
		}, nil
	}
	updated := false
	deps.repo.updateFn = func(ctx context.Context, s *salarystructure.SalaryStructure) error {
		updated = true
		assert.Equal(t, int64(55000_00), s.MonthlyGross)
		assert.Equal(t, salarystructure.EmployeeTypeAdmin, s.EmployeeType)
		return nil
	}
	deps.repo.createFn = func(ctx context.Context, s *salarystructure.SalaryStructure) error {
		t.Fatal("create must not be called when a structure exists")
		return nil
	}

	resp, err := deps.service.Setup(ctx, schoolID, salarystructure.SetupSalaryStructureRequest{
		EmployeeID:   employeeID,
		EmployeeType: salarystructure.EmployeeTypeAdmin,
		MonthlyGross: 55000_00,
	})

	assert.NoError(t, err)
	assert.True(t, updated)
	assert.Equal(t, int64(55000_00), resp.MonthlyGross)
	assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
}

func TestSalaryStructureService_Setup_Validation(t *testing.T) {
	ctx := context.Background()
	schoolID := uuid.New().String()
	employeeID := uuid.New().String()

	cases := []struct {
		name string
		req  salarystructure.SetupSalaryStructureRequest
		want error
	}{
		{
			name: "negative gross",
			req: salarystructure.SetupSalaryStructureRequest{
				EmployeeID:   employeeID,
				EmployeeType: salarystructure.EmployeeTypeTeacher,
				MonthlyGross: -1,
			},
			want: salarystructureerrors.ErrNegativeGross,
		},
		{
			name: "bad employee id",
			req: salarystructure.SetupSalaryStructureRequest{
				EmployeeID:   "not-a-uuid",
				EmployeeType: salarystructure.EmployeeTypeTeacher,
			},
			want: salarystructureerrors.ErrInvalidEmployeeID,
		},
		{
			name: "bad employee type",
			req: salarystructure.SetupSalaryStructureRequest{
				EmployeeID:   employeeID,
				EmployeeType: "CONTRACTOR",
			},
			want: salarystructureerrors.ErrInvalidEmployeeType,
		},
		{
			name: "bad tax regime",
			req: salarystructure.SetupSalaryStructureRequest{
				EmployeeID:   employeeID,
				EmployeeType: salarystructure.EmployeeTypeTeacher,
				TaxRegime:    "OLD",
			},
			want: salarystructureerrors.ErrInvalidTaxRegime,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			deps := setupStructureServiceTest(t)
			defer deps.db.Close()

			_, err := deps.service.Setup(ctx, schoolID, tc.req)
			assert.ErrorIs(t, err, tc.want)
			assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
		})
	}
}

func TestSalaryStructureService_Setup_ConcurrentCreateConflict(t *testing.T) {
	ctx := context.Background()
	schoolID := uuid.New().String()
	employeeID := uuid.New().String()

	deps := setupStructureServiceTest(t)
	defer deps.db.Close()

	expectTx(t, deps.sqlMock, false)
	deps.repo.findByEmployeeFn = func(ctx context.Context, sid, eid string) (*salarystructure.SalaryStructure, error) {
		return nil, gorm.ErrRecordNotFound
	}
	deps.repo.createFn = func(ctx context.Context, s *salarystructure.SalaryStructure) error {
		return &pgconn.PgError{Code: "23505", ConstraintName: "uq_salary_structure_employee"}
	}

	_, err := deps.service.Setup(ctx, schoolID, salarystructure.SetupSalaryStructureRequest{
		EmployeeID:   employeeID,
		EmployeeType: salarystructure.EmployeeTypeTeacher,
		MonthlyGross: 30000_00,
	})

	assert.ErrorIs(t, err, salarystructureerrors.ErrStructureConflict)
	assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
}

func TestSalaryStructureService_Get(t *testing.T) {
	ctx := context.Background()
	schoolID := uuid.New().String()
	employeeID := uuid.New().String()

	t.Run("not found", func(t *testing.T) {
		deps := setupStructureServiceTest(t)
		defer deps.db.Close()

		deps.repo.findByEmployeeFn = func(ctx context.Context, sid, eid string) (*salarystructure.SalaryStructure, error) {
			return nil, gorm.ErrRecordNotFound
		}

		_, err := deps.service.Get(ctx, schoolID, employeeID)
		assert.ErrorIs(t, err, salarystructureerrors.ErrStructureNotFound)
	})

	t.Run("invalid employee id", func(t *testing.T) {
		deps := setupStructureServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.Get(ctx, schoolID, "abc")
		assert.ErrorIs(t, err, salarystructureerrors.ErrInvalidEmployeeID)
	})

	t.Run("found", func(t *testing.T) {
		deps := setupStructureServiceTest(t)
		defer deps.db.Close()

		deps.repo.findByEmployeeFn = func(ctx context.Context, sid, eid string) (*salarystructure.SalaryStructure, error) {
			return &salarystructure.SalaryStructure{
				ID:           uuid.New(),
				SchoolID:     uuid.MustParse(sid),
				EmployeeID:   uuid.MustParse(eid),
				EmployeeType: salarystructure.EmployeeTypeTeacher,
				MonthlyGross: 42000_00,
				TaxRegime:    salarystructure.TaxRegimeNew,
			}, nil
		}

		resp, err := deps.service.Get(ctx, schoolID, employeeID)
		assert.NoError(t, err)
		assert.Equal(t, employeeID, resp.EmployeeID)
		assert.Equal(t, int64(42000_00), resp.MonthlyGross)
	})
}

func TestSalaryStructureService_GetAll(t *testing.T) {
	ctx := context.Background()
	schoolID := uuid.New().String()

	deps := setupStructureServiceTest(t)
	defer deps.db.Close()

	deps.repo.findAllBySchoolFn = func(ctx context.Context, sid string) ([]salarystructure.SalaryStructure, error) {
		return []salarystructure.SalaryStructure{
			{ID: uuid.New(), SchoolID: uuid.MustParse(sid), EmployeeID: uuid.New(), EmployeeType: salarystructure.EmployeeTypeTeacher, MonthlyGross: 42000_00, TaxRegime: salarystructure.TaxRegimeNew},
			{ID: uuid.New(), SchoolID: uuid.MustParse(sid), EmployeeID: uuid.New(), EmployeeType: salarystructure.EmployeeTypeAdmin, MonthlyGross: 35000_00, TaxRegime: salarystructure.TaxRegimeNew},
		}, nil
	}

	resp, err := deps.service.GetAll(ctx, schoolID)

	assert.NoError(t, err)
	assert.Len(t, resp, 2)
	assert.Equal(t, int64(42000_00), resp[0].MonthlyGross)
}
