package payrun_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"school-payroll/internal/payrun"
	payrunerrors "school-payroll/internal/payrun/errors"
	"school-payroll/internal/shared/apperror"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
	apperror.Init()
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type apiEnvelope struct {
	Ok    bool            `json:"ok"`
	Data  json.RawMessage `json:"data"`
	Error *apiError       `json:"error"`
}

func mustDecodeEnvelope(t *testing.T, body []byte) apiEnvelope {
	t.Helper()
	var env apiEnvelope
	err := json.Unmarshal(body, &env)
	assert.NoError(t, err)
	return env
}

type fakePayRunService struct {
	generateFn      func(ctx context.Context, schoolID, actorID string, req payrun.GeneratePayRunsRequest) (payrun.GeneratePayRunsResponse, error)
	pendingFn       func(ctx context.Context, schoolID string, req payrun.PendingPeriodRequest) ([]payrun.PendingEmployeeResponse, error)
	getAllFn        func(ctx context.Context, schoolID string, filter payrun.ListPayRunsFilterRequest) ([]payrun.PayRunResponse, error)
	getByEmployeeFn func(ctx context.Context, schoolID, employeeID string) ([]payrun.PayRunResponse, error)
	getDetailFn     func(ctx context.Context, schoolID, payRunID string) (payrun.PayRunDetailResponse, error)
	updateFn        func(ctx context.Context, schoolID, payRunID string, req payrun.UpdatePayRunRequest) (payrun.PayRunResponse, error)
	markPaidFn      func(ctx context.Context, schoolID, actorID, payRunID string) (payrun.PayRunResponse, error)
	deleteDraftFn   func(ctx context.Context, schoolID, payRunID string) error
}

func (f *fakePayRunService) Generate(ctx context.Context, schoolID, actorID string, req payrun.GeneratePayRunsRequest) (payrun.GeneratePayRunsResponse, error) {
	return f.generateFn(ctx, schoolID, actorID, req)
}

func (f *fakePayRunService) Pending(ctx context.Context, schoolID string, req payrun.PendingPeriodRequest) ([]payrun.PendingEmployeeResponse, error) {
	return f.pendingFn(ctx, schoolID, req)
}

func (f *fakePayRunService) GetAll(ctx context.Context, schoolID string, filter payrun.ListPayRunsFilterRequest) ([]payrun.PayRunResponse, error) {
	return f.getAllFn(ctx, schoolID, filter)
}

func (f *fakePayRunService) GetByEmployee(ctx context.Context, schoolID, employeeID string) ([]payrun.PayRunResponse, error) {
	return f.getByEmployeeFn(ctx, schoolID, employeeID)
}

func (f *fakePayRunService) GetDetail(ctx context.Context, schoolID, payRunID string) (payrun.PayRunDetailResponse, error) {
	return f.getDetailFn(ctx, schoolID, payRunID)
}

func (f *fakePayRunService) Update(ctx context.Context, schoolID, payRunID string, req payrun.UpdatePayRunRequest) (payrun.PayRunResponse, error) {
	return f.updateFn(ctx, schoolID, payRunID, req)
}

func (f *fakePayRunService) MarkPaid(ctx context.Context, schoolID, actorID, payRunID string) (payrun.PayRunResponse, error) {
	return f.markPaidFn(ctx, schoolID, actorID, payRunID)
}

func (f *fakePayRunService) DeleteDraft(ctx context.Context, schoolID, payRunID string) error {
	return f.deleteDraftFn(ctx, schoolID, payRunID)
}

func TestPayRunHandler_Generate(t *testing.T) {
	schoolID := uuid.New().String()
	actorID := uuid.New().String()
	employeeID := uuid.New().String()

	svc := &fakePayRunService{
		generateFn: func(ctx context.Context, sid, aid string, req payrun.GeneratePayRunsRequest) (payrun.GeneratePayRunsResponse, error) {
			assert.Equal(t, schoolID, sid)
			assert.Equal(t, actorID, aid)
			assert.Equal(t, 2, req.Month)
			assert.Equal(t, 2026, req.Year)
			assert.Equal(t, []string{employeeID}, req.EmployeeIDs)
			return payrun.GeneratePayRunsResponse{
				Succeeded: []payrun.PayRunResponse{{
					ID:         uuid.New().String(),
					EmployeeID: employeeID,
					Status:     payrun.StatusProcessed,
				}},
				Failed: []payrun.GenerateFailure{},
			}, nil
		},
	}

	h := payrun.NewHandler(svc)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	body := `{"month":2,"year":2026,"employee_ids":["` + employeeID + `"]}`
	c.Request = httptest.NewRequest(http.MethodPost, "/pay-runs/generate", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set("school_id", schoolID)
	c.Set("actor_id", actorID)

	h.Generate(c)

	assert.Equal(t, http.StatusOK, w.Code)
	env := mustDecodeEnvelope(t, w.Body.Bytes())
	assert.True(t, env.Ok)

	var resp payrun.GeneratePayRunsResponse
	assert.NoError(t, json.Unmarshal(env.Data, &resp))
	assert.Len(t, resp.Succeeded, 1)
	assert.Empty(t, resp.Failed)
}

func TestPayRunHandler_Generate_BindError(t *testing.T) {
	svc := &fakePayRunService{}

	h := payrun.NewHandler(svc)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	body := `{"month":2,"year":2026,"employee_ids":[]}`
	c.Request = httptest.NewRequest(http.MethodPost, "/pay-runs/generate", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set("school_id", uuid.New().String())

	h.Generate(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	env := mustDecodeEnvelope(t, w.Body.Bytes())
	assert.False(t, env.Ok)
	assert.NotNil(t, env.Error)
}

func TestPayRunHandler_Pending(t *testing.T) {
	schoolID := uuid.New().String()
	employeeID := uuid.New().String()

	svc := &fakePayRunService{
		pendingFn: func(ctx context.Context, sid string, req payrun.PendingPeriodRequest) ([]payrun.PendingEmployeeResponse, error) {
			assert.Equal(t, 2, req.Month)
			assert.Equal(t, 2026, req.Year)
			return []payrun.PendingEmployeeResponse{{EmployeeID: employeeID, TotalWorkingDays: 22}}, nil
		},
	}

	h := payrun.NewHandler(svc)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	c.Request = httptest.NewRequest(http.MethodGet, "/pay-runs/pending?month=2&year=2026", nil)
	c.Set("school_id", schoolID)

	h.Pending(c)

	assert.Equal(t, http.StatusOK, w.Code)
	env := mustDecodeEnvelope(t, w.Body.Bytes())
	assert.True(t, env.Ok)
}

func TestPayRunHandler_GetAll_Pagination(t *testing.T) {
	svc := &fakePayRunService{
		getAllFn: func(ctx context.Context, schoolID string, filter payrun.ListPayRunsFilterRequest) ([]payrun.PayRunResponse, error) {
			return []payrun.PayRunResponse{
				{ID: uuid.New().String()},
				{ID: uuid.New().String()},
				{ID: uuid.New().String()},
			}, nil
		},
	}

	h := payrun.NewHandler(svc)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	c.Request = httptest.NewRequest(http.MethodGet, "/pay-runs?page=2&page_size=2", nil)
	c.Set("school_id", uuid.New().String())

	h.GetAll(c)

	assert.Equal(t, http.StatusOK, w.Code)
	env := mustDecodeEnvelope(t, w.Body.Bytes())
	assert.True(t, env.Ok)

	var resp []payrun.PayRunResponse
	assert.NoError(t, json.Unmarshal(env.Data, &resp))
	assert.Len(t, resp, 1)
}

func TestPayRunHandler_GetDetail_NotFound(t *testing.T) {
	svc := &fakePayRunService{
		getDetailFn: func(ctx context.Context, schoolID, payRunID string) (payrun.PayRunDetailResponse, error) {
			return payrun.PayRunDetailResponse{}, payrunerrors.ErrPayRunNotFound
		},
	}

	h := payrun.NewHandler(svc)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	c.Request = httptest.NewRequest(http.MethodGet, "/pay-runs/"+uuid.New().String(), nil)
	c.Params = []gin.Param{{Key: "id", Value: uuid.New().String()}}
	c.Set("school_id", uuid.New().String())

	h.GetDetail(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
	env := mustDecodeEnvelope(t, w.Body.Bytes())
	assert.False(t, env.Ok)
	assert.Equal(t, "NOT_FOUND", env.Error.Code)
}

func TestPayRunHandler_MarkPaid_InvalidState(t *testing.T) {
	svc := &fakePayRunService{
		markPaidFn: func(ctx context.Context, schoolID, actorID, payRunID string) (payrun.PayRunResponse, error) {
			return payrun.PayRunResponse{}, payrunerrors.ErrMarkPaidOnlyProcessed
		},
	}

	h := payrun.NewHandler(svc)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	c.Request = httptest.NewRequest(http.MethodPost, "/pay-runs/123/mark-paid", nil)
	c.Params = []gin.Param{{Key: "id", Value: "123"}}
	c.Set("school_id", uuid.New().String())
	c.Set("actor_id", uuid.New().String())

	h.MarkPaid(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	env := mustDecodeEnvelope(t, w.Body.Bytes())
	assert.False(t, env.Ok)
	assert.Equal(t, "INVALID_STATE", env.Error.Code)
}

func TestPayRunHandler_Delete(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		svc := &fakePayRunService{
			deleteDraftFn: func(ctx context.Context, schoolID, payRunID string) error {
				return nil
			},
		}

		h := payrun.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)

		c.Request = httptest.NewRequest(http.MethodDelete, "/pay-runs/123", nil)
		c.Params = []gin.Param{{Key: "id", Value: "123"}}
		c.Set("school_id", uuid.New().String())

		h.Delete(c)

		assert.Equal(t, http.StatusNoContent, w.Code)
	})

	t.Run("non-draft conflict", func(t *testing.T) {
		svc := &fakePayRunService{
			deleteDraftFn: func(ctx context.Context, schoolID, payRunID string) error {
				return payrunerrors.ErrDeleteOnlyDraft
			},
		}

		h := payrun.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)

		c.Request = httptest.NewRequest(http.MethodDelete, "/pay-runs/123", nil)
		c.Params = []gin.Param{{Key: "id", Value: "123"}}
		c.Set("school_id", uuid.New().String())

		h.Delete(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		env := mustDecodeEnvelope(t, w.Body.Bytes())
		assert.False(t, env.Ok)
	})
}
