package payrun

import (
	"net/http"
	"strconv"

	"school-payroll/internal/shared/apperror"
	"school-payroll/internal/shared/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) writeBindError(c *gin.Context, err error) {
	mapped := apperror.ToHTTP(apperror.MapValidationError(err))
	response.Error(c, mapped.Status, mapped.Code, mapped.Message, err.Error())
}

// Generate always answers 200 when the batch itself ran: per-employee
// outcomes live in the succeeded/failed lists of the body.
func (h *Handler) Generate(c *gin.Context) {
	schoolID := c.GetString("school_id")
	actorID := c.GetString("actor_id")

	var req GeneratePayRunsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeBindError(c, err)
		return
	}

	resp, err := h.service.Generate(c.Request.Context(), schoolID, actorID, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Pending(c *gin.Context) {
	schoolID := c.GetString("school_id")

	var req PendingPeriodRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.writeBindError(c, err)
		return
	}

	resp, err := h.service.Pending(c.Request.Context(), schoolID, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) GetAll(c *gin.Context) {
	schoolID := c.GetString("school_id")

	var filter ListPayRunsFilterRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.writeBindError(c, err)
		return
	}

	resp, err := h.service.GetAll(c.Request.Context(), schoolID, filter)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))
	if pageSize < 1 {
		pageSize = 10
	}

	total := int64(len(resp))
	start := (page - 1) * pageSize
	end := start + pageSize
	if start > len(resp) {
		start = len(resp)
	}
	if end > len(resp) {
		end = len(resp)
	}

	meta := response.NewPaginationMeta(total, page, pageSize)
	response.Success(c, http.StatusOK, resp[start:end], &meta)
}

func (h *Handler) GetByEmployee(c *gin.Context) {
	schoolID := c.GetString("school_id")
	employeeID := c.Param("employeeId")

	resp, err := h.service.GetByEmployee(c.Request.Context(), schoolID, employeeID)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) GetDetail(c *gin.Context) {
	schoolID := c.GetString("school_id")
	payRunID := c.Param("id")

	resp, err := h.service.GetDetail(c.Request.Context(), schoolID, payRunID)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Update(c *gin.Context) {
	schoolID := c.GetString("school_id")
	payRunID := c.Param("id")

	var req UpdatePayRunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeBindError(c, err)
		return
	}

	resp, err := h.service.Update(c.Request.Context(), schoolID, payRunID, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) MarkPaid(c *gin.Context) {
	schoolID := c.GetString("school_id")
	actorID := c.GetString("actor_id")
	payRunID := c.Param("id")

	resp, err := h.service.MarkPaid(c.Request.Context(), schoolID, actorID, payRunID)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Delete(c *gin.Context) {
	schoolID := c.GetString("school_id")
	payRunID := c.Param("id")

	if err := h.service.DeleteDraft(c.Request.Context(), schoolID, payRunID); err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusNoContent, nil, nil)
}
