package jobs

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"talentflow-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches job routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/jobs", h.list)
	rg.GET("/jobs/:id", h.get)
	rg.POST("/jobs", h.create)
	rg.PATCH("/jobs/:id", h.update)
	rg.PATCH("/jobs/:id/reorder", h.reorder)
}

func (h *Handler) list(c *gin.Context) {
	q := ListQuery{
		Search: c.Query("search"),
		Status: c.Query("status"),
		Sort:   c.Query("sort"),
	}
	var ok bool
	if q.Page, ok = h.intQuery(c, "page", 1); !ok {
		return
	}
	if q.PageSize, ok = h.intQuery(c, "pageSize", 0); !ok {
		return
	}

	page, err := h.Svc.List(c.Request.Context(), q)
	if err != nil {
		h.writeError(c, err, "failed to list jobs")
		return
	}
	respond.OK(c, page)
}

func (h *Handler) get(c *gin.Context) {
	id, ok := h.jobID(c)
	if !ok {
		return
	}
	job, err := h.Svc.Get(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err, "failed to fetch job")
		return
	}
	respond.OK(c, job)
}

func (h *Handler) create(c *gin.Context) {
	var input CreateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respond.Error(c, http.StatusBadRequest, respond.CodeValidation, "invalid request body", nil)
		return
	}
	job, err := h.Svc.Create(c.Request.Context(), input)
	if err != nil {
		h.writeError(c, err, "failed to create job")
		return
	}
	c.Set("jobId", job.ID)
	respond.Created(c, job)
}

func (h *Handler) update(c *gin.Context) {
	id, ok := h.jobID(c)
	if !ok {
		return
	}
	var input UpdateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respond.Error(c, http.StatusBadRequest, respond.CodeValidation, "invalid request body", nil)
		return
	}
	job, err := h.Svc.Update(c.Request.Context(), id, input)
	if err != nil {
		h.writeError(c, err, "failed to update job")
		return
	}
	c.Set("jobId", job.ID)
	respond.OK(c, job)
}

type reorderRequest struct {
	FromOrder int `json:"fromOrder"`
	ToOrder   int `json:"toOrder"`
}

func (h *Handler) reorder(c *gin.Context) {
	id, ok := h.jobID(c)
	if !ok {
		return
	}
	var req reorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, respond.CodeValidation, "invalid request body", nil)
		return
	}
	job, err := h.Svc.Reorder(c.Request.Context(), id, req.FromOrder, req.ToOrder)
	if err != nil {
		h.writeError(c, err, "failed to reorder job")
		return
	}
	c.Set("jobId", job.ID)
	respond.OK(c, job)
}

func (h *Handler) jobID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		respond.Error(c, http.StatusBadRequest, respond.CodeValidation, "id must be a positive integer", nil)
		return 0, false
	}
	return id, true
}

func (h *Handler) intQuery(c *gin.Context, name string, fallback int) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return fallback, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		respond.Error(c, http.StatusBadRequest, respond.CodeValidation, name+" must be a non-negative integer", nil)
		return 0, false
	}
	return v, true
}

func (h *Handler) writeError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, respond.CodeNotFound, "job not found", nil)
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, respond.CodeValidation, err.Error(), nil)
	default:
		respond.Error(c, http.StatusInternalServerError, respond.CodeInternal, fallback, nil)
	}
}
