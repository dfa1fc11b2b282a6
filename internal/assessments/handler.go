package assessments

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

// RegisterRoutes attaches assessment routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/assessments/:jobId", h.get)
	rg.PUT("/assessments/:jobId", h.save)
	rg.POST("/assessments/:jobId/launch", h.launch)
	rg.POST("/assessments/:jobId/submit", h.submit)
	rg.GET("/assessments/:jobId/responses", h.responses)
}

func (h *Handler) get(c *gin.Context) {
	jobID, ok := h.jobID(c)
	if !ok {
		return
	}
	assessment, err := h.Svc.Get(c.Request.Context(), jobID)
	if err != nil {
		h.writeError(c, err, "failed to fetch assessment")
		return
	}
	respond.OK(c, assessment)
}

func (h *Handler) save(c *gin.Context) {
	jobID, ok := h.jobID(c)
	if !ok {
		return
	}
	var input SaveInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respond.Error(c, http.StatusBadRequest, respond.CodeValidation, "invalid request body", nil)
		return
	}
	assessment, err := h.Svc.Save(c.Request.Context(), jobID, input)
	if err != nil {
		h.writeError(c, err, "failed to save assessment")
		return
	}
	c.Set("jobId", jobID)
	respond.OK(c, assessment)
}

func (h *Handler) launch(c *gin.Context) {
	jobID, ok := h.jobID(c)
	if !ok {
		return
	}
	assessment, err := h.Svc.Launch(c.Request.Context(), jobID)
	if err != nil {
		h.writeError(c, err, "failed to launch assessment")
		return
	}
	c.Set("jobId", jobID)
	respond.OK(c, assessment)
}

func (h *Handler) submit(c *gin.Context) {
	jobID, ok := h.jobID(c)
	if !ok {
		return
	}
	var input SubmitInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respond.Error(c, http.StatusBadRequest, respond.CodeValidation, "invalid request body", nil)
		return
	}
	response, err := h.Svc.Submit(c.Request.Context(), jobID, input)
	if err != nil {
		h.writeError(c, err, "failed to submit assessment")
		return
	}
	c.Set("jobId", jobID)
	c.Set("candidateId", response.CandidateID)
	respond.Created(c, response)
}

func (h *Handler) responses(c *gin.Context) {
	jobID, ok := h.jobID(c)
	if !ok {
		return
	}
	list, err := h.Svc.Responses(c.Request.Context(), jobID)
	if err != nil {
		h.writeError(c, err, "failed to list responses")
		return
	}
	respond.OK(c, gin.H{"responses": list})
}

func (h *Handler) jobID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("jobId"), 10, 64)
	if err != nil || id <= 0 {
		respond.Error(c, http.StatusBadRequest, respond.CodeValidation, "jobId must be a positive integer", nil)
		return 0, false
	}
	return id, true
}

func (h *Handler) writeError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, respond.CodeNotFound, "assessment not found", nil)
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, respond.CodeValidation, err.Error(), nil)
	default:
		respond.Error(c, http.StatusInternalServerError, respond.CodeInternal, fallback, nil)
	}
}
