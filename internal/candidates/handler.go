package candidates

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"talentflow-backend/internal/shared/server/respond"
	"talentflow-backend/internal/stage"
)

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches candidate routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/candidates", h.list)
	rg.GET("/candidates/stats", h.stats)
	rg.GET("/candidates/:id", h.get)
	rg.POST("/candidates", h.create)
	rg.PATCH("/candidates/bulk", h.bulkUpdate)
	rg.PATCH("/candidates/:id", h.update)
	rg.DELETE("/candidates/:id", h.remove)
	rg.GET("/candidates/:id/timeline", h.timeline)
	rg.POST("/candidates/:id/advance", h.advance)
}

func (h *Handler) list(c *gin.Context) {
	filter := Filter{Search: c.Query("search")}
	if raw := c.Query("jobId"); raw != "" {
		jobID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			respond.Error(c, http.StatusBadRequest, respond.CodeValidation, "jobId must be an integer", nil)
			return
		}
		filter.JobID = jobID
	}

	list, err := h.Svc.List(c.Request.Context(), filter, c.Query("stage"))
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, respond.CodeInternal, "failed to list candidates", nil)
		return
	}
	respond.OK(c, gin.H{"candidates": list})
}

func (h *Handler) stats(c *gin.Context) {
	stats, err := h.Svc.Stats(c.Request.Context())
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, respond.CodeInternal, "failed to compute stats", nil)
		return
	}
	respond.OK(c, stats)
}

func (h *Handler) get(c *gin.Context) {
	id, ok := h.candidateID(c)
	if !ok {
		return
	}
	candidate, err := h.Svc.Get(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err, "failed to fetch candidate")
		return
	}
	respond.OK(c, candidate)
}

func (h *Handler) create(c *gin.Context) {
	var input CreateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respond.Error(c, http.StatusBadRequest, respond.CodeValidation, "invalid request body", nil)
		return
	}
	candidate, err := h.Svc.Create(c.Request.Context(), input)
	if err != nil {
		h.writeError(c, err, "failed to create candidate")
		return
	}
	c.Set("candidateId", candidate.ID)
	respond.Created(c, candidate)
}

func (h *Handler) update(c *gin.Context) {
	id, ok := h.candidateID(c)
	if !ok {
		return
	}
	var input UpdateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respond.Error(c, http.StatusBadRequest, respond.CodeValidation, "invalid request body", nil)
		return
	}
	candidate, err := h.Svc.Update(c.Request.Context(), id, input)
	if err != nil {
		h.writeError(c, err, "failed to update candidate")
		return
	}
	c.Set("candidateId", candidate.ID)
	if input.Stage != nil {
		c.Set("stageTransition", candidate.Stage)
	}
	respond.OK(c, candidate)
}

func (h *Handler) remove(c *gin.Context) {
	id, ok := h.candidateID(c)
	if !ok {
		return
	}
	if err := h.Svc.Delete(c.Request.Context(), id); err != nil {
		h.writeError(c, err, "failed to delete candidate")
		return
	}
	respond.OK(c, gin.H{"message": "Candidate deleted successfully"})
}

type bulkUpdateRequest struct {
	CandidateIDs []int64     `json:"candidateIds"`
	Updates      UpdateInput `json:"updates"`
}

func (h *Handler) bulkUpdate(c *gin.Context) {
	var req bulkUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, respond.CodeValidation, "invalid request body", nil)
		return
	}
	if len(req.CandidateIDs) == 0 {
		respond.Error(c, http.StatusBadRequest, respond.CodeValidation, "candidateIds is required", nil)
		return
	}

	results := h.Svc.BulkUpdate(c.Request.Context(), req.CandidateIDs, req.Updates)
	successCount := 0
	for _, r := range results {
		if r.Success {
			successCount++
		}
	}
	respond.OK(c, gin.H{
		"results":      results,
		"successCount": successCount,
		"failureCount": len(results) - successCount,
	})
}

func (h *Handler) timeline(c *gin.Context) {
	id, ok := h.candidateID(c)
	if !ok {
		return
	}
	entries, err := h.Svc.Timeline(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err, "failed to fetch timeline")
		return
	}
	if entries == nil {
		entries = []TimelineEntry{}
	}
	respond.OK(c, entries)
}

type advanceRequest struct {
	CurrentStage string `json:"currentStage"`
	Notes        string `json:"notes"`
}

func (h *Handler) advance(c *gin.Context) {
	id, ok := h.candidateID(c)
	if !ok {
		return
	}
	var req advanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, respond.CodeValidation, "invalid request body", nil)
		return
	}
	candidate, err := h.Svc.MoveToNextStage(c.Request.Context(), id, req.CurrentStage, req.Notes)
	if err != nil {
		h.writeError(c, err, "failed to advance candidate")
		return
	}
	c.Set("candidateId", candidate.ID)
	c.Set("stageTransition", candidate.Stage)
	respond.OK(c, candidate)
}

func (h *Handler) candidateID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		respond.Error(c, http.StatusBadRequest, respond.CodeValidation, "id must be a positive integer", nil)
		return 0, false
	}
	return id, true
}

func (h *Handler) writeError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, respond.CodeNotFound, "candidate not found", nil)
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, respond.CodeValidation, err.Error(), nil)
	case errors.Is(err, stage.ErrFinalStage):
		respond.Error(c, http.StatusBadRequest, respond.CodeValidation, "candidate is already at the final stage", nil)
	case errors.Is(err, stage.ErrUnknownStage):
		respond.Error(c, http.StatusBadRequest, respond.CodeValidation, err.Error(), nil)
	default:
		respond.Error(c, http.StatusInternalServerError, respond.CodeInternal, fallback, nil)
	}
}
