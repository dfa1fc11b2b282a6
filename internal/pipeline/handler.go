package pipeline

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"talentflow-backend/internal/candidates"
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

// RegisterRoutes attaches pipeline routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/pipeline/board", h.board)
	rg.POST("/pipeline/drag", h.drag)
}

func (h *Handler) board(c *gin.Context) {
	filter := candidates.Filter{Search: c.Query("search")}
	if raw := c.Query("jobId"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			respond.Error(c, http.StatusBadRequest, respond.CodeValidation, "jobId must be an integer", nil)
			return
		}
		filter.JobID = parsed
	}

	board, err := h.Svc.Board(c.Request.Context(), filter)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, respond.CodeInternal, "failed to build board", nil)
		return
	}
	respond.OK(c, board)
}

type dragRequest struct {
	CandidateID int64  `json:"candidateId"`
	Target      string `json:"target"`
}

func (h *Handler) drag(c *gin.Context) {
	var req dragRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, respond.CodeValidation, "invalid request body", nil)
		return
	}
	if req.CandidateID <= 0 {
		respond.Error(c, http.StatusBadRequest, respond.CodeValidation, "candidateId is required", nil)
		return
	}

	candidate, moved, err := h.Svc.Drag(c.Request.Context(), req.CandidateID, req.Target)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.Set("candidateId", candidate.ID)
	if moved {
		c.Set("stageTransition", candidate.Stage)
	}
	respond.OK(c, gin.H{"candidate": candidate, "moved": moved})
}

func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, candidates.ErrNotFound):
		respond.Error(c, http.StatusNotFound, respond.CodeNotFound, err.Error(), nil)
	case errors.Is(err, candidates.ErrInvalidInput), errors.Is(err, stage.ErrUnknownStage):
		respond.Error(c, http.StatusBadRequest, respond.CodeValidation, err.Error(), nil)
	default:
		respond.Error(c, http.StatusInternalServerError, respond.CodeInternal, "failed to apply drag", nil)
	}
}
