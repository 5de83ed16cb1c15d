package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	types "github.com/yungbote/howscary-backend/internal/domain/wiki"
	httpMW "github.com/yungbote/howscary-backend/internal/http/middleware"
	"github.com/yungbote/howscary-backend/internal/http/response"
	"github.com/yungbote/howscary-backend/internal/modules/wiki"
	"github.com/yungbote/howscary-backend/internal/platform/logger"
)

type ModeratorService interface {
	TriggerIntegration(ctx context.Context, moderator *types.User, slugOrID, key, id string) ([]string, error)
	RegenerateAnalysis(ctx context.Context, moderator *types.User, slugOrID string) (*types.ScaryEntity, error)
	EditSummary(ctx context.Context, moderator *types.User, slugOrID string, in wiki.EditSummaryInput) (*types.ScaryEntity, error)
	UpdateMetadata(ctx context.Context, moderator *types.User, slugOrID string, patch wiki.MetadataPatch) (*types.ScaryEntity, error)
}

type ModeratorHandler struct {
	log *logger.Logger
	svc ModeratorService
}

func NewModeratorHandler(log *logger.Logger, svc ModeratorService) *ModeratorHandler {
	return &ModeratorHandler{log: log.With("handler", "ModeratorHandler"), svc: svc}
}

type triggerRequest struct {
	IntegrationKey string `json:"integrationKey"`
	IntegrationID  string `json:"integrationId"`
}

// POST /api/moderator/entities/:key/integrations
func (h *ModeratorHandler) TriggerIntegration(c *gin.Context) {
	var req triggerRequest
	if err := c.ShouldBindJSON(&req); err != nil || trimmed(req.IntegrationKey) == "" {
		response.RespondError(c, http.StatusBadRequest, "bad_request", errMsg("integrationKey is required"))
		return
	}
	applied, err := h.svc.TriggerIntegration(c.Request.Context(), httpMW.CurrentUser(c), c.Param("key"), req.IntegrationKey, req.IntegrationID)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"success": true, "applied": applied})
}

// POST /api/moderator/entities/:key/regenerate
func (h *ModeratorHandler) Regenerate(c *gin.Context) {
	e, err := h.svc.RegenerateAnalysis(c.Request.Context(), httpMW.CurrentUser(c), c.Param("key"))
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondAccepted(c, gin.H{"status": string(wiki.StatusGenerating), "entity": newEntityView(e)})
}

type summaryRequest struct {
	WhyScary        *string        `json:"whyScary"`
	DimensionScores map[string]int `json:"dimensionScores"`
}

// PUT /api/moderator/entities/:key/summary
func (h *ModeratorHandler) EditSummary(c *gin.Context) {
	var req summaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "bad_request", errMsg("invalid request body"))
		return
	}
	e, err := h.svc.EditSummary(c.Request.Context(), httpMW.CurrentUser(c), c.Param("key"), wiki.EditSummaryInput{
		WhyScary: req.WhyScary,
		Scores:   req.DimensionScores,
	})
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"entity": newEntityView(e), "analysis": newAnalysisView(e.Analysis)})
}

type metadataRequest struct {
	Description *string `json:"description"`
	PosterURL   *string `json:"posterUrl"`
	ImageURL    *string `json:"imageUrl"`
}

// PATCH /api/moderator/entities/:key
func (h *ModeratorHandler) UpdateMetadata(c *gin.Context) {
	var req metadataRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "bad_request", errMsg("invalid request body"))
		return
	}
	e, err := h.svc.UpdateMetadata(c.Request.Context(), httpMW.CurrentUser(c), c.Param("key"), wiki.MetadataPatch{
		Description: req.Description,
		PosterURL:   req.PosterURL,
		ImageURL:    req.ImageURL,
	})
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"entity": newEntityView(e)})
}
