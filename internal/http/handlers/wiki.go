package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	types "github.com/yungbote/howscary-backend/internal/domain/wiki"
	httpMW "github.com/yungbote/howscary-backend/internal/http/middleware"
	"github.com/yungbote/howscary-backend/internal/http/response"
	"github.com/yungbote/howscary-backend/internal/modules/wiki"
	"github.com/yungbote/howscary-backend/internal/platform/logger"
)

// WikiService is the slice of wiki.Usecases the public handlers use.
type WikiService interface {
	Create(ctx context.Context, in wiki.CreateEntityInput) (wiki.CreateEntityOutput, error)
	Lookup(ctx context.Context, key string) (wiki.LookupOutput, error)
	Status(ctx context.Context, externalID string) (wiki.EntityStatus, error)
	Search(ctx context.Context, query string) ([]wiki.SearchResult, error)
	KnowledgeGraphEntity(ctx context.Context, id string) (*types.Candidate, error)
	Rate(ctx context.Context, user *types.User, in wiki.RateInput) ([]*types.ScaryRating, error)
	UserRatings(ctx context.Context, user *types.User, entityID uuid.UUID) ([]types.UserRating, error)
	CreateReview(ctx context.Context, user *types.User, in wiki.ReviewInput) (*types.Review, error)
	ListReviews(ctx context.Context, entityID uuid.UUID) ([]*types.Review, error)
}

type WikiHandler struct {
	log  *logger.Logger
	wiki WikiService
}

func NewWikiHandler(log *logger.Logger, svc WikiService) *WikiHandler {
	return &WikiHandler{log: log.With("handler", "WikiHandler"), wiki: svc}
}

// GET /api/search?query=
func (h *WikiHandler) Search(c *gin.Context) {
	q := trimmed(c.Query("query"))
	if q == "" {
		response.RespondError(c, http.StatusBadRequest, "bad_request", errMsg("query parameter is required"))
		return
	}
	results, err := h.wiki.Search(c.Request.Context(), q)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"results": results})
}

// GET /api/wiki/:key
func (h *WikiHandler) Get(c *gin.Context) {
	out, err := h.wiki.Lookup(c.Request.Context(), c.Param("key"))
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	if out.Status != wiki.StatusReady {
		response.RespondAccepted(c, gin.H{
			"exists":       true,
			"isGenerating": out.Entity.IsGenerating,
			"hasAnalysis":  false,
			"entity":       newEntityView(out.Entity),
		})
		return
	}
	var ratings any
	if out.Ratings != nil && out.Ratings.TotalRatings > 0 {
		ratings = out.Ratings
	}
	response.RespondOK(c, gin.H{
		"entity":      newEntityView(out.Entity),
		"analysis":    newAnalysisView(out.Entity.Analysis),
		"userRatings": ratings,
	})
}

type statusRequest struct {
	EntityID string `json:"entityId"`
}

// POST /api/entities/status
func (h *WikiHandler) Status(c *gin.Context) {
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil || trimmed(req.EntityID) == "" {
		response.RespondError(c, http.StatusBadRequest, "bad_request", errMsg("entityId is required"))
		return
	}
	st, err := h.wiki.Status(c.Request.Context(), req.EntityID)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, st)
}

type createRequest struct {
	EntityData *types.Candidate `json:"entityData"`
}

// POST /api/entities/create
func (h *WikiHandler) Create(c *gin.Context) {
	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.EntityData == nil || trimmed(req.EntityData.ID) == "" {
		response.RespondError(c, http.StatusBadRequest, "bad_request", errMsg("entityData with id is required"))
		return
	}
	in := wiki.CreateEntityInput{Candidate: *req.EntityData}
	if user := httpMW.CurrentUser(c); user != nil {
		in.UserID = &user.ID
	}
	out, err := h.wiki.Create(c.Request.Context(), in)
	if err != nil {
		if out.Status == wiki.StatusFailed {
			h.log.Error("Entity creation failed", "entity", in.Candidate.ID, "error", err)
		}
		response.RespondErr(c, err)
		return
	}
	switch out.Status {
	case wiki.StatusReady:
		response.RespondOK(c, gin.H{
			"entity":   newEntityView(out.Entity),
			"analysis": newAnalysisView(out.Entity.Analysis),
		})
	default:
		response.RespondAccepted(c, gin.H{
			"status":  string(wiki.StatusGenerating),
			"message": "Wiki page is being generated...",
		})
	}
}

type rateRequest struct {
	EntityID string `json:"entityId"`
	Ratings  []struct {
		DimensionID string  `json:"dimensionId"`
		Score       int     `json:"score"`
		Review      *string `json:"review"`
	} `json:"ratings"`
}

// POST /api/ratings
func (h *WikiHandler) Rate(c *gin.Context) {
	var req rateRequest
	if err := c.ShouldBindJSON(&req); err != nil || len(req.Ratings) == 0 {
		response.RespondError(c, http.StatusBadRequest, "bad_request", errMsg("entityId and ratings are required"))
		return
	}
	entityID, err := uuid.Parse(trimmed(req.EntityID))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "bad_request", errMsg("entityId must be a uuid"))
		return
	}
	in := wiki.RateInput{EntityID: entityID, Ratings: make([]wiki.RatingEntry, 0, len(req.Ratings))}
	for _, r := range req.Ratings {
		in.Ratings = append(in.Ratings, wiki.RatingEntry{DimensionSlug: r.DimensionID, Score: r.Score, Review: r.Review})
	}
	if _, err := h.wiki.Rate(c.Request.Context(), httpMW.CurrentUser(c), in); err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"success": true})
}

// GET /api/ratings/user?entityId=
func (h *WikiHandler) UserRatings(c *gin.Context) {
	entityID, ok := entityIDQuery(c)
	if !ok {
		return
	}
	ratings, err := h.wiki.UserRatings(c.Request.Context(), httpMW.CurrentUser(c), entityID)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ratings": ratings})
}

type reviewRequest struct {
	EntityID string `json:"entityId"`
	Content  string `json:"content"`
}

// POST /api/reviews
func (h *WikiHandler) CreateReview(c *gin.Context) {
	var req reviewRequest
	if err := c.ShouldBindJSON(&req); err != nil || trimmed(req.Content) == "" {
		response.RespondError(c, http.StatusBadRequest, "bad_request", errMsg("entityId and content are required"))
		return
	}
	entityID, err := uuid.Parse(trimmed(req.EntityID))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "bad_request", errMsg("entityId must be a uuid"))
		return
	}
	review, err := h.wiki.CreateReview(c.Request.Context(), httpMW.CurrentUser(c), wiki.ReviewInput{EntityID: entityID, Content: req.Content})
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"review": review})
}

// GET /api/reviews?entityId=
func (h *WikiHandler) ListReviews(c *gin.Context) {
	entityID, ok := entityIDQuery(c)
	if !ok {
		return
	}
	reviews, err := h.wiki.ListReviews(c.Request.Context(), entityID)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"reviews": reviews})
}

// GET /api/knowledge-graph/entity?id=
func (h *WikiHandler) KnowledgeGraphEntity(c *gin.Context) {
	id := trimmed(c.Query("id"))
	if id == "" {
		response.RespondError(c, http.StatusBadRequest, "bad_request", errMsg("id parameter is required"))
		return
	}
	entity, err := h.wiki.KnowledgeGraphEntity(c.Request.Context(), id)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"entity": entity})
}

func entityIDQuery(c *gin.Context) (uuid.UUID, bool) {
	raw := trimmed(c.Query("entityId"))
	if raw == "" {
		response.RespondError(c, http.StatusBadRequest, "bad_request", errMsg("entityId is required"))
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "bad_request", errMsg("entityId must be a uuid"))
		return uuid.Nil, false
	}
	return id, true
}

type errMsg string

func (e errMsg) Error() string { return string(e) }
