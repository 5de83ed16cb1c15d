package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	types "github.com/yungbote/howscary-backend/internal/domain/wiki"
	httpMW "github.com/yungbote/howscary-backend/internal/http/middleware"
	"github.com/yungbote/howscary-backend/internal/http/response"
	"github.com/yungbote/howscary-backend/internal/modules/wiki"
	"github.com/yungbote/howscary-backend/internal/platform/logger"
)

type AdminService interface {
	ListUsers(ctx context.Context, admin *types.User, in wiki.ListUsersInput) (wiki.UserPage, error)
	SetUserRole(ctx context.Context, admin *types.User, userID uuid.UUID, role string) (*types.User, error)
}

type AdminHandler struct {
	log *logger.Logger
	svc AdminService
}

func NewAdminHandler(log *logger.Logger, svc AdminService) *AdminHandler {
	return &AdminHandler{log: log.With("handler", "AdminHandler"), svc: svc}
}

// adminUserView exposes the email that the public user JSON hides.
type adminUserView struct {
	ID          string     `json:"id"`
	Email       string     `json:"email"`
	DisplayName string     `json:"name"`
	Role        types.Role `json:"role"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

func newAdminUserView(u *types.User) adminUserView {
	return adminUserView{
		ID:          u.ID.String(),
		Email:       u.Email,
		DisplayName: u.DisplayName,
		Role:        u.Role,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

// GET /api/admin/users?page=&limit=&search=&role=
func (h *AdminHandler) ListUsers(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	out, err := h.svc.ListUsers(c.Request.Context(), httpMW.CurrentUser(c), wiki.ListUsersInput{
		Page:   page,
		Limit:  limit,
		Search: c.Query("search"),
		Role:   c.Query("role"),
	})
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	users := make([]adminUserView, 0, len(out.Users))
	for _, u := range out.Users {
		users = append(users, newAdminUserView(u))
	}
	response.RespondOK(c, gin.H{
		"users": users,
		"pagination": gin.H{
			"total":      out.Total,
			"page":       out.Page,
			"limit":      out.Limit,
			"totalPages": out.TotalPages,
		},
	})
}

type roleRequest struct {
	Role string `json:"role"`
}

// PATCH /api/admin/users/:id
func (h *AdminHandler) SetRole(c *gin.Context) {
	userID, err := uuid.Parse(trimmed(c.Param("id")))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "bad_request", errMsg("user id must be a uuid"))
		return
	}
	var req roleRequest
	if err := c.ShouldBindJSON(&req); err != nil || trimmed(req.Role) == "" {
		response.RespondError(c, http.StatusBadRequest, "bad_request", errMsg("role is required"))
		return
	}
	u, err := h.svc.SetUserRole(c.Request.Context(), httpMW.CurrentUser(c), userID, req.Role)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"user": newAdminUserView(u)})
}
