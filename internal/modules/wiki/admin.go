package wiki

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/yungbote/howscary-backend/internal/data/repos"
	types "github.com/yungbote/howscary-backend/internal/domain/wiki"
)

const (
	defaultUserPageSize = 20
	maxUserPageSize     = 100
)

func requireAdmin(op string, user *types.User) error {
	if user == nil || user.Role != types.RoleAdmin {
		return types.NewError(types.CodeForbidden, op, "admin role required", nil)
	}
	return nil
}

type ListUsersInput struct {
	Page   int
	Limit  int
	Search string
	Role   string
}

type UserPage struct {
	Users      []*types.User
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

func (u Usecases) ListUsers(ctx context.Context, admin *types.User, in ListUsersInput) (UserPage, error) {
	const op = "list users"
	if err := requireAdmin(op, admin); err != nil {
		return UserPage{}, err
	}
	page, limit := in.Page, in.Limit
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = defaultUserPageSize
	}
	if limit > maxUserPageSize {
		limit = maxUserPageSize
	}
	filter := repos.UserFilter{Search: in.Search, Offset: (page - 1) * limit, Limit: limit}
	if r := types.Role(strings.TrimSpace(in.Role)); r.Valid() {
		filter.Role = r
	}
	users, total, err := u.deps.Users.List(ctx, nil, filter)
	if err != nil {
		return UserPage{}, types.Wrap(types.CodeInternal, op, err)
	}
	return UserPage{
		Users:      users,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: int((total + int64(limit) - 1) / int64(limit)),
	}, nil
}

// SetUserRole changes another account's role. Admins cannot demote themselves.
func (u Usecases) SetUserRole(ctx context.Context, admin *types.User, userID uuid.UUID, role string) (*types.User, error) {
	const op = "set user role"
	if err := requireAdmin(op, admin); err != nil {
		return nil, err
	}
	r := types.Role(strings.TrimSpace(role))
	if userID == uuid.Nil || !r.Valid() {
		return nil, types.NewError(types.CodeValidation, op, "userId and a valid role are required", nil)
	}
	if userID == admin.ID && r != types.RoleAdmin {
		return nil, types.NewError(types.CodeValidation, op, "cannot remove your own admin role", nil)
	}
	target, err := u.deps.Users.GetByID(ctx, nil, userID)
	if err != nil {
		return nil, types.Wrap(types.CodeInternal, op, err)
	}
	if target == nil {
		return nil, types.NewError(types.CodeNotFound, op, "user not found", nil)
	}
	previous := target.Role
	if err := u.deps.Users.SetRole(ctx, nil, userID, r); err != nil {
		return nil, types.Wrap(types.CodeInternal, op, err)
	}
	target.Role = r
	u.deps.Log.Info("User role changed", "user", userID.String(), "from", string(previous), "to", string(r), "admin", admin.ID.String())
	return target, nil
}
