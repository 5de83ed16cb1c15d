package wiki

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/howscary-backend/internal/domain/wiki"
	"github.com/yungbote/howscary-backend/internal/platform/logger"
)

type UserRepo interface {
	GetOrCreateByExternalUID(ctx context.Context, tx *gorm.DB, externalUID, email, displayName string) (*types.User, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.User, error)
	SetRole(ctx context.Context, tx *gorm.DB, id uuid.UUID, role types.Role) error
	List(ctx context.Context, tx *gorm.DB, filter UserFilter) ([]*types.User, int64, error)
}

// UserFilter pages the admin user listing. Search matches email or display name.
type UserFilter struct {
	Search string
	Role   types.Role
	Offset int
	Limit  int
}

type userRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo {
	repoLog := baseLog.With("repo", "UserRepo")
	return &userRepo{db: db, log: repoLog}
}

func (ur *userRepo) GetOrCreateByExternalUID(ctx context.Context, tx *gorm.DB, externalUID, email, displayName string) (*types.User, error) {
	transaction := tx
	if transaction == nil {
		transaction = ur.db
	}
	if externalUID == "" {
		return nil, fmt.Errorf("external uid required")
	}
	u := &types.User{ExternalUID: externalUID, Email: email, DisplayName: displayName, Role: types.RoleUser}
	if err := transaction.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "external_uid"}}, DoNothing: true}).
		Create(u).Error; err != nil {
		return nil, err
	}
	var found types.User
	if err := transaction.WithContext(ctx).Where("external_uid = ?", externalUID).First(&found).Error; err != nil {
		return nil, err
	}
	return &found, nil
}

func (ur *userRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.User, error) {
	transaction := tx
	if transaction == nil {
		transaction = ur.db
	}
	var rows []*types.User
	if err := transaction.WithContext(ctx).Where("id = ?", id).Limit(1).Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (ur *userRepo) SetRole(ctx context.Context, tx *gorm.DB, id uuid.UUID, role types.Role) error {
	transaction := tx
	if transaction == nil {
		transaction = ur.db
	}
	return transaction.WithContext(ctx).Model(&types.User{}).Where("id = ?", id).Update("role", role).Error
}

// List returns one page of users, newest first, plus the total matching count.
func (ur *userRepo) List(ctx context.Context, tx *gorm.DB, filter UserFilter) ([]*types.User, int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = ur.db
	}
	filtered := func() *gorm.DB {
		q := transaction.WithContext(ctx).Model(&types.User{})
		if s := strings.ToLower(strings.TrimSpace(filter.Search)); s != "" {
			like := "%" + s + "%"
			q = q.Where("LOWER(email) LIKE ? OR LOWER(display_name) LIKE ?", like, like)
		}
		if filter.Role != "" {
			q = q.Where("role = ?", filter.Role)
		}
		return q
	}
	var total int64
	if err := filtered().Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var out []*types.User
	if err := filtered().Order("created_at DESC").Offset(filter.Offset).Limit(filter.Limit).Find(&out).Error; err != nil {
		return nil, 0, err
	}
	return out, total, nil
}
