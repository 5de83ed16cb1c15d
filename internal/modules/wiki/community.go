package wiki

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/howscary-backend/internal/domain/wiki"
	"github.com/yungbote/howscary-backend/internal/platform/slug"
)

type RatingEntry struct {
	DimensionSlug string
	Score         int
	Review        *string
}

type RateInput struct {
	EntityID uuid.UUID
	Ratings  []RatingEntry
}

// Rate stores a user's scores for one entity. Every entry is validated and
// its dimension resolved before anything is written; the upserts then share
// one transaction so a bad entry leaves earlier ones unsaved.
func (u Usecases) Rate(ctx context.Context, user *types.User, in RateInput) ([]*types.ScaryRating, error) {
	const op = "rate"
	if user == nil {
		return nil, types.NewError(types.CodeForbidden, op, "authentication required", nil)
	}
	if in.EntityID == uuid.Nil || len(in.Ratings) == 0 {
		return nil, types.NewError(types.CodeValidation, op, "entityId and ratings are required", nil)
	}
	seen := make(map[string]bool, len(in.Ratings))
	for _, r := range in.Ratings {
		s := strings.TrimSpace(r.DimensionSlug)
		if s == "" {
			return nil, types.NewError(types.CodeValidation, op, "dimensionId is required", nil)
		}
		if !types.ValidScore(r.Score) {
			return nil, types.NewError(types.CodeValidation, op, fmt.Sprintf("score for %s must be between 1 and 10", s), nil)
		}
		if seen[s] {
			return nil, types.NewError(types.CodeValidation, op, "duplicate rating for "+s, nil)
		}
		seen[s] = true
	}

	e, err := u.deps.Entities.GetByID(ctx, nil, in.EntityID)
	if err != nil {
		return nil, types.Wrap(types.CodeInternal, op, err)
	}
	if e == nil {
		return nil, types.NewError(types.CodeNotFound, op, "entity not found", nil)
	}

	out := make([]*types.ScaryRating, 0, len(in.Ratings))
	for _, r := range in.Ratings {
		dim, err := u.deps.Dimensions.GetByName(ctx, nil, slug.DimensionName(strings.TrimSpace(r.DimensionSlug)))
		if err != nil {
			return nil, types.Wrap(types.CodeInternal, op, err)
		}
		if dim == nil {
			return nil, types.NewError(types.CodeNotFound, op, "dimension not found: "+r.DimensionSlug, nil)
		}
		out = append(out, &types.ScaryRating{
			EntityID:    e.ID,
			DimensionID: dim.ID,
			UserID:      user.ID,
			Score:       r.Score,
			Review:      r.Review,
		})
	}

	err = u.deps.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, rating := range out {
			if err := u.deps.Ratings.Upsert(ctx, tx, rating); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, types.Wrap(types.CodeInternal, op, err)
	}
	return out, nil
}

// UserRatings returns the caller's own scores for an entity.
func (u Usecases) UserRatings(ctx context.Context, user *types.User, entityID uuid.UUID) ([]types.UserRating, error) {
	const op = "user ratings"
	if user == nil {
		return nil, types.NewError(types.CodeForbidden, op, "authentication required", nil)
	}
	if entityID == uuid.Nil {
		return nil, types.NewError(types.CodeValidation, op, "entityId is required", nil)
	}
	out, err := u.deps.Ratings.ListForUser(ctx, nil, entityID, user.ID)
	if err != nil {
		return nil, types.Wrap(types.CodeInternal, op, err)
	}
	return out, nil
}

type ReviewInput struct {
	EntityID uuid.UUID
	Content  string
}

func (u Usecases) CreateReview(ctx context.Context, user *types.User, in ReviewInput) (*types.Review, error) {
	const op = "create review"
	if user == nil {
		return nil, types.NewError(types.CodeForbidden, op, "authentication required", nil)
	}
	content := strings.TrimSpace(in.Content)
	if in.EntityID == uuid.Nil || content == "" {
		return nil, types.NewError(types.CodeValidation, op, "entityId and content are required", nil)
	}
	if utf8.RuneCountInString(content) > types.MaxReviewLength {
		return nil, types.NewError(types.CodeValidation, op, fmt.Sprintf("content exceeds %d characters", types.MaxReviewLength), nil)
	}
	e, err := u.deps.Entities.GetByID(ctx, nil, in.EntityID)
	if err != nil {
		return nil, types.Wrap(types.CodeInternal, op, err)
	}
	if e == nil {
		return nil, types.NewError(types.CodeNotFound, op, "entity not found", nil)
	}
	review := &types.Review{EntityID: e.ID, UserID: user.ID, Content: content}
	if err := u.deps.Reviews.Create(ctx, nil, review); err != nil {
		return nil, types.Wrap(types.CodeInternal, op, err)
	}
	review.User = user
	return review, nil
}

// ListReviews returns an entity's reviews, newest first.
func (u Usecases) ListReviews(ctx context.Context, entityID uuid.UUID) ([]*types.Review, error) {
	const op = "list reviews"
	if entityID == uuid.Nil {
		return nil, types.NewError(types.CodeValidation, op, "entityId is required", nil)
	}
	out, err := u.deps.Reviews.ListForEntity(ctx, nil, entityID)
	if err != nil {
		return nil, types.Wrap(types.CodeInternal, op, err)
	}
	return out, nil
}
