package wiki

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/howscary-backend/internal/data/repos/testutil"
	types "github.com/yungbote/howscary-backend/internal/domain/wiki"
)

func TestReviewsListNewestFirstWithAuthor(t *testing.T) {
	db := testutil.DB(t)
	log := testutil.Logger(t)
	users := NewUserRepo(db, log)
	reviews := NewReviewRepo(db, log)
	ctx := context.Background()

	author, err := users.GetOrCreateByExternalUID(ctx, nil, "uid-1", "a@example.com", "Ada")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	entityID := uuid.New()
	base := time.Now().Add(-time.Hour)
	for i, content := range []string{"first", "second"} {
		r := &types.Review{EntityID: entityID, UserID: author.ID, Content: content, CreatedAt: base.Add(time.Duration(i) * time.Minute)}
		if err := reviews.Create(ctx, nil, r); err != nil {
			t.Fatalf("Create review: %v", err)
		}
	}
	if err := reviews.Create(ctx, nil, &types.Review{EntityID: uuid.New(), UserID: author.ID, Content: "elsewhere"}); err != nil {
		t.Fatalf("Create other review: %v", err)
	}

	got, err := reviews.ListForEntity(ctx, nil, entityID)
	if err != nil {
		t.Fatalf("ListForEntity: %v", err)
	}
	if len(got) != 2 || got[0].Content != "second" || got[1].Content != "first" {
		t.Fatalf("expected two reviews newest first, got %+v", got)
	}
	if got[0].User == nil || got[0].User.DisplayName != "Ada" {
		t.Fatalf("expected author preloaded, got %+v", got[0].User)
	}
}

func TestRatingListForUserJoinsDimensions(t *testing.T) {
	db := testutil.DB(t)
	log := testutil.Logger(t)
	dims := NewDimensionRepo(db, log)
	ratings := NewRatingRepo(db, log)
	ctx := context.Background()

	byName, err := dims.UpsertByNames(ctx, nil, types.StandardDimensionNames)
	if err != nil {
		t.Fatalf("UpsertByNames: %v", err)
	}
	entityID, me, other := uuid.New(), uuid.New(), uuid.New()
	for _, r := range []*types.ScaryRating{
		{EntityID: entityID, DimensionID: byName["Jump Scares"].ID, UserID: me, Score: 7},
		{EntityID: entityID, DimensionID: byName["Gore Violence"].ID, UserID: me, Score: 3},
		{EntityID: entityID, DimensionID: byName["Gore Violence"].ID, UserID: other, Score: 9},
	} {
		if err := ratings.Upsert(ctx, nil, r); err != nil {
			t.Fatalf("Upsert: %v", err)
		}
	}

	got, err := ratings.ListForUser(ctx, nil, entityID, me)
	if err != nil {
		t.Fatalf("ListForUser: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected only my two ratings, got %+v", got)
	}
	if got[0].DimensionID != "gore-violence" || got[0].DimensionName != "Gore Violence" || got[0].Score != 3 {
		t.Fatalf("unexpected first rating %+v", got[0])
	}
	if got[1].DimensionID != "jump-scares" || got[1].Score != 7 {
		t.Fatalf("unexpected second rating %+v", got[1])
	}
}

func TestUserListFiltersAndPages(t *testing.T) {
	db := testutil.DB(t)
	users := NewUserRepo(db, testutil.Logger(t))
	ctx := context.Background()

	for i, name := range []string{"Alice", "Bob", "Alicia"} {
		u, err := users.GetOrCreateByExternalUID(ctx, nil, name, name+"@example.com", name)
		if err != nil {
			t.Fatalf("create user: %v", err)
		}
		if i == 1 {
			if err := users.SetRole(ctx, nil, u.ID, types.RoleModerator); err != nil {
				t.Fatalf("SetRole: %v", err)
			}
		}
	}

	got, total, err := users.List(ctx, nil, UserFilter{Search: "ali", Limit: 1})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 2 || len(got) != 1 {
		t.Fatalf("expected one page of two matches, got %d of %d", len(got), total)
	}
	mods, total, err := users.List(ctx, nil, UserFilter{Role: types.RoleModerator, Limit: 10})
	if err != nil {
		t.Fatalf("List by role: %v", err)
	}
	if total != 1 || len(mods) != 1 || mods[0].DisplayName != "Bob" {
		t.Fatalf("expected only the moderator, got %+v", mods)
	}
}
