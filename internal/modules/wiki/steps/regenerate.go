package steps

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	types "github.com/yungbote/howscary-backend/internal/domain/wiki"
	"github.com/yungbote/howscary-backend/internal/jobs"
)

type BackgroundDeps struct {
	GenerationDeps
	Runner     *jobs.Runner
	StaleAfter time.Duration
	Now        func() time.Time
}

var errLeaseHeld = errors.New("generation already in progress")

// ScheduleGeneration reruns the pipeline for a stored entity on the runner.
// The caller must already hold the lease.
func ScheduleGeneration(deps BackgroundDeps, entity *types.ScaryEntity) bool {
	if deps.Runner == nil {
		return false
	}
	target := *entity
	target.Analysis = nil
	c := types.CandidateFromEntity(&target)
	return deps.Runner.Go("wiki.generate:"+target.Slug, func(ctx context.Context) error {
		_, _, err := RunGeneration(ctx, deps.GenerationDeps, &target, c)
		return err
	})
}

// RegenerateAnalysis drops the current analysis, takes the lease and
// re-enters the pipeline in the background. A fresh lease held by another run
// is a conflict and leaves the record untouched.
func RegenerateAnalysis(ctx context.Context, deps BackgroundDeps, entity *types.ScaryEntity) error {
	if deps.Runner == nil {
		return errors.New("background runner not configured")
	}
	now := time.Now
	if deps.Now != nil {
		now = deps.Now
	}
	stale := deps.StaleAfter
	if stale <= 0 {
		stale = DefaultStaleAfter
	}
	err := deps.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := deps.Entities.DeleteAnalysis(ctx, tx, entity.ID); err != nil {
			return err
		}
		won, err := deps.Entities.ClaimRepair(ctx, tx, entity.ID, now().Add(-stale))
		if err != nil {
			return err
		}
		if !won {
			return errLeaseHeld
		}
		return nil
	})
	if errors.Is(err, errLeaseHeld) {
		return types.NewError(types.CodeConflict, "regenerate analysis", "generation already in progress", err)
	}
	if err != nil {
		return types.Wrap(types.CodeInternal, "regenerate analysis", err)
	}
	entity.Analysis = nil
	entity.AverageAIScore = nil
	entity.IsGenerating = true
	if !ScheduleGeneration(deps, entity) {
		releaseLease(ctx, deps.GenerationDeps, entity)
		return types.NewError(types.CodeInternal, "regenerate analysis", "runner is shutting down", nil)
	}
	return nil
}
