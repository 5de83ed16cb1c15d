package repos

import (
	"gorm.io/gorm"

	"github.com/yungbote/howscary-backend/internal/data/repos/wiki"
	"github.com/yungbote/howscary-backend/internal/platform/logger"
)

type EntityRepo = wiki.EntityRepo
type DimensionRepo = wiki.DimensionRepo
type RatingRepo = wiki.RatingRepo
type UserRepo = wiki.UserRepo
type ModeratorLogRepo = wiki.ModeratorLogRepo
type ReviewRepo = wiki.ReviewRepo
type UserFilter = wiki.UserFilter

var (
	ErrDuplicate = wiki.ErrDuplicate
	ErrNotFound  = wiki.ErrNotFound
)

func NewEntityRepo(db *gorm.DB, baseLog *logger.Logger) EntityRepo {
	return wiki.NewEntityRepo(db, baseLog)
}
func NewDimensionRepo(db *gorm.DB, baseLog *logger.Logger) DimensionRepo {
	return wiki.NewDimensionRepo(db, baseLog)
}
func NewRatingRepo(db *gorm.DB, baseLog *logger.Logger) RatingRepo {
	return wiki.NewRatingRepo(db, baseLog)
}
func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo { return wiki.NewUserRepo(db, baseLog) }
func NewModeratorLogRepo(db *gorm.DB, baseLog *logger.Logger) ModeratorLogRepo {
	return wiki.NewModeratorLogRepo(db, baseLog)
}
func NewReviewRepo(db *gorm.DB, baseLog *logger.Logger) ReviewRepo {
	return wiki.NewReviewRepo(db, baseLog)
}
