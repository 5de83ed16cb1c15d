package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/howscary-backend/internal/data/repos"
	"github.com/yungbote/howscary-backend/internal/platform/logger"
)

type Repos struct {
	Entity       repos.EntityRepo
	Dimension    repos.DimensionRepo
	Rating       repos.RatingRepo
	User         repos.UserRepo
	ModeratorLog repos.ModeratorLogRepo
	Review       repos.ReviewRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Entity:       repos.NewEntityRepo(db, log),
		Dimension:    repos.NewDimensionRepo(db, log),
		Rating:       repos.NewRatingRepo(db, log),
		User:         repos.NewUserRepo(db, log),
		ModeratorLog: repos.NewModeratorLogRepo(db, log),
		Review:       repos.NewReviewRepo(db, log),
	}
}
