package app

import (
	"gorm.io/gorm"

	"github.com/foundrr/foundrr-backend/internal/data/repos"
	"github.com/foundrr/foundrr-backend/internal/platform/logger"
)

type Repos struct {
	Site repos.SiteRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Site: repos.NewSiteRepo(db, log),
	}
}
