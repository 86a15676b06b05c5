package repos

import (
	"gorm.io/gorm"

	"github.com/foundrr/foundrr-backend/internal/data/repos/sites"
	"github.com/foundrr/foundrr-backend/internal/platform/logger"
)

type SiteRepo = sites.SiteRepo

var (
	ErrSiteNotFound    = sites.ErrNotFound
	ErrSiteIDCollision = sites.ErrIDCollision
)

func NewSiteRepo(db *gorm.DB, baseLog *logger.Logger) SiteRepo {
	return sites.NewSiteRepo(db, baseLog)
}
