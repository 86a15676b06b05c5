package sites

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/foundrr/foundrr-backend/internal/domain"
	"github.com/foundrr/foundrr-backend/internal/platform/dbctx"
	"github.com/foundrr/foundrr-backend/internal/platform/logger"
)

var (
	ErrNotFound    = errors.New("site not found")
	ErrIDCollision = errors.New("site id already exists")
)

type SiteRepo interface {
	Create(dbc dbctx.Context, site *types.Site) (*types.Site, error)
	Exists(dbc dbctx.Context, id string) (bool, error)
	GetByID(dbc dbctx.Context, id string) (*types.Site, error)
	ListByOwner(dbc dbctx.Context, ownerUserID uuid.UUID, limit int) ([]*types.Site, error)
	ListByPaymentStatus(dbc dbctx.Context, status types.PaymentStatus, limit int) ([]*types.Site, error)
	UpdateFields(dbc dbctx.Context, id string, updates map[string]interface{}) error
	UpdateFieldsIfStatus(dbc dbctx.Context, id string, allowedStatuses []types.PaymentStatus, updates map[string]interface{}) (bool, error)
	Delete(dbc dbctx.Context, id string) error
}

type siteRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSiteRepo(db *gorm.DB, baseLog *logger.Logger) SiteRepo {
	return &siteRepo{
		db:  db,
		log: baseLog.With("repo", "SiteRepo"),
	}
}

// Create inserts exactly once; an existing id is ErrIDCollision, never an overwrite.
func (r *siteRepo) Create(dbc dbctx.Context, site *types.Site) (*types.Site, error) {
	if site == nil || site.ID == "" {
		return nil, fmt.Errorf("site id required")
	}
	if err := dbc.Conn(r.db).Create(site).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: %s", ErrIDCollision, site.ID)
		}
		return nil, err
	}
	return site, nil
}

func (r *siteRepo) Exists(dbc dbctx.Context, id string) (bool, error) {
	if id == "" {
		return false, nil
	}
	var count int64
	if err := dbc.Conn(r.db).
		Model(&types.Site{}).
		Where("id = ?", id).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *siteRepo) GetByID(dbc dbctx.Context, id string) (*types.Site, error) {
	if id == "" {
		return nil, ErrNotFound
	}
	var out types.Site
	err := dbc.Conn(r.db).Where("id = ?", id).Limit(1).Take(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *siteRepo) ListByOwner(dbc dbctx.Context, ownerUserID uuid.UUID, limit int) ([]*types.Site, error) {
	var out []*types.Site
	if ownerUserID == uuid.Nil {
		return out, nil
	}
	q := dbc.Conn(r.db).
		Where("owner_user_id = ?", ownerUserID).
		Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *siteRepo) ListByPaymentStatus(dbc dbctx.Context, status types.PaymentStatus, limit int) ([]*types.Site, error) {
	var out []*types.Site
	q := dbc.Conn(r.db).
		Where("payment_status = ?", status).
		Order("created_at ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *siteRepo) UpdateFields(dbc dbctx.Context, id string, updates map[string]interface{}) error {
	if id == "" {
		return ErrNotFound
	}
	if updates == nil {
		updates = map[string]interface{}{}
	}
	if _, ok := updates["updated_at"]; !ok {
		updates["updated_at"] = time.Now()
	}
	res := dbc.Conn(r.db).
		Model(&types.Site{}).
		Where("id = ?", id).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateFieldsIfStatus applies updates only while the row is in one of
// allowedStatuses. It reports whether a row changed.
func (r *siteRepo) UpdateFieldsIfStatus(dbc dbctx.Context, id string, allowedStatuses []types.PaymentStatus, updates map[string]interface{}) (bool, error) {
	if id == "" {
		return false, nil
	}
	if updates == nil {
		updates = map[string]interface{}{}
	}
	if _, ok := updates["updated_at"]; !ok {
		updates["updated_at"] = time.Now()
	}

	q := dbc.Conn(r.db).
		Model(&types.Site{}).
		Where("id = ?", id)
	if len(allowedStatuses) == 1 {
		q = q.Where("payment_status = ?", allowedStatuses[0])
	} else if len(allowedStatuses) > 1 {
		q = q.Where("payment_status IN ?", allowedStatuses)
	}

	res := q.Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// Delete is idempotent; the sink uses it to compensate a failed upload.
func (r *siteRepo) Delete(dbc dbctx.Context, id string) error {
	if id == "" {
		return nil
	}
	return dbc.Conn(r.db).
		Where("id = ?", id).
		Delete(&types.Site{}).Error
}
