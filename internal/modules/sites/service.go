package sites

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/foundrr/foundrr-backend/internal/data/repos"
	types "github.com/foundrr/foundrr-backend/internal/domain"
	"github.com/foundrr/foundrr-backend/internal/platform/apierr"
	"github.com/foundrr/foundrr-backend/internal/platform/dbctx"
	"github.com/foundrr/foundrr-backend/internal/platform/gcp"
	"github.com/foundrr/foundrr-backend/internal/platform/logger"
)

const (
	defaultListLimit = 50
	maxListLimit     = 200
	maxDocumentBytes = 8 << 20
)

// PreviewBanner marks documents served before payment.
const PreviewBanner = `<div data-foundrr-preview="true" style="position:fixed;bottom:16px;left:50%;transform:translateX(-50%);z-index:2147483647;background:#111827;color:#fff;padding:10px 18px;border-radius:9999px;font:600 13px system-ui,sans-serif;box-shadow:0 10px 30px rgba(0,0,0,.3)">Preview · Unlock this website to download it</div>`

var bodyOpenRe = regexp.MustCompile(`(?i)<body[^>]*>`)

var (
	// ErrPaymentRequired is returned for downloads of unpaid sites.
	ErrPaymentRequired  = errors.New("payment required")
	ErrDocumentTooLarge = errors.New("stored document exceeds size limit")
)

type Service struct {
	log      *logger.Logger
	sites    repos.SiteRepo
	bucket   gcp.BucketService
	maxBytes int64
}

func NewService(log *logger.Logger, sites repos.SiteRepo, bucket gcp.BucketService) *Service {
	return &Service{
		log:      log.With("service", "SiteService"),
		sites:    sites,
		bucket:   bucket,
		maxBytes: maxDocumentBytes,
	}
}

func (s *Service) List(ctx context.Context, owner uuid.UUID, limit int) ([]*types.Site, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	return s.sites.ListByOwner(dbctx.With(ctx), owner, limit)
}

// Get hides other owners' sites behind the same 404 as missing ones.
func (s *Service) Get(ctx context.Context, owner uuid.UUID, siteID string) (*types.Site, error) {
	site, err := s.sites.GetByID(dbctx.With(ctx), siteID)
	if errors.Is(err, repos.ErrSiteNotFound) {
		return nil, apierr.NotFound("site_not_found", err)
	}
	if err != nil {
		return nil, err
	}
	if site.OwnerUserID != owner {
		return nil, apierr.NotFound("site_not_found", repos.ErrSiteNotFound)
	}
	return site, nil
}

// Document returns the stored markup. Unpaid sites carry the preview banner.
func (s *Service) Document(ctx context.Context, owner uuid.UUID, siteID string) (*types.Site, string, error) {
	site, err := s.Get(ctx, owner, siteID)
	if err != nil {
		return nil, "", err
	}
	markup, err := s.load(ctx, site)
	if err != nil {
		return nil, "", err
	}
	if !site.Paid {
		markup = WithPreviewBanner(markup)
	}
	return site, markup, nil
}

// Download returns the untouched document of a paid site.
func (s *Service) Download(ctx context.Context, owner uuid.UUID, siteID string) (*types.Site, string, error) {
	site, err := s.Get(ctx, owner, siteID)
	if err != nil {
		return nil, "", err
	}
	if !site.Paid {
		return nil, "", apierr.New(http.StatusPaymentRequired, "payment_required", ErrPaymentRequired)
	}
	markup, err := s.load(ctx, site)
	if err != nil {
		return nil, "", err
	}
	return site, markup, nil
}

func (s *Service) load(ctx context.Context, site *types.Site) (string, error) {
	rc, err := s.bucket.DownloadObject(ctx, site.StoragePath)
	if errors.Is(err, gcp.ErrObjectNotFound) {
		s.log.Error("Site row without document", "site_id", site.ID, "path", site.StoragePath)
		return "", apierr.NotFound("document_not_found", err)
	}
	if err != nil {
		return "", fmt.Errorf("download %s: %w", site.StoragePath, err)
	}
	defer rc.Close()
	// One byte past the limit tells a full document from a cut one.
	raw, err := io.ReadAll(io.LimitReader(rc, s.maxBytes+1))
	if err != nil {
		return "", fmt.Errorf("read %s: %w", site.StoragePath, err)
	}
	if int64(len(raw)) > s.maxBytes {
		s.log.Error("Stored document over size limit", "site_id", site.ID, "limit_bytes", s.maxBytes)
		return "", apierr.New(http.StatusInternalServerError, "document_too_large", ErrDocumentTooLarge)
	}
	return string(raw), nil
}

// WithPreviewBanner inserts the banner right after <body>, or prepends it.
func WithPreviewBanner(markup string) string {
	if strings.Contains(markup, `data-foundrr-preview="true"`) {
		return markup
	}
	if loc := bodyOpenRe.FindStringIndex(markup); loc != nil {
		return markup[:loc[1]] + PreviewBanner + markup[loc[1]:]
	}
	return PreviewBanner + markup
}

// DownloadName is the attachment filename for a site.
func DownloadName(site *types.Site) string {
	return "foundrr-" + site.ID + ".html"
}
