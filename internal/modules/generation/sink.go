package generation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/foundrr/foundrr-backend/internal/data/repos"
	types "github.com/foundrr/foundrr-backend/internal/domain"
	"github.com/foundrr/foundrr-backend/internal/observability"
	"github.com/foundrr/foundrr-backend/internal/platform/dbctx"
	"github.com/foundrr/foundrr-backend/internal/platform/gcp"
	"github.com/foundrr/foundrr-backend/internal/platform/logger"
)

var ErrNotSaved = errors.New("site not saved")

// NotSavedError reports which side of a persist failed. Compensation has
// already run when it is returned.
type NotSavedError struct {
	SiteID    string
	UploadErr error
	InsertErr error
}

func (e *NotSavedError) Error() string {
	var parts []string
	if e.UploadErr != nil {
		parts = append(parts, "upload: "+e.UploadErr.Error())
	}
	if e.InsertErr != nil {
		parts = append(parts, "insert: "+e.InsertErr.Error())
	}
	return fmt.Sprintf("%s: site %s: %s", ErrNotSaved, e.SiteID, strings.Join(parts, "; "))
}

func (e *NotSavedError) Unwrap() []error {
	out := []error{ErrNotSaved}
	if e.UploadErr != nil {
		out = append(out, e.UploadErr)
	}
	if e.InsertErr != nil {
		out = append(out, e.InsertErr)
	}
	return out
}

type SiteMeta struct {
	Name     string
	Mode     types.Mode
	Style    types.Style
	Lang     types.Lang
	Price    float64
	Currency string
}

type SinkConfig struct {
	MaxTries        uint
	InitialInterval time.Duration
	Timeout         time.Duration
}

func (c SinkConfig) withDefaults() SinkConfig {
	if c.MaxTries == 0 {
		c.MaxTries = 3
	}
	if c.InitialInterval <= 0 {
		c.InitialInterval = 200 * time.Millisecond
	}
	if c.Timeout <= 0 {
		c.Timeout = 60 * time.Second
	}
	return c
}

// Sink writes a finished document to object storage and its row to the
// metadata table. Both writes are attempted; a half-done save is undone.
type Sink struct {
	log     *logger.Logger
	bucket  gcp.BucketService
	sites   repos.SiteRepo
	metrics *observability.Metrics
	cfg     SinkConfig
}

func NewSink(log *logger.Logger, bucket gcp.BucketService, sites repos.SiteRepo, metrics *observability.Metrics, cfg SinkConfig) *Sink {
	return &Sink{
		log:     log.With("service", "SiteSink"),
		bucket:  bucket,
		sites:   sites,
		metrics: metrics,
		cfg:     cfg.withDefaults(),
	}
}

func (s *Sink) Persist(ctx context.Context, owner uuid.UUID, siteID, markup string, meta SiteMeta) (*types.Site, error) {
	// A client that disconnects after the stream finished must not cut a
	// write in half.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cfg.Timeout)
	defer cancel()

	site := &types.Site{
		ID:            siteID,
		OwnerUserID:   owner,
		StoragePath:   types.StoragePathFor(owner, siteID),
		Paid:          false,
		Price:         meta.Price,
		Currency:      meta.Currency,
		Name:          meta.Name,
		Mode:          string(meta.Mode),
		Style:         string(meta.Style),
		Lang:          string(meta.Lang),
		PaymentStatus: types.PaymentPending,
	}
	log := s.log.With("site_id", siteID, "owner_id", owner.String(), "path", site.StoragePath)

	var uploadErr, insertErr error
	var g errgroup.Group
	g.Go(func() error {
		uploadErr = s.retry(ctx, "storage", func() error {
			// Never replace another site's document, even on an id collision.
			err := s.bucket.CreateObject(ctx, site.StoragePath, strings.NewReader(markup), "text/html; charset=utf-8")
			if errors.Is(err, gcp.ErrObjectExists) {
				return backoff.Permanent(err)
			}
			return err
		})
		return uploadErr
	})
	g.Go(func() error {
		insertErr = s.retry(ctx, "metadata", func() error {
			_, err := s.sites.Create(dbctx.With(ctx), site)
			if errors.Is(err, repos.ErrSiteIDCollision) {
				return backoff.Permanent(err)
			}
			return err
		})
		return insertErr
	})
	_ = g.Wait()

	if uploadErr == nil && insertErr == nil {
		log.Info("Site persisted", "bytes", len(markup))
		return site, nil
	}

	switch {
	case uploadErr != nil && insertErr == nil:
		if err := s.sites.Delete(dbctx.With(ctx), siteID); err != nil {
			log.Error("Compensating row delete failed", "error", err)
		}
	case insertErr != nil && uploadErr == nil:
		if err := s.bucket.DeleteObject(ctx, site.StoragePath); err != nil {
			log.Error("Compensating object delete failed", "error", err)
		}
	}
	log.Error("Site persist failed", "upload_error", uploadErr, "insert_error", insertErr)
	return nil, &NotSavedError{SiteID: siteID, UploadErr: uploadErr, InsertErr: insertErr}
}

func (s *Sink) retry(ctx context.Context, target string, op func() error) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = s.cfg.InitialInterval

	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		err := op()
		status := "ok"
		if err != nil {
			status = "error"
		}
		s.metrics.IncPersistAttempt(target, status)
		return struct{}{}, err
	},
		backoff.WithBackOff(b),
		backoff.WithMaxTries(s.cfg.MaxTries),
		backoff.WithNotify(func(err error, next time.Duration) {
			s.log.Warn("Persist attempt failed; retrying", "target", target, "retry_in", next, "error", err)
		}),
	)
	return err
}
