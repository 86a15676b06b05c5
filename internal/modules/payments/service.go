package payments

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"github.com/foundrr/foundrr-backend/internal/data/repos"
	types "github.com/foundrr/foundrr-backend/internal/domain"
	"github.com/foundrr/foundrr-backend/internal/observability"
	"github.com/foundrr/foundrr-backend/internal/platform/apierr"
	"github.com/foundrr/foundrr-backend/internal/platform/ctxutil"
	"github.com/foundrr/foundrr-backend/internal/platform/dbctx"
	"github.com/foundrr/foundrr-backend/internal/platform/logger"
	"github.com/foundrr/foundrr-backend/internal/platform/paymentprovider"
	"github.com/foundrr/foundrr-backend/internal/realtime"
)

var (
	ErrInvalidSignature  = paymentprovider.ErrInvalidSignature
	ErrInvalidTransition = errors.New("payment status does not allow this change")
	ErrProviderDisabled  = errors.New("card payments are not configured")
)

const (
	MethodProvider = "dodo"
	MethodM10      = "m10"
	MethodWire     = "wire"
)

type ReviewAction string

const (
	ActionApprove ReviewAction = "approve"
	ActionReject  ReviewAction = "reject"
)

const pendingListLimit = 200

type Config struct {
	Price     float64
	Currency  string
	Discounts Discounts
	AppURL    string
}

// Quote is the pricing view of a site.
type Quote struct {
	Price         float64             `json:"price"`
	Currency      string              `json:"currency"`
	PaymentStatus types.PaymentStatus `json:"payment_status"`
	Paid          bool                `json:"paid"`
}

type ManualPayment struct {
	Method     string `json:"method"`
	Identifier string `json:"identifier"`
}

func (m ManualPayment) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.Method, validation.Required, validation.In(MethodM10, MethodWire)),
		validation.Field(&m.Identifier, validation.Required, validation.RuneLength(3, 128)),
	)
}

// Publisher is satisfied by realtime.Publisher.
type Publisher interface {
	Publish(ctx context.Context, msg realtime.SSEMessage) error
}

type Service struct {
	log      *logger.Logger
	sites    repos.SiteRepo
	provider paymentprovider.Client
	verifier *paymentprovider.Verifier
	pub      Publisher
	metrics  *observability.Metrics
	cfg      Config
}

// NewService accepts a nil provider or verifier; the matching operations
// then fail with ErrProviderDisabled.
func NewService(
	log *logger.Logger,
	sites repos.SiteRepo,
	provider paymentprovider.Client,
	verifier *paymentprovider.Verifier,
	pub Publisher,
	metrics *observability.Metrics,
	cfg Config,
) *Service {
	if cfg.Price <= 0 {
		cfg.Price = 75.99
	}
	if cfg.Currency == "" {
		cfg.Currency = "USD"
	}
	if cfg.AppURL == "" {
		cfg.AppURL = "http://localhost:3000"
	}
	cfg.AppURL = strings.TrimRight(cfg.AppURL, "/")
	return &Service{
		log:      log.With("service", "PaymentService"),
		sites:    sites,
		provider: provider,
		verifier: verifier,
		pub:      pub,
		metrics:  metrics,
		cfg:      cfg,
	}
}

func (s *Service) priceFor(site *types.Site, email string) float64 {
	if v, ok := s.cfg.Discounts.For(email); ok {
		return v
	}
	if site != nil && site.Price > 0 {
		return site.Price
	}
	return s.cfg.Price
}

// Pricing never fails on a missing site; the default quote is returned so
// status pollers keep working while a save is in flight.
func (s *Service) Pricing(ctx context.Context, siteID, email string) (Quote, error) {
	site, err := s.sites.GetByID(dbctx.With(ctx), siteID)
	if err != nil && !errors.Is(err, repos.ErrSiteNotFound) {
		return Quote{}, err
	}
	q := Quote{
		Price:         s.priceFor(site, email),
		Currency:      s.cfg.Currency,
		PaymentStatus: types.PaymentPending,
	}
	if site != nil {
		if site.Currency != "" {
			q.Currency = site.Currency
		}
		if site.PaymentStatus != "" {
			q.PaymentStatus = site.PaymentStatus
		}
		q.Paid = site.Paid
	}
	return q, nil
}

func (s *Service) ownedSite(ctx context.Context, owner uuid.UUID, siteID string) (*types.Site, error) {
	if strings.TrimSpace(siteID) == "" {
		return nil, apierr.BadRequest("missing_site_id", errors.New("missing site ID"))
	}
	site, err := s.sites.GetByID(dbctx.With(ctx), siteID)
	if errors.Is(err, repos.ErrSiteNotFound) {
		return nil, apierr.NotFound("site_not_found", err)
	}
	if err != nil {
		return nil, err
	}
	if site.OwnerUserID != owner {
		// Someone else's site looks the same as a missing one.
		return nil, apierr.NotFound("site_not_found", repos.ErrSiteNotFound)
	}
	return site, nil
}

// CreateCheckout returns a hosted payment link for the caller's site.
func (s *Service) CreateCheckout(ctx context.Context, rd ctxutil.RequestData, siteID string) (string, error) {
	if rd.UserID == uuid.Nil {
		return "", apierr.Unauthorized("unauthenticated", errors.New("authentication required"))
	}
	if s.provider == nil {
		return "", apierr.New(http.StatusServiceUnavailable, "payments_disabled", ErrProviderDisabled)
	}
	site, err := s.ownedSite(ctx, rd.UserID, siteID)
	if err != nil {
		return "", err
	}
	if site.Paid {
		return "", apierr.Conflict("already_paid", fmt.Errorf("%w: site %s is paid", ErrInvalidTransition, site.ID))
	}

	p, err := s.provider.CreatePayment(ctx, paymentprovider.PaymentRequest{
		SiteID:        site.ID,
		UserID:        rd.UserID.String(),
		CustomerEmail: rd.Email,
		Currency:      site.Currency,
		Price:         s.priceFor(site, rd.Email),
		ReturnURL:     fmt.Sprintf("%s/website/%s?payment=success", s.cfg.AppURL, site.ID),
	})
	if err != nil {
		s.metrics.IncPaymentEvent("checkout_failed")
		return "", apierr.New(http.StatusBadGateway, "payment_provider_error", err)
	}
	if p.PaymentID != "" {
		if uerr := s.sites.UpdateFields(dbctx.With(ctx), site.ID, map[string]interface{}{"payment_id": p.PaymentID}); uerr != nil {
			s.log.Warn("Failed to record payment id", "site_id", site.ID, "error", uerr)
		}
	}
	s.metrics.IncPaymentEvent("checkout_created")
	return p.PaymentLink, nil
}

// HandleWebhook verifies and applies a provider event. Redelivery of an
// already applied success is a no-op.
func (s *Service) HandleWebhook(ctx context.Context, h http.Header, body []byte) error {
	if s.verifier == nil {
		return apierr.New(http.StatusServiceUnavailable, "payments_disabled", ErrProviderDisabled)
	}
	ev, err := s.verifier.Unwrap(h, body)
	if err != nil {
		s.metrics.IncPaymentEvent("webhook_rejected")
		return apierr.BadRequest("invalid_webhook", err)
	}
	log := s.log.With("event", ev.Type, "payment_id", ev.Data.PaymentID)
	if ev.Type != paymentprovider.EventPaymentSucceeded {
		log.Debug("Ignoring webhook event")
		return nil
	}
	siteID := ev.Data.Metadata["siteId"]
	if siteID == "" {
		log.Warn("Payment webhook without siteId")
		return nil
	}

	changed, err := s.sites.UpdateFieldsIfStatus(dbctx.With(ctx), siteID,
		[]types.PaymentStatus{types.PaymentPending, types.PaymentSubmitted, types.PaymentRejected},
		map[string]interface{}{
			"paid":               true,
			"payment_status":     types.PaymentApproved,
			"payment_method":     MethodProvider,
			"payment_identifier": ev.Data.PaymentID,
			"payment_id":         ev.Data.PaymentID,
		})
	if err != nil {
		return fmt.Errorf("apply payment webhook: %w", err)
	}
	if !changed {
		log.Info("Payment webhook had nothing to change", "site_id", siteID)
		return nil
	}
	s.metrics.IncPaymentEvent("webhook_paid")
	log.Info("Site paid", "site_id", siteID)
	s.notify(ctx, siteID)
	return nil
}

// SubmitManualPayment records a transfer for admin review.
func (s *Service) SubmitManualPayment(ctx context.Context, owner uuid.UUID, siteID string, mp ManualPayment) (*types.Site, error) {
	mp.Method = strings.ToLower(strings.TrimSpace(mp.Method))
	mp.Identifier = strings.TrimSpace(mp.Identifier)
	if err := mp.Validate(); err != nil {
		return nil, apierr.BadRequest("invalid_request", err)
	}
	site, err := s.ownedSite(ctx, owner, siteID)
	if err != nil {
		return nil, err
	}
	changed, err := s.sites.UpdateFieldsIfStatus(dbctx.With(ctx), site.ID,
		[]types.PaymentStatus{types.PaymentPending, types.PaymentSubmitted, types.PaymentRejected},
		map[string]interface{}{
			"payment_status":     types.PaymentSubmitted,
			"payment_method":     mp.Method,
			"payment_identifier": mp.Identifier,
		})
	if err != nil {
		return nil, err
	}
	if !changed {
		return nil, apierr.Conflict("invalid_transition", fmt.Errorf("%w: site %s is %s", ErrInvalidTransition, site.ID, site.PaymentStatus))
	}
	s.metrics.IncPaymentEvent("manual_submitted")
	s.notify(ctx, site.ID)
	return s.sites.GetByID(dbctx.With(ctx), site.ID)
}

func (s *Service) ListPending(ctx context.Context) ([]*types.Site, error) {
	return s.sites.ListByPaymentStatus(dbctx.With(ctx), types.PaymentSubmitted, pendingListLimit)
}

// Review settles a submitted transfer.
func (s *Service) Review(ctx context.Context, siteID string, action ReviewAction) (*types.Site, error) {
	var updates map[string]interface{}
	switch action {
	case ActionApprove:
		updates = map[string]interface{}{"paid": true, "payment_status": types.PaymentApproved}
	case ActionReject:
		updates = map[string]interface{}{"paid": false, "payment_status": types.PaymentRejected}
	default:
		return nil, apierr.BadRequest("invalid_action", fmt.Errorf("unknown action %q", action))
	}
	if strings.TrimSpace(siteID) == "" {
		return nil, apierr.BadRequest("missing_site_id", errors.New("missing site ID"))
	}

	changed, err := s.sites.UpdateFieldsIfStatus(dbctx.With(ctx), siteID, []types.PaymentStatus{types.PaymentSubmitted}, updates)
	if err != nil {
		return nil, err
	}
	if !changed {
		exists, xerr := s.sites.Exists(dbctx.With(ctx), siteID)
		if xerr == nil && !exists {
			return nil, apierr.NotFound("site_not_found", repos.ErrSiteNotFound)
		}
		return nil, apierr.Conflict("invalid_transition", fmt.Errorf("%w: site %s is not awaiting review", ErrInvalidTransition, siteID))
	}
	s.metrics.IncPaymentEvent("review_" + string(action))
	s.log.Info("Manual payment reviewed", "site_id", siteID, "action", string(action))
	s.notify(ctx, siteID)
	return s.sites.GetByID(dbctx.With(ctx), siteID)
}

func (s *Service) notify(ctx context.Context, siteID string) {
	if s.pub == nil {
		return
	}
	site, err := s.sites.GetByID(dbctx.With(ctx), siteID)
	if err != nil {
		return
	}
	msg := realtime.SSEMessage{
		Channel: realtime.UserChannel(site.OwnerUserID),
		Event:   realtime.SSEEventPaymentUpdated,
		Data: map[string]any{
			"site_id":        site.ID,
			"payment_status": site.PaymentStatus,
			"paid":           site.Paid,
		},
	}
	if err := s.pub.Publish(context.WithoutCancel(ctx), msg); err != nil {
		s.log.Warn("PaymentUpdated publish failed", "site_id", siteID, "error", err)
	}
}
