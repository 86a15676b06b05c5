package paymentprovider

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/foundrr/foundrr-backend/internal/platform/ctxutil"
	"github.com/foundrr/foundrr-backend/internal/platform/logger"
)

var ErrProvider = errors.New("payment provider request failed")

type Client interface {
	CreatePayment(ctx context.Context, req PaymentRequest) (*Payment, error)
}

type Config struct {
	BaseURL   string
	APIKey    string
	ProductID string
	Timeout   time.Duration
}

type PaymentRequest struct {
	SiteID        string
	UserID        string
	CustomerEmail string
	CustomerName  string
	Currency      string
	Price         float64
	ReturnURL     string
}

type Payment struct {
	PaymentID   string `json:"payment_id"`
	PaymentLink string `json:"payment_link"`
}

type client struct {
	log        *logger.Logger
	cfg        Config
	httpClient *http.Client
}

func New(log *logger.Logger, cfg Config) (Client, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	cfg.APIKey = strings.TrimSpace(cfg.APIKey)
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("missing PAYMENTS_API_KEY")
	}
	if strings.TrimSpace(cfg.BaseURL) == "" {
		cfg.BaseURL = "https://live.dodopayments.com"
	}
	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if strings.TrimSpace(cfg.ProductID) == "" {
		cfg.ProductID = "prod_website_unlock"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &client{
		log: log.With("client", "PaymentProviderClient"),
		cfg: cfg,
		httpClient: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}, nil
}

type billing struct {
	City    string `json:"city"`
	Country string `json:"country"`
	State   string `json:"state"`
	Street  string `json:"street"`
	Zipcode string `json:"zipcode"`
}

type customer struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

type cartItem struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
	// Amount overrides the catalog price, in minor units.
	Amount int64 `json:"amount,omitempty"`
}

type createPaymentBody struct {
	BillingCurrency string            `json:"billing_currency"`
	PaymentLink     bool              `json:"payment_link"`
	Billing         billing           `json:"billing"`
	Customer        customer          `json:"customer"`
	Metadata        map[string]string `json:"metadata"`
	ProductCart     []cartItem        `json:"product_cart"`
	ReturnURL       string            `json:"return_url,omitempty"`
}

func (c *client) CreatePayment(ctx context.Context, req PaymentRequest) (*Payment, error) {
	if req.SiteID == "" || req.UserID == "" {
		return nil, fmt.Errorf("payment: site and user required")
	}
	name := strings.TrimSpace(req.CustomerName)
	if name == "" {
		name = "Customer"
	}
	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	if currency == "" {
		currency = "USD"
	}
	body := createPaymentBody{
		BillingCurrency: currency,
		PaymentLink:     true,
		Billing:         billing{City: "Baku", Country: "AZ", State: "AZ", Street: "Street", Zipcode: "1000"},
		Customer:        customer{Email: req.CustomerEmail, Name: name},
		Metadata:        map[string]string{"siteId": req.SiteID, "userId": req.UserID},
		ProductCart: []cartItem{{
			ProductID: c.cfg.ProductID,
			Quantity:  1,
			Amount:    MinorUnits(req.Price),
		}},
		ReturnURL: req.ReturnURL,
	}
	raw, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/payments", bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrProvider, err)
	}
	defer resp.Body.Close()
	payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))

	log := c.log.With(ctxutil.LogFields(ctx)...)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Warn("Create payment rejected", "status", resp.StatusCode, "site_id", req.SiteID, "duration_ms", time.Since(start).Milliseconds())
		return nil, fmt.Errorf("%w: status %d: %s", ErrProvider, resp.StatusCode, strings.TrimSpace(string(payload)))
	}

	var out Payment
	if err := json.Unmarshal(payload, &out); err != nil {
		return nil, fmt.Errorf("%w: decode: %w", ErrProvider, err)
	}
	if out.PaymentLink == "" {
		return nil, fmt.Errorf("%w: response has no payment_link", ErrProvider)
	}
	log.Info("Payment link created", "site_id", req.SiteID, "payment_id", out.PaymentID, "duration_ms", time.Since(start).Milliseconds())
	return &out, nil
}

// MinorUnits converts a decimal price to cents.
func MinorUnits(price float64) int64 {
	if price <= 0 {
		return 0
	}
	return int64(math.Round(price * 100))
}
