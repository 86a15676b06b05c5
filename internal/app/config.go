package app

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/foundrr/foundrr-backend/internal/data/db"
	types "github.com/foundrr/foundrr-backend/internal/domain"
	"github.com/foundrr/foundrr-backend/internal/modules/generation"
	"github.com/foundrr/foundrr-backend/internal/modules/payments"
	"github.com/foundrr/foundrr-backend/internal/observability"
	"github.com/foundrr/foundrr-backend/internal/platform/gcp"
)

type Config struct {
	Port        string `envconfig:"PORT" default:"8080"`
	LogMode     string `envconfig:"LOG_MODE" default:"development"`
	ServiceName string `envconfig:"SERVICE_NAME" default:"foundrr-backend"`
	Environment string `envconfig:"APP_ENV" default:"development"`
	AppURL      string `envconfig:"APP_URL" default:"http://localhost:3000"`
	CORSOrigins string `envconfig:"CORS_ORIGINS"`

	JWTSecretKey string `envconfig:"JWT_SECRET_KEY"`
	AdminRole    string `envconfig:"ADMIN_ROLE" default:"admin"`

	PostgresHost     string `envconfig:"POSTGRES_HOST" default:"localhost"`
	PostgresPort     string `envconfig:"POSTGRES_PORT" default:"5432"`
	PostgresUser     string `envconfig:"POSTGRES_USER" default:"postgres"`
	PostgresPassword string `envconfig:"POSTGRES_PASSWORD"`
	PostgresName     string `envconfig:"POSTGRES_NAME" default:"foundrr"`
	PostgresSSLMode  string `envconfig:"POSTGRES_SSLMODE" default:"disable"`

	OpenAIAPIKey  string        `envconfig:"OPENAI_API_KEY"`
	OpenAIBaseURL string        `envconfig:"OPENAI_BASE_URL"`
	OpenAIModel   string        `envconfig:"OPENAI_MODEL" default:"gpt-4o"`
	OpenAITimeout time.Duration `envconfig:"OPENAI_TIMEOUT" default:"5m"`
	OpenAITokens  bool          `envconfig:"OPENAI_COUNT_TOKENS" default:"true"`

	GenerationDefaultMode string        `envconfig:"GENERATION_DEFAULT_MODE" default:"html"`
	GenerationStrategy    string        `envconfig:"GENERATION_STRATEGY"`
	PreviewInterval       time.Duration `envconfig:"PREVIEW_INTERVAL" default:"1s"`
	SitePrice             float64       `envconfig:"SITE_PRICE" default:"75.99"`
	SiteCurrency          string        `envconfig:"SITE_CURRENCY" default:"USD"`
	DiscountEmails        string        `envconfig:"DISCOUNT_EMAILS"`

	SitesBucket         string `envconfig:"SITES_GCS_BUCKET_NAME"`
	SitesCDNDomain      string `envconfig:"SITES_CDN_DOMAIN"`
	SitesPublicBaseURL  string `envconfig:"SITES_PUBLIC_BASE_URL"`
	GCPCredentials      string `envconfig:"GOOGLE_APPLICATION_CREDENTIALS_JSON"`
	ObjectStorageMode   string `envconfig:"OBJECT_STORAGE_MODE"`
	StorageEmulatorHost string `envconfig:"STORAGE_EMULATOR_HOST"`

	RedisAddr     string `envconfig:"REDIS_ADDR"`
	RedisPassword string `envconfig:"REDIS_PASSWORD"`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`
	RedisChannel  string `envconfig:"REDIS_CHANNEL" default:"foundrr:sse"`

	UnsplashAccessKey   string        `envconfig:"UNSPLASH_ACCESS_KEY"`
	PexelsAPIKey        string        `envconfig:"PEXELS_API_KEY"`
	PollinationsEnabled bool          `envconfig:"POLLINATIONS_ENABLED" default:"false"`
	ImageTimeout        time.Duration `envconfig:"IMAGE_TIMEOUT" default:"5s"`

	PaymentsBaseURL       string        `envconfig:"PAYMENTS_API_BASE_URL"`
	PaymentsAPIKey        string        `envconfig:"PAYMENTS_API_KEY"`
	PaymentsProductID     string        `envconfig:"PAYMENTS_PRODUCT_ID"`
	PaymentsWebhookSecret string        `envconfig:"PAYMENTS_WEBHOOK_SECRET"`
	PaymentsTimeout       time.Duration `envconfig:"PAYMENTS_TIMEOUT" default:"20s"`

	MetricsEnabled bool `envconfig:"METRICS_ENABLED" default:"true"`
	OtelEnabled    bool `envconfig:"OTEL_ENABLED" default:"false"`

	SLOEnabled           bool          `envconfig:"SLO_ENABLED" default:"false"`
	SLOInterval          time.Duration `envconfig:"SLO_EVAL_INTERVAL" default:"1m"`
	SLOWindow            time.Duration `envconfig:"SLO_WINDOW" default:"24h"`
	SLOAPITarget         float64       `envconfig:"SLO_API_AVAIL_TARGET" default:"0.995"`
	SLOGenerationTarget  float64       `envconfig:"SLO_GENERATION_SUCCESS_TARGET" default:"0.95"`
	SLOPersistTarget     float64       `envconfig:"SLO_PERSIST_SUCCESS_TARGET" default:"0.99"`
	SLOAlertWebhook      string        `envconfig:"SLO_ALERT_WEBHOOK_URL"`
	SLOAlertOwner        string        `envconfig:"SLO_ALERT_OWNER"`
	SLOAlertRunbook      string        `envconfig:"SLO_ALERT_RUNBOOK_URL"`
	SLOAlertMinInterval  time.Duration `envconfig:"SLO_ALERT_MIN_INTERVAL" default:"15m"`
	SLOAlertBurnRateWarn float64       `envconfig:"SLO_ALERT_BURN_RATE_WARN" default:"2"`
	SLOAlertBurnRateCrit float64       `envconfig:"SLO_ALERT_BURN_RATE_CRIT" default:"10"`
}

// LoadConfig reads .env when present, then the process environment.
func LoadConfig() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.JWTSecretKey) == "" {
		return fmt.Errorf("missing JWT_SECRET_KEY")
	}
	if c.SitePrice <= 0 {
		return fmt.Errorf("SITE_PRICE must be positive, got %v", c.SitePrice)
	}
	switch types.Mode(strings.ToLower(c.GenerationDefaultMode)) {
	case types.ModeHTML, types.ModeSPA:
	default:
		return fmt.Errorf("invalid GENERATION_DEFAULT_MODE=%q", c.GenerationDefaultMode)
	}
	switch generation.Strategy(strings.ToLower(c.GenerationStrategy)) {
	case generation.StrategyAuto, generation.StrategyStreamed, generation.StrategyBuffered:
	default:
		return fmt.Errorf("invalid GENERATION_STRATEGY=%q", c.GenerationStrategy)
	}
	if _, err := payments.ParseDiscounts(c.DiscountEmails); err != nil {
		return fmt.Errorf("invalid DISCOUNT_EMAILS: %w", err)
	}
	return nil
}

func (c Config) Postgres() db.PostgresConfig {
	return db.PostgresConfig{
		Host:     c.PostgresHost,
		Port:     c.PostgresPort,
		User:     c.PostgresUser,
		Password: c.PostgresPassword,
		Name:     c.PostgresName,
		SSLMode:  c.PostgresSSLMode,
	}
}

func (c Config) Generation() generation.Config {
	return generation.Config{
		DefaultMode:     types.Mode(strings.ToLower(c.GenerationDefaultMode)),
		Strategy:        generation.Strategy(strings.ToLower(c.GenerationStrategy)),
		PreviewInterval: c.PreviewInterval,
		Price:           c.SitePrice,
		Currency:        c.SiteCurrency,
	}
}

func (c Config) Bucket() (gcp.BucketConfig, error) {
	storage, err := gcp.ResolveObjectStorageConfig(c.ObjectStorageMode, c.StorageEmulatorHost)
	if err != nil {
		return gcp.BucketConfig{}, err
	}
	return gcp.BucketConfig{
		Name:          c.SitesBucket,
		CDNDomain:     c.SitesCDNDomain,
		PublicBaseURL: c.SitesPublicBaseURL,
		Credentials:   c.GCPCredentials,
		Storage:       storage,
	}, nil
}

// Payments is only valid after Validate.
func (c Config) Payments() payments.Config {
	discounts, _ := payments.ParseDiscounts(c.DiscountEmails)
	return payments.Config{
		Price:     c.SitePrice,
		Currency:  c.SiteCurrency,
		Discounts: discounts,
		AppURL:    c.AppURL,
	}
}

func (c Config) SLO() observability.SLOConfig {
	return observability.SLOConfig{
		Enabled:                 c.SLOEnabled && c.MetricsEnabled,
		Interval:                c.SLOInterval,
		Window:                  c.SLOWindow,
		APIAvailabilityTarget:   c.SLOAPITarget,
		GenerationSuccessTarget: c.SLOGenerationTarget,
		PersistSuccessTarget:    c.SLOPersistTarget,
		AlertWebhook:            c.SLOAlertWebhook,
		AlertOwner:              c.SLOAlertOwner,
		AlertRunbook:            c.SLOAlertRunbook,
		AlertMinInterval:        c.SLOAlertMinInterval,
		AlertBurnWarn:           c.SLOAlertBurnRateWarn,
		AlertBurnCrit:           c.SLOAlertBurnRateCrit,
	}
}

func (c Config) CORSOriginList() []string {
	var out []string
	for _, o := range strings.Split(c.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
