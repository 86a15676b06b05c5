package gcp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/foundrr/foundrr-backend/internal/platform/logger"
)

var (
	ErrObjectNotFound = errors.New("object not found")
	ErrObjectExists   = errors.New("object already exists")
)

// BucketService stores generated site documents in a single bucket.
type BucketService interface {
	UploadObject(ctx context.Context, key string, body io.Reader, contentType string) error
	// CreateObject writes key only if it does not exist yet; otherwise ErrObjectExists.
	CreateObject(ctx context.Context, key string, body io.Reader, contentType string) error
	DeleteObject(ctx context.Context, key string) error
	DownloadObject(ctx context.Context, key string) (io.ReadCloser, error)
	ObjectExists(ctx context.Context, key string) (bool, error)
	PublicURL(key string) string
	Close() error
}

type BucketConfig struct {
	Name          string
	CDNDomain     string
	PublicBaseURL string
	Credentials   string
	Storage       ObjectStorageConfig
}

type bucketService struct {
	log           *logger.Logger
	client        *storage.Client
	httpClient    *http.Client
	bucket        string
	cdnDomain     string
	publicBaseURL string
	storageMode   ObjectStorageMode
	emulatorHost  string
}

func NewBucketService(log *logger.Logger, cfg BucketConfig) (BucketService, error) {
	if err := ValidateObjectStorageConfig(cfg.Storage); err != nil {
		return nil, fmt.Errorf("validate object storage config: %w", err)
	}
	if strings.TrimSpace(cfg.Name) == "" {
		return nil, fmt.Errorf("missing SITES_GCS_BUCKET_NAME")
	}
	publicBaseURL, publicBaseSource, err := resolvePublicBaseURL(cfg.PublicBaseURL, cfg.Storage)
	if err != nil {
		return nil, err
	}

	client, err := newStorageClientForMode(context.Background(), cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	serviceLog := log.With("service", "BucketService")
	serviceLog.Info(
		"Object storage initialized",
		"mode", cfg.Storage.Mode,
		"mode_source", cfg.Storage.ModeSource(),
		"emulator_host", cfg.Storage.EmulatorHost,
		"public_base_source", publicBaseSource,
		"bucket", cfg.Name,
	)

	return &bucketService{
		log:           serviceLog,
		client:        client,
		httpClient:    &http.Client{Timeout: 2 * time.Minute},
		bucket:        cfg.Name,
		cdnDomain:     strings.TrimSpace(cfg.CDNDomain),
		publicBaseURL: publicBaseURL,
		storageMode:   cfg.Storage.Mode,
		emulatorHost:  strings.TrimRight(cfg.Storage.EmulatorHost, "/"),
	}, nil
}

func newStorageClientForMode(ctx context.Context, cfg BucketConfig) (*storage.Client, error) {
	switch cfg.Storage.Mode {
	case ObjectStorageModeGCS:
		opts := ClientOptions(cfg.Credentials)
		opts = append(opts, option.WithScopes(storage.ScopeReadWrite))
		return storage.NewClient(ctx, opts...)
	case ObjectStorageModeGCSEmulator:
		// The storage client reads the emulator endpoint from the environment.
		_ = os.Setenv("STORAGE_EMULATOR_HOST", strings.TrimRight(cfg.Storage.EmulatorHost, "/"))
		return storage.NewClient(ctx, option.WithoutAuthentication())
	default:
		return nil, &ObjectStorageConfigError{Code: ObjectStorageConfigErrorInvalidMode, Mode: string(cfg.Storage.Mode)}
	}
}

func resolvePublicBaseURL(raw string, storageCfg ObjectStorageConfig) (baseURL string, source string, err error) {
	raw = strings.TrimSpace(raw)
	if raw != "" {
		parsed, parseErr := url.Parse(raw)
		if parseErr != nil || parsed.Scheme == "" || parsed.Host == "" {
			return "", "", fmt.Errorf("invalid OBJECT_STORAGE_PUBLIC_BASE_URL=%q; expected absolute URL like http://localhost:4443", raw)
		}
		return strings.TrimRight(raw, "/"), "object_storage_public_base_url", nil
	}
	if storageCfg.IsEmulatorMode() {
		return strings.TrimRight(storageCfg.EmulatorHost, "/"), "storage_emulator_host", nil
	}
	return "", "gcs_default", nil
}

func (bs *bucketService) UploadObject(ctx context.Context, key string, body io.Reader, contentType string) error {
	return bs.write(ctx, bs.client.Bucket(bs.bucket).Object(key), key, body, contentType)
}

func (bs *bucketService) CreateObject(ctx context.Context, key string, body io.Reader, contentType string) error {
	obj := bs.client.Bucket(bs.bucket).Object(key).If(storage.Conditions{DoesNotExist: true})
	err := bs.write(ctx, obj, key, body, contentType)
	var gerr *googleapi.Error
	if errors.As(err, &gerr) && gerr.Code == http.StatusPreconditionFailed {
		return fmt.Errorf("%w: %s", ErrObjectExists, key)
	}
	return err
}

func (bs *bucketService) write(ctx context.Context, obj *storage.ObjectHandle, key string, body io.Reader, contentType string) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	w := obj.NewWriter(ctx)
	w.ContentType = contentType
	if w.ContentType == "" {
		w.ContentType = contentTypeForKey(key)
	}
	w.CacheControl = "no-cache"
	if _, err := io.Copy(w, body); err != nil {
		_ = w.Close()
		return fmt.Errorf("failed to write data to GCS: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to close GCS writer: %w", err)
	}
	return nil
}

func contentTypeForKey(key string) string {
	s := strings.ToLower(strings.TrimSpace(key))
	if i := strings.Index(s, "?"); i >= 0 {
		s = s[:i]
	}
	switch {
	case strings.HasSuffix(s, ".html"), strings.HasSuffix(s, ".htm"):
		return "text/html; charset=utf-8"
	case strings.HasSuffix(s, ".js"), strings.HasSuffix(s, ".jsx"):
		return "text/javascript; charset=utf-8"
	case strings.HasSuffix(s, ".css"):
		return "text/css; charset=utf-8"
	case strings.HasSuffix(s, ".json"):
		return "application/json"
	case strings.HasSuffix(s, ".png"):
		return "image/png"
	case strings.HasSuffix(s, ".svg"):
		return "image/svg+xml"
	default:
		return "application/octet-stream"
	}
}

// DeleteObject is idempotent: a missing object is not an error.
func (bs *bucketService) DeleteObject(ctx context.Context, key string) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	err := bs.client.Bucket(bs.bucket).Object(key).Delete(ctx)
	if err != nil && !errors.Is(err, storage.ErrObjectNotExist) {
		return fmt.Errorf("failed to delete GCS object %q in bucket %q: %w", key, bs.bucket, err)
	}
	return nil
}

func (bs *bucketService) ObjectExists(ctx context.Context, key string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	_, err := bs.client.Bucket(bs.bucket).Object(key).Attrs(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to fetch GCS object attrs: %w", err)
	}
	return true, nil
}

// The reader owns its timeout context; Close releases it.
type readCloserWithCancel struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (r *readCloserWithCancel) Close() error {
	err := r.ReadCloser.Close()
	if r.cancel != nil {
		r.cancel()
	}
	return err
}

func (bs *bucketService) DownloadObject(ctx context.Context, key string) (io.ReadCloser, error) {
	ctx2, cancel := context.WithTimeout(ctx, 2*time.Minute)
	if bs.storageMode == ObjectStorageModeGCSEmulator && bs.emulatorHost != "" {
		rc, err := bs.downloadFromEmulator(ctx2, key)
		if err != nil {
			cancel()
			return nil, err
		}
		return &readCloserWithCancel{ReadCloser: rc, cancel: cancel}, nil
	}

	r, err := bs.client.Bucket(bs.bucket).Object(key).NewReader(ctx2)
	if errors.Is(err, storage.ErrObjectNotExist) {
		cancel()
		return nil, ErrObjectNotFound
	}
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to open GCS reader: %w", err)
	}
	return &readCloserWithCancel{ReadCloser: r, cancel: cancel}, nil
}

func (bs *bucketService) downloadFromEmulator(ctx context.Context, key string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, bs.emulatorObjectMediaURL(bs.emulatorHost, key), nil)
	if err != nil {
		return nil, fmt.Errorf("failed creating emulator download request: %w", err)
	}
	resp, err := bs.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed emulator download request: %w", err)
	}
	if resp.StatusCode == http.StatusNotFound {
		_ = resp.Body.Close()
		return nil, ErrObjectNotFound
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		_ = resp.Body.Close()
		return nil, fmt.Errorf("emulator download failed: status=%d body=%s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return resp.Body, nil
}

func (bs *bucketService) emulatorObjectMediaURL(base, key string) string {
	return fmt.Sprintf("%s/storage/v1/b/%s/o/%s?alt=media",
		strings.TrimRight(base, "/"), url.PathEscape(bs.bucket), url.PathEscape(key))
}

func (bs *bucketService) PublicURL(key string) string {
	key = strings.TrimLeft(strings.TrimSpace(key), "/")
	if bs.cdnDomain != "" {
		return fmt.Sprintf("https://%s/%s", bs.cdnDomain, key)
	}
	if bs.storageMode == ObjectStorageModeGCSEmulator {
		base := bs.publicBaseURL
		if base == "" {
			base = bs.emulatorHost
		}
		if base != "" {
			return bs.emulatorObjectMediaURL(base, key)
		}
	}
	if bs.publicBaseURL != "" {
		return fmt.Sprintf("%s/%s/%s", bs.publicBaseURL, bs.bucket, key)
	}
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", bs.bucket, key)
}

func (bs *bucketService) Close() error {
	if bs == nil || bs.client == nil {
		return nil
	}
	return bs.client.Close()
}
