package images

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// NewHTTPClient returns the traced client shared by the network sources.
func NewHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &http.Client{
		Timeout:   timeout,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}
}

type unsplash struct {
	hc      *http.Client
	baseURL string
	key     string
}

// NewUnsplash returns nil without an access key so the chain skips it.
func NewUnsplash(hc *http.Client, baseURL, accessKey string) Source {
	if strings.TrimSpace(accessKey) == "" {
		return nil
	}
	if baseURL == "" {
		baseURL = "https://api.unsplash.com"
	}
	return &unsplash{hc: hc, baseURL: strings.TrimRight(baseURL, "/"), key: strings.TrimSpace(accessKey)}
}

func (u *unsplash) Name() string { return "unsplash" }

func (u *unsplash) Resolve(ctx context.Context, query string) (string, error) {
	q := url.Values{}
	q.Set("query", query)
	q.Set("orientation", "landscape")
	q.Set("client_id", u.key)

	var body struct {
		URLs struct {
			Regular string `json:"regular"`
			Small   string `json:"small"`
		} `json:"urls"`
	}
	if err := getJSON(ctx, u.hc, u.baseURL+"/photos/random?"+q.Encode(), nil, &body); err != nil {
		return "", fmt.Errorf("unsplash: %w", err)
	}
	if body.URLs.Regular != "" {
		return body.URLs.Regular, nil
	}
	if body.URLs.Small != "" {
		return body.URLs.Small, nil
	}
	return "", ErrNoImage
}

type pexels struct {
	hc      *http.Client
	baseURL string
	key     string
}

func NewPexels(hc *http.Client, baseURL, apiKey string) Source {
	if strings.TrimSpace(apiKey) == "" {
		return nil
	}
	if baseURL == "" {
		baseURL = "https://api.pexels.com"
	}
	return &pexels{hc: hc, baseURL: strings.TrimRight(baseURL, "/"), key: strings.TrimSpace(apiKey)}
}

func (p *pexels) Name() string { return "pexels" }

func (p *pexels) Resolve(ctx context.Context, query string) (string, error) {
	q := url.Values{}
	q.Set("query", query)
	q.Set("per_page", "1")

	var body struct {
		Photos []struct {
			Src struct {
				Large string `json:"large"`
			} `json:"src"`
		} `json:"photos"`
	}
	headers := http.Header{"Authorization": []string{p.key}}
	if err := getJSON(ctx, p.hc, p.baseURL+"/v1/search?"+q.Encode(), headers, &body); err != nil {
		return "", fmt.Errorf("pexels: %w", err)
	}
	if len(body.Photos) == 0 || body.Photos[0].Src.Large == "" {
		return "", ErrNoImage
	}
	return body.Photos[0].Src.Large, nil
}

type pollinations struct{}

// NewPollinations builds generative image URLs. It cannot fail, so it
// shadows the static placeholder whenever it is enabled.
func NewPollinations(enabled bool) Source {
	if !enabled {
		return nil
	}
	return pollinations{}
}

func (pollinations) Name() string { return "pollinations" }

func (pollinations) Resolve(ctx context.Context, query string) (string, error) {
	return "https://image.pollinations.ai/prompt/" + url.PathEscape(query) + "?width=800&height=600&nologo=true", nil
}

func getJSON(ctx context.Context, hc *http.Client, endpoint string, headers http.Header, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	for k, vs := range headers {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	resp, err := hc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(out); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	return nil
}
