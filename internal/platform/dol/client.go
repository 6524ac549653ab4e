// Package dol talks to the Department of Lands parcel search portal through a
// scraping proxy. The portal requires a three-step session negotiation before
// any data query: a cookie bootstrap, a token exchange bound to those cookies,
// and finally the parcel query itself.
package dol

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/chanotech/chanote-backend/internal/platform/envutil"
	"github.com/chanotech/chanote-backend/internal/platform/logger"
)

// CookieHeader is the bespoke response header the proxy uses to hand back the
// portal session cookies. The value is "name=value;name=value" — not a
// standard Set-Cookie header, so it gets a fixed-format parser of its own.
const CookieHeader = "X-Dol-Session-Cookies"

type Config struct {
	BaseURL        string
	APIKey         string
	MaxRetries     int
	RetryBaseDelay time.Duration
	HTTPClient     *http.Client
}

type Client struct {
	log            *logger.Logger
	baseURL        string
	apiKey         string
	maxRetries     int
	retryBaseDelay time.Duration
	httpClient     *http.Client
}

func NewClient(log *logger.Logger, cfg Config) (*Client, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("missing DoL base URL")
	}
	maxRetries := cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 3
	}
	baseDelay := cfg.RetryBaseDelay
	if baseDelay <= 0 {
		baseDelay = 1 * time.Second
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		log:            log.With("service", "DolClient"),
		baseURL:        baseURL,
		apiKey:         strings.TrimSpace(cfg.APIKey),
		maxRetries:     maxRetries,
		retryBaseDelay: baseDelay,
		httpClient:     httpClient,
	}, nil
}

func NewClientFromEnv(log *logger.Logger) (*Client, error) {
	return NewClient(log, Config{
		BaseURL:        envutil.String("DOL_PROXY_BASE_URL", ""),
		APIKey:         os.Getenv("DOL_PROXY_API_KEY"),
		MaxRetries:     envutil.Int("DOL_MAX_RETRIES", 3),
		RetryBaseDelay: time.Duration(envutil.Int("DOL_RETRY_BASE_DELAY_MS", 1000)) * time.Millisecond,
	})
}

// session holds the portal state produced by the bootstrap and token steps.
// It is threaded through the protocol explicitly; a session must not be
// shared across concurrent lookups.
type session struct {
	cookies   string
	token     string
	sessionID string
}

// ParcelRecord is the authoritative record returned by the land registry.
// It is never mutated after the query returns; Raw keeps the full portal
// payload for persistence alongside the parsed fields.
type ParcelRecord struct {
	ParcelNo           string          `json:"parcelNo"`
	OwnerName          string          `json:"ownerName"`
	LandClassification string          `json:"landClassification"`
	AreaRai            string          `json:"areaRai"`
	AreaNgan           string          `json:"areaNgan"`
	AreaWa             string          `json:"areaWa"`
	Latitude           float64         `json:"latitude"`
	Longitude          float64         `json:"longitude"`
	ProvinceName       string          `json:"provinceName"`
	DistrictName       string          `json:"districtName"`
	Raw                json.RawMessage `json:"-"`
}

// FetchParcelRecord validates its inputs, negotiates a fresh portal session
// and queries the parcel record. Unlike the extraction and resolution stages,
// failures here propagate: the caller decides how to degrade.
func (c *Client) FetchParcelRecord(ctx context.Context, provinceCode, districtCode, parcelNo string) (*ParcelRecord, error) {
	pv, err := strconv.Atoi(strings.TrimSpace(provinceCode))
	if err != nil {
		return nil, fmt.Errorf("invalid province code %q: not a number", provinceCode)
	}
	if pv < 1 || pv > 96 {
		return nil, fmt.Errorf("invalid province code %d: must be between 1 and 96", pv)
	}
	parcel, err := strconv.Atoi(strings.TrimSpace(parcelNo))
	if err != nil {
		return nil, fmt.Errorf("invalid parcel number %q: not a number", parcelNo)
	}
	if parcel <= 0 {
		return nil, fmt.Errorf("invalid parcel number %d: must be positive", parcel)
	}
	am := strings.TrimSpace(districtCode)
	if len(am) == 1 {
		am = "0" + am
	}

	sess, err := c.bootstrapSession(ctx)
	if err != nil {
		return nil, fmt.Errorf("dol session bootstrap: %w", err)
	}
	if err := c.exchangeToken(ctx, sess); err != nil {
		return nil, fmt.Errorf("dol token exchange: %w", err)
	}
	record, err := c.queryParcel(ctx, sess, pv, am, parcel)
	if err != nil {
		return nil, fmt.Errorf("dol parcel query: %w", err)
	}
	return record, nil
}

// withRetry runs fn up to maxRetries times with a delay that grows linearly
// with the attempt number. The last error is returned when attempts exhaust.
func (c *Client) withRetry(ctx context.Context, step string, fn func() error) error {
	var lastErr error
	for attempt := 1; attempt <= c.maxRetries; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		lastErr = fn()
		if lastErr == nil {
			return nil
		}
		if attempt == c.maxRetries {
			break
		}
		sleepFor := time.Duration(attempt) * c.retryBaseDelay
		c.log.Warn("DoL request retrying",
			"step", step,
			"attempt", attempt,
			"max_retries", c.maxRetries,
			"sleep", sleepFor.String(),
			"error", lastErr.Error(),
		)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(sleepFor):
		}
	}
	return lastErr
}

func (c *Client) newRequest(ctx context.Context, method, path string, body any, sess *session) (*http.Request, error) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, err
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("X-Api-Key", c.apiKey)
	}
	if sess != nil {
		if sess.cookies != "" {
			req.Header.Set("Cookie", sess.cookies)
		}
		if sess.token != "" {
			req.Header.Set("Authorization", "Bearer "+sess.token)
		}
	}
	return req, nil
}

func (c *Client) doJSON(req *http.Request, out any) (*http.Response, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	raw, readErr := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if readErr != nil {
		return resp, readErr
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp, fmt.Errorf("dol http %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}
	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return resp, fmt.Errorf("dol decode error: %w; raw=%s", err, string(raw))
		}
	}
	return resp, nil
}

// parseCookieHeader parses the proxy's "name=value;name=value" cookie header
// into a Cookie request-header value. Pairs with no "=" are dropped.
func parseCookieHeader(raw string) string {
	parts := strings.Split(raw, ";")
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" || !strings.Contains(p, "=") {
			continue
		}
		kept = append(kept, p)
	}
	return strings.Join(kept, "; ")
}

func (c *Client) bootstrapSession(ctx context.Context) (*session, error) {
	sess := &session{}
	err := c.withRetry(ctx, "bootstrap", func() error {
		req, err := c.newRequest(ctx, http.MethodGet, "/dol/session", nil, nil)
		if err != nil {
			return err
		}
		resp, err := c.doJSON(req, nil)
		if err != nil {
			return err
		}
		raw := strings.TrimSpace(resp.Header.Get(CookieHeader))
		if raw == "" {
			return fmt.Errorf("bootstrap response missing %s header", CookieHeader)
		}
		cookies := parseCookieHeader(raw)
		if cookies == "" {
			return fmt.Errorf("bootstrap cookie header %q had no usable pairs", raw)
		}
		sess.cookies = cookies
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sess, nil
}

func (c *Client) exchangeToken(ctx context.Context, sess *session) error {
	return c.withRetry(ctx, "token", func() error {
		req, err := c.newRequest(ctx, http.MethodPost, "/dol/token", map[string]any{}, sess)
		if err != nil {
			return err
		}
		var payload struct {
			AccessToken string `json:"accessToken"`
			SessionID   string `json:"sessionId"`
		}
		if _, err := c.doJSON(req, &payload); err != nil {
			return err
		}
		if strings.TrimSpace(payload.AccessToken) == "" {
			return fmt.Errorf("token response missing accessToken")
		}
		sess.token = strings.TrimSpace(payload.AccessToken)
		sess.sessionID = strings.TrimSpace(payload.SessionID)
		return nil
	})
}

func (c *Client) queryParcel(ctx context.Context, sess *session, provinceCode int, districtCode string, parcelNo int) (*ParcelRecord, error) {
	var record *ParcelRecord
	err := c.withRetry(ctx, "query", func() error {
		body := map[string]any{
			"sessionId":  sess.sessionID,
			"provinceId": provinceCode,
			"amphurId":   districtCode,
			"parcelNo":   parcelNo,
		}
		req, err := c.newRequest(ctx, http.MethodPost, "/dol/parcel/search", body, sess)
		if err != nil {
			return err
		}
		var raw json.RawMessage
		if _, err := c.doJSON(req, &raw); err != nil {
			return err
		}
		parsed := &ParcelRecord{}
		if err := json.Unmarshal(raw, parsed); err != nil {
			return fmt.Errorf("dol parcel decode: %w", err)
		}
		parsed.Raw = raw
		record = parsed
		return nil
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}
