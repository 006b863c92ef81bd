package service

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/josh-kwaku/ledger-sync/internal/domain"
	"github.com/josh-kwaku/ledger-sync/internal/logging"
)

const (
	maxPayloadBytes   = 32 << 20
	errorSnippetBytes = 512
	probeSampleChars  = 500
)

type UpstreamConfig struct {
	BaseURL            string
	Layout             string
	RecordID           string
	Script             string
	Username           string
	Password           string
	Timeout            time.Duration
	InsecureSkipVerify bool
}

// UpstreamClient talks to the accounting data API: a basic-auth session login
// followed by a script call whose result is a JSON-encoded array of accounts.
type UpstreamClient struct {
	cfg        UpstreamConfig
	httpClient *http.Client
}

func NewUpstreamClient(cfg UpstreamConfig) *UpstreamClient {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	if cfg.InsecureSkipVerify {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec // opt-in for self-signed upstreams
	}

	return &UpstreamClient{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: transport,
		},
	}
}

type sessionResponse struct {
	Response struct {
		Token string `json:"token"`
	} `json:"response"`
}

type scriptRequest struct {
	FieldData map[string]any `json:"fieldData"`
	Script    string         `json:"script"`
}

type scriptResponse struct {
	Response struct {
		ScriptResult *string `json:"scriptResult"`
	} `json:"response"`
}

// Login opens a session and returns its bearer token.
func (c *UpstreamClient) Login(ctx context.Context) (string, error) {
	log := logging.FromContext(ctx)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/sessions", bytes.NewReader([]byte("{}")))
	if err != nil {
		return "", fmt.Errorf("Login: build request: %w: %w", domain.ErrTransport, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.SetBasicAuth(c.cfg.Username, c.cfg.Password)

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("Login: send: %w: %w", domain.ErrTransport, err)
	}
	defer resp.Body.Close()

	log.Info("upstream session response received",
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("Login: %w", unexpectedStatus(resp))
	}

	var body sessionResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxPayloadBytes)).Decode(&body); err != nil {
		return "", fmt.Errorf("Login: decode: %w: %w", domain.ErrParse, err)
	}
	if body.Response.Token == "" {
		return "", fmt.Errorf("Login: %w: response carries no token", domain.ErrParse)
	}

	return body.Response.Token, nil
}

// FetchScriptResult runs the configured script on the configured record and
// returns the raw scriptResult string.
func (c *UpstreamClient) FetchScriptResult(ctx context.Context, token string) (string, error) {
	log := logging.FromContext(ctx)

	payload, err := json.Marshal(scriptRequest{FieldData: map[string]any{}, Script: c.cfg.Script})
	if err != nil {
		return "", fmt.Errorf("FetchScriptResult: marshal: %w", err)
	}

	url := fmt.Sprintf("%s/layouts/%s/records/%s", c.cfg.BaseURL, c.cfg.Layout, c.cfg.RecordID)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPatch, url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("FetchScriptResult: build request: %w: %w", domain.ErrTransport, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+token)

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("FetchScriptResult: send: %w: %w", domain.ErrTransport, err)
	}
	defer resp.Body.Close()

	log.Info("upstream data response received",
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("FetchScriptResult: %w", unexpectedStatus(resp))
	}

	var body scriptResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxPayloadBytes)).Decode(&body); err != nil {
		return "", fmt.Errorf("FetchScriptResult: decode: %w: %w", domain.ErrParse, err)
	}
	if body.Response.ScriptResult == nil {
		return "", fmt.Errorf("FetchScriptResult: %w: response carries no scriptResult", domain.ErrParse)
	}

	return *body.Response.ScriptResult, nil
}

// Logout closes the session. Failures are logged only; the upstream expires
// idle sessions on its own.
func (c *UpstreamClient) Logout(ctx context.Context, token string) {
	log := logging.FromContext(ctx)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.cfg.BaseURL+"/sessions/"+token, nil)
	if err != nil {
		log.Warn("upstream logout failed", "error", err)
		return
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		log.Warn("upstream logout failed", "error", err)
		return
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, errorSnippetBytes))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Warn("upstream logout rejected", "status", resp.StatusCode)
	}
}

// FetchEntries performs a full login, fetch and logout round trip and
// decodes the ledger entries.
func (c *UpstreamClient) FetchEntries(ctx context.Context) ([]domain.LedgerEntry, error) {
	token, err := c.Login(ctx)
	if err != nil {
		return nil, fmt.Errorf("FetchEntries: %w", err)
	}
	defer c.Logout(context.WithoutCancel(ctx), token)

	raw, err := c.FetchScriptResult(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("FetchEntries: %w", err)
	}

	entries, err := ParseEntries(raw)
	if err != nil {
		return nil, fmt.Errorf("FetchEntries: %w", err)
	}

	logging.FromContext(ctx).Info("ledger entries fetched", "count", len(entries))
	return entries, nil
}

type ProbeResult struct {
	TokenReceived bool
	RawLength     int
	RawSample     string
}

// Probe checks connectivity without touching storage.
func (c *UpstreamClient) Probe(ctx context.Context) (*ProbeResult, error) {
	token, err := c.Login(ctx)
	if err != nil {
		return nil, fmt.Errorf("Probe: %w", err)
	}
	defer c.Logout(context.WithoutCancel(ctx), token)

	raw, err := c.FetchScriptResult(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("Probe: %w", err)
	}

	sample := raw
	if r := []rune(raw); len(r) > probeSampleChars {
		sample = string(r[:probeSampleChars])
	}

	return &ProbeResult{
		TokenReceived: true,
		RawLength:     len(raw),
		RawSample:     sample,
	}, nil
}

type upstreamEntry struct {
	AccountCode json.RawMessage `json:"hesap_kodu"`
	AccountName json.RawMessage `json:"hesap_adi"`
	Debit       json.RawMessage `json:"borc"`
	Credit      json.RawMessage `json:"alacak"`
}

// ParseEntries decodes a scriptResult payload. Fields may arrive as strings,
// numbers or null; each is kept as its textual form and interpreted later.
func ParseEntries(raw string) ([]domain.LedgerEntry, error) {
	var items []upstreamEntry
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, fmt.Errorf("ParseEntries: %w: %w", domain.ErrParse, err)
	}

	entries := make([]domain.LedgerEntry, 0, len(items))
	for _, item := range items {
		entries = append(entries, domain.LedgerEntry{
			AccountCode: fieldText(item.AccountCode),
			AccountName: fieldText(item.AccountName),
			Debit:       domain.RawAmount(fieldText(item.Debit)),
			Credit:      domain.RawAmount(fieldText(item.Credit)),
		})
	}
	return entries, nil
}

func fieldText(v json.RawMessage) string {
	s := strings.TrimSpace(string(v))
	if s == "" || s == "null" {
		return ""
	}
	if strings.HasPrefix(s, `"`) {
		var out string
		if err := json.Unmarshal(v, &out); err == nil {
			return out
		}
	}
	return s
}

func unexpectedStatus(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, errorSnippetBytes))
	return fmt.Errorf("%w: unexpected status %d: %s", domain.ErrTransport, resp.StatusCode, strings.TrimSpace(string(body)))
}
