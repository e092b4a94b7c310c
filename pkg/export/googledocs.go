package export

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"time"

	"github.com/inkdraft/inkdraft/pkg/config"
	"github.com/inkdraft/inkdraft/pkg/models"
	"github.com/pkg/errors"
	"github.com/segmentio/encoding/json"
)

// DocsExportResult is what a successful Google Docs export returns.
type DocsExportResult struct {
	DocumentURL string `json:"document_url"`
	DocumentID  string `json:"document_id"`
}

// DocsExporter brokers the Google OAuth connection and the Docs export. The
// production implementation talks to the generation gateway; tests inject
// fakes.
type DocsExporter interface {
	CheckConnection(ctx context.Context, userID int) (bool, error)
	InitiateOAuth(ctx context.Context, userID int) (string, error)
	Export(ctx context.Context, userID int, ebook *models.Ebook) (*DocsExportResult, error)
}

// GoogleClient is the HTTP-backed DocsExporter against the generation
// gateway's Google endpoints.
type GoogleClient struct {
	baseURL      string
	apiKey       string
	httpClient   *http.Client
	pollInterval time.Duration
	waitTimeout  time.Duration
}

func NewGoogleClient(cfg *config.Config) *GoogleClient {
	return &GoogleClient{
		baseURL:      cfg.GenerationBaseURL,
		apiKey:       cfg.GenerationAPIKey,
		httpClient:   &http.Client{Timeout: cfg.GenerationTimeout},
		pollInterval: cfg.GooglePollInterval,
		waitTimeout:  cfg.GoogleConnectTimeout,
	}
}

func (c *GoogleClient) post(ctx context.Context, path string, payload, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return errors.WithStack(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return errors.WithStack(err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.WithStack(err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.WithStack(err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return errors.Errorf("google gateway returned %d for %s", resp.StatusCode, path)
	}

	return errors.WithStack(json.Unmarshal(respBody, out))
}

func (c *GoogleClient) CheckConnection(ctx context.Context, userID int) (bool, error) {
	out := struct {
		HasConnection bool   `json:"has_connection"`
		Error         string `json:"error"`
	}{}
	payload := struct {
		UserID int `json:"user_id"`
	}{userID}

	if err := c.post(ctx, "/v1/google/connection", payload, &out); err != nil {
		return false, err
	}
	if out.Error != "" {
		return false, errors.New(out.Error)
	}
	return out.HasConnection, nil
}

func (c *GoogleClient) InitiateOAuth(ctx context.Context, userID int) (string, error) {
	out := struct {
		Success bool   `json:"success"`
		AuthURL string `json:"auth_url"`
		Error   string `json:"error"`
	}{}
	payload := struct {
		UserID int `json:"user_id"`
	}{userID}

	if err := c.post(ctx, "/v1/google/oauth", payload, &out); err != nil {
		return "", err
	}
	if !out.Success {
		return "", errors.New(out.Error)
	}
	return out.AuthURL, nil
}

func (c *GoogleClient) Export(ctx context.Context, userID int, ebook *models.Ebook) (*DocsExportResult, error) {
	out := struct {
		Success     bool   `json:"success"`
		DocumentURL string `json:"document_url"`
		DocumentID  string `json:"document_id"`
		Error       string `json:"error"`
	}{}
	payload := struct {
		UserID int           `json:"user_id"`
		Ebook  *models.Ebook `json:"ebook"`
	}{userID, ebook}

	if err := c.post(ctx, "/v1/google/export", payload, &out); err != nil {
		return nil, err
	}
	if !out.Success {
		return nil, errors.New(out.Error)
	}
	return &DocsExportResult{DocumentURL: out.DocumentURL, DocumentID: out.DocumentID}, nil
}

// WaitForConnection polls the connection check until the user finishes the
// OAuth dance in their browser, or gives up after the configured window.
func WaitForConnection(ctx context.Context, exporter DocsExporter, userID int, interval, timeout time.Duration) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	timer := time.NewTimer(interval)
	defer timer.Stop()

	for {
		connected, err := exporter.CheckConnection(ctx, userID)
		if err == nil && connected {
			return true, nil
		}

		select {
		case <-ctx.Done():
			return false, nil
		case <-timer.C:
			timer.Reset(interval)
		}
	}
}
