package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"first-nation/registry/internal/config"
	"first-nation/registry/internal/constants"
	"first-nation/registry/internal/models/dtos"
)

// bodySnippetLimit caps how much of an offending response body travels
// inside a MalformedResponse error.
const bodySnippetLimit = 512

// PortalProvider implements PortalAPI against the member portal's sync API.
// It is stateless apart from the shared http.Client, so one instance serves
// all engines concurrently.
type PortalProvider struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

// NewPortalProvider creates a portal client from configuration. A missing
// URL or key is not an error here; every call checks configuration first and
// fails fast without touching the network.
func NewPortalProvider(cfg config.PortalConfig) *PortalProvider {
	return &PortalProvider{
		BaseURL: strings.TrimRight(cfg.URL, "/"),
		APIKey:  cfg.APIKey,
		Client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// IsConfigured reports whether both the portal URL and API key are set
func (p *PortalProvider) IsConfigured() bool {
	return p.BaseURL != "" && p.APIKey != ""
}

// PushBatch ships a sync batch to POST /sync/batch
func (p *PortalProvider) PushBatch(ctx context.Context, batch *dtos.SyncBatch) (*dtos.PushReceipt, error) {
	var receipt dtos.PushReceipt
	if err := p.do(ctx, http.MethodPost, "/sync/batch", batch, &receipt); err != nil {
		return nil, err
	}
	return &receipt, nil
}

// PullRecords fetches one page of portal edits from GET /sync/pull
func (p *PortalProvider) PullRecords(ctx context.Context, model string, since *time.Time, cursor string) (*dtos.PullPage, error) {
	q := url.Values{}
	q.Set("model", model)
	if since != nil {
		q.Set("since", since.UTC().Format(time.RFC3339))
	}
	if cursor != "" {
		q.Set("cursor", cursor)
	}

	var page dtos.PullPage
	if err := p.do(ctx, http.MethodGet, "/sync/pull?"+q.Encode(), nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// GetStatus probes GET /sync/status
func (p *PortalProvider) GetStatus(ctx context.Context) (*dtos.PortalStatus, error) {
	var status dtos.PortalStatus
	if err := p.do(ctx, http.MethodGet, "/sync/status", nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// do performs one authenticated request and decodes the portal envelope.
// Every failure comes back as a *PortalError so callers can classify it.
func (p *PortalProvider) do(ctx context.Context, method, endpoint string, payload any, result any) error {
	if !p.IsConfigured() {
		return &PortalError{
			Code:    constants.ErrCodeNotConfigured,
			Message: constants.GetErrorMessage(constants.ErrCodeNotConfigured),
		}
	}

	var body io.Reader
	if payload != nil {
		payloadBytes, err := json.Marshal(payload)
		if err != nil {
			return &PortalError{
				Code:    constants.ErrCodeInvalidDataFormat,
				Message: "Failed to marshal request body",
				Err:     err,
			}
		}
		body = bytes.NewReader(payloadBytes)
	}

	reqURL := p.BaseURL + endpoint
	req, err := http.NewRequestWithContext(ctx, method, reqURL, body)
	if err != nil {
		return &PortalError{
			Code:    constants.ErrCodeNetworkUnreachable,
			Message: "Failed to create request",
			Err:     err,
		}
	}

	req.Header.Set("x-api-key", p.APIKey)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := p.Client.Do(req)
	if err != nil {
		// Timeouts and refused connections land here; the caller's
		// retry policy decides what happens next.
		return &PortalError{
			Code:    constants.ErrCodeNetworkUnreachable,
			Message: constants.GetErrorMessage(constants.ErrCodeNetworkUnreachable),
			Err:     err,
		}
	}
	defer resp.Body.Close()

	bodyBytes, readErr := io.ReadAll(resp.Body)
	if readErr != nil {
		return &PortalError{
			Code:    constants.ErrCodeNetworkUnreachable,
			Message: "Failed to read response body",
			Err:     readErr,
		}
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		return &PortalError{
			Code:    constants.ErrCodeRateLimited,
			Message: constants.GetErrorMessage(constants.ErrCodeRateLimited),
			Details: truncateBody(bodyBytes),
		}
	}

	// HTML error pages and proxy text must never surface as raw JSON
	// parse failures.
	if !strings.Contains(resp.Header.Get("Content-Type"), "application/json") {
		return &PortalError{
			Code:    constants.ErrCodeMalformedResponse,
			Message: fmt.Sprintf("Non-JSON response (HTTP %d) from %s", resp.StatusCode, reqURL),
			Details: truncateBody(bodyBytes),
		}
	}

	var envelope dtos.PortalEnvelope
	if err := json.Unmarshal(bodyBytes, &envelope); err != nil {
		return &PortalError{
			Code:    constants.ErrCodeMalformedResponse,
			Message: fmt.Sprintf("Undecodable response from %s", reqURL),
			Details: truncateBody(bodyBytes),
			Err:     err,
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 || !envelope.Success {
		message := envelope.Error
		if message == "" {
			message = fmt.Sprintf("HTTP %d from %s", resp.StatusCode, endpoint)
		}
		return &PortalError{
			Code:    constants.ErrCodeRemoteRejected,
			Message: message,
			Details: envelope.Details,
		}
	}

	if result != nil && len(envelope.Data) > 0 {
		if err := json.Unmarshal(envelope.Data, result); err != nil {
			return &PortalError{
				Code:    constants.ErrCodeMalformedResponse,
				Message: fmt.Sprintf("Unexpected data shape from %s", reqURL),
				Details: truncateBody(envelope.Data),
				Err:     err,
			}
		}
	}

	return nil
}

func truncateBody(b []byte) string {
	if len(b) <= bodySnippetLimit {
		return string(b)
	}
	return string(b[:bodySnippetLimit]) + "...(truncated)"
}
