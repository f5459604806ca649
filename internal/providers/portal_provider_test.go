package providers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"first-nation/registry/internal/constants"
	"first-nation/registry/internal/models/dtos"
)

func testBatch() *dtos.SyncBatch {
	return &dtos.SyncBatch{
		SyncID:    "sync-123",
		Timestamp: time.Now().UTC(),
		Source:    "master",
		Items: []dtos.SyncItem{
			{Operation: constants.SyncOpUpsert, Model: constants.SyncModelMember, ID: "m-1"},
		},
	}
}

func TestPortalProvider_PushBatch_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" {
			t.Errorf("Expected POST request, got %s", r.Method)
		}
		if r.URL.Path != "/sync/batch" {
			t.Errorf("Expected path /sync/batch, got %s", r.URL.Path)
		}
		if r.Header.Get("x-api-key") != "test-key" {
			t.Errorf("Expected x-api-key header, got %q", r.Header.Get("x-api-key"))
		}

		var batch dtos.SyncBatch
		if err := json.NewDecoder(r.Body).Decode(&batch); err != nil {
			t.Fatalf("Failed to decode batch: %v", err)
		}
		if batch.Source != "master" {
			t.Errorf("Expected source master, got %s", batch.Source)
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data": dtos.PushReceipt{
				SyncID:    batch.SyncID,
				Processed: 1,
				Total:     1,
			},
		})
	}))
	defer server.Close()

	provider := &PortalProvider{
		BaseURL: server.URL,
		APIKey:  "test-key",
		Client:  &http.Client{},
	}

	receipt, err := provider.PushBatch(context.Background(), testBatch())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if receipt.Processed != 1 {
		t.Errorf("Expected 1 processed, got %d", receipt.Processed)
	}
	if receipt.SyncID != "sync-123" {
		t.Errorf("Expected syncId sync-123, got %s", receipt.SyncID)
	}
}

func TestPortalProvider_NotConfigured(t *testing.T) {
	provider := &PortalProvider{
		BaseURL: "",
		APIKey:  "",
		Client:  &http.Client{},
	}

	_, err := provider.PushBatch(context.Background(), testBatch())
	if err == nil {
		t.Fatal("Expected error for missing configuration")
	}
	if ErrorCode(err) != constants.ErrCodeNotConfigured {
		t.Errorf("Expected code %s, got %s", constants.ErrCodeNotConfigured, ErrorCode(err))
	}
}

func TestPortalProvider_HTMLErrorPage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("<html><body><h1>500 Internal Server Error</h1></body></html>"))
	}))
	defer server.Close()

	provider := &PortalProvider{
		BaseURL: server.URL,
		APIKey:  "test-key",
		Client:  &http.Client{},
	}

	_, err := provider.GetStatus(context.Background())
	if err == nil {
		t.Fatal("Expected error for HTML response")
	}
	if ErrorCode(err) != constants.ErrCodeMalformedResponse {
		t.Errorf("Expected code %s, got %s", constants.ErrCodeMalformedResponse, ErrorCode(err))
	}

	pe := err.(*PortalError)
	if !strings.Contains(pe.Message, server.URL) {
		t.Errorf("Expected offending URL in message, got %q", pe.Message)
	}
	if !strings.Contains(pe.Details, "500 Internal Server Error") {
		t.Errorf("Expected body snippet in details, got %q", pe.Details)
	}
}

func TestPortalProvider_RemoteRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]any{
			"success": false,
			"error":   "duplicate t_number T000123",
			"details": "item 0",
		})
	}))
	defer server.Close()

	provider := &PortalProvider{
		BaseURL: server.URL,
		APIKey:  "test-key",
		Client:  &http.Client{},
	}

	_, err := provider.PushBatch(context.Background(), testBatch())
	if err == nil {
		t.Fatal("Expected error for rejected batch")
	}
	if ErrorCode(err) != constants.ErrCodeRemoteRejected {
		t.Errorf("Expected code %s, got %s", constants.ErrCodeRemoteRejected, ErrorCode(err))
	}
	if !strings.Contains(err.Error(), "duplicate t_number T000123") {
		t.Errorf("Expected remote message verbatim, got %q", err.Error())
	}
}

func TestPortalProvider_RateLimited(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte("slow down"))
	}))
	defer server.Close()

	provider := &PortalProvider{
		BaseURL: server.URL,
		APIKey:  "test-key",
		Client:  &http.Client{},
	}

	_, err := provider.GetStatus(context.Background())
	if ErrorCode(err) != constants.ErrCodeRateLimited {
		t.Errorf("Expected code %s, got %s", constants.ErrCodeRateLimited, ErrorCode(err))
	}
}

func TestPortalProvider_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	provider := &PortalProvider{
		BaseURL: server.URL,
		APIKey:  "test-key",
		Client:  &http.Client{Timeout: 20 * time.Millisecond},
	}

	_, err := provider.GetStatus(context.Background())
	if err == nil {
		t.Fatal("Expected timeout error")
	}
	if ErrorCode(err) != constants.ErrCodeNetworkUnreachable {
		t.Errorf("Expected code %s, got %s", constants.ErrCodeNetworkUnreachable, ErrorCode(err))
	}
}

func TestPortalProvider_PullRecords_QueryParams(t *testing.T) {
	since := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/sync/pull" {
			t.Errorf("Expected path /sync/pull, got %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("model") != "profile" {
			t.Errorf("Expected model=profile, got %s", q.Get("model"))
		}
		if q.Get("since") != "2026-02-01T00:00:00Z" {
			t.Errorf("Unexpected since param: %s", q.Get("since"))
		}
		if q.Get("cursor") != "abc" {
			t.Errorf("Expected cursor=abc, got %s", q.Get("cursor"))
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data": map[string]any{
				"items": []map[string]any{
					{"tNumber": "T000123", "community": "North Shore"},
				},
				"pagination": map[string]any{
					"hasMore":       false,
					"totalReturned": 1,
				},
			},
		})
	}))
	defer server.Close()

	provider := &PortalProvider{
		BaseURL: server.URL,
		APIKey:  "test-key",
		Client:  &http.Client{},
	}

	page, err := provider.PullRecords(context.Background(), "profile", &since, "abc")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(page.Items) != 1 {
		t.Fatalf("Expected 1 item, got %d", len(page.Items))
	}
	if page.Pagination.HasMore {
		t.Error("Expected hasMore false")
	}
}
