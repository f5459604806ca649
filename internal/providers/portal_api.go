package providers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"first-nation/registry/internal/models/dtos"
)

// PortalAPI is the single seam the sync engines use to talk to the member
// portal. Implementations must be safe for concurrent use.
type PortalAPI interface {
	// PushBatch ships a batch of sync items to the portal
	PushBatch(ctx context.Context, batch *dtos.SyncBatch) (*dtos.PushReceipt, error)

	// PullRecords fetches one page of portal-side edits for the given model
	PullRecords(ctx context.Context, model string, since *time.Time, cursor string) (*dtos.PullPage, error)

	// GetStatus probes the portal's health endpoint
	GetStatus(ctx context.Context) (*dtos.PortalStatus, error)

	// IsConfigured reports whether base URL and API key are present
	IsConfigured() bool
}

// PortalError classifies a failed portal interaction. Code is one of the
// constants.ErrCode* values.
type PortalError struct {
	Code    string
	Message string
	Details string
	Err     error
}

func (e *PortalError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *PortalError) Unwrap() error {
	return e.Err
}

// ErrorCode extracts the classification code from err, or "" when err is not
// a PortalError.
func ErrorCode(err error) string {
	var pe *PortalError
	if errors.As(err, &pe) {
		return pe.Code
	}
	return ""
}
