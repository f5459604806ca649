package dtos

import "time"

// SyncItem is one described unit of work in a push batch. Data carries the
// serialized record for CREATE/UPDATE/UPSERT; ID alone is enough for DELETE.
type SyncItem struct {
	Operation string `json:"operation"`
	Model     string `json:"model"`
	Data      any    `json:"data,omitempty"`
	ID        string `json:"id,omitempty"`
}

// SyncBatch is the envelope sent to the portal's batch endpoint.
type SyncBatch struct {
	SyncID    string     `json:"syncId"`
	Timestamp time.Time  `json:"timestamp"`
	Source    string     `json:"source"`
	Items     []SyncItem `json:"items"`
}

// SyncItemError identifies one failed item within a batch.
type SyncItemError struct {
	Index     int    `json:"index"`
	Operation string `json:"operation,omitempty"`
	Model     string `json:"model,omitempty"`
	Error     string `json:"error"`
}

// SyncResult is the outcome contract every push and pull policy returns.
// Counts are per member record, not per wire item.
type SyncResult struct {
	Processed int             `json:"processed"`
	Failed    int             `json:"failed"`
	Total     int             `json:"total"`
	Excluded  int             `json:"excluded,omitempty"`
	Errors    []SyncItemError `json:"errors,omitempty"`
}

// Merge folds another result into this one, re-basing error indexes so they
// keep pointing at the right position in the combined run.
func (r *SyncResult) Merge(other *SyncResult) {
	base := r.Total
	r.Processed += other.Processed
	r.Failed += other.Failed
	r.Total += other.Total
	r.Excluded += other.Excluded
	for _, e := range other.Errors {
		e.Index += base
		r.Errors = append(r.Errors, e)
	}
}

// PushReceipt is the portal's acknowledgement of a pushed batch. Counts here
// are per wire item as seen on the remote side.
type PushReceipt struct {
	SyncID    string          `json:"syncId"`
	Processed int             `json:"processed"`
	Failed    int             `json:"failed"`
	Total     int             `json:"total"`
	Errors    []SyncItemError `json:"errors,omitempty"`
}
