package dtos

import (
	"encoding/json"
	"time"
)

// PortalEnvelope is the {success, data, error} wrapper every portal endpoint
// responds with. Data stays raw until the caller knows the expected shape.
type PortalEnvelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`
	Details string          `json:"details,omitempty"`
}

// Pagination describes cursor-based paging on pull responses.
type Pagination struct {
	HasMore       bool   `json:"hasMore"`
	TotalReturned int    `json:"totalReturned"`
	NextCursor    string `json:"nextCursor,omitempty"`
}

// PullPage is one page of portal-side edits. Items stay raw because the
// element shape depends on the requested model.
type PullPage struct {
	Items      []json.RawMessage `json:"items"`
	Pagination Pagination        `json:"pagination"`
}

// PulledProfile is a member-edited profile record coming back from the
// portal. Identity is carried by memberId or tNumber; nil fields were not
// touched by the member.
type PulledProfile struct {
	MemberID  string  `json:"memberId,omitempty"`
	TNumber   string  `json:"tNumber,omitempty"`
	Gender    *string `json:"gender,omitempty"`
	OnReserve *bool   `json:"onReserve,omitempty"`
	Community *string `json:"community,omitempty"`
	Address   *string `json:"address,omitempty"`
	Phone     *string `json:"phone,omitempty"`
	Email     *string `json:"email,omitempty"`
	ImageURL  *string `json:"imageUrl,omitempty"`
}

// PulledFamily is a member-edited family record coming back from the portal.
type PulledFamily struct {
	MemberID   string  `json:"memberId,omitempty"`
	TNumber    string  `json:"tNumber,omitempty"`
	SpouseName *string `json:"spouseName,omitempty"`
	Dependents *int    `json:"dependents,omitempty"`
}

// PortalDatabaseStatus mirrors the database block of the portal status probe.
type PortalDatabaseStatus struct {
	Connected bool   `json:"connected"`
	Schema    string `json:"schema,omitempty"`
	Error     string `json:"error,omitempty"`
}

// PortalStatus is the portal's own health report.
type PortalStatus struct {
	Healthy     bool                 `json:"healthy"`
	Database    PortalDatabaseStatus `json:"database"`
	Stats       map[string]int64     `json:"stats,omitempty"`
	LastUpdated map[string]time.Time `json:"lastUpdated,omitempty"`
}
