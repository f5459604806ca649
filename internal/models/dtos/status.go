package dtos

import "time"

// LocalStats summarizes the master database side of the status report.
type LocalStats struct {
	MembersByStatus   map[string]int64 `json:"membersByStatus"`
	Profiles          int64            `json:"profiles"`
	Families          int64            `json:"families"`
	BarcodesAvailable int64            `json:"barcodesAvailable"`
	BarcodesAssigned  int64            `json:"barcodesAssigned"`
	LastMemberUpdate  *time.Time       `json:"lastMemberUpdate,omitempty"`
}

// PortalProbe reports remote reachability. It degrades instead of failing:
// a misconfigured or unreachable portal yields configured/connected=false
// plus a message, never an error response.
type PortalProbe struct {
	Configured bool          `json:"configured"`
	Connected  bool          `json:"connected"`
	Message    string        `json:"message,omitempty"`
	Status     *PortalStatus `json:"status,omitempty"`
}

// SyncStatus is the combined operator-facing snapshot.
type SyncStatus struct {
	Local       LocalStats  `json:"local"`
	Portal      PortalProbe `json:"portal"`
	GeneratedAt time.Time   `json:"generatedAt"`
}
