package dtos

import "time"

// Push policy names accepted by the sync push endpoint
const (
	PushTypeSingle      = "single"
	PushTypeBatch       = "batch"
	PushTypeFull        = "full"
	PushTypeIncremental = "incremental"
	PushTypeMemberOnly  = "member-only"
)

// Pull type names accepted by the sync pull endpoint
const (
	PullTypeProfile = "profile"
	PullTypeFamily  = "family"
	PullTypeAll     = "all"
)

type PushRequest struct {
	Type             string     `json:"type"`
	MemberID         string     `json:"memberId,omitempty"`
	MemberIDs        []string   `json:"memberIds,omitempty"`
	BatchSize        int        `json:"batchSize,omitempty"`
	Since            *time.Time `json:"since,omitempty"`
	IncludeRelations bool       `json:"includeRelations,omitempty"`
}

type PullRequest struct {
	Type  string     `json:"type"`
	Since *time.Time `json:"since,omitempty"`
}

type CreateMemberRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Birthdate string `json:"birthdate"`
	TNumber   string `json:"tNumber"`
	Deceased  bool   `json:"deceased,omitempty"`
}

type AddBarcodesRequest struct {
	Codes []string `json:"codes"`
}

// ProfilePatch is the allow-listed mutation surface for profiles on the
// local side. Anything not present here is sync-engine-only; unknown keys
// are rejected at decode time.
type ProfilePatch struct {
	Gender    *string `json:"gender,omitempty"`
	OnReserve *bool   `json:"onReserve,omitempty"`
	Community *string `json:"community,omitempty"`
	Address   *string `json:"address,omitempty"`
	Phone     *string `json:"phone,omitempty"`
	Email     *string `json:"email,omitempty"`
	ImageURL  *string `json:"imageUrl,omitempty"`
}

// Fields returns the set column updates for the non-nil entries.
func (p *ProfilePatch) Fields() map[string]any {
	fields := make(map[string]any)
	if p.Gender != nil {
		fields["gender"] = *p.Gender
	}
	if p.OnReserve != nil {
		fields["on_reserve"] = *p.OnReserve
	}
	if p.Community != nil {
		fields["community"] = *p.Community
	}
	if p.Address != nil {
		fields["address"] = *p.Address
	}
	if p.Phone != nil {
		fields["phone"] = *p.Phone
	}
	if p.Email != nil {
		fields["email"] = *p.Email
	}
	if p.ImageURL != nil {
		fields["image_url"] = *p.ImageURL
	}
	return fields
}

// MemberPatch is the allow-listed mutation surface for core member fields.
type MemberPatch struct {
	FirstName    *string `json:"firstName,omitempty"`
	LastName     *string `json:"lastName,omitempty"`
	Birthdate    *string `json:"birthdate,omitempty"`
	Deceased     *bool   `json:"deceased,omitempty"`
	PortalStatus *string `json:"portalStatus,omitempty"`
}
