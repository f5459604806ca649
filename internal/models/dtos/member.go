package dtos

// Wire payloads for pushed records. Birthdate travels as YYYY-MM-DD.

type MemberSyncData struct {
	ID           string `json:"id"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	Birthdate    string `json:"birthdate"`
	TNumber      string `json:"tNumber"`
	Deceased     bool   `json:"deceased"`
	PortalStatus string `json:"portalStatus"`
}

type BarcodeSyncData struct {
	ID       string `json:"id"`
	Code     string `json:"code"`
	State    int    `json:"state"`
	MemberID string `json:"memberId,omitempty"`
}

type ProfileSyncData struct {
	ID        string `json:"id"`
	MemberID  string `json:"memberId"`
	Gender    string `json:"gender,omitempty"`
	OnReserve bool   `json:"onReserve"`
	Community string `json:"community,omitempty"`
	Address   string `json:"address,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Email     string `json:"email,omitempty"`
	ImageURL  string `json:"imageUrl,omitempty"`
}

type FamilySyncData struct {
	ID         string `json:"id"`
	MemberID   string `json:"memberId"`
	SpouseName string `json:"spouseName,omitempty"`
	Dependents int    `json:"dependents"`
}
