package constants

// Operations understood by the portal's batch sync endpoint
const (
	SyncOpCreate = "CREATE"
	SyncOpUpdate = "UPDATE"
	SyncOpUpsert = "UPSERT"
	SyncOpDelete = "DELETE"
)

// Model identifiers used on the wire. The portal side expects these exact
// strings, including the lowercase "fnmember".
const (
	SyncModelMember  = "fnmember"
	SyncModelProfile = "Profile"
	SyncModelBarcode = "Barcode"
	SyncModelFamily  = "Family"
)

// Sync directions recorded in the audit log
const (
	SyncDirectionPush = "push"
	SyncDirectionPull = "pull"
)

// Portal activation states for a member
const (
	PortalStatusNone      = "NONE"
	PortalStatusPending   = "PENDING"
	PortalStatusActivated = "ACTIVATED"
)

// Barcode lifecycle states
const (
	BarcodeStateAvailable = 1
	BarcodeStateAssigned  = 2
)

// PushEligibilityAge is the minimum age (in full years at push time) for a
// member to be included in any push to the portal.
const PushEligibilityAge = 18

// Pull models accepted by the portal's pull endpoint
const (
	PullModelProfile = "profile"
	PullModelFamily  = "family"
)
