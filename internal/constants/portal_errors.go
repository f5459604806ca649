package constants

// Portal Sync Error Codes
// These constants classify failures when talking to the member portal

// Configuration errors (fatal, never retried)
const (
	ErrCodeNotConfigured = "PORTAL_NOT_CONFIGURED"
)

// Transport errors (retryable by the caller)
const (
	ErrCodeNetworkUnreachable = "NETWORK_UNREACHABLE"
	ErrCodeRateLimited        = "RATE_LIMITED"
)

// Remote-side errors
const (
	ErrCodeRemoteRejected    = "REMOTE_REJECTED"
	ErrCodeMalformedResponse = "MALFORMED_RESPONSE"
)

// Local apply errors (reported per item, never abort a batch)
const (
	ErrCodeDuplicateIdentifier = "DUPLICATE_IDENTIFIER"
	ErrCodeNotFound            = "NOT_FOUND"
	ErrCodeInvalidDataFormat   = "INVALID_DATA_FORMAT"
)

var portalErrorMessages = map[string]string{
	ErrCodeNotConfigured:       "Portal sync is not configured. Set PORTAL_API_URL and PORTAL_API_KEY",
	ErrCodeNetworkUnreachable:  "Unable to reach the member portal. Please check connectivity",
	ErrCodeRateLimited:         "Rate limit exceeded. Please try again later",
	ErrCodeRemoteRejected:      "The member portal rejected the request",
	ErrCodeMalformedResponse:   "The member portal returned an unexpected response",
	ErrCodeDuplicateIdentifier: "A record with this treaty number already exists",
	ErrCodeNotFound:            "The referenced record was not found locally",
	ErrCodeInvalidDataFormat:   "The data format is invalid",
}

// GetErrorMessage returns the human-readable message for an error code
func GetErrorMessage(code string) string {
	if msg, exists := portalErrorMessages[code]; exists {
		return msg
	}
	return "An unknown error occurred"
}
