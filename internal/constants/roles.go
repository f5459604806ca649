package constants

// Staff roles carried in JWT claims
const (
	StaffRoleAdmin = "ADMIN"
	StaffRoleClerk = "CLERK"
)
