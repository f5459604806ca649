package auth

import (
	"github.com/golang-jwt/jwt/v5"

	"first-nation/registry/internal/constants"
)

// ActorClaims identifies whoever is calling the API: a staff member with a
// JWT or a trusted service holding an API key.
type ActorClaims interface {
	ActorID() string
	Role() string
	Source() string
	CanManageMembers() bool
}

// StaffClaims is the JWT payload issued to registry staff.
type StaffClaims struct {
	jwt.RegisteredClaims
	RoleValue string `json:"role"`
}

func (c *StaffClaims) ActorID() string { return c.Subject }
func (c *StaffClaims) Role() string    { return c.RoleValue }
func (c *StaffClaims) Source() string  { return "JWT" }
func (c *StaffClaims) CanManageMembers() bool {
	return c.RoleValue == constants.StaffRoleAdmin || c.RoleValue == constants.StaffRoleClerk
}

// ServiceClaims represents an API key caller, such as the band office
// integration or the sync scheduler's own endpoints.
type ServiceClaims struct {
	KeyID string
}

func (c *ServiceClaims) ActorID() string        { return c.KeyID }
func (c *ServiceClaims) Role() string           { return constants.StaffRoleAdmin }
func (c *ServiceClaims) Source() string         { return "API_KEY" }
func (c *ServiceClaims) CanManageMembers() bool { return true }
