package tenant

import "errors"

var (
	ErrUnauthenticated      = errors.New("unauthenticated")
	ErrNoActiveOrganization = errors.New("no active organization")
	ErrForbiddenRole        = errors.New("role not permitted")
)

type Role string

const (
	RoleOwner  Role = "owner"
	RoleMember Role = "member"
)

// RequestContext is the tenancy envelope every command and query runs under.
// The transport layer builds it; everything below trusts it and scopes all
// reads and writes to OrganizationID.
type RequestContext struct {
	OrganizationID string
	UserID         string
	Role           Role
}

func (rc RequestContext) Validate() error {
	if rc.UserID == "" {
		return ErrUnauthenticated
	}
	if rc.OrganizationID == "" {
		return ErrNoActiveOrganization
	}
	if rc.Role != RoleOwner && rc.Role != RoleMember {
		return ErrForbiddenRole
	}
	return nil
}
