package auth

import "github.com/spec-kit/blog-service/internal/domain"

// Policy names the rule applied to a resource operation.
type Policy int

const (
	// PolicyAuthenticatedOnly allows any verified caller.
	PolicyAuthenticatedOnly Policy = iota
	// PolicyOwnerOrAdmin allows the resource owner and admins.
	PolicyOwnerOrAdmin
	// PolicyAdminOnly allows admins.
	PolicyAdminOnly
	// PolicyOwnerOnly allows only the resource owner; admins are not exempt.
	PolicyOwnerOnly
)

func (p Policy) String() string {
	switch p {
	case PolicyAuthenticatedOnly:
		return "AUTHENTICATED_ONLY"
	case PolicyOwnerOrAdmin:
		return "OWNER_OR_ADMIN"
	case PolicyAdminOnly:
		return "ADMIN_ONLY"
	case PolicyOwnerOnly:
		return "OWNER_ONLY"
	default:
		return "UNKNOWN"
	}
}

// Decision is the outcome of an authorization check.
type Decision bool

const (
	Allow Decision = true
	Deny  Decision = false
)

// Authorize decides whether claims may act on a resource owned by ownerID.
// Callers must establish that the resource exists before asking.
func Authorize(claims *Claims, ownerID string, policy Policy) Decision {
	if claims == nil {
		return Deny
	}

	isOwner := ownerID != "" && claims.SubjectID() == ownerID
	switch policy {
	case PolicyAuthenticatedOnly:
		return Allow
	case PolicyOwnerOrAdmin:
		return Decision(claims.Role == domain.RoleAdmin || isOwner)
	case PolicyAdminOnly:
		return Decision(claims.Role == domain.RoleAdmin)
	case PolicyOwnerOnly:
		return Decision(isOwner)
	default:
		return Deny
	}
}
