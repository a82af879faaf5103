package auth

import apperrors "github.com/spec-kit/blog-service/pkg/util/errorutil"

// Enforce turns a Deny decision into a FORBIDDEN error.
func Enforce(claims *Claims, ownerID string, policy Policy, message string) error {
	if Authorize(claims, ownerID, policy) == Deny {
		return apperrors.NewForbidden(message)
	}
	return nil
}
