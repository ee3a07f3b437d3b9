package auth

import (
	"net/http"

	"taskboard/internal/model"
)

// safeMethod reports whether the HTTP method is read-only.
func safeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}
	return false
}

// AllowAny admits every request.
func AllowAny(method string, requester, target *model.User) bool {
	return true
}

// RequireAuthenticated admits any request carrying a valid token.
func RequireAuthenticated(method string, requester, target *model.User) bool {
	return requester != nil
}

// OwnerOrAdmin admits read methods unconditionally; mutations require the
// requester to be a superuser or the owner of the target account.
func OwnerOrAdmin(method string, requester, target *model.User) bool {
	if safeMethod(method) {
		return true
	}
	if requester == nil || target == nil {
		return false
	}
	return requester.IsSuperuser || requester.Email == target.Email
}

// StaffReadOnly admits read methods for everyone and denies every mutation,
// staff included. The staff flag is never consulted.
func StaffReadOnly(method string, requester, target *model.User) bool {
	return safeMethod(method)
}
