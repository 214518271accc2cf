package service

import "catalog_api/internal/models"

// CanModify reports whether who may update or delete it: admins may change
// any item, users only the items they own. Anonymous callers never may.
func CanModify(who models.Identity, it models.Item) bool {
	if who.IsAnonymous() {
		return false
	}
	if who.Role == models.RoleAdmin {
		return true
	}
	return it.OwnerID != nil && *it.OwnerID == who.UserID
}

// authorize runs the gates in order: session, then ownership.
func authorize(who models.Identity, it models.Item) error {
	if who.IsAnonymous() {
		return ErrUnauthorized
	}
	if !CanModify(who, it) {
		return ErrForbidden
	}
	return nil
}
