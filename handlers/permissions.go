package handlers

import (
	"net/http"

	"github.com/camden-git/campaidbackend/permissions"
)

// ListDefinedPermissions serves the static permission catalogue so a UI can
// present the keys that roles may hold.
func ListDefinedPermissions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"permissions": permissions.DefinedPermissionGroups})
}
