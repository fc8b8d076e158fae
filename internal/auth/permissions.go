package auth

import (
	"slices"
	"strings"

	"restaurant-order-services/internal/models"
)

// StaffRoles may use any staff route that has no stricter rule below.
var StaffRoles = []models.UserRole{models.RoleAdmin, models.RoleManager, models.RoleStaff}

var managers = []models.UserRole{models.RoleAdmin, models.RoleManager}

// Keys are path prefixes, optionally preceded by a method. The longest
// matching prefix wins and a method-specific key beats a plain one.
var apiRoleMap = map[string][]models.UserRole{
	"/api/analytics":      managers,
	"/api/invoices":       StaffRoles,
	"/api/inventory":      StaffRoles,
	"POST /api/inventory": managers,
	"/api/kitchen":        StaffRoles,
	"/api/orders":         StaffRoles,
	"DELETE /api/orders":  managers,
	"/api/payments":       StaffRoles,
	"POST /api/menu":      managers,
	"PUT /api/menu":       managers,
	"DELETE /api/menu":    managers,
	"POST /api/tables":    managers,
	"/api/tables":         StaffRoles,
	"/api/reservations":   StaffRoles,
	"/api/feedback":       StaffRoles,
}

// RolesForAPI returns the roles allowed to call method path, or nil when no
// rule covers the path.
func RolesForAPI(path string, method string) []models.UserRole {
	method = strings.ToUpper(strings.TrimSpace(method))

	var bestPath string
	var bestRoles []models.UserRole
	var bestMethodSpecific bool

	for key, roles := range apiRoleMap {
		keyPath := key
		methodSpecific := false
		if strings.Contains(key, " ") {
			parts := strings.SplitN(key, " ", 2)
			keyMethod := strings.ToUpper(strings.TrimSpace(parts[0]))
			keyPath = strings.TrimSpace(parts[1])
			methodSpecific = true
			if method == "" || method != keyMethod {
				continue
			}
		}

		if !matchesPrefix(path, keyPath) {
			continue
		}

		if bestRoles == nil || len(keyPath) > len(bestPath) || (len(keyPath) == len(bestPath) && methodSpecific && !bestMethodSpecific) {
			bestPath = keyPath
			bestMethodSpecific = methodSpecific
			bestRoles = roles
		}
	}

	return bestRoles
}

// Allowed reports whether role may call method path. Paths without a rule
// fall back to StaffRoles.
func Allowed(role models.UserRole, path string, method string) bool {
	roles := RolesForAPI(path, method)
	if roles == nil {
		roles = StaffRoles
	}
	return slices.Contains(roles, role)
}

func matchesPrefix(path string, prefix string) bool {
	if !strings.HasPrefix(path, prefix) {
		return false
	}
	return len(path) == len(prefix) || path[len(prefix)] == '/'
}
