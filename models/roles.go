package models

// Role identifiers as assigned by the campus registrar. The numeric values
// are part of the wire contract with the console and must not be renumbered.
const (
	RoleAdmin      = 1
	RoleDean       = 2
	RolePersonnel  = 3
	RoleSuperAdmin = 4
	RoleDriver     = 5
	RoleUser       = 6
)

// DefaultLandingRoute is returned for any role without an explicit entry in
// the landing table.
const DefaultLandingRoute = "/users/dashboard"

// landingRoutes maps a role to the console route the client should open
// after a successful login.
var landingRoutes = map[int]string{
	RoleAdmin:      "/admin/dashboard",
	RoleDean:       "/dean/dashboard",
	RolePersonnel:  "/personnel/dashboard",
	RoleSuperAdmin: "/admin/dashboard",
	RoleDriver:     "/driver/reservations",
	RoleUser:       "/users/dashboard",
}

// userTypeTags maps a role to the backend user-type tag used by the
// archive/unarchive user operations. The mapping is fixed, not inferred.
var userTypeTags = map[int]string{
	RoleAdmin:      "admin",
	RoleDean:       "dean",
	RolePersonnel:  "personnel",
	RoleDriver:     "driver",
	RoleUser:       "user",
	RoleSuperAdmin: "admin",
}

// LandingRouteForRole returns the console route for roleID, falling back to
// [DefaultLandingRoute] for unknown roles.
func LandingRouteForRole(roleID int) string {
	if route, ok := landingRoutes[roleID]; ok {
		return route
	}
	return DefaultLandingRoute
}

// UserTypeTagForRole returns the archive tag for roleID and an ok flag
// signalling whether the role is known.
func UserTypeTagForRole(roleID int) (string, bool) {
	tag, ok := userTypeTags[roleID]
	return tag, ok
}
