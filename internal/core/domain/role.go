package domain

import (
	"fmt"
	"strings"
)

// Role selects which dashboard a device shows.
type Role string

const (
	RoleConsumer Role = "CONSUMER"
	RoleCourier  Role = "COURIER"
	RoleBusiness Role = "BUSINESS"
	RoleHubOwner Role = "HUB_OWNER"
)

// ParseRole accepts any casing of a known role name.
func ParseRole(s string) (Role, error) {
	switch r := Role(strings.ToUpper(strings.TrimSpace(s))); r {
	case RoleConsumer, RoleCourier, RoleBusiness, RoleHubOwner:
		return r, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidRole, s)
}

// Selectable reports whether a user may pick the role from onboarding.
// Hub owners are provisioned, not self-selected.
func (r Role) Selectable() bool {
	return r == RoleConsumer || r == RoleCourier || r == RoleBusiness
}

// Dashboard is a top-level layout.
type Dashboard string

const (
	DashboardOnboarding Dashboard = "onboarding"
	DashboardConsumer   Dashboard = "consumer"
	DashboardCourier    Dashboard = "courier"
	DashboardBusiness   Dashboard = "business"
)

// DashboardFor maps a role to its layout; no role means onboarding.
func DashboardFor(role *Role) Dashboard {
	if role == nil {
		return DashboardOnboarding
	}
	switch *role {
	case RoleConsumer:
		return DashboardConsumer
	case RoleCourier:
		return DashboardCourier
	case RoleBusiness, RoleHubOwner:
		return DashboardBusiness
	}
	return DashboardOnboarding
}

// AppState is the device-scoped state the views are built from.
type AppState struct {
	Role               *Role      `json:"role"`
	Dashboard          Dashboard  `json:"dashboard"`
	Deliveries         []Delivery `json:"deliveries"`
	SelectedLandmarkID string     `json:"selected_landmark_id,omitempty"`
}
