// Package authz resolves role capabilities and document category access.
//
// Grants are static tables; every lookup is a total function that answers
// false for unknown roles or capabilities (fail-closed).
package authz

import (
	"github.com/example/wdh-os/internal/domain"
)

// Capability names one permission gating a view or a state-changing operation.
type Capability string

const (
	ViewDashboard     Capability = "view_dashboard"
	ViewCRM           Capability = "view_crm"
	ManageClients     Capability = "manage_clients"
	ViewSpaces        Capability = "view_spaces"
	ManageSpaces      Capability = "manage_spaces"
	ViewMedia         Capability = "view_media"
	ManageMedia       Capability = "manage_media"
	ViewStudents      Capability = "view_students"
	ManageStudents    Capability = "manage_students"
	ViewFinance       Capability = "view_finance"
	ManageFinance     Capability = "manage_finance"
	ApproveExpenses   Capability = "approve_expenses"
	ViewHR            Capability = "view_hr"
	ManageHR          Capability = "manage_hr"
	ViewDocuments     Capability = "view_documents"
	ManageDocuments   Capability = "manage_documents"
	ViewNotifications Capability = "view_notifications"
	ViewSettings      Capability = "view_settings"
	ManageSettings    Capability = "manage_settings"
)

// allCapabilities is the full grant order used for the ceo role and for
// deterministic Capabilities output.
var allCapabilities = []Capability{
	ViewDashboard,
	ViewCRM,
	ManageClients,
	ViewSpaces,
	ManageSpaces,
	ViewMedia,
	ManageMedia,
	ViewStudents,
	ManageStudents,
	ViewFinance,
	ManageFinance,
	ApproveExpenses,
	ViewHR,
	ManageHR,
	ViewDocuments,
	ManageDocuments,
	ViewNotifications,
	ViewSettings,
	ManageSettings,
}

var roleGrants = map[domain.Role]map[Capability]struct{}{
	domain.RoleCEO: capabilitySet(allCapabilities...),
	domain.RoleCOO: capabilitySet(
		ViewDashboard,
		ViewCRM,
		ManageClients,
		ViewSpaces,
		ManageSpaces,
		ViewMedia,
		ManageMedia,
		ViewStudents,
		ManageStudents,
		ViewFinance,
		ManageFinance,
		ApproveExpenses,
		ViewHR,
		ManageHR,
		ViewDocuments,
		ManageDocuments,
		ViewNotifications,
	),
	domain.RoleCTO: capabilitySet(
		ViewDashboard,
		ViewHR,
		ManageHR,
		ViewDocuments,
		ManageDocuments,
		ViewNotifications,
		ViewSettings,
		ManageSettings,
	),
	domain.RoleMediaManager: capabilitySet(
		ViewDashboard,
		ViewMedia,
		ManageMedia,
		ViewNotifications,
	),
	domain.RoleAdmin: capabilitySet(
		ViewDashboard,
		ViewCRM,
		ManageClients,
		ViewSpaces,
		ManageSpaces,
		ViewStudents,
		ManageStudents,
		ViewDocuments,
		ViewNotifications,
	),
}

func capabilitySet(caps ...Capability) map[Capability]struct{} {
	set := make(map[Capability]struct{}, len(caps))
	for _, c := range caps {
		set[c] = struct{}{}
	}
	return set
}

// HasPermission reports whether the role is granted the capability. Unknown
// roles and unknown capabilities resolve to false.
func HasPermission(role domain.Role, capability Capability) bool {
	grants, ok := roleGrants[role]
	if !ok {
		return false
	}
	_, granted := grants[capability]
	return granted
}

// HasAny reports whether the role holds at least one of the capabilities.
func HasAny(role domain.Role, capabilities ...Capability) bool {
	for _, c := range capabilities {
		if HasPermission(role, c) {
			return true
		}
	}
	return false
}

// HasAll reports whether the role holds every listed capability. An empty
// list is vacuously true for known roles and false for unknown ones.
func HasAll(role domain.Role, capabilities ...Capability) bool {
	if _, ok := roleGrants[role]; !ok {
		return false
	}
	for _, c := range capabilities {
		if !HasPermission(role, c) {
			return false
		}
	}
	return true
}

// CanManage reports whether the role holds "manage_<module>".
func CanManage(role domain.Role, module string) bool {
	return HasPermission(role, Capability("manage_"+module))
}

// CanApproveExpenses reports whether the role may approve or reject pending
// expense transactions.
func CanApproveExpenses(role domain.Role) bool {
	return HasPermission(role, ApproveExpenses)
}

// Capabilities returns the role's grants in the fixed capability order.
func Capabilities(role domain.Role) []Capability {
	grants, ok := roleGrants[role]
	if !ok {
		return nil
	}
	out := make([]Capability, 0, len(grants))
	for _, c := range allCapabilities {
		if _, granted := grants[c]; granted {
			out = append(out, c)
		}
	}
	return out
}
