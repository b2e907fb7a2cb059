// Package permission holds the fixed catalog of console permissions and the
// default permission set of the Moderator role.
//
// Permissions are namespaced as <resource>.<action>. The catalog is data, not
// behavior: it never changes at runtime and lookups never fail.
package permission

import (
	"sort"
	"strings"
)

// Permission is a catalog-defined capability identifier such as "designs.approve".
type Permission string

// Resource returns the part before the first dot.
func (p Permission) Resource() string {
	resource, _, _ := strings.Cut(string(p), ".")
	return resource
}

// Action returns the part after the first dot.
func (p Permission) Action() string {
	_, action, _ := strings.Cut(string(p), ".")
	return action
}

const (
	// DashboardView allows viewing the overview dashboard.
	DashboardView Permission = "dashboard.view"

	// DesignersView allows listing and inspecting designer accounts.
	DesignersView Permission = "designers.view"
	// DesignersEdit allows editing designer profiles.
	DesignersEdit Permission = "designers.edit"
	// DesignersSuspend allows suspending and reinstating designers.
	DesignersSuspend Permission = "designers.suspend"
	// DesignersDelete allows deleting designer accounts.
	DesignersDelete Permission = "designers.delete"

	// CustomersView allows listing and inspecting customer accounts.
	CustomersView Permission = "customers.view"
	// CustomersEdit allows editing customer accounts.
	CustomersEdit Permission = "customers.edit"
	// CustomersSuspend allows suspending and reinstating customers.
	CustomersSuspend Permission = "customers.suspend"
	// CustomersDelete allows deleting customer accounts.
	CustomersDelete Permission = "customers.delete"

	// DesignsView allows browsing submitted designs.
	DesignsView Permission = "designs.view"
	// DesignsApprove allows approving designs for sale.
	DesignsApprove Permission = "designs.approve"
	// DesignsReject allows rejecting submitted designs.
	DesignsReject Permission = "designs.reject"
	// DesignsFeature allows featuring designs on the storefront.
	DesignsFeature Permission = "designs.feature"
	// DesignsDelete allows deleting designs.
	DesignsDelete Permission = "designs.delete"

	// OrdersView allows viewing orders.
	OrdersView Permission = "orders.view"
	// OrdersRefund allows issuing refunds.
	OrdersRefund Permission = "orders.refund"
	// OrdersExport allows exporting order data.
	OrdersExport Permission = "orders.export"

	// PlansView allows viewing subscription plans.
	PlansView Permission = "plans.view"
	// PlansCreate allows creating subscription plans.
	PlansCreate Permission = "plans.create"
	// PlansEdit allows editing subscription plans.
	PlansEdit Permission = "plans.edit"
	// PlansDelete allows deleting subscription plans.
	PlansDelete Permission = "plans.delete"

	// CouponsView allows viewing coupons.
	CouponsView Permission = "coupons.view"
	// CouponsCreate allows creating coupons.
	CouponsCreate Permission = "coupons.create"
	// CouponsEdit allows editing coupons.
	CouponsEdit Permission = "coupons.edit"
	// CouponsDelete allows deleting coupons.
	CouponsDelete Permission = "coupons.delete"

	// BundlesView allows viewing design bundles.
	BundlesView Permission = "bundles.view"
	// BundlesCreate allows creating design bundles.
	BundlesCreate Permission = "bundles.create"
	// BundlesEdit allows editing design bundles.
	BundlesEdit Permission = "bundles.edit"
	// BundlesDelete allows deleting design bundles.
	BundlesDelete Permission = "bundles.delete"

	// AnalyticsView allows viewing sales and traffic analytics.
	AnalyticsView Permission = "analytics.view"

	// ActivityView allows reading the admin activity log.
	ActivityView Permission = "activity.view"

	// NotificationsView allows reading console notifications.
	NotificationsView Permission = "notifications.view"
	// NotificationsSend allows broadcasting notifications to users.
	NotificationsSend Permission = "notifications.send"

	// SettingsView allows viewing system configuration.
	SettingsView Permission = "settings.view"
	// SettingsEdit allows changing system configuration.
	SettingsEdit Permission = "settings.edit"

	// AdminsView allows listing console administrators.
	AdminsView Permission = "admins.view"
	// AdminsCreate allows inviting administrators.
	AdminsCreate Permission = "admins.create"
	// AdminsEdit allows changing administrators and their permissions.
	AdminsEdit Permission = "admins.edit"
	// AdminsDelete allows removing administrators.
	AdminsDelete Permission = "admins.delete"
)

// Group names of the catalog.
const (
	GroupDashboard     = "dashboard"
	GroupDesigners     = "designers"
	GroupCustomers     = "customers"
	GroupDesigns       = "designs"
	GroupOrders        = "orders"
	GroupPlans         = "plans"
	GroupCoupons       = "coupons"
	GroupBundles       = "bundles"
	GroupAnalytics     = "analytics"
	GroupActivity      = "activity"
	GroupNotifications = "notifications"
	GroupSettings      = "settings"
	GroupAdmins        = "admins"
)

//nolint:gochecknoglobals // immutable catalog data, only handed out as copies
var groups = map[string][]Permission{
	GroupDashboard:     {DashboardView},
	GroupDesigners:     {DesignersView, DesignersEdit, DesignersSuspend, DesignersDelete},
	GroupCustomers:     {CustomersView, CustomersEdit, CustomersSuspend, CustomersDelete},
	GroupDesigns:       {DesignsView, DesignsApprove, DesignsReject, DesignsFeature, DesignsDelete},
	GroupOrders:        {OrdersView, OrdersRefund, OrdersExport},
	GroupPlans:         {PlansView, PlansCreate, PlansEdit, PlansDelete},
	GroupCoupons:       {CouponsView, CouponsCreate, CouponsEdit, CouponsDelete},
	GroupBundles:       {BundlesView, BundlesCreate, BundlesEdit, BundlesDelete},
	GroupAnalytics:     {AnalyticsView},
	GroupActivity:      {ActivityView},
	GroupNotifications: {NotificationsView, NotificationsSend},
	GroupSettings:      {SettingsView, SettingsEdit},
	GroupAdmins:        {AdminsView, AdminsCreate, AdminsEdit, AdminsDelete},
}

// moderatorDefaults is the fallback set for a Moderator whose login response
// carried no explicit permission list.
//
//nolint:gochecknoglobals // immutable catalog data
var moderatorDefaults = []Permission{
	DashboardView,
	DesignersView,
	CustomersView,
	DesignsView,
	DesignsApprove,
	DesignsReject,
	OrdersView,
	AnalyticsView,
	ActivityView,
	NotificationsView,
}

// All returns every permission of the catalog, sorted.
func All() []Permission {
	out := make([]Permission, 0, len(groups)*4) //nolint:mnd
	for _, perms := range groups {
		out = append(out, perms...)
	}

	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })

	return out
}

// ForGroup returns the permissions of a group. Unknown groups yield an empty slice.
func ForGroup(group string) []Permission {
	perms, ok := groups[group]
	if !ok {
		return []Permission{}
	}

	return append([]Permission(nil), perms...)
}

// Groups returns the sorted group names.
func Groups() []string {
	out := make([]string, 0, len(groups))
	for name := range groups {
		out = append(out, name)
	}

	sort.Strings(out)

	return out
}

// ModeratorDefaults returns the default permission set of the Moderator role.
func ModeratorDefaults() []Permission {
	return append([]Permission(nil), moderatorDefaults...)
}

// Known reports whether p is part of the catalog.
func Known(p Permission) bool {
	for _, perm := range groups[p.Resource()] {
		if perm == p {
			return true
		}
	}

	return false
}
