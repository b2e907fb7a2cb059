// Package navigation describes the console menu and filters it through the
// authorization gate.
package navigation

import (
	"github.com/atelier-market/admin-console/internal/gate"
	"github.com/atelier-market/admin-console/internal/permission"
	"github.com/atelier-market/admin-console/internal/session"
)

// Checker decides a requirement. *gate.Gate implements it.
type Checker interface {
	Check(req gate.Requirement) gate.Decision
}

// Item is a menu entry guarded by a requirement.
type Item struct {
	ID          string
	Title       string
	URL         string
	Requirement gate.Requirement
	// ShowLocked keeps a denied item visible in a locked state instead of hiding it.
	ShowLocked bool
}

// Section groups menu items.
type Section struct {
	ID    string
	Title string
	Items []Item
}

// Entry is an item as rendered for the current session.
type Entry struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	URL    string `json:"url"`
	Locked bool   `json:"locked,omitempty"`
	Active bool   `json:"active,omitempty"`
}

// MenuSection is a section as rendered for the current session.
type MenuSection struct {
	ID    string  `json:"id"`
	Title string  `json:"title"`
	Items []Entry `json:"items"`
}

// Menu is the filtered menu. While Pending the session is still being
// restored and no section is listed.
type Menu struct {
	Pending     bool             `json:"pending"`
	Sections    []MenuSection    `json:"sections"`
	Breadcrumbs []BreadcrumbItem `json:"breadcrumbs,omitempty"`
}

// Default returns the console menu.
func Default() []Section {
	return []Section{
		{
			ID:    "overview",
			Title: "Overview",
			Items: []Item{
				{ID: "dashboard", Title: "Dashboard", URL: "/", Requirement: gate.RequireAll(permission.DashboardView)},
			},
		},
		{
			ID:    "marketplace",
			Title: "Marketplace",
			Items: []Item{
				{ID: "designers", Title: "Designers", URL: "/designers", Requirement: gate.RequireAll(permission.DesignersView)},
				{ID: "customers", Title: "Customers", URL: "/customers", Requirement: gate.RequireAll(permission.CustomersView)},
				{ID: "designs", Title: "Designs", URL: "/designs", Requirement: gate.RequireAll(permission.DesignsView)},
			},
		},
		{
			ID:    "commerce",
			Title: "Commerce",
			Items: []Item{
				{ID: "orders", Title: "Orders", URL: "/orders", Requirement: gate.RequireAll(permission.OrdersView)},
				{ID: "plans", Title: "Plans", URL: "/plans", Requirement: gate.RequireAll(permission.PlansView), ShowLocked: true},
				{ID: "coupons", Title: "Coupons", URL: "/coupons", Requirement: gate.RequireAll(permission.CouponsView), ShowLocked: true},
				{ID: "bundles", Title: "Bundles", URL: "/bundles", Requirement: gate.RequireAll(permission.BundlesView), ShowLocked: true},
			},
		},
		{
			ID:    "insights",
			Title: "Insights",
			Items: []Item{
				{ID: "analytics", Title: "Analytics", URL: "/analytics", Requirement: gate.RequireAll(permission.AnalyticsView)},
				{ID: "activity", Title: "Activity", URL: "/activity", Requirement: gate.RequireAll(permission.ActivityView)},
			},
		},
		{
			ID:    "system",
			Title: "System",
			Items: []Item{
				{
					ID: "notifications", Title: "Notifications", URL: "/notifications",
					Requirement: gate.RequireAny(permission.NotificationsView, permission.NotificationsSend),
				},
				{
					ID: "settings", Title: "Settings", URL: "/settings",
					Requirement: gate.RequireRole(session.RoleSuperAdmin), ShowLocked: true,
				},
				{ID: "admins", Title: "Admins", URL: "/admins", Requirement: gate.RequireAll(permission.AdminsView)},
			},
		},
	}
}

// Filter renders sections for the session behind checker. Denied items are
// dropped, or kept locked when ShowLocked is set. Sections left without items
// are dropped. active marks the item with that id.
func Filter(checker Checker, sections []Section, active string) Menu {
	menu := Menu{Sections: make([]MenuSection, 0, len(sections))}

	for _, section := range sections {
		out := MenuSection{ID: section.ID, Title: section.Title, Items: make([]Entry, 0, len(section.Items))}

		for _, item := range section.Items {
			entry := Entry{ID: item.ID, Title: item.Title, URL: item.URL, Active: item.ID == active}

			switch checker.Check(item.Requirement) {
			case gate.Pending:
				return Menu{Pending: true, Sections: []MenuSection{}}
			case gate.Deny:
				if !item.ShowLocked {
					continue
				}

				entry.Locked = true
				entry.URL = ""
			case gate.Allow:
			}

			out.Items = append(out.Items, entry)
		}

		if len(out.Items) > 0 {
			menu.Sections = append(menu.Sections, out)
		}
	}

	if ctx := Locate(sections, active); ctx != nil {
		menu.Breadcrumbs = ctx.Breadcrumbs
	}

	return menu
}

// Locate builds the navigation context of the item with id active, or returns
// nil when there is no such item.
func Locate(sections []Section, active string) *Context {
	for _, section := range sections {
		for _, item := range section.Items {
			if item.ID != active {
				continue
			}

			return NewContext(item.Title, section.ID, item.ID).
				AddBreadcrumb("Home", "/", false).
				AddBreadcrumb(section.Title, "", false).
				AddBreadcrumb(item.Title, item.URL, true)
		}
	}

	return nil
}
