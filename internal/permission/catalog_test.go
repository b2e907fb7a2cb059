package permission

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAll(t *testing.T) {
	all := All()
	require.NotEmpty(t, all)

	seen := make(map[Permission]bool)
	for i, p := range all {
		assert.False(t, seen[p], "duplicate permission %s", p)
		seen[p] = true

		assert.True(t, strings.Contains(string(p), "."), "permission %s is not namespaced", p)

		if i > 0 {
			assert.Less(t, all[i-1], p, "catalog is not sorted")
		}
	}

	assert.Contains(t, all, DesignsApprove)
	assert.Contains(t, all, AdminsDelete)
}

func TestAll_ReturnsCopy(t *testing.T) {
	all := All()
	all[0] = "tampered.value"

	assert.NotEqual(t, Permission("tampered.value"), All()[0])
}

func TestForGroup(t *testing.T) {
	testCases := []struct {
		name     string
		group    string
		expected []Permission
	}{
		{"designs", GroupDesigns, []Permission{DesignsView, DesignsApprove, DesignsReject, DesignsFeature, DesignsDelete}},
		{"dashboard", GroupDashboard, []Permission{DashboardView}},
		{"unknown group", "warehouses", []Permission{}},
		{"empty group name", "", []Permission{}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := ForGroup(tc.group)
			require.NotNil(t, got)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestGroups_CoverCatalog(t *testing.T) {
	total := 0
	for _, g := range Groups() {
		for _, p := range ForGroup(g) {
			assert.Equal(t, g, p.Resource())
			total++
		}
	}

	assert.Len(t, All(), total)
}

func TestModeratorDefaults(t *testing.T) {
	defaults := ModeratorDefaults()
	require.NotEmpty(t, defaults)

	for _, p := range defaults {
		assert.True(t, Known(p), "moderator default %s is not in the catalog", p)
	}

	assert.NotContains(t, defaults, DesignsDelete)
	assert.NotContains(t, defaults, AdminsEdit)

	defaults[0] = "tampered.value"
	assert.NotContains(t, ModeratorDefaults(), Permission("tampered.value"))
}

func TestKnown(t *testing.T) {
	assert.True(t, Known(OrdersRefund))
	assert.False(t, Known("orders.teleport"))
	assert.False(t, Known("nonsense"))
	assert.False(t, Known(""))
}

func TestPermission_ResourceAction(t *testing.T) {
	assert.Equal(t, "designs", DesignsApprove.Resource())
	assert.Equal(t, "approve", DesignsApprove.Action())
	assert.Equal(t, "plain", Permission("plain").Resource())
	assert.Empty(t, Permission("plain").Action())
}

func TestSet(t *testing.T) {
	s := NewSet(DesignsView, OrdersView, DesignsView)

	assert.Equal(t, 2, s.Len())
	assert.True(t, s.Has(DesignsView))
	assert.False(t, s.Has(DesignsDelete))
	assert.Equal(t, []Permission{DesignsView, OrdersView}, s.Slice())
	assert.Equal(t, []string{"designs.view", "orders.view"}, s.Strings())

	var zero Set
	assert.False(t, zero.Has(DesignsView))
	assert.Empty(t, zero.Slice())
}

func TestFromStrings(t *testing.T) {
	assert.Equal(t, []Permission{DesignsView, "x.y"}, FromStrings([]string{"designs.view", "x.y"}))
	assert.Empty(t, FromStrings(nil))
}
