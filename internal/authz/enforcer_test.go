package authz

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnforcer_RoleHierarchy(t *testing.T) {
	enforcer, err := NewEnforcer()
	require.NoError(t, err)

	testCases := []struct {
		role    string
		object  string
		action  string
		allowed bool
	}{
		{"viewer", ObjectReports, ActionRead, true},
		{"viewer", ObjectProfile, ActionWrite, true},
		{"viewer", ObjectReports, ActionWrite, false},
		{"viewer", ObjectAnalytics, ActionRead, false},
		{"analyst", ObjectAnalytics, ActionRead, true},
		{"analyst", ObjectIncidents, ActionRead, true},
		{"analyst", ObjectAlerts, ActionWrite, false},
		{"responder", ObjectReports, ActionWrite, true},
		{"responder", ObjectIncidents, ActionWrite, true},
		{"responder", ObjectAnalytics, ActionRead, true},
		{"responder", ObjectUsers, ActionWrite, false},
		{"admin", ObjectUsers, ActionWrite, true},
		{"admin", ObjectAlerts, ActionWrite, true},
		{"stranger", ObjectReports, ActionRead, false},
	}

	for _, tc := range testCases {
		t.Run(fmt.Sprintf("%s %s %s", tc.role, tc.action, tc.object), func(t *testing.T) {
			allowed, err := enforcer.Allow(tc.role, tc.object, tc.action)
			require.NoError(t, err)
			assert.Equal(t, tc.allowed, allowed)
		})
	}
}

func TestLoadPolicy_Malformed(t *testing.T) {
	enforcer, err := NewEnforcer()
	require.NoError(t, err)

	err = loadPolicy(enforcer.enforcer, "p, viewer, reports")

	assert.ErrorContains(t, err, "malformed policy line")
}
