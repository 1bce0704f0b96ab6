package permissions

import (
	"expo/shared/constant"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet_EmbeddedTable(t *testing.T) {
	data := Get()
	require.NotNil(t, data)

	seen := map[string]bool{}
	known := []string{constant.RoleUser, constant.RoleAdmin, constant.RoleSuperAdmin}

	for _, endpoint := range data.Endpoints {
		key := endpoint.Method + " " + endpoint.Path
		assert.False(t, seen[key], "duplicate entry %s", key)
		seen[key] = true

		for _, role := range endpoint.Permissions {
			assert.Contains(t, known, role, "unknown role on %s", key)
		}
	}

	assert.True(t, data.FindPermissions("/v1/auth/login", http.MethodPost).Skip)
	assert.False(t, data.FindPermissions("/v1/exhibitions/{id}/calendar.ics", http.MethodGet).Skip)
}

func TestFindPermissions(t *testing.T) {
	data := &PermissionData{Endpoints: []Permission{
		{Path: "/v1/exhibitions", Method: http.MethodGet, Permissions: []string{constant.RoleUser}},
	}}

	tests := []struct {
		name      string
		path      string
		method    string
		role      string
		wantAllow bool
	}{
		{name: "listed role", path: "/v1/exhibitions", method: http.MethodGet, role: constant.RoleUser, wantAllow: true},
		{name: "method is case insensitive", path: "/v1/exhibitions", method: "get", role: constant.RoleUser, wantAllow: true},
		{name: "unlisted role", path: "/v1/exhibitions", method: http.MethodGet, role: constant.ContextGuest, wantAllow: false},
		{name: "unknown route allows any role", path: "/v1/unknown", method: http.MethodGet, role: constant.ContextGuest, wantAllow: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantAllow, data.FindPermissions(tt.path, tt.method).Allows(tt.role))
		})
	}
}

func TestParse_Malformed(t *testing.T) {
	assert.Nil(t, parse([]byte("{")))
}
