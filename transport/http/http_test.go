package http_test

import (
	"expo/config"
	otelMocks "expo/infras/otel/mocks"
	"expo/permissions"
	transport "expo/transport/http"
	"expo/transport/http/middleware"
	"expo/transport/http/router"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func newServer() *transport.HTTP {
	cfg := &config.Config{}
	ot := otelMocks.NewOtel()

	authRole := middleware.NewAuthRoleMiddleware(nil, ot, permissions.Get(), cfg)

	return transport.New(
		cfg,
		router.New(router.DomainHandlers{}, authRole),
		middleware.NewAppMiddleware(ot, cfg, nil),
		nil,
		transport.Dependencies{Otel: ot},
	)
}

func TestHealth(t *testing.T) {
	tests := []struct {
		name       string
		state      transport.ServerState
		wantStatus int
	}{
		{name: "ready", state: transport.ServerStateReady, wantStatus: http.StatusOK},
		{name: "grace period", state: transport.ServerStateInGracePeriod, wantStatus: http.StatusServiceUnavailable},
		{name: "cleanup period", state: transport.ServerStateInCleanupPeriod, wantStatus: http.StatusServiceUnavailable},
		{name: "unknown state", state: 0, wantStatus: http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := newServer()

			// the first request builds the router and marks the server ready
			server.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))

			server.State = tt.state

			rec := httptest.NewRecorder()
			server.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestProtectedRouteRequiresAuth(t *testing.T) {
	server := newServer()

	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/exhibitions", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
