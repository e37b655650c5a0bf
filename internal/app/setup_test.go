package app

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/abgdnv/whiskystock/internal/config"
	"github.com/abgdnv/whiskystock/internal/store"
	pkgconfig "github.com/abgdnv/whiskystock/pkg/config"
	"github.com/abgdnv/whiskystock/pkg/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSetupDependencies(t *testing.T) {
	testCases := []struct {
		name    string
		backend string
		wantErr string
	}{
		{name: "in-memory store", backend: pkgconfig.StoreBackendMemory},
		{name: "unknown backend", backend: "cassandra", wantErr: `unknown store backend "cassandra"`},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			cfg := &config.Config{}
			cfg.Store.Backend = tc.backend

			// when
			deps, err := SetupDependencies(context.Background(), cfg, discardLogger())

			// then
			if tc.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, deps.WhiskyService)
			assert.NoError(t, deps.Close(context.Background()))
		})
	}
}

func TestSetupHttpHandler_ServesMetrics(t *testing.T) {
	// given
	metrics, err := telemetry.NewMeterProvider("whisky-service-test")
	require.NoError(t, err)
	t.Cleanup(func() { _ = metrics.Provider.Shutdown(context.Background()) })

	deps := NewDependencies(store.NewInMemoryStore(), nil, discardLogger())
	deps.MetricsHandler = metrics.Handler
	deps.MetricsPath = "/metrics"
	srv := httptest.NewServer(SetupHttpHandler(deps))
	t.Cleanup(srv.Close)

	body := `{"name":"Old Parr 12","brand":"Scotland","max":50,"quantity":10,"type":"OLDPARR"}`
	resp, err := http.Post(srv.URL+"/api/v1/whiskies", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	_ = resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	// when
	resp, err = http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	// then
	require.Equal(t, http.StatusOK, resp.StatusCode)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "whisky_registered_total")
}

func TestSetupHttpHandler_WithoutMetrics(t *testing.T) {
	// given
	deps := NewDependencies(store.NewInMemoryStore(), nil, discardLogger())
	srv := httptest.NewServer(SetupHttpHandler(deps))
	t.Cleanup(srv.Close)

	// when
	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	_ = resp.Body.Close()
	metricsResp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	_ = metricsResp.Body.Close()

	// then
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, http.StatusNotFound, metricsResp.StatusCode)
}
