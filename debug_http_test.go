package servicelayer

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func debugGet(t *testing.T, handler http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr
}

func TestDebugHandlerGraph(t *testing.T) {
	layer := snapshotFixture(t)
	require.NoError(t, layer.Start())
	handler := layer.DebugHandler()

	rr := debugGet(t, handler, "/graph")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var snap GraphSnapshot
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &snap))
	assert.Equal(t, "started", snap.LayerState)
	assert.Len(t, snap.Services, 2)
	assert.Len(t, snap.Edges, 1)
}

func TestDebugHandlerServices(t *testing.T) {
	layer := snapshotFixture(t)
	require.NoError(t, layer.Start())
	handler := layer.DebugHandler()

	rr := debugGet(t, handler, "/services")
	require.Equal(t, http.StatusOK, rr.Code)

	var services []ServiceSnapshot
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &services))
	require.Len(t, services, 2)

	rr = debugGet(t, handler, "/services/app.store")
	require.Equal(t, http.StatusOK, rr.Code)

	var svc ServiceSnapshot
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &svc))
	assert.Equal(t, "app.store", svc.ID)
	assert.Equal(t, "constructed", svc.State)
}

func TestDebugHandlerUnknownService(t *testing.T) {
	layer := snapshotFixture(t)
	handler := layer.DebugHandler()

	rr := debugGet(t, handler, "/services/app.ghost")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
