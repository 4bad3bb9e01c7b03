package http_test

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	httpadapter "github.com/couchcryptid/pluscode-etl/internal/adapter/http"
	"github.com/couchcryptid/pluscode-etl/internal/observability"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockReadiness struct {
	err error
}

func (m *mockReadiness) CheckReadiness(_ context.Context) error { return m.err }

func newTestServer(readyErr error) (*httpadapter.Server, *observability.Metrics) {
	m := observability.NewMetricsForTesting()
	return httpadapter.NewServer(":0", &mockReadiness{err: readyErr}, m, slog.Default()), m
}

func get(t *testing.T, srv http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestHealthzReturns200(t *testing.T) {
	srv, _ := newTestServer(nil)
	rec := get(t, srv, "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestReadyzReturns200WhenReady(t *testing.T) {
	srv, _ := newTestServer(nil)
	rec := get(t, srv, "/readyz")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestReadyzReturns503WhenNotReady(t *testing.T) {
	srv, _ := newTestServer(fmt.Errorf("not ready yet"))
	rec := get(t, srv, "/readyz")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	srv, _ := newTestServer(nil)
	rec := get(t, srv, "/metrics")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestEncode(t *testing.T) {
	srv, m := newTestServer(nil)
	rec := get(t, srv, "/v1/encode?lat=37.4220&lng=-122.0841")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	body := decodeBody(t, rec)
	assert.Equal(t, "849VCWC8+R9", body["code"])
	assert.InDelta(t, 10, body["length"], 0)

	area := body["area"].(map[string]any)
	assert.InDelta(t, 37.422, area["south"], 1e-9)
	assert.InDelta(t, -122.0841250, area["west"], 1e-9)

	assert.InDelta(t, 1, testutil.ToFloat64(m.APIRequests.WithLabelValues("GET /v1/encode", "200")), 0)
}

func TestEncode_Length(t *testing.T) {
	srv, _ := newTestServer(nil)
	rec := get(t, srv, "/v1/encode?lat=47.3769&lng=8.5417&length=11")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "8FVC9GGR+QM8", decodeBody(t, rec)["code"])
}

func TestEncode_BadRequests(t *testing.T) {
	tests := []struct {
		name   string
		target string
		status int
	}{
		{"missing lat", "/v1/encode?lng=1", http.StatusBadRequest},
		{"non-numeric lng", "/v1/encode?lat=1&lng=east", http.StatusBadRequest},
		{"non-numeric length", "/v1/encode?lat=1&lng=1&length=ten", http.StatusBadRequest},
		{"odd length", "/v1/encode?lat=1&lng=1&length=7", http.StatusUnprocessableEntity},
		{"NaN latitude", "/v1/encode?lat=NaN&lng=1", http.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _ := newTestServer(nil)
			rec := get(t, srv, tt.target)
			assert.Equal(t, tt.status, rec.Code)
			body := decodeBody(t, rec)
			assert.NotEmpty(t, body["error"])
			assert.Equal(t, rec.Header().Get(httpadapter.RequestIDHeader), body["request_id"])
		})
	}
}

func TestDecode(t *testing.T) {
	srv, _ := newTestServer(nil)
	rec := get(t, srv, "/v1/decode?code=849vcwc8%2Br9")

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "849VCWC8+R9", body["code"])
	center := body["center"].(map[string]any)
	assert.InDelta(t, 37.4220625, center["lat"], 1e-9)
	assert.InDelta(t, -122.0840625, center["lng"], 1e-9)
}

func TestDecode_ShortCodeRejected(t *testing.T) {
	srv, _ := newTestServer(nil)
	rec := get(t, srv, "/v1/decode?code=CWC8%2BR9")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestDecode_MissingCode(t *testing.T) {
	srv, _ := newTestServer(nil)
	rec := get(t, srv, "/v1/decode")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		code   string
		valid  bool
		short  bool
		full   bool
		reason bool
	}{
		{"8FWC2345%2BG6", true, false, true, false},
		{"WC2345%2BG6g", true, true, false, false},
		{"G%2B", false, false, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			srv, _ := newTestServer(nil)
			rec := get(t, srv, "/v1/validate?code="+tt.code)
			require.Equal(t, http.StatusOK, rec.Code)
			body := decodeBody(t, rec)
			assert.Equal(t, tt.valid, body["valid"])
			assert.Equal(t, tt.short, body["short"])
			assert.Equal(t, tt.full, body["full"])
			_, hasReason := body["reason"]
			assert.Equal(t, tt.reason, hasReason)
		})
	}
}

func TestShorten(t *testing.T) {
	srv, m := newTestServer(nil)
	rec := get(t, srv, "/v1/shorten?code=9C3W9QCJ%2B2VX&lat=51.3701125&lng=-1.217765625")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "+2VX", decodeBody(t, rec)["short"])
	assert.InDelta(t, 1, testutil.ToFloat64(m.Shorten.WithLabelValues("shortened")), 0)
}

func TestShorten_TooFar(t *testing.T) {
	srv, m := newTestServer(nil)
	rec := get(t, srv, "/v1/shorten?code=849VCWC8%2BR9&lat=-33.86&lng=151.21")

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.InDelta(t, 1, testutil.ToFloat64(m.Shorten.WithLabelValues("too_far")), 0)
}

func TestRecover(t *testing.T) {
	srv, m := newTestServer(nil)
	rec := get(t, srv, "/v1/recover?code=CWC8%2BR9&lat=37.4&lng=-122.0")

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "CWC8+R9", body["short"])
	assert.Equal(t, "849VCWC8+R9", body["code"])
	assert.InDelta(t, 1, testutil.ToFloat64(m.Recover.WithLabelValues("recovered")), 0)
}

func TestRecover_InvalidCode(t *testing.T) {
	srv, m := newTestServer(nil)
	rec := get(t, srv, "/v1/recover?code=C%2B&lat=37.4&lng=-122.0")

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.InDelta(t, 1, testutil.ToFloat64(m.Recover.WithLabelValues("error")), 0)
}

func TestContains(t *testing.T) {
	srv, _ := newTestServer(nil)

	rec := get(t, srv, "/v1/contains?code=849VCWC8%2BR9&lat=37.4220625&lng=-122.0840625")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, decodeBody(t, rec)["contains"])

	rec = get(t, srv, "/v1/contains?code=849VCWC8%2BR9&lat=0&lng=0")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, false, decodeBody(t, rec)["contains"])
}

func TestRequestID(t *testing.T) {
	srv, _ := newTestServer(nil)

	rec := get(t, srv, "/healthz")
	assert.Len(t, rec.Header().Get(httpadapter.RequestIDHeader), 26, "ULIDs are 26 characters")

	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(httpadapter.RequestIDHeader, "caller-supplied")
	srv.ServeHTTP(rec, req)
	assert.Equal(t, "caller-supplied", rec.Header().Get(httpadapter.RequestIDHeader))
}
