package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/larder/internal/bundle"
	"github.com/mesh-intelligence/larder/internal/catalog"
	"github.com/mesh-intelligence/larder/internal/sqlite"
	"github.com/mesh-intelligence/larder/pkg/types"
)

// newTestServer attaches a backend seeded with the embedded dataset.
func newTestServer(t *testing.T, opts Options) (*Server, []*types.Food) {
	t.Helper()

	backend := sqlite.NewBackendWithLogger(zerolog.Nop())
	require.NoError(t, backend.Attach(types.Config{Backend: types.BackendSQLite, DataDir: t.TempDir()}))
	t.Cleanup(func() { backend.Detach() })

	cat, err := catalog.Default()
	require.NoError(t, err)
	_, err = backend.Seed(cat.All())
	require.NoError(t, err)

	table, err := backend.GetTable(types.FoodsTable)
	require.NoError(t, err)
	foods, err := table.Fetch(nil)
	require.NoError(t, err)

	return New(t.Context(), table, opts, zerolog.Nop()), foods
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

type foodResponse struct {
	FoodID string  `json:"food_id"`
	Name   string  `json:"name"`
	Sugar  float64 `json:"sugar"`
	Notice *string `json:"notice"`
	Energy float64 `json:"energy"`
}

func TestHealthz(t *testing.T) {
	srv, _ := newTestServer(t, Options{})

	rec := get(t, srv.Handler(), "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestListFoods(t *testing.T) {
	srv, _ := newTestServer(t, Options{})

	rec := get(t, srv.Handler(), "/api/foods")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var foods []foodResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &foods))
	require.Len(t, foods, 3)
	assert.Equal(t, []float64{583, 411, 365}, []float64{foods[0].Energy, foods[1].Energy, foods[2].Energy})
	require.NotNil(t, foods[0].Notice)
	assert.Equal(t, "Almost sugar is natural sugar", *foods[0].Notice)
	assert.Nil(t, foods[1].Notice)
	for _, f := range foods {
		assert.NotEmpty(t, f.FoodID)
	}
}

func TestListFoodsByName(t *testing.T) {
	srv, _ := newTestServer(t, Options{})

	tests := []struct {
		name  string
		query string
		want  int
	}{
		{name: "exact", query: "Overnight%20Oats", want: 3},
		{name: "case insensitive", query: "overnight%20oats", want: 3},
		{name: "unknown", query: "Porridge", want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(t, srv.Handler(), "/api/foods?name="+tt.query)
			require.Equal(t, http.StatusOK, rec.Code)

			var foods []foodResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &foods))
			assert.Len(t, foods, tt.want)
			assert.NotNil(t, foods, "empty result encodes as []")
		})
	}
}

func TestListFoodsIncludedSugar(t *testing.T) {
	srv, _ := newTestServer(t, Options{Estimator: types.Estimator{Policy: types.SugarIncluded}})

	var foods []foodResponse
	rec := get(t, srv.Handler(), "/api/foods")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &foods))
	require.NotEmpty(t, foods)
	assert.Equal(t, 511.0, foods[0].Energy)
}

func TestGetFood(t *testing.T) {
	srv, stored := newTestServer(t, Options{})

	rec := get(t, srv.Handler(), "/api/foods/"+stored[1].FoodID)
	require.Equal(t, http.StatusOK, rec.Code)

	var f foodResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &f))
	assert.Equal(t, stored[1].FoodID, f.FoodID)
	assert.Equal(t, 411.0, f.Energy)

	rec = get(t, srv.Handler(), "/api/foods/no-such-id")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "not found")
}

func TestEstimate(t *testing.T) {
	srv, _ := newTestServer(t, Options{})

	tests := []struct {
		name       string
		query      string
		wantStatus int
		wantEnergy float64
	}{
		{name: "all macros", query: "carbs=74&protein=38&fat=7&sugar=18", wantStatus: http.StatusOK, wantEnergy: 583},
		{name: "missing default to zero", query: "fat=1", wantStatus: http.StatusOK, wantEnergy: 9},
		{name: "no params", query: "", wantStatus: http.StatusOK, wantEnergy: 0},
		{name: "fractional rounds", query: "carbs=0.125", wantStatus: http.StatusOK, wantEnergy: 1},
		{name: "not a number", query: "carbs=lots", wantStatus: http.StatusBadRequest},
		{name: "nan rejected", query: "fat=NaN", wantStatus: http.StatusBadRequest},
		{name: "inf rejected", query: "sugar=Inf", wantStatus: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(t, srv.Handler(), "/api/estimate?"+tt.query)
			require.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus != http.StatusOK {
				return
			}
			var body struct {
				Energy      float64 `json:"energy"`
				SugarPolicy string  `json:"sugar_policy"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantEnergy, body.Energy)
			assert.Equal(t, "additive", body.SugarPolicy)
		})
	}
}

func TestAudit(t *testing.T) {
	srv, _ := newTestServer(t, Options{})

	rec := get(t, srv.Handler(), "/api/audit")
	require.Equal(t, http.StatusOK, rec.Code)

	var issues []catalog.Issue
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &issues))
	require.NotEmpty(t, issues)
	assert.Equal(t, catalog.IssueDuplicateName, issues[0].Kind)
	assert.Equal(t, []int{1, 2, 3}, issues[0].Rows)
}

func TestDevHeaders(t *testing.T) {
	t.Run("dev mode", func(t *testing.T) {
		srv, _ := newTestServer(t, Options{Dev: true, Profile: bundle.Default()})
		rec := get(t, srv.Handler(), "/api/foods")
		assert.Equal(t, "max-age=0, must-revalidate", rec.Header().Get("Cache-Control"))
	})

	t.Run("rate limited response", func(t *testing.T) {
		srv, _ := newTestServer(t, Options{Dev: true, Profile: bundle.Default(), RateLimit: 0.001, RateBurst: 1})
		get(t, srv.Handler(), "/healthz")
		rec := get(t, srv.Handler(), "/healthz")
		require.Equal(t, http.StatusTooManyRequests, rec.Code)
		assert.Equal(t, "max-age=0, must-revalidate", rec.Header().Get("Cache-Control"))
	})

	t.Run("cors preflight", func(t *testing.T) {
		srv, _ := newTestServer(t, Options{Dev: true, Profile: bundle.Default(), CORSOrigins: []string{"http://localhost:5173"}})
		req := httptest.NewRequest(http.MethodOptions, "/api/foods", nil)
		req.Header.Set("Origin", "http://localhost:5173")
		req.Header.Set("Access-Control-Request-Method", http.MethodGet)
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, req)
		assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "max-age=0, must-revalidate", rec.Header().Get("Cache-Control"))
	})

	t.Run("production", func(t *testing.T) {
		srv, _ := newTestServer(t, Options{Profile: bundle.Default()})
		rec := get(t, srv.Handler(), "/api/foods")
		assert.Empty(t, rec.Header().Get("Cache-Control"))
	})
}

func TestCORS(t *testing.T) {
	srv, _ := newTestServer(t, Options{CORSOrigins: []string{"http://localhost:5173"}})

	req := httptest.NewRequest(http.MethodGet, "/api/foods", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/api/foods", nil)
	req.Header.Set("Origin", "http://evil.example")
	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestWebAssets(t *testing.T) {
	assets := fstest.MapFS{
		"index.html":        {Data: []byte("<html>shell</html>")},
		"assets/app-123.js": {Data: []byte("console.log(1)")},
	}
	srv, _ := newTestServer(t, Options{WebAssets: assets})

	tests := []struct {
		name string
		path string
		want string
	}{
		{name: "root", path: "/", want: "shell"},
		{name: "asset", path: "/assets/app-123.js", want: "console.log(1)"},
		{name: "client route falls back", path: "/foods/oats", want: "shell"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(t, srv.Handler(), tt.path)
			require.Equal(t, http.StatusOK, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.want)
		})
	}

	rec := get(t, srv.Handler(), "/api/foods")
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"), "API routes win over assets")

	rec = get(t, srv.Handler(), "/api/food")
	assert.Equal(t, http.StatusNotFound, rec.Code, "unknown API paths do not fall back to the shell")
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.NotContains(t, rec.Body.String(), "shell")
}

func TestUnknownAPIRoute(t *testing.T) {
	srv, _ := newTestServer(t, Options{})

	rec := get(t, srv.Handler(), "/api/nope")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), `"error"`)
}

func TestStartShutdown(t *testing.T) {
	srv, _ := newTestServer(t, Options{Addr: "127.0.0.1:0"})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Start(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop after cancel")
	}
}

func TestRateLimit(t *testing.T) {
	srv, _ := newTestServer(t, Options{RateLimit: 0.001, RateBurst: 2})

	for range 2 {
		rec := get(t, srv.Handler(), "/healthz")
		assert.Equal(t, http.StatusOK, rec.Code)
	}
	rec := get(t, srv.Handler(), "/healthz")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.RemoteAddr = "192.0.2.99:1234"
	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code, "limits are per client")
}

func TestRateLimitSharedAcrossConnections(t *testing.T) {
	srv, _ := newTestServer(t, Options{RateLimit: 0.001, RateBurst: 1})

	send := func(remoteAddr, forwardedFor string) int {
		req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
		req.RemoteAddr = remoteAddr
		if forwardedFor != "" {
			req.Header.Set("X-Forwarded-For", forwardedFor)
		}
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, send("10.0.0.1:1111", ""))
	assert.Equal(t, http.StatusTooManyRequests, send("10.0.0.1:2222", ""), "a new port is the same client")
	assert.Equal(t, http.StatusTooManyRequests, send("10.0.0.1:3333", "203.0.113.7"), "forwarded headers are ignored without TrustProxy")
}

func TestRateLimitTrustProxy(t *testing.T) {
	srv, _ := newTestServer(t, Options{RateLimit: 0.001, RateBurst: 1, TrustProxy: true})

	send := func(forwardedFor string) int {
		req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
		req.RemoteAddr = "10.0.0.1:1111"
		req.Header.Set("X-Forwarded-For", forwardedFor)
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, send("203.0.113.7"))
	assert.Equal(t, http.StatusTooManyRequests, send("203.0.113.7"))
	assert.Equal(t, http.StatusOK, send("203.0.113.8"), "each forwarded client has its own bucket")
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		remote string
		want   string
	}{
		{remote: "10.0.0.1:1111", want: "10.0.0.1"},
		{remote: "[2001:db8::1]:443", want: "2001:db8::1"},
		{remote: "10.0.0.1", want: "10.0.0.1"},
	}
	for _, tt := range tests {
		t.Run(tt.remote, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			assert.Equal(t, tt.want, clientIP(req))
		})
	}
}
