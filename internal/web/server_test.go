package web

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/implantsim/internal/experiment"
	"github.com/san-kum/implantsim/internal/export"
)

func TestMain(m *testing.M) {
	logrus.SetLevel(logrus.WarnLevel)
	logrus.SetOutput(io.Discard)
	os.Exit(m.Run())
}

func newTestServer(t *testing.T) (*Server, http.Handler) {
	t.Helper()
	reg := prometheus.NewRegistry()
	s := New(experiment.NewRegistry(), Options{Registerer: reg, Gatherer: reg})
	return s, s.Router()
}

func do(h http.Handler, method, target string, body []byte) *httptest.ResponseRecorder {
	var r io.Reader
	if body != nil {
		r = bytes.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	_, h := newTestServer(t)
	w := do(h, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}

func TestKinds(t *testing.T) {
	_, h := newTestServer(t)
	w := do(h, http.MethodGet, "/api/kinds", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var kinds []KindResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &kinds))
	require.NotEmpty(t, kinds)
	assert.Equal(t, "basic", kinds[0].Name)
	assert.Equal(t, "D", kinds[0].Params[0].Name)
	assert.Equal(t, 5.0, kinds[0].Params[0].Max)
}

func TestSimulate(t *testing.T) {
	s, h := newTestServer(t)
	body := []byte(`{"kind":"basic","params":{"D":1,"r":0.5,"days":10}}`)
	w := do(h, http.MethodPost, "/api/simulate", body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp SimulateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "basic", resp.Kind)
	assert.Len(t, resp.Times, 100)
	assert.Len(t, resp.Values, 100)
	assert.InDelta(t, 0.99326, resp.Values[99], 1e-5)
	assert.Contains(t, resp.Metrics, "final")

	assert.Equal(t, 1.0, testutil.ToFloat64(s.metrics.simulations.WithLabelValues("basic")))
	assert.Equal(t, 1, testutil.CollectAndCount(s.metrics.latency))
}

func TestSimulate_ClampsParams(t *testing.T) {
	_, h := newTestServer(t)
	w := do(h, http.MethodPost, "/api/simulate", []byte(`{"kind":"basic","params":{"D":99,"days":-4}}`))
	require.Equal(t, http.StatusOK, w.Code)

	var resp SimulateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 5.0, resp.Params["D"])
	assert.Equal(t, 1.0, resp.Params["days"])
	assert.Equal(t, 1.0, resp.Times[len(resp.Times)-1])
}

func TestSimulate_3D(t *testing.T) {
	_, h := newTestServer(t)
	w := do(h, http.MethodPost, "/api/simulate", []byte(`{"kind":"surface3d"}`))
	require.Equal(t, http.StatusOK, w.Code)

	var resp SimulateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Thickness, 50)
}

func TestSimulate_Errors(t *testing.T) {
	s, h := newTestServer(t)
	cases := []struct {
		name string
		body string
	}{
		{"malformed", `{"kind":`},
		{"missing kind", `{}`},
		{"unknown kind", `{"kind":"nope"}`},
		{"unknown param", `{"kind":"basic","params":{"zeta":1}}`},
		{"too many samples", `{"kind":"basic","samples":100000}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := do(h, http.MethodPost, "/api/simulate", []byte(tc.body))
			assert.Equal(t, http.StatusBadRequest, w.Code)
			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, "invalid request", resp.Error)
			assert.NotEmpty(t, resp.Details)
		})
	}
	assert.Equal(t, float64(len(cases)), testutil.ToFloat64(s.metrics.errors))
}

func TestCSV(t *testing.T) {
	_, h := newTestServer(t)
	w := do(h, http.MethodGet, "/api/simulate/burst/csv?burst=1.5&samples=20", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `attachment; filename="burst_release.csv"`, w.Header().Get("Content-Disposition"))
	assert.True(t, strings.HasPrefix(w.Header().Get("Content-Type"), "text/csv"))

	tbl, err := export.ParseCSV(w.Body)
	require.NoError(t, err)
	assert.Equal(t, []string{experiment.TimeLabel, "Drug Release Amount"}, tbl.Names())
	assert.Equal(t, 20, tbl.Rows())
	burst, _ := tbl.Column("Drug Release Amount")
	assert.Equal(t, 1.5, burst[0])
}

func TestCSV_BadQuery(t *testing.T) {
	_, h := newTestServer(t)
	w := do(h, http.MethodGet, "/api/simulate/basic/csv?D=abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(h, http.MethodGet, "/api/simulate/nope/csv", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestNonFiniteQueryRejected(t *testing.T) {
	s, h := newTestServer(t)
	targets := []string{
		"/api/simulate/basic/csv?D=NaN",
		"/api/simulate/basic/csv?D=Inf",
		"/api/simulate/basic/csv?days=-Inf",
		"/api/simulate/basic/chart.svg?r=NaN",
	}
	for _, target := range targets {
		w := do(h, http.MethodGet, target, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code, target)

		var resp ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), target)
		assert.Contains(t, resp.Details, "not a finite number", target)
	}
	assert.Equal(t, float64(len(targets)), testutil.ToFloat64(s.metrics.errors))
	assert.Equal(t, 0.0, testutil.ToFloat64(s.metrics.simulations.WithLabelValues("basic")))
}

func TestIndex_NonFiniteQuery(t *testing.T) {
	_, h := newTestServer(t)
	w := do(h, http.MethodGet, "/?kind=basic&D=NaN", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `class="err"`)
	assert.NotContains(t, w.Body.String(), "<svg")
}

func TestChart(t *testing.T) {
	_, h := newTestServer(t)
	for _, mode := range []string{"2d", "3d"} {
		w := do(h, http.MethodGet, "/api/simulate/degradation/chart.svg?mode="+mode, nil)
		require.Equal(t, http.StatusOK, w.Code, mode)
		assert.Equal(t, "image/svg+xml", w.Header().Get("Content-Type"))
		assert.Contains(t, w.Body.String(), "<svg", mode)
		assert.True(t, strings.HasSuffix(strings.TrimSpace(w.Body.String()), "</svg>"), mode)
	}

	w := do(h, http.MethodGet, "/api/simulate/degradation/chart.svg?mode=4d", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestChart_ColourScale(t *testing.T) {
	_, h := newTestServer(t)
	tests := []struct {
		target string
		want   string
		not    string
	}{
		{"/api/simulate/surface3d/chart.svg?mode=3d", "#0d0887", "#440154"},
		{"/api/simulate/basic/chart.svg?mode=3d", "#440154", "#0d0887"},
		{"/api/simulate/surface3d/chart.svg?mode=3d&scale=viridis", "#440154", "#0d0887"},
	}
	for _, tt := range tests {
		w := do(h, http.MethodGet, tt.target, nil)
		require.Equal(t, http.StatusOK, w.Code, tt.target)
		assert.Contains(t, w.Body.String(), tt.want, tt.target)
		assert.NotContains(t, w.Body.String(), tt.not, tt.target)
	}

	w := do(h, http.MethodGet, "/api/simulate/surface3d/chart.svg?mode=3d&scale=rainbow", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(h, http.MethodGet, "/?kind=surface3d&mode=3d&scale=plasma", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `<option value="plasma" selected>`)
	assert.Contains(t, w.Body.String(), "#0d0887")
}

func TestIndex(t *testing.T) {
	_, h := newTestServer(t)
	w := do(h, http.MethodGet, "/?kind=burst&burst=9", nil)
	require.Equal(t, http.StatusOK, w.Code)

	page := w.Body.String()
	assert.Contains(t, page, `<option value="burst" selected>`)
	assert.Contains(t, page, `name="burst" value="2" min="0.1" max="2" step="0.1"`)
	assert.Contains(t, page, "<svg")
	assert.NotContains(t, page, "<?xml")
	assert.Contains(t, page, "/api/simulate/burst/csv?")
}

func TestMetricsEndpoint(t *testing.T) {
	_, h := newTestServer(t)
	do(h, http.MethodPost, "/api/simulate", []byte(`{"kind":"log"}`))

	w := do(h, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `implantsim_simulations_total{kind="log"} 1`)
}

func TestCORS(t *testing.T) {
	_, h := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/api/kinds", nil)
	req.Header.Set("Origin", "http://example.test")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
