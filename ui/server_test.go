package ui

import (
	"bytes"
	"encoding/json"
	"math"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"csvexplorer/app"
	"csvexplorer/internal"
	"csvexplorer/internal/charts"
	"csvexplorer/internal/config"
	"csvexplorer/internal/container"
	"csvexplorer/internal/testkit"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type harness struct {
	server    *Server
	container *container.Container
}

func newHarness(t *testing.T, mutate func(*Options)) *harness {
	t.Helper()
	cfg := config.Default()
	c, err := container.New(cfg, internal.Discard)
	require.NoError(t, err)

	opts := Options{
		Explorer:       c.Explorer,
		Gatherer:       c.Registry,
		SessionSecret:  cfg.Session.Secret,
		CookieName:     cfg.Session.CookieName,
		SessionTTL:     cfg.Session.TTL,
		MaxUploadBytes: cfg.Data.MaxUploadBytes,
		GinMode:        gin.TestMode,
		Logger:         internal.Discard,
	}
	if mutate != nil {
		mutate(&opts)
	}
	s, err := NewServer(opts)
	require.NoError(t, err)
	return &harness{server: s, container: c}
}

// browser keeps the cookies a real browser would send back
type browser struct {
	t       *testing.T
	h       *harness
	cookies map[string]*http.Cookie
}

func (h *harness) browser(t *testing.T) *browser {
	return &browser{t: t, h: h, cookies: map[string]*http.Cookie{}}
}

func (b *browser) do(req *http.Request) *httptest.ResponseRecorder {
	b.t.Helper()
	for _, c := range b.cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	b.h.server.Handler().ServeHTTP(rec, req)
	for _, c := range rec.Result().Cookies() {
		b.cookies[c.Name] = c
	}
	return rec
}

func (b *browser) get(path string) *httptest.ResponseRecorder {
	return b.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func (b *browser) upload(path, filename string, data []byte) *httptest.ResponseRecorder {
	b.t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("file", filename)
	require.NoError(b.t, err)
	_, err = part.Write(data)
	require.NoError(b.t, err)
	require.NoError(b.t, w.Close())

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return b.do(req)
}

func shoppingCSV() []byte {
	return testkit.ShoppingCSV(testkit.DefaultShoppingConfig())
}

func TestHTTPServer_ErrorLogUsesAppLogger(t *testing.T) {
	var buf bytes.Buffer
	h := newHarness(t, func(o *Options) {
		o.Logger = internal.NewLogger(internal.LogLevelError, &buf)
	})

	srv := h.server.HTTPServer(":0", time.Second, 2*time.Second)
	assert.Equal(t, ":0", srv.Addr)
	assert.Equal(t, time.Second, srv.ReadHeaderTimeout)
	require.NotNil(t, srv.ErrorLog)

	srv.ErrorLog.Printf("http: TLS handshake error from %s", "10.0.0.1:5000")
	assert.Contains(t, buf.String(), "level=ERROR")
	assert.Contains(t, buf.String(), "TLS handshake error from 10.0.0.1:5000")
}

func TestNewServer_Validation(t *testing.T) {
	_, err := NewServer(Options{SessionSecret: strings.Repeat("x", 32)})
	assert.Error(t, err)

	c, err := container.New(config.Default(), internal.Discard)
	require.NoError(t, err)
	_, err = NewServer(Options{Explorer: c.Explorer, SessionSecret: "short"})
	assert.Error(t, err)
}

func TestIndex_NoDataset(t *testing.T) {
	h := newHarness(t, nil)
	b := h.browser(t)

	rec := b.get("/")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), app.NoDatasetNotice)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, b.cookies, "csvexplorer_session")
}

func TestUpload_ThenBrowseTabs(t *testing.T) {
	h := newHarness(t, nil)
	b := h.browser(t)

	rec := b.upload("/upload", "orders.csv", shoppingCSV())
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "CSV file loaded successfully!")
	assert.Contains(t, rec.Body.String(), "Rows: 200, Columns: 7")

	tests := []struct {
		path string
		want string
	}{
		{"/?tab=overview", "Column Data Types"},
		{"/?tab=statistics", "Categorical Frequencies"},
		{"/?tab=charts", "data:image/png;base64,"},
		{"/?tab=charts&chart=pie&x=region", "Pie Chart of region"},
		{"/?tab=charts&chart=scatter&x=age&y=age", "the plot will show the diagonal"},
		{"/?tab=charts&chart=histogram&x=-", "Select Chart Type"},
		{"/?tab=charts&chart=radar", charts.NoticeUnknownKind},
		{"/?tab=cleaning", "Missing values per column"},
		{"/?tab=cleaning&missing_rows=1", "Show rows with missing values"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := b.get(tt.path)
			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.want)
			assert.NotContains(t, rec.Body.String(), app.NoDatasetNotice)
		})
	}
}

func TestUpload_Failures(t *testing.T) {
	h := newHarness(t, nil)
	b := h.browser(t)

	rec := b.upload("/upload", "orders.csv", []byte("a,b\n1,2,3\n"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Error reading the CSV")
	assert.Contains(t, rec.Body.String(), app.NoDatasetNotice)

	req := httptest.NewRequest(http.MethodPost, "/upload", strings.NewReader("plain"))
	req.Header.Set("Content-Type", "text/plain")
	rec = b.do(req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpload_FailureKeepsDataset(t *testing.T) {
	h := newHarness(t, nil)
	b := h.browser(t)

	require.Equal(t, http.StatusOK, b.upload("/upload", "orders.csv", shoppingCSV()).Code)
	rec := b.upload("/upload", "notes.txt", []byte("a\n1\n"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "orders.csv")
}

func TestUpload_TooLarge(t *testing.T) {
	h := newHarness(t, func(o *Options) { o.MaxUploadBytes = 16 })
	b := h.browser(t)

	big := bytes.Repeat([]byte("1234567,89\n"), (uploadOverhead/11)+10)
	rec := b.upload("/upload", "big.csv", append([]byte("a,b\n"), big...))
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Contains(t, rec.Body.String(), "maximum allowed size of 16 bytes")
}

func TestReset(t *testing.T) {
	h := newHarness(t, nil)
	b := h.browser(t)
	require.Equal(t, http.StatusOK, b.upload("/upload", "orders.csv", shoppingCSV()).Code)

	rec := b.do(httptest.NewRequest(http.MethodPost, "/reset?tab=cleaning", nil))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/?tab=cleaning", rec.Header().Get("Location"))

	rec = b.get("/?tab=cleaning")
	assert.Contains(t, rec.Body.String(), app.NoDatasetNotice)

	rec = b.get("/api/summary")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, app.NoDatasetNotice, body["notice"])
	assert.Equal(t, "NO_DATASET", body["code"])
}

func TestSessionsAreIsolated(t *testing.T) {
	h := newHarness(t, nil)
	alice := h.browser(t)
	bob := h.browser(t)

	require.Equal(t, http.StatusOK, alice.upload("/upload", "orders.csv", shoppingCSV()).Code)

	assert.Equal(t, http.StatusOK, alice.get("/api/summary").Code)
	assert.Equal(t, http.StatusNotFound, bob.get("/api/summary").Code)
}

func TestTamperedCookieStartsFreshSession(t *testing.T) {
	h := newHarness(t, nil)
	b := h.browser(t)
	require.Equal(t, http.StatusOK, b.upload("/upload", "orders.csv", shoppingCSV()).Code)

	b.cookies["csvexplorer_session"].Value = "tampered"
	rec := b.get("/")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), app.NoDatasetNotice)
}

func TestAPI(t *testing.T) {
	h := newHarness(t, nil)
	b := h.browser(t)

	assert.Equal(t, http.StatusNotFound, b.get("/api/chart?kind=bar").Code)
	require.Equal(t, http.StatusOK, b.upload("/upload", "orders.csv", shoppingCSV()).Code)

	t.Run("summary", func(t *testing.T) {
		rec := b.get("/api/summary")
		require.Equal(t, http.StatusOK, rec.Code)
		var body struct {
			Shape struct {
				Rows    int `json:"rows"`
				Columns int `json:"columns"`
			} `json:"shape"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, 200, body.Shape.Rows)
		assert.Equal(t, 7, body.Shape.Columns)
	})

	t.Run("cleaning", func(t *testing.T) {
		rec := b.get("/api/cleaning?missing_rows=true&limit=2")
		require.Equal(t, http.StatusOK, rec.Code)
		var body struct {
			RowsShown bool `json:"rows_shown"`
			Rows      []struct {
				Index int `json:"index"`
			} `json:"rows"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.True(t, body.RowsShown)
		assert.LessOrEqual(t, len(body.Rows), 2)
	})

	t.Run("chart png", func(t *testing.T) {
		rec := b.get("/api/chart?kind=histogram&x=age")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
		assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("\x89PNG")))
	})

	t.Run("chart warning header", func(t *testing.T) {
		rec := b.get("/api/chart?kind=scatter&x=age&y=age")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, charts.WarningSameColumn, rec.Header().Get("X-Chart-Warning"))
	})

	t.Run("chart not ready", func(t *testing.T) {
		rec := b.get("/api/chart?kind=histogram&x=-")
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Contains(t, rec.Body.String(), `"plan"`)
	})

	t.Run("unknown kind", func(t *testing.T) {
		rec := b.get("/api/chart?kind=radar")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), charts.NoticeUnknownKind)
	})
}

func TestHealthAndMetrics(t *testing.T) {
	h := newHarness(t, nil)
	b := h.browser(t)
	b.upload("/upload", "orders.csv", shoppingCSV())

	assert.Equal(t, http.StatusOK, b.get("/healthz").Code)

	rec := b.get("/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `csvexplorer_uploads_total{result="success"} 1`)
	assert.Contains(t, rec.Body.String(), "csvexplorer_active_sessions 1")
}

func TestStaticAssets(t *testing.T) {
	h := newHarness(t, nil)
	rec := h.browser(t).get("/static/css/explorer.css")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), ".sidebar")
}

func TestFormatFloat(t *testing.T) {
	assert.Equal(t, "NaN", formatFloat(math.NaN()))
	assert.Equal(t, "1.29099", formatFloat(1.2909944487358056))
	assert.Equal(t, "42", formatFloat(42))
}

func TestQueryHelpers(t *testing.T) {
	assert.True(t, queryBool("on"))
	assert.True(t, queryBool("1"))
	assert.False(t, queryBool(""))
	assert.Equal(t, 0, queryInt("-3"))
	assert.Equal(t, 7, queryInt("7"))
}
