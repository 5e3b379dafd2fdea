package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jackzampolin/outline/internal/api"
	"github.com/jackzampolin/outline/internal/config"
	"github.com/jackzampolin/outline/internal/home"
	"github.com/jackzampolin/outline/internal/outline"
	"github.com/jackzampolin/outline/internal/schema"
	"github.com/jackzampolin/outline/internal/testutil"
)

var reportOutline = outline.Document{
	Title: "Quarterly Report",
	Outline: []outline.Entry{
		{Level: 1, Text: "Quarterly Report", Page: 1},
		{Level: 2, Text: "Revenue", Page: 1},
		{Level: 2, Text: "Outlook", Page: 2},
	},
}

func newTestServer(t *testing.T, configYAML string) (*Server, testutil.ServerConfig) {
	t.Helper()
	cfg := testutil.NewServerConfig(t)
	require.NoError(t, os.WriteFile(cfg.ConfigFile, []byte(configYAML), 0o644))

	mgr, err := config.NewManager(cfg.ConfigFile, cfg.HomeDir)
	require.NoError(t, err)
	mgr.SetLogger(cfg.Logger)

	h, err := home.New(cfg.HomeDir)
	require.NoError(t, err)
	validator, err := schema.NewValidator()
	require.NoError(t, err)

	srv, err := New(Config{
		Host:          cfg.Host,
		Port:          cfg.Port,
		ConfigManager: mgr,
		Home:          h,
		Validator:     validator,
		Logger:        cfg.Logger,
	})
	require.NoError(t, err)
	return srv, cfg
}

// uploadRequest builds a multipart POST /api/outline carrying data as name.
func uploadRequest(t *testing.T, field, name string, data []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if field != "" {
		part, err := mw.CreateFormFile(field, name)
		require.NoError(t, err)
		_, err = part.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/outline", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func serve(srv *Server, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) api.ErrorResponse {
	t.Helper()
	var resp api.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestNewRequiresConfigManager(t *testing.T) {
	_, err := New(Config{})
	assert.Error(t, err)
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t, "")

	rec := serve(srv, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)

	rec = serve(srv, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"runner":"ok"`)
}

func TestOutlineUpload(t *testing.T) {
	srv, cfg := newTestServer(t, "")

	rec := serve(srv, uploadRequest(t, "file", "report.pdf", testutil.PDF("", testutil.ReportPages()...)))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var doc outline.Document
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
	assert.Equal(t, reportOutline, doc)
	assert.Contains(t, rec.Body.String(), `"level":"H2"`)

	// Staged uploads are removed once the response is written.
	staged, err := os.ReadDir(filepath.Join(cfg.HomeDir, home.UploadsDirName))
	require.NoError(t, err)
	assert.Empty(t, staged)
}

func TestOutlineUploadMetadataTitle(t *testing.T) {
	srv, _ := newTestServer(t, "")

	rec := serve(srv, uploadRequest(t, "file", "report.PDF", testutil.PDF("Q3 Results", testutil.ReportPages()...)))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var doc outline.Document
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
	assert.Equal(t, "Q3 Results", doc.Title)
	assert.Len(t, doc.Outline, 3)
}

func TestOutlineMalformed(t *testing.T) {
	srv, _ := newTestServer(t, "")

	rec := serve(srv, uploadRequest(t, "file", "broken.pdf", []byte("definitely not a pdf")))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	resp := decodeError(t, rec)
	assert.Equal(t, "malformed_source", resp.Kind)
	assert.NotEmpty(t, resp.Error)
}

func TestOutlineBadRequests(t *testing.T) {
	srv, _ := newTestServer(t, "")

	tests := []struct {
		name string
		req  *http.Request
		want string
	}{
		{"not a pdf", uploadRequest(t, "file", "notes.txt", []byte("hello")), "not a PDF"},
		{"no file", uploadRequest(t, "", "", nil), "no file uploaded"},
		{"wrong field", uploadRequest(t, "document", "report.pdf", []byte("%PDF")), "no file uploaded"},
		{"not multipart", httptest.NewRequest(http.MethodPost, "/api/outline", bytes.NewReader([]byte("{}"))), "failed to parse form"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(srv, tt.req)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, decodeError(t, rec).Error, tt.want)
		})
	}
}

func TestOutlineTooLarge(t *testing.T) {
	srv, _ := newTestServer(t, "server:\n  max_upload_mb: 1\n")

	big := append([]byte("%PDF-1.4\n"), bytes.Repeat([]byte("x"), 2<<20)...)
	rec := serve(srv, uploadRequest(t, "file", "big.pdf", big))
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestConfigEndpoints(t *testing.T) {
	srv, _ := newTestServer(t, "pipeline:\n  breakpoint_threshold: 20\n")

	rec := serve(srv, httptest.NewRequest(http.MethodGet, "/api/config", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var cfg config.Config
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cfg))
	assert.Equal(t, 20, cfg.Pipeline.BreakpointThreshold)

	rec = serve(srv, httptest.NewRequest(http.MethodGet, "/api/config/pipeline.breakpoint_threshold", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var entry config.Entry
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &entry))
	assert.Equal(t, "pipeline.breakpoint_threshold", entry.Key)
	assert.EqualValues(t, 20, entry.Value)

	rec = serve(srv, httptest.NewRequest(http.MethodGet, "/api/config/pipeline.nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSchemaAndSwagger(t *testing.T) {
	srv, _ := newTestServer(t, "")

	rec := serve(srv, httptest.NewRequest(http.MethodGet, "/api/schema", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `^H[1-6]$`)

	rec = serve(srv, httptest.NewRequest(http.MethodGet, "/swagger.json", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var spec map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &spec))
	assert.Contains(t, spec["paths"], "/api/outline")

	rec = serve(srv, httptest.NewRequest(http.MethodGet, "/swagger", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "swagger-ui")
}

func TestRunnerReloadsOnConfigChange(t *testing.T) {
	srv, cfg := newTestServer(t, "pipeline:\n  breakpoint_threshold: 14\n")
	mgr := srv.configMgr
	mgr.WatchConfig()
	time.Sleep(100 * time.Millisecond)

	before := srv.Runner()
	require.NoError(t, os.WriteFile(cfg.ConfigFile, []byte("pipeline:\n  breakpoint_threshold: 3\n"), 0o644))

	require.Eventually(t, func() bool {
		return srv.Runner().Pipeline.Params().BreakpointThreshold == 3
	}, 3*time.Second, 25*time.Millisecond)
	assert.NotSame(t, before, srv.Runner())
}

func TestServer_Lifecycle(t *testing.T) {
	srv, cfg := newTestServer(t, "")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- srv.Start(ctx) }()

	require.NoError(t, testutil.WaitForServer(ctx, cfg.URL(), 10*time.Second))
	assert.True(t, srv.IsRunning())
	assert.Equal(t, "127.0.0.1:"+cfg.Port, srv.Addr())

	t.Run("double start", func(t *testing.T) {
		assert.Error(t, srv.Start(ctx))
	})

	t.Run("client upload", func(t *testing.T) {
		path := testutil.WritePDF(t, t.TempDir(), "report.pdf", "", testutil.ReportPages()...)
		var doc outline.Document
		require.NoError(t, api.NewClient(cfg.URL()).Upload(ctx, "/api/outline", "file", path, &doc))
		assert.Equal(t, reportOutline, doc)
	})

	t.Run("client malformed", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "broken.pdf")
		require.NoError(t, os.WriteFile(path, []byte("garbage"), 0o644))
		err := api.NewClient(cfg.URL()).Upload(ctx, "/api/outline", "file", path, nil)
		var apiErr *api.Error
		require.True(t, errors.As(err, &apiErr), "got %v", err)
		assert.Equal(t, http.StatusUnprocessableEntity, apiErr.StatusCode)
		assert.Equal(t, "malformed_source", apiErr.Kind)
	})

	cancel()
	require.NoError(t, testutil.WaitForShutdown(done, 15*time.Second))
	assert.False(t, srv.IsRunning())
}

func TestServer_PortInUse(t *testing.T) {
	srv, cfg := newTestServer(t, "")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Start(ctx) }()
	starter := testutil.StartServer{Cancel: cancel, Done: done}
	t.Cleanup(starter.Stop)
	require.NoError(t, testutil.WaitForServer(ctx, cfg.URL(), 10*time.Second))

	second, _ := newTestServer(t, "")
	second.httpServer.Addr = srv.Addr()
	err := second.Start(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to listen")
	assert.False(t, second.IsRunning())
}
