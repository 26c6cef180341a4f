package transport

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/flate"

	"github.com/tairasoul/ccsync/internal/project"
	"github.com/tairasoul/ccsync/internal/watch"
)

func testServer() *Server {
	proj := &project.Project{
		Items: []project.Item{
			{ChannelName: "hi", Type: project.Library},
			{ChannelName: "hello", Type: project.Resource},
		},
		MaxUncompressedReqSize: 30000,
	}
	return New(project.NewGuard(proj), watch.NewBus(), "", nil, "")
}

func inflate(t *testing.T, compressed []byte) string {
	t.Helper()
	r := flate.NewReader(bytes.NewReader(compressed))
	defer r.Close()
	var out bytes.Buffer
	if _, err := out.ReadFrom(r); err != nil {
		t.Fatalf("inflate: %v", err)
	}
	return out.String()
}

func TestHandleListing(t *testing.T) {
	mux := testServer().Mux()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/octet-stream" {
		t.Fatalf("unexpected content type %q", ct)
	}
	got := strings.TrimRight(inflate(t, rec.Body.Bytes()), "\n")
	if got != "hi - library\nhello - resource" {
		t.Fatalf("unexpected listing body: %q", got)
	}
}

func TestHandleDownloadRequiresHost(t *testing.T) {
	mux := testServer().Mux()
	req := httptest.NewRequest(http.MethodGet, "/download", nil)
	req.Host = ""
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without Host header, got %d", rec.Code)
	}
}

func TestHandleDownloadEmbedsHost(t *testing.T) {
	mux := testServer().Mux()
	req := httptest.NewRequest(http.MethodGet, "/download", nil)
	req.Host = "10.0.0.5:8001"
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "10.0.0.5:8001/sync.lua") {
		t.Fatalf("expected installer to reference request host, got %q", rec.Body.String())
	}
}

func TestStaticAssetRoutesServeText(t *testing.T) {
	mux := testServer().Mux()
	for _, path := range []string{"/sync.lua", "/base85.lua", "/lz4.lua", "/base-sync.lua", "/libdeflate.lua"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", path, rec.Code)
		}
		if ct := rec.Header().Get("Content-Type"); ct != "text/plain" {
			t.Fatalf("%s: unexpected content type %q", path, ct)
		}
	}
}

func TestSplitChannels(t *testing.T) {
	got := splitChannels(" a, b ,c")
	want := []string{"a", "b", "c"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestSplitChannelsEmpty(t *testing.T) {
	if got := splitChannels(""); got != nil {
		t.Fatalf("expected nil for empty input, got %v", got)
	}
}

func TestDebugServeDirOverridesEmbeddedAsset(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "sync.lua"), []byte("-- local copy\nreturn {}"), 0o644); err != nil {
		t.Fatalf("write asset: %v", err)
	}
	proj := &project.Project{MaxUncompressedReqSize: 30000}
	srv := New(project.NewGuard(proj), watch.NewBus(), "", nil, dir)

	req := httptest.NewRequest(http.MethodGet, "/sync.lua", nil)
	rec := httptest.NewRecorder()
	srv.Mux().ServeHTTP(rec, req)
	if !strings.Contains(rec.Body.String(), "local copy") {
		t.Fatalf("expected asset served from debug dir, got %q", rec.Body.String())
	}

	// A route with no override file still serves the embedded copy.
	req = httptest.NewRequest(http.MethodGet, "/base85.lua", nil)
	rec = httptest.NewRecorder()
	srv.Mux().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || rec.Body.Len() == 0 {
		t.Fatalf("expected embedded fallback, got %d with %d bytes", rec.Code, rec.Body.Len())
	}
}
