// Package transport wires the HTTP route table: channel listing,
// websocket subscription upgrade, client bootstrap installers, and the
// embedded Lua asset tree. The subscribe handler accepts the upgrade and
// then hands the connection to a session for its whole lifetime.
package transport

import (
	"context"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"nhooyr.io/websocket"

	"github.com/tairasoul/ccsync/internal/assets"
	"github.com/tairasoul/ccsync/internal/channel"
	"github.com/tairasoul/ccsync/internal/listing"
	"github.com/tairasoul/ccsync/internal/project"
	"github.com/tairasoul/ccsync/internal/session"
	"github.com/tairasoul/ccsync/internal/watch"
)

// idleTimeout caps how long an idle websocket is kept around;
// keepaliveInterval is the ping cadence that keeps a healthy one open.
const (
	idleTimeout       = 14400 * time.Second
	keepaliveInterval = 5 * time.Second
)

// Server holds everything an HTTP handler needs to answer a route:
// the guarded project descriptor, the broadcast bus sessions subscribe
// to, optional origin/token gating for the websocket upgrade, and an
// optional directory the Lua assets are served from instead of the
// embedded copies.
type Server struct {
	guard          *project.Guard
	bus            *watch.Bus
	authToken      string
	originPatterns []string
	debugDir       string
}

// New builds a Server. originPatterns is passed straight through to
// nhooyr.io/websocket's OriginPatterns; a nil/empty slice allows any
// origin, which is the default for a localhost developer tool. A
// non-empty debugDir overrides each embedded Lua asset with the
// same-named file from that directory when one exists.
func New(guard *project.Guard, bus *watch.Bus, authToken string, originPatterns []string, debugDir string) *Server {
	return &Server{guard: guard, bus: bus, authToken: authToken, originPatterns: originPatterns, debugDir: debugDir}
}

// Mux builds the route table.
func (s *Server) Mux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleListing)
	mux.HandleFunc("/subscribe", s.handleSubscribe)
	mux.HandleFunc("/download", s.handleDownload)
	mux.HandleFunc("/download-nomin", s.handleDownloadNoMin)
	mux.HandleFunc("/sync.lua", s.asset("sync.lua", assets.Sync))
	mux.HandleFunc("/base85.lua", s.asset("base85.lua", assets.Base85))
	mux.HandleFunc("/lz4.lua", s.asset("lz4.lua", assets.LZ4))
	mux.HandleFunc("/base-sync.lua", s.asset("base-sync.lua", assets.BaseSync))
	mux.HandleFunc("/base-base85.lua", s.asset("base-base85.lua", assets.BaseBase85))
	mux.HandleFunc("/base-lz4.lua", s.asset("base-lz4.lua", assets.BaseLZ4))
	mux.HandleFunc("/base-libdeflate.lua", s.asset("base-libdeflate.lua", assets.BaseLibdeflate))
	mux.HandleFunc("/libdeflate.lua", s.handleLibdeflate)
	return mux
}

// handleListing serves GET / — the deflate-compressed channel listing.
func (s *Server) handleListing(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet || r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	var body []byte
	var err error
	s.guard.Read(func(p *project.Project) {
		body, err = listing.Build(p)
	})
	if err != nil {
		http.Error(w, "failed to build channel listing", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/octet-stream")
	_, _ = w.Write(body)
}

// handleLibdeflate serves GET /libdeflate.lua, optionally wrapping the
// payload per the project's lz_on_deflate flag. A debug serve directory
// takes precedence, unwrapped — the override exists to iterate on the
// asset itself.
func (s *Server) handleLibdeflate(w http.ResponseWriter, r *http.Request) {
	if body, ok := s.debugAsset("libdeflate.lua"); ok {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte(body))
		return
	}
	var lzOnDeflate bool
	s.guard.Read(func(p *project.Project) { lzOnDeflate = p.LZOnDeflate })
	body, err := assets.LibdeflateAsset(lzOnDeflate)
	if err != nil {
		http.Error(w, "failed to build libdeflate asset", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/plain")
	_, _ = w.Write([]byte(body))
}

// handleDownload serves GET /download, the minified bootstrap installer.
func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	host := strings.TrimSpace(r.Host)
	if host == "" {
		http.Error(w, "Host header required", http.StatusBadRequest)
		return
	}
	w.Header().Set("Content-Type", "text/plain")
	_, _ = w.Write([]byte(assets.InstallerScript(host)))
}

// handleDownloadNoMin serves GET /download-nomin, the unminified variant.
func (s *Server) handleDownloadNoMin(w http.ResponseWriter, r *http.Request) {
	host := strings.TrimSpace(r.Host)
	if host == "" {
		http.Error(w, "Host header required", http.StatusBadRequest)
		return
	}
	w.Header().Set("Content-Type", "text/plain")
	_, _ = w.Write([]byte(assets.InstallerScriptNoMin(host)))
}

// asset serves a client Lua asset: the embedded copy, or the same-named
// file from the debug serve directory when one is configured and present.
func (s *Server) asset(name, embedded string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body := embedded
		if override, ok := s.debugAsset(name); ok {
			body = override
		}
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte(body))
	}
}

// debugAsset reads name from the debug serve directory, if one is set.
func (s *Server) debugAsset(name string) (string, bool) {
	if s.debugDir == "" {
		return "", false
	}
	data, err := os.ReadFile(filepath.Join(s.debugDir, name))
	if err != nil {
		return "", false
	}
	return string(data), true
}

// handleSubscribe serves GET /subscribe?channels=a,b,c: resolves the
// requested channels, upgrades to a websocket, and runs a session to
// completion.
func (s *Server) handleSubscribe(w http.ResponseWriter, r *http.Request) {
	if !isAuthorized(s.authToken, r) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	names := splitChannels(r.URL.Query().Get("channels"))

	var proj *project.Project
	var items []project.Item
	s.guard.Read(func(p *project.Project) {
		proj = p
		items = channel.Resolve(names, p)
	})

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{OriginPatterns: s.originPatterns})
	if err != nil {
		log.Printf("transport: websocket accept: %v", err)
		return
	}
	defer conn.Close(websocket.StatusNormalClosure, "")

	conn.SetReadLimit(1 << 20)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	// A bare read pump detects peer disconnect/close frames; the session
	// never expects inbound application messages on this connection. Each
	// read carries the idle timeout, so a peer that goes silent for that
	// long is reclaimed.
	go func() {
		defer cancel()
		for {
			readCtx, cancelRead := context.WithTimeout(ctx, idleTimeout)
			_, _, err := conn.Read(readCtx)
			cancelRead()
			if err != nil {
				return
			}
		}
	}()

	pingCtx, pingCancel := context.WithCancel(ctx)
	defer pingCancel()
	go keepalive(pingCtx, conn)

	sess := session.New(conn, proj, items, s.bus)
	if err := sess.Run(ctx); err != nil {
		log.Printf("transport: session ended: %v", err)
	}
}

// keepalive pings the peer every keepaliveInterval so the connection is
// reclaimed well inside the 14,400s idle timeout even with no traffic.
func keepalive(ctx context.Context, conn *websocket.Conn) {
	ticker := time.NewTicker(keepaliveInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, keepaliveInterval)
			err := conn.Ping(pingCtx)
			cancel()
			if err != nil {
				return
			}
		}
	}
}

func splitChannels(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
