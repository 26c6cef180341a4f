// Command ccsync runs the source synchronization server: it watches a
// project tree for file changes and streams them, transformed per
// channel, to long-lived websocket subscribers.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/tairasoul/ccsync/internal/channel"
	"github.com/tairasoul/ccsync/internal/config"
	"github.com/tairasoul/ccsync/internal/project"
	"github.com/tairasoul/ccsync/internal/transport"
	"github.com/tairasoul/ccsync/internal/watch"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: ccsync [flags]\n\n")
		fmt.Fprintf(os.Stderr, "Watches a project tree and streams file changes to websocket subscribers,\n")
		fmt.Fprintf(os.Stderr, "transformed per channel (bundling, minification, deflate wrapping).\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  ccsync --project project.ron\n")
		fmt.Fprintf(os.Stderr, "  ccsync --work-dir ~/my-project --port 8001\n")
		fmt.Fprintf(os.Stderr, "  ccsync --project project.ron --auth-token SECRET\n")
		fmt.Fprintf(os.Stderr, "  ccsync --debug-serve-dir ./client-lua\n")
	}

	projectPath := flag.String("project", "project.ron", "path to the project descriptor")
	workDir := flag.String("work-dir", "", "change to this directory before loading the descriptor")
	port := flag.Int("port", 0, "override the descriptor's port (0 = use descriptor's port)")
	authToken := flag.String("auth-token", "", "optional websocket auth token (Bearer token or ?token=...)")
	allowedOrigins := flag.String("allowed-origins", "", "comma-separated websocket origin patterns (empty = allow any)")
	debugServeDir := flag.String("debug-serve-dir", "", "serve client Lua assets from this directory instead of the embedded copies")
	flag.Parse()

	if *workDir != "" {
		if err := os.Chdir(*workDir); err != nil {
			fmt.Fprintf(os.Stderr, "ccsync: change to work dir: %v\n", err)
			os.Exit(1)
		}
	}

	proj, err := config.Load(*projectPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ccsync: %v\n", err)
		os.Exit(1)
	}
	if *port != 0 {
		proj.Port = *port
	}

	var origins []string
	for _, o := range strings.Split(*allowedOrigins, ",") {
		if s := strings.TrimSpace(o); s != "" {
			origins = append(origins, s)
		}
	}

	seed := seedPaths(proj)
	observer, err := watch.New(proj.RootDir, seed)
	if err != nil {
		log.Fatalf("ccsync: failed to start file observer: %v", err)
	}
	observer.Start()
	defer observer.Stop()

	guard := project.NewGuard(proj)
	srv := transport.New(guard, observer.Bus(), *authToken, origins, *debugServeDir)

	httpServer := &http.Server{
		Addr:        fmt.Sprintf("127.0.0.1:%d", proj.Port),
		Handler:     srv.Mux(),
		ReadTimeout: 5 * time.Second,
		IdleTimeout: 14400 * time.Second,
	}

	go func() {
		log.Printf("ccsync: listening on %s", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("ccsync: server error: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = httpServer.Shutdown(ctx)
}

// seedPaths computes the known-files set the observer should start with:
// every path reachable under every channel's files and directories.
func seedPaths(proj *project.Project) []string {
	refs := channel.FilesForItems(proj.RootDir, proj.Items)
	out := make([]string, 0, len(refs))
	for _, ref := range refs {
		out = append(out, ref.AbsPath)
	}
	return out
}
