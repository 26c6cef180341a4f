package session

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/klauspost/compress/flate"
	"github.com/vmihailenco/msgpack/v5"
	"nhooyr.io/websocket"

	"github.com/tairasoul/ccsync/internal/channel"
	"github.com/tairasoul/ccsync/internal/project"
	"github.com/tairasoul/ccsync/internal/watch"
)

type fakeConn struct {
	block      chan struct{} // optional: Write waits on it until closed
	writeBegan chan struct{} // optional: closed when the first Write starts
	beganOnce  sync.Once
	wrote      [][]byte
}

func newFakeConn() *fakeConn {
	return &fakeConn{}
}

func (f *fakeConn) Write(ctx context.Context, typ websocket.MessageType, data []byte) error {
	if f.writeBegan != nil {
		f.beganOnce.Do(func() { close(f.writeBegan) })
	}
	if f.block != nil {
		<-f.block
	}
	f.wrote = append(f.wrote, append([]byte(nil), data...))
	return nil
}

func (f *fakeConn) Close(code websocket.StatusCode, reason string) error { return nil }

func inflate(t *testing.T, compressed []byte) []byte {
	t.Helper()
	r := flate.NewReader(bytes.NewReader(compressed))
	defer r.Close()
	var out bytes.Buffer
	if _, err := out.ReadFrom(r); err != nil {
		t.Fatalf("inflate: %v", err)
	}
	return out.Bytes()
}

func TestSessionSendsInitialSnapshot(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "a.lua"), []byte("return 1"), 0o644); err != nil {
		t.Fatalf("seed file: %v", err)
	}

	proj := &project.Project{
		RootDir:                dir,
		MaxUncompressedReqSize: 30000,
		SyncIntervalSeconds:    1,
		Items: []project.Item{
			{ChannelName: "hi", Type: project.Library, Files: []project.File{{Path: "a.lua"}}},
		},
	}
	items := proj.Items

	conn := newFakeConn()
	bus := watch.NewBus()
	sess := New(conn, proj, items, bus)

	if err := sess.sendSnapshot(context.Background()); err != nil {
		t.Fatalf("sendSnapshot: %v", err)
	}
	if len(conn.wrote) != 1 {
		t.Fatalf("expected 1 frame written, got %d", len(conn.wrote))
	}

	raw := inflate(t, conn.wrote[0])
	var records []map[string]any
	if err := msgpack.Unmarshal(raw, &records); err != nil {
		t.Fatalf("msgpack unmarshal: %v", err)
	}
	if len(records) != 1 || records[0]["type"] != "l" {
		t.Fatalf("unexpected decoded records: %+v", records)
	}
}

func TestSessionTerminatesOnLag(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "a.lua"), []byte("return 1"), 0o644); err != nil {
		t.Fatalf("seed file: %v", err)
	}
	proj := &project.Project{
		RootDir:                dir,
		MaxUncompressedReqSize: 30000,
		SyncIntervalSeconds:    1,
		Items: []project.Item{
			{ChannelName: "hi", Type: project.Library, Files: []project.File{{Path: "a.lua"}}},
		},
	}

	// Block the snapshot write so the session cannot consume events while
	// the bus overflows its subscription.
	conn := newFakeConn()
	conn.block = make(chan struct{})
	conn.writeBegan = make(chan struct{})
	bus := watch.NewBus()
	sess := New(conn, proj, proj.Items, bus)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	errCh := make(chan error, 1)
	go func() { errCh <- sess.Run(ctx) }()

	// The session subscribes before walking the snapshot, so once the
	// snapshot write has begun the subscription is in place.
	select {
	case <-conn.writeBegan:
	case <-time.After(5 * time.Second):
		t.Fatalf("session never attempted the snapshot write")
	}

	for i := 0; i < 1100; i++ {
		bus.Publish(watch.Event{Kind: watch.Changed, Path: filepath.Join(dir, "a.lua")})
	}
	close(conn.block)

	if err := <-errCh; err == nil {
		t.Fatalf("expected lag-fatal error from Run, got nil")
	}
}

func TestSnapshotOrdersRequiredChannelFirst(t *testing.T) {
	dir := t.TempDir()
	for name, body := range map[string]string{"a.lua": "return 'a'", "b.lua": "return 'b'"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
			t.Fatalf("seed %s: %v", name, err)
		}
	}

	proj := &project.Project{
		RootDir:                dir,
		MaxUncompressedReqSize: 30000,
		SyncIntervalSeconds:    1,
		Items: []project.Item{
			{ChannelName: "A", Type: project.Library, RequiredChannels: []string{"B"},
				Files: []project.File{{Path: "a.lua"}}},
			{ChannelName: "B", Type: project.Library,
				Files: []project.File{{Path: "b.lua"}}},
		},
	}
	items := channel.Resolve([]string{"A"}, proj)

	conn := newFakeConn()
	sess := New(conn, proj, items, watch.NewBus())
	if err := sess.sendSnapshot(context.Background()); err != nil {
		t.Fatalf("sendSnapshot: %v", err)
	}
	if len(conn.wrote) != 1 {
		t.Fatalf("expected 1 frame, got %d", len(conn.wrote))
	}

	var records []map[string]any
	if err := msgpack.Unmarshal(inflate(t, conn.wrote[0]), &records); err != nil {
		t.Fatalf("msgpack unmarshal: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0]["filePath"] != "b.lua" || records[1]["filePath"] != "a.lua" {
		t.Fatalf("required channel's file must come first, got %+v", records)
	}
}
