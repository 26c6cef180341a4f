// Package session drives one subscriber's duplex connection: initial
// snapshot delivery, then the steady-state event/timer loop that batches
// changes over a sync window and frames them out to the peer.
package session

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"time"

	"github.com/klauspost/compress/flate"
	"github.com/vmihailenco/msgpack/v5"
	"nhooyr.io/websocket"

	"github.com/tairasoul/ccsync/internal/batch"
	"github.com/tairasoul/ccsync/internal/channel"
	"github.com/tairasoul/ccsync/internal/project"
	"github.com/tairasoul/ccsync/internal/transform"
	"github.com/tairasoul/ccsync/internal/watch"
)

// Conn is the minimal duplex interface a Session needs; satisfied by
// *websocket.Conn, narrowed for testability.
type Conn interface {
	Write(ctx context.Context, typ websocket.MessageType, data []byte) error
	Close(code websocket.StatusCode, reason string) error
}

// Session owns one subscriber's lifecycle: resolved channel set, batcher,
// and the cooperative steady-state loop.
type Session struct {
	conn     Conn
	proj     *project.Project
	items    []project.Item
	batcher  batch.Batcher
	sub      *watch.Subscription
	bus      *watch.Bus
	interval time.Duration
}

// New builds a Session for the already-resolved item list. The caller is
// responsible for having validated the requested channel names via
// channel.Resolve.
func New(conn Conn, proj *project.Project, items []project.Item, bus *watch.Bus) *Session {
	interval := time.Duration(proj.SyncIntervalSeconds) * time.Second
	if interval <= 0 {
		interval = time.Duration(project.DefaultSyncIntervalSeconds) * time.Second
	}
	return &Session{
		conn:     conn,
		proj:     proj,
		items:    items,
		bus:      bus,
		interval: interval,
	}
}

// Run delivers the initial snapshot and then drives the steady-state loop
// until ctx is cancelled, the peer disconnects, or an unrecoverable error
// (peer write failure, broadcast lag) ends the session.
func (s *Session) Run(ctx context.Context) error {
	// Subscribe before walking the snapshot so changes racing the walk
	// land in the buffered subscription instead of being lost. They are
	// only consumed once the snapshot is fully delivered.
	s.sub = s.bus.Subscribe()
	defer s.bus.Unsubscribe(s.sub)

	if err := s.sendSnapshot(ctx); err != nil {
		return fmt.Errorf("session: initial snapshot: %w", err)
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-s.sub.Events():
			if !ok {
				return s.closedReason()
			}
			s.handleEvent(ev)

		case <-ticker.C:
			// Biased selection: a ready event is handled before the timer
			// so a just-modified file's record makes this flush.
			if done, err := s.drainReadyEvents(); done {
				return err
			}
			if err := s.flush(ctx); err != nil {
				return err
			}
		}
	}
}

// drainReadyEvents consumes every event already buffered on the
// subscription without blocking. It reports done=true when the
// subscription was closed underneath it.
func (s *Session) drainReadyEvents() (bool, error) {
	for {
		select {
		case ev, ok := <-s.sub.Events():
			if !ok {
				return true, s.closedReason()
			}
			s.handleEvent(ev)
		default:
			return false, nil
		}
	}
}

// closedReason distinguishes a lag-induced subscription close (fatal)
// from a clean unsubscribe.
func (s *Session) closedReason() error {
	select {
	case <-s.sub.Lagged():
		return fmt.Errorf("session: broadcast lag, session terminated")
	default:
		return nil
	}
}

// sendSnapshot walks every resolved item's file set, transforms each file,
// and flushes the result as the initial frame burst.
func (s *Session) sendSnapshot(ctx context.Context) error {
	refs := channel.FilesForItems(s.proj.RootDir, s.items)
	for _, ref := range refs {
		s.enqueueFile(ref)
	}
	return s.flush(ctx)
}

// handleEvent processes one broadcast event against every resolved item,
// per the file-event branch of the steady-state loop.
func (s *Session) handleEvent(ev watch.Event) {
	switch ev.Kind {
	case watch.Changed:
		refs := channel.MatchAny(ev.Path, s.proj.RootDir, s.items)
		for _, ref := range refs {
			s.enqueueFile(ref)
		}
	case watch.Deleted:
		refs := channel.MatchAny(ev.Path, s.proj.RootDir, s.items)
		for _, ref := range refs {
			ccPath := channel.CCPath(ref, s.proj.RootDir)
			s.batcher.Add(project.NewDeletion(ccPath))
		}
	}
}

func (s *Session) enqueueFile(ref channel.FileRef) {
	flags := channel.ResolvedFlags(ref, s.proj)
	payload, err := transform.Run(ref.AbsPath, s.proj.RootDir, ref.Item.Type, flags)
	if err != nil {
		log.Printf("session: transform error for %s: %v", ref.AbsPath, err)
		return
	}
	ccPath := channel.CCPath(ref, s.proj.RootDir)
	s.batcher.Add(project.NewFileRequest(ref.Item.Type, ccPath, payload))
}

// flush drains the batcher and, if non-empty, merges, chunks, and writes
// each resulting frame as one DEFLATE-compressed binary message.
func (s *Session) flush(ctx context.Context) error {
	drained := s.batcher.Drain()
	if len(drained) == 0 {
		return nil
	}
	frames := batch.ChunkBatch(batch.Merge(drained), s.proj.MaxUncompressedReqSize)
	for _, frame := range frames {
		if err := s.writeFrame(ctx, frame); err != nil {
			return err
		}
	}
	return nil
}

func (s *Session) writeFrame(ctx context.Context, frame []project.Request) error {
	packed, err := msgpack.Marshal(project.ToWireSlice(frame))
	if err != nil {
		return fmt.Errorf("session: msgpack encode: %w", err)
	}
	compressed, err := deflateBytes(packed)
	if err != nil {
		return fmt.Errorf("session: deflate frame: %w", err)
	}
	writeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := s.conn.Write(writeCtx, websocket.MessageBinary, compressed); err != nil {
		return fmt.Errorf("session: peer write failed: %w", err)
	}
	return nil
}

func deflateBytes(raw []byte) ([]byte, error) {
	var buf bytes.Buffer
	w, err := flate.NewWriter(&buf, flate.BestCompression)
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(raw); err != nil {
		_ = w.Close()
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
