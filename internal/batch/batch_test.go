package batch

import (
	"strings"
	"testing"

	"github.com/tairasoul/ccsync/internal/project"
)

func data(n int) string {
	return strings.Repeat("x", n)
}

func TestMergeCollapsesConsecutiveDeletions(t *testing.T) {
	batch := []project.Request{
		{Kind: project.KindDeletion, Files: []string{"h", "i"}},
		{Kind: project.KindDeletion, Files: []string{"h2", "i2"}},
		{Kind: project.KindDeletion, Files: []string{"h3", "i3"}},
	}
	out := Merge(batch)
	if len(out) != 1 {
		t.Fatalf("expected 1 merged record, got %d", len(out))
	}
	want := []string{"h", "i", "h2", "i2", "h3", "i3"}
	if len(out[0].Files) != len(want) {
		t.Fatalf("got %v, want %v", out[0].Files, want)
	}
	for i, f := range want {
		if out[0].Files[i] != f {
			t.Fatalf("position %d: got %q want %q", i, out[0].Files[i], f)
		}
	}
}

func TestMergeIsIdempotent(t *testing.T) {
	batch := []project.Request{
		{Kind: project.KindDeletion, Files: []string{"a"}},
		{Kind: project.KindScript, FilePath: "s", FileData: "x"},
		{Kind: project.KindDeletion, Files: []string{"b"}},
	}
	once := Merge(batch)
	twice := Merge(once)
	if len(once) != len(twice) {
		t.Fatalf("merge not idempotent: %v vs %v", once, twice)
	}
}

func TestMergeFlushesBeforeNonDeletion(t *testing.T) {
	batch := []project.Request{
		{Kind: project.KindDeletion, Files: []string{"a"}},
		{Kind: project.KindScript, FilePath: "s", FileData: "x"},
	}
	out := Merge(batch)
	if len(out) != 2 || out[0].Kind != project.KindDeletion || out[1].Kind != project.KindScript {
		t.Fatalf("unexpected merge result: %+v", out)
	}
}

func TestChunkBatchSimpleChunkingScenario(t *testing.T) {
	batch := []project.Request{
		{Kind: project.KindResource, FilePath: "a", FileData: data(20)},
		{Kind: project.KindLibrary, FilePath: "b", FileData: data(20)},
		{Kind: project.KindScript, FilePath: "c", FileData: data(20)},
	}
	frames := ChunkBatch(Merge(batch), 5)
	if len(frames) != 12 {
		t.Fatalf("expected 12 frames, got %d (%v)", len(frames), frames)
	}
	total := 0
	for _, f := range frames {
		total += len(f)
	}
	if total != 12 {
		t.Fatalf("expected 12 records across frames, got %d (%v)", total, frames)
	}
	for _, frame := range frames {
		size := 0
		for _, r := range frame {
			size += len([]rune(r.FileData))
		}
		if size > 5 {
			t.Fatalf("frame exceeds max: %d > 5 (%+v)", size, frame)
		}
	}
}

func TestChunkBatchReconstructsOriginalPayload(t *testing.T) {
	original := data(37)
	batch := []project.Request{{Kind: project.KindScript, FilePath: "s", FileData: original}}
	frames := ChunkBatch(batch, 10)

	var rebuilt strings.Builder
	for _, frame := range frames {
		for _, r := range frame {
			if r.Kind == project.KindScript || r.Kind == project.KindChunk {
				rebuilt.WriteString(r.FileData)
			}
		}
	}
	if rebuilt.String() != original {
		t.Fatalf("reconstructed payload mismatch: got %d bytes, want %d", rebuilt.Len(), len(original))
	}
}

func TestChunkBatchRejectsPreChunkedInput(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("expected panic on pre-existing Chunk record")
		}
	}()
	ChunkBatch([]project.Request{{Kind: project.KindChunk, FileData: "x"}}, 10)
}

func TestBatcherAddDrain(t *testing.T) {
	var b Batcher
	b.Add(project.Request{Kind: project.KindScript, FilePath: "a", FileData: "1"})
	b.Add(project.Request{Kind: project.KindScript, FilePath: "b", FileData: "2"})
	out := b.Drain()
	if len(out) != 2 {
		t.Fatalf("expected 2 records, got %d", len(out))
	}
	if len(b.Drain()) != 0 {
		t.Fatalf("expected batcher to reset after drain")
	}
}

func TestChunkStringSplitsByCodepoint(t *testing.T) {
	chunks := ChunkString("日本語abc", 2)
	var rebuilt strings.Builder
	for _, c := range chunks {
		rebuilt.WriteString(c)
	}
	if rebuilt.String() != "日本語abc" {
		t.Fatalf("codepoint round-trip failed: %q", rebuilt.String())
	}
}
