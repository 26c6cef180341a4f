package batch

import "github.com/tairasoul/ccsync/internal/project"

// ChunkString splits s into pieces of at most chunkSize codepoints each.
// Splitting walks character boundaries rather than byte offsets so a
// multi-byte rune is never cut in half.
func ChunkString(s string, chunkSize int) []string {
	runes := []rune(s)
	if len(runes) == 0 {
		return nil
	}
	var chunks []string
	for start := 0; start < len(runes); start += chunkSize {
		end := start + chunkSize
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[start:end]))
	}
	return chunks
}

// ChunkBatch splits a merged batch into frames whose total payload
// length is at most max characters. Input must not already contain Chunk
// records; that's a programmer error.
func ChunkBatch(batch []project.Request, max int) [][]project.Request {
	var out [][]project.Request
	var current []project.Request
	cursize := 0

	flushCurrent := func() {
		if len(current) > 0 {
			out = append(out, current)
			current = nil
		}
	}

	for _, item := range batch {
		switch item.Kind {
		case project.KindResource, project.KindLibrary, project.KindScript:
			l := len([]rune(item.FileData))
			if cursize+l > max {
				flushCurrent()
				cursize = 0
				if l > max {
					pieces := ChunkString(item.FileData, max)
					head := project.Request{Kind: item.Kind, FilePath: item.FilePath, FileData: pieces[0]}
					current = append(current, head)
					flushCurrent()
					for _, piece := range pieces[1:] {
						current = append(current, project.Request{Kind: project.KindChunk, FileData: piece})
						pieceLen := len([]rune(piece))
						if cursize+pieceLen >= max {
							flushCurrent()
							cursize = 0
						} else {
							cursize += pieceLen
						}
					}
					continue
				}
				cursize += l
				current = append(current, item)
				continue
			}
			cursize += l
			current = append(current, item)

		case project.KindDeletion:
			var delVec []string
			for _, file := range item.Files {
				fl := len([]rune(file))
				if cursize+fl > max {
					if len(delVec) > 0 {
						current = append(current, project.Request{Kind: project.KindDeletion, Files: delVec})
						delVec = nil
					}
					flushCurrent()
					cursize = 0
				}
				cursize += fl
				delVec = append(delVec, file)
			}
			if len(delVec) > 0 {
				current = append(current, project.Request{Kind: project.KindDeletion, Files: delVec})
			}

		default:
			panic("batch: Chunk record present in input to ChunkBatch")
		}
	}

	flushCurrent()
	return out
}
