// Package channel expands a subscriber's requested channel names into a
// deduplicated, dependency-ordered list of project items and the file set
// each of them contributes.
package channel

import (
	"os"
	"path/filepath"

	"github.com/tairasoul/ccsync/internal/project"
)

// Resolve expands names into project items, callee before caller: a
// channel's required_channels are emitted before the channel itself.
// Unknown names are skipped silently. Cycles are broken by
// the visited set — each channel is visited at most once.
func Resolve(names []string, proj *project.Project) []project.Item {
	visited := make(map[string]struct{})
	var out []project.Item
	for _, name := range names {
		resolveOne(name, proj, visited, &out)
	}
	return out
}

func resolveOne(name string, proj *project.Project, visited map[string]struct{}, out *[]project.Item) {
	if _, ok := visited[name]; ok {
		return
	}
	visited[name] = struct{}{}

	item, ok := proj.ItemByName(name)
	if !ok {
		return // unknown channel: silently ignored
	}

	for _, req := range item.RequiredChannels {
		resolveOne(req, proj, visited, out)
	}
	*out = append(*out, item)
}

// FileRef pairs a resolved absolute filesystem path with the File or
// Directory entry (and owning Item) that governs its transform flags.
type FileRef struct {
	AbsPath   string
	Item      project.Item
	File      *project.File      // non-nil when matched via an explicit File
	Directory *project.Directory // non-nil when matched via a Directory
}

// FilesForItem walks every directory (recursively, files only) followed by
// every explicit file of item, deduplicated by canonical absolute path.
func FilesForItem(rootDir string, item project.Item) []FileRef {
	var out []FileRef
	seen := make(map[string]struct{})

	for i := range item.Directories {
		dir := item.Directories[i]
		absDir := filepath.Join(rootDir, dir.Path)
		_ = filepath.Walk(absDir, func(path string, info os.FileInfo, err error) error {
			if err != nil || info == nil || info.IsDir() {
				return nil
			}
			if _, dup := seen[path]; dup {
				return nil
			}
			seen[path] = struct{}{}
			out = append(out, FileRef{AbsPath: path, Item: item, Directory: &item.Directories[i]})
			return nil
		})
	}

	for i := range item.Files {
		f := item.Files[i]
		abs := filepath.Join(rootDir, f.Path)
		if _, dup := seen[abs]; dup {
			continue
		}
		seen[abs] = struct{}{}
		out = append(out, FileRef{AbsPath: abs, Item: item, File: &item.Files[i]})
	}

	return out
}

// FilesForItems runs FilesForItem over each resolved item in order. A file
// may legitimately appear more than once across different items — each
// subscribed channel processes it independently and the client applies
// last-writer-wins.
func FilesForItems(rootDir string, items []project.Item) []FileRef {
	var out []FileRef
	for _, item := range items {
		out = append(out, FilesForItem(rootDir, item)...)
	}
	return out
}

// MatchInItem checks whether absPath is governed by item: one of its
// explicit Files matches by exact path equality, one of its Directories by
// path prefix. Each subscribed item is checked independently — a file under
// two subscribed channels matches (and is processed) once per channel.
func MatchInItem(absPath string, rootDir string, item project.Item) (FileRef, bool) {
	for i := range item.Files {
		f := item.Files[i]
		if filepath.Join(rootDir, f.Path) == absPath {
			return FileRef{AbsPath: absPath, Item: item, File: &item.Files[i]}, true
		}
	}
	for i := range item.Directories {
		d := item.Directories[i]
		absDir := filepath.Join(rootDir, d.Path)
		if hasPathPrefix(absPath, absDir) {
			return FileRef{AbsPath: absPath, Item: item, Directory: &item.Directories[i]}, true
		}
	}
	return FileRef{}, false
}

// MatchAny runs MatchInItem over every resolved item, returning one FileRef
// per item that matches.
func MatchAny(absPath string, rootDir string, items []project.Item) []FileRef {
	var out []FileRef
	for _, item := range items {
		if ref, ok := MatchInItem(absPath, rootDir, item); ok {
			out = append(out, ref)
		}
	}
	return out
}

func hasPathPrefix(path, dir string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel != ".." && !hasDotDotPrefix(rel)
}

func hasDotDotPrefix(rel string) bool {
	return len(rel) >= 2 && rel[0] == '.' && rel[1] == '.' &&
		(len(rel) == 2 || rel[2] == os.PathSeparator)
}

// CCPath computes the client-facing logical path for a resolved file
// reference: the file's explicit cc_path if set, else the path relative
// to rootDir.
func CCPath(ref FileRef, rootDir string) string {
	if ref.File != nil && ref.File.CCPath != "" {
		return ref.File.CCPath
	}
	rel, err := filepath.Rel(rootDir, ref.AbsPath)
	if err != nil {
		return ref.AbsPath
	}
	return filepath.ToSlash(rel)
}

// ResolvedFlags computes the override-resolved transform flags for ref.
func ResolvedFlags(ref FileRef, proj *project.Project) project.ResolvedFlags {
	if ref.File != nil {
		return project.ResolveForFile(*ref.File, ref.Item, proj)
	}
	return project.ResolveForDirectory(*ref.Directory, ref.Item, proj)
}
