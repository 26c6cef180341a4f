package batch

import "github.com/tairasoul/ccsync/internal/project"

// Merge scans batch left-to-right and collapses consecutive Deletion
// records into one, concatenating their Files in order. Any non-Deletion
// record flushes the pending accumulator first.
func Merge(in []project.Request) []project.Request {
	out := make([]project.Request, 0, len(in))
	var pending []string

	flush := func() {
		if len(pending) > 0 {
			out = append(out, project.Request{Kind: project.KindDeletion, Files: pending})
			pending = nil
		}
	}

	for _, r := range in {
		if r.Kind == project.KindDeletion {
			pending = append(pending, r.Files...)
			continue
		}
		flush()
		out = append(out, r)
	}
	flush()
	return out
}
