// Package listing builds the deflate-compressed channel listing served at
// GET /: one line per channel, "<name> - <type>\n".
package listing

import (
	"bytes"
	"fmt"

	"github.com/klauspost/compress/flate"

	"github.com/tairasoul/ccsync/internal/project"
)

// Build renders the channel listing for proj and returns it raw DEFLATE
// compressed at best compression, ready to serve as
// application/octet-stream.
func Build(proj *project.Project) ([]byte, error) {
	var plain bytes.Buffer
	for _, item := range proj.Items {
		fmt.Fprintf(&plain, "%s - %s\n", item.ChannelName, item.Type)
	}

	var compressed bytes.Buffer
	w, err := flate.NewWriter(&compressed, flate.BestCompression)
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(plain.Bytes()); err != nil {
		_ = w.Close()
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return compressed.Bytes(), nil
}
