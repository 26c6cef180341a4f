package transform

import (
	"bytes"
	"encoding/ascii85"
	"fmt"

	"github.com/klauspost/compress/flate"
)

// decompressCall is the name of the client-side helper (shipped as part of
// the sync.lua asset bundle) that base-85-decodes then DEFLATE-decompresses
// a wrapped payload.
const decompressCall = "__ccsync_inflate85"

// DeflateWrap compresses payload with raw DEFLATE at the highest
// compression level, base-85 encodes the result, and wraps it in a
// one-line loader expression. It returns payload
// unchanged if the wrapped form would not be strictly shorter.
func DeflateWrap(payload string, isResource bool) (string, error) {
	compressed, err := deflateCompress(payload)
	if err != nil {
		return "", fmt.Errorf("deflate: compress: %w", err)
	}
	encoded := ascii85Encode(compressed)

	var wrapped string
	if isResource {
		wrapped = fmt.Sprintf("return %s(%q)", decompressCall, encoded)
	} else {
		wrapped = fmt.Sprintf("return load(%s(%q))(...)", decompressCall, encoded)
	}

	if len(wrapped) >= len(payload) {
		return payload, nil
	}
	return wrapped, nil
}

func deflateCompress(payload string) ([]byte, error) {
	var buf bytes.Buffer
	w, err := flate.NewWriter(&buf, flate.BestCompression)
	if err != nil {
		return nil, err
	}
	if _, err := w.Write([]byte(payload)); err != nil {
		_ = w.Close()
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func ascii85Encode(data []byte) string {
	buf := make([]byte, ascii85.MaxEncodedLen(len(data)))
	n := ascii85.Encode(buf, data)
	return string(buf[:n])
}
