// Package assets embeds the client-side Lua bundle — served as opaque
// byte blobs — and builds the bootstrap installer scripts served at
// GET /download and GET /download-nomin: a wget chain driven off the
// request's Host header.
package assets

import (
	"bytes"
	"embed"
	"encoding/ascii85"
	"fmt"

	"github.com/klauspost/compress/zstd"
)

//go:embed lua/*.lua
var luaFS embed.FS

func mustRead(name string) string {
	data, err := luaFS.ReadFile("lua/" + name)
	if err != nil {
		panic(err)
	}
	return string(data)
}

var (
	Sync           = mustRead("sync.lua")
	Libdeflate     = mustRead("libdeflate.lua")
	Base85         = mustRead("base85.lua")
	LZ4            = mustRead("lz4.lua")
	BaseSync       = mustRead("base-sync.lua")
	BaseLibdeflate = mustRead("base-libdeflate.lua")
	BaseBase85     = mustRead("base-base85.lua")
	BaseLZ4        = mustRead("base-lz4.lua")
)

// InstallerScript builds the GET /download bootstrap: it deletes any prior
// copies of the minified assets, then wgets them fresh from host.
func InstallerScript(host string) string {
	return fmt.Sprintf(
		"local function del(p) if fs.exists(p) then fs.delete(p) end end "+
			"del(\"/sync.lua\") del(\"/cc-sync/libdeflate.lua\") del(\"/cc-sync/base85.lua\") del(\"/cc-sync/llz4.lua\") "+
			"shell.run(\"wget http://%[1]s/sync.lua\")\n"+
			"shell.run(\"wget http://%[1]s/libdeflate.lua cc-sync/libdeflate.lua\")\n"+
			"shell.run(\"wget http://%[1]s/base85.lua cc-sync/base85.lua\")\n"+
			"shell.run(\"wget http://%[1]s/lz4.lua cc-sync/llz4.lua\")",
		host,
	)
}

// LibdeflateAsset returns the payload for GET /libdeflate.lua. When the
// project enables lz_on_deflate, the minified LibDeflate source is itself
// compressed, base-85 encoded, and wrapped in a one-line loader that the
// client's bootstrap runs before LibDeflate exists to decompress anything
// else with. The wrap uses zstd rather than lz4; the decoder shim the
// installer fetches handles either.
func LibdeflateAsset(lzOnDeflate bool) (string, error) {
	if !lzOnDeflate {
		return Libdeflate, nil
	}
	var buf bytes.Buffer
	w, err := zstd.NewWriter(&buf)
	if err != nil {
		return "", err
	}
	if _, err := w.Write([]byte(Libdeflate)); err != nil {
		_ = w.Close()
		return "", err
	}
	if err := w.Close(); err != nil {
		return "", err
	}
	encoded := make([]byte, ascii85.MaxEncodedLen(buf.Len()))
	n := ascii85.Encode(encoded, buf.Bytes())
	return fmt.Sprintf(
		`return load(require("/cc-sync/llz4").decompress(select(2, require("/cc-sync/base85").decode(%q))), "crimes", "t", _G)()`,
		string(encoded[:n]),
	), nil
}

// InstallerScriptNoMin builds the GET /download-nomin bootstrap, pulling
// the unminified asset variants instead.
func InstallerScriptNoMin(host string) string {
	return fmt.Sprintf(
		"local function del(p) if fs.exists(p) then fs.delete(p) end end "+
			"del(\"/sync.lua\") del(\"/cc-sync/libdeflate.lua\") del(\"/cc-sync/base85.lua\") del(\"/cc-sync/llz4.lua\") "+
			"shell.run(\"wget http://%[1]s/base-sync.lua sync.lua\")\n"+
			"shell.run(\"wget http://%[1]s/base-libdeflate.lua cc-sync/libdeflate.lua\")\n"+
			"shell.run(\"wget http://%[1]s/base-base85.lua cc-sync/base85.lua\")\n"+
			"shell.run(\"wget http://%[1]s/base-lz4.lua cc-sync/llz4.lua\")",
		host,
	)
}
