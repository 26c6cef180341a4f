package transform

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/tairasoul/ccsync/internal/project"
)

func TestRunResourceSkipsRewriteAndMinify(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "icon.nfp", "raw pixel data, not lua at all")

	out, err := Run(filepath.Join(dir, "icon.nfp"), dir, project.Resource, project.ResolvedFlags{
		Minify:        true,
		RequirePrefix: "chan.",
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if out != "raw pixel data, not lua at all" {
		t.Fatalf("expected Resource payload untouched, got %q", out)
	}
}

func TestRunScriptAppliesRequirePrefix(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "main.lua", `local a = require("foo")
return a`)

	out, err := Run(filepath.Join(dir, "main.lua"), dir, project.Script, project.ResolvedFlags{
		RequirePrefix: "chan.",
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !strings.Contains(out, `require("chan.foo")`) {
		t.Fatalf("expected prefixed require, got %q", out)
	}
}

func TestRunScriptDeflateWrapsWhenShorter(t *testing.T) {
	dir := t.TempDir()
	longSrc := strings.Repeat("local x = x + 1\n", 200)
	writeFile(t, dir, "big.lua", longSrc)

	out, err := Run(filepath.Join(dir, "big.lua"), dir, project.Script, project.ResolvedFlags{
		DeflateTrickery: true,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !strings.HasPrefix(out, "return load(") {
		t.Fatalf("expected deflate-wrapped script payload, got %q", out[:min(40, len(out))])
	}
}
