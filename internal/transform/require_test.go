package transform

import "testing"

func TestRewriteRequirePrefixLiteral(t *testing.T) {
	out := RewriteRequirePrefix(`local m = require("foo.bar")`, "chan1.", nil)
	want := `local m = require("chan1.foo.bar")`
	if out != want {
		t.Fatalf("got %q, want %q", out, want)
	}
}

func TestRewriteRequirePrefixExcluded(t *testing.T) {
	out := RewriteRequirePrefix(`local p = require("cc.pretty")`, "chan1.", nil)
	want := `local p = require("cc.pretty")`
	if out != want {
		t.Fatalf("expected excluded module untouched, got %q", out)
	}
}

func TestRewriteRequirePrefixExtraExclusion(t *testing.T) {
	out := RewriteRequirePrefix(`local p = require("vendor.json")`, "chan1.", []string{"vendor.json"})
	want := `local p = require("vendor.json")`
	if out != want {
		t.Fatalf("expected caller-supplied exclusion untouched, got %q", out)
	}
}

func TestRewriteRequirePrefixDynamicArg(t *testing.T) {
	out := RewriteRequirePrefix(`local m = require(modname)`, "chan1.", nil)
	want := `local m = require("chan1." .. (modname))`
	if out != want {
		t.Fatalf("got %q, want %q", out, want)
	}
}

func TestRewriteRequirePrefixEmptyPrefixNoop(t *testing.T) {
	src := `local m = require("foo.bar")`
	if out := RewriteRequirePrefix(src, "", nil); out != src {
		t.Fatalf("expected no-op with empty prefix, got %q", out)
	}
}

func TestRewriteRequirePrefixMultipleArgs(t *testing.T) {
	out := RewriteRequirePrefix(`local m = require("foo", 1)`, "p.", nil)
	want := `local m = require("p.foo", 1)`
	if out != want {
		t.Fatalf("got %q, want %q", out, want)
	}
}
