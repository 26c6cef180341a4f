package transform

import (
	"testing"

	"github.com/tairasoul/ccsync/internal/transform/lualex"
)

// unmask(mask(src)) must reproduce src byte for byte, whatever whitespace
// surrounded the original tokens.
func TestMaskUnmaskRoundTripExact(t *testing.T) {
	cases := []string{
		"::top::\nlocal i = 0\ni = i + 1\nif i < 10 then goto top end\n",
		"goto   spaced\n::  padded  ::\n",
		"if done then goto out end\n::out::\nreturn 1\n",
		"no control flow here\n",
		"",
	}
	for _, src := range cases {
		if got := unmaskGotos(maskGotos(src)); got != src {
			t.Fatalf("round-trip mismatch:\n got %q\nwant %q", got, src)
		}
	}
}

func TestMaskHidesTokensFromScanner(t *testing.T) {
	masked := maskGotos("goto retry\n::retry::")
	for _, tok := range lualex.Lex(masked) {
		if tok.Kind == lualex.KindIdent && tok.Text == "goto" {
			t.Fatalf("raw goto token visible after masking: %q", masked)
		}
		if tok.Kind == lualex.KindPunct && tok.Text == ":" {
			t.Fatalf("raw label punctuation visible after masking: %q", masked)
		}
	}
}

func TestIsSentinelComment(t *testing.T) {
	if !isSentinelComment(sentinelOpen + "goto top" + sentinelClose) {
		t.Fatalf("sentinel comment not recognized")
	}
	if isSentinelComment("-- ordinary comment") {
		t.Fatalf("ordinary comment misidentified as sentinel")
	}
}
