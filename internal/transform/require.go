package transform

import (
	"strings"

	"github.com/tairasoul/ccsync/internal/transform/lualex"
)

// BaseExclusions is the fixed set of module names the rewrite/bundle stages
// never touch, in addition to any caller-supplied
// prefix_exclusions.
var BaseExclusions = []string{
	"cc.audio.dfpwm", "cc.completion", "cc.expect", "cc.image.nft",
	"cc.pretty", "cc.require", "cc.shell.completion", "cc.strings",
}

func exclusionSet(extra []string) map[string]struct{} {
	set := make(map[string]struct{}, len(BaseExclusions)+len(extra))
	for _, e := range BaseExclusions {
		set[e] = struct{}{}
	}
	for _, e := range extra {
		set[e] = struct{}{}
	}
	return set
}

// RewriteRequirePrefix rewrites every require(...) call's first argument,
// prepending prefix: a string-literal argument becomes a concatenated
// string literal; anything else becomes prefix .. (argument). Calls whose
// literal string argument is excluded are left untouched.
//
// src must not contain raw goto/label tokens — the caller is responsible
// for the sentinel mask/unmask round-trip.
func RewriteRequirePrefix(src, prefix string, extraExclusions []string) string {
	if prefix == "" {
		return src
	}
	excluded := exclusionSet(extraExclusions)
	toks := lualex.Lex(src)

	var b strings.Builder
	b.Grow(len(src) + 16)

	i := 0
	for i < len(toks) {
		tok := toks[i]
		if tok.Kind == lualex.KindIdent && tok.Text == "require" {
			if callEnd, argStart, argEnd, ok := matchRequireCall(toks, i); ok {
				b.WriteString(tok.Text)
				writeTokensRange(&b, toks, i+1, argStart)
				writeRewrittenArg(&b, toks, argStart, argEnd, prefix, excluded)
				writeTokensRange(&b, toks, argEnd, callEnd)
				i = callEnd
				continue
			}
		}
		b.WriteString(tok.Text)
		i++
	}
	return b.String()
}

// matchRequireCall expects toks[nameIdx] == "require". It looks for a
// following "(" (skipping insignificant tokens) and returns the index just
// past the matching ")", plus the token-index span of the first top-level
// argument (before the first top-level comma, or the closing paren).
func matchRequireCall(toks []lualex.Token, nameIdx int) (callEnd, argStart, argEnd int, ok bool) {
	j := nameIdx + 1
	for j < len(toks) && !toks[j].IsSignificant() {
		j++
	}
	if j >= len(toks) || toks[j].Kind != lualex.KindPunct || toks[j].Text != "(" {
		return 0, 0, 0, false
	}
	depth := 1
	j++
	for j < len(toks) && !toks[j].IsSignificant() {
		j++
	}
	argStart = j

	for j < len(toks) && depth > 0 {
		tok := toks[j]
		if tok.Kind == lualex.KindPunct {
			switch tok.Text {
			case "(", "[", "{":
				depth++
			case ")", "]", "}":
				depth--
				if depth == 0 {
					break
				}
			case ",":
				if depth == 1 && argEnd == 0 {
					argEnd = j
				}
			}
		}
		if depth == 0 {
			break
		}
		j++
	}
	if j >= len(toks) {
		return 0, 0, 0, false
	}
	closeParen := j
	if argEnd == 0 {
		argEnd = closeParen
	}
	return closeParen + 1, argStart, argEnd, true
}

func writeTokensRange(b *strings.Builder, toks []lualex.Token, from, to int) {
	for k := from; k < to && k < len(toks); k++ {
		b.WriteString(toks[k].Text)
	}
}

// writeRewrittenArg writes the rewritten first argument for a require()
// call: a bare string literal is prefixed in place (skipped if excluded);
// anything else is wrapped as a concatenation expression.
func writeRewrittenArg(b *strings.Builder, toks []lualex.Token, argStart, argEnd int, prefix string, excluded map[string]struct{}) {
	lit, isWholeString := singleStringArg(toks, argStart, argEnd)
	if isWholeString {
		if _, skip := excluded[lit.Value]; skip {
			writeTokensRange(b, toks, argStart, argEnd)
			return
		}
		b.WriteString(`"` + prefix + lit.Value + `"`)
		return
	}
	b.WriteString(`"` + prefix + `" .. (`)
	writeTokensRange(b, toks, argStart, argEnd)
	b.WriteString(")")
}

// singleStringArg reports whether the argument span [from, to) is exactly
// one string-literal token (ignoring surrounding whitespace/comments).
func singleStringArg(toks []lualex.Token, from, to int) (lualex.Token, bool) {
	var str lualex.Token
	found := false
	for k := from; k < to; k++ {
		if !toks[k].IsSignificant() {
			continue
		}
		if found {
			return lualex.Token{}, false
		}
		if toks[k].Kind != lualex.KindString {
			return lualex.Token{}, false
		}
		str = toks[k]
		found = true
	}
	return str, found
}
