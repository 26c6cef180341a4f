package transform

import (
	"regexp"
	"strings"
)

// Lua control-flow labels/jumps (`::name::`, `goto name`) trip up the
// transform stages' token scanning, so before any stage that must see
// clean Lua they are masked behind a sentinel comment. The mask wraps the
// matched bytes verbatim in a long-bracket comment, making the restore an
// exact inverse: unmaskGotos(maskGotos(src)) == src. The minifier's
// comment stripper carries an explicit exception for the sentinel.

const (
	sentinelOpen  = "--[=[autocommented"
	sentinelClose = "]=]"
)

var (
	gotoRe   = regexp.MustCompile(`\bgoto\s+[A-Za-z_][A-Za-z0-9_]*`)
	labelRe  = regexp.MustCompile(`::\s*[A-Za-z_][A-Za-z0-9_]*\s*::`)
	maskedRe = regexp.MustCompile(`(?s)--\[=\[autocommented(.*?)\]=\]`)
)

// maskGotos comments out goto/label tokens so a stage's tokenizer never
// has to understand control-flow jumps.
func maskGotos(src string) string {
	src = gotoRe.ReplaceAllString(src, sentinelOpen+"$0"+sentinelClose)
	src = labelRe.ReplaceAllString(src, sentinelOpen+"$0"+sentinelClose)
	return src
}

// unmaskGotos restores the exact bytes hidden by maskGotos.
func unmaskGotos(src string) string {
	return maskedRe.ReplaceAllString(src, "$1")
}

// isSentinelComment reports whether a scanned comment token is the
// goto/label sentinel, so the minifier's comment-stripping step can spare
// it.
func isSentinelComment(commentText string) bool {
	return strings.Contains(commentText, "autocommented")
}
