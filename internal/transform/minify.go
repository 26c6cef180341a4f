package transform

import (
	"strconv"
	"strings"

	"github.com/tairasoul/ccsync/internal/transform/lualex"
)

// Minify applies the minification rule chain at the token level: removal
// of method-definition sugar, redundant call parens, comments (sparing
// the goto/label sentinel), and type annotations; integer constant
// folding; removal of empty do-blocks, nil-valued declarations, unused
// literal locals, and `while false` loops; grouping of consecutive
// literal local declarations; resolution of constant-condition ifs; and
// dense whitespace collapse. Identifier renaming and the
// filter-after-early-return rewrite need real scope analysis, which the
// token scanner cannot provide — see DESIGN.md.
//
// src must already have had goto/label tokens sentinel-masked by the
// caller.
func Minify(src string) string {
	src = removeMethodCallSugar(src)
	src = removeRedundantCallParens(src)
	src = stripComments(src)
	src = removeTypeAnnotations(src)
	src = foldConstants(src)
	src = removeEmptyDoBlocks(src)
	src = removeNilDeclarations(src)
	src = removeUnusedLocals(src)
	src = removeUnusedWhiles(src)
	src = groupLocalDeclarations(src)
	src = removeConstantIfs(src)
	return collapseWhitespace(src)
}

var luaKeywords = map[string]struct{}{
	"and": {}, "break": {}, "do": {}, "else": {}, "elseif": {}, "end": {},
	"false": {}, "for": {}, "function": {}, "goto": {}, "if": {}, "in": {},
	"local": {}, "nil": {}, "not": {}, "or": {}, "repeat": {}, "return": {},
	"then": {}, "true": {}, "until": {}, "while": {},
}

func isKeyword(s string) bool {
	_, ok := luaKeywords[s]
	return ok
}

func isKw(t lualex.Token, kw string) bool {
	return t.Kind == lualex.KindIdent && t.Text == kw
}

func isPunct(t lualex.Token, p string) bool {
	return t.Kind == lualex.KindPunct && t.Text == p
}

func skipInsignificant(toks []lualex.Token, i int) int {
	for i < len(toks) && !toks[i].IsSignificant() {
		i++
	}
	return i
}

func prevSignificantIdx(toks []lualex.Token, i int) int {
	for j := i - 1; j >= 0; j-- {
		if toks[j].IsSignificant() {
			return j
		}
	}
	return -1
}

// spanHasSentinel reports whether a goto/label sentinel comment sits in
// toks[from:to]. Blocks containing masked control flow are left alone
// rather than risk dropping a jump target.
func spanHasSentinel(toks []lualex.Token, from, to int) bool {
	for i := from; i < to && i < len(toks); i++ {
		if toks[i].Kind == lualex.KindComment && isSentinelComment(toks[i].Text) {
			return true
		}
	}
	return false
}

// removeMethodCallSugar rewrites method definitions:
// `function t.a:m(...)` becomes `function t.a.m(self, ...)`.
func removeMethodCallSugar(src string) string {
	toks := lualex.Lex(src)
	var b strings.Builder
	i := 0
	for i < len(toks) {
		if isKw(toks[i], "function") {
			if colon, open, ok := matchMethodDef(toks, i); ok {
				writeTokensRange(&b, toks, i, colon)
				b.WriteString(".")
				writeTokensRange(&b, toks, colon+1, open+1)
				b.WriteString("self")
				if j := skipInsignificant(toks, open+1); j < len(toks) && !isPunct(toks[j], ")") {
					b.WriteString(",")
				}
				i = open + 1
				continue
			}
		}
		b.WriteString(toks[i].Text)
		i++
	}
	return b.String()
}

// matchMethodDef expects toks[fnIdx] == "function" and looks for
// NAME(.NAME)*:NAME( after it, returning the colon and open-paren token
// indexes.
func matchMethodDef(toks []lualex.Token, fnIdx int) (colon, open int, ok bool) {
	i := skipInsignificant(toks, fnIdx+1)
	if i >= len(toks) || toks[i].Kind != lualex.KindIdent || isKeyword(toks[i].Text) {
		return 0, 0, false
	}
	i++
	for {
		j := skipInsignificant(toks, i)
		if j < len(toks) && isPunct(toks[j], ".") {
			k := skipInsignificant(toks, j+1)
			if k >= len(toks) || toks[k].Kind != lualex.KindIdent {
				return 0, 0, false
			}
			i = k + 1
			continue
		}
		break
	}
	j := skipInsignificant(toks, i)
	if j >= len(toks) || !isPunct(toks[j], ":") {
		return 0, 0, false
	}
	k := skipInsignificant(toks, j+1)
	if k >= len(toks) || toks[k].Kind != lualex.KindIdent {
		return 0, 0, false
	}
	m := skipInsignificant(toks, k+1)
	if m >= len(toks) || !isPunct(toks[m], "(") {
		return 0, 0, false
	}
	return j, m, true
}

// removeRedundantCallParens drops the parens around a call whose sole
// argument is a string literal or a table constructor: f("s") becomes
// f"s", f({...}) becomes f{...}.
func removeRedundantCallParens(src string) string {
	toks := lualex.Lex(src)
	drop := map[int]struct{}{}
	for i := range toks {
		if !isPunct(toks[i], "(") {
			continue
		}
		p := prevSignificantIdx(toks, i)
		if p < 0 || toks[p].Kind != lualex.KindIdent || isKeyword(toks[p].Text) {
			continue
		}
		j := skipInsignificant(toks, i+1)
		if j >= len(toks) {
			continue
		}
		switch {
		case toks[j].Kind == lualex.KindString:
			if k := skipInsignificant(toks, j+1); k < len(toks) && isPunct(toks[k], ")") {
				drop[i] = struct{}{}
				drop[k] = struct{}{}
			}
		case isPunct(toks[j], "{"):
			if close, ok := matchBrace(toks, j); ok {
				if k := skipInsignificant(toks, close+1); k < len(toks) && isPunct(toks[k], ")") {
					drop[i] = struct{}{}
					drop[k] = struct{}{}
				}
			}
		}
	}
	if len(drop) == 0 {
		return src
	}
	var b strings.Builder
	for i, tok := range toks {
		if _, skip := drop[i]; skip {
			continue
		}
		b.WriteString(tok.Text)
	}
	return b.String()
}

func matchBrace(toks []lualex.Token, open int) (int, bool) {
	depth := 0
	for i := open; i < len(toks); i++ {
		switch {
		case isPunct(toks[i], "{"):
			depth++
		case isPunct(toks[i], "}"):
			depth--
			if depth == 0 {
				return i, true
			}
		}
	}
	return 0, false
}

func stripComments(src string) string {
	toks := lualex.Lex(src)
	var b strings.Builder
	for _, tok := range toks {
		if tok.Kind == lualex.KindComment && !isSentinelComment(tok.Text) {
			continue
		}
		b.WriteString(tok.Text)
	}
	return b.String()
}

// removeTypeAnnotations drops ": T" after a local declaration's names,
// the one position where an annotation cannot be mistaken for a method
// call. The annotation must be a plain dotted name (optionally "?") and
// must be followed by "=" or "," so a partial match never corrupts the
// declaration.
func removeTypeAnnotations(src string) string {
	toks := lualex.Lex(src)
	drop := map[int]struct{}{}
	for i := range toks {
		if !isKw(toks[i], "local") {
			continue
		}
		j := skipInsignificant(toks, i+1)
		for j < len(toks) && toks[j].Kind == lualex.KindIdent && !isKeyword(toks[j].Text) {
			k := skipInsignificant(toks, j+1)
			if k < len(toks) && isPunct(toks[k], ":") {
				span, ok := typeSpan(toks, k)
				if !ok {
					break
				}
				nx := skipInsignificant(toks, span)
				if nx >= len(toks) || !(isPunct(toks[nx], "=") || isPunct(toks[nx], ",")) {
					break
				}
				for d := k; d < span; d++ {
					drop[d] = struct{}{}
				}
				k = nx
			}
			if k < len(toks) && isPunct(toks[k], ",") {
				j = skipInsignificant(toks, k+1)
				continue
			}
			break
		}
	}
	if len(drop) == 0 {
		return src
	}
	var b strings.Builder
	for i, tok := range toks {
		if _, skip := drop[i]; skip {
			continue
		}
		b.WriteString(tok.Text)
	}
	return b.String()
}

// typeSpan consumes IDENT(.IDENT)* optionally followed by "?" after the
// colon and returns the index just past the annotation.
func typeSpan(toks []lualex.Token, colonIdx int) (int, bool) {
	i := skipInsignificant(toks, colonIdx+1)
	if i >= len(toks) || toks[i].Kind != lualex.KindIdent {
		return 0, false
	}
	i++
	for {
		j := skipInsignificant(toks, i)
		if j < len(toks) && isPunct(toks[j], ".") {
			k := skipInsignificant(toks, j+1)
			if k >= len(toks) || toks[k].Kind != lualex.KindIdent {
				return 0, false
			}
			i = k + 1
			continue
		}
		if j < len(toks) && isPunct(toks[j], "?") {
			return j + 1, true
		}
		return i, true
	}
}

// foldConstants folds integer literal arithmetic (+ - *) whose neighbors
// cannot change the result through precedence or unary operators; runs
// to a fixpoint so chains like `2 * 3 + 4` collapse fully.
func foldConstants(src string) string {
	for {
		out, changed := foldOnce(src)
		if !changed {
			return out
		}
		src = out
	}
}

func foldOnce(src string) (string, bool) {
	toks := lualex.Lex(src)
	for a := range toks {
		if !isIntLiteral(toks[a]) {
			continue
		}
		op := skipInsignificant(toks, a+1)
		if op >= len(toks) || toks[op].Kind != lualex.KindPunct {
			continue
		}
		switch toks[op].Text {
		case "+", "-", "*":
		default:
			continue
		}
		bi := skipInsignificant(toks, op+1)
		if bi >= len(toks) || !isIntLiteral(toks[bi]) {
			continue
		}
		if p := prevSignificantIdx(toks, a); p >= 0 {
			if toks[p].Kind == lualex.KindPunct {
				switch toks[p].Text {
				case "+", "-", "*", "/", "%", "^", ".", "#":
					continue
				}
			}
			if isKw(toks[p], "not") {
				continue
			}
		}
		if n := skipInsignificant(toks, bi+1); n < len(toks) && toks[n].Kind == lualex.KindPunct {
			switch toks[n].Text {
			case "^":
				continue
			case "*", "/", "%":
				if toks[op].Text != "*" {
					continue
				}
			}
		}
		x, errX := strconv.ParseInt(toks[a].Text, 10, 64)
		y, errY := strconv.ParseInt(toks[bi].Text, 10, 64)
		if errX != nil || errY != nil {
			continue
		}
		var v int64
		switch toks[op].Text {
		case "+":
			v = x + y
		case "-":
			v = x - y
		case "*":
			v = x * y
		}
		var b strings.Builder
		writeTokensRange(&b, toks, 0, a)
		b.WriteString(strconv.FormatInt(v, 10))
		writeTokensRange(&b, toks, bi+1, len(toks))
		return b.String(), true
	}
	return src, false
}

func isIntLiteral(t lualex.Token) bool {
	if t.Kind != lualex.KindNumber || t.Text == "" {
		return false
	}
	for i := 0; i < len(t.Text); i++ {
		if t.Text[i] < '0' || t.Text[i] > '9' {
			return false
		}
	}
	return true
}

// removeEmptyDoBlocks drops standalone `do end` blocks (only
// insignificant tokens between the keywords), which earlier passes can
// leave behind once a block's body has been stripped. A `do` closing a
// while/for header is part of that statement and is left alone, as is a
// block holding a masked goto/label.
func removeEmptyDoBlocks(src string) string {
	toks := lualex.Lex(src)
	header := headerDos(toks)
	var b strings.Builder
	i := 0
	for i < len(toks) {
		if isKw(toks[i], "do") && !header[i] {
			j := skipInsignificant(toks, i+1)
			if j < len(toks) && isKw(toks[j], "end") && !spanHasSentinel(toks, i+1, j) {
				i = j + 1
				continue
			}
		}
		b.WriteString(toks[i].Text)
		i++
	}
	return b.String()
}

// headerDos marks the `do` tokens that close a while/for header.
func headerDos(toks []lualex.Token) map[int]bool {
	marked := map[int]bool{}
	pending := false
	for i, t := range toks {
		if t.Kind != lualex.KindIdent {
			continue
		}
		switch t.Text {
		case "while", "for":
			pending = true
		case "do":
			if pending {
				marked[i] = true
				pending = false
			}
		}
	}
	return marked
}

// removeNilDeclarations drops `local <name>[, <name>...] = nil[, nil...]`
// statements — they have no observable effect since a fresh local is
// already nil.
func removeNilDeclarations(src string) string {
	toks := lualex.Lex(src)
	var b strings.Builder
	i := 0
	for i < len(toks) {
		if end, ok := matchNilDecl(toks, i); ok {
			i = end
			continue
		}
		b.WriteString(toks[i].Text)
		i++
	}
	return b.String()
}

func matchNilDecl(toks []lualex.Token, start int) (int, bool) {
	i := start
	if i >= len(toks) || !isKw(toks[i], "local") {
		return 0, false
	}
	i++
	namesSeen := 0
	for {
		i = skipInsignificant(toks, i)
		if i >= len(toks) || toks[i].Kind != lualex.KindIdent || isKeyword(toks[i].Text) {
			return 0, false
		}
		i++
		namesSeen++
		i = skipInsignificant(toks, i)
		if i < len(toks) && isPunct(toks[i], ",") {
			i++
			continue
		}
		break
	}
	i = skipInsignificant(toks, i)
	if i >= len(toks) || !isPunct(toks[i], "=") {
		return 0, false
	}
	i++
	nilsSeen := 0
	last := i
	for {
		i = skipInsignificant(toks, i)
		if i >= len(toks) || !isKw(toks[i], "nil") {
			return 0, false
		}
		i++
		nilsSeen++
		last = i
		i = skipInsignificant(toks, i)
		if i < len(toks) && isPunct(toks[i], ",") {
			i++
			continue
		}
		break
	}
	if nilsSeen != namesSeen {
		return 0, false
	}
	if i < len(toks) && isPunct(toks[i], ";") && !spanHasSentinel(toks, last, i) {
		return i + 1, true
	}
	return last, true
}

// removeUnusedLocals drops `local x = <literal>` declarations whose name
// never appears again anywhere in the chunk. The literal restriction
// preserves side effects; the whole-chunk occurrence scan over-
// approximates visibility, so it can only keep too much, never drop a
// live variable.
func removeUnusedLocals(src string) string {
	for {
		toks := lualex.Lex(src)
		counts := map[string]int{}
		for _, t := range toks {
			if t.Kind == lualex.KindIdent && !isKeyword(t.Text) {
				counts[t.Text]++
			}
		}
		var b strings.Builder
		removed := false
		i := 0
		for i < len(toks) {
			if d, ok := matchLiteralLocal(toks, i); ok && len(d.names) == 1 && counts[d.names[0]] == 1 {
				i = d.end
				removed = true
				continue
			}
			b.WriteString(toks[i].Text)
			i++
		}
		if !removed {
			return src
		}
		src = b.String()
	}
}

// removeUnusedWhiles drops `while false do ... end` and `while nil do ...
// end` loops; their bodies can never run. A body holding a masked
// goto/label is kept, since it may still be a jump target.
func removeUnusedWhiles(src string) string {
	toks := lualex.Lex(src)
	var b strings.Builder
	i := 0
	for i < len(toks) {
		if isKw(toks[i], "while") {
			c := skipInsignificant(toks, i+1)
			if c < len(toks) && (isKw(toks[c], "false") || isKw(toks[c], "nil")) {
				d := skipInsignificant(toks, c+1)
				if d < len(toks) && isKw(toks[d], "do") {
					if end, ok := matchBlockEnd(toks, d+1); ok && !spanHasSentinel(toks, i, end+1) {
						i = end + 1
						continue
					}
				}
			}
		}
		b.WriteString(toks[i].Text)
		i++
	}
	return b.String()
}

// matchBlockEnd scans forward from just inside an open block and returns
// the index of the `end` (or `until`) that closes it. Only `do`,
// `function`, `if`, and `repeat` open a new terminator-consuming block;
// `while`/`for` are closed by their own `do`.
func matchBlockEnd(toks []lualex.Token, from int) (int, bool) {
	depth := 1
	for i := from; i < len(toks); i++ {
		if toks[i].Kind != lualex.KindIdent {
			continue
		}
		switch toks[i].Text {
		case "do", "function", "if", "repeat":
			depth++
		case "end", "until":
			depth--
			if depth == 0 {
				return i, true
			}
		}
	}
	return 0, false
}

// groupLocalDeclarations merges runs of adjacent literal-valued locals:
// `local a = 1 local b = 2` becomes `local a, b = 1, 2`. The literal
// restriction means reordering of evaluation cannot be observed.
func groupLocalDeclarations(src string) string {
	for {
		out, changed := groupOnce(src)
		if !changed {
			return out
		}
		src = out
	}
}

func groupOnce(src string) (string, bool) {
	toks := lualex.Lex(src)
	for i := range toks {
		d1, ok := matchLiteralLocal(toks, i)
		if !ok {
			continue
		}
		j := skipInsignificant(toks, d1.end)
		d2, ok := matchLiteralLocal(toks, j)
		if !ok || spanHasSentinel(toks, d1.end, j) {
			continue
		}
		var b strings.Builder
		writeTokensRange(&b, toks, 0, i)
		b.WriteString("local ")
		b.WriteString(strings.Join(append(d1.names, d2.names...), ", "))
		b.WriteString(" = ")
		b.WriteString(strings.Join(append(d1.lits, d2.lits...), ", "))
		writeTokensRange(&b, toks, d2.end, len(toks))
		return b.String(), true
	}
	return src, false
}

type literalLocal struct {
	names []string
	lits  []string
	end   int
}

// matchLiteralLocal matches `local n1[, n2...] = lit1[, lit2...]` at
// start, where every value is a bare literal and the last one closes the
// statement.
func matchLiteralLocal(toks []lualex.Token, start int) (literalLocal, bool) {
	var d literalLocal
	if start >= len(toks) || !isKw(toks[start], "local") {
		return d, false
	}
	j := start
	for {
		k := skipInsignificant(toks, j+1)
		if k >= len(toks) || toks[k].Kind != lualex.KindIdent || isKeyword(toks[k].Text) {
			return d, false
		}
		d.names = append(d.names, toks[k].Text)
		n := skipInsignificant(toks, k+1)
		if n < len(toks) && isPunct(toks[n], ",") {
			j = n
			continue
		}
		j = n
		break
	}
	if j >= len(toks) || !isPunct(toks[j], "=") {
		return d, false
	}
	last := -1
	for {
		k := skipInsignificant(toks, j+1)
		if k >= len(toks) || !(isPureLiteral(toks[k]) || isKw(toks[k], "nil")) {
			return d, false
		}
		d.lits = append(d.lits, toks[k].Text)
		last = k
		n := skipInsignificant(toks, k+1)
		if n < len(toks) && isPunct(toks[n], ",") {
			j = n
			continue
		}
		break
	}
	if len(d.lits) != len(d.names) {
		return d, false
	}
	end, ok := literalDeclEnd(toks, last)
	if !ok {
		return d, false
	}
	d.end = end
	return d, true
}

func isPureLiteral(t lualex.Token) bool {
	switch t.Kind {
	case lualex.KindNumber, lualex.KindString:
		return true
	case lualex.KindIdent:
		return t.Text == "true" || t.Text == "false"
	}
	return false
}

// literalDeclEnd verifies the literal at lit closes its statement — the
// next significant token must not continue the expression — and returns
// the index just past it, consuming a trailing semicolon.
func literalDeclEnd(toks []lualex.Token, lit int) (int, bool) {
	end := lit + 1
	if j := skipInsignificant(toks, end); j < len(toks) && isPunct(toks[j], ";") {
		end = j + 1
	}
	j := skipInsignificant(toks, end)
	if j >= len(toks) {
		return end, true
	}
	t := toks[j]
	if t.Kind == lualex.KindString {
		return 0, false
	}
	if isKw(t, "or") || isKw(t, "and") {
		return 0, false
	}
	if t.Kind == lualex.KindPunct {
		switch t.Text {
		case "+", "-", "*", "/", "%", "^", ".", ":", "[", "(", "{", ",", "=":
			return 0, false
		}
	}
	return end, true
}

// removeConstantIfs resolves `if true/false/nil then ... end` statements:
// the taken branch is inlined, the untaken branches dropped, and a
// leading `elseif` of a dropped head becomes the new `if`. Statements
// holding a masked goto/label are left alone.
func removeConstantIfs(src string) string {
	for {
		out, changed := removeOneConstantIf(src)
		if !changed {
			return out
		}
		src = out
	}
}

func removeOneConstantIf(src string) (string, bool) {
	toks := lualex.Lex(src)
	for i := range toks {
		if !isKw(toks[i], "if") {
			continue
		}
		c := skipInsignificant(toks, i+1)
		if c >= len(toks) {
			continue
		}
		var truthy bool
		switch {
		case isKw(toks[c], "true"):
			truthy = true
		case isKw(toks[c], "false"), isKw(toks[c], "nil"):
		default:
			continue
		}
		th := skipInsignificant(toks, c+1)
		if th >= len(toks) || !isKw(toks[th], "then") {
			continue
		}
		marker, end, ok := ifStructure(toks, th+1)
		if !ok || spanHasSentinel(toks, i, end+1) {
			continue
		}
		var b strings.Builder
		writeTokensRange(&b, toks, 0, i)
		switch {
		case truthy && marker >= 0:
			writeTokensRange(&b, toks, th+1, marker)
		case truthy:
			writeTokensRange(&b, toks, th+1, end)
		case marker >= 0 && isKw(toks[marker], "else"):
			writeTokensRange(&b, toks, marker+1, end)
		case marker >= 0 && isKw(toks[marker], "elseif"):
			b.WriteString("if")
			writeTokensRange(&b, toks, marker+1, end+1)
		}
		writeTokensRange(&b, toks, end+1, len(toks))
		return b.String(), true
	}
	return src, false
}

// ifStructure returns the first depth-0 elseif/else marker (or -1) and
// the matching end for an if-body starting just past its `then`.
func ifStructure(toks []lualex.Token, from int) (marker, end int, ok bool) {
	marker = -1
	depth := 1
	for i := from; i < len(toks); i++ {
		if toks[i].Kind != lualex.KindIdent {
			continue
		}
		switch toks[i].Text {
		case "do", "function", "if", "repeat":
			depth++
		case "elseif", "else":
			if depth == 1 && marker < 0 {
				marker = i
			}
		case "end", "until":
			depth--
			if depth == 0 {
				return marker, i, true
			}
		}
	}
	return -1, 0, false
}

// collapseWhitespace emits the dense form: runs of whitespace collapse to
// a single space unless they can be dropped entirely (between two tokens
// that don't need a separator to stay distinct), emitting the whole
// chunk at effectively unbounded column width.
func collapseWhitespace(src string) string {
	toks := lualex.Lex(src)
	var b strings.Builder
	var prevSignificant *lualex.Token
	for i := range toks {
		tok := &toks[i]
		if tok.Kind == lualex.KindWhitespace {
			continue
		}
		if prevSignificant != nil && needsSeparator(*prevSignificant, *tok) {
			b.WriteString(" ")
		}
		b.WriteString(tok.Text)
		if tok.Kind == lualex.KindComment && !isLongComment(tok.Text) {
			// A line comment runs to end of line; without its newline the
			// next token would be swallowed into the comment.
			b.WriteString("\n")
		}
		prevSignificant = tok
	}
	return b.String()
}

// isLongComment reports whether text is a bracketed --[[...]]-style
// comment, which self-terminates and needs no trailing newline.
func isLongComment(text string) bool {
	rest := strings.TrimPrefix(text, "--")
	if !strings.HasPrefix(rest, "[") {
		return false
	}
	rest = strings.TrimLeft(rest[1:], "=")
	return strings.HasPrefix(rest, "[")
}

// needsSeparator reports whether a and b would merge into a different
// token if concatenated directly (e.g. two identifiers, or two numbers).
// Sentinel comments always keep a separator on both sides so the bytes
// they restore don't glue onto their neighbors.
func needsSeparator(a, b lualex.Token) bool {
	if (a.Kind == lualex.KindComment && isSentinelComment(a.Text)) ||
		(b.Kind == lualex.KindComment && isSentinelComment(b.Text)) {
		return true
	}
	alnum := func(t lualex.Token) bool {
		return t.Kind == lualex.KindIdent || t.Kind == lualex.KindNumber
	}
	if alnum(a) && alnum(b) {
		return true
	}
	if a.Kind == lualex.KindPunct && b.Kind == lualex.KindPunct {
		// Avoid accidentally forming a different multi-char operator or a
		// comment opener out of two adjacent punctuation tokens.
		combo := a.Text + b.Text
		switch combo {
		case "--", "..", "==", "~=", "<=", ">=", "::":
			return true
		}
	}
	return false
}
