package transform

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tairasoul/ccsync/internal/transform/lualex"
)

// Bundle resolves entry's require("a.b.c") chains and inlines every
// transitively reachable module into a single self-contained chunk.
// Modules named in the exclusion set are left as runtime requires rather
// than inlined.
//
// entryContent must already have the goto/label sentinel applied by the
// caller. Walked module files are read raw from disk, so Bundle masks
// their goto/label tokens itself; the returned chunk is still in masked
// form and the caller unmasks once at the end of the pipeline.
func Bundle(entryContent, entryDottedName, rootDir string, prefix string, extraExclusions []string) (string, error) {
	excluded := exclusionSet(extraExclusions)

	modules := map[string]string{} // dotted name -> raw file content
	if err := filepath.Walk(rootDir, func(path string, info os.FileInfo, err error) error {
		if err != nil || info == nil || info.IsDir() {
			return nil
		}
		rel, relErr := filepath.Rel(rootDir, path)
		if relErr != nil {
			return nil
		}
		dotted := strings.ReplaceAll(filepath.ToSlash(rel), "/", ".")
		dotted = strings.TrimSuffix(dotted, filepath.Ext(dotted))
		data, readErr := os.ReadFile(path)
		if readErr != nil {
			return nil
		}
		content := maskGotos(string(data))
		if prefix != "" {
			content = RewriteRequirePrefix(content, prefix, extraExclusions)
			dotted = prefix + dotted
		}
		modules[dotted] = content
		return nil
	}); err != nil {
		return "", fmt.Errorf("bundle: walk %s: %w", rootDir, err)
	}
	modules[entryDottedName] = entryContent

	reachable := map[string]struct{}{}
	order := []string{}
	var visit func(name string)
	visit = func(name string) {
		if _, ok := reachable[name]; ok {
			return
		}
		content, ok := modules[name]
		if !ok {
			return
		}
		reachable[name] = struct{}{}
		for _, req := range requiredModuleNames(content) {
			if _, skip := excluded[req]; skip {
				continue
			}
			visit(req)
		}
		order = append(order, name)
	}
	visit(entryDottedName)

	var b strings.Builder
	b.WriteString("local __modules, __loaded = {}, {}\n")
	b.WriteString("local function __bundle_require(name)\n")
	b.WriteString("\tif __loaded[name] ~= nil then return __loaded[name] end\n")
	b.WriteString("\tlocal mod = __modules[name]\n")
	b.WriteString("\tif not mod then return require(name) end\n")
	b.WriteString("\tlocal value = mod()\n")
	b.WriteString("\t__loaded[name] = value\n")
	b.WriteString("\treturn value\n")
	b.WriteString("end\n")

	for _, name := range order {
		if name == entryDottedName {
			continue
		}
		rewritten := rewriteRequiresToLocal(modules[name], excluded)
		fmt.Fprintf(&b, "__modules[%q] = function(...)\n%s\nend\n", name, rewritten)
	}

	entryRewritten := rewriteRequiresToLocal(entryContent, excluded)
	b.WriteString("return (function(...)\n")
	b.WriteString(entryRewritten)
	b.WriteString("\nend)(...)\n")

	return b.String(), nil
}

// requiredModuleNames scans content for require("literal") calls and
// returns the literal dotted module names found.
func requiredModuleNames(content string) []string {
	toks := lualex.Lex(content)
	var names []string
	for i, tok := range toks {
		if tok.Kind != lualex.KindIdent || tok.Text != "require" {
			continue
		}
		if _, argStart, argEnd, ok := matchRequireCall(toks, i); ok {
			if lit, whole := singleStringArg(toks, argStart, argEnd); whole {
				names = append(names, lit.Value)
			}
		}
	}
	return names
}

// rewriteRequiresToLocal replaces require("name") with
// __bundle_require("name") for every non-excluded literal require call, so
// bundled modules resolve against the in-memory module table instead of
// the runtime loader.
func rewriteRequiresToLocal(content string, excluded map[string]struct{}) string {
	toks := lualex.Lex(content)
	var b strings.Builder
	i := 0
	for i < len(toks) {
		tok := toks[i]
		if tok.Kind == lualex.KindIdent && tok.Text == "require" {
			if callEnd, argStart, argEnd, ok := matchRequireCall(toks, i); ok {
				if lit, whole := singleStringArg(toks, argStart, argEnd); whole {
					if _, skip := excluded[lit.Value]; skip {
						writeTokensRange(&b, toks, i, callEnd)
					} else {
						b.WriteString("__bundle_require")
						writeTokensRange(&b, toks, i+1, callEnd)
					}
					i = callEnd
					continue
				}
			}
		}
		b.WriteString(tok.Text)
		i++
	}
	return b.String()
}
