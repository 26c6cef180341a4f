// Package transform implements the per-file payload pipeline:
// require-prefix rewrite, module bundling, minification, and
// deflate+ascii85 wrapping, each stage conditional on the channel's
// resolved flags and the item's type.
package transform

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tairasoul/ccsync/internal/project"
)

// Run applies the full transform pipeline to the file at absPath and
// returns the string payload destined for the outbound record's file_data.
// rootDir is the channel's tree root used to key bundled modules.
func Run(absPath, rootDir string, itemType project.ItemType, flags project.ResolvedFlags) (string, error) {
	raw, err := os.ReadFile(absPath)
	if err != nil {
		return "", fmt.Errorf("transform: read %s: %w", absPath, err)
	}
	content := string(raw)

	if itemType == project.Resource {
		if flags.DeflateTrickery {
			return DeflateWrap(content, true)
		}
		return content, nil
	}

	// The sentinel round-trip only matters when a stage actually scans the
	// source; an untransformed file passes through byte-identical.
	if flags.RequirePrefix != "" || flags.Bundle || flags.Minify {
		content = maskGotos(content)

		if flags.RequirePrefix != "" {
			content = RewriteRequirePrefix(content, flags.RequirePrefix, flags.PrefixExclusions)
		}

		if flags.Bundle {
			entryName := dottedName(rootDir, absPath)
			bundled, err := Bundle(content, entryName, rootDir, flags.RequirePrefix, flags.PrefixExclusions)
			if err != nil {
				return "", err
			}
			content = bundled
		}

		if flags.Minify {
			content = Minify(content)
		}

		content = unmaskGotos(content)
	}

	if flags.DeflateTrickery {
		return DeflateWrap(content, false)
	}
	return content, nil
}

// dottedName derives a module's dotted identifier from its path relative
// to rootDir, the same convention Bundle uses for walked files.
func dottedName(rootDir, absPath string) string {
	rel, err := filepath.Rel(rootDir, absPath)
	if err != nil {
		rel = filepath.Base(absPath)
	}
	dotted := strings.ReplaceAll(filepath.ToSlash(rel), "/", ".")
	return strings.TrimSuffix(dotted, filepath.Ext(dotted))
}
