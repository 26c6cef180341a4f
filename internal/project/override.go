package project

// ResolvedFlags is the fully-resolved set of transform knobs for one file,
// after walking the override chain file/directory → item → project → hard
// default (most specific wins, first present value).
type ResolvedFlags struct {
	Minify           bool
	DeflateTrickery  bool
	Bundle           bool
	RequirePrefix    string
	PrefixExclusions []string
}

// firstBool returns the first non-nil *bool among chain, or def.
func firstBool(def bool, chain ...*bool) bool {
	for _, v := range chain {
		if v != nil {
			return *v
		}
	}
	return def
}

func firstString(def string, chain ...*string) string {
	for _, v := range chain {
		if v != nil {
			return *v
		}
	}
	return def
}

func firstStrings(chain ...*[]string) []string {
	for _, v := range chain {
		if v != nil {
			return *v
		}
	}
	return nil
}

// ResolveForFile computes the flags for an explicit File entry within item,
// under project. Bundle is only ever File-level.
func ResolveForFile(f File, item Item, proj *Project) ResolvedFlags {
	return ResolvedFlags{
		Minify:           firstBool(false, f.Overrides.Minify, item.Overrides.Minify, proj.Overrides.Minify),
		DeflateTrickery:  firstBool(false, f.Overrides.DeflateTrickery, item.Overrides.DeflateTrickery, proj.Overrides.DeflateTrickery),
		Bundle:           f.Bundle,
		RequirePrefix:    firstString("", f.Overrides.RequirePrefix, item.Overrides.RequirePrefix, proj.Overrides.RequirePrefix),
		PrefixExclusions: firstStrings(f.Overrides.PrefixExclusions, item.Overrides.PrefixExclusions, proj.Overrides.PrefixExclusions),
	}
}

// ResolveForDirectory computes the flags for a file discovered under a
// Directory entry. Directories never bundle.
func ResolveForDirectory(d Directory, item Item, proj *Project) ResolvedFlags {
	return ResolvedFlags{
		Minify:           firstBool(false, d.Overrides.Minify, item.Overrides.Minify, proj.Overrides.Minify),
		DeflateTrickery:  firstBool(false, d.Overrides.DeflateTrickery, item.Overrides.DeflateTrickery, proj.Overrides.DeflateTrickery),
		Bundle:           false,
		RequirePrefix:    firstString("", d.Overrides.RequirePrefix, item.Overrides.RequirePrefix, proj.Overrides.RequirePrefix),
		PrefixExclusions: firstStrings(d.Overrides.PrefixExclusions, item.Overrides.PrefixExclusions, proj.Overrides.PrefixExclusions),
	}
}
