package rules

import "strings"

// Path helpers operate on slash-separated strings rather than filepath so that
// link targets are byte-for-byte predictable regardless of the host platform.

// FileName returns the last slash-separated component of path.
func FileName(path string) string {
	if sep := strings.LastIndex(path, "/"); sep != -1 {
		return path[sep+1:]
	}
	return path
}

// DirName returns everything before the last slash, or "" when path has none.
func DirName(path string) string {
	if sep := strings.LastIndex(path, "/"); sep != -1 {
		return path[:sep]
	}
	return ""
}

// SplitExt splits name on its last dot. ok is false when name has no dot, in
// which case base is name itself.
func SplitExt(name string) (base, ext string, ok bool) {
	if dot := strings.LastIndex(name, "."); dot != -1 {
		return name[:dot], name[dot+1:], true
	}
	return name, "", false
}

// JoinPath joins a and b with exactly one slash, tolerating a trailing slash on a.
func JoinPath(a, b string) string {
	return strings.TrimSuffix(a, "/") + "/" + b
}

// RelativePath returns the shortest relative path leading from target back to
// source. Both arguments are split on "/" with empty segments discarded, so
// "foo/" and "foo" are equivalent. An empty result means both name the same
// directory.
//
//	RelativePath("foo/baz", "foo/smaz") == "../baz"
func RelativePath(source, target string) string {
	src := segments(source)
	dst := segments(target)

	common := 0
	for common < len(src) && common < len(dst) && src[common] == dst[common] {
		common++
	}

	parts := make([]string, 0, len(dst)-common+len(src)-common)
	for range len(dst) - common {
		parts = append(parts, "..")
	}
	parts = append(parts, src[common:]...)
	return strings.Join(parts, "/")
}

// LinkDirPrefix is RelativePath rendered as a directory prefix ready to have a
// file name appended: "./" for the same directory, otherwise a trailing slash.
func LinkDirPrefix(source, target string) string {
	rel := RelativePath(source, target)
	if rel == "" {
		return "./"
	}
	return rel + "/"
}

func segments(p string) []string {
	fields := strings.Split(p, "/")
	out := fields[:0]
	for _, f := range fields {
		if f != "" {
			out = append(out, f)
		}
	}
	return out
}
