package digest

import "strings"

// SplitName splits a base name into stem and extension at the final dot.
//
// A dotfile whose only dot is the leading one (".gitignore") is all stem.
// A name with no dot has no extension, and "foo." has an empty extension.
func SplitName(name string) (stem, ext string) {
	idx := strings.LastIndexByte(name, '.')
	if idx <= 0 {
		return name, ""
	}
	return name[:idx], name[idx+1:]
}

// FileName inserts the digest before the final extension of name.
func FileName(name, digest string) string {
	stem, ext := SplitName(name)
	if ext == "" {
		return stem + "." + digest
	}
	return stem + "." + digest + "." + ext
}
