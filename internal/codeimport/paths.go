package codeimport

import "strings"

// JoinPath resolves filePath against the document at sourcePath without
// consulting the filesystem. A leading "/" makes filePath relative to the
// vault root. Otherwise it is joined to the directory of sourcePath and
// normalised segment by segment: empty and "." segments are dropped and ".."
// pops the previous segment. A ".." with nothing left to pop is ignored, so
// paths can never climb above the vault root.
func JoinPath(filePath, sourcePath string) string {
	if strings.HasPrefix(filePath, "/") {
		return filePath[1:]
	}

	combined := filePath
	if idx := strings.LastIndex(sourcePath, "/"); idx > 0 {
		combined = sourcePath[:idx] + "/" + filePath
	}

	parts := strings.Split(combined, "/")
	resolved := make([]string, 0, len(parts))
	for _, part := range parts {
		switch part {
		case "", ".":
			continue
		case "..":
			if len(resolved) > 0 {
				resolved = resolved[:len(resolved)-1]
			}
		default:
			resolved = append(resolved, part)
		}
	}
	return strings.Join(resolved, "/")
}
