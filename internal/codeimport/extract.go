package codeimport

import (
	"strings"
)

// ExtractLines returns the lines in [lineBegin, lineEnd) of content, rejoined
// with "\n". Lines are the segments produced by splitting on "\n", so a
// trailing newline yields a final empty line. A nil lineBegin starts at 0, a
// nil lineEnd runs to the last line and a negative lineEnd counts back from the
// end (-1 drops the last line). Bounds are clamped to the file; an empty range
// yields "".
func ExtractLines(content string, lineBegin, lineEnd *int) string {
	if lineBegin == nil && lineEnd == nil {
		return content
	}

	lines := strings.Split(content, "\n")
	total := len(lines)

	start := 0
	if lineBegin != nil {
		start = max(*lineBegin, 0)
	}

	end := total
	if lineEnd != nil {
		if *lineEnd < 0 {
			end = total + *lineEnd
		} else {
			end = *lineEnd
		}
	}

	end = min(end, total)
	start = max(start, 0)
	if start >= end {
		return ""
	}
	return strings.Join(lines[start:end], "\n")
}

// FileExtension returns the lower-cased text after the last "." of the final
// path segment, or "" when there is none or the dot ends the path.
func FileExtension(path string) string {
	name := path
	if idx := strings.LastIndex(name, "/"); idx >= 0 {
		name = name[idx+1:]
	}
	dot := strings.LastIndex(name, ".")
	if dot == -1 || dot == len(name)-1 {
		return ""
	}
	return strings.ToLower(name[dot+1:])
}
