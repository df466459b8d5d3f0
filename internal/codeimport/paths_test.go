package codeimport

import (
	"strings"
	"testing"

	"github.com/goliatone/go-codeimport/pkg/interfaces"
)

func TestJoinPath(t *testing.T) {
	cases := []struct {
		file   string
		source string
		want   string
	}{
		{file: "main.go", source: "notes/today.md", want: "notes/main.go"},
		{file: "main.go", source: "today.md", want: "main.go"},
		{file: "./src/main.go", source: "notes/today.md", want: "notes/src/main.go"},
		{file: "../src/main.go", source: "notes/daily/today.md", want: "notes/src/main.go"},
		{file: "../../../../main.go", source: "notes/today.md", want: "main.go"},
		{file: "a//b/./c.go", source: "x/y.md", want: "x/a/b/c.go"},
		{file: "/snippets/main.go", source: "notes/today.md", want: "snippets/main.go"},
		{file: "/../main.go", source: "notes/today.md", want: "../main.go"},
		{file: "main.go", source: "/today.md", want: "main.go"},
		{file: "..", source: "notes/today.md", want: ""},
	}

	for _, tc := range cases {
		if got := JoinPath(tc.file, tc.source); got != tc.want {
			t.Fatalf("JoinPath(%q, %q) = %q, want %q", tc.file, tc.source, got, tc.want)
		}
	}
}

func TestServiceResolvePathAppliesNormalizer(t *testing.T) {
	var seen []string
	normalizer := interfaces.PathNormalizerFunc(func(path string) string {
		seen = append(seen, path)
		return strings.ToUpper(path)
	})
	service := NewService(nil, nil, WithNormalizer(normalizer))

	if got := service.ResolvePath("../lib/a.go", "notes/daily/today.md"); got != "NOTES/LIB/A.GO" {
		t.Fatalf("ResolvePath() = %q", got)
	}
	if got := service.ResolvePath("/lib/a.go", "notes/today.md"); got != "LIB/A.GO" {
		t.Fatalf("ResolvePath() absolute = %q", got)
	}
	if len(seen) != 2 || seen[0] != "notes/lib/a.go" || seen[1] != "lib/a.go" {
		t.Fatalf("normalizer saw %v", seen)
	}
}
