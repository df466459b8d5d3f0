package markdown

import (
	"context"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
)

// LoaderConfig configures how Markdown documents are discovered in a vault.
type LoaderConfig struct {
	// Pattern limits discovered files to those matching the supplied glob (defaults to "*.md").
	Pattern string
	// Recursive controls whether sub-directories are traversed.
	Recursive bool
}

// Loader lists Markdown documents within a filesystem.
type Loader struct {
	fs        fs.FS
	pattern   string
	recursive bool
}

// NewLoader constructs a Loader using the provided filesystem and configuration.
func NewLoader(filesystem fs.FS, cfg LoaderConfig) *Loader {
	pattern := cfg.Pattern
	if strings.TrimSpace(pattern) == "" {
		pattern = "*.md"
	}

	return &Loader{
		fs:        filesystem,
		pattern:   pattern,
		recursive: cfg.Recursive,
	}
}

// Discover returns the slash-separated paths of documents under dir, sorted.
func (l *Loader) Discover(ctx context.Context, dir string) ([]string, error) {
	ctx = ensureContext(ctx)
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	root := path.Clean(strings.Trim(dir, "/"))
	if root == "" {
		root = "."
	}

	var paths []string

	walkErr := fs.WalkDir(l.fs, root, func(current string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}

		if d.IsDir() {
			if !l.shouldRecurse(root, current) {
				return fs.SkipDir
			}
			return nil
		}

		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		if l.matchesPattern(current) {
			paths = append(paths, current)
		}
		return nil
	})

	if walkErr != nil {
		return nil, fmt.Errorf("markdown loader walk %s: %w", root, walkErr)
	}

	sort.Strings(paths)
	return paths, nil
}

func (l *Loader) shouldRecurse(root, current string) bool {
	if l.recursive {
		return true
	}
	// If recursion is disabled, only walk the root directory.
	return path.Clean(root) == path.Clean(current)
}

func (l *Loader) matchesPattern(current string) bool {
	pattern := l.pattern
	if strings.Contains(pattern, "**") {
		// Basic support for ** by stripping repeated separators.
		pattern = strings.ReplaceAll(pattern, "**/", "")
	}
	target := current
	if !strings.Contains(pattern, "/") {
		target = path.Base(current)
	}
	match, err := path.Match(pattern, target)
	if err != nil {
		return false
	}
	return match
}

// DocumentLister enumerates every document path held by a vault.
type DocumentLister interface {
	List(ctx context.Context) ([]string, error)
}

// ListLoader discovers documents in vaults that are not backed by a filesystem,
// applying the same pattern and recursion rules as Loader.
type ListLoader struct {
	lister  DocumentLister
	matcher *Loader
}

// NewListLoader constructs a ListLoader over lister.
func NewListLoader(lister DocumentLister, cfg LoaderConfig) *ListLoader {
	return &ListLoader{
		lister:  lister,
		matcher: NewLoader(nil, cfg),
	}
}

// Discover returns the sorted document paths under dir.
func (l *ListLoader) Discover(ctx context.Context, dir string) ([]string, error) {
	all, err := l.lister.List(ensureContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("markdown loader list: %w", err)
	}

	root := path.Clean(strings.Trim(dir, "/"))
	if root == "" {
		root = "."
	}

	var paths []string
	for _, current := range all {
		if root != "." && !strings.HasPrefix(current, root+"/") {
			continue
		}
		if !l.matcher.shouldRecurse(root, path.Dir(current)) {
			continue
		}
		if l.matcher.matchesPattern(current) {
			paths = append(paths, current)
		}
	}

	sort.Strings(paths)
	return paths, nil
}
