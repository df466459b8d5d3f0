// Package markdown renders vault documents with goldmark and resolves
// `@import` directives found in their text. It also post-processes HTML
// produced by other engines.
package markdown
