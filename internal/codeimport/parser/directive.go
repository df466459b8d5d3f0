// Package parser scans text for `@import "path" {options}` directives.
package parser

import (
	"regexp"
	"strconv"

	"github.com/goliatone/go-codeimport/pkg/interfaces"
)

// space matches Unicode white space and line terminators, not only the ASCII
// set covered by \s. A no-break space between tokens is common in pasted text.
const space = `[\s\v\p{Zs}\x{2028}\x{2029}\x{FEFF}]`

var (
	// directivePattern captures the quoted path and the optional options block.
	directivePattern = regexp.MustCompile(`@import` + space + `+"([^"]+)"(?:` + space + `+\{([^}]*)\})?`)
	lineBeginPattern = regexp.MustCompile(`line_begin` + space + `*=` + space + `*(-?\d+)`)
	lineEndPattern   = regexp.MustCompile(`line_end` + space + `*=` + space + `*(-?\d+)`)
)

// DirectiveParser implements interfaces.DirectiveParser. It keeps no state, so a
// single instance can be shared between goroutines.
type DirectiveParser struct{}

// NewDirectiveParser creates a parser instance.
func NewDirectiveParser() *DirectiveParser {
	return &DirectiveParser{}
}

// Parse satisfies interfaces.DirectiveParser.
func (p *DirectiveParser) Parse(text string) []interfaces.ParseResult {
	return ParseImportDirectives(text)
}

var _ interfaces.DirectiveParser = (*DirectiveParser)(nil)

// ParseImportDirectives returns every non-overlapping directive in text, left to
// right. Indices are byte offsets into text and Raw always equals
// text[StartIndex:EndIndex]. Text that does not match the grammar is ignored.
func ParseImportDirectives(text string) []interfaces.ParseResult {
	matches := directivePattern.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return nil
	}

	results := make([]interfaces.ParseResult, 0, len(matches))
	for _, loc := range matches {
		start, end := loc[0], loc[1]
		directive := interfaces.ImportDirective{
			FilePath: text[loc[2]:loc[3]],
			Raw:      text[start:end],
		}
		if loc[4] >= 0 {
			directive.LineBegin, directive.LineEnd = parseOptions(text[loc[4]:loc[5]])
		}
		results = append(results, interfaces.ParseResult{
			Directive:  directive,
			StartIndex: start,
			EndIndex:   end,
		})
	}
	return results
}

// parseOptions reads line_begin and line_end from the options block. Keys whose
// value is missing or does not fit an int are reported as absent.
func parseOptions(block string) (lineBegin, lineEnd *int) {
	return optionValue(lineBeginPattern, block), optionValue(lineEndPattern, block)
}

func optionValue(pattern *regexp.Regexp, block string) *int {
	match := pattern.FindStringSubmatch(block)
	if len(match) < 2 {
		return nil
	}
	value, err := strconv.Atoi(match[1])
	if err != nil {
		return nil
	}
	return &value
}
