package markdown

import (
	"bytes"

	"github.com/adrg/frontmatter"
	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-codeimport/internal/validation"
	"github.com/goliatone/go-codeimport/pkg/interfaces"
)

const frontMatterInvalidCode = "MARKDOWN_FRONTMATTER_INVALID"

// FrontMatter is the metadata block at the top of a document.
type FrontMatter struct {
	Title string
	Tags  []string
	// CodeImport overrides the configured render options for this document.
	CodeImport *RenderOverrides
	Raw        map[string]any
}

// RenderOverrides holds per-document render option overrides. Nil fields keep
// the configured value.
type RenderOverrides struct {
	ShowFileName *bool `yaml:"show_file_name"`
	WrapCode     *bool `yaml:"wrap_code"`
}

// Apply returns base with the overrides applied.
func (o *RenderOverrides) Apply(base interfaces.RenderOptions) interfaces.RenderOptions {
	if o == nil {
		return base
	}
	if o.ShowFileName != nil {
		base.ShowFileName = *o.ShowFileName
	}
	if o.WrapCode != nil {
		base.WrapCode = *o.WrapCode
	}
	return base
}

type frontMatterEnvelope struct {
	Title      string           `yaml:"title"`
	Tags       []string         `yaml:"tags"`
	CodeImport *RenderOverrides `yaml:"codeimport"`
}

var frontMatterSchema = validation.MustCompile(map[string]any{
	"type": "object",
	"properties": map[string]any{
		"title": map[string]any{"type": "string"},
		"tags": map[string]any{
			"type":  "array",
			"items": map[string]any{"type": "string"},
		},
		"codeimport": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"show_file_name": map[string]any{"type": "boolean"},
				"wrap_code":      map[string]any{"type": "boolean"},
			},
			"additionalProperties": false,
		},
	},
})

// ParseFrontMatter extracts metadata and the Markdown body from source. A
// document without front matter yields an empty FrontMatter and the whole
// source as body.
func ParseFrontMatter(source []byte) (FrontMatter, []byte, error) {
	var raw map[string]any
	body, err := frontmatter.Parse(bytes.NewReader(source), &raw)
	if err != nil {
		return FrontMatter{}, nil, frontMatterError(err, "front matter could not be parsed")
	}
	if len(raw) == 0 {
		return FrontMatter{}, body, nil
	}

	if err := frontMatterSchema.Validate(raw); err != nil {
		return FrontMatter{}, nil, frontMatterError(err, "front matter failed validation")
	}

	var meta frontMatterEnvelope
	if _, err := frontmatter.Parse(bytes.NewReader(source), &meta); err != nil {
		return FrontMatter{}, nil, frontMatterError(err, "front matter could not be decoded")
	}

	return FrontMatter{
		Title:      meta.Title,
		Tags:       append([]string(nil), meta.Tags...),
		CodeImport: meta.CodeImport,
		Raw:        raw,
	}, body, nil
}

func frontMatterError(err error, message string) error {
	return goerrors.Wrap(err, goerrors.CategoryValidation, message).
		WithTextCode(frontMatterInvalidCode)
}
