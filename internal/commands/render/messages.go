package rendercmd

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const (
	renderDocumentMessageType  = "codeimport.render.document"
	renderDirectoryMessageType = "codeimport.render.directory"
)

// RenderDocumentCommand renders a single vault document with its imports
// resolved and writes the HTML to Output. An empty Output streams the HTML to
// the handler's default writer.
type RenderDocumentCommand struct {
	// Path is the vault-relative document path.
	Path string `json:"path"`
	// Output is the destination file for the rendered HTML.
	Output string `json:"output,omitempty"`
}

// Type implements command.Message.
func (RenderDocumentCommand) Type() string { return renderDocumentMessageType }

// Validate ensures a document path is present and that Output does not point back at it.
func (cmd RenderDocumentCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Path, validation.Required, validation.By(notBlank("codeimport.render.document.path_required", "path is required"))),
		validation.Field(&cmd.Output, validation.By(func(value any) error {
			output := strings.TrimSpace(value.(string))
			if output != "" && output == strings.TrimSpace(cmd.Path) {
				return validation.NewError("codeimport.render.document.output_overwrites_source", "output must differ from the source document")
			}
			return nil
		})),
	)
}

// RenderDirectoryCommand discovers every markdown document under Directory and
// renders them concurrently. Each document is written below OutputDir with an
// .html extension; an empty OutputDir streams the documents in order.
type RenderDirectoryCommand struct {
	// Directory selects the vault-relative directory to walk.
	Directory string `json:"directory"`
	// OutputDir receives the rendered files, mirroring the vault layout.
	OutputDir string `json:"output_dir,omitempty"`
}

// Type implements command.Message.
func (RenderDirectoryCommand) Type() string { return renderDirectoryMessageType }

// Validate ensures directory input is present before handlers execute.
func (cmd RenderDirectoryCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Directory, validation.Required, validation.By(notBlank("codeimport.render.directory.directory_required", "directory is required"))),
	)
}

func notBlank(code, message string) validation.RuleFunc {
	return func(value any) error {
		if strings.TrimSpace(value.(string)) == "" {
			return validation.NewError(code, message)
		}
		return nil
	}
}
