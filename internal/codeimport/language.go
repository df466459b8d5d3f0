package codeimport

// languageByExtension maps file extensions to the language tags understood by
// the code highlighter.
var languageByExtension = map[string]string{
	// languages
	"js":     "javascript",
	"mjs":    "javascript",
	"cjs":    "javascript",
	"jsx":    "jsx",
	"ts":     "typescript",
	"mts":    "typescript",
	"cts":    "typescript",
	"tsx":    "tsx",
	"py":     "python",
	"pyw":    "python",
	"rb":     "ruby",
	"go":     "go",
	"rs":     "rust",
	"java":   "java",
	"kt":     "kotlin",
	"kts":    "kotlin",
	"scala":  "scala",
	"swift":  "swift",
	"cs":     "csharp",
	"fs":     "fsharp",
	"fsx":    "fsharp",
	"cpp":    "cpp",
	"cc":     "cpp",
	"cxx":    "cpp",
	"hpp":    "cpp",
	"hh":     "cpp",
	"c":      "c",
	"h":      "c",
	"m":      "objectivec",
	"dart":   "dart",
	"zig":    "zig",
	"nim":    "nim",
	"jl":     "julia",
	"groovy": "groovy",

	// web
	"html":   "html",
	"htm":    "html",
	"css":    "css",
	"scss":   "scss",
	"sass":   "sass",
	"less":   "less",
	"vue":    "vue",
	"svelte": "svelte",
	"astro":  "astro",

	// data and config
	"json":       "json",
	"jsonc":      "json",
	"yaml":       "yaml",
	"yml":        "yaml",
	"toml":       "toml",
	"xml":        "xml",
	"ini":        "ini",
	"cfg":        "ini",
	"csv":        "csv",
	"proto":      "protobuf",
	"properties": "properties",

	// shell
	"sh":   "bash",
	"bash": "bash",
	"zsh":  "bash",
	"fish": "fish",
	"ps1":  "powershell",
	"psm1": "powershell",
	"bat":  "batch",
	"cmd":  "batch",

	// misc
	"sql":        "sql",
	"graphql":    "graphql",
	"gql":        "graphql",
	"md":         "markdown",
	"markdown":   "markdown",
	"dockerfile": "dockerfile",
	"makefile":   "makefile",
	"mk":         "makefile",
	"lua":        "lua",
	"r":          "r",
	"php":        "php",
	"pl":         "perl",
	"pm":         "perl",
	"ex":         "elixir",
	"exs":        "elixir",
	"erl":        "erlang",
	"hrl":        "erlang",
	"clj":        "clojure",
	"cljs":       "clojure",
	"hs":         "haskell",
	"ml":         "ocaml",
	"mli":        "ocaml",
	"vim":        "vim",
	"tf":         "hcl",
	"hcl":        "hcl",
	"nix":        "nix",
	"diff":       "diff",
	"patch":      "diff",
}

// ExtensionToLanguage maps a file extension to a highlighter language tag.
// Unknown extensions pass through unchanged and "" maps to "text".
func ExtensionToLanguage(ext string) string {
	if lang, ok := languageByExtension[ext]; ok {
		return lang
	}
	if ext == "" {
		return "text"
	}
	return ext
}
