package renderer

import (
	"embed"
	"fmt"
	"io/fs"
	"strings"
	"text/template"
)

//go:embed *.md
var templates embed.FS

// RenderFile renders the File struct to a markdown string.
func RenderFile(f *File) string {
	return render("file.md", f, "file_title.md", "file_batches.md", "file_mismatches.md")
}

// render executes the main template file with data. Every file, partials
// included, is available to {{template}} under its name without extension.
// Errors are returned as the rendered text.
func render(main string, data any, partials ...string) string {
	tmpl := template.New("")
	for _, file := range append([]string{main}, partials...) {
		content, err := fs.ReadFile(templates, file)
		if err != nil {
			return fmt.Sprintf("error reading template %q: %v", file, err)
		}
		if _, err := tmpl.New(strings.TrimSuffix(file, ".md")).Parse(string(content)); err != nil {
			return fmt.Sprintf("error parsing template %q: %v", file, err)
		}
	}

	var b strings.Builder
	if err := tmpl.ExecuteTemplate(&b, strings.TrimSuffix(main, ".md"), data); err != nil {
		return fmt.Sprintf("error executing template %q: %v", main, err)
	}
	return b.String()
}
