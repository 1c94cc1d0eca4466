package docs

import (
	"fmt"
	"html/template"
	"io"
	"strings"
	"text/tabwriter"
)

// Formatter renders a DocModel to a writer.
type Formatter interface {
	Format(w io.Writer, model *DocModel) error
}

// NewFormatter returns a formatter for the given format name.
func NewFormatter(format string) (Formatter, error) {
	switch strings.ToLower(format) {
	case "markdown", "md":
		return &MarkdownFormatter{}, nil
	case "html":
		return &HTMLFormatter{}, nil
	case "asciidoc", "adoc":
		return &AsciiDocFormatter{}, nil
	default:
		return nil, fmt.Errorf("unsupported docs format: %s", format)
	}
}

// ---------------------------------------------------------------------------
// Markdown
// ---------------------------------------------------------------------------

// MarkdownFormatter renders documentation as Markdown.
type MarkdownFormatter struct{}

func (f *MarkdownFormatter) Format(w io.Writer, model *DocModel) error {
	fmt.Fprintf(w, "# %s\n\n", model.title())

	if model.Version != "" {
		fmt.Fprintf(w, "**Schema Version:** `%s`  \n", model.Version)
	}

	fmt.Fprintf(w, "**Types:** %d\n\n", len(model.Types))

	if len(model.Types) > 0 {
		fmt.Fprintf(w, "## Overview\n\n")

		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

		fmt.Fprintln(tw, "| Type\t| ID\t| Attributes\t| Relationships\t|")
		fmt.Fprintln(tw, "|------\t|----\t|------------\t|---------------\t|")

		for _, t := range model.Types {
			fmt.Fprintf(tw, "| `%s`\t| %s\t| %d\t| %d\t|\n",
				t.Type, orDash(t.IDKind), len(t.Attributes()), len(t.Relationships()))
		}

		if err := tw.Flush(); err != nil {
			return err
		}

		fmt.Fprintln(w)
	}

	for _, t := range model.Types {
		fmt.Fprintf(w, "## %s\n\n", t.Type)

		if len(t.Fields) == 0 {
			fmt.Fprintf(w, "No fields besides `id` and `type`.\n\n")
		} else {
			fmt.Fprintln(w, "| # | Field | Kind |")
			fmt.Fprintln(w, "|---|-------|------|")

			for _, field := range t.Fields {
				fmt.Fprintf(w, "| %d | `%s` | %s |\n", field.Position, field.Name, field.Kind)
			}

			fmt.Fprintln(w)
		}

		if model.IncludeExamples {
			fmt.Fprintf(w, "```yaml\n%s```\n\n", GenerateExampleYAML(t))
		}
	}

	return nil
}

// ---------------------------------------------------------------------------
// HTML
// ---------------------------------------------------------------------------

// HTMLFormatter renders documentation as a standalone HTML page.
type HTMLFormatter struct{}

var htmlTpl = template.Must(template.New("docs").Funcs(template.FuncMap{
	"example": GenerateExampleYAML,
}).Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body{font-family:sans-serif;margin:2em;line-height:1.6}
table{border-collapse:collapse;width:100%;margin-bottom:1em}
th,td{border:1px solid #ddd;padding:8px;text-align:left}
th{background:#f5f5f5}
code{background:#f0f0f0;padding:2px 4px;border-radius:3px}
pre{background:#f5f5f5;padding:1em;border-radius:4px;overflow-x:auto}
</style>
</head>
<body>
<h1>{{.Title}}</h1>
{{if .Version}}<p><strong>Schema Version:</strong> <code>{{.Version}}</code></p>{{end}}
{{range .Types}}
<h2>{{.Type}}</h2>
{{if .IDKind}}<p><strong>ID:</strong> {{.IDKind}}</p>{{end}}
{{if .Fields}}<table>
<tr><th>#</th><th>Field</th><th>Kind</th></tr>
{{range .Fields}}<tr><td>{{.Position}}</td><td><code>{{.Name}}</code></td><td>{{.Kind}}</td></tr>
{{end}}</table>{{else}}<p>No fields besides <code>id</code> and <code>type</code>.</p>{{end}}
{{if $.IncludeExamples}}<pre><code>{{example .}}</code></pre>{{end}}
{{end}}
</body>
</html>
`))

type htmlModel struct {
	*DocModel
	Title string
}

func (f *HTMLFormatter) Format(w io.Writer, model *DocModel) error {
	return htmlTpl.Execute(w, htmlModel{DocModel: model, Title: model.title()})
}

// ---------------------------------------------------------------------------
// AsciiDoc
// ---------------------------------------------------------------------------

// AsciiDocFormatter renders documentation as AsciiDoc.
type AsciiDocFormatter struct{}

func (f *AsciiDocFormatter) Format(w io.Writer, model *DocModel) error {
	fmt.Fprintf(w, "= %s\n\n", model.title())

	if model.Version != "" {
		fmt.Fprintf(w, "*Schema Version:* `%s` +\n", model.Version)
	}

	fmt.Fprintf(w, "*Types:* %d\n\n", len(model.Types))

	for _, t := range model.Types {
		fmt.Fprintf(w, "== %s\n\n", t.Type)

		if len(t.Fields) > 0 {
			fmt.Fprintln(w, "[cols=\"1,2,1\", options=\"header\"]")
			fmt.Fprintln(w, "|===")
			fmt.Fprintln(w, "| # | Field | Kind")

			for _, field := range t.Fields {
				fmt.Fprintf(w, "\n| %d\n| `%s`\n| %s\n", field.Position, field.Name, field.Kind)
			}

			fmt.Fprintln(w, "|===")
			fmt.Fprintln(w)
		}

		if model.IncludeExamples {
			fmt.Fprintf(w, "[source,yaml]\n----\n%s----\n\n", GenerateExampleYAML(t))
		}
	}

	return nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}

	return s
}
