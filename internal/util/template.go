package util

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
)

var funcs = template.FuncMap{
	"default": func(defaultVal any, val any) any {
		if val == nil || val == "" {
			return defaultVal
		}
		return val
	},
	"upper": strings.ToUpper,
	"lower": strings.ToLower,
	"trim":  strings.TrimSpace,
	"title": func(s string) string {
		if len(s) == 0 {
			return s
		}
		return strings.ToUpper(string(s[0])) + strings.ToLower(s[1:])
	},
	"join": func(sep string, items any) string {
		switch v := items.(type) {
		case []string:
			return strings.Join(v, sep)
		case []any:
			strItems := make([]string, len(v))
			for i, item := range v {
				strItems[i] = fmt.Sprintf("%v", item)
			}
			return strings.Join(strItems, sep)
		default:
			return fmt.Sprintf("%v", items)
		}
	},
}

// RenderTemplate replaces template variables using Go's text/template package.
// Output is not HTML escaped, so JSON examples in prompts survive verbatim.
func RenderTemplate(text string, data any) (string, error) {
	if !strings.Contains(text, "{{") { // fast path: no template markers
		return text, nil
	}

	tmpl, err := Parse("prompt", text)
	if err != nil {
		return "", err
	}

	return Execute(tmpl, data)
}

// Parse compiles a template with the shared helper funcs.
func Parse(name, text string) (*template.Template, error) {
	return template.New(name).Funcs(funcs).Parse(text)
}

// MustParse is like Parse but panics on error. Intended for package-level templates.
func MustParse(name, text string) *template.Template {
	return template.Must(Parse(name, text))
}

// Execute renders a compiled template.
func Execute(tmpl *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}

	return buf.String(), nil
}
