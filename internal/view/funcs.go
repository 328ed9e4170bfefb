// internal/view/funcs.go
//
// Template helpers available to every page:
//
//	{{ dict "k" 1 "k2" "v" }}   build a map inline
//	{{ .Snippet | safe }}       emit trusted markup unescaped
//	{{ year }}                  current year for footers
package view

import (
	"html/template"
	"time"
)

// FuncMap returns the helpers injected into every parsed set.
func FuncMap() template.FuncMap {
	return template.FuncMap{
		"dict": dict,
		"safe": safe,
		"year": func() int { return time.Now().Year() },
	}
}

// dict builds a map in templates: {{ dict "k" 1 "k2" "v" }}.
func dict(kv ...any) map[string]any {
	m := make(map[string]any, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		key, _ := kv[i].(string)
		m[key] = kv[i+1]
	}
	return m
}

// safe marks s as trusted HTML.  Use only for markup the site itself
// produced.
func safe(s string) template.HTML { return template.HTML(s) }
