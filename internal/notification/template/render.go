package template

import "regexp"

var tokenRe = regexp.MustCompile(`\{\{([A-Za-z0-9_]+)\}\}`)

// Render substitutes every {{key}} occurrence with data[key]. Tokens whose
// key is absent from data are left verbatim, so a partially filled template
// stays inspectable instead of silently losing fields.
func Render(tmpl string, data map[string]string) string {
	if len(data) == 0 {
		return tmpl
	}
	return tokenRe.ReplaceAllStringFunc(tmpl, func(match string) string {
		key := match[2 : len(match)-2]
		if v, ok := data[key]; ok {
			return v
		}
		return match
	})
}
