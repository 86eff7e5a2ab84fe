package advisor

import "regexp"

var placeholderRe = regexp.MustCompile(`\{([a-zA-Z][a-zA-Z0-9_]*)\}`)

// jsonSuffix is appended to every JSON-shaped feature's compiled prompt.
// Constant across features.
const jsonSuffix = "\n\nIMPORTANT: Respond ONLY with a single valid JSON object, no text before or after. Use double quotes for all keys and strings. Do not use accents or special characters in JSON keys."

// Compile substitutes every {key} occurrence in template with the bundle
// value, or the empty string when the key is absent. Substitution is a
// single pass over the template: values are inserted literally and never
// re-expanded, so a value containing {...} cannot trigger further
// substitution. Deterministic by construction.
func Compile(template string, bundle ContextBundle) string {
	return placeholderRe.ReplaceAllStringFunc(template, func(m string) string {
		return bundle[m[1:len(m)-1]]
	})
}

// CompileForFeature compiles the template and, for JSON-shaped features,
// appends the fixed JSON instruction suffix.
func CompileForFeature(f Feature, template string, bundle ContextBundle) string {
	compiled := Compile(template, bundle)
	if f.JSONShaped {
		compiled += jsonSuffix
	}
	return compiled
}
