package advisor

import (
	"regexp"
	"strings"
)

// A repairPass is one pure string transformation in the recovery pipeline.
// Passes run in declaration order, exactly once each, so the pipeline
// terminates in O(passes) regardless of input.
type repairPass struct {
	name  string
	apply func(string) (string, error)
}

var (
	escapedWSRe     = regexp.MustCompile(`\\[rnt]`)
	unicodeEscRe    = regexp.MustCompile(`\\u[0-9a-fA-F]{4}`)
	whitespaceRe    = regexp.MustCompile(`\s+`)
	trailingCommaRe = regexp.MustCompile(`,\s*([\]}])`)
)

var repairPasses = []repairPass{
	{"slice-braces", sliceBraces},
	{"strip-control", stripRunes(func(r rune) bool {
		return (r <= 0x1F) || (r >= 0x7F && r <= 0x9F)
	})},
	{"strip-zero-width", stripRunes(func(r rune) bool {
		return (r >= 0x200B && r <= 0x200D) || r == 0xFEFF
	})},
	{"strip-line-separators", stripRunes(func(r rune) bool {
		return r == 0x2028 || r == 0x2029
	})},
	{"escaped-whitespace", replaceAll(escapedWSRe, " ")},
	{"collapse-whitespace", replaceAll(whitespaceRe, " ")},
	{"unicode-escapes", replaceAll(unicodeEscRe, "")},
	{"stray-backslashes", func(s string) (string, error) {
		return strings.ReplaceAll(s, `\`, ""), nil
	}},
	{"trailing-commas", replaceAll(trailingCommaRe, "$1")},
}

// Repair runs the bounded sanitization pipeline over a completion that failed
// to parse, returning the candidate JSON text. Fails with ErrNoJSONFound when
// the input holds no {...} span at all.
func Repair(raw string) (string, error) {
	s := raw
	for _, p := range repairPasses {
		var err error
		s, err = p.apply(s)
		if err != nil {
			return "", err
		}
	}
	return strings.TrimSpace(s), nil
}

// sliceBraces keeps only the span between the first '{' and the last '}'.
func sliceBraces(s string) (string, error) {
	start := strings.IndexByte(s, '{')
	end := strings.LastIndexByte(s, '}')
	if start == -1 || end <= start {
		return "", ErrNoJSONFound
	}
	return s[start : end+1], nil
}

func stripRunes(drop func(rune) bool) func(string) (string, error) {
	return func(s string) (string, error) {
		var b strings.Builder
		b.Grow(len(s))
		for _, r := range s {
			if !drop(r) {
				b.WriteRune(r)
			}
		}
		return b.String(), nil
	}
}

func replaceAll(re *regexp.Regexp, repl string) func(string) (string, error) {
	return func(s string) (string, error) {
		return re.ReplaceAllString(s, repl), nil
	}
}
