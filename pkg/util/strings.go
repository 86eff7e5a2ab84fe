package util

import (
	"html"
	"regexp"
	"strconv"
	"strings"
)

// ParseIntDefault parses string to int or returns default if empty/invalid.
func ParseIntDefault(s string, def int) int {
    if s == "" {
        return def
    }
    v, err := strconv.Atoi(s)
    if err != nil {
        return def
    }
    return v
}

var htmlTagRe = regexp.MustCompile(`<[^>]*>`)

// StripHTML removes markup tags and unescapes entities.
func StripHTML(s string) string {
	return strings.TrimSpace(html.UnescapeString(htmlTagRe.ReplaceAllString(s, "")))
}

// StripCDATA unwraps a CDATA section if present.
func StripCDATA(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "<![CDATA[") && strings.HasSuffix(s, "]]>") {
		return strings.TrimSpace(s[9 : len(s)-3])
	}
	return s
}
