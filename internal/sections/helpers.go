package sections

import (
	"html/template"
	"strings"
)

// safeURL escapes url for an attribute, replacing anything that is not a
// site-relative path or an http(s) URL with "#".
func safeURL(url string) string {
	url = strings.TrimSpace(url)
	lower := strings.ToLower(url)
	switch {
	case url == "":
		return "#"
	case strings.HasPrefix(url, "/") && !strings.HasPrefix(url, "//"):
	case strings.HasPrefix(lower, "http://"), strings.HasPrefix(lower, "https://"):
	default:
		return "#"
	}
	return template.HTMLEscapeString(url)
}

func clamp(value, low, high int) int {
	if value < low {
		return low
	}
	if value > high {
		return high
	}
	return value
}
