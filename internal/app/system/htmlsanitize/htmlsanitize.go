// Package htmlsanitize cleans user-authored HTML (document bodies, training
// descriptions) before it is stored or rendered.
package htmlsanitize

import (
	"html/template"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var policy = buildPolicy()

func buildPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()

	// Rich-text editors emit these beyond the UGC defaults.
	p.AllowElements("u", "s", "sub", "sup", "mark")
	p.AllowAttrs("class").Globally()
	p.AllowAttrs("colspan", "rowspan").OnElements("td", "th")
	p.AllowAttrs("style").OnElements("table", "thead", "tbody", "tr", "td", "th")
	p.AllowStyles("text-align", "width", "border", "background-color").Globally()

	return p
}

// Sanitize strips unsafe markup from an HTML fragment.
func Sanitize(html string) string {
	if html == "" {
		return ""
	}
	return policy.Sanitize(html)
}

// SanitizeToHTML sanitizes and returns the result as template.HTML so it can
// be rendered without re-escaping.
func SanitizeToHTML(html string) template.HTML {
	return template.HTML(Sanitize(html))
}

// IsPlainText reports whether the string looks like plain text rather than
// markup. A bare "<" or ">" (e.g. "5 < 10") still counts as plain text.
func IsPlainText(s string) bool {
	return !(strings.Contains(s, "<") && strings.Contains(s, ">"))
}

// PlainTextToHTML escapes plain text and wraps it in a paragraph, converting
// newlines to <br> so stored plain text renders with its line breaks.
func PlainTextToHTML(s string) string {
	if s == "" {
		return ""
	}
	escaped := template.HTMLEscapeString(s)
	escaped = strings.ReplaceAll(escaped, "\n", "<br>")
	return "<p>" + escaped + "</p>"
}

// PrepareForDisplay renders stored content for display: plain text is escaped
// and wrapped, HTML is sanitized.
func PrepareForDisplay(s string) template.HTML {
	if s == "" {
		return ""
	}
	if IsPlainText(s) {
		return template.HTML(PlainTextToHTML(s))
	}
	return SanitizeToHTML(s)
}
