package notion

import "strings"

// Span is one run of inline text with its formatting.
type Span struct {
	Text          string
	Bold          bool
	Italic        bool
	Strikethrough bool
	Code          bool
	Href          string
}

// RichText is an ordered sequence of spans.
type RichText []Span

// Markdown renders the spans in order. Each span is wrapped bold, then italic,
// then strikethrough, then code; a link wraps the styled text last.
// Markdown syntax inside Text is passed through unescaped.
func (rt RichText) Markdown() string {
	var b strings.Builder
	for _, s := range rt {
		b.WriteString(s.Markdown())
	}
	return b.String()
}

// Markdown renders a single span.
func (s Span) Markdown() string {
	text := s.Text
	if s.Bold {
		text = "**" + text + "**"
	}
	if s.Italic {
		text = "*" + text + "*"
	}
	if s.Strikethrough {
		text = "~~" + text + "~~"
	}
	if s.Code {
		text = "`" + text + "`"
	}
	if s.Href != "" {
		text = "[" + text + "](" + s.Href + ")"
	}
	return text
}

// Plain concatenates the unformatted text of every span.
func (rt RichText) Plain() string {
	var b strings.Builder
	for _, s := range rt {
		b.WriteString(s.Text)
	}
	return b.String()
}
