// Package document frames synced content as vault Markdown files: a YAML
// frontmatter header, a title heading, the body, and a sync footer.
package document

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// TimeLayout is the synced_at format: second precision, no zone.
const TimeLayout = "2006-01-02T15:04:05"

// FormatTime renders t's wall clock in TimeLayout.
func FormatTime(t time.Time) string {
	return t.Format(TimeLayout)
}

// Header is the metadata block written at the top of every synced file.
type Header struct {
	Source    string
	SourceURL string
	SourceID  string
	Title     string
	SyncedAt  time.Time
	Tags      []string
}

// Document is one Markdown file ready to be written to the vault.
type Document struct {
	Header Header
	// SourceLabel is the link text used in the footer, e.g. "Notion".
	SourceLabel string
	Body        string
}

// Markdown renders the complete file content.
func (d Document) Markdown() ([]byte, error) {
	header, err := d.Header.encode()
	if err != nil {
		return nil, err
	}
	synced := FormatTime(d.Header.SyncedAt)

	var buf bytes.Buffer
	buf.WriteString("---\n")
	buf.Write(header)
	buf.WriteString("---\n\n")
	fmt.Fprintf(&buf, "# %s\n\n", d.Header.Title)
	buf.WriteString(d.Body)
	buf.WriteString("\n\n---\n")
	fmt.Fprintf(&buf, "_Synced: %s_\n", synced)
	fmt.Fprintf(&buf, "_Source: [%s](%s)_\n", d.SourceLabel, d.Header.SourceURL)
	return buf.Bytes(), nil
}

// encode emits the header as YAML. Node styles pin the layout: source_id and
// title are always double-quoted, synced_at stays a plain scalar.
func (h Header) encode() ([]byte, error) {
	root := &yaml.Node{Kind: yaml.MappingNode}
	add := func(key string, value *yaml.Node) {
		root.Content = append(root.Content, scalar(key, 0), value)
	}
	add("source", scalar(h.Source, 0))
	add("source_url", scalar(h.SourceURL, 0))
	add("source_id", scalar(h.SourceID, yaml.DoubleQuotedStyle))
	add("title", scalar(h.Title, yaml.DoubleQuotedStyle))
	add("synced_at", scalar(FormatTime(h.SyncedAt), 0))

	tags := &yaml.Node{Kind: yaml.SequenceNode}
	for _, t := range h.Tags {
		tags.Content = append(tags.Content, scalar(t, 0))
	}
	add("tags", tags)

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(root); err != nil {
		return nil, fmt.Errorf("document: encode header: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("document: encode header: %w", err)
	}
	return buf.Bytes(), nil
}

func scalar(value string, style yaml.Style) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: value, Style: style}
}

const maxFilenameRunes = 100

// Sanitize strips characters that are illegal in file names on common file
// systems, trims surrounding spaces and truncates to 100 characters.
func Sanitize(name string) string {
	name = strings.Map(func(r rune) rune {
		if strings.ContainsRune(`<>:"/\|?*`, r) {
			return -1
		}
		return r
	}, name)
	name = strings.TrimSpace(name)
	if runes := []rune(name); len(runes) > maxFilenameRunes {
		name = string(runes[:maxFilenameRunes])
	}
	return name
}
