package notion

import "github.com/jomei/notionapi"

// convertBlock maps an SDK block onto the package's block kinds. Absent
// payload fields become empty values.
func convertBlock(b notionapi.Block) Block {
	base := Base{ID: string(b.GetID()), HasChildren: b.GetHasChildren()}

	switch v := b.(type) {
	case *notionapi.ParagraphBlock:
		return Paragraph{Base: base, Text: convertRichText(v.Paragraph.RichText)}
	case *notionapi.Heading1Block:
		return Heading{Base: base, Level: 1, Text: convertRichText(v.Heading1.RichText)}
	case *notionapi.Heading2Block:
		return Heading{Base: base, Level: 2, Text: convertRichText(v.Heading2.RichText)}
	case *notionapi.Heading3Block:
		return Heading{Base: base, Level: 3, Text: convertRichText(v.Heading3.RichText)}
	case *notionapi.BulletedListItemBlock:
		return BulletedItem{Base: base, Text: convertRichText(v.BulletedListItem.RichText)}
	case *notionapi.NumberedListItemBlock:
		return NumberedItem{Base: base, Text: convertRichText(v.NumberedListItem.RichText)}
	case *notionapi.ToDoBlock:
		return ToDo{Base: base, Text: convertRichText(v.ToDo.RichText), Checked: v.ToDo.Checked}
	case *notionapi.ToggleBlock:
		return Toggle{Base: base, Text: convertRichText(v.Toggle.RichText)}
	case *notionapi.CodeBlock:
		return Code{Base: base, Text: convertRichText(v.Code.RichText), Language: v.Code.Language}
	case *notionapi.QuoteBlock:
		return Quote{Base: base, Text: convertRichText(v.Quote.RichText)}
	case *notionapi.DividerBlock:
		return Divider{Base: base}
	case *notionapi.CalloutBlock:
		c := Callout{Base: base, Text: convertRichText(v.Callout.RichText)}
		if v.Callout.Icon != nil && v.Callout.Icon.Emoji != nil {
			c.Emoji = string(*v.Callout.Icon.Emoji)
		}
		return c
	case *notionapi.ImageBlock:
		return Image{
			Base:    base,
			Caption: convertRichText(v.Image.Caption),
			URL:     fileURL(v.Image.File, v.Image.External),
		}
	case *notionapi.BookmarkBlock:
		return Bookmark{Base: base, Caption: convertRichText(v.Bookmark.Caption), URL: v.Bookmark.URL}
	case *notionapi.ChildPageBlock:
		return ChildPage{Base: base, Title: orDefault(v.ChildPage.Title, "Untitled")}
	case *notionapi.ChildDatabaseBlock:
		return ChildDatabase{Base: base, Title: orDefault(v.ChildDatabase.Title, "Database")}
	case *notionapi.TableBlock:
		return Table{Base: base}
	default:
		return Unsupported{Base: base, Type: string(b.GetType())}
	}
}

func convertRichText(rt []notionapi.RichText) RichText {
	out := make(RichText, 0, len(rt))
	for _, t := range rt {
		s := Span{Text: t.PlainText, Href: t.Href}
		if s.Text == "" && t.Text != nil {
			s.Text = t.Text.Content
		}
		if a := t.Annotations; a != nil {
			s.Bold = a.Bold
			s.Italic = a.Italic
			s.Strikethrough = a.Strikethrough
			s.Code = a.Code
		}
		out = append(out, s)
	}
	return out
}

// fileURL prefers the uploaded file over the external link.
func fileURL(file, external *notionapi.FileObject) string {
	if file != nil && file.URL != "" {
		return file.URL
	}
	if external != nil {
		return external.URL
	}
	return ""
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
