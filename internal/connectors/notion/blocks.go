package notion

import (
	"strings"

	"github.com/jomei/notionapi"
)

// pageTitle returns the plain text of the page's title property.
func pageTitle(page *notionapi.Page) string {
	for _, prop := range page.Properties {
		if title, ok := prop.(*notionapi.TitleProperty); ok {
			return plainText(title.Title)
		}
	}
	return ""
}

// blockPlainText flattens the rich text of text-bearing blocks.
// Other block types yield "".
func blockPlainText(block notionapi.Block) string {
	switch b := block.(type) {
	case *notionapi.ParagraphBlock:
		return plainText(b.Paragraph.RichText)
	case *notionapi.Heading1Block:
		return plainText(b.Heading1.RichText)
	case *notionapi.Heading2Block:
		return plainText(b.Heading2.RichText)
	case *notionapi.Heading3Block:
		return plainText(b.Heading3.RichText)
	case *notionapi.BulletedListItemBlock:
		return prefixed("- ", b.BulletedListItem.RichText)
	case *notionapi.NumberedListItemBlock:
		return prefixed("- ", b.NumberedListItem.RichText)
	case *notionapi.QuoteBlock:
		return plainText(b.Quote.RichText)
	case *notionapi.CodeBlock:
		return plainText(b.Code.RichText)
	case *notionapi.ToDoBlock:
		if b.ToDo.Checked {
			return prefixed("[x] ", b.ToDo.RichText)
		}
		return prefixed("[ ] ", b.ToDo.RichText)
	case *notionapi.CalloutBlock:
		return plainText(b.Callout.RichText)
	case *notionapi.ToggleBlock:
		return plainText(b.Toggle.RichText)
	}
	return ""
}

func plainText(parts []notionapi.RichText) string {
	var sb strings.Builder
	for _, p := range parts {
		sb.WriteString(p.PlainText)
	}
	return strings.TrimSpace(sb.String())
}

func prefixed(prefix string, parts []notionapi.RichText) string {
	if text := plainText(parts); text != "" {
		return prefix + text
	}
	return ""
}
