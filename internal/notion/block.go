package notion

// Base holds the fields every block kind shares.
type Base struct {
	ID          string
	HasChildren bool
}

func (b Base) base() Base { return b }

// Block is one content block of a page. The set of kinds is closed: every
// implementation lives in this file.
type Block interface {
	base() Base
}

type (
	Paragraph struct {
		Base
		Text RichText
	}

	// Heading is a heading block; Level is 1 for the top level.
	Heading struct {
		Base
		Level int
		Text  RichText
	}

	BulletedItem struct {
		Base
		Text RichText
	}

	NumberedItem struct {
		Base
		Text RichText
	}

	ToDo struct {
		Base
		Text    RichText
		Checked bool
	}

	Toggle struct {
		Base
		Text RichText
	}

	Code struct {
		Base
		Text     RichText
		Language string
	}

	Quote struct {
		Base
		Text RichText
	}

	Divider struct {
		Base
	}

	Callout struct {
		Base
		Text  RichText
		Emoji string
	}

	// Image points at either an uploaded file or an external URL.
	Image struct {
		Base
		Caption RichText
		URL     string
	}

	Bookmark struct {
		Base
		Caption RichText
		URL     string
	}

	// ChildPage references a nested page; its ID is the page ID.
	ChildPage struct {
		Base
		Title string
	}

	ChildDatabase struct {
		Base
		Title string
	}

	Table struct {
		Base
	}

	// Unsupported is any block kind this package does not render.
	Unsupported struct {
		Base
		Type string
	}
)

// IDOf returns the block's identifier.
func IDOf(b Block) string {
	return b.base().ID
}
