// Package render turns the Markdown subset produced by report generation into an
// ordered sequence of content blocks and lays those blocks out as a PDF.
package render

// BlockKind identifies the variant carried by a Block
type BlockKind int

const (
	BlockBlankLine BlockKind = iota
	BlockHeading
	BlockHeadingUnderline
	BlockBullet
	BlockNumbered
	BlockRule
	BlockParagraph
)

// String returns a short name for the block kind
func (k BlockKind) String() string {
	switch k {
	case BlockBlankLine:
		return "blank"
	case BlockHeading:
		return "heading"
	case BlockHeadingUnderline:
		return "heading_underline"
	case BlockBullet:
		return "bullet"
	case BlockNumbered:
		return "numbered"
	case BlockRule:
		return "rule"
	case BlockParagraph:
		return "paragraph"
	default:
		return "unknown"
	}
}

// Span is a run of text carrying a single emphasis flag
type Span struct {
	Text       string `json:"text"`
	Emphasized bool   `json:"emphasized"`
}

// Block is one renderable unit of a report body.
//
// Level is set for headings only. Text is set for headings and numbered items.
// Spans is set for bullets and paragraphs.
type Block struct {
	Kind  BlockKind `json:"kind"`
	Level int       `json:"level,omitempty"`
	Text  string    `json:"text,omitempty"`
	Spans []Span    `json:"spans,omitempty"`
}

// Primary reports whether the block corresponds to an input line.
// Heading underlines are decoration and do not.
func (b Block) Primary() bool {
	return b.Kind != BlockHeadingUnderline
}

// PlainText returns the block text with emphasis markers removed
func (b Block) PlainText() string {
	if len(b.Spans) == 0 {
		return b.Text
	}
	var text string
	for _, s := range b.Spans {
		text += s.Text
	}
	return text
}

// ReportDocument is a finished report handed to the assembler
type ReportDocument struct {
	Title             string
	TransparencyScore float64
	Summary           string
	Body              string
}
