package render

import (
	"regexp"
	"strings"
)

const emphasisMarker = "**"

var numberedItemPattern = regexp.MustCompile(`^[0-9]+\.\s`)

// Classify converts a report body into blocks, one primary block per input line in
// input order. Every level 1 heading is followed by a heading underline block.
func Classify(body string) []Block {
	lines := strings.Split(body, "\n")
	blocks := make([]Block, 0, len(lines))
	for _, line := range lines {
		blocks = append(blocks, ClassifyLine(line))
	}
	return Decorate(blocks)
}

// ClassifyLine classifies a single line. The first matching rule wins.
func ClassifyLine(line string) Block {
	trimmed := strings.TrimSpace(line)

	switch {
	case trimmed == "":
		return Block{Kind: BlockBlankLine}
	case strings.HasPrefix(trimmed, "# "):
		return Block{Kind: BlockHeading, Level: 1, Text: trimmed[2:]}
	case strings.HasPrefix(trimmed, "## "):
		return Block{Kind: BlockHeading, Level: 2, Text: trimmed[3:]}
	case strings.HasPrefix(trimmed, "### "):
		return Block{Kind: BlockHeading, Level: 3, Text: trimmed[4:]}
	case strings.HasPrefix(trimmed, "- "), strings.HasPrefix(trimmed, "* "):
		return Block{Kind: BlockBullet, Spans: SplitEmphasis(trimmed[2:])}
	case numberedItemPattern.MatchString(trimmed):
		// Numbered items keep their markers verbatim, unlike bullets.
		return Block{Kind: BlockNumbered, Text: trimmed}
	case trimmed == "---", trimmed == "***":
		return Block{Kind: BlockRule}
	case strings.Contains(trimmed, emphasisMarker):
		return Block{Kind: BlockParagraph, Spans: SplitEmphasis(trimmed)}
	default:
		return Block{Kind: BlockParagraph, Spans: []Span{{Text: trimmed}}}
	}
}

// Decorate inserts a heading underline after each level 1 heading
func Decorate(blocks []Block) []Block {
	out := make([]Block, 0, len(blocks))
	for _, b := range blocks {
		out = append(out, b)
		if b.Kind == BlockHeading && b.Level == 1 {
			out = append(out, Block{Kind: BlockHeadingUnderline})
		}
	}
	return out
}

// SplitEmphasis splits text on "**" markers. Pieces at odd positions of the raw split
// are emphasized; empty pieces are dropped. Unbalanced markers are not closed.
func SplitEmphasis(text string) []Span {
	pieces := strings.Split(text, emphasisMarker)
	spans := make([]Span, 0, len(pieces))
	for i, piece := range pieces {
		if piece == "" {
			continue
		}
		spans = append(spans, Span{Text: piece, Emphasized: i%2 == 1})
	}
	return spans
}
