package render

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
)

const (
	defaultProductName = "Product Transparency Report Generator"

	defaultDisclaimer = "This report has been generated using artificial intelligence based on " +
		"information provided by the product manufacturer. While every effort has been made to " +
		"ensure accuracy, this report should be used for informational purposes only. We recommend " +
		"verifying critical information through independent sources and consulting with qualified " +
		"professionals before making decisions based on this report. The transparency score is a " +
		"calculated metric and does not constitute a certification or endorsement."

	fontFamily = "DejaVu"
	pageMargin = 40.0
	bodySize   = 10.0
	bodyLineH  = 15.0
	listIndent = 15.0
	h1RuleLen  = 100.0
)

type rgb struct{ r, g, b int }

var (
	colorInk       = rgb{0x1a, 0x1a, 0x1a}
	colorText      = rgb{0x33, 0x33, 0x33}
	colorSubtle    = rgb{0x55, 0x55, 0x55}
	colorMuted     = rgb{0x66, 0x66, 0x66}
	colorFaint     = rgb{0x99, 0x99, 0x99}
	colorAccent    = rgb{0x00, 0x7b, 0xff}
	colorRule      = rgb{0xdd, 0xdd, 0xdd}
	colorCard      = rgb{0xf8, 0xf9, 0xfa}
	colorSummary   = rgb{0xff, 0xf9, 0xe6}
	colorWarnFill  = rgb{0xff, 0xf3, 0xcd}
	colorWarnText  = rgb{0x85, 0x64, 0x04}
	colorScoreHigh = rgb{0x28, 0xa7, 0x45}
	colorScoreMid  = rgb{0xff, 0xc1, 0x07}
	colorScoreLow  = rgb{0xdc, 0x35, 0x45}
)

// Assembler lays out a report and its blocks as a paginated PDF
type Assembler struct {
	now         func() time.Time
	productName string
	disclaimer  string
	compress    bool
}

// AssemblerOption is a functional option for Assembler
type AssemblerOption func(*Assembler)

// WithClock sets the clock used for the report date and copyright year
func WithClock(now func() time.Time) AssemblerOption {
	return func(a *Assembler) {
		a.now = now
	}
}

// WithProductName sets the product name printed in the footer
func WithProductName(name string) AssemblerOption {
	return func(a *Assembler) {
		a.productName = name
	}
}

// WithDisclaimer replaces the boilerplate disclaimer text
func WithDisclaimer(text string) AssemblerOption {
	return func(a *Assembler) {
		a.disclaimer = text
	}
}

// WithCompression toggles compression of page content streams
func WithCompression(compress bool) AssemblerOption {
	return func(a *Assembler) {
		a.compress = compress
	}
}

// NewAssembler creates a new assembler
func NewAssembler(opts ...AssemblerOption) *Assembler {
	a := &Assembler{
		now:         time.Now,
		productName: defaultProductName,
		disclaimer:  defaultDisclaimer,
		compress:    true,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Render classifies the document body and writes the assembled PDF to w
func (a *Assembler) Render(w io.Writer, doc ReportDocument) error {
	return a.Assemble(w, doc, Classify(doc.Body))
}

// Assemble writes a PDF for doc to w, laying blocks out in the order given
func (a *Assembler) Assemble(w io.Writer, doc ReportDocument, blocks []Block) error {
	now := a.now()

	pdf := fpdf.New("P", "pt", "A4", "")
	pdf.SetCompression(a.compress)
	if err := registerFonts(pdf); err != nil {
		return err
	}
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(true, pageMargin+10)
	pdf.SetTitle(printable(doc.Title), true)
	pdf.SetCreator(a.productName, true)
	pdf.AliasNbPages("")

	l := &layout{pdf: pdf}
	pageW, _ := pdf.GetPageSize()
	l.width = pageW - 2*pageMargin

	pdf.SetFooterFunc(func() {
		pdf.SetY(-pageMargin + 5)
		l.font("", 8, colorFaint)
		pdf.CellFormat(l.width/2, 10, printable(fmt.Sprintf("© %d %s", now.Year(), a.productName)), "", 0, "L", false, 0, "")
		pdf.CellFormat(l.width/2, 10, fmt.Sprintf("Page %d of {nb}", pdf.PageNo()), "", 0, "R", false, 0, "")
	})

	pdf.AddPage()

	l.header(doc.Title, now)
	l.hline(l.width, 2, colorAccent)
	pdf.Ln(20)
	l.scoreCard(doc.TransparencyScore)
	l.box("EXECUTIVE SUMMARY", 13, colorInk, doc.Summary, bodySize, 16, colorText, colorSummary)
	pdf.Ln(25)

	pdf.Ln(10)
	l.font("BU", 14, colorInk)
	pdf.CellFormat(l.width, 18, "DETAILED ANALYSIS", "", 1, "L", false, 0, "")
	pdf.Ln(15)

	for _, b := range blocks {
		l.block(b)
	}

	pdf.Ln(30)
	l.hline(l.width, 1, colorRule)
	pdf.Ln(15)
	l.box("AI-GENERATED REPORT DISCLAIMER", 10, colorWarnText, a.disclaimer, 8, 11, colorWarnText, colorWarnFill)
	pdf.Ln(20)

	l.font("", 9, colorFaint)
	pdf.CellFormat(l.width, 12, printable("Generated by "+a.productName), "", 1, "L", false, 0, "")

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to write pdf: %w", err)
	}
	return nil
}

type layout struct {
	pdf   *fpdf.Fpdf
	width float64
}

func (l *layout) font(style string, size float64, c rgb) {
	l.pdf.SetFont(fontFamily, style, size)
	l.pdf.SetTextColor(c.r, c.g, c.b)
}

// hline draws a horizontal line of length w at the current position
func (l *layout) hline(w, thickness float64, c rgb) {
	x, y := l.pdf.GetX(), l.pdf.GetY()
	l.pdf.SetDrawColor(c.r, c.g, c.b)
	l.pdf.SetLineWidth(thickness)
	l.pdf.Line(pageMargin, y, pageMargin+w, y)
	l.pdf.SetXY(x, y+thickness)
}

func (l *layout) header(title string, now time.Time) {
	y := l.pdf.GetY()

	l.font("", 10, colorMuted)
	l.pdf.CellFormat(l.width, 12, now.Format("January 2, 2006"), "", 0, "R", false, 0, "")

	l.pdf.SetXY(pageMargin, y)
	l.font("B", 22, colorInk)
	l.pdf.MultiCell(l.width-140, 26, printable(title), "", "L", false)
	l.pdf.Ln(5)

	l.font("I", 11, colorMuted)
	l.pdf.CellFormat(l.width, 14, "Comprehensive Product Analysis", "", 1, "L", false, 0, "")
	l.pdf.Ln(20)
}

func (l *layout) scoreCard(score float64) {
	const height = 95.0
	l.ensureSpace(height)

	y := l.pdf.GetY()
	l.pdf.SetFillColor(colorCard.r, colorCard.g, colorCard.b)
	l.pdf.Rect(pageMargin, y, l.width, height, "F")

	l.pdf.SetY(y + 15)
	l.font("", 11, colorMuted)
	l.pdf.CellFormat(l.width, 14, "TRANSPARENCY SCORE", "", 1, "C", false, 0, "")
	l.pdf.Ln(4)

	c := scoreColor(score)
	l.font("B", 32, c)
	l.pdf.CellFormat(l.width, 34, FormatScore(score)+"/10", "", 1, "C", false, 0, "")

	l.font("I", 10, colorMuted)
	l.pdf.CellFormat(l.width, 14, ScoreLabel(score), "", 1, "C", false, 0, "")

	l.pdf.SetY(y + height + 25)
}

// box draws a titled text section on a filled background. The fill is skipped when the
// section cannot fit on a single page.
func (l *layout) box(title string, titleSize float64, titleColor rgb, body string, size, lineH float64, bodyColor, fill rgb) {
	const pad = 15.0
	inner := l.width - 2*pad

	l.pdf.SetFont(fontFamily, "", size)
	lines := 0
	for _, para := range strings.Split(body, "\n") {
		n := len(l.pdf.SplitText(printable(para), inner))
		if n == 0 {
			n = 1
		}
		lines += n
	}
	height := 2*pad + titleSize + 10 + float64(lines)*lineH

	filled := l.ensureSpace(height)
	y := l.pdf.GetY()
	if filled {
		l.pdf.SetFillColor(fill.r, fill.g, fill.b)
		l.pdf.Rect(pageMargin, y, l.width, height, "F")
	}

	l.pdf.SetLeftMargin(pageMargin + pad)
	defer l.pdf.SetLeftMargin(pageMargin)

	l.pdf.SetXY(pageMargin+pad, y+pad)
	l.font("B", titleSize, titleColor)
	l.pdf.CellFormat(inner, titleSize, printable(title), "", 1, "L", false, 0, "")
	l.pdf.Ln(10)

	l.font("", size, bodyColor)
	l.pdf.MultiCell(inner, lineH, printable(body), "", "J", false)

	if filled {
		l.pdf.SetY(y + height)
	}
}

// ensureSpace starts a new page when h does not fit below the cursor. It reports
// whether h fits on a page at all.
func (l *layout) ensureSpace(h float64) bool {
	_, pageH := l.pdf.GetPageSize()
	_, top, _, bottom := l.pdf.GetMargins()
	usable := pageH - top - bottom
	if h > usable {
		return false
	}
	if l.pdf.GetY()+h > pageH-bottom {
		l.pdf.AddPage()
	}
	return true
}

func (l *layout) block(b Block) {
	switch b.Kind {
	case BlockBlankLine:
		l.pdf.Ln(6)
	case BlockHeading:
		l.heading(b.Level, b.Text)
	case BlockHeadingUnderline:
		l.hline(h1RuleLen, 2, colorAccent)
		l.pdf.Ln(10)
	case BlockBullet:
		l.pdf.Ln(2)
		l.spans(listIndent, append([]Span{{Text: "• "}}, b.Spans...))
		l.pdf.Ln(2)
	case BlockNumbered:
		l.pdf.Ln(2)
		l.pdf.SetX(pageMargin + listIndent)
		l.font("", bodySize, colorText)
		l.pdf.MultiCell(l.width-listIndent, bodyLineH, printable(b.Text), "", "L", false)
		l.pdf.Ln(2)
	case BlockRule:
		l.pdf.Ln(10)
		l.hline(l.width, 1, colorRule)
		l.pdf.Ln(10)
	case BlockParagraph:
		l.pdf.Ln(2)
		if len(b.Spans) == 1 && !b.Spans[0].Emphasized {
			l.font("", bodySize, colorText)
			l.pdf.MultiCell(l.width, bodyLineH, printable(b.Spans[0].Text), "", "J", false)
		} else {
			l.spans(0, b.Spans)
		}
		l.pdf.Ln(2)
	}
}

func (l *layout) heading(level int, text string) {
	var (
		before, after, size, lineH float64
		c                          rgb
	)
	switch level {
	case 1:
		before, after, size, lineH, c = 15, 8, 16, 20, colorInk
	case 2:
		before, after, size, lineH, c = 12, 6, 13, 16, colorText
	default:
		before, after, size, lineH, c = 10, 5, 11, 14, colorSubtle
	}
	l.pdf.Ln(before)
	l.font("B", size, c)
	l.pdf.MultiCell(l.width, lineH, printable(text), "", "L", false)
	l.pdf.Ln(after)
}

// spans writes inline runs, switching to bold for emphasized text
func (l *layout) spans(indent float64, spans []Span) {
	l.pdf.SetLeftMargin(pageMargin + indent)
	defer l.pdf.SetLeftMargin(pageMargin)

	l.pdf.SetX(pageMargin + indent)
	for _, s := range spans {
		style := ""
		if s.Emphasized {
			style = "B"
		}
		l.font(style, bodySize, colorText)
		l.pdf.Write(bodyLineH, printable(s.Text))
	}
	l.pdf.Ln(bodyLineH)
}

// ScoreLabel describes a transparency score band
func ScoreLabel(score float64) string {
	switch {
	case score >= 9:
		return "Exceptional Transparency"
	case score >= 7:
		return "High Transparency"
	case score >= 5:
		return "Moderate Transparency"
	case score >= 3:
		return "Low Transparency"
	default:
		return "Very Poor Transparency"
	}
}

// scoreColor returns the display colour for a score band
func scoreColor(score float64) rgb {
	switch {
	case score >= 7:
		return colorScoreHigh
	case score >= 5:
		return colorScoreMid
	default:
		return colorScoreLow
	}
}

// FormatScore prints a score without trailing zeros, so 8 prints as "8" and 7.5 as "7.5"
func FormatScore(score float64) string {
	return strconv.FormatFloat(score, 'f', -1, 64)
}

// FileName returns the download file name for a report title
func FileName(title string) string {
	name := strings.Map(func(r rune) rune {
		switch {
		case r < 0x20, r == 0x7f:
			return -1
		case strings.ContainsRune(`/\:*?"<>|`, r):
			return '_'
		default:
			return r
		}
	}, strings.TrimSpace(title))
	if name == "" {
		name = "report"
	}
	return name + ".pdf"
}
