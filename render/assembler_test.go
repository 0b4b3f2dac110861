package render

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock() time.Time {
	return time.Date(2025, time.March, 14, 10, 0, 0, 0, time.UTC)
}

func TestAssembler_Render(t *testing.T) {
	a := NewAssembler(WithClock(fixedClock))

	doc := ReportDocument{
		Title:             "Acme Kettle Transparency Report",
		TransparencyScore: 7.5,
		Summary:           "Strong sourcing disclosure.\nLimited third-party testing.",
		Body: strings.Join([]string{
			"# Overview",
			"The kettle is made of **stainless steel** and BPA-free plastic.",
			"",
			"## Sourcing",
			"- **Origin:** Shenzhen",
			"* Assembly: Vietnam",
			"1. ISO 9001 certified",
			"---",
			"### Notes",
			"Unbalanced **marker",
		}, "\n"),
	}

	var buf bytes.Buffer
	require.NoError(t, a.Render(&buf, doc))

	out := buf.Bytes()
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")), "output should be a PDF")
	assert.Contains(t, string(out[len(out)-16:]), "%%EOF")
}

func TestAssembler_LongBodyPaginates(t *testing.T) {
	a := NewAssembler(WithClock(fixedClock), WithProductName("Test Generator"))

	var body strings.Builder
	for i := 0; i < 400; i++ {
		body.WriteString("- **Item** with a reasonably long description that wraps across the page width\n")
	}

	var buf bytes.Buffer
	err := a.Render(&buf, ReportDocument{
		Title:             "Long",
		TransparencyScore: 2,
		Summary:           strings.Repeat("Summary sentence. ", 400),
		Body:              body.String(),
	})
	require.NoError(t, err)
	assert.Greater(t, bytes.Count(buf.Bytes(), []byte("/Type /Page\n")), 1)
}

// pdfText encodes s the way text operators appear in an uncompressed content stream
// written with the UTF-8 font: UTF-16BE with string delimiters escaped.
func pdfText(s string) []byte {
	b := make([]byte, 0, 2*len(s))
	for _, r := range s {
		b = append(b, byte(r>>8), byte(r))
	}
	esc := strings.NewReplacer(`\`, `\\`, "(", `\(`, ")", `\)`, "\r", `\r`)
	return []byte(esc.Replace(string(b)))
}

func renderPlain(t *testing.T, doc ReportDocument, opts ...AssemblerOption) []byte {
	t.Helper()
	opts = append([]AssemblerOption{WithClock(fixedClock), WithCompression(false)}, opts...)
	var buf bytes.Buffer
	require.NoError(t, NewAssembler(opts...).Render(&buf, doc))
	return buf.Bytes()
}

func TestAssembler_NonLatinText(t *testing.T) {
	out := renderPlain(t, ReportDocument{
		Title:             "Чайник",
		TransparencyScore: 6,
		Summary:           "Score ≥ 5",
		Body: strings.Join([]string{
			"## Συσκευή",
			"- Origin → Shenzhen",
			"Certified ✓",
		}, "\n"),
	})

	for _, word := range []string{"Чайник", "≥", "Συσκευή", "→", "✓"} {
		assert.True(t, bytes.Contains(out, pdfText(word)), "missing %q", word)
	}
}

func TestAssembler_OutsideBMPDoesNotPanic(t *testing.T) {
	var out []byte
	assert.NotPanics(t, func() {
		out = renderPlain(t, ReportDocument{
			Title:   "Kettle \U0001FAD6",
			Summary: "Great \U0001F600 value\xff",
			Body:    "- Emoji \U0001F525 bullet",
		})
	})
	assert.True(t, bytes.Contains(out, pdfText("\uFFFD")))
}

func TestAssembler_LayoutOrder(t *testing.T) {
	out := renderPlain(t, ReportDocument{
		Title:             "Kettle",
		TransparencyScore: 7.5,
		Summary:           "Sierra",
		Body: strings.Join([]string{
			"# Alpha",
			"Bravo",
			"- Charlie",
			"1. Delta",
			"### Echo",
			"Plain **Foxtrot**",
		}, "\n"),
	}, WithDisclaimer("Verify independently."))

	order := []string{
		"High Transparency",
		"EXECUTIVE SUMMARY",
		"Sierra",
		"DETAILED ANALYSIS",
		"Alpha",
		"Bravo",
		"Charlie",
		"Delta",
		"Echo",
		"Foxtrot",
		"AI-GENERATED REPORT DISCLAIMER",
		"Page 1 of ",
	}
	last := -1
	for _, text := range order {
		idx := bytes.Index(out, pdfText(text))
		require.GreaterOrEqual(t, idx, 0, "missing %q", text)
		assert.Greater(t, idx, last, "%q out of order", text)
		last = idx
	}

	assert.True(t, bytes.Contains(out, pdfText("Page 1 of 1")))
	assert.False(t, bytes.Contains(out, pdfText("{nb}")))
	assert.True(t, bytes.Contains(out, pdfText("•")))
}

func TestPrintable(t *testing.T) {
	assert.Equal(t, "Чайник ≥ 5", printable("Чайник ≥ 5"))
	assert.Equal(t, "a\uFFFDb", printable("a\U0001F600b"))
	assert.Equal(t, "a\uFFFDb", printable("a\xffb"))
	assert.Equal(t, "a b\nc", printable("a\tb\nc"))
}

func TestAssembler_DegenerateInput(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewAssembler().Render(&buf, ReportDocument{}))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

func TestScoreLabel(t *testing.T) {
	tests := []struct {
		score float64
		want  string
	}{
		{10, "Exceptional Transparency"},
		{9, "Exceptional Transparency"},
		{8.9, "High Transparency"},
		{7, "High Transparency"},
		{5, "Moderate Transparency"},
		{3, "Low Transparency"},
		{2.9, "Very Poor Transparency"},
		{-1, "Very Poor Transparency"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ScoreLabel(tt.score), "score %v", tt.score)
	}
}

func TestScoreColor(t *testing.T) {
	assert.Equal(t, colorScoreHigh, scoreColor(7))
	assert.Equal(t, colorScoreMid, scoreColor(6.9))
	assert.Equal(t, colorScoreMid, scoreColor(5))
	assert.Equal(t, colorScoreLow, scoreColor(4.99))
}

func TestFormatScore(t *testing.T) {
	assert.Equal(t, "8", FormatScore(8))
	assert.Equal(t, "7.5", FormatScore(7.5))
	assert.Equal(t, "0", FormatScore(0))
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "Acme Report.pdf", FileName("  Acme Report "))
	assert.Equal(t, "a_b_c.pdf", FileName("a/b\\c"))
	assert.Equal(t, "report.pdf", FileName(""))
	assert.Equal(t, "tab.pdf", FileName("t\tab"))
}
