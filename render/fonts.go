package render

import (
	"embed"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/go-pdf/fpdf"
)

//go:embed fonts/*.ttf
var fontFiles embed.FS

// DejaVu covers Latin, Greek, Cyrillic, arrows, math operators and dingbats
var fontStyles = []struct {
	style string
	file  string
}{
	{"", "fonts/DejaVuSansCondensed.ttf"},
	{"B", "fonts/DejaVuSansCondensed-Bold.ttf"},
	{"I", "fonts/DejaVuSansCondensed-Oblique.ttf"},
}

// registerFonts adds the embedded UTF-8 font family under fontFamily
func registerFonts(pdf *fpdf.Fpdf) error {
	for _, face := range fontStyles {
		data, err := fontFiles.ReadFile(face.file)
		if err != nil {
			return fmt.Errorf("failed to read font %s: %w", face.file, err)
		}
		pdf.AddUTF8FontFromBytes(fontFamily, face.style, data)
	}
	if err := pdf.Error(); err != nil {
		return fmt.Errorf("failed to register fonts: %w", err)
	}
	return nil
}

// printable prepares text for the PDF writer, which only encodes the Basic
// Multilingual Plane. Tabs become spaces. Runes outside the plane, invalid bytes and
// other control characters except newlines become U+FFFD.
func printable(s string) string {
	clean := true
	for _, r := range s {
		if r == utf8.RuneError || r > 0xFFFF || (unicode.IsControl(r) && r != '\n') {
			clean = false
			break
		}
	}
	if clean {
		return s
	}

	return strings.Map(func(r rune) rune {
		switch {
		case r == '\t':
			return ' '
		case r > 0xFFFF, unicode.IsControl(r) && r != '\n':
			return unicode.ReplacementChar
		}
		return r
	}, strings.ToValidUTF8(s, string(unicode.ReplacementChar)))
}
