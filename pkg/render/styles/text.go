package styles

import (
	"bytes"
	"encoding/xml"
)

const (
	fontHeightRatio = 0.35
	fontWidthRatio  = 0.85
	fontCharWidth   = 0.55
	fontSizeMin     = 8.0
	fontSizeMax     = 28.0
)

// FontSize picks a label size that fits the cell.
func FontSize(c Cell) float64 { return fontSizeFor(c.W, c.H, len(c.Label)) }

func fontSizeFor(availWidth, availHeight float64, textLen int) float64 {
	n := max(1, textLen)
	byHeight := availHeight * fontHeightRatio
	byWidth := (availWidth * fontWidthRatio) / (float64(n) * fontCharWidth)
	return max(fontSizeMin, min(fontSizeMax, min(byHeight, byWidth)))
}

// TruncateLabel shortens the label with ".." when it cannot fit at FontSize.
func TruncateLabel(c Cell) string {
	charWidth := FontSize(c) * fontCharWidth
	maxChars := max(int(c.W*fontWidthRatio/charWidth), 3)
	if len(c.Label) <= maxChars {
		return c.Label
	}
	return c.Label[:maxChars-2] + ".."
}

func EscapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
