package render

import (
	"strconv"
	"strings"
)

// Terminal control sequences.
const (
	CSI   = "\x1b["
	Reset = CSI + "0m"

	ClearScreen  = CSI + "2J"
	HideCursor   = CSI + "?25l"
	ShowCursor   = CSI + "?25h"
	AltScreenOn  = CSI + "?1049h"
	AltScreenOff = CSI + "?1049l"
	EnterPreview = AltScreenOn + HideCursor + ClearScreen
	LeavePreview = ShowCursor + AltScreenOff
)

// CellWidth is how many screen columns each world tile occupies, which
// keeps tiles roughly square.
const CellWidth = 2

// MoveTo positions the cursor at row, col (1-based).
func MoveTo(row, col int) string {
	return CSI + strconv.Itoa(row) + ";" + strconv.Itoa(col) + "H"
}

func writeRGB(sb *strings.Builder, r, g, b uint8) {
	sb.WriteString(strconv.Itoa(int(r)))
	sb.WriteByte(';')
	sb.WriteString(strconv.Itoa(int(g)))
	sb.WriteByte(';')
	sb.WriteString(strconv.Itoa(int(b)))
}

// WriteCellSGR writes one cell with a full SGR reset so no attribute
// leaks into the next cell.
func WriteCellSGR(sb *strings.Builder, c Cell) {
	sb.WriteString(CSI + "0")
	if c.Bold {
		sb.WriteString(";1")
	}
	sb.WriteString(";38;2;")
	writeRGB(sb, c.FgR, c.FgG, c.FgB)
	sb.WriteString(";48;2;")
	writeRGB(sb, c.BgR, c.BgG, c.BgB)
	sb.WriteByte('m')
	sb.WriteRune(c.Ch)
}

// ansiPalette is the VGA palette for SGR 30-37 and 90-97.
var ansiPalette = map[int][3]uint8{
	30: {0, 0, 0},
	31: {170, 0, 0},
	32: {0, 170, 0},
	33: {170, 170, 0},
	34: {0, 0, 170},
	35: {170, 0, 170},
	36: {0, 170, 170},
	37: {170, 170, 170},
	90: {85, 85, 85},
	91: {255, 85, 85},
	92: {85, 255, 85},
	93: {255, 255, 85},
	94: {85, 85, 255},
	95: {255, 85, 255},
	96: {85, 255, 255},
	97: {255, 255, 255},
}

// AnsiToRGB converts a basic ANSI foreground code to RGB. Unknown codes
// map to light gray.
func AnsiToRGB(code int) (uint8, uint8, uint8) {
	c, ok := ansiPalette[code]
	if !ok {
		c = ansiPalette[37]
	}
	return c[0], c[1], c[2]
}
