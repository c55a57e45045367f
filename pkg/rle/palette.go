package rle

import (
	"image/color"
)

// Colour codes used by the device generations.
const (
	CodeBlack            byte = 0x61
	CodeBackground       byte = 0x62
	CodeDarkGray         byte = 0x63
	CodeGray             byte = 0x64
	CodeWhite            byte = 0x65
	CodeMarkerBlack      byte = 0x66
	CodeMarkerDarkGray   byte = 0x67
	CodeMarkerGray       byte = 0x68
	CodeDarkGrayCompat   byte = 0x9d
	CodeGrayCompat       byte = 0xc9
	CodeMarkerDarkCompat byte = 0x9e
	CodeMarkerGrayCompat byte = 0xca
)

// Entry maps one colour code to a display colour.
type Entry struct {
	Code  byte
	Color color.Color
}

// Palette is the colour code table of one device generation.
//
// Palettes are passed as values to the codec. The package level palettes
// are never modified and can be shared between goroutines.
type Palette struct {
	Name string

	// Background is the code for "no ink". It is transparent when layers
	// are composed.
	Background byte

	// Ink is the code written for dark pixels of supplied imagery.
	Ink     byte
	Entries []Entry

	lookup [256]bool
	colors [256]color.Color
}

// NewPalette creates a palette from the given entries.
// The background code is added if it is not listed.
func NewPalette(name string, background, ink byte, entries ...Entry) *Palette {
	p := &Palette{
		Name:       name,
		Background: background,
		Ink:        ink,
		Entries:    entries,
	}
	for _, e := range entries {
		p.lookup[e.Code] = true
		p.colors[e.Code] = e.Color
	}
	if !p.lookup[background] {
		p.lookup[background] = true
		p.colors[background] = color.Transparent
		p.Entries = append(p.Entries, Entry{background, color.Transparent})
	}
	return p
}

// Contains tells if code is part of this palette.
func (p *Palette) Contains(code byte) bool {
	return p.lookup[code]
}

// Color returns the display colour for code.
// The background code and unknown codes are transparent.
func (p *Palette) Color(code byte) color.Color {
	if code == p.Background || !p.lookup[code] {
		return color.Transparent
	}
	return p.colors[code]
}

var (
	black    = color.Gray{0x00}
	darkGray = color.Gray{0x9d}
	gray     = color.Gray{0xc9}
	white    = color.Gray{0xfe}
)

// X is the palette of the first device generation.
var X = NewPalette("X", CodeBackground, CodeBlack,
	Entry{CodeBlack, black},
	Entry{CodeBackground, color.Transparent},
	Entry{CodeDarkGray, darkGray},
	Entry{CodeGray, gray},
	Entry{CodeWhite, white},
	Entry{CodeMarkerBlack, black},
	Entry{CodeMarkerDarkGray, darkGray},
	Entry{CodeMarkerGray, gray},
)

// X2 is the palette of the second generation. It adds the compat grey
// codes that appear in files converted from first generation devices.
var X2 = NewPalette("X2", CodeBackground, CodeBlack,
	Entry{CodeBlack, black},
	Entry{CodeBackground, color.Transparent},
	Entry{CodeDarkGray, darkGray},
	Entry{CodeGray, gray},
	Entry{CodeWhite, white},
	Entry{CodeMarkerBlack, black},
	Entry{CodeMarkerDarkGray, darkGray},
	Entry{CodeMarkerGray, gray},
	Entry{CodeDarkGrayCompat, darkGray},
	Entry{CodeGrayCompat, gray},
	Entry{CodeMarkerDarkCompat, darkGray},
	Entry{CodeMarkerGrayCompat, gray},
)
