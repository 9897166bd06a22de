package model

import (
	"fmt"
	"image/color"
)

// Palette is the fixed colorblind-safe cycle (Okabe-Ito plus extensions)
// used to color generated box types. Assignment is positional: the n-th
// distinct type in a generation config gets Palette[n % len(Palette)], so
// regenerating with the same config reproduces the same colors.
var Palette = []string{
	"#E69F00",
	"#56B4E9",
	"#009E73",
	"#F0E442",
	"#0072B2",
	"#D55E00",
	"#CC79A7",
	"#999999",
	"#332288",
	"#117733",
	"#DDCC77",
	"#88CCEE",
	"#44AA99",
	"#AA4499",
	"#DDDDDD",
}

// TypeColor returns the palette color for a type at the given position in
// the generation config.
func TypeColor(typeIndex int) string {
	if typeIndex < 0 {
		typeIndex = 0
	}
	return Palette[typeIndex%len(Palette)]
}

// ParseHexColor converts "#RRGGBB" into an NRGBA with full opacity.
func ParseHexColor(s string) (color.NRGBA, error) {
	var r, g, b uint8
	if _, err := fmt.Sscanf(s, "#%02x%02x%02x", &r, &g, &b); err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid hex color %q: %w", s, err)
	}
	return color.NRGBA{R: r, G: g, B: b, A: 255}, nil
}

// FormatHexColor converts a color back into the "#RRGGBB" form stored on
// boxes. Alpha is dropped; items are always drawn opaque in exports.
func FormatHexColor(c color.NRGBA) string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}
