// Package ui provides the StowPlan application UI components.
//
// This file defines a custom compact Fyne theme for a dense planning layout.

package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// StowTheme wraps the default Fyne theme with compact sizing overrides so
// the type table, the plan canvas, and the metrics line fit one screen.
type StowTheme struct {
	base    fyne.Theme
	variant fyne.ThemeVariant
	forced  bool
}

// NewStowTheme creates a StowTheme that follows the system light/dark variant.
func NewStowTheme() *StowTheme {
	return &StowTheme{base: theme.DefaultTheme()}
}

// NewStowThemeWithVariant creates a StowTheme pinned to a specific variant.
func NewStowThemeWithVariant(variant fyne.ThemeVariant) *StowTheme {
	return &StowTheme{
		base:    theme.DefaultTheme(),
		variant: variant,
		forced:  true,
	}
}

// ThemeForName maps a configured theme name to a theme instance.
// Unknown names follow the system variant.
func ThemeForName(name string) *StowTheme {
	switch name {
	case "light":
		return NewStowThemeWithVariant(theme.VariantLight)
	case "dark":
		return NewStowThemeWithVariant(theme.VariantDark)
	default:
		return NewStowTheme()
	}
}

// Color delegates to the base theme, substituting the pinned variant when set.
func (t *StowTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	if t.forced {
		variant = t.variant
	}
	return t.base.Color(name, variant)
}

// Font delegates to the base theme.
func (t *StowTheme) Font(style fyne.TextStyle) fyne.Resource {
	return t.base.Font(style)
}

// Icon delegates to the base theme.
func (t *StowTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return t.base.Icon(name)
}

// Size returns compact sizing overrides for a dense layout.
func (t *StowTheme) Size(name fyne.ThemeSizeName) float32 {
	switch name {
	case theme.SizeNameText:
		return 12
	case theme.SizeNameCaptionText:
		return 9
	case theme.SizeNameHeadingText:
		return 20
	case theme.SizeNameSubHeadingText:
		return 15
	case theme.SizeNamePadding:
		return 3
	case theme.SizeNameInnerPadding:
		return 6
	case theme.SizeNameInlineIcon:
		return 16
	default:
		return t.base.Size(name)
	}
}
