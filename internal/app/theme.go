package app

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// ViewerTheme darkens the chrome around the image area. Radiographs are read
// against a dark surround, so the light variant is never used.
type ViewerTheme struct{}

var _ fyne.Theme = (*ViewerTheme)(nil)

func (t *ViewerTheme) Color(name fyne.ThemeColorName, _ fyne.ThemeVariant) color.Color {
	switch name {
	case theme.ColorNameBackground:
		return color.NRGBA{R: 0x12, G: 0x14, B: 0x16, A: 0xFF}
	case theme.ColorNamePrimary:
		return color.NRGBA{R: 0x00, G: 0xAC, B: 0xC1, A: 0xFF} // Cyan accent
	case theme.ColorNameSelection:
		return color.NRGBA{R: 0x00, G: 0xAC, B: 0xC1, A: 0x60}
	case theme.ColorNameScrollBar:
		return color.NRGBA{R: 0x60, G: 0x60, B: 0x60, A: 0xFF}
	default:
		return theme.DefaultTheme().Color(name, theme.VariantDark)
	}
}

func (t *ViewerTheme) Font(style fyne.TextStyle) fyne.Resource {
	return theme.DefaultTheme().Font(style)
}

func (t *ViewerTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return theme.DefaultTheme().Icon(name)
}

func (t *ViewerTheme) Size(name fyne.ThemeSizeName) float32 {
	switch name {
	case theme.SizeNameScrollBar:
		return 14
	default:
		return theme.DefaultTheme().Size(name)
	}
}
