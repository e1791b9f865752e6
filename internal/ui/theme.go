package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"

	"github.com/ytget/tokbulk/internal/config"
)

// Gradient colors of the gradient theme background
var (
	GradientStart = color.NRGBA{R: 99, G: 102, B: 241, A: 255} // indigo
	GradientEnd   = color.NRGBA{R: 236, G: 72, B: 153, A: 255} // pink
)

// AppTheme is a compact theme with a fixed light, dark or gradient palette.
type AppTheme struct {
	name config.Theme
}

// NewTheme creates the theme for the given name
func NewTheme(name config.Theme) fyne.Theme {
	return &AppTheme{name: name}
}

// variant ignores the system variant, the palette is chosen by the user.
func (t *AppTheme) variant() fyne.ThemeVariant {
	if t.name == config.ThemeLight {
		return theme.VariantLight
	}
	return theme.VariantDark
}

// Color returns theme colors
func (t *AppTheme) Color(name fyne.ThemeColorName, _ fyne.ThemeVariant) color.Color {
	v := t.variant()

	switch name {
	case theme.ColorNameSuccess:
		return color.NRGBA{R: 46, G: 160, B: 67, A: 255}
	case theme.ColorNameError:
		return color.NRGBA{R: 220, G: 38, B: 38, A: 255}
	case theme.ColorNameWarning:
		return color.NRGBA{R: 255, G: 193, B: 7, A: 255}
	case theme.ColorNamePrimary:
		if t.name == config.ThemeGradient {
			return GradientEnd
		}
		return color.NRGBA{R: 25, G: 118, B: 210, A: 255}
	case theme.ColorNameBackground:
		switch t.name {
		case config.ThemeGradient:
			// Transparent so the gradient behind the content shows.
			return color.NRGBA{A: 0}
		case config.ThemeDark:
			return color.NRGBA{R: 18, G: 18, B: 18, A: 255}
		}
		return color.NRGBA{R: 250, G: 250, B: 250, A: 255}
	case theme.ColorNameInputBackground, theme.ColorNameOverlayBackground, theme.ColorNameMenuBackground:
		if t.name == config.ThemeGradient {
			return color.NRGBA{R: 30, G: 27, B: 75, A: 220}
		}
	case theme.ColorNameForeground:
		if v == theme.VariantDark {
			return color.NRGBA{R: 255, G: 255, B: 255, A: 255}
		}
		return color.NRGBA{R: 33, G: 33, B: 33, A: 255}
	}

	return theme.DefaultTheme().Color(name, v)
}

// Font returns theme fonts
func (t *AppTheme) Font(style fyne.TextStyle) fyne.Resource {
	return theme.DefaultTheme().Font(style)
}

// Icon returns theme icons
func (t *AppTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return theme.DefaultTheme().Icon(name)
}

// Size returns theme sizes with compact adjustments
func (t *AppTheme) Size(name fyne.ThemeSizeName) float32 {
	switch name {
	case theme.SizeNamePadding:
		return 3
	case theme.SizeNameInnerPadding:
		return 6
	case theme.SizeNameLineSpacing:
		return 2
	case theme.SizeNameScrollBar:
		return 12
	case theme.SizeNameText:
		return 13
	case theme.SizeNameHeadingText:
		return 18
	case theme.SizeNameSubHeadingText:
		return 14
	case theme.SizeNameCaptionText:
		return 10
	case theme.SizeNameInputRadius:
		return 3
	case theme.SizeNameSelectionRadius:
		return 2
	}

	return theme.DefaultTheme().Size(name)
}

// themeLabelKeys maps themes to their localization keys.
var themeLabelKeys = map[config.Theme]string{
	config.ThemeLight:    KeyThemeLight,
	config.ThemeDark:     KeyThemeDark,
	config.ThemeGradient: KeyThemeGradient,
}
