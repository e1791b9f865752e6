package ui

import (
	"testing"

	"fyne.io/fyne/v2/theme"

	"github.com/ytget/tokbulk/internal/config"
)

func TestThemeBackgrounds(t *testing.T) {
	for _, name := range config.Themes() {
		th := NewTheme(name)
		_, _, _, a := th.Color(theme.ColorNameBackground, theme.VariantLight).RGBA()

		if name == config.ThemeGradient && a != 0 {
			t.Errorf("gradient background should be transparent, alpha %d", a)
		}
		if name != config.ThemeGradient && a == 0 {
			t.Errorf("%s background should be opaque", name)
		}
	}
}

func TestThemeIgnoresSystemVariant(t *testing.T) {
	dark := NewTheme(config.ThemeDark)
	light := NewTheme(config.ThemeLight)

	if dark.Color(theme.ColorNameForeground, theme.VariantLight) == light.Color(theme.ColorNameForeground, theme.VariantLight) {
		t.Error("dark and light themes should not share the foreground color")
	}
	if got := dark.Size(theme.SizeNameText); got != 13 {
		t.Errorf("expected compact text size 13, got %v", got)
	}
}

func TestThemeLabelKeys(t *testing.T) {
	for _, name := range config.Themes() {
		if _, ok := themeLabelKeys[name]; !ok {
			t.Errorf("no label for theme %s", name)
		}
	}
}
