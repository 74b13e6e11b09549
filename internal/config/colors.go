package config

import (
	"fmt"
	"slices"
	"strings"

	"github.com/thenoetrevino/funil/internal/config/colors"
)

// ColorPresets are the built-in board themes accepted as theme.preset
var ColorPresets = []string{"default", "monochrome"}

// DefaultColorScheme returns the purple board theme
func DefaultColorScheme() colors.ColorScheme {
	return *colors.Default()
}

// PresetColorScheme returns the built-in theme called name
func PresetColorScheme(name string) (colors.ColorScheme, error) {
	if !slices.Contains(ColorPresets, name) {
		return colors.ColorScheme{}, fmt.Errorf("invalid config: unknown theme preset %q (available: %s)",
			name, strings.Join(ColorPresets, ", "))
	}
	return *colors.GetPreset(name), nil
}
