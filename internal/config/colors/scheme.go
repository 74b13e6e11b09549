package colors

// ColorScheme defines all configurable color values
type ColorScheme struct {
	// Preset name (e.g., "default", "monochrome")
	Preset string `koanf:"preset" yaml:"preset"`

	// Primary accent color (used for selections, titles, highlights)
	Accent string `koanf:"accent" yaml:"accent"`

	// Board
	ColumnBorder   string `koanf:"column_border" yaml:"column_border"`
	CardBorder     string `koanf:"card_border" yaml:"card_border"`
	SelectedBorder string `koanf:"selected_border" yaml:"selected_border"`
	DragBorder     string `koanf:"drag_border" yaml:"drag_border"` // card being dragged
	DropTarget     string `koanf:"drop_target" yaml:"drop_target"` // column or card under the pointer
	Value          string `koanf:"value" yaml:"value"`             // estimated value

	// Text colors
	Title  string `koanf:"title" yaml:"title"`
	Subtle string `koanf:"subtle" yaml:"subtle"` // Muted/placeholder text
	Normal string `koanf:"normal" yaml:"normal"`

	// Notification colors (foreground/background pairs)
	SuccessFg string `koanf:"success_fg" yaml:"success_fg"`
	SuccessBg string `koanf:"success_bg" yaml:"success_bg"`
	InfoFg    string `koanf:"info_fg" yaml:"info_fg"`
	InfoBg    string `koanf:"info_bg" yaml:"info_bg"`
	WarningFg string `koanf:"warning_fg" yaml:"warning_fg"`
	WarningBg string `koanf:"warning_bg" yaml:"warning_bg"`
	ErrorFg   string `koanf:"error_fg" yaml:"error_fg"`
	ErrorBg   string `koanf:"error_bg" yaml:"error_bg"`

	// Status bar
	StatusBarBg   string `koanf:"status_bar_bg" yaml:"status_bar_bg"`
	StatusBarText string `koanf:"status_bar_text" yaml:"status_bar_text"`
}

// GetPreset returns a preset color scheme by name
func GetPreset(name string) *ColorScheme {
	switch name {
	case "monochrome":
		return Monochrome()
	default:
		return Default()
	}
}

// ApplyDefaults fills in missing color values using the preset as base
func (c *ColorScheme) ApplyDefaults() {
	preset := GetPreset(c.Preset)
	if c.Preset == "" {
		c.Preset = preset.Preset
	}
	src := preset.fields()
	for i, dst := range c.fields() {
		if *dst == "" {
			*dst = *src[i]
		}
	}
}

// MergeFrom overrides the colors set in other. A preset in other replaces the
// whole scheme before the individual colors are applied.
func (c *ColorScheme) MergeFrom(other ColorScheme) {
	if other.Preset != "" {
		*c = *GetPreset(other.Preset)
		c.Preset = other.Preset
	}
	src := other.fields()
	for i, dst := range c.fields() {
		if *src[i] != "" {
			*dst = *src[i]
		}
	}
}

// fields lists every color in a fixed order
func (c *ColorScheme) fields() []*string {
	return []*string{
		&c.Accent,
		&c.ColumnBorder, &c.CardBorder, &c.SelectedBorder, &c.DragBorder, &c.DropTarget, &c.Value,
		&c.Title, &c.Subtle, &c.Normal,
		&c.SuccessFg, &c.SuccessBg, &c.InfoFg, &c.InfoBg, &c.WarningFg, &c.WarningBg, &c.ErrorFg, &c.ErrorBg,
		&c.StatusBarBg, &c.StatusBarText,
	}
}
