package config

// KeyMappings defines all configurable key bindings
type KeyMappings struct {
	// Cards
	GrabCard     string `koanf:"grab_card" yaml:"grab_card"`
	DropCard     string `koanf:"drop_card" yaml:"drop_card"`
	CancelDrag   string `koanf:"cancel_drag" yaml:"cancel_drag"`
	WhatsApp     string `koanf:"whatsapp" yaml:"whatsapp"`
	MoveCardUp   string `koanf:"move_card_up" yaml:"move_card_up"`
	MoveCardDown string `koanf:"move_card_down" yaml:"move_card_down"`

	// Navigation
	PrevColumn string `koanf:"prev_column" yaml:"prev_column"`
	NextColumn string `koanf:"next_column" yaml:"next_column"`
	PrevCard   string `koanf:"prev_card" yaml:"prev_card"`
	NextCard   string `koanf:"next_card" yaml:"next_card"`

	// Views
	ToggleDashboard string `koanf:"toggle_dashboard" yaml:"toggle_dashboard"`
	Reload          string `koanf:"reload" yaml:"reload"`

	// Other
	ShowHelp string `koanf:"show_help" yaml:"show_help"`
	Quit     string `koanf:"quit" yaml:"quit"`
}

// DefaultKeyMappings returns the default key mappings
func DefaultKeyMappings() KeyMappings {
	return KeyMappings{
		// Cards
		GrabCard:     "space",
		DropCard:     "enter",
		CancelDrag:   "esc",
		WhatsApp:     "w",
		MoveCardUp:   "K",
		MoveCardDown: "J",

		// Navigation
		PrevColumn: "h",
		NextColumn: "l",
		PrevCard:   "k",
		NextCard:   "j",

		// Views
		ToggleDashboard: "tab",
		Reload:          "r",

		// Other
		ShowHelp: "?",
		Quit:     "q",
	}
}

// defaults returns the key mappings as koanf default keys
func (k KeyMappings) defaults() map[string]any {
	return map[string]any{
		"key_mappings.grab_card":        k.GrabCard,
		"key_mappings.drop_card":        k.DropCard,
		"key_mappings.cancel_drag":      k.CancelDrag,
		"key_mappings.whatsapp":         k.WhatsApp,
		"key_mappings.move_card_up":     k.MoveCardUp,
		"key_mappings.move_card_down":   k.MoveCardDown,
		"key_mappings.prev_column":      k.PrevColumn,
		"key_mappings.next_column":      k.NextColumn,
		"key_mappings.prev_card":        k.PrevCard,
		"key_mappings.next_card":        k.NextCard,
		"key_mappings.toggle_dashboard": k.ToggleDashboard,
		"key_mappings.reload":           k.Reload,
		"key_mappings.show_help":        k.ShowHelp,
		"key_mappings.quit":             k.Quit,
	}
}
