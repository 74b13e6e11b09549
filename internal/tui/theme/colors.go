package theme

import (
	"github.com/thenoetrevino/funil/internal/config"
	"github.com/thenoetrevino/funil/internal/config/colors"
)

// Colors holds the current theme colors, initialized by Init
var (
	Accent         string
	ColumnBorder   string
	CardBorder     string
	SelectedBorder string
	DragBorder     string
	DropTarget     string
	Value          string
	Title          string
	Subtle         string
	Normal         string
	SuccessFg      string
	SuccessBg      string
	InfoFg         string
	InfoBg         string
	WarningFg      string
	WarningBg      string
	ErrorFg        string
	ErrorBg        string
	StatusBarBg    string
	StatusBarText  string
)

func init() {
	Init(config.DefaultColorScheme())
}

// Init initializes the theme colors from the given color scheme
func Init(scheme colors.ColorScheme) {
	Accent = scheme.Accent
	ColumnBorder = scheme.ColumnBorder
	CardBorder = scheme.CardBorder
	SelectedBorder = scheme.SelectedBorder
	DragBorder = scheme.DragBorder
	DropTarget = scheme.DropTarget
	Value = scheme.Value
	Title = scheme.Title
	Subtle = scheme.Subtle
	Normal = scheme.Normal
	SuccessFg = scheme.SuccessFg
	SuccessBg = scheme.SuccessBg
	InfoFg = scheme.InfoFg
	InfoBg = scheme.InfoBg
	WarningFg = scheme.WarningFg
	WarningBg = scheme.WarningBg
	ErrorFg = scheme.ErrorFg
	ErrorBg = scheme.ErrorBg
	StatusBarBg = scheme.StatusBarBg
	StatusBarText = scheme.StatusBarText
}
