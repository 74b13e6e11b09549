package colors

// Monochrome returns a black and white color scheme
func Monochrome() *ColorScheme {
	return &ColorScheme{
		Preset: "monochrome",

		Accent: "#FFFFFF",

		ColumnBorder:   "#808080",
		CardBorder:     "#4E4E4E",
		SelectedBorder: "#FFFFFF",
		DragBorder:     "#FFFFFF",
		DropTarget:     "#BCBCBC",
		Value:          "#D0D0D0",

		Title:  "#FFFFFF",
		Subtle: "#6C6C6C",
		Normal: "#D0D0D0",

		SuccessFg: "#FFFFFF",
		SuccessBg: "#303030",
		InfoFg:    "#FFFFFF",
		InfoBg:    "#303030",
		WarningFg: "#FFFFFF",
		WarningBg: "#4E4E4E",
		ErrorFg:   "#000000",
		ErrorBg:   "#FFFFFF",

		StatusBarBg:   "#303030",
		StatusBarText: "#FFFFFF",
	}
}
