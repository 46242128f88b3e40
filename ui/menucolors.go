package ui

import "github.com/gdamore/tcell/v2"

// MenuColors defines the sea-toned palette for forms and dialogs.
var MenuColors = struct {
	Border     tcell.Color // Muted blue-gray for borders
	CardBG     tcell.Color // Dark background for input fields
	Hint       tcell.Color // Dim gray for hints
	ButtonBG   tcell.Color // Button background
	ButtonText tcell.Color // Button text
}{
	Border:     tcell.PaletteColor(60),  // Muted blue-gray
	CardBG:     tcell.PaletteColor(236), // Dark gray
	Hint:       tcell.PaletteColor(245), // Dim gray
	ButtonBG:   tcell.PaletteColor(24),  // Deep sea blue
	ButtonText: tcell.PaletteColor(255), // White
}
