package sim

import "github.com/charmbracelet/bubbles/key"

// KeyMap holds the simulator's key bindings.
type KeyMap struct {
	Press key.Binding
	Quit  key.Binding
}

// Keys are the default bindings.
var Keys = KeyMap{
	Press: key.NewBinding(
		key.WithKeys(" ", "enter"),
		key.WithHelp("space", "press button"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// ShortHelp returns bindings for the footer.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Press, k.Quit}
}
