package sim

import "github.com/charmbracelet/lipgloss"

var (
	TitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("33"))

	StateStyles = map[string]lipgloss.Style{
		"WORK":    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196")),
		"BREAK":   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42")),
		"WAITING": lipgloss.NewStyle().Bold(true).Blink(true).Foreground(lipgloss.Color("42")),
		"IDLE":    lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	}

	FocusLEDStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	IdleLEDStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("33"))
	RestLEDStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	ProgressLEDStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	OffLEDStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))

	BellStyle  = lipgloss.NewStyle().Bold(true).Background(lipgloss.Color("214")).Foreground(lipgloss.Color("0")).Padding(0, 1)
	LabelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	ValueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	EventStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	ErrorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))

	HelpKeyStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("33"))
	HelpDescStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))

	PanelStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("238")).Padding(0, 2)
)

const (
	ledOn  = "●"
	ledOff = "○"
)

func led(on bool, style lipgloss.Style) string {
	if on {
		return style.Render(ledOn)
	}
	return OffLEDStyle.Render(ledOff)
}
