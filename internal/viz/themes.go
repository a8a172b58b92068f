package viz

import "github.com/charmbracelet/lipgloss"

// Theme colors the chrome around the mesh. Mesh colors always come from the
// value ramp.
type Theme struct {
	Name      string
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Accent    lipgloss.Color
	Text      lipgloss.Color
	Muted     lipgloss.Color
	Warning   lipgloss.Color
}

var Themes = []Theme{
	{
		Name:      "ocean",
		Primary:   lipgloss.Color("#00a8cc"),
		Secondary: lipgloss.Color("#0077be"),
		Accent:    lipgloss.Color("#ffd700"),
		Text:      lipgloss.Color("#e0f0ff"),
		Muted:     lipgloss.Color("#4488aa"),
		Warning:   lipgloss.Color("#ffcc00"),
	},
	{
		Name:      "steel",
		Primary:   lipgloss.Color("#b0bec5"),
		Secondary: lipgloss.Color("#78909c"),
		Accent:    lipgloss.Color("#ff7043"),
		Text:      lipgloss.Color("#eceff1"),
		Muted:     lipgloss.Color("#546e7a"),
		Warning:   lipgloss.Color("#ffa726"),
	},
	{
		Name:      "blueprint",
		Primary:   lipgloss.Color("#ffffff"),
		Secondary: lipgloss.Color("#90caf9"),
		Accent:    lipgloss.Color("#fff176"),
		Text:      lipgloss.Color("#e3f2fd"),
		Muted:     lipgloss.Color("#5c7fa3"),
		Warning:   lipgloss.Color("#ffb74d"),
	},
	{
		Name:      "minimal",
		Primary:   lipgloss.Color("#ffffff"),
		Secondary: lipgloss.Color("#cccccc"),
		Accent:    lipgloss.Color("#0088ff"),
		Text:      lipgloss.Color("#ffffff"),
		Muted:     lipgloss.Color("#888888"),
		Warning:   lipgloss.Color("#ffaa00"),
	},
}

// GetTheme returns a theme by name, falling back to the first one.
func GetTheme(name string) Theme {
	return Themes[themeIndex(name)]
}

func themeIndex(name string) int {
	for i, t := range Themes {
		if t.Name == name {
			return i
		}
	}
	return 0
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}
