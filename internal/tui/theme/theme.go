// Package theme defines color themes for the energipro TUI.
package theme

import "github.com/charmbracelet/lipgloss"

// Theme defines the color roles used throughout the TUI.
type Theme struct {
	Name         string
	Background   lipgloss.Color // Main app background
	Surface      lipgloss.Color // Card/panel backgrounds
	SurfaceHover lipgloss.Color // Highlighted surface (active tab, selected row)
	Border       lipgloss.Color // Subtle borders
	BorderAccent lipgloss.Color // Focused card borders
	TextDim      lipgloss.Color // Hints, disabled and locked figures
	TextMuted    lipgloss.Color // Labels, metadata
	TextPrimary  lipgloss.Color
	Accent       lipgloss.Color // Brand color, active states
	AccentBright lipgloss.Color
	Energy       lipgloss.Color // kWh figures and consumption bars
	Money        lipgloss.Color // currency figures
	Forecast     lipgloss.Color // estimated values and the forecast bar
	Premium      lipgloss.Color // paid-plan highlights
	Green        lipgloss.Color
	Yellow       lipgloss.Color
	Orange       lipgloss.Color
	Red          lipgloss.Color
}

// Active is the currently selected theme.
var Active = Energipro

// Energipro is the default theme, built around the brand's blue-to-green
// gradient.
var Energipro = Theme{
	Name:         "energipro",
	Background:   lipgloss.Color("#0B1220"),
	Surface:      lipgloss.Color("#111A2E"),
	SurfaceHover: lipgloss.Color("#1B2741"),
	Border:       lipgloss.Color("#2A3A5C"),
	BorderAccent: lipgloss.Color("#3B82F6"),
	TextDim:      lipgloss.Color("#52607A"),
	TextMuted:    lipgloss.Color("#94A3B8"),
	TextPrimary:  lipgloss.Color("#F1F5F9"),
	Accent:       lipgloss.Color("#3B82F6"),
	AccentBright: lipgloss.Color("#60A5FA"),
	Energy:       lipgloss.Color("#22C55E"),
	Money:        lipgloss.Color("#4ADE80"),
	Forecast:     lipgloss.Color("#A855F7"),
	Premium:      lipgloss.Color("#EC4899"),
	Green:        lipgloss.Color("#22C55E"),
	Yellow:       lipgloss.Color("#EAB308"),
	Orange:       lipgloss.Color("#F97316"),
	Red:          lipgloss.Color("#EF4444"),
}

// FlexokiDark is a warm, paper-inspired dark theme.
var FlexokiDark = Theme{
	Name:         "flexoki-dark",
	Background:   lipgloss.Color("#100F0F"),
	Surface:      lipgloss.Color("#1C1B1A"),
	SurfaceHover: lipgloss.Color("#282726"),
	Border:       lipgloss.Color("#403E3C"),
	BorderAccent: lipgloss.Color("#3AA99F"),
	TextDim:      lipgloss.Color("#575653"),
	TextMuted:    lipgloss.Color("#878580"),
	TextPrimary:  lipgloss.Color("#FFFCF0"),
	Accent:       lipgloss.Color("#3AA99F"),
	AccentBright: lipgloss.Color("#5BC8BE"),
	Energy:       lipgloss.Color("#D0A215"),
	Money:        lipgloss.Color("#879A39"),
	Forecast:     lipgloss.Color("#8B7EC8"),
	Premium:      lipgloss.Color("#CE5D97"),
	Green:        lipgloss.Color("#879A39"),
	Yellow:       lipgloss.Color("#D0A215"),
	Orange:       lipgloss.Color("#DA702C"),
	Red:          lipgloss.Color("#D14D41"),
}

// TokyoNight is a cool blue/purple theme.
var TokyoNight = Theme{
	Name:         "tokyo-night",
	Background:   lipgloss.Color("#1A1B26"),
	Surface:      lipgloss.Color("#24283B"),
	SurfaceHover: lipgloss.Color("#343A52"),
	Border:       lipgloss.Color("#565F89"),
	BorderAccent: lipgloss.Color("#7AA2F7"),
	TextDim:      lipgloss.Color("#565F89"),
	TextMuted:    lipgloss.Color("#A9B1D6"),
	TextPrimary:  lipgloss.Color("#C0CAF5"),
	Accent:       lipgloss.Color("#7AA2F7"),
	AccentBright: lipgloss.Color("#A9C1FF"),
	Energy:       lipgloss.Color("#E0AF68"),
	Money:        lipgloss.Color("#9ECE6A"),
	Forecast:     lipgloss.Color("#BB9AF7"),
	Premium:      lipgloss.Color("#FF79C6"),
	Green:        lipgloss.Color("#9ECE6A"),
	Yellow:       lipgloss.Color("#E0AF68"),
	Orange:       lipgloss.Color("#FF9E64"),
	Red:          lipgloss.Color("#F7768E"),
}

// Terminal uses ANSI 16 colors only.
var Terminal = Theme{
	Name:         "terminal",
	Background:   lipgloss.Color("0"),
	Surface:      lipgloss.Color("0"),
	SurfaceHover: lipgloss.Color("8"),
	Border:       lipgloss.Color("8"),
	BorderAccent: lipgloss.Color("4"),
	TextDim:      lipgloss.Color("8"),
	TextMuted:    lipgloss.Color("7"),
	TextPrimary:  lipgloss.Color("15"),
	Accent:       lipgloss.Color("4"),
	AccentBright: lipgloss.Color("12"),
	Energy:       lipgloss.Color("2"),
	Money:        lipgloss.Color("10"),
	Forecast:     lipgloss.Color("5"),
	Premium:      lipgloss.Color("13"),
	Green:        lipgloss.Color("2"),
	Yellow:       lipgloss.Color("3"),
	Orange:       lipgloss.Color("11"),
	Red:          lipgloss.Color("1"),
}

// All available themes.
var All = []Theme{Energipro, FlexokiDark, TokyoNight, Terminal}

// ByName returns a theme by its name, defaulting to Energipro.
func ByName(name string) Theme {
	for _, t := range All {
		if t.Name == name {
			return t
		}
	}
	return Energipro
}

// Names lists every theme name.
func Names() []string {
	names := make([]string, len(All))
	for i, t := range All {
		names[i] = t.Name
	}
	return names
}

// SetActive sets the active theme by name.
func SetActive(name string) {
	Active = ByName(name)
}
