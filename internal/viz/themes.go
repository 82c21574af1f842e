package viz

import (
	"image/color"

	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/synapse/internal/render"
)

// Theme defines the color scheme for the terminal host
type Theme struct {
	Name     string
	Particle lipgloss.Color
	Hub      lipgloss.Color
	Link     lipgloss.Color
	Accent   lipgloss.Color
	Text     lipgloss.Color
	Muted    lipgloss.Color
	Border   lipgloss.Color
}

// Available themes
var (
	ThemeMono = Theme{
		Name:     "mono",
		Particle: lipgloss.Color("#ffffff"),
		Hub:      lipgloss.Color("#ffffff"),
		Link:     lipgloss.Color("#cccccc"),
		Accent:   lipgloss.Color("#0088ff"),
		Text:     lipgloss.Color("#ffffff"),
		Muted:    lipgloss.Color("#888888"),
		Border:   lipgloss.Color("#444444"),
	}

	ThemeCyberpunk = Theme{
		Name:     "cyberpunk",
		Particle: lipgloss.Color("#00ffff"), // Cyan
		Hub:      lipgloss.Color("#ff00ff"), // Magenta
		Link:     lipgloss.Color("#8844ff"),
		Accent:   lipgloss.Color("#ffff00"),
		Text:     lipgloss.Color("#ffffff"),
		Muted:    lipgloss.Color("#666666"),
		Border:   lipgloss.Color("#444466"),
	}

	ThemeRetroGreen = Theme{
		Name:     "retro",
		Particle: lipgloss.Color("#00ff00"), // Green phosphor
		Hub:      lipgloss.Color("#88ff88"),
		Link:     lipgloss.Color("#00cc00"),
		Accent:   lipgloss.Color("#ffff00"),
		Text:     lipgloss.Color("#00ff00"),
		Muted:    lipgloss.Color("#005500"),
		Border:   lipgloss.Color("#003300"),
	}

	ThemeOcean = Theme{
		Name:     "ocean",
		Particle: lipgloss.Color("#00a8cc"),
		Hub:      lipgloss.Color("#ffd700"),
		Link:     lipgloss.Color("#0077be"), // Ocean blue
		Accent:   lipgloss.Color("#00ff88"),
		Text:     lipgloss.Color("#e0f0ff"),
		Muted:    lipgloss.Color("#4488aa"),
		Border:   lipgloss.Color("#224466"),
	}

	ThemeSunset = Theme{
		Name:     "sunset",
		Particle: lipgloss.Color("#feca57"),
		Hub:      lipgloss.Color("#ff6b6b"), // Coral
		Link:     lipgloss.Color("#ff9ff3"),
		Accent:   lipgloss.Color("#5fd068"),
		Text:     lipgloss.Color("#fff5f5"),
		Muted:    lipgloss.Color("#8b6b8c"),
		Border:   lipgloss.Color("#4d3b4e"),
	}

	// All available themes, in cycling order
	Themes = []Theme{
		ThemeMono,
		ThemeCyberpunk,
		ThemeRetroGreen,
		ThemeOcean,
		ThemeSunset,
	}
)

// GetTheme returns a theme by name, falling back to mono.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeMono
}

// NextTheme returns the theme after name in cycling order.
func NextTheme(name string) Theme {
	for i, t := range Themes {
		if t.Name == name {
			return Themes[(i+1)%len(Themes)]
		}
	}
	return Themes[0]
}

// ThemeNames returns list of available theme names
func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}

// Palette converts the theme into drawing colors.
func (t Theme) Palette() render.Palette {
	return render.Palette{
		Particle: RGBA(t.Particle),
		Hub:      RGBA(t.Hub),
		Link:     RGBA(t.Link),
	}
}

// RGBA parses a #rrggbb lipgloss color. Anything else is white.
func RGBA(c lipgloss.Color) color.RGBA {
	r, g, b := parseHex(string(c))
	return color.RGBA{R: uint8(r), G: uint8(g), B: uint8(b), A: 255}
}
